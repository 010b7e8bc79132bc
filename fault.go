package microfsm

import (
	"errors"
	"fmt"
)

// Caller contract violations
var (
	ErrNilMachine          = errors.New("machine is nil")
	ErrNilState            = errors.New("state is nil")
	ErrZeroTransitionBound = errors.New("max transitions must be greater than zero")
	ErrReservedSignal      = errors.New("reserved signal dispatched")
	ErrNotStarted          = errors.New("machine not started")
	ErrAlreadyStarted      = errors.New("machine already started")
)

// State handler contract violations
var (
	ErrInitNoTransition = errors.New("initial state did not transition on init")
	ErrExitTransition   = errors.New("exit handler requested a transition")
	ErrExitError        = errors.New("exit handler returned error")
	ErrHandlerError     = errors.New("handler returned error")
	ErrTransitionLimit  = errors.New("max transitions exceeded")
	ErrForgedTransition = errors.New("transition status returned without Tran")
	ErrStrayTransition  = errors.New("tran called but transition status not returned")
)

// FaultClass separates faults caused by the code driving a machine from
// faults caused by its state handlers
type FaultClass int

const (
	// ClassCaller covers bad arguments and lifecycle misuse
	ClassCaller FaultClass = iota
	// ClassHandler covers state handlers breaking the dispatch protocol
	ClassHandler
)

func (c FaultClass) String() string {
	if c == ClassCaller {
		return "caller"
	}
	return "handler"
}

// Fault describes a violated precondition or invariant. Faults are not
// recoverable: once a machine faults it never invokes a handler again.
type Fault struct {
	Err         error  // One of the Err* sentinels
	Op          string // "new", "begin", "dispatch" or "tran"
	State       string // State being executed, if any
	Signal      Signal // Signal being delivered, if any
	Transitions int    // Chained transitions completed in this call
}

func (f *Fault) Error() string {
	msg := fmt.Sprintf("microfsm: %s: %v", f.Op, f.Err)
	if f.State != "" {
		msg += fmt.Sprintf(" (state %q, signal %s)", f.State, f.Signal)
	}
	return msg
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// Class reports whether the fault was caused by the caller or a handler
func (f *Fault) Class() FaultClass {
	switch f.Err {
	case ErrNilState:
		// a handler passed it to Tran or left a chain on it
		if f.Op == "tran" || f.Transitions > 0 {
			return ClassHandler
		}
		return ClassCaller
	case ErrNilMachine, ErrZeroTransitionBound, ErrReservedSignal, ErrNotStarted, ErrAlreadyStarted:
		return ClassCaller
	}
	return ClassHandler
}

// FaultHandler is invoked exactly once when a machine faults. Production
// handlers are expected not to return (reset, halt, panic). A handler that
// does return leaves the machine halted.
type FaultHandler func(f *Fault)

// PanicOnFault panics with the fault
func PanicOnFault(f *Fault) {
	panic(f)
}

// DefaultFaultHandler is used by machines built without WithFaultHandler and
// for faults raised on a nil *Machine
var DefaultFaultHandler FaultHandler = PanicOnFault
