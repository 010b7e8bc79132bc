package microfsm

import (
	"log/slog"
)

// Machine is a flat state machine driven synchronously by Begin and Dispatch.
// It is not safe for concurrent use; see Runner for a serialising driver.
type Machine struct {
	current        *State
	maxTransitions int
	started        bool

	// Bookkeeping for the call and handler invocation in progress
	op       string
	running  *State
	signal   Signal
	tranDone bool

	halt *Fault

	data                any
	logger              *slog.Logger
	onFault             FaultHandler
	stateChangeCallback func(from, to *State)
}

// MachineOption is a functional option for configuring a Machine
type MachineOption func(*Machine)

// WithLogger sets the logger for the machine
func WithLogger(logger *slog.Logger) MachineOption {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithData sets application data reachable from handlers via Machine.Data
func WithData(data any) MachineOption {
	return func(m *Machine) {
		m.data = data
	}
}

// WithFaultHandler sets the handler invoked when the machine faults
func WithFaultHandler(fn FaultHandler) MachineOption {
	return func(m *Machine) {
		if fn != nil {
			m.onFault = fn
		}
	}
}

// WithStateChangeCallback sets a callback invoked after Begin or Dispatch
// settles in a different state than the one it started from
func WithStateChangeCallback(fn func(from, to *State)) MachineOption {
	return func(m *Machine) {
		m.stateChangeCallback = fn
	}
}

// New constructs a machine in its initial state. The initial state is not
// invoked until Begin. maxTransitions bounds the number of chained
// entry-triggered transitions a single Begin or Dispatch may take.
func New(initial *State, maxTransitions int, opts ...MachineOption) (*Machine, error) {
	m := &Machine{
		logger:  Logger,
		onFault: DefaultFaultHandler,
	}
	for _, opt := range opts {
		opt(m)
	}

	if !initial.present() {
		return nil, m.raise(&Fault{Op: "new", Err: ErrNilState})
	}
	if maxTransitions <= 0 {
		return nil, m.raise(&Fault{Op: "new", Err: ErrZeroTransitionBound, State: initial.Name()})
	}

	m.current = initial
	m.maxTransitions = maxTransitions
	return m, nil
}

// Begin runs the initial state with the Init signal, which must transition,
// then enters the resulting state and resolves any transitions its entry
// requests. It must be called exactly once, before any Dispatch.
func (m *Machine) Begin() error {
	if m == nil {
		return nilMachineFault("begin")
	}
	if m.halt != nil {
		return m.halt
	}
	m.op = "begin"
	if err := m.checkConstructed("begin"); err != nil {
		return err
	}
	if m.started {
		return m.raise(&Fault{Op: "begin", Err: ErrAlreadyStarted, State: m.current.Name()})
	}
	m.started = true

	from := m.current
	m.log().Debug("beginning machine", "state", from)

	status, err := m.invoke(from, eventInit)
	if err != nil {
		return err
	}
	if status != StatusTransition {
		return m.raise(&Fault{Op: "begin", Err: ErrInitNoTransition, State: from.Name(), Signal: SignalInit})
	}

	prev := m.current
	m.log().Debug("entering state", "state", prev)
	status, err = m.invoke(prev, eventEntry)
	if err != nil {
		return err
	}

	if err := m.resolve("begin", prev, status); err != nil {
		return err
	}
	m.notifyChange(from)
	return nil
}

// Dispatch delivers an application event to the current state and resolves
// the chain of transitions it causes
func (m *Machine) Dispatch(e Event) error {
	if m == nil {
		return nilMachineFault("dispatch")
	}
	if m.halt != nil {
		return m.halt
	}
	m.op = "dispatch"
	if err := m.checkConstructed("dispatch"); err != nil {
		return err
	}
	if !m.started {
		return m.raise(&Fault{Op: "dispatch", Err: ErrNotStarted, State: m.current.Name(), Signal: e.Signal})
	}
	if e.Signal.Reserved() {
		return m.raise(&Fault{Op: "dispatch", Err: ErrReservedSignal, State: m.current.Name(), Signal: e.Signal})
	}

	from := m.current
	m.log().Debug("processing event", "signal", e.Signal, "state", from)

	status, err := m.invoke(from, e)
	if err != nil {
		return err
	}
	if status == StatusIgnored {
		m.log().Debug("event ignored", "signal", e.Signal, "state", from)
	}

	if err := m.resolve("dispatch", from, status); err != nil {
		return err
	}
	m.notifyChange(from)
	return nil
}

// resolve runs the exit/entry pairs of a transition chain. prev is the state
// that just ran and status what it returned.
func (m *Machine) resolve(op string, prev *State, status Status) error {
	n := 0
	for status == StatusTransition && m.current.present() && n < m.maxTransitions {
		m.log().Debug("exiting state", "state", prev, "next", m.current)
		exitStatus, err := m.invoke(prev, eventExit)
		if err != nil {
			return err
		}
		switch exitStatus {
		case StatusTransition:
			return m.raise(&Fault{Op: op, Err: ErrExitTransition, State: prev.Name(), Signal: SignalExit, Transitions: n})
		case StatusError:
			return m.raise(&Fault{Op: op, Err: ErrExitError, State: prev.Name(), Signal: SignalExit, Transitions: n})
		}

		prev = m.current
		m.log().Debug("entering state", "state", prev)
		status, err = m.invoke(prev, eventEntry)
		if err != nil {
			return err
		}
		n++
	}

	switch {
	case !m.current.present():
		return m.raise(&Fault{Op: op, Err: ErrNilState, State: prev.Name(), Transitions: n})
	case status == StatusTransition || n > m.maxTransitions:
		return m.raise(&Fault{Op: op, Err: ErrTransitionLimit, State: prev.Name(), Signal: SignalEntry, Transitions: n})
	case status == StatusError:
		return m.raise(&Fault{Op: op, Err: ErrHandlerError, State: prev.Name(), Signal: m.signal, Transitions: n})
	}

	if n > 0 {
		m.log().Debug("machine settled", "op", op, "state", m.current, "transitions", n)
	}
	return nil
}

// invoke runs one handler and verifies that a transition status was produced
// by Tran and only by Tran
func (m *Machine) invoke(s *State, e Event) (Status, error) {
	m.running = s
	m.signal = e.Signal
	m.tranDone = false

	status := s.handle(m, e)

	m.running = nil
	if m.halt != nil {
		return StatusError, m.halt
	}

	switch {
	case status == StatusTransition && !m.tranDone:
		return status, m.raise(&Fault{Err: ErrForgedTransition, State: s.Name(), Signal: e.Signal})
	case status != StatusTransition && m.tranDone:
		return status, m.raise(&Fault{Err: ErrStrayTransition, State: s.Name(), Signal: e.Signal})
	}
	return status, nil
}

func (m *Machine) checkConstructed(op string) error {
	if !m.current.present() {
		return m.raise(&Fault{Op: op, Err: ErrNilState})
	}
	if m.maxTransitions <= 0 {
		return m.raise(&Fault{Op: op, Err: ErrZeroTransitionBound, State: m.current.Name()})
	}
	return nil
}

// raise halts the machine and reports f to the fault handler
func (m *Machine) raise(f *Fault) *Fault {
	if f.Op == "" {
		f.Op = m.op
	}
	m.halt = f
	m.log().Error("machine fault",
		"op", f.Op,
		"error", f.Err,
		"class", f.Class(),
		"state", f.State,
		"signal", f.Signal,
		"transitions", f.Transitions,
	)

	handler := m.onFault
	if handler == nil {
		handler = DefaultFaultHandler
	}
	handler(f)
	return f
}

func (m *Machine) notifyChange(from *State) {
	if m.stateChangeCallback != nil && from != m.current {
		m.stateChangeCallback(from, m.current)
	}
}

func (m *Machine) log() *slog.Logger {
	if m.logger == nil {
		return Logger
	}
	return m.logger
}

func nilMachineFault(op string) *Fault {
	f := &Fault{Op: op, Err: ErrNilMachine}
	Logger.Error("machine fault", "op", op, "error", f.Err, "class", f.Class())
	DefaultFaultHandler(f)
	return f
}

// CurrentState returns the state the machine is in
func (m *Machine) CurrentState() *State {
	return m.current
}

// IsInState reports whether s is the current state
func (m *Machine) IsInState(s *State) bool {
	return s != nil && m.current == s
}

// MaxTransitions returns the chained transition bound fixed at construction
func (m *Machine) MaxTransitions() int {
	return m.maxTransitions
}

// Started reports whether Begin has been called
func (m *Machine) Started() bool {
	return m.started
}

// Fault returns the fault that halted the machine, or nil
func (m *Machine) Fault() *Fault {
	return m.halt
}

// Data returns the application data set with WithData
func (m *Machine) Data() any {
	return m.data
}

// Logger returns the machine's logger, for use by state handlers
func (m *Machine) Logger() *slog.Logger {
	return m.log()
}
