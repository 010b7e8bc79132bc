package microfsm

import (
	"fmt"
	"log/slog"
)

// Signal identifies the kind of an event
type Signal int16

// Reserved signals, used only by the dispatcher. Application signals must
// start at SignalUser.
const (
	// SignalInit is delivered once to the initial state by Begin
	SignalInit Signal = -4
	// SignalEntry is delivered to a state after it was transitioned into
	SignalEntry Signal = -3
	// SignalExit is delivered to a state after it was transitioned out of
	SignalExit Signal = -2
	// SignalIdle is reserved for background processing and never delivered
	SignalIdle Signal = -1

	// SignalUser is the first signal available to applications
	SignalUser Signal = 0
)

// Reserved reports whether s belongs to the dispatcher's reserved range
func (s Signal) Reserved() bool {
	return s < SignalUser
}

func (s Signal) String() string {
	switch s {
	case SignalInit:
		return "init"
	case SignalEntry:
		return "entry"
	case SignalExit:
		return "exit"
	case SignalIdle:
		return "idle"
	}
	if s.Reserved() {
		return fmt.Sprintf("reserved(%d)", int16(s))
	}
	return fmt.Sprintf("signal(%d)", int16(s))
}

// Status is the result a state handler returns to the dispatcher
type Status int

const (
	// StatusTransition means the handler moved the machine to a new state.
	// Only Machine.Tran produces it.
	StatusTransition Status = iota
	// StatusHandled means the event was consumed; stay in the current state
	StatusHandled
	// StatusIgnored means the event does not apply; stay in the current state
	StatusIgnored
	// StatusError means the handler detected a protocol violation
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusTransition:
		return "transition"
	case StatusHandled:
		return "handled"
	case StatusIgnored:
		return "ignored"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Logger is the default logger used when none is provided
var Logger = slog.Default()
