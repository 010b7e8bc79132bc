package microfsm_test

import (
	"io"
	"log/slog"

	"github.com/librescoot/microfsm"
)

// Test signals
const (
	sigGo microfsm.Signal = microfsm.SignalUser + iota
	sigStay
	sigSkip
	sigFail
	sigSelf
)

var quiet = microfsm.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

// tracer records every handler invocation as "state:signal"
type tracer struct {
	calls []string
}

func (tr *tracer) state(name string, fn microfsm.HandlerFunc) *microfsm.State {
	return microfsm.NewState(name, func(m *microfsm.Machine, e microfsm.Event) microfsm.Status {
		tr.calls = append(tr.calls, name+":"+e.Signal.String())
		return fn(m, e)
	})
}

func (tr *tracer) reset() {
	tr.calls = nil
}

// settled handles entry and exit and ignores everything else
func settled(_ *microfsm.Machine, e microfsm.Event) microfsm.Status {
	switch e.Signal {
	case microfsm.SignalEntry, microfsm.SignalExit:
		return microfsm.StatusHandled
	}
	return microfsm.StatusIgnored
}

// initTo returns an initial-state handler that transitions to *target
func initTo(target **microfsm.State) microfsm.HandlerFunc {
	return func(m *microfsm.Machine, e microfsm.Event) microfsm.Status {
		if e.Signal == microfsm.SignalInit {
			return m.Tran(*target)
		}
		return microfsm.StatusIgnored
	}
}

// entryTo returns a handler whose entry transitions to *target
func entryTo(target **microfsm.State) microfsm.HandlerFunc {
	return func(m *microfsm.Machine, e microfsm.Event) microfsm.Status {
		if e.Signal == microfsm.SignalEntry {
			return m.Tran(*target)
		}
		return settled(m, e)
	}
}
