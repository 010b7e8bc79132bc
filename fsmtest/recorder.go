// Package fsmtest provides helpers for testing microfsm machines
package fsmtest

import (
	"github.com/librescoot/microfsm"
)

// Recorder collects faults instead of halting the process. Pass
// Recorder.Handler to microfsm.WithFaultHandler.
type Recorder struct {
	faults []*microfsm.Fault
}

// Handler returns a fault handler that records into r
func (r *Recorder) Handler() microfsm.FaultHandler {
	return func(f *microfsm.Fault) {
		r.faults = append(r.faults, f)
	}
}

// Option is shorthand for microfsm.WithFaultHandler(r.Handler())
func (r *Recorder) Option() microfsm.MachineOption {
	return microfsm.WithFaultHandler(r.Handler())
}

// Count returns the number of recorded faults
func (r *Recorder) Count() int {
	return len(r.faults)
}

// Faults returns the recorded faults in order
func (r *Recorder) Faults() []*microfsm.Fault {
	return append([]*microfsm.Fault(nil), r.faults...)
}

// Last returns the most recent fault, or nil
func (r *Recorder) Last() *microfsm.Fault {
	if len(r.faults) == 0 {
		return nil
	}
	return r.faults[len(r.faults)-1]
}

// Reset forgets every recorded fault
func (r *Recorder) Reset() {
	r.faults = nil
}
