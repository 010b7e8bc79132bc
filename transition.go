package microfsm

// Tran moves the machine to target and returns StatusTransition. A handler
// requests a transition by returning the result of Tran; it is the only way
// the current state changes.
//
//	case SigDone:
//		return m.Tran(idle)
//
// The dispatcher runs the exit of the state that called Tran and the entry
// of target once the handler returns.
func (m *Machine) Tran(target *State) Status {
	if m == nil {
		nilMachineFault("tran")
		return StatusError
	}
	if !target.present() {
		m.raise(&Fault{Op: "tran", Err: ErrNilState, State: m.running.Name(), Signal: m.signal})
		return StatusError
	}

	m.log().Debug("transition", "from", m.current, "to", target, "signal", m.signal)
	m.current = target
	m.tranDone = true
	return StatusTransition
}
