package microfsm

// HandlerFunc reacts to one event delivered to a state. It must handle the
// Entry and Exit signals; the initial state must also handle Init by calling
// Machine.Tran.
type HandlerFunc func(m *Machine, e Event) Status

// State is one state of a machine. Two states are the same state only if they
// are the same *State.
type State struct {
	name   string
	handle HandlerFunc
}

// NewState creates a state from its handler. The name is used for logging,
// lookup in a Definition and fault reports.
func NewState(name string, fn HandlerFunc) *State {
	return &State{name: name, handle: fn}
}

// Name returns the state's name
func (s *State) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

func (s *State) String() string {
	if s == nil {
		return "<nil>"
	}
	return s.name
}

// present reports whether s can be invoked
func (s *State) present() bool {
	return s != nil && s.handle != nil
}
