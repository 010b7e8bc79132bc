package microfsm

// Event carries a signal and optional application data to a state handler
type Event struct {
	Signal  Signal
	Payload any // Optional application-defined payload
}

// NewEvent builds an event for an application signal
func NewEvent(sig Signal, payload any) Event {
	return Event{Signal: sig, Payload: payload}
}

// Internal lifecycle events
var (
	eventInit  = Event{Signal: SignalInit}
	eventEntry = Event{Signal: SignalEntry}
	eventExit  = Event{Signal: SignalExit}
)
