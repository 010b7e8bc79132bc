package microfsm

import (
	"fmt"
)

// Definition collects named states and construction parameters before
// building a Machine
type Definition struct {
	states         map[string]*State
	order          []string
	initial        string
	maxTransitions int
	dup            []string
}

// NewDefinition creates a new FSM definition builder
func NewDefinition() *Definition {
	return &Definition{
		states: make(map[string]*State),
	}
}

// State registers one or more states by name
func (d *Definition) State(states ...*State) *Definition {
	for _, s := range states {
		name := s.Name()
		if _, ok := d.states[name]; ok {
			d.dup = append(d.dup, name)
			continue
		}
		d.states[name] = s
		d.order = append(d.order, name)
	}
	return d
}

// Initial sets the initial state by name. The initial state is the one
// that receives the Init signal from Begin.
func (d *Definition) Initial(name string) *Definition {
	d.initial = name
	return d
}

// MaxTransitions sets the chained transition bound
func (d *Definition) MaxTransitions(n int) *Definition {
	d.maxTransitions = n
	return d
}

// Configure applies the initial state and transition bound from a Config.
// Zero values in cfg leave the definition unchanged.
func (d *Definition) Configure(cfg Config) *Definition {
	if cfg.Initial != "" {
		d.initial = cfg.Initial
	}
	if cfg.MaxTransitions != 0 {
		d.maxTransitions = cfg.MaxTransitions
	}
	return d
}

// Lookup returns a registered state by name
func (d *Definition) Lookup(name string) (*State, bool) {
	s, ok := d.states[name]
	return s, ok
}

// States returns the registered state names in registration order
func (d *Definition) States() []string {
	return append([]string(nil), d.order...)
}

// Validate checks the definition for errors
func (d *Definition) Validate() error {
	if len(d.dup) > 0 {
		return fmt.Errorf("state %q defined more than once", d.dup[0])
	}

	for _, name := range d.order {
		s := d.states[name]
		if s == nil {
			return fmt.Errorf("nil state registered")
		}
		if name == "" {
			return fmt.Errorf("state with empty name")
		}
		if s.handle == nil {
			return fmt.Errorf("state %q has no handler", name)
		}
	}

	if d.initial == "" {
		return fmt.Errorf("no initial state defined")
	}
	if _, ok := d.states[d.initial]; !ok {
		return fmt.Errorf("initial state %q not defined", d.initial)
	}

	if d.maxTransitions <= 0 {
		return fmt.Errorf("max transitions must be greater than zero, got %d", d.maxTransitions)
	}

	return nil
}

// Build creates a Machine from the definition
func (d *Definition) Build(opts ...MachineOption) (*Machine, error) {
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("invalid definition: %w", err)
	}
	return New(d.states[d.initial], d.maxTransitions, opts...)
}
