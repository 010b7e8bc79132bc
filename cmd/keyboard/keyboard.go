package main

import (
	"fmt"
	"unicode"

	"github.com/librescoot/microfsm"
	"github.com/librescoot/microfsm/endian"
	"github.com/librescoot/microfsm/ringbuf"
)

// Keyboard signals. sigKey carries the typed rune as its payload.
const (
	sigKey microfsm.Signal = microfsm.SignalUser + iota
	sigCapsLock
	sigNextLayer
	sigClear
)

const (
	reportSize     = 8
	reportQueueLen = 16

	modShift byte = 0x02
)

var shifted = map[rune]rune{
	'1': '!', '2': '@', '3': '#', '4': '$', '5': '%',
	'6': '^', '7': '&', '8': '*', '9': '(', '0': ')',
	'-': '_', '=': '+', '/': '?', ';': ':', '\'': '"',
}

// Keyboard is a layered keyboard controller. Every keystroke produces an
// 8-byte report:
//
//	[0]    modifier bits
//	[1]    layer index
//	[2:4]  key code, big-endian
//	[4:8]  report sequence number, little-endian
type Keyboard struct {
	fsm   *microfsm.Machine
	layer int
	text  []rune
	seq   uint32

	reports *ringbuf.Pool
	queue   ringbuf.Handle

	boot    *microfsm.State
	base    *microfsm.State
	caps    *microfsm.State
	symbols *microfsm.State
	route   *microfsm.State
	layers  []*microfsm.State
}

// NewKeyboard builds the keyboard machine. cfg may override the initial
// state and the transition bound.
func NewKeyboard(cfg microfsm.Config, opts ...microfsm.MachineOption) (*Keyboard, error) {
	k := &Keyboard{}
	k.boot = microfsm.NewState("boot", k.onBoot)
	k.base = microfsm.NewState("base", k.onBase)
	k.caps = microfsm.NewState("caps", k.onCaps)
	k.symbols = microfsm.NewState("symbols", k.onSymbols)
	k.route = microfsm.NewState("route", k.onRoute)
	k.layers = []*microfsm.State{k.base, k.symbols}

	pool, err := ringbuf.NewPool(1, reportSize*reportQueueLen)
	if err != nil {
		return nil, fmt.Errorf("report pool: %w", err)
	}
	k.reports = pool
	if k.queue, err = pool.Acquire(reportSize, reportQueueLen); err != nil {
		return nil, fmt.Errorf("report queue: %w", err)
	}

	def := microfsm.NewDefinition().
		State(k.boot, k.base, k.caps, k.symbols, k.route).
		Initial("boot").
		MaxTransitions(2).
		Configure(cfg)

	if k.fsm, err = def.Build(opts...); err != nil {
		return nil, err
	}
	return k, nil
}

// Machine returns the underlying state machine
func (k *Keyboard) Machine() *microfsm.Machine {
	return k.fsm
}

// Begin activates the keyboard
func (k *Keyboard) Begin() error {
	return k.fsm.Begin()
}

// Dispatch delivers one keyboard event
func (k *Keyboard) Dispatch(e microfsm.Event) error {
	return k.fsm.Dispatch(e)
}

// Layer returns the name of the active layer
func (k *Keyboard) Layer() string {
	return k.fsm.CurrentState().Name()
}

// Text returns everything typed so far
func (k *Keyboard) Text() string {
	return string(k.text)
}

// NextReport pops the oldest pending report
func (k *Keyboard) NextReport() ([]byte, bool) {
	r := make([]byte, reportSize)
	if err := k.reports.Read(k.queue, r); err != nil {
		return nil, false
	}
	return r, true
}

// PendingReports returns the number of reports not yet read
func (k *Keyboard) PendingReports() int {
	return k.reports.Len(k.queue)
}

func (k *Keyboard) onBoot(m *microfsm.Machine, e microfsm.Event) microfsm.Status {
	if e.Signal == microfsm.SignalInit {
		k.layer = 0
		return m.Tran(k.base)
	}
	return microfsm.StatusIgnored
}

func (k *Keyboard) onBase(m *microfsm.Machine, e microfsm.Event) microfsm.Status {
	switch e.Signal {
	case sigKey:
		return k.press(e, 0, unicode.ToLower)
	case sigCapsLock:
		return m.Tran(k.caps)
	}
	return k.common(m, e)
}

func (k *Keyboard) onCaps(m *microfsm.Machine, e microfsm.Event) microfsm.Status {
	switch e.Signal {
	case sigKey:
		return k.press(e, modShift, unicode.ToUpper)
	case sigCapsLock:
		return m.Tran(k.base)
	}
	return k.common(m, e)
}

func (k *Keyboard) onSymbols(m *microfsm.Machine, e microfsm.Event) microfsm.Status {
	if e.Signal == sigKey {
		return k.press(e, modShift, func(r rune) rune {
			if s, ok := shifted[r]; ok {
				return s
			}
			return r
		})
	}
	return k.common(m, e)
}

// onRoute is never current between dispatches: its entry picks the next
// layer and leaves immediately
func (k *Keyboard) onRoute(m *microfsm.Machine, e microfsm.Event) microfsm.Status {
	switch e.Signal {
	case microfsm.SignalEntry:
		k.layer = (k.layer + 1) % len(k.layers)
		m.Logger().Debug("switching layer", "layer", k.layer)
		return m.Tran(k.layers[k.layer])
	case microfsm.SignalExit:
		return microfsm.StatusHandled
	}
	return microfsm.StatusIgnored
}

func (k *Keyboard) common(m *microfsm.Machine, e microfsm.Event) microfsm.Status {
	switch e.Signal {
	case microfsm.SignalEntry, microfsm.SignalExit:
		return microfsm.StatusHandled
	case sigNextLayer:
		return m.Tran(k.route)
	case sigClear:
		k.text = k.text[:0]
		return microfsm.StatusHandled
	}
	return microfsm.StatusIgnored
}

func (k *Keyboard) press(e microfsm.Event, mod byte, transform func(rune) rune) microfsm.Status {
	r, ok := e.Payload.(rune)
	if !ok {
		return microfsm.StatusError
	}
	r = transform(r)
	// key codes are 16 bits wide
	if r > 0xFFFF {
		return microfsm.StatusIgnored
	}
	k.text = append(k.text, r)
	if err := k.report(mod, r); err != nil {
		return microfsm.StatusError
	}
	return microfsm.StatusHandled
}

func (k *Keyboard) report(mod byte, r rune) error {
	k.seq++
	buf := make([]byte, reportSize)
	buf[0] = mod
	buf[1] = byte(k.layer)
	endian.PutBE16(buf[2:4], uint16(r))
	endian.PutLE32(buf[4:8], k.seq)

	// keep the newest reports when nobody drains the queue
	if k.reports.IsFull(k.queue) {
		drop := make([]byte, reportSize)
		if err := k.reports.Read(k.queue, drop); err != nil {
			return err
		}
	}
	return k.reports.Write(k.queue, buf)
}
