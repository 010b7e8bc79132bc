package microfsm_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/librescoot/microfsm"
)

// Example: Simple traffic light FSM
func Example_trafficLight() {
	const evTimer = microfsm.SignalUser

	var red, green, yellow *microfsm.State

	light := func(name, msg string, next **microfsm.State) *microfsm.State {
		return microfsm.NewState(name, func(m *microfsm.Machine, e microfsm.Event) microfsm.Status {
			switch e.Signal {
			case microfsm.SignalEntry:
				fmt.Println(msg)
				return microfsm.StatusHandled
			case evTimer:
				return m.Tran(*next)
			}
			return microfsm.StatusIgnored
		})
	}
	red = light("red", "🔴 RED - Stop", &green)
	green = light("green", "🟢 GREEN - Go", &yellow)
	yellow = light("yellow", "🟡 YELLOW - Caution", &red)

	boot := microfsm.NewState("boot", func(m *microfsm.Machine, e microfsm.Event) microfsm.Status {
		if e.Signal == microfsm.SignalInit {
			return m.Tran(red)
		}
		return microfsm.StatusIgnored
	})

	m, _ := microfsm.New(boot, 1,
		microfsm.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))),
	)
	m.Begin()
	for i := 0; i < 3; i++ {
		m.Dispatch(microfsm.NewEvent(evTimer, nil))
	}
	fmt.Printf("State: %s\n", m.CurrentState())

	// Output:
	// 🔴 RED - Stop
	// 🟢 GREEN - Go
	// 🟡 YELLOW - Caution
	// 🔴 RED - Stop
	// State: red
}

// Example: Vehicle-like machine where a router state decides where to go on
// entry, so it is never observed as the current state
func Example_vehicleFSM() {
	const (
		evUnlock microfsm.Signal = microfsm.SignalUser + iota
		evLock
		evKickstand
	)

	type vehicle struct {
		kickstandUp bool
	}
	v := &vehicle{}

	var standby, parked, drive, checkStand *microfsm.State

	enter := func(msg string) {
		fmt.Println("→ " + msg)
	}

	standby = microfsm.NewState("standby", func(m *microfsm.Machine, e microfsm.Event) microfsm.Status {
		switch e.Signal {
		case microfsm.SignalEntry:
			enter("Standby (locked)")
			return microfsm.StatusHandled
		case evUnlock:
			return m.Tran(checkStand)
		}
		return microfsm.StatusIgnored
	})
	checkStand = microfsm.NewState("check_kickstand", func(m *microfsm.Machine, e microfsm.Event) microfsm.Status {
		if e.Signal == microfsm.SignalEntry {
			if m.Data().(*vehicle).kickstandUp {
				return m.Tran(drive)
			}
			return m.Tran(parked)
		}
		return microfsm.StatusHandled
	})
	parked = microfsm.NewState("parked", func(m *microfsm.Machine, e microfsm.Event) microfsm.Status {
		switch e.Signal {
		case microfsm.SignalEntry:
			enter("Parked")
			return microfsm.StatusHandled
		case evKickstand:
			m.Data().(*vehicle).kickstandUp = true
			return m.Tran(checkStand)
		case evLock:
			return m.Tran(standby)
		}
		return microfsm.StatusIgnored
	})
	drive = microfsm.NewState("drive", func(m *microfsm.Machine, e microfsm.Event) microfsm.Status {
		switch e.Signal {
		case microfsm.SignalEntry:
			enter("Ready to Drive!")
			return microfsm.StatusHandled
		case microfsm.SignalExit:
			return microfsm.StatusHandled
		}
		return microfsm.StatusIgnored
	})

	def := microfsm.NewDefinition().
		State(microfsm.NewState("init", func(m *microfsm.Machine, e microfsm.Event) microfsm.Status {
			if e.Signal == microfsm.SignalInit {
				enter("Initializing...")
				return m.Tran(standby)
			}
			return microfsm.StatusIgnored
		})).
		State(standby, checkStand, parked, drive).
		Initial("init").
		MaxTransitions(2)

	m, _ := def.Build(
		microfsm.WithData(v),
		microfsm.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))),
	)

	m.Begin()
	fmt.Printf("State: %s\n", m.CurrentState())

	m.Dispatch(microfsm.NewEvent(evUnlock, nil))
	fmt.Printf("State: %s\n", m.CurrentState())

	m.Dispatch(microfsm.NewEvent(evLock, nil))
	m.Dispatch(microfsm.NewEvent(evUnlock, nil))
	m.Dispatch(microfsm.NewEvent(evKickstand, nil))
	fmt.Printf("State: %s\n", m.CurrentState())

	// Output:
	// → Initializing...
	// → Standby (locked)
	// State: standby
	// → Parked
	// State: parked
	// → Standby (locked)
	// → Parked
	// → Ready to Drive!
	// State: drive
}

func ExampleRunner() {
	const evPing = microfsm.SignalUser

	var ready *microfsm.State
	boot := microfsm.NewState("boot", func(m *microfsm.Machine, e microfsm.Event) microfsm.Status {
		if e.Signal == microfsm.SignalInit {
			return m.Tran(ready)
		}
		return microfsm.StatusIgnored
	})
	ready = microfsm.NewState("ready", func(m *microfsm.Machine, e microfsm.Event) microfsm.Status {
		if e.Signal == evPing {
			fmt.Println("ping", e.Payload)
			return microfsm.StatusHandled
		}
		return microfsm.StatusIgnored
	})

	m, _ := microfsm.New(boot, 1,
		microfsm.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))),
	)
	r, _ := microfsm.NewRunner(m, 4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx)

	r.Send(ctx, microfsm.NewEvent(evPing, 1))
	r.Send(ctx, microfsm.NewEvent(evPing, 2))

	// Output:
	// ping 1
	// ping 2
}
