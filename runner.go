package microfsm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/librescoot/microfsm/ringbuf"
)

var (
	// ErrQueueFull is returned when a Runner's event queue has no room
	ErrQueueFull = errors.New("event queue full")
	// ErrStopped is returned for events queued after Run has returned
	ErrStopped = errors.New("runner stopped")
)

type queuedEvent struct {
	event Event
	done  chan error // nil for fire-and-forget posts
}

// Runner drives one Machine from a bounded event queue. Any goroutine,
// including the machine's own handlers, may post events; only the goroutine
// calling Run dispatches them, one at a time.
type Runner struct {
	machine *Machine
	logger  *slog.Logger

	mu      sync.Mutex
	queue   *ringbuf.Buffer[queuedEvent]
	stopped bool
	wake    chan struct{}
}

// NewRunner creates a runner for m whose queue holds up to capacity events
func NewRunner(m *Machine, capacity int) (*Runner, error) {
	if m == nil {
		return nil, fmt.Errorf("new runner: %w", ErrNilMachine)
	}
	q, err := ringbuf.New[queuedEvent](capacity)
	if err != nil {
		return nil, fmt.Errorf("new runner: %w", err)
	}
	return &Runner{
		machine: m,
		logger:  m.Logger(),
		queue:   q,
		wake:    make(chan struct{}, 1),
	}, nil
}

// Machine returns the machine driven by r
func (r *Runner) Machine() *Machine {
	return r.machine
}

// Post queues e for dispatch without waiting. It fails if the queue is full,
// the signal is reserved or the runner has stopped.
func (r *Runner) Post(e Event) error {
	return r.enqueue(queuedEvent{event: e})
}

// Send queues e and waits until it has been dispatched, returning the
// dispatch result, or until the runner stops, returning Run's error. Handlers must use Post instead: Send from inside a
// handler never returns.
func (r *Runner) Send(ctx context.Context, e Event) error {
	done := make(chan error, 1)
	if err := r.enqueue(queuedEvent{event: e, done: done}); err != nil {
		return err
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pending returns the number of queued events
func (r *Runner) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.queue.Len()
}

func (r *Runner) enqueue(q queuedEvent) error {
	if q.event.Signal.Reserved() {
		return fmt.Errorf("post %s: %w", q.event.Signal, ErrReservedSignal)
	}

	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return ErrStopped
	}
	err := r.queue.Write(q)
	r.mu.Unlock()
	if err != nil {
		r.logger.Warn("event queue full, dropping event", "signal", q.event.Signal)
		return ErrQueueFull
	}

	select {
	case r.wake <- struct{}{}:
	default:
	}
	return nil
}

func (r *Runner) next() (queuedEvent, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, err := r.queue.Read()
	return q, err == nil
}

// Run begins the machine if needed, then dispatches queued events until ctx
// is cancelled or the machine faults. Run may be called once. When it returns,
// events still queued are failed with its error and later posts fail with
// ErrStopped.
func (r *Runner) Run(ctx context.Context) error {
	r.mu.Lock()
	stopped := r.stopped
	r.mu.Unlock()
	if stopped {
		return ErrStopped
	}

	err := r.run(ctx)
	r.stop(err)
	return err
}

func (r *Runner) run(ctx context.Context) error {
	if !r.machine.Started() {
		if err := r.machine.Begin(); err != nil {
			return err
		}
	}
	r.logger.Debug("runner started", "state", r.machine.CurrentState())
	defer r.logger.Debug("runner stopped", "state", r.machine.CurrentState())

	for {
		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			q, ok := r.next()
			if !ok {
				break
			}
			err := r.machine.Dispatch(q.event)
			if q.done != nil {
				q.done <- err
			}
			if err != nil {
				return err
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.wake:
		}
	}
}

// stop refuses further events and fails the queued ones with err
func (r *Runner) stop(err error) {
	r.mu.Lock()
	r.stopped = true
	r.mu.Unlock()

	for {
		q, ok := r.next()
		if !ok {
			return
		}
		if q.done != nil {
			q.done <- err
		}
	}
}
