// Package ringbuf provides fixed-capacity FIFO ring buffers whose storage is
// allocated once, at construction. Nothing in this package is safe for
// concurrent use.
package ringbuf

import (
	"errors"
)

var (
	ErrCapacity      = errors.New("ringbuf: invalid capacity")
	ErrFull          = errors.New("ringbuf: buffer full")
	ErrEmpty         = errors.New("ringbuf: buffer empty")
	ErrElementSize   = errors.New("ringbuf: element size mismatch")
	ErrExhausted     = errors.New("ringbuf: no free buffer in pool")
	ErrInvalidHandle = errors.New("ringbuf: invalid handle")
)

// Buffer is a FIFO of at most Cap values of T
type Buffer[T any] struct {
	items []T
	head  int // next write
	tail  int // next read
	count int
}

// New allocates a buffer holding up to capacity values
func New[T any](capacity int) (*Buffer[T], error) {
	if capacity <= 0 {
		return nil, ErrCapacity
	}
	return &Buffer[T]{items: make([]T, capacity)}, nil
}

// Write appends v, failing with ErrFull when there is no room
func (b *Buffer[T]) Write(v T) error {
	if b.count == len(b.items) {
		return ErrFull
	}
	b.items[b.head] = v
	b.head = (b.head + 1) % len(b.items)
	b.count++
	return nil
}

// Read removes and returns the oldest value
func (b *Buffer[T]) Read() (T, error) {
	var zero T
	if b.count == 0 {
		return zero, ErrEmpty
	}
	v := b.items[b.tail]
	b.items[b.tail] = zero
	b.tail = (b.tail + 1) % len(b.items)
	b.count--
	return v, nil
}

// Peek returns the oldest value without removing it
func (b *Buffer[T]) Peek() (T, error) {
	if b.count == 0 {
		var zero T
		return zero, ErrEmpty
	}
	return b.items[b.tail], nil
}

// Len returns the number of buffered values
func (b *Buffer[T]) Len() int { return b.count }

// Cap returns the buffer's capacity
func (b *Buffer[T]) Cap() int { return len(b.items) }

// IsEmpty reports whether the buffer holds no values
func (b *Buffer[T]) IsEmpty() bool { return b.count == 0 }

// IsFull reports whether a Write would fail
func (b *Buffer[T]) IsFull() bool { return b.count == len(b.items) }

// Clear drops every buffered value
func (b *Buffer[T]) Clear() {
	clear(b.items)
	b.head, b.tail, b.count = 0, 0, 0
}
