package ringbuf

// Handle identifies a buffer acquired from a Pool. The zero Handle is never
// valid, and a Handle stops being valid once it is released.
type Handle struct {
	slot int
	gen  uint32
}

type slot struct {
	storage  []byte
	inUse    bool
	gen      uint32
	elemSize int
	capacity int // bytes in use out of storage
	head     int
	tail     int
	empty    bool
}

// Pool is a fixed set of byte ring buffers sharing one up-front allocation.
// Each acquired buffer stores fixed-size elements, copied in and out by value.
type Pool struct {
	slots []slot
	size  int
}

// NewPool allocates instances buffers of bytesPerBuffer bytes each
func NewPool(instances, bytesPerBuffer int) (*Pool, error) {
	if instances <= 0 || bytesPerBuffer <= 0 {
		return nil, ErrCapacity
	}

	backing := make([]byte, instances*bytesPerBuffer)
	p := &Pool{slots: make([]slot, instances), size: bytesPerBuffer}
	for i := range p.slots {
		p.slots[i].storage = backing[i*bytesPerBuffer : (i+1)*bytesPerBuffer : (i+1)*bytesPerBuffer]
		p.slots[i].gen = 1
	}
	return p, nil
}

// Acquire reserves a free buffer holding count elements of elementSize bytes.
// At least two elements are required and the total must fit the per-buffer
// size the pool was created with.
func (p *Pool) Acquire(elementSize, count int) (Handle, error) {
	if elementSize <= 0 {
		return Handle{}, ErrElementSize
	}
	if count < 2 || count > p.size/elementSize {
		return Handle{}, ErrCapacity
	}

	for i := range p.slots {
		s := &p.slots[i]
		if s.inUse {
			continue
		}
		s.inUse = true
		s.elemSize = elementSize
		s.capacity = elementSize * count
		s.head, s.tail = 0, 0
		s.empty = true
		return Handle{slot: i, gen: s.gen}, nil
	}
	return Handle{}, ErrExhausted
}

// Release clears the buffer and returns it to the pool
func (p *Pool) Release(h Handle) error {
	s, err := p.lookup(h)
	if err != nil {
		return err
	}
	s.reset()
	s.inUse = false
	s.gen++
	return nil
}

// Clear drops every element in the buffer
func (p *Pool) Clear(h Handle) error {
	s, err := p.lookup(h)
	if err != nil {
		return err
	}
	s.reset()
	return nil
}

// Write copies one element into the buffer. len(elem) must equal the
// element size the buffer was acquired with.
func (p *Pool) Write(h Handle, elem []byte) error {
	s, err := p.lookup(h)
	if err != nil {
		return err
	}
	if len(elem) != s.elemSize {
		return ErrElementSize
	}
	if s.full() {
		return ErrFull
	}

	copy(s.storage[s.head:s.head+s.elemSize], elem)
	s.head = (s.head + s.elemSize) % s.capacity
	s.empty = false
	return nil
}

// Read copies the oldest element into dst and removes it
func (p *Pool) Read(h Handle, dst []byte) error {
	s, err := p.lookup(h)
	if err != nil {
		return err
	}
	if len(dst) != s.elemSize {
		return ErrElementSize
	}
	if s.empty {
		return ErrEmpty
	}

	copy(dst, s.storage[s.tail:s.tail+s.elemSize])
	s.tail = (s.tail + s.elemSize) % s.capacity
	if s.head == s.tail {
		s.empty = true
	}
	return nil
}

// Len returns the number of elements in the buffer, or 0 for an invalid handle
func (p *Pool) Len(h Handle) int {
	s, err := p.lookup(h)
	if err != nil {
		return 0
	}
	switch {
	case s.empty:
		return 0
	case s.head > s.tail:
		return (s.head - s.tail) / s.elemSize
	default:
		return (s.capacity - s.tail + s.head) / s.elemSize
	}
}

// IsEmpty reports whether the buffer holds no elements. An invalid handle
// is never empty.
func (p *Pool) IsEmpty(h Handle) bool {
	s, err := p.lookup(h)
	return err == nil && s.empty
}

// IsFull reports whether a Write would fail. An invalid handle is always full.
func (p *Pool) IsFull(h Handle) bool {
	s, err := p.lookup(h)
	return err != nil || s.full()
}

// Available returns the number of buffers not yet acquired
func (p *Pool) Available() int {
	n := 0
	for i := range p.slots {
		if !p.slots[i].inUse {
			n++
		}
	}
	return n
}

func (p *Pool) lookup(h Handle) (*slot, error) {
	if h.slot < 0 || h.slot >= len(p.slots) {
		return nil, ErrInvalidHandle
	}
	s := &p.slots[h.slot]
	if !s.inUse || s.gen != h.gen {
		return nil, ErrInvalidHandle
	}
	return s, nil
}

func (s *slot) full() bool {
	return s.head == s.tail && !s.empty
}

func (s *slot) reset() {
	clear(s.storage)
	s.head, s.tail = 0, 0
	s.empty = true
}
