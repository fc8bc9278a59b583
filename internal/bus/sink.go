package bus

import "sync"

// Sink maps serialized addresses to their history queues. Queues become
// durable only on the first Push to their address; reads for an address
// nobody has written to return a fresh, unstored queue every time, so
// idle peeks never materialize state.
type Sink struct {
	mu     sync.RWMutex
	queues map[string]*Queue
}

// NewSink creates an empty sink.
func NewSink() *Sink {
	return &Sink{
		queues: make(map[string]*Queue),
	}
}

// Queue returns the stored queue for addr, or a new empty queue that is
// NOT stored. Two consecutive reads for an unwritten address return
// independent queues.
func (s *Sink) Queue(addr Address) *Queue {
	s.mu.RLock()
	q, ok := s.queues[addr.String()]
	s.mu.RUnlock()
	if !ok {
		return NewQueue(DefaultCapacity)
	}
	return q
}

// Peek returns the oldest unconsumed payload for addr without mutating
// history. ok is false when no payload has ever been pushed.
func (s *Sink) Peek(addr Address) (payload any, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.queues[addr.String()]
	if !ok {
		return nil, false
	}
	return q.Peek()
}

// Push records the message payload in the queue for its address. This
// is the only operation that stores a queue into the sink.
func (s *Sink) Push(msg Message) {
	key := msg.Address().String()

	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.queues[key]
	if !ok {
		q = NewQueue(DefaultCapacity)
	}
	q.Enqueue(msg.Payload)
	s.queues[key] = q
}

// Len returns the number of addresses with durable history.
func (s *Sink) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.queues)
}
