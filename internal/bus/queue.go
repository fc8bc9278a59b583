package bus

// DefaultCapacity bounds per-address history when no explicit capacity
// is given.
const DefaultCapacity = 10

// Queue is a fixed-capacity FIFO buffer of the most recent payloads for
// one address. Capacity is set at construction and never changes; the
// invariant len(items) <= capacity holds after every operation.
type Queue struct {
	items    []any
	capacity int
}

// NewQueue creates a queue with the given capacity. Capacities below 1
// fall back to DefaultCapacity.
func NewQueue(capacity int) *Queue {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Queue{
		items:    make([]any, 0, capacity),
		capacity: capacity,
	}
}

// Enqueue appends item at the tail, then evicts from the head until the
// queue is back within capacity. More than one item may be evicted.
func (q *Queue) Enqueue(item any) {
	q.items = append(q.items, item)
	for len(q.items) > q.capacity {
		q.items = q.items[1:]
	}
}

// Dequeue removes and returns the head item. ok is false if the queue
// is empty.
func (q *Queue) Dequeue() (item any, ok bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	item = q.items[0]
	q.items = q.items[1:]
	return item, true
}

// Peek returns the head item without removing it. ok is false if the
// queue is empty.
func (q *Queue) Peek() (item any, ok bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	return q.items[0], true
}

// Len returns the number of buffered items.
func (q *Queue) Len() int {
	return len(q.items)
}

// Capacity returns the fixed capacity.
func (q *Queue) Capacity() int {
	return q.capacity
}
