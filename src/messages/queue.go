package messages

import "sync"

// Queue is the channel between the producer goroutines (hotkey listener,
// overlay input) and the core loop. It is multi-producer, single-consumer,
// FIFO per producer, and unbounded: event rate is bounded by human input and
// a fixed hotkey set, so no event is ever dropped. The consumer side never
// blocks; Poll returns whatever is queued and nothing more.
type Queue struct {
	mu     sync.Mutex
	events []Event
	closed bool
}

// NewQueue creates an empty open queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push enqueues one event. It returns false once the queue has been closed,
// which producers use as their signal to stop.
func (q *Queue) Push(e Event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.events = append(q.events, e)
	return true
}

// Poll drains and returns all events enqueued before the call, in order.
// It never blocks; an empty queue yields nil.
func (q *Queue) Poll() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) == 0 {
		return nil
	}
	drained := q.events
	q.events = nil
	return drained
}

// Close marks the queue closed. Subsequent Push calls fail; events already
// enqueued remain pollable so the consumer can finish its drain.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
}

// Closed reports whether Close has been called.
func (q *Queue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
