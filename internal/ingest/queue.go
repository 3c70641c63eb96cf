// Package ingest provides the unbounded FIFO buffers sitting between
// the transport adapter and the integration engine.
package ingest

import "sync"

// Queue is an unbounded, concurrency-safe FIFO of raw message payloads.
// Push never blocks the producer. Items pushed while a Drain is in
// flight land in the next drain; nothing is dropped.
type Queue struct {
	mu    sync.Mutex
	items [][]byte
}

// NewQueue allocates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends a payload to the tail of the queue.
func (q *Queue) Push(payload []byte) {
	q.mu.Lock()
	q.items = append(q.items, payload)
	q.mu.Unlock()
}

// Drain removes and returns every item present at call time, in FIFO
// order. The returned slice is owned by the caller.
func (q *Queue) Drain() [][]byte {
	q.mu.Lock()
	items := q.items
	q.items = nil
	q.mu.Unlock()
	return items
}

// Len reports the number of queued items.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
