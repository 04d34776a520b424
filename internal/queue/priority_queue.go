package queue

import (
	"container/heap"
	"sync"

	"github.com/notifyhub/assignment-queue/internal/domain"
)

// PriorityQueue is an unbounded, mutex-protected min-heap of assignments.
//
// Push never blocks on capacity. DrainAll removes everything currently
// queued in one critical section, so a drain never interleaves with a push:
// an item pushed while a drain holds the lock lands in the next drain.
//
// Consumers that find the queue empty can wait on Notify instead of spinning.
// The notify channel has a buffer of one, so bursts of pushes coalesce into a
// single wake-up and a push that happens before the consumer starts waiting
// is never lost.
type PriorityQueue struct {
	mu     sync.Mutex
	items  assignmentHeap
	notify chan struct{}
}

func New() *PriorityQueue {
	return &PriorityQueue{
		notify: make(chan struct{}, 1),
	}
}

// Push inserts an assignment, preserving heap order.
func (q *PriorityQueue) Push(a domain.Assignment) {
	q.mu.Lock()
	heap.Push(&q.items, a)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// DrainAll atomically removes and returns every queued assignment in
// ascending order. It returns nil when the queue is empty and never blocks
// waiting for items.
func (q *PriorityQueue) DrainAll() []domain.Assignment {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return nil
	}

	out := make([]domain.Assignment, 0, len(q.items))
	for len(q.items) > 0 {
		out = append(out, heap.Pop(&q.items).(domain.Assignment))
	}
	return out
}

// Len returns the number of assignments waiting in the queue.
// Used by the metrics hooks and the status endpoint.
func (q *PriorityQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Notify receives a value after at least one Push since the last receive.
func (q *PriorityQueue) Notify() <-chan struct{} {
	return q.notify
}
