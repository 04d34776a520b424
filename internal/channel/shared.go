// Package channel holds the state shared by exactly one producer and one
// consumer: the assignment priority queue plus the completion signal.
package channel

import (
	"sync/atomic"

	"github.com/notifyhub/assignment-queue/internal/domain"
	"github.com/notifyhub/assignment-queue/internal/queue"
)

// Completion is published once, when the producer has pushed its last item.
type Completion struct {
	Total int
}

// Snapshot is a point-in-time view used by the status endpoint.
type Snapshot struct {
	Depth int  `json:"depth"`
	Done  bool `json:"production_done"`
	// Total is nil until production is done.
	Total *int `json:"total,omitempty"`
}

// SharedChannel is the only state the producer and consumer share.
//
// The done flag and the total count are one value: a *Completion stored
// through an atomic pointer. The total is written into the struct before the
// pointer is published, so any reader that observes done also observes the
// final total. There is no sentinel count; before publication TotalCount
// reports ErrTotalUnknown.
type SharedChannel struct {
	q          *queue.PriorityQueue
	completion atomic.Pointer[Completion]
	done       chan struct{}
}

func New() *SharedChannel {
	return &SharedChannel{
		q:    queue.New(),
		done: make(chan struct{}),
	}
}

// Push inserts an assignment. It never blocks on capacity.
func (c *SharedChannel) Push(a domain.Assignment) {
	c.q.Push(a)
}

// DrainAll removes every queued assignment, in priority order.
func (c *SharedChannel) DrainAll() []domain.Assignment {
	return c.q.DrainAll()
}

func (c *SharedChannel) Depth() int {
	return c.q.Len()
}

// MarkProductionDone publishes the final item count and flips the done flag.
// It may be called once; a second call returns ErrAlreadyDone and leaves the
// first publication in place.
func (c *SharedChannel) MarkProductionDone(total int) error {
	if total < 0 {
		return ErrNegativeTotal
	}
	if !c.completion.CompareAndSwap(nil, &Completion{Total: total}) {
		return ErrAlreadyDone
	}
	close(c.done)
	return nil
}

func (c *SharedChannel) IsProductionDone() bool {
	return c.completion.Load() != nil
}

// TotalCount returns the published total. Reading it before production is
// done is a protocol error.
func (c *SharedChannel) TotalCount() (int, error) {
	comp := c.completion.Load()
	if comp == nil {
		return 0, ErrTotalUnknown
	}
	return comp.Total, nil
}

// Done is closed once production has been marked done.
func (c *SharedChannel) Done() <-chan struct{} {
	return c.done
}

// Ready receives after new assignments have been pushed.
func (c *SharedChannel) Ready() <-chan struct{} {
	return c.q.Notify()
}

func (c *SharedChannel) Snapshot() Snapshot {
	s := Snapshot{Depth: c.q.Len()}
	if comp := c.completion.Load(); comp != nil {
		total := comp.Total
		s.Done = true
		s.Total = &total
	}
	return s
}
