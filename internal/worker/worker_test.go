package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/notifyhub/assignment-queue/internal/domain"
	"github.com/notifyhub/assignment-queue/internal/processor"
	"github.com/notifyhub/assignment-queue/internal/source"
)

var base = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return base }

// batchOf returns a source producing n assignments in a scrambled order.
func batchOf(n int) source.Source {
	priorities := []domain.Priority{domain.PriorityLow, domain.PriorityHigh, domain.PriorityMedium}
	specs := make([]source.Spec, n)
	for i := range specs {
		specs[i] = source.Spec{
			Description: fmt.Sprintf("assignment %d", i),
			DueInDays:   (i * 7) % 11,
			Priority:    priorities[i%3],
		}
	}
	return source.NewStatic(specs, fixedClock)
}

// recorder is a processor that remembers everything it was handed.
type recorder struct {
	mu    sync.Mutex
	items []domain.Assignment
	fn    func(domain.Assignment) error
}

func (r *recorder) Process(_ context.Context, a domain.Assignment) error {
	r.mu.Lock()
	r.items = append(r.items, a)
	r.mu.Unlock()
	if r.fn != nil {
		return r.fn(a)
	}
	return nil
}

func (r *recorder) snapshot() []domain.Assignment {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Assignment(nil), r.items...)
}

var _ processor.Processor = (*recorder)(nil)

var errSource = errors.New("malformed item")

func failingSource() source.Source {
	return source.Func(func(context.Context) ([]domain.Assignment, error) {
		return nil, errSource
	})
}
