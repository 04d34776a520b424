package source

import (
	"context"
	"fmt"
	"time"

	"github.com/notifyhub/assignment-queue/internal/domain"
)

// Spec describes one assignment relative to the moment the batch is built.
type Spec struct {
	Description string
	DueInDays   int
	Priority    domain.Priority
}

// DemoBatch is the built-in batch, deliberately listed out of priority order.
var DemoBatch = []Spec{
	{"Buy milk and eggs", 2, domain.PriorityMedium},
	{"Find new show on Netflix", 6, domain.PriorityLow},
	{"Continue Udemy course", 5, domain.PriorityMedium},
	{"Finish work assignment #1", 4, domain.PriorityHigh},
	{"Finish work assignment #2", 2, domain.PriorityHigh},
	{"Check out new restaurant", 13, domain.PriorityLow},
}

// Static builds its batch from a fixed list of specs, with due dates
// computed from the clock at the time Batch is called.
type Static struct {
	specs []Spec
	now   func() time.Time
}

func NewStatic(specs []Spec, now func() time.Time) *Static {
	if now == nil {
		now = time.Now
	}
	return &Static{specs: specs, now: now}
}

// Batch constructs every assignment, failing on the first malformed spec.
func (s *Static) Batch(ctx context.Context) ([]domain.Assignment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]domain.Assignment, 0, len(s.specs))
	for i, spec := range s.specs {
		a, err := domain.NewAssignment(spec.Description, DaysFrom(now, spec.DueInDays), spec.Priority)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out = append(out, a)
	}
	return out, nil
}

// DaysFrom returns t shifted by n whole 24-hour days.
func DaysFrom(t time.Time, n int) time.Time {
	return t.Add(time.Duration(n) * 24 * time.Hour)
}

var _ Source = (*Static)(nil)
