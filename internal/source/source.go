// Package source supplies the producer's batch of assignments. The order of
// a batch carries no meaning; the queue imposes the real ordering.
package source

import (
	"context"

	"github.com/notifyhub/assignment-queue/internal/domain"
)

// Source builds one batch of assignments.
// Implementations must reject the whole batch if any item is malformed so the
// producer never publishes a partial count.
type Source interface {
	Batch(ctx context.Context) ([]domain.Assignment, error)
}

// Func adapts a plain function to Source.
type Func func(ctx context.Context) ([]domain.Assignment, error)

func (f Func) Batch(ctx context.Context) ([]domain.Assignment, error) { return f(ctx) }
