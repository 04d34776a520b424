package processor

import (
	"context"

	"github.com/notifyhub/assignment-queue/internal/domain"
)

// Processor is the consumer's per-assignment unit of work.
// A returned error is logged by the consumer and the assignment is skipped;
// it never stops the consume loop.
type Processor interface {
	Process(ctx context.Context, a domain.Assignment) error
}

// Func adapts a plain function to Processor.
type Func func(ctx context.Context, a domain.Assignment) error

func (f Func) Process(ctx context.Context, a domain.Assignment) error { return f(ctx, a) }

// Chain runs each processor in order and stops at the first error.
type Chain []Processor

func (c Chain) Process(ctx context.Context, a domain.Assignment) error {
	for _, p := range c {
		if err := p.Process(ctx, a); err != nil {
			return err
		}
	}
	return nil
}
