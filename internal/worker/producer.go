package worker

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/notifyhub/assignment-queue/internal/channel"
	"github.com/notifyhub/assignment-queue/internal/ratelimiter"
	"github.com/notifyhub/assignment-queue/internal/source"
)

// Producer builds one batch, pushes every assignment onto the shared channel
// and then publishes the batch size as the total.
type Producer struct {
	ch     *channel.SharedChannel
	src    source.Source
	pacer  *ratelimiter.Pacer
	logger *zap.Logger
	hooks  Hooks

	produced atomic.Int64
}

// NewProducer constructs a producer. pacer may be nil for no delay.
func NewProducer(
	ch *channel.SharedChannel,
	src source.Source,
	pacer *ratelimiter.Pacer,
	logger *zap.Logger,
	hooks Hooks,
) *Producer {
	return &Producer{
		ch: ch, src: src, pacer: pacer,
		logger: logger, hooks: hooks.withDefaults(),
	}
}

// Run produces the whole batch.
//
// If the source fails the run aborts without marking production done and
// the error is returned to the coordinator. If ctx is cancelled mid-batch,
// production is marked done with the number pushed so far so the consumer
// can still terminate, and the cancellation error is returned.
func (p *Producer) Run(ctx context.Context) error {
	batch, err := p.src.Batch(ctx)
	if err != nil {
		p.logger.Error("failed to generate batch", zap.Error(err))
		return fmt.Errorf("generate batch: %w", err)
	}

	p.logger.Info("producer started", zap.Int("batch_size", len(batch)))

	for _, a := range batch {
		if err := p.pacer.Wait(ctx); err != nil {
			return p.abort(len(batch), err)
		}

		p.logger.Info("producing",
			zap.String("assignment_id", a.ID().String()),
			zap.String("description", a.Description()),
			zap.String("due_date", a.DueDate().Format(time.RFC3339)),
			zap.Stringer("priority", a.Priority()),
		)
		p.ch.Push(a)
		p.produced.Add(1)
		p.hooks.OnProduced(a, p.ch.Depth())
	}

	if err := p.ch.MarkProductionDone(len(batch)); err != nil {
		return fmt.Errorf("mark production done: %w", err)
	}

	p.logger.Info("production done", zap.Int("total", len(batch)))
	return nil
}

// abort publishes the partial count so the consumer is not left waiting for
// items that will never arrive.
func (p *Producer) abort(batchSize int, cause error) error {
	n := int(p.produced.Load())
	if err := p.ch.MarkProductionDone(n); err != nil {
		p.logger.Error("failed to publish partial count", zap.Error(err))
	}
	p.logger.Warn("producer interrupted",
		zap.Int("produced", n),
		zap.Int("batch_size", batchSize),
		zap.Error(cause),
	)
	return fmt.Errorf("producer interrupted after %d of %d assignments: %w", n, batchSize, cause)
}

// Produced returns the number of assignments pushed so far.
func (p *Producer) Produced() int {
	return int(p.produced.Load())
}
