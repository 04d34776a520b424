package worker

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/notifyhub/assignment-queue/internal/channel"
	"github.com/notifyhub/assignment-queue/internal/domain"
	"github.com/notifyhub/assignment-queue/internal/processor"
)

// Consumer drains the shared channel in priority order and processes each
// assignment until production is done and every produced item is consumed.
type Consumer struct {
	ch     *channel.SharedChannel
	proc   processor.Processor
	idle   time.Duration
	logger *zap.Logger
	hooks  Hooks

	consumed atomic.Int64
	failed   atomic.Int64
}

// DefaultIdleInterval is used when NewConsumer is given a non-positive idle.
const DefaultIdleInterval = 250 * time.Millisecond

// NewConsumer constructs a consumer. idle bounds how long an empty drain
// waits before retrying when no wake-up arrives.
func NewConsumer(
	ch *channel.SharedChannel,
	proc processor.Processor,
	idle time.Duration,
	logger *zap.Logger,
	hooks Hooks,
) *Consumer {
	if idle <= 0 {
		idle = DefaultIdleInterval
	}
	return &Consumer{
		ch: ch, proc: proc, idle: idle,
		logger: logger, hooks: hooks.withDefaults(),
	}
}

// Run blocks until every produced assignment has been consumed or ctx is
// cancelled.
//
// The done flag is read before each drain. Every push happens before the
// producer publishes done, so a drain that follows an observed done returns
// everything that is left; after it the consumed count must equal the total.
// The total is never read while production is still running.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info("consumer started")

	timer := time.NewTimer(c.idle)
	defer timer.Stop()

	for {
		done := c.ch.IsProductionDone()

		batch := c.ch.DrainAll()
		c.hooks.OnDrained(len(batch), c.ch.Depth())

		for i, a := range batch {
			if err := ctx.Err(); err != nil {
				return c.interrupted(len(batch)-i, err)
			}
			c.process(ctx, a)
		}

		if done {
			return c.finish()
		}

		if len(batch) > 0 {
			continue
		}

		timer.Reset(c.idle)
		select {
		case <-c.ch.Ready():
		case <-c.ch.Done():
		case <-timer.C:
		case <-ctx.Done():
			return c.interrupted(0, ctx.Err())
		}
	}
}

func (c *Consumer) finish() error {
	total, err := c.ch.TotalCount()
	if err != nil {
		return fmt.Errorf("read total count: %w", err)
	}

	consumed := c.Consumed()
	if consumed != total {
		c.logger.Error("consumed count does not match total",
			zap.Int("consumed", consumed), zap.Int("total", total))
		return fmt.Errorf("%w: consumed %d, total %d", ErrCountMismatch, consumed, total)
	}

	c.logger.Info("consumer finished",
		zap.Int("consumed", consumed),
		zap.Int("failed", c.Failed()),
	)
	return nil
}

// interrupted reports cancellation. Already consumed assignments stay
// counted; drained but unprocessed ones are reported, not counted.
func (c *Consumer) interrupted(unprocessed int, cause error) error {
	c.logger.Warn("consumer interrupted",
		zap.Int("consumed", c.Consumed()),
		zap.Int("unprocessed", unprocessed),
		zap.Error(cause),
	)
	return fmt.Errorf("consumer interrupted after %d assignments: %w", c.Consumed(), cause)
}

// process runs one processing step. Errors and panics are logged and the
// assignment is skipped; it still counts as consumed.
func (c *Consumer) process(ctx context.Context, a domain.Assignment) {
	start := time.Now()
	err := c.safeProcess(ctx, a)
	elapsed := time.Since(start)

	c.consumed.Add(1)
	if err != nil {
		c.failed.Add(1)
		c.logger.Warn("processing failed, skipping assignment",
			zap.String("assignment_id", a.ID().String()),
			zap.String("description", a.Description()),
			zap.Error(err),
		)
	}
	c.hooks.OnConsumed(a, elapsed, err)
}

func (c *Consumer) safeProcess(ctx context.Context, a domain.Assignment) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrProcessorPanic, r)
		}
	}()
	return c.proc.Process(ctx, a)
}

// Consumed returns the number of assignments processed so far, failures
// included.
func (c *Consumer) Consumed() int {
	return int(c.consumed.Load())
}

// Failed returns how many processing steps returned an error or panicked.
func (c *Consumer) Failed() int {
	return int(c.failed.Load())
}
