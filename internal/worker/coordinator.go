package worker

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/notifyhub/assignment-queue/internal/channel"
	"github.com/notifyhub/assignment-queue/internal/processor"
	"github.com/notifyhub/assignment-queue/internal/ratelimiter"
	"github.com/notifyhub/assignment-queue/internal/source"
)

// Options tunes a single run.
type Options struct {
	// ProduceInterval is the simulated delay between pushes. Zero disables it.
	ProduceInterval time.Duration
	// IdleInterval bounds the consumer's wait after an empty drain.
	IdleInterval time.Duration
	Hooks        Hooks
}

// Result summarises a completed run.
type Result struct {
	Produced int
	Consumed int
	Failed   int
	Elapsed  time.Duration
}

// Status is a live view of a run, served by the status endpoint.
type Status struct {
	Channel  channel.Snapshot `json:"channel"`
	Produced int              `json:"produced"`
	Consumed int              `json:"consumed"`
	Failed   int              `json:"failed"`
}

// Coordinator owns one shared channel and the producer and consumer wired to
// it. The channel's completion state is write-once, so a coordinator runs
// exactly once.
type Coordinator struct {
	ch       *channel.SharedChannel
	producer *Producer
	consumer *Consumer
	logger   *zap.Logger
	started  atomic.Bool
}

func NewCoordinator(
	src source.Source,
	proc processor.Processor,
	opts Options,
	logger *zap.Logger,
) *Coordinator {
	ch := channel.New()
	return &Coordinator{
		ch: ch,
		producer: NewProducer(ch, src, ratelimiter.New(opts.ProduceInterval),
			logger.With(zap.String("component", "producer")), opts.Hooks),
		consumer: NewConsumer(ch, proc, opts.IdleInterval,
			logger.With(zap.String("component", "consumer")), opts.Hooks),
		logger: logger,
	}
}

// Run starts the producer and consumer concurrently and waits for both.
// The first error from either side cancels the other and is returned.
func (c *Coordinator) Run(ctx context.Context) (Result, error) {
	if !c.started.CompareAndSwap(false, true) {
		return Result{}, ErrAlreadyStarted
	}

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.producer.Run(gctx) })
	g.Go(func() error { return c.consumer.Run(gctx) })
	err := g.Wait()

	res := Result{
		Produced: c.producer.Produced(),
		Consumed: c.consumer.Consumed(),
		Failed:   c.consumer.Failed(),
		Elapsed:  time.Since(start),
	}

	if err != nil {
		c.logger.Error("run failed",
			zap.Int("produced", res.Produced),
			zap.Int("consumed", res.Consumed),
			zap.Error(err),
		)
		return res, err
	}

	c.logger.Info("all assignments produced and consumed",
		zap.Int("produced", res.Produced),
		zap.Int("consumed", res.Consumed),
		zap.Int("failed", res.Failed),
		zap.Duration("elapsed", res.Elapsed),
	)
	return res, nil
}

// Status is safe to call while Run is in progress.
func (c *Coordinator) Status() Status {
	return Status{
		Channel:  c.ch.Snapshot(),
		Produced: c.producer.Produced(),
		Consumed: c.consumer.Consumed(),
		Failed:   c.consumer.Failed(),
	}
}
