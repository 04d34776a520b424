package worker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/notifyhub/assignment-queue/internal/channel"
	"github.com/notifyhub/assignment-queue/internal/domain"
	"github.com/notifyhub/assignment-queue/internal/worker"
)

func runConsumer(t *testing.T, c *worker.Consumer, ctx context.Context) <-chan error {
	t.Helper()
	errc := make(chan error, 1)
	go func() { errc <- c.Run(ctx) }()
	return errc
}

func waitErr(t *testing.T, errc <-chan error) error {
	t.Helper()
	select {
	case err := <-errc:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not return")
		return nil
	}
}

// TestConsumer_DrainsTrailingItems verifies items pushed before done is
// published are consumed even when production finishes before the consumer
// starts.
func TestConsumer_DrainsTrailingItems(t *testing.T) {
	ch := channel.New()
	for _, d := range []int{3, 1, 2} {
		ch.Push(domain.MustAssignment("x", base.AddDate(0, 0, d), domain.PriorityMedium))
	}
	if err := ch.MarkProductionDone(3); err != nil {
		t.Fatal(err)
	}

	rec := &recorder{}
	c := worker.NewConsumer(ch, rec, time.Hour, zaptest.NewLogger(t), worker.Hooks{})

	if err := waitErr(t, runConsumer(t, c, context.Background())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := rec.snapshot()
	if len(got) != 3 || c.Consumed() != 3 {
		t.Fatalf("expected 3 consumed, got %d (counter=%d)", len(got), c.Consumed())
	}
	for i := 1; i < len(got); i++ {
		if got[i].Less(got[i-1]) {
			t.Fatalf("items processed out of order at %d", i)
		}
	}
}

// TestConsumer_WakesOnPush verifies an idle consumer is woken by a push
// rather than waiting out its idle interval.
func TestConsumer_WakesOnPush(t *testing.T) {
	ch := channel.New()
	rec := &recorder{}
	c := worker.NewConsumer(ch, rec, time.Hour, zap.NewNop(), worker.Hooks{})

	errc := runConsumer(t, c, context.Background())

	time.Sleep(20 * time.Millisecond)
	ch.Push(domain.MustAssignment("late", base, domain.PriorityHigh))

	deadline := time.After(2 * time.Second)
	for c.Consumed() == 0 {
		select {
		case <-deadline:
			t.Fatal("consumer was not woken by push")
		case <-time.After(time.Millisecond):
		}
	}

	if err := ch.MarkProductionDone(1); err != nil {
		t.Fatal(err)
	}
	if err := waitErr(t, errc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestConsumer_EmptyBatchTerminates(t *testing.T) {
	ch := channel.New()
	c := worker.NewConsumer(ch, &recorder{}, time.Hour, zap.NewNop(), worker.Hooks{})

	errc := runConsumer(t, c, context.Background())
	if err := ch.MarkProductionDone(0); err != nil {
		t.Fatal(err)
	}

	if err := waitErr(t, errc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Consumed() != 0 {
		t.Fatalf("expected 0 consumed, got %d", c.Consumed())
	}
}

// TestConsumer_ProcessingFailuresAreSkipped verifies errors and panics from
// the processor are logged and counted, not fatal to the loop.
func TestConsumer_ProcessingFailuresAreSkipped(t *testing.T) {
	ch := channel.New()
	ch.Push(domain.MustAssignment("fails", base, domain.PriorityHigh))
	ch.Push(domain.MustAssignment("panics", base.AddDate(0, 0, 1), domain.PriorityHigh))
	ch.Push(domain.MustAssignment("ok", base.AddDate(0, 0, 2), domain.PriorityHigh))
	if err := ch.MarkProductionDone(3); err != nil {
		t.Fatal(err)
	}

	var failures []error
	rec := &recorder{fn: func(a domain.Assignment) error {
		switch a.Description() {
		case "fails":
			return errors.New("cannot process")
		case "panics":
			panic("boom")
		}
		return nil
	}}
	c := worker.NewConsumer(ch, rec, time.Hour, zap.NewNop(), worker.Hooks{
		OnConsumed: func(_ domain.Assignment, _ time.Duration, err error) {
			if err != nil {
				failures = append(failures, err)
			}
		},
	})

	if err := waitErr(t, runConsumer(t, c, context.Background())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Consumed() != 3 || c.Failed() != 2 {
		t.Fatalf("expected consumed=3 failed=2, got %d %d", c.Consumed(), c.Failed())
	}
	if len(failures) != 2 || !errors.Is(failures[1], worker.ErrProcessorPanic) {
		t.Fatalf("expected the panic to be reported as ErrProcessorPanic, got %v", failures)
	}
}

// TestConsumer_CountMismatch verifies a published total that cannot be
// reached is reported instead of waiting forever.
func TestConsumer_CountMismatch(t *testing.T) {
	ch := channel.New()
	ch.Push(domain.MustAssignment("only", base, domain.PriorityLow))
	if err := ch.MarkProductionDone(2); err != nil {
		t.Fatal(err)
	}

	c := worker.NewConsumer(ch, &recorder{}, time.Hour, zap.NewNop(), worker.Hooks{})
	err := waitErr(t, runConsumer(t, c, context.Background()))
	if !errors.Is(err, worker.ErrCountMismatch) {
		t.Fatalf("expected ErrCountMismatch, got %v", err)
	}
	if c.Consumed() != 1 {
		t.Fatalf("expected consumed=1, got %d", c.Consumed())
	}
}

func TestConsumer_Cancellation(t *testing.T) {
	ch := channel.New()
	ctx, cancel := context.WithCancel(context.Background())
	c := worker.NewConsumer(ch, &recorder{}, time.Hour, zap.NewNop(), worker.Hooks{})

	errc := runConsumer(t, c, ctx)
	ch.Push(domain.MustAssignment("a", base, domain.PriorityLow))

	deadline := time.After(2 * time.Second)
	for c.Consumed() == 0 {
		select {
		case <-deadline:
			t.Fatal("consumer never processed the pushed item")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()

	err := waitErr(t, errc)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if c.Consumed() != 1 {
		t.Fatalf("already consumed state must survive cancellation, got %d", c.Consumed())
	}
}

// TestConsumer_IdleIntervalFallback verifies the consumer re-polls on its
// idle timer; the drained hook fires repeatedly while nothing is pushed.
func TestConsumer_IdleIntervalFallback(t *testing.T) {
	ch := channel.New()
	drains := make(chan struct{}, 100)
	c := worker.NewConsumer(ch, &recorder{}, 5*time.Millisecond, zap.NewNop(), worker.Hooks{
		OnDrained: func(int, int) {
			select {
			case drains <- struct{}{}:
			default:
			}
		},
	})

	errc := runConsumer(t, c, context.Background())
	for i := 0; i < 3; i++ {
		select {
		case <-drains:
		case <-time.After(2 * time.Second):
			t.Fatalf("expected repeated drains, got %d", i)
		}
	}
	if err := ch.MarkProductionDone(0); err != nil {
		t.Fatal(err)
	}
	if err := waitErr(t, errc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
