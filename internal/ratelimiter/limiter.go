package ratelimiter

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces out the producer's pushes to simulate work between items.
// Burst is 1 so each push after the first waits a full interval; the first
// token is available immediately.
type Pacer struct {
	limiter *rate.Limiter
}

// New creates a Pacer that allows one push per interval.
// A zero or negative interval disables pacing.
func New(interval time.Duration) *Pacer {
	if interval <= 0 {
		return &Pacer{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Pacer{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the next push is allowed.
// Returns a non-nil error only if ctx is cancelled while waiting.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil {
		return ctx.Err()
	}
	return p.limiter.Wait(ctx)
}
