package worker

import (
	"time"

	"github.com/notifyhub/assignment-queue/internal/domain"
)

// Hooks carries the metric callbacks injected by main.
// Any nil hook is a no-op, so the workers stay metrics-agnostic.
type Hooks struct {
	OnProduced func(a domain.Assignment, depth int)
	OnDrained  func(n int, depth int)
	OnConsumed func(a domain.Assignment, latency time.Duration, err error)
}

func (h Hooks) withDefaults() Hooks {
	if h.OnProduced == nil {
		h.OnProduced = func(domain.Assignment, int) {}
	}
	if h.OnDrained == nil {
		h.OnDrained = func(int, int) {}
	}
	if h.OnConsumed == nil {
		h.OnConsumed = func(domain.Assignment, time.Duration, error) {}
	}
	return h
}
