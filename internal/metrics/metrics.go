package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/notifyhub/assignment-queue/internal/domain"
	"github.com/notifyhub/assignment-queue/internal/worker"
)

// Metrics groups all Prometheus instruments used across the application.
// Registered once at startup via New(); passed by pointer wherever needed.
type Metrics struct {
	AssignmentsProduced *prometheus.CounterVec
	AssignmentsConsumed *prometheus.CounterVec
	AssignmentsFailed   *prometheus.CounterVec
	ProcessingLatency   prometheus.Histogram
	DrainBatchSize      prometheus.Histogram
	QueueDepth          prometheus.Gauge
}

// New registers all instruments with the given Prometheus registerer.
// A custom registry keeps tests isolated and avoids global state.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AssignmentsProduced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "assignments_produced_total",
			Help: "Total number of assignments pushed onto the queue.",
		}, []string{"priority"}),

		AssignmentsConsumed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "assignments_consumed_total",
			Help: "Total number of assignments drained and processed, including failures.",
		}, []string{"priority"}),

		AssignmentsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "assignments_failed_total",
			Help: "Total number of assignments whose processing step returned an error.",
		}, []string{"priority"}),

		ProcessingLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "assignment_processing_seconds",
			Help:    "Time spent in the per-assignment processing step.",
			Buckets: prometheus.DefBuckets,
		}),

		DrainBatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "assignment_drain_batch_size",
			Help:    "Number of assignments returned by each non-empty drain.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),

		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "assignment_queue_depth",
			Help: "Current number of assignments waiting in the queue.",
		}),
	}

	reg.MustRegister(
		m.AssignmentsProduced,
		m.AssignmentsConsumed,
		m.AssignmentsFailed,
		m.ProcessingLatency,
		m.DrainBatchSize,
		m.QueueDepth,
	)

	return m
}

// WorkerHooks returns the callbacks expected by the producer and consumer.
// Centralises the prometheus observation calls so the worker package stays
// import-free.
func (m *Metrics) WorkerHooks() worker.Hooks {
	return worker.Hooks{
		OnProduced: func(a domain.Assignment, depth int) {
			m.AssignmentsProduced.WithLabelValues(a.Priority().String()).Inc()
			m.QueueDepth.Set(float64(depth))
		},
		OnDrained: func(n int, depth int) {
			if n > 0 {
				m.DrainBatchSize.Observe(float64(n))
			}
			m.QueueDepth.Set(float64(depth))
		},
		OnConsumed: func(a domain.Assignment, latency time.Duration, err error) {
			label := a.Priority().String()
			m.AssignmentsConsumed.WithLabelValues(label).Inc()
			m.ProcessingLatency.Observe(latency.Seconds())
			if err != nil {
				m.AssignmentsFailed.WithLabelValues(label).Inc()
			}
		},
	}
}
