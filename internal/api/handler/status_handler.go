package handler

import (
	"net/http"

	"github.com/notifyhub/assignment-queue/internal/worker"
)

// StatusProvider is satisfied by *worker.Coordinator.
type StatusProvider interface {
	Status() worker.Status
}

// StatusHandler serves a JSON snapshot of the running pipeline: queue
// depth, completion state and producer/consumer counters.
// Raw Prometheus metrics are served separately at /metrics.
type StatusHandler struct {
	src StatusProvider
}

func NewStatusHandler(src StatusProvider) *StatusHandler {
	return &StatusHandler{src: src}
}

// GetStatus handles GET /api/v1/status
//
// The total is omitted until production is done.
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	st := h.src.Status()
	respondJSON(w, http.StatusOK, map[string]any{
		"queue_depth":     st.Channel.Depth,
		"production_done": st.Channel.Done,
		"total":           st.Channel.Total,
		"produced":        st.Produced,
		"consumed":        st.Consumed,
		"failed":          st.Failed,
		"remaining":       remaining(st),
	})
}

// remaining is nil while the total is still unknown.
func remaining(st worker.Status) *int {
	if st.Channel.Total == nil {
		return nil
	}
	n := *st.Channel.Total - st.Consumed
	return &n
}
