package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/notifyhub/assignment-queue/internal/api/handler"
	apimw "github.com/notifyhub/assignment-queue/internal/api/middleware"
)

// NewRouter wires the read-only status surface: liveness, Prometheus scrape
// and a JSON snapshot of the current run.
func NewRouter(
	status handler.StatusProvider,
	reg prometheus.Gatherer,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(apimw.CorrelationID)
	r.Use(apimw.RequestLogger(logger))

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	sh := handler.NewStatusHandler(status)
	hh := handler.NewHealthHandler()

	r.Get("/health", hh.Health)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", sh.GetStatus)
	})

	return r
}
