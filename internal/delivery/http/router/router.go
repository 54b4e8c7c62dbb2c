package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/user/schema-scanner/internal/delivery/http/handler"
	"github.com/user/schema-scanner/internal/delivery/http/middleware"
	"github.com/user/schema-scanner/pkg/metrics"
)

// New wires the API routes. gatherer serves /metrics.
func New(h *handler.Handler, m *metrics.Metrics, gatherer prometheus.Gatherer, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics(m))
	r.Use(chimw.Recoverer)
	// Single-page analysis waits for a full page load.
	r.Use(chimw.Timeout(90 * time.Second))

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Get("/api/health", h.HandleServiceHealth)
	r.Post("/api/analyze", h.HandleAnalyze)
	r.Post("/api/health-check", h.HandleHealthCheck)
	r.Post("/api/scans", h.HandleSubmitScan)
	r.Get("/api/scans", h.HandleGetLatestScan)
	r.Get("/api/scans/{scanID}", h.HandleGetScan)

	return r
}
