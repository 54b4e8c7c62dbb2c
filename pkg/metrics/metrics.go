package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	ScansTotal          *prometheus.CounterVec
	PageFetchesTotal    *prometheus.CounterVec
	FetchDuration       *prometheus.HistogramVec
	SchemasExtracted    prometheus.Counter
	MalformedPayloads   prometheus.Counter
	ScansInQueue        prometheus.Gauge
}

// New registers the application metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		ScansTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scans_total",
				Help: "Total number of scans that reached a terminal state.",
			},
			[]string{"type", "status"},
		),
		PageFetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "page_fetches_total",
				Help: "Total number of page fetch attempts.",
			},
			[]string{"result"}, // success, timeout, navigation, bad_status, unknown
		),
		FetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "page_fetch_duration_seconds",
				Help:    "Duration of page fetches.",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30},
			},
			[]string{"domain"},
		),
		SchemasExtracted: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "schemas_extracted_total",
				Help: "Total number of schema objects extracted from pages.",
			},
		),
		MalformedPayloads: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "malformed_payloads_total",
				Help: "Total number of JSON-LD payloads that failed to parse.",
			},
		),
		ScansInQueue: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "scans_in_queue",
				Help: "Current number of site scans waiting for a worker.",
			},
		),
	}
}

// NewNop returns metrics registered against a throwaway registry.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
