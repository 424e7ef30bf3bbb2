package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// API requests are labelled by gin route template ("/api/users/:userId/graph"),
// never by raw path, so user and concept ids stay out of the label set.
func (r *Registry) initHTTPMetrics() {
	r.HTTPRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "recall_api_requests_total",
			Help: "Total number of concept API requests by route and status code",
		},
		[]string{"method", "route", "code"},
	)

	r.HTTPRequestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recall_api_request_duration_seconds",
			Help:    "Concept API latency; graph routes include edge inference and layout",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	r.HTTPRequestsInFlight = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "recall_api_requests_in_flight",
			Help: "Concept API requests currently being served",
		},
	)

	r.HTTPResponseSizeBytes = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recall_api_response_size_bytes",
			Help:    "Concept API response size; graph payloads grow with the user's concept count",
			Buckets: prometheus.ExponentialBuckets(256, 4, 8),
		},
		[]string{"route"},
	)
}
