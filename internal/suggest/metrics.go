package suggest

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds Prometheus metrics for suggestion generation.
type Metrics struct {
	RemoteRequestsTotal *prometheus.CounterVec
	RemoteDuration      *prometheus.HistogramVec
	SuggestionsTotal    *prometheus.CounterVec
}

// NewMetrics registers the suggestion metrics once per process.
//
// Metrics:
//   - taskpulse_remote_requests_total{type,outcome}
//   - taskpulse_remote_request_duration_seconds{type}
//   - taskpulse_suggestions_total{type,source}
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			RemoteRequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "taskpulse_remote_requests_total",
					Help: "Remote suggestion requests by outcome",
				},
				[]string{"type", "outcome"}, // ok, error, invalid, timeout, skipped
			),
			RemoteDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "taskpulse_remote_request_duration_seconds",
					Help:    "Latency of remote suggestion requests",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"type"},
			),
			SuggestionsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "taskpulse_suggestions_total",
					Help: "Suggestions returned to callers",
				},
				[]string{"type", "source"},
			),
		}
	})
	return globalMetrics
}
