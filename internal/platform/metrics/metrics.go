package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	UpstreamFailures *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "epiwatch_requests_total",
			Help: "Total HTTP requests served, by route and status class",
		}, []string{"route", "status"}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "epiwatch_request_duration_seconds",
			Help:    "HTTP request latency, by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		UpstreamFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "epiwatch_upstream_failures_total",
			Help: "Failures talking to external collaborators, by collaborator",
		}, []string{"collaborator"}),
	}
}

// ObserveRequest records one served request.
func (m *Metrics) ObserveRequest(route, status string, elapsed time.Duration) {
	m.RequestsTotal.WithLabelValues(route, status).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// IncUpstreamFailure records a collaborator failure (news, geolocation).
func (m *Metrics) IncUpstreamFailure(collaborator string) {
	m.UpstreamFailures.WithLabelValues(collaborator).Inc()
}
