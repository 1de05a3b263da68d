package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels shared by the registration and integration counters.
const (
	StatusCreated  = "created"
	StatusConflict = "conflict"
	StatusInvalid  = "invalid"
	StatusError    = "error"
)

// IntegratorMetrics holds all Prometheus metrics for the integrator service.
type IntegratorMetrics struct {
	RegistrationsTotal *prometheus.CounterVec
	IntegrationsTotal  *prometheus.CounterVec
	RateLimitedTotal   prometheus.Counter
	RequestDuration    *prometheus.HistogramVec
}

// NewIntegratorMetrics initializes the metrics and registers them with reg.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewIntegratorMetrics(reg prometheus.Registerer) *IntegratorMetrics {
	factory := promauto.With(reg)
	return &IntegratorMetrics{
		RegistrationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "integrator",
			Subsystem: "register",
			Name:      "requests_total",
			Help:      "Total number of registration attempts by outcome.",
		}, []string{"status"}), // status: created, conflict, invalid, error
		IntegrationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "integrator",
			Subsystem: "integrate",
			Name:      "requests_total",
			Help:      "Total number of integration attempts by outcome.",
		}, []string{"status"}), // status: created, invalid, error
		RateLimitedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "integrator",
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Total number of requests rejected by the rate limiter.",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "integrator",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "code"}),
	}
}
