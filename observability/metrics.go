// Package observability hosts the prometheus instrumentation for the
// certificate service.
package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// ServiceMetrics records certificate API activity segmented by operation and
// outcome.
type ServiceMetrics struct {
	Requests *prometheus.CounterVec
	Errors   *prometheus.CounterVec
	Latency  *prometheus.HistogramVec
	Minted   prometheus.Counter
}

var (
	serviceMetricsOnce sync.Once
	serviceRegistry    *ServiceMetrics
)

// Metrics returns the lazily-initialised service metrics registry.
func Metrics() *ServiceMetrics {
	serviceMetricsOnce.Do(func() {
		serviceRegistry = &ServiceMetrics{
			Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "cert",
				Subsystem: "api",
				Name:      "requests_total",
				Help:      "Total API requests segmented by operation and outcome.",
			}, []string{"operation", "outcome"}),
			Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "cert",
				Subsystem: "api",
				Name:      "errors_total",
				Help:      "Total API errors segmented by operation and status code.",
			}, []string{"operation", "status"}),
			Latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "cert",
				Subsystem: "api",
				Name:      "request_duration_seconds",
				Help:      "Latency distribution for API handlers.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"operation"}),
			Minted: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "cert",
				Name:      "minted_total",
				Help:      "Total certificates issued since process start.",
			}),
		}
		prometheus.MustRegister(
			serviceRegistry.Requests,
			serviceRegistry.Errors,
			serviceRegistry.Latency,
			serviceRegistry.Minted,
		)
	})
	return serviceRegistry
}

// Observe records one completed API request.
func (m *ServiceMetrics) Observe(operation, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(operation, outcome).Inc()
	m.Latency.WithLabelValues(operation).Observe(seconds)
}

// ObserveError records one failed API request with its HTTP status.
func (m *ServiceMetrics) ObserveError(operation, status string) {
	if m == nil {
		return
	}
	m.Errors.WithLabelValues(operation, status).Inc()
}
