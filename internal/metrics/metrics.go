package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

const namespace = "flexcargo"

// Allocation results
const (
	ResultSuccess         = "success"
	ResultNotProvisioned  = "not_provisioned"
	ResultStoreError      = "store_unavailable"
	ResultFormatMissing   = "format_missing"
	ResultValidationError = "validation_error"
)

// Metrics holds the service collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	allocationsTotal   *prometheus.CounterVec
	allocationDuration *prometheus.HistogramVec
	periodResetsTotal  *prometheus.CounterVec
	httpRequestsTotal  *prometheus.CounterVec
}

// Module provides fx options for metrics
func Module() fx.Option {
	return fx.Provide(NewMetrics)
}

// NewMetrics registers every collector on a fresh registry
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		allocationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "sequence",
				Name:      "allocations_total",
				Help:      "Total number of document number allocations",
			},
			[]string{"sequence_type", "result"},
		),
		allocationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "sequence",
				Name:      "allocation_duration_seconds",
				Help:      "Latency of the atomic counter increment",
				Buckets:   []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"sequence_type"},
		),
		periodResetsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "sequence",
				Name:      "period_resets_total",
				Help:      "Allocations that started a new numbering period",
			},
			[]string{"sequence_type"},
		),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "HTTP requests by route and status code",
			},
			[]string{"method", "route", "status"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.allocationsTotal,
		m.allocationDuration,
		m.periodResetsTotal,
		m.httpRequestsTotal,
	)

	return m
}

// Registry exposes the registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveAllocation records one allocator call. A nil receiver is a no-op.
func (m *Metrics) ObserveAllocation(sequenceType, result string, duration time.Duration, reset bool) {
	if m == nil {
		return
	}
	m.allocationsTotal.WithLabelValues(sequenceType, result).Inc()
	if result == ResultSuccess {
		m.allocationDuration.WithLabelValues(sequenceType).Observe(duration.Seconds())
	}
	if reset {
		m.periodResetsTotal.WithLabelValues(sequenceType).Inc()
	}
}

// ObserveRequest records one served HTTP request
func (m *Metrics) ObserveRequest(method, route string, status int) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
