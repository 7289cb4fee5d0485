// Package metrics exposes Prometheus instrumentation for the HTTP surface and
// the per-database gateway.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/leapstack-labs/litegate/pkg/core"
)

const namespace = "litegate"

// Label names.
const (
	RouteLabel  = "route"
	MethodLabel = "method"
	StatusLabel = "status"
	OpLabel     = "op"
	KindLabel   = "kind"
)

// Metrics owns a private registry so tests and embedded servers do not
// collide on the global default registry.
type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	queryDuration   *prometheus.HistogramVec
	queryFailures   *prometheus.CounterVec
	handlesInUse    prometheus.Gauge
	handlesOpened   prometheus.Counter
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route, method and status code",
			},
			[]string{RouteLabel, MethodLabel, StatusLabel},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by route and method",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{RouteLabel, MethodLabel},
		),
		queryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "query_duration_seconds",
				Help:      "Database operation latency by operation",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
			},
			[]string{OpLabel},
		),
		queryFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "query_failures_total",
				Help:      "Failed database operations by operation and failure kind",
			},
			[]string{OpLabel, KindLabel},
		),
		handlesInUse: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "handles_in_use",
			Help:      "Database handles currently open",
		}),
		handlesOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handles_opened_total",
			Help:      "Database handles opened since start",
		}),
	}

	m.registry.MustRegister(
		m.requests,
		m.requestDuration,
		m.queryDuration,
		m.queryFailures,
		m.handlesInUse,
		m.handlesOpened,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry the collectors are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveQuery records one database operation.
func (m *Metrics) ObserveQuery(op string, elapsed time.Duration, err error) {
	m.queryDuration.WithLabelValues(op).Observe(elapsed.Seconds())
	if err != nil {
		m.queryFailures.WithLabelValues(op, core.KindOf(err).String()).Inc()
	}
}

// HandleOpened records a newly opened database handle.
func (m *Metrics) HandleOpened() {
	m.handlesOpened.Inc()
	m.handlesInUse.Inc()
}

// HandleClosed records a released database handle.
func (m *Metrics) HandleClosed() {
	m.handlesInUse.Dec()
}

// Middleware records request count and latency. Requests are labelled by
// their chi route pattern so path parameters do not explode cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
