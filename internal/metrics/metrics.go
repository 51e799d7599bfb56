// Package metrics exposes Prometheus instrumentation for the planning
// client: backend request traffic, request latencies, and simulation
// outcomes. Collectors are registered on a private registry so tests can
// create instances freely without global-singleton collisions.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the client-side Prometheus collectors and the HTTP
// handler serving them.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	activeRequests  prometheus.Gauge
	simulations     *prometheus.CounterVec
}

// New creates a Metrics instance with all collectors registered.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "terrasim_requests_total",
			Help: "Backend requests issued, by operation and outcome.",
		}, []string{"operation", "outcome"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "terrasim_request_duration_seconds",
			Help:    "Backend request round-trip time, by operation.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "terrasim_active_requests",
			Help: "Backend requests currently in flight.",
		}),
		simulations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "terrasim_simulations_total",
			Help: "Simulation results received, by risk level.",
		}, []string{"risk_level"}),
	}

	registry.MustRegister(m.requestsTotal, m.requestDuration, m.activeRequests, m.simulations)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
}

// ObserveRequest records one completed backend request.
func (m *Metrics) ObserveRequest(operation string, duration time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.requestsTotal.WithLabelValues(operation, outcome).Inc()
	m.requestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// IncrementActiveRequests marks one request as in flight.
func (m *Metrics) IncrementActiveRequests() { m.activeRequests.Inc() }

// DecrementActiveRequests marks one in-flight request as finished.
func (m *Metrics) DecrementActiveRequests() { m.activeRequests.Dec() }

// CountSimulation records a received simulation result by its risk level.
func (m *Metrics) CountSimulation(riskLevel string) {
	m.simulations.WithLabelValues(riskLevel).Inc()
}

// Handler returns the HTTP handler serving the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler { return m.handler }

// Serve starts an HTTP server exposing /metrics on the given address.
// It blocks until the server stops; callers run it in a goroutine.
func (m *Metrics) Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.handler)
	return http.ListenAndServe(addr, mux)
}
