// Package metrics exposes Prometheus collectors for engine calculations,
// cache tier hit/miss behavior, and workflow orchestration. Grounded on
// the platform's HTTP/database/blockchain metrics wiring, reprojected
// onto this domain's three concerns.
package metrics

import (
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/R3E-Network/consciousness-core/internal/runtime"
)

// Metrics holds every Prometheus collector this module registers.
type Metrics struct {
	EngineCallsTotal    *prometheus.CounterVec
	EngineCallDuration  *prometheus.HistogramVec
	EngineCallsInFlight prometheus.Gauge
	CacheLookupsTotal   *prometheus.CounterVec
	WorkflowRunsTotal   *prometheus.CounterVec
	WorkflowRunDuration *prometheus.HistogramVec
	GateDenialsTotal    *prometheus.CounterVec
	ServiceInfo         *prometheus.GaugeVec
}

// New creates a Metrics instance registered against the default registerer.
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a Metrics instance registered against registerer,
// or left unregistered if registerer is nil (useful in tests, where the
// default global registry would otherwise collide across test cases).
func NewWithRegistry(serviceName string, registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		EngineCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "engine_calls_total",
				Help: "Total number of engine Calculate invocations",
			},
			[]string{"engine", "status"},
		),
		EngineCallDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "engine_call_duration_seconds",
				Help:    "Engine Calculate duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"engine"},
		),
		EngineCallsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "engine_calls_in_flight",
				Help: "Current number of engine calculations in progress",
			},
		),
		CacheLookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_lookups_total",
				Help: "Total number of three-layer cache lookups, by resolved tier",
			},
			[]string{"tier"},
		),
		WorkflowRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "workflow_runs_total",
				Help: "Total number of orchestrator workflow runs",
			},
			[]string{"status"},
		),
		WorkflowRunDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "workflow_run_duration_seconds",
				Help:    "Workflow run duration in seconds",
				Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"status"},
		),
		GateDenialsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gate_denials_total",
				Help: "Total number of consciousness-gate access denials",
			},
			[]string{"engine"},
		),
		ServiceInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "service_info",
				Help: "Service information",
			},
			[]string{"service", "version", "environment"},
		),
	}

	if registerer != nil {
		registerer.MustRegister(
			m.EngineCallsTotal,
			m.EngineCallDuration,
			m.EngineCallsInFlight,
			m.CacheLookupsTotal,
			m.WorkflowRunsTotal,
			m.WorkflowRunDuration,
			m.GateDenialsTotal,
			m.ServiceInfo,
		)
	}

	m.ServiceInfo.WithLabelValues(serviceName, "1.0.0", string(runtime.Env())).Set(1)

	return m
}

// RecordEngineCall records one engine Calculate invocation.
func (m *Metrics) RecordEngineCall(engine, status string, duration time.Duration) {
	m.EngineCallsTotal.WithLabelValues(engine, status).Inc()
	m.EngineCallDuration.WithLabelValues(engine).Observe(duration.Seconds())
}

// RecordCacheLookup records which tier (l1, l2, l3, miss) resolved a
// cache lookup.
func (m *Metrics) RecordCacheLookup(tier string) {
	m.CacheLookupsTotal.WithLabelValues(tier).Inc()
}

// RecordWorkflowRun records one orchestrator Run invocation.
func (m *Metrics) RecordWorkflowRun(status string, duration time.Duration) {
	m.WorkflowRunsTotal.WithLabelValues(status).Inc()
	m.WorkflowRunDuration.WithLabelValues(status).Observe(duration.Seconds())
}

// RecordGateDenial records a consciousness-gate access denial for engine.
func (m *Metrics) RecordGateDenial(engine string) {
	m.GateDenialsTotal.WithLabelValues(engine).Inc()
}

// IncrementInFlight increments the in-flight engine-call gauge.
func (m *Metrics) IncrementInFlight() { m.EngineCallsInFlight.Inc() }

// DecrementInFlight decrements the in-flight engine-call gauge.
func (m *Metrics) DecrementInFlight() { m.EngineCallsInFlight.Dec() }

// Enabled returns whether Prometheus metrics should be exposed.
//
// Defaults:
// - production: disabled unless explicitly enabled via METRICS_ENABLED
// - non-production: enabled unless explicitly disabled via METRICS_ENABLED
func Enabled() bool {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv("METRICS_ENABLED")))
	if raw == "" {
		return !runtime.IsProduction()
	}
	switch raw {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
