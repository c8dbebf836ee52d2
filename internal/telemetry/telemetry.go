// Package telemetry exposes the service's Prometheus metrics. Each
// Telemetry instance carries its own registry so tests can create as many
// as they need without duplicate registration panics.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agrimandi/advisor/config"
)

// Telemetry collects request and agent level metrics.
type Telemetry struct {
	enabled  bool
	registry *prometheus.Registry

	requestsTotal   prometheus.Counter
	requestDuration prometheus.Histogram
	invalidInputs   prometheus.Counter
	agentFailures   *prometheus.CounterVec
	priceTier       *prometheus.CounterVec
	synthFallbacks  prometheus.Counter
}

// New creates a telemetry instance with its own registry.
func New(cfg config.TelemetryConfig) *Telemetry {
	registry := prometheus.NewRegistry()

	t := &Telemetry{
		enabled:  cfg.Enabled,
		registry: registry,
		requestsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "advisor_analyze_requests_total",
			Help: "Total analyze requests processed.",
		}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "advisor_analyze_duration_seconds",
			Help:    "End to end analyze request duration.",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		}),
		invalidInputs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "advisor_invalid_input_total",
			Help: "Requests rejected before fan-out for missing fields.",
		}),
		agentFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "advisor_agent_failures_total",
			Help: "Agent executions that settled as FAILED.",
		}, []string{"agent"}),
		priceTier: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "advisor_price_data_source_total",
			Help: "Which tier produced the price insights.",
		}, []string{"source"}),
		synthFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "advisor_synthesis_fallback_total",
			Help: "Recommendations produced by the deterministic fallback.",
		}),
	}

	registry.MustRegister(
		t.requestsTotal,
		t.requestDuration,
		t.invalidInputs,
		t.agentFailures,
		t.priceTier,
		t.synthFallbacks,
	)
	return t
}

// Handler returns the /metrics HTTP handler for this registry.
func (t *Telemetry) Handler() http.Handler {
	return promhttp.HandlerFor(t.registry, promhttp.HandlerOpts{})
}

// RecordRequest records one completed analyze request.
func (t *Telemetry) RecordRequest(d time.Duration) {
	if !t.enabled {
		return
	}
	t.requestsTotal.Inc()
	t.requestDuration.Observe(d.Seconds())
}

// RecordInvalidInput records a request rejected before fan-out.
func (t *Telemetry) RecordInvalidInput() {
	if !t.enabled {
		return
	}
	t.invalidInputs.Inc()
}

// RecordAgentFailure records an agent that settled as FAILED.
func (t *Telemetry) RecordAgentFailure(agent string) {
	if !t.enabled {
		return
	}
	t.agentFailures.WithLabelValues(agent).Inc()
}

// RecordPriceSource records which tier produced the price insights.
func (t *Telemetry) RecordPriceSource(source string) {
	if !t.enabled {
		return
	}
	t.priceTier.WithLabelValues(source).Inc()
}

// RecordSynthesisFallback records a deterministic fallback recommendation.
func (t *Telemetry) RecordSynthesisFallback() {
	if !t.enabled {
		return
	}
	t.synthFallbacks.Inc()
}
