/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package ratelimit

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsLabelAlg      = "alg"
	metricsLabelDecision = "decision"
)

// Admission decisions.
const (
	DecisionAllowed  = "allowed"
	DecisionRejected = "rejected"
)

// MetricsCollector collects rate limiting metrics.
type MetricsCollector struct {
	Decisions   *prometheus.CounterVec
	TrackedKeys prometheus.GaugeFunc // nil when the limiter cannot report its keys
	alg         Alg
}

// NewMetricsCollector creates a new MetricsCollector.
// If the limiter implements KeysCounter, the number of tracked keys is exported as a gauge.
func NewMetricsCollector(namespace string, alg Alg, limiter Limiter) *MetricsCollector {
	c := &MetricsCollector{
		Decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_decisions_total",
			Help:      "Number of rate limiting decisions.",
		}, []string{metricsLabelAlg, metricsLabelDecision}),
		alg: alg,
	}
	if kc, ok := limiter.(KeysCounter); ok {
		c.TrackedKeys = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "rate_limit_tracked_keys",
			Help:        "Number of clients currently tracked by the rate limiter.",
			ConstLabels: prometheus.Labels{metricsLabelAlg: string(alg)},
		}, func() float64 {
			return float64(kc.Len())
		})
	}
	return c
}

// ObserveDecision increments the decisions counter.
func (c *MetricsCollector) ObserveDecision(allowed bool) {
	decision := DecisionRejected
	if allowed {
		decision = DecisionAllowed
	}
	c.Decisions.With(prometheus.Labels{metricsLabelAlg: string(c.alg), metricsLabelDecision: decision}).Inc()
}

// MustRegister does registration of metrics collector in Prometheus and panics if any error occurs.
func (c *MetricsCollector) MustRegister() {
	prometheus.MustRegister(c.Decisions)
	if c.TrackedKeys != nil {
		prometheus.MustRegister(c.TrackedKeys)
	}
}

// Unregister cancels registration of metrics collector in Prometheus.
func (c *MetricsCollector) Unregister() {
	prometheus.Unregister(c.Decisions)
	if c.TrackedKeys != nil {
		prometheus.Unregister(c.TrackedKeys)
	}
}
