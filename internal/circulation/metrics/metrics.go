// Package metrics instruments the circulation engine. A nil *Metrics is safe
// to call so tests and stripped-down deployments need no registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for circulation counters.
const (
	OutcomeOK          = "ok"
	OutcomeNotFound    = "not_found"
	OutcomeConflict    = "conflict"
	OutcomeForbidden   = "forbidden"
	OutcomeNotEligible = "not_eligible"
	OutcomeError       = "error"
)

type Metrics struct {
	checkouts *prometheus.CounterVec
	returns   *prometheus.CounterVec
	durations *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		checkouts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "libnet",
			Subsystem: "circulation",
			Name:      "checkouts_total",
			Help:      "Checkout attempts by outcome.",
		}, []string{"outcome"}),
		returns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "libnet",
			Subsystem: "circulation",
			Name:      "returns_total",
			Help:      "Return attempts by outcome.",
		}, []string{"outcome"}),
		durations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "libnet",
			Subsystem: "circulation",
			Name:      "operation_duration_seconds",
			Help:      "Circulation operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
}

func (m *Metrics) Checkout(outcome string) {
	if m == nil {
		return
	}
	m.checkouts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Return(outcome string) {
	if m == nil {
		return
	}
	m.returns.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveDuration(operation string, d time.Duration) {
	if m == nil {
		return
	}
	m.durations.WithLabelValues(operation).Observe(d.Seconds())
}
