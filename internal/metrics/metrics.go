// Package metrics exposes pipeline telemetry as Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mealgraph/mealgraph/pkg/domain"
	"github.com/mealgraph/mealgraph/pkg/toolloop"
)

// Metrics implements pipeline.Observer over a Prometheus registry.
type Metrics struct {
	registry *prometheus.Registry

	turns      *prometheus.CounterVec
	loops      *prometheus.CounterVec
	loopRounds *prometheus.HistogramVec
}

// New creates the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mealgraph",
			Name:      "turns_total",
			Help:      "Completed turns by intent, clarification outcome and error kind.",
		}, []string{"intent", "clarified", "error_kind"}),
		loops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mealgraph",
			Name:      "tool_loops_total",
			Help:      "Tool loop runs by intent and terminal status.",
		}, []string{"intent", "status"}),
		loopRounds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mealgraph",
			Name:      "tool_loop_rounds",
			Help:      "Model round-trips per tool loop run.",
			Buckets:   prometheus.LinearBuckets(1, 1, toolloop.DefaultMaxRounds),
		}, []string{"intent"}),
	}
	m.registry.MustRegister(m.turns, m.loops, m.loopRounds)
	return m
}

// TurnHandled counts one completed turn.
func (m *Metrics) TurnHandled(intent domain.Intent, clarified bool, errKind domain.ErrorKind) {
	c := "false"
	if clarified {
		c = "true"
	}
	kind := string(errKind)
	if kind == "" {
		kind = "none"
	}
	m.turns.WithLabelValues(string(intent), c, kind).Inc()
}

// LoopFinished records one tool loop outcome.
func (m *Metrics) LoopFinished(intent domain.Intent, status toolloop.Status, rounds int) {
	m.loops.WithLabelValues(string(intent), string(status)).Inc()
	m.loopRounds.WithLabelValues(string(intent)).Observe(float64(rounds))
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
