// Package metrics provides Prometheus-based recording and querying for dialog
// engine activity.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusRecorder implements the engine's Observer interface using
// Prometheus metrics.
type PrometheusRecorder struct {
	turnsTotal     *prometheus.CounterVec
	fallbacksTotal *prometheus.CounterVec
	actionsTotal   *prometheus.CounterVec
	turnDuration   *prometheus.HistogramVec
	actionDuration *prometheus.HistogramVec
}

// NewPrometheusRecorder creates a recorder registered with the default
// registry. Construct it once per process.
func NewPrometheusRecorder() *PrometheusRecorder {
	return &PrometheusRecorder{
		turnsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dialog_turns_total",
				Help: "Total number of processed turns by state and intent",
			},
			[]string{"state_in", "state_out", "intent"},
		),
		fallbacksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dialog_fallbacks_total",
				Help: "Total number of turns that matched no transition",
			},
			[]string{"state"},
		),
		actionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dialog_action_executions_total",
				Help: "Total number of action executions by action and result code",
			},
			[]string{"action", "result"},
		),
		turnDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dialog_turn_duration_seconds",
				Help:    "End-to-end duration of one turn, NLU included",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"state_in"},
		),
		actionDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dialog_action_duration_seconds",
				Help:    "Duration of one action execution",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"action"},
		),
	}
}

// ObserveTurn records one completed turn.
func (p *PrometheusRecorder) ObserveTurn(stateIn, stateOut, intent string, fallback bool, duration time.Duration) {
	p.turnsTotal.WithLabelValues(stateIn, stateOut, intent).Inc()
	p.turnDuration.WithLabelValues(stateIn).Observe(duration.Seconds())
	if fallback {
		p.fallbacksTotal.WithLabelValues(stateIn).Inc()
	}
}

// ObserveAction records one action execution.
func (p *PrometheusRecorder) ObserveAction(action, result string, duration time.Duration) {
	p.actionsTotal.WithLabelValues(action, result).Inc()
	p.actionDuration.WithLabelValues(action).Observe(duration.Seconds())
}
