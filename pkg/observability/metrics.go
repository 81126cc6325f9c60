package observability

import (
	"context"
	"strconv"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by lifecycle hooks.
type Metrics struct {
	Traces      *prometheus.CounterVec
	TraceSteps  *prometheus.HistogramVec
	Commits     *prometheus.CounterVec
	Aborts      *prometheus.CounterVec
	Transitions *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Traces: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stepwise_traces_total",
				Help: "Total number of generated traces",
			},
			[]string{"family", "kind", "outcome"},
		),
		TraceSteps: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stepwise_trace_steps",
				Help:    "Number of steps per generated trace",
				Buckets: prometheus.ExponentialBuckets(1, 2, 10),
			},
			[]string{"family"},
		),
		Commits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stepwise_commits_total",
				Help: "Total number of resolved traces",
			},
			[]string{"family", "outcome", "mutated"},
		),
		Aborts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stepwise_aborts_total",
				Help: "Total number of discarded traces",
			},
			[]string{"family"},
		),
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stepwise_playback_transitions_total",
				Help: "Playback status transitions",
			},
			[]string{"to"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Traces, m.TraceSteps, m.Commits, m.Aborts, m.Transitions)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTraceGenerated: func(_ context.Context, e *domain.TraceEvent) {
			m.Traces.WithLabelValues(e.Family, string(e.Kind), string(e.Outcome)).Inc()
			m.TraceSteps.WithLabelValues(e.Family).Observe(float64(e.Steps))
		},
		OnAbort: func(_ context.Context, e *domain.TraceEvent) {
			m.Aborts.WithLabelValues(e.Family).Inc()
		},
		OnCommit: func(_ context.Context, e *domain.CommitEvent) {
			m.Commits.WithLabelValues(e.Family, string(e.Outcome), strconv.FormatBool(e.Mutated)).Inc()
		},
		OnPlayback: func(_ context.Context, e *domain.PlaybackEvent) {
			m.Transitions.WithLabelValues(string(e.To)).Inc()
		},
	}
}
