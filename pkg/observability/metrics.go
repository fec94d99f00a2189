package observability

import (
	"context"

	"github.com/aretw0/stateworks/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects Prometheus metrics about engine activity.
// One Metrics can observe any number of engines; the machine label tells them apart.
type Metrics struct {
	Cycles      *prometheus.CounterVec
	Transitions *prometheus.CounterVec
	Actions     *prometheus.CounterVec
	Steps       *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg falls back to prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		Cycles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stateworks_cycles_total",
				Help: "Total number of execution cycles that settled.",
			},
			[]string{"machine"},
		),
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stateworks_transitions_total",
				Help: "Total number of transitions taken.",
			},
			[]string{"machine", "from", "to"},
		),
		Actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stateworks_actions_total",
				Help: "Total number of actions dispatched by the cycle.",
			},
			[]string{"machine", "action", "phase"},
		),
		Steps: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stateworks_cycle_steps",
				Help:    "Transitions taken per cycle before it settled.",
				Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64},
			},
			[]string{"machine"},
		),
	}

	for _, c := range []prometheus.Collector{m.Cycles, m.Transitions, m.Actions, m.Steps} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that record into m under the given machine label.
func (m *Metrics) Hooks(machine string) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnAction: func(ctx context.Context, e *domain.ActionEvent) {
			m.Actions.WithLabelValues(machine, string(e.Action), string(e.Phase)).Inc()
		},
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			m.Transitions.WithLabelValues(machine, string(e.From), string(e.To)).Inc()
		},
		OnCycleSettled: func(ctx context.Context, e *domain.CycleEvent) {
			m.Cycles.WithLabelValues(machine).Inc()
			m.Steps.WithLabelValues(machine).Observe(float64(e.Steps))
		},
	}
}

// Forget drops the series of a machine, e.g. when its session is deleted.
func (m *Metrics) Forget(machine string) {
	labels := prometheus.Labels{"machine": machine}
	m.Cycles.DeletePartialMatch(labels)
	m.Transitions.DeletePartialMatch(labels)
	m.Actions.DeletePartialMatch(labels)
	m.Steps.DeletePartialMatch(labels)
}
