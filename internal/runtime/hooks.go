package runtime

import (
	"context"

	"github.com/aretw0/stateworks/pkg/domain"
)

func (e *Engine) base(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: e.now(), Type: t, Cycle: e.cycles}
}

func (e *Engine) emitCycleStart(ctx context.Context) {
	if e.hooks.OnCycleStart == nil {
		return
	}
	e.hooks.OnCycleStart(ctx, &domain.CycleEvent{
		EventBase: e.base(domain.EventCycleStart),
		State:     e.current,
		Events:    e.events.Sorted(),
		Statics:   e.statics.Sorted(),
	})
}

func (e *Engine) emitCycleSettled(ctx context.Context, steps int) {
	if e.hooks.OnCycleSettled == nil {
		return
	}
	e.hooks.OnCycleSettled(ctx, &domain.CycleEvent{
		EventBase: e.base(domain.EventCycleSettled),
		State:     e.current,
		Statics:   e.statics.Sorted(),
		Steps:     steps,
	})
}

func (e *Engine) emitAction(ctx context.Context, action domain.Action, phase domain.Phase, cond domain.Condition) {
	if e.hooks.OnAction == nil {
		return
	}
	evt := &domain.ActionEvent{
		EventBase: e.base(domain.EventAction),
		State:     e.current,
		Action:    action,
		Phase:     phase,
	}
	if phase == domain.PhaseInput || phase == domain.PhaseGlobal {
		evt.Condition = cond.String()
	}
	e.hooks.OnAction(ctx, evt)
}

func (e *Engine) emitTransition(ctx context.Context, from domain.StateID, tr domain.Transition, step int) {
	if e.hooks.OnTransition == nil {
		return
	}
	e.hooks.OnTransition(ctx, &domain.TransitionEvent{
		EventBase: e.base(domain.EventTransition),
		From:      from,
		To:        tr.To,
		Condition: tr.Condition.String(),
		Step:      step,
	})
}

func (e *Engine) emitStateExit(ctx context.Context, spec domain.StateSpec) {
	if e.hooks.OnStateExit == nil {
		return
	}
	e.hooks.OnStateExit(ctx, &domain.StateEvent{
		EventBase: e.base(domain.EventStateExit),
		State:     spec.ID,
		Name:      spec.Name,
	})
}

func (e *Engine) emitStateEnter(ctx context.Context, spec domain.StateSpec) {
	if e.hooks.OnStateEnter == nil {
		return
	}
	e.hooks.OnStateEnter(ctx, &domain.StateEvent{
		EventBase: e.base(domain.EventStateEnter),
		State:     spec.ID,
		Name:      spec.Name,
	})
}
