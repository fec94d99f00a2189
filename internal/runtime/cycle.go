package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/stateworks/pkg/domain"
)

// cycle runs one resolution pass to a fixpoint:
//
//  1. input actions of the current state, in order;
//  2. global input actions, in order;
//  3. first satisfied transition, repeated until none fires;
//  4. clear active events.
//
// Posted events stay visible up to the first transition taken, which consumes
// them. Later steps of a cascade only see statics and the wildcard.
func (e *Engine) cycle(ctx context.Context) error {
	e.running = true
	e.cycles++
	defer func() {
		clear(e.events)
		e.running = false
	}()

	spec, err := e.lookup(e.current)
	if err != nil {
		return err
	}

	e.emitCycleStart(ctx)

	for _, in := range spec.Inputs {
		if in.Condition.Satisfied(e.events, e.statics) {
			if err := e.fire(ctx, in.Action, domain.PhaseInput, in.Condition); err != nil {
				return err
			}
		}
	}

	for _, g := range e.table.Globals() {
		if g.Condition.Satisfied(e.events, e.statics) {
			if err := e.fire(ctx, g.Action, domain.PhaseGlobal, g.Condition); err != nil {
				return err
			}
		}
	}

	steps := 0
	path := []domain.StateID{e.current}
	for {
		tr, ok := e.pick(spec)
		if !ok {
			break
		}
		if steps == e.maxSteps {
			e.fault = &domain.CascadeLimitError{Limit: e.maxSteps, Path: path}
			e.logger.ErrorContext(ctx, "cycle did not settle", "state", e.current, "limit", e.maxSteps)
			return e.fault
		}
		steps++

		spec, err = e.take(ctx, spec, tr, steps)
		if err != nil {
			return err
		}
		path = append(path, e.current)
	}

	e.emitCycleSettled(ctx, steps)
	e.logger.DebugContext(ctx, "cycle settled", "cycle", e.cycles, "state", e.current, "steps", steps)
	return nil
}

// pick returns the first transition of spec whose condition holds.
func (e *Engine) pick(spec domain.StateSpec) (domain.Transition, bool) {
	for _, tr := range spec.Transitions {
		if tr.Condition.Satisfied(e.events, e.statics) {
			return tr, true
		}
	}
	return domain.Transition{}, false
}

// take performs one transition: transition actions, exit actions of the
// source, the switch, then entry actions of the target. It returns the spec
// of the new current state.
func (e *Engine) take(ctx context.Context, from domain.StateSpec, tr domain.Transition, step int) (domain.StateSpec, error) {
	e.emitTransition(ctx, from.ID, tr, step)

	// The transition consumed the posted batch.
	clear(e.events)

	for _, a := range tr.Actions {
		if err := e.fire(ctx, a, domain.PhaseTransition, tr.Condition); err != nil {
			return from, err
		}
	}

	e.emitStateExit(ctx, from)
	for _, a := range from.Exit {
		if err := e.fire(ctx, a, domain.PhaseExit, domain.Condition{}); err != nil {
			return from, err
		}
	}

	to, err := e.lookup(tr.To)
	if err != nil {
		return from, err
	}
	e.current = to.ID

	e.emitStateEnter(ctx, to)
	for _, a := range to.Entry {
		if err := e.fire(ctx, a, domain.PhaseEntry, domain.Condition{}); err != nil {
			return to, err
		}
	}
	return to, nil
}

// fire dispatches one action and applies its failure policy.
func (e *Engine) fire(ctx context.Context, action domain.Action, phase domain.Phase, cond domain.Condition) error {
	e.emitAction(ctx, action, phase, cond)

	req := domain.ActionRequest{Action: action, State: e.current, Phase: phase}
	if _, err := e.dispatcher.Dispatch(ctx, req, e.env()); err != nil {
		actErr := &domain.ActionError{Action: action, State: e.current, Phase: phase, Err: err}
		switch e.dispatcher.PolicyOf(action) {
		case domain.PolicyContinue:
			e.logger.WarnContext(ctx, "action failed, continuing", "action", action, "state", e.current, "phase", phase, "error", err)
			return nil
		case domain.PolicyAbort:
			e.fault = actErr
			e.logger.ErrorContext(ctx, "action failed, aborting engine", "action", action, "state", e.current, "phase", phase, "error", err)
			return actErr
		default:
			return actErr
		}
	}
	return nil
}

func (e *Engine) lookup(id domain.StateID) (domain.StateSpec, error) {
	spec, ok := e.table.SpecOf(id)
	if !ok {
		e.fault = fmt.Errorf("%w: %q", domain.ErrUnreachableState, id)
		return domain.StateSpec{}, e.fault
	}
	return spec, nil
}
