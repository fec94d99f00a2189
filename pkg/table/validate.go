package table

import (
	"fmt"

	"github.com/aretw0/stateworks/pkg/domain"
)

func (t *Table) validate(declared []domain.StateID) []error {
	var errs []error

	if t.initial == "" {
		errs = append(errs, &domain.ConfigurationError{
			Reason: "no initial state given",
			Err:    domain.ErrUnknownInitial,
		})
	} else if _, ok := t.specs[t.initial]; !ok {
		errs = append(errs, &domain.ConfigurationError{
			State:  t.initial,
			Reason: "initial state has no spec",
			Err:    domain.ErrUnknownInitial,
		})
	}

	if len(declared) > 0 {
		seen := make(map[domain.StateID]bool, len(declared))
		for _, id := range declared {
			seen[id] = true
			if _, ok := t.specs[id]; !ok {
				errs = append(errs, &domain.ConfigurationError{
					State:  id,
					Reason: "declared but not covered by the table",
					Err:    domain.ErrMissingState,
				})
			}
		}
		for _, id := range t.order {
			if !seen[id] {
				errs = append(errs, &domain.ConfigurationError{
					State:  id,
					Reason: "spec given for an undeclared state",
					Err:    domain.ErrMissingState,
				})
			}
		}
	}

	for _, id := range t.order {
		spec := t.specs[id]
		for i, in := range spec.Inputs {
			errs = append(errs, t.checkCondition(id, fmt.Sprintf("input action #%d (%s)", i, in.Action), in.Condition)...)
		}
		for i, tr := range spec.Transitions {
			where := fmt.Sprintf("transition #%d to %q", i, tr.To)
			errs = append(errs, t.checkCondition(id, where, tr.Condition)...)
			if _, ok := t.specs[tr.To]; !ok {
				errs = append(errs, &domain.ConfigurationError{
					State:  id,
					Reason: where + " targets a state with no spec",
					Err:    domain.ErrMissingState,
				})
			}
			for j := 0; j < i; j++ {
				earlier := spec.Transitions[j]
				if earlier.Condition.Covers(tr.Condition) {
					errs = append(errs, &domain.ConfigurationError{
						State:  id,
						Reason: fmt.Sprintf("%s can never fire: transition #%d %s always matches first", where, j, earlier.Condition),
						Err:    domain.ErrShadowedTransition,
					})
					break
				}
			}
		}
	}

	for i, g := range t.globals {
		errs = append(errs, t.checkCondition("", fmt.Sprintf("global input action #%d (%s)", i, g.Action), g.Condition)...)
	}

	return errs
}

func (t *Table) checkCondition(state domain.StateID, where string, c domain.Condition) []error {
	var errs []error
	for _, e := range c.Events() {
		if !t.events.Has(e) {
			errs = append(errs, &domain.ConfigurationError{
				State:  state,
				Reason: fmt.Sprintf("%s requires undeclared event %q", where, e),
				Err:    domain.ErrUnknownSignal,
			})
		}
	}
	for _, s := range c.Statics() {
		if !t.statics.Has(s) {
			errs = append(errs, &domain.ConfigurationError{
				State:  state,
				Reason: fmt.Sprintf("%s requires undeclared static signal %q", where, s),
				Err:    domain.ErrUnknownSignal,
			})
		}
	}
	return errs
}
