package table

import (
	"fmt"
	"slices"

	"github.com/aretw0/stateworks/pkg/domain"
)

// Definition is the raw, unvalidated description of a table.
type Definition struct {
	Initial domain.StateID
	States  []domain.StateSpec
	// Globals are input actions evaluated in every state.
	Globals []domain.InputAction

	// Events and Statics declare the signal vocabulary.
	Events  []domain.EventTag
	Statics []domain.StaticTag

	// Declared optionally enumerates the state set up front. When set, every
	// declared state must have a spec and every spec must be declared.
	Declared []domain.StateID
}

// Table is a validated, read-only state table. It is safe to share between
// engines and goroutines.
type Table struct {
	initial domain.StateID
	order   []domain.StateID
	specs   map[domain.StateID]domain.StateSpec
	globals []domain.InputAction
	events  domain.EventSet
	statics domain.StaticSet
	actions []domain.Action
}

// New validates def and freezes it into a Table.
func New(def Definition) (*Table, error) {
	t := &Table{
		initial: def.Initial,
		specs:   make(map[domain.StateID]domain.StateSpec, len(def.States)),
		events:  domain.NewEventSet(def.Events...),
		statics: domain.NewStaticSet(def.Statics...),
		globals: slices.Clone(def.Globals),
	}

	var errs []error
	for _, spec := range def.States {
		if _, dup := t.specs[spec.ID]; dup {
			errs = append(errs, &domain.ConfigurationError{
				State:  spec.ID,
				Reason: "defined more than once",
				Err:    domain.ErrDuplicateState,
			})
			continue
		}
		if spec.ID == "" {
			errs = append(errs, &domain.ConfigurationError{
				Reason: "state without an ID",
				Err:    domain.ErrMissingState,
			})
			continue
		}
		spec = spec.Clone()
		if spec.Name == "" {
			spec.Name = string(spec.ID)
		}
		t.specs[spec.ID] = spec
		t.order = append(t.order, spec.ID)
	}

	errs = append(errs, t.validate(def.Declared)...)
	if len(errs) > 0 {
		return nil, &domain.AggregateError{Errors: errs}
	}

	t.actions = collectActions(t)
	return t, nil
}

// MustNew is like New but panics on error. Intended for package-level tables
// whose validity is covered by tests.
func MustNew(def Definition) *Table {
	t, err := New(def)
	if err != nil {
		panic(fmt.Sprintf("table: %v", err))
	}
	return t
}

// Initial returns the declared initial state.
func (t *Table) Initial() domain.StateID {
	return t.initial
}

// SpecOf returns a copy of the spec of state id.
func (t *Table) SpecOf(id domain.StateID) (domain.StateSpec, bool) {
	spec, ok := t.specs[id]
	if !ok {
		return domain.StateSpec{}, false
	}
	return spec.Clone(), true
}

// States returns the state IDs in declaration order.
func (t *Table) States() []domain.StateID {
	return slices.Clone(t.order)
}

// Globals returns the state-independent input actions.
func (t *Table) Globals() []domain.InputAction {
	return slices.Clone(t.globals)
}

// Events returns the declared event vocabulary, sorted.
func (t *Table) Events() []domain.EventTag {
	return t.events.Sorted()
}

// Statics returns the declared static vocabulary, sorted.
func (t *Table) Statics() []domain.StaticTag {
	return t.statics.Sorted()
}

// HasEvent reports whether tag is part of the event vocabulary.
func (t *Table) HasEvent(tag domain.EventTag) bool {
	return t.events.Has(tag)
}

// HasStatic reports whether tag is part of the static vocabulary.
func (t *Table) HasStatic(tag domain.StaticTag) bool {
	return t.statics.Has(tag)
}

// Actions returns every action token the table can fire, sorted.
func (t *Table) Actions() []domain.Action {
	return slices.Clone(t.actions)
}

func collectActions(t *Table) []domain.Action {
	var out []domain.Action
	for _, id := range t.order {
		spec := t.specs[id]
		out = append(out, spec.Entry...)
		out = append(out, spec.Exit...)
		for _, in := range spec.Inputs {
			out = append(out, in.Action)
		}
		for _, tr := range spec.Transitions {
			out = append(out, tr.Actions...)
		}
	}
	for _, g := range t.globals {
		out = append(out, g.Action)
	}
	slices.Sort(out)
	return slices.Compact(out)
}
