package dsl

import (
	"fmt"

	"github.com/aretw0/stateworks/pkg/domain"
	"github.com/aretw0/stateworks/pkg/table"
)

// Builder manages the table construction.
type Builder struct {
	def    table.Definition
	states []*StateBuilder
	index  map[domain.StateID]*StateBuilder
}

// New creates a new table builder.
func New() *Builder {
	return &Builder{
		index: make(map[domain.StateID]*StateBuilder),
	}
}

// Initial sets the initial state.
func (b *Builder) Initial(id domain.StateID) *Builder {
	b.def.Initial = id
	return b
}

// Events declares event tags.
func (b *Builder) Events(tags ...domain.EventTag) *Builder {
	b.def.Events = append(b.def.Events, tags...)
	return b
}

// Statics declares static signal tags.
func (b *Builder) Statics(tags ...domain.StaticTag) *Builder {
	b.def.Statics = append(b.def.Statics, tags...)
	return b
}

// Declare enumerates the state set up front, enabling the exhaustiveness check.
func (b *Builder) Declare(ids ...domain.StateID) *Builder {
	b.def.Declared = append(b.def.Declared, ids...)
	return b
}

// Global adds a state-independent input action.
func (b *Builder) Global(cond domain.Condition, action domain.Action) *Builder {
	b.def.Globals = append(b.def.Globals, domain.InputAction{Condition: cond, Action: action})
	return b
}

// Add creates a new state in the table.
// If the state already exists, it returns the existing builder.
func (b *Builder) Add(id domain.StateID) *StateBuilder {
	if sb, ok := b.index[id]; ok {
		return sb
	}
	sb := &StateBuilder{
		spec:    domain.StateSpec{ID: id},
		builder: b,
	}
	b.index[id] = sb
	b.states = append(b.states, sb)
	return sb
}

// Definition returns the raw definition assembled so far.
func (b *Builder) Definition() table.Definition {
	def := b.def
	def.States = make([]domain.StateSpec, 0, len(b.states))
	for _, sb := range b.states {
		def.States = append(def.States, sb.spec.Clone())
	}
	return def
}

// Build validates the definition and returns the immutable table.
func (b *Builder) Build() (*table.Table, error) {
	tbl, err := table.New(b.Definition())
	if err != nil {
		return nil, fmt.Errorf("failed to build table: %w", err)
	}
	return tbl, nil
}
