package dsl

import "github.com/aretw0/stateworks/pkg/domain"

// StateBuilder provides a fluent API for configuring a state.
type StateBuilder struct {
	spec    domain.StateSpec
	builder *Builder
}

// Name sets the human-readable name. Defaults to the ID.
func (s *StateBuilder) Name(name string) *StateBuilder {
	s.spec.Name = name
	return s
}

// Entry appends actions dispatched when the state is entered.
func (s *StateBuilder) Entry(actions ...domain.Action) *StateBuilder {
	s.spec.Entry = append(s.spec.Entry, actions...)
	return s
}

// Exit appends actions dispatched when the state is left.
func (s *StateBuilder) Exit(actions ...domain.Action) *StateBuilder {
	s.spec.Exit = append(s.spec.Exit, actions...)
	return s
}

// Input adds an input action: action fires on every cycle in which cond holds.
func (s *StateBuilder) Input(cond domain.Condition, action domain.Action) *StateBuilder {
	s.spec.Inputs = append(s.spec.Inputs, domain.InputAction{Condition: cond, Action: action})
	return s
}

// On adds a conditional transition to the target state.
func (s *StateBuilder) On(cond domain.Condition, target domain.StateID, actions ...domain.Action) *StateBuilder {
	s.spec.Transitions = append(s.spec.Transitions, domain.Transition{
		Condition: cond,
		To:        target,
		Actions:   actions,
	})
	return s
}

// Go adds an unconditional (wildcard) transition to the target state.
func (s *StateBuilder) Go(target domain.StateID, actions ...domain.Action) *StateBuilder {
	return s.On(domain.Always(), target, actions...)
}

// Done returns the parent builder, for chaining state declarations.
func (s *StateBuilder) Done() *Builder {
	return s.builder
}

// Build returns a copy of the underlying spec.
func (s *StateBuilder) Build() domain.StateSpec {
	return s.spec.Clone()
}
