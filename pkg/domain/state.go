package domain

import "slices"

// InputAction fires Action whenever Condition holds, without changing state.
type InputAction struct {
	Condition Condition
	Action    Action
}

// Transition moves the machine to To when Condition holds, dispatching Actions first.
type Transition struct {
	Condition Condition
	To        StateID
	Actions   []Action
}

// StateSpec is the full description of one state.
type StateSpec struct {
	ID   StateID
	Name string

	Entry []Action
	Exit  []Action

	// Inputs are evaluated in declared order on every cycle.
	Inputs []InputAction

	// Transitions are scanned in declared order; the first satisfied one wins.
	Transitions []Transition
}

// Clone returns a deep copy, so tables can hand out specs without exposing their storage.
func (s StateSpec) Clone() StateSpec {
	out := s
	out.Entry = slices.Clone(s.Entry)
	out.Exit = slices.Clone(s.Exit)
	out.Inputs = slices.Clone(s.Inputs)
	out.Transitions = make([]Transition, len(s.Transitions))
	for i, t := range s.Transitions {
		t.Actions = slices.Clone(t.Actions)
		out.Transitions[i] = t
	}
	return out
}

// Snapshot is a settled view of an engine, for tooling and tests.
type Snapshot struct {
	State   StateID     `json:"state"`
	Events  []EventTag  `json:"events"`
	Statics []StaticTag `json:"statics"`
	Cycles  int         `json:"cycles"`
}
