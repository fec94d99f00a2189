package domain

import (
	"context"
	"time"
)

// EventType defines the category of a lifecycle event.
type EventType string

const (
	EventCycleStart   EventType = "cycle_start"
	EventAction       EventType = "action"
	EventTransition   EventType = "transition"
	EventStateExit    EventType = "state_exit"
	EventStateEnter   EventType = "state_enter"
	EventCycleSettled EventType = "cycle_settled"
)

// EventBase contains common fields for all lifecycle events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Cycle     int       `json:"cycle"`
}

// CycleEvent marks the start or the settlement of an execution cycle.
type CycleEvent struct {
	EventBase
	State   StateID     `json:"state"`
	Events  []EventTag  `json:"events,omitempty"`
	Statics []StaticTag `json:"statics,omitempty"`
	// Steps is the number of transitions taken; only set on settlement.
	Steps int `json:"steps,omitempty"`
}

// ActionEvent is emitted right before an action is dispatched.
type ActionEvent struct {
	EventBase
	State  StateID `json:"state"`
	Action Action  `json:"action"`
	Phase  Phase   `json:"phase"`
	// Condition is the guard that fired input and global actions.
	Condition string `json:"condition,omitempty"`
}

// TransitionEvent is emitted when a transition is taken, before its actions run.
type TransitionEvent struct {
	EventBase
	From      StateID `json:"from"`
	To        StateID `json:"to"`
	Condition string  `json:"condition"`
	Step      int     `json:"step"`
}

// StateEvent represents leaving or entering a state.
type StateEvent struct {
	EventBase
	State StateID `json:"state"`
	Name  string  `json:"name"`
}

// LifecycleHooks defines callbacks for engine observability.
// Every field is optional. Hooks run synchronously inside the cycle.
type LifecycleHooks struct {
	OnCycleStart   func(context.Context, *CycleEvent)
	OnAction       func(context.Context, *ActionEvent)
	OnTransition   func(context.Context, *TransitionEvent)
	OnStateExit    func(context.Context, *StateEvent)
	OnStateEnter   func(context.Context, *StateEvent)
	OnCycleSettled func(context.Context, *CycleEvent)
}
