package domain

// Action is an abstract output token (Virtual Output).
// The engine never interprets it; the host's dispatcher maps it to a side effect.
type Action string

// ActionRequest is what the engine hands to the dispatcher for every fired action.
type ActionRequest struct {
	Action Action
	// State is the state the engine was in when the action fired.
	State StateID
	// Phase tells which part of the cycle fired the action.
	Phase Phase
}

// Phase identifies the step of an execution cycle.
type Phase string

const (
	PhaseInput      Phase = "input"
	PhaseGlobal     Phase = "global"
	PhaseTransition Phase = "transition"
	PhaseExit       Phase = "exit"
	PhaseEntry      Phase = "entry"
	PhaseRead       Phase = "read"
)

// FailurePolicy decides what the engine does when a dispatched action fails.
type FailurePolicy int

const (
	// PolicyPropagate stops the cycle and returns the error. Active events are
	// still cleared and the engine stays usable in the state it reached.
	PolicyPropagate FailurePolicy = iota
	// PolicyContinue logs the error and carries on with the cycle.
	PolicyContinue
	// PolicyAbort poisons the engine: the error is returned now and by every later call.
	PolicyAbort
)

func (p FailurePolicy) String() string {
	switch p {
	case PolicyPropagate:
		return "propagate"
	case PolicyContinue:
		return "continue"
	case PolicyAbort:
		return "abort"
	default:
		return "unknown"
	}
}
