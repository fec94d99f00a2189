package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Configuration errors. They are detected while building a table or an
// engine and are never recovered.
var (
	// ErrMissingState is returned when a state is referenced or declared but has no spec.
	ErrMissingState = errors.New("missing state")
	// ErrUnknownSignal is returned when a condition or a batch names an undeclared tag.
	ErrUnknownSignal = errors.New("unknown signal")
	// ErrUnknownInitial is returned when the initial state is not in the table.
	ErrUnknownInitial = errors.New("unknown initial state")
	// ErrDuplicateState is returned when two specs share an ID.
	ErrDuplicateState = errors.New("duplicate state")
	// ErrShadowedTransition is returned when a transition can never fire because
	// an earlier transition of the same state always matches first.
	ErrShadowedTransition = errors.New("shadowed transition")
	// ErrUnboundAction is returned when the table uses an action the dispatcher cannot serve.
	ErrUnboundAction = errors.New("unbound action")
)

// Runtime errors.
var (
	// ErrUnreachableState means the current state vanished from the table.
	// It signals a broken construction invariant and poisons the engine.
	ErrUnreachableState = errors.New("unreachable state")
	// ErrReentrantCall is returned when a dispatched action calls back into the engine.
	ErrReentrantCall = errors.New("reentrant engine call")
	// ErrCascadeLimit is returned when a cycle takes more transitions than allowed.
	ErrCascadeLimit = errors.New("cascade limit exceeded")
	// ErrMachineNotFound is returned by hosts that manage several engines.
	ErrMachineNotFound = errors.New("machine not found")
)

// ConfigurationError describes a single construction-time violation.
type ConfigurationError struct {
	State  StateID // Optional: the state the violation belongs to
	Reason string
	Err    error // One of the configuration sentinels
}

func (e *ConfigurationError) Error() string {
	if e.State == "" {
		return fmt.Sprintf("%v: %s", e.Err, e.Reason)
	}
	return fmt.Sprintf("state %q: %v: %s", e.State, e.Err, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// AggregateError represents multiple configuration failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d configuration errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, err.Error())
	}
	return b.String()
}

// Unwrap lets errors.Is and errors.As see every collected failure.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// ConfigurationErrors returns all failures carried by err, or nil if err
// is not an AggregateError.
func ConfigurationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}

// ActionError wraps a failure returned by a dispatched action.
type ActionError struct {
	Action Action
	State  StateID
	Phase  Phase
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("action %q (%s in state %q) failed: %v", e.Action, e.Phase, e.State, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// CascadeLimitError is returned when a cycle fails closed.
type CascadeLimitError struct {
	Limit int
	Path  []StateID // States visited during the cycle, starting with the origin
}

func (e *CascadeLimitError) Error() string {
	path := make([]string, len(e.Path))
	for i, s := range e.Path {
		path[i] = string(s)
	}
	// Long paths are noise; the tail is what shows the loop.
	if len(path) > 10 {
		path = append([]string{"..."}, path[len(path)-10:]...)
	}
	return fmt.Sprintf("%v: more than %d transitions in one cycle (%s)", ErrCascadeLimit, e.Limit, strings.Join(path, " -> "))
}

func (e *CascadeLimitError) Unwrap() error {
	return ErrCascadeLimit
}
