package ports

import (
	"context"

	"github.com/aretw0/stateworks/pkg/domain"
)

// SignalLatch gives dispatched actions write access to the static signals of
// the engine that fired them. Only declared tags are accepted.
type SignalLatch interface {
	Raise(tag domain.StaticTag) error
	Lower(tag domain.StaticTag) error
	Active(tag domain.StaticTag) bool
}

// ActionEnv is everything a dispatched action may touch.
type ActionEnv struct {
	Store   DataStore
	Signals SignalLatch
}

// ActionDispatcher defines how side-effects are executed.
// The engine emits requests, and the host implements this interface to handle them.
type ActionDispatcher interface {
	Dispatch(ctx context.Context, req domain.ActionRequest, env ActionEnv) (any, error)

	// Binds reports whether action can be dispatched. Engines refuse to start
	// when a table uses an action that is not bound.
	Binds(action domain.Action) bool

	// PolicyOf tells the engine what to do when action fails.
	PolicyOf(action domain.Action) domain.FailurePolicy
}
