package dispatch

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/stateworks/pkg/domain"
	"github.com/aretw0/stateworks/pkg/ports"
)

// Handler implements one action. It receives the engine's data store and
// static-signal latch, and may return a value (used by read-style actions).
type Handler func(ctx context.Context, env ports.ActionEnv) (any, error)

// Binding couples a handler with its failure policy.
type Binding struct {
	Handler Handler
	Policy  domain.FailurePolicy
}

// BindOption configures a Binding at registration.
type BindOption func(*Binding)

// WithPolicy sets the failure policy of the action being registered.
func WithPolicy(p domain.FailurePolicy) BindOption {
	return func(b *Binding) {
		b.Policy = p
	}
}

// Registry maps action tokens to handlers. It implements ports.ActionDispatcher.
// Registration is safe for concurrent use; a registry is usually filled once
// and then shared by every engine built from it.
type Registry struct {
	mu       sync.RWMutex
	bindings map[domain.Action]Binding
}

var _ ports.ActionDispatcher = (*Registry)(nil)

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		bindings: make(map[domain.Action]Binding),
	}
}

// Register binds action to fn. The default policy is domain.PolicyPropagate.
// If the action is already bound, it is overwritten.
func (r *Registry) Register(action domain.Action, fn Handler, opts ...BindOption) *Registry {
	b := Binding{Handler: fn, Policy: domain.PolicyPropagate}
	for _, opt := range opts {
		opt(&b)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings[action] = b
	return r
}

// Dispatch looks up the action and runs its handler.
// Returns an error if the action is not bound.
func (r *Registry) Dispatch(ctx context.Context, req domain.ActionRequest, env ports.ActionEnv) (any, error) {
	r.mu.RLock()
	b, ok := r.bindings[req.Action]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnboundAction, req.Action)
	}

	return b.Handler(ctx, env)
}

// Binds reports whether action has a handler.
func (r *Registry) Binds(action domain.Action) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.bindings[action]
	return ok
}

// PolicyOf returns the failure policy of action.
func (r *Registry) PolicyOf(action domain.Action) domain.FailurePolicy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bindings[action].Policy
}

// Actions returns the bound action tokens, sorted.
func (r *Registry) Actions() []domain.Action {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Action, 0, len(r.bindings))
	for a := range r.bindings {
		out = append(out, a)
	}
	slices.Sort(out)
	return out
}
