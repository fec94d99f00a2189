package observability

import (
	"context"

	"github.com/aretw0/stateworks/pkg/domain"
)

// Chain merges hooks into one set. Callbacks run in argument order; nil
// callbacks are skipped.
func Chain(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range hooks {
		out.OnCycleStart = join(out.OnCycleStart, h.OnCycleStart)
		out.OnAction = join(out.OnAction, h.OnAction)
		out.OnTransition = join(out.OnTransition, h.OnTransition)
		out.OnStateExit = join(out.OnStateExit, h.OnStateExit)
		out.OnStateEnter = join(out.OnStateEnter, h.OnStateEnter)
		out.OnCycleSettled = join(out.OnCycleSettled, h.OnCycleSettled)
	}
	return out
}

func join[E any](a, b func(context.Context, *E)) func(context.Context, *E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *E) {
		a(ctx, e)
		b(ctx, e)
	}
}
