package dispatch

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/stateworks/pkg/domain"
	"github.com/aretw0/stateworks/pkg/ports"
)

// Increment adds one to key.
func Increment(key string) Handler {
	return Add(key, 1)
}

// Add adds delta to key.
func Add(key string, delta int64) Handler {
	return func(ctx context.Context, env ports.ActionEnv) (any, error) {
		return env.Store.Add(ctx, key, delta)
	}
}

// Reset sets key back to zero.
func Reset(key string) Handler {
	return func(ctx context.Context, env ports.ActionEnv) (any, error) {
		return nil, env.Store.Delete(ctx, key)
	}
}

// ReadCounter returns the current value of key as an int64.
func ReadCounter(key string) Handler {
	return func(ctx context.Context, env ports.ActionEnv) (any, error) {
		return env.Store.Get(ctx, key)
	}
}

// Raise activates a static signal.
func Raise(tag domain.StaticTag) Handler {
	return func(ctx context.Context, env ports.ActionEnv) (any, error) {
		return nil, env.Signals.Raise(tag)
	}
}

// Lower deactivates a static signal.
func Lower(tag domain.StaticTag) Handler {
	return func(ctx context.Context, env ports.ActionEnv) (any, error) {
		return nil, env.Signals.Lower(tag)
	}
}

// Print writes msg and a newline to w.
func Print(w io.Writer, msg string) Handler {
	return func(ctx context.Context, env ports.ActionEnv) (any, error) {
		_, err := fmt.Fprintln(w, msg)
		return nil, err
	}
}

// Noop does nothing. Useful for marker actions that only matter to observers.
func Noop() Handler {
	return func(ctx context.Context, env ports.ActionEnv) (any, error) {
		return nil, nil
	}
}

// Sequence runs handlers in order and returns the last result.
// It stops at the first error.
func Sequence(handlers ...Handler) Handler {
	return func(ctx context.Context, env ports.ActionEnv) (any, error) {
		var last any
		for _, h := range handlers {
			v, err := h(ctx, env)
			if err != nil {
				return nil, err
			}
			last = v
		}
		return last, nil
	}
}
