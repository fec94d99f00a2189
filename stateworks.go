package stateworks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/stateworks/internal/runtime"
	"github.com/aretw0/stateworks/pkg/domain"
	"github.com/aretw0/stateworks/pkg/ports"
	"github.com/aretw0/stateworks/pkg/table"
)

// Engine is the high-level entry point for the stateworks library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime     *runtime.Engine
	table       *table.Table
	runtimeOpts []runtime.EngineOption
	Name        string
}

var _ ports.Machine = (*Engine)(nil)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithLifecycleHooks(hooks))
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithLogger(logger))
	}
}

// WithStore sets the external data store (default: in memory).
func WithStore(store ports.DataStore) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithStore(store))
	}
}

// WithMaxSteps bounds the transitions taken in one cycle (default: runtime.DefaultMaxSteps).
func WithMaxSteps(n int) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithMaxSteps(n))
	}
}

// WithInitialState starts the engine somewhere other than the table's initial state.
func WithInitialState(id domain.StateID) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithInitialState(id))
	}
}

// WithName labels the engine, e.g. for logs and session listings.
func WithName(name string) Option {
	return func(e *Engine) {
		e.Name = name
	}
}

// New initializes an engine: it validates that every action of tbl is bound
// in d, places the engine in the initial state with no active signals and
// runs one execution cycle before returning.
func New(ctx context.Context, tbl *table.Table, d ports.ActionDispatcher, opts ...Option) (*Engine, error) {
	eng := &Engine{table: tbl}
	for _, opt := range opts {
		opt(eng)
	}

	rt, err := runtime.NewEngine(tbl, d, eng.runtimeOpts...)
	if err != nil {
		return nil, fmt.Errorf("invalid engine configuration: %w", err)
	}
	if err := rt.Start(ctx); err != nil {
		return nil, fmt.Errorf("initial cycle failed: %w", err)
	}
	eng.runtime = rt
	return eng, nil
}

// PostEvents merges events into the active set and runs one execution cycle.
// It is the only externally triggered mutator.
func (e *Engine) PostEvents(ctx context.Context, events ...domain.EventTag) error {
	return e.runtime.PostEvents(ctx, events...)
}

// Read dispatches a read-style action and returns its result.
func (e *Engine) Read(ctx context.Context, action domain.Action) (any, error) {
	return e.runtime.Read(ctx, action)
}

// ReadInt is Read for actions that return an integer register.
func (e *Engine) ReadInt(ctx context.Context, action domain.Action) (int64, error) {
	v, err := e.runtime.Read(ctx, action)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("action %q returned %T, not an integer", action, v)
	}
}

// Inspect returns the settled state and active signals, for tooling.
func (e *Engine) Inspect() domain.Snapshot {
	return e.runtime.Inspect()
}

// Table returns the table the engine runs.
func (e *Engine) Table() *table.Table {
	return e.table
}

// Err returns the fatal error that stopped the engine, if any.
func (e *Engine) Err() error {
	return e.runtime.Err()
}
