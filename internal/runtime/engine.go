package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/stateworks/internal/logging"
	"github.com/aretw0/stateworks/pkg/adapters/memory"
	"github.com/aretw0/stateworks/pkg/domain"
	"github.com/aretw0/stateworks/pkg/ports"
	"github.com/aretw0/stateworks/pkg/table"
)

// DefaultMaxSteps bounds the number of transitions taken in one cycle.
const DefaultMaxSteps = 64

// Engine is the core VFSM runner. It is not safe for concurrent use: one
// goroutine owns it and every call runs a full cycle before returning.
type Engine struct {
	table      *table.Table
	dispatcher ports.ActionDispatcher
	store      ports.DataStore
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	maxSteps   int
	now        func() time.Time
	initial    domain.StateID

	current domain.StateID
	events  domain.EventSet
	statics domain.StaticSet
	cycles  int
	started bool
	running bool
	fault   error
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithStore sets the external data store. Defaults to an in-memory store.
func WithStore(store ports.DataStore) EngineOption {
	return func(e *Engine) {
		if store != nil {
			e.store = store
		}
	}
}

// WithMaxSteps bounds the transitions of a single cycle.
// Values below one fall back to DefaultMaxSteps.
func WithMaxSteps(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.maxSteps = n
		}
	}
}

// WithInitialState overrides the table's initial state.
func WithInitialState(id domain.StateID) EngineOption {
	return func(e *Engine) {
		e.initial = id
	}
}

// WithClock sets the time source used to stamp lifecycle events.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine checks that tbl and d fit together and builds an idle engine.
// Call Start to run the initial cycle.
func NewEngine(tbl *table.Table, d ports.ActionDispatcher, opts ...EngineOption) (*Engine, error) {
	if tbl == nil {
		return nil, &domain.ConfigurationError{Reason: "nil table", Err: domain.ErrMissingState}
	}
	if d == nil {
		return nil, &domain.ConfigurationError{Reason: "nil dispatcher", Err: domain.ErrUnboundAction}
	}

	e := &Engine{
		table:      tbl,
		dispatcher: d,
		store:      memory.NewStore(),
		logger:     logging.NewNop(),
		maxSteps:   DefaultMaxSteps,
		now:        time.Now,
		initial:    tbl.Initial(),
		events:     domain.NewEventSet(),
		statics:    domain.NewStaticSet(),
	}
	for _, opt := range opts {
		opt(e)
	}

	var errs []error
	if _, ok := tbl.SpecOf(e.initial); !ok {
		errs = append(errs, &domain.ConfigurationError{
			State:  e.initial,
			Reason: "initial state has no spec",
			Err:    domain.ErrUnknownInitial,
		})
	}
	for _, a := range tbl.Actions() {
		if !d.Binds(a) {
			errs = append(errs, &domain.ConfigurationError{
				Reason: fmt.Sprintf("action %q has no handler", a),
				Err:    domain.ErrUnboundAction,
			})
		}
	}
	if len(errs) > 0 {
		return nil, &domain.AggregateError{Errors: errs}
	}

	e.current = e.initial
	return e, nil
}

// Start runs the initialization cycle against an empty event set, so a
// wildcard transition out of the initial state fires before any input.
// It may only be called once.
func (e *Engine) Start(ctx context.Context) error {
	if err := e.guard(); err != nil {
		return err
	}
	if e.started {
		return errors.New("engine already started")
	}
	e.started = true
	e.logger.DebugContext(ctx, "starting engine", "state", e.current)
	return e.cycle(ctx)
}

// PostEvents merges events into the active set and runs one resolution cycle.
// A batch naming an undeclared event is rejected before anything changes.
func (e *Engine) PostEvents(ctx context.Context, events ...domain.EventTag) error {
	if err := e.guard(); err != nil {
		return err
	}
	if !e.started {
		return errors.New("engine not started")
	}
	for _, ev := range events {
		if !e.table.HasEvent(ev) {
			return fmt.Errorf("%w: event %q", domain.ErrUnknownSignal, ev)
		}
	}
	for _, ev := range events {
		e.events[ev] = struct{}{}
	}
	return e.cycle(ctx)
}

// Read dispatches a read-style action against the data store and returns its result.
func (e *Engine) Read(ctx context.Context, action domain.Action) (any, error) {
	if err := e.guard(); err != nil {
		return nil, err
	}
	if !e.dispatcher.Binds(action) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnboundAction, action)
	}

	e.running = true
	defer func() { e.running = false }()

	req := domain.ActionRequest{Action: action, State: e.current, Phase: domain.PhaseRead}
	v, err := e.dispatcher.Dispatch(ctx, req, e.env())
	if err != nil {
		return nil, &domain.ActionError{Action: action, State: e.current, Phase: domain.PhaseRead, Err: err}
	}
	return v, nil
}

// Inspect returns a snapshot of the settled engine.
func (e *Engine) Inspect() domain.Snapshot {
	return domain.Snapshot{
		State:   e.current,
		Events:  e.events.Sorted(),
		Statics: e.statics.Sorted(),
		Cycles:  e.cycles,
	}
}

// Current returns the settled current state.
func (e *Engine) Current() domain.StateID {
	return e.current
}

// Store returns the external data store the engine dispatches against.
func (e *Engine) Store() ports.DataStore {
	return e.store
}

// Err returns the fatal error that poisoned the engine, if any.
func (e *Engine) Err() error {
	return e.fault
}

func (e *Engine) guard() error {
	if e.fault != nil {
		return e.fault
	}
	if e.running {
		return domain.ErrReentrantCall
	}
	return nil
}

func (e *Engine) env() ports.ActionEnv {
	return ports.ActionEnv{
		Store:   e.store,
		Signals: latch{e: e},
	}
}

// latch exposes the engine's static set to dispatched actions.
type latch struct {
	e *Engine
}

func (l latch) Raise(tag domain.StaticTag) error {
	if !l.e.table.HasStatic(tag) {
		return fmt.Errorf("%w: static %q", domain.ErrUnknownSignal, tag)
	}
	l.e.statics[tag] = struct{}{}
	return nil
}

func (l latch) Lower(tag domain.StaticTag) error {
	if !l.e.table.HasStatic(tag) {
		return fmt.Errorf("%w: static %q", domain.ErrUnknownSignal, tag)
	}
	delete(l.e.statics, tag)
	return nil
}

func (l latch) Active(tag domain.StaticTag) bool {
	return l.e.statics.Has(tag)
}
