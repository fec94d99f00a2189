package session

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/stateworks"
	"github.com/aretw0/stateworks/internal/logging"
	"github.com/aretw0/stateworks/pkg/domain"
	"github.com/aretw0/stateworks/pkg/ports"
	"github.com/aretw0/stateworks/pkg/table"
	"github.com/google/uuid"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// machine is a hosted engine.
type machine struct {
	engine  *stateworks.Engine
	created time.Time
}

// Info summarises a hosted machine.
type Info struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	State   domain.StateID `json:"state"`
	Cycles  int            `json:"cycles"`
	Created time.Time      `json:"created"`
}

// Manager owns a set of engines keyed by ID.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	mu    sync.Mutex            // Global lock for the lock map
	locks map[string]*lockEntry // Per-machine locks

	machinesMu sync.RWMutex
	machines   map[string]*machine

	newID    func() string
	stores   func(id string) ports.DataStore
	hooks    func(id string) domain.LifecycleHooks
	onDelete func(id string)
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager and the engines it creates.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithStoreFactory gives each new machine the data store returned by fn.
// Without it, every machine gets its own in-memory store.
func WithStoreFactory(fn func(id string) ports.DataStore) Option {
	return func(m *Manager) {
		m.stores = fn
	}
}

// WithHooksFactory attaches the hooks returned by fn to each new machine.
func WithHooksFactory(fn func(id string) domain.LifecycleHooks) Option {
	return func(m *Manager) {
		m.hooks = fn
	}
}

// WithOnDelete registers a callback run after a machine is deleted.
func WithOnDelete(fn func(id string)) Option {
	return func(m *Manager) {
		m.onDelete = fn
	}
}

// WithIDGenerator replaces the default UUID generator.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// NewManager creates an empty Manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		locks:    make(map[string]*lockEntry),
		machines: make(map[string]*machine),
		newID:    uuid.NewString,
		logger:   logging.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(id) after unlocking.
func (m *Manager) acquire(id string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		entry = &lockEntry{}
		m.locks[id] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, id)
	}
}

func (m *Manager) lookup(id string) (*machine, error) {
	m.machinesMu.RLock()
	defer m.machinesMu.RUnlock()
	mc, ok := m.machines[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrMachineNotFound, id)
	}
	return mc, nil
}

// Create builds an engine for tbl and d, runs its initial cycle and returns
// the new machine ID. Extra engine options are applied after the Manager's
// own, so a WithLifecycleHooks among them replaces the factory hooks.
func (m *Manager) Create(ctx context.Context, tbl *table.Table, d ports.ActionDispatcher, opts ...stateworks.Option) (string, error) {
	id := m.newID()

	engineOpts := []stateworks.Option{stateworks.WithLogger(m.logger.With("machine", id))}
	if m.stores != nil {
		engineOpts = append(engineOpts, stateworks.WithStore(m.stores(id)))
	}
	if m.hooks != nil {
		engineOpts = append(engineOpts, stateworks.WithLifecycleHooks(m.hooks(id)))
	}
	engineOpts = append(engineOpts, opts...)

	eng, err := stateworks.New(ctx, tbl, d, engineOpts...)
	if err != nil {
		return "", err
	}

	m.machinesMu.Lock()
	defer m.machinesMu.Unlock()
	if _, dup := m.machines[id]; dup {
		return "", fmt.Errorf("machine id %q already in use", id)
	}
	m.machines[id] = &machine{engine: eng, created: m.now()}
	m.logger.InfoContext(ctx, "machine created", "machine", id, "name", eng.Name, "state", eng.Inspect().State)
	return id, nil
}

// WithLock runs fn with exclusive access to the engine of machine id.
func (m *Manager) WithLock(ctx context.Context, id string, fn func(context.Context, ports.Machine) error) error {
	return m.withMachine(id, func(mc *machine) error {
		return fn(ctx, mc.engine)
	})
}

func (m *Manager) withMachine(id string, fn func(*machine) error) error {
	entry := m.acquire(id)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(id)
	}()

	mc, err := m.lookup(id)
	if err != nil {
		return err
	}
	return fn(mc)
}

// Post delivers a batch of events to machine id and returns the settled snapshot.
func (m *Manager) Post(ctx context.Context, id string, events ...domain.EventTag) (domain.Snapshot, error) {
	var snap domain.Snapshot
	err := m.WithLock(ctx, id, func(ctx context.Context, eng ports.Machine) error {
		err := eng.PostEvents(ctx, events...)
		snap = eng.Inspect()
		return err
	})
	return snap, err
}

// Read dispatches a read-style action on machine id.
func (m *Manager) Read(ctx context.Context, id string, action domain.Action) (any, error) {
	var v any
	err := m.WithLock(ctx, id, func(ctx context.Context, eng ports.Machine) error {
		var err error
		v, err = eng.Read(ctx, action)
		return err
	})
	return v, err
}

// Inspect returns a snapshot of machine id.
func (m *Manager) Inspect(ctx context.Context, id string) (domain.Snapshot, error) {
	var snap domain.Snapshot
	err := m.WithLock(ctx, id, func(ctx context.Context, eng ports.Machine) error {
		snap = eng.Inspect()
		return nil
	})
	return snap, err
}

// Info describes machine id.
func (m *Manager) Info(ctx context.Context, id string) (Info, error) {
	var info Info
	err := m.withMachine(id, func(mc *machine) error {
		snap := mc.engine.Inspect()
		info = Info{ID: id, Name: mc.engine.Name, State: snap.State, Cycles: snap.Cycles, Created: mc.created}
		return nil
	})
	return info, err
}

// Delete drops machine id. In-flight calls holding its lock finish first.
func (m *Manager) Delete(ctx context.Context, id string) error {
	err := m.withMachine(id, func(*machine) error {
		m.machinesMu.Lock()
		delete(m.machines, id)
		m.machinesMu.Unlock()
		return nil
	})
	if err != nil {
		return err
	}
	m.logger.InfoContext(ctx, "machine deleted", "machine", id)
	if m.onDelete != nil {
		m.onDelete(id)
	}
	return nil
}

// List returns the IDs of the hosted machines, sorted.
func (m *Manager) List() []string {
	m.machinesMu.RLock()
	defer m.machinesMu.RUnlock()
	ids := make([]string, 0, len(m.machines))
	for id := range m.machines {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Len returns the number of hosted machines.
func (m *Manager) Len() int {
	m.machinesMu.RLock()
	defer m.machinesMu.RUnlock()
	return len(m.machines)
}
