package ports

import (
	"context"

	"github.com/aretw0/stateworks/pkg/domain"
)

// Machine is the runtime surface of an engine as seen by hosts and drivers.
// Drivers may only post events and read; Inspect exists for tooling.
type Machine interface {
	// PostEvents merges events into the active set and runs one resolution cycle.
	PostEvents(ctx context.Context, events ...domain.EventTag) error

	// Read dispatches a read-style action and returns its result.
	Read(ctx context.Context, action domain.Action) (any, error)

	// Inspect returns the settled state and active signals.
	Inspect() domain.Snapshot
}
