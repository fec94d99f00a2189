package ports

import "context"

// DataStore is the external data store owned by an engine and mutated only
// through dispatched actions. Values are integer registers addressed by key;
// a key that was never written reads as zero.
type DataStore interface {
	Get(ctx context.Context, key string) (int64, error)

	// Add increments key by delta and returns the new value.
	Add(ctx context.Context, key string, delta int64) (int64, error)

	Set(ctx context.Context, key string, value int64) error

	Delete(ctx context.Context, key string) error
}
