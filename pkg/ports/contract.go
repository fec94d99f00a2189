package ports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunDataStoreContract runs a suite of tests to verify that a DataStore implementation
// adheres to the defined interface contract.
func RunDataStoreContract(t *testing.T, store DataStore) {
	ctx := context.Background()
	prefix := "contract-" + time.Now().Format("20060102150405")

	t.Run("Missing key reads as zero", func(t *testing.T) {
		v, err := store.Get(ctx, prefix+"-missing")
		require.NoError(t, err)
		assert.Equal(t, int64(0), v)
	})

	t.Run("Add accumulates", func(t *testing.T) {
		key := prefix + "-add"
		defer func() { _ = store.Delete(ctx, key) }()

		v, err := store.Add(ctx, key, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), v)

		v, err = store.Add(ctx, key, 41)
		require.NoError(t, err)
		assert.Equal(t, int64(42), v)

		v, err = store.Add(ctx, key, -2)
		require.NoError(t, err)
		assert.Equal(t, int64(40), v)

		got, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, int64(40), got)
	})

	t.Run("Set overwrites", func(t *testing.T) {
		key := prefix + "-set"
		defer func() { _ = store.Delete(ctx, key) }()

		require.NoError(t, store.Set(ctx, key, 7))
		require.NoError(t, store.Set(ctx, key, 3))
		got, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, int64(3), got)
	})

	t.Run("Delete resets to zero", func(t *testing.T) {
		key := prefix + "-delete"
		_, err := store.Add(ctx, key, 5)
		require.NoError(t, err)

		require.NoError(t, store.Delete(ctx, key))
		got, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, int64(0), got)

		// Deleting again is not an error.
		assert.NoError(t, store.Delete(ctx, key))
	})

	t.Run("Keys are independent", func(t *testing.T) {
		keys := make([]string, 3)
		for i := range keys {
			keys[i] = fmt.Sprintf("%s-independent-%d", prefix, i)
			_, err := store.Add(ctx, keys[i], int64(i+1))
			require.NoError(t, err)
		}
		defer func() {
			for _, k := range keys {
				_ = store.Delete(ctx, k)
			}
		}()

		for i, k := range keys {
			got, err := store.Get(ctx, k)
			require.NoError(t, err)
			assert.Equal(t, int64(i+1), got)
		}
	})
}
