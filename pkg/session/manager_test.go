package session_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/aretw0/stateworks/pkg/adapters/memory"
	"github.com/aretw0/stateworks/pkg/domain"
	"github.com/aretw0/stateworks/pkg/ports"
	"github.com/aretw0/stateworks/pkg/session"
	"github.com/aretw0/stateworks/pkg/wordcount"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createCounter(t *testing.T, mgr *session.Manager) string {
	t.Helper()
	id, err := mgr.Create(context.Background(),
		wordcount.NewTable(false),
		wordcount.Registry(wordcount.DefaultKey, nil))
	require.NoError(t, err)
	return id
}

func TestManager_CreateAndPost(t *testing.T) {
	mgr := session.NewManager()
	ctx := context.Background()
	id := createCounter(t, mgr)

	snap, err := mgr.Inspect(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, wordcount.StateOutWord, snap.State)

	snap, err = mgr.Post(ctx, id, wordcount.EventAlphanumeric)
	require.NoError(t, err)
	assert.Equal(t, wordcount.StateInWord, snap.State)
	assert.Empty(t, snap.Events)

	v, err := mgr.Read(ctx, id, wordcount.ActionReadCounter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	info, err := mgr.Info(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, info.ID)
	assert.Equal(t, wordcount.StateInWord, info.State)
	assert.Equal(t, 2, info.Cycles)
}

func TestManager_NotFound(t *testing.T) {
	mgr := session.NewManager()
	ctx := context.Background()

	_, err := mgr.Post(ctx, "ghost", wordcount.EventOther)
	assert.ErrorIs(t, err, domain.ErrMachineNotFound)
	_, err = mgr.Read(ctx, "ghost", wordcount.ActionReadCounter)
	assert.ErrorIs(t, err, domain.ErrMachineNotFound)
	_, err = mgr.Inspect(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrMachineNotFound)
	assert.ErrorIs(t, mgr.Delete(ctx, "ghost"), domain.ErrMachineNotFound)
}

func TestManager_Delete(t *testing.T) {
	var deleted []string
	mgr := session.NewManager(session.WithOnDelete(func(id string) {
		deleted = append(deleted, id)
	}))
	ctx := context.Background()

	a := createCounter(t, mgr)
	b := createCounter(t, mgr)
	assert.ElementsMatch(t, []string{a, b}, mgr.List())

	require.NoError(t, mgr.Delete(ctx, a))
	assert.Equal(t, []string{b}, mgr.List())
	assert.Equal(t, []string{a}, deleted)

	_, err := mgr.Inspect(ctx, a)
	assert.ErrorIs(t, err, domain.ErrMachineNotFound)
}

func TestManager_MachinesAreIndependent(t *testing.T) {
	mgr := session.NewManager()
	ctx := context.Background()
	a := createCounter(t, mgr)
	b := createCounter(t, mgr)

	for _, ev := range []domain.EventTag{wordcount.EventAlphanumeric, wordcount.EventOther, wordcount.EventAlphanumeric} {
		_, err := mgr.Post(ctx, a, ev)
		require.NoError(t, err)
	}

	va, err := mgr.Read(ctx, a, wordcount.ActionReadCounter)
	require.NoError(t, err)
	vb, err := mgr.Read(ctx, b, wordcount.ActionReadCounter)
	require.NoError(t, err)
	assert.Equal(t, int64(2), va)
	assert.Equal(t, int64(0), vb)
}

func TestManager_ConcurrentPosts(t *testing.T) {
	mgr := session.NewManager()
	ctx := context.Background()
	id := createCounter(t, mgr)

	// Each worker posts whole words. Interleaving between workers can merge
	// words, but serialised cycles never lose an increment of their own word.
	const workers, words = 8, 50
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < words; i++ {
				err := mgr.WithLock(ctx, id, func(ctx context.Context, eng ports.Machine) error {
					if err := eng.PostEvents(ctx, wordcount.EventAlphanumeric); err != nil {
						return err
					}
					return eng.PostEvents(ctx, wordcount.EventOther)
				})
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	v, err := mgr.Read(ctx, id, wordcount.ActionReadCounter)
	require.NoError(t, err)
	assert.Equal(t, int64(workers*words), v)
}

func TestManager_Factories(t *testing.T) {
	stores := map[string]*memory.Store{}
	var transitions []string

	mgr := session.NewManager(
		session.WithIDGenerator(func() string { return fmt.Sprintf("m%d", len(stores)) }),
		session.WithStoreFactory(func(id string) ports.DataStore {
			s := memory.NewStore()
			stores[id] = s
			return s
		}),
		session.WithHooksFactory(func(id string) domain.LifecycleHooks {
			return domain.LifecycleHooks{
				OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
					transitions = append(transitions, id+":"+string(e.To))
				},
			}
		}),
	)
	ctx := context.Background()

	id := createCounter(t, mgr)
	assert.Equal(t, "m0", id)
	_, err := mgr.Post(ctx, id, wordcount.EventAlphanumeric)
	require.NoError(t, err)

	v, err := stores["m0"].Get(ctx, wordcount.DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
	assert.Equal(t, []string{"m0:out_word", "m0:in_word"}, transitions)
}
