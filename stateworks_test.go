package stateworks_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/stateworks"
	"github.com/aretw0/stateworks/pkg/adapters/memory"
	"github.com/aretw0/stateworks/pkg/dispatch"
	"github.com/aretw0/stateworks/pkg/domain"
	"github.com/aretw0/stateworks/pkg/dsl"
	"github.com/aretw0/stateworks/pkg/ports"
	"github.com/aretw0/stateworks/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	alnum domain.EventTag = "read_alphanumeric"
	other domain.EventTag = "read_other"
)

func wordCounter(t *testing.T) (*table.Table, *dispatch.Registry) {
	t.Helper()
	b := dsl.New().
		Initial("init").
		Events(alnum, other).
		Declare("init", "out_word", "in_word")
	b.Add("init").Go("out_word")
	b.Add("out_word").On(domain.When(alnum), "in_word", "increment_counter")
	b.Add("in_word").On(domain.When(other), "out_word")
	tbl, err := b.Build()
	require.NoError(t, err)

	reg := dispatch.NewRegistry().
		Register("increment_counter", dispatch.Increment("counter")).
		Register("read_counter", dispatch.ReadCounter("counter"))
	return tbl, reg
}

func TestEngine_WordCounterAcceptance(t *testing.T) {
	tbl, reg := wordCounter(t)
	ctx := context.Background()

	eng, err := stateworks.New(ctx, tbl, reg)
	require.NoError(t, err)
	assert.Equal(t, domain.StateID("out_word"), eng.Inspect().State, "wildcard cascade settles during New")

	for _, ev := range []domain.EventTag{alnum, alnum, other, alnum} { // "ab c"
		require.NoError(t, eng.PostEvents(ctx, ev))
	}

	n, err := eng.ReadInt(ctx, "read_counter")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	// The last character is alphanumeric, so the machine is still inside a word.
	assert.Equal(t, domain.StateID("in_word"), eng.Inspect().State)

	require.NoError(t, eng.PostEvents(ctx, other))
	assert.Equal(t, domain.StateID("out_word"), eng.Inspect().State)
	n, err = eng.ReadInt(ctx, "read_counter")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestEngine_EmptyBatchChangesNothing(t *testing.T) {
	tbl, reg := wordCounter(t)
	ctx := context.Background()
	eng, err := stateworks.New(ctx, tbl, reg)
	require.NoError(t, err)

	before := eng.Inspect()
	require.NoError(t, eng.PostEvents(ctx))
	after := eng.Inspect()

	assert.Equal(t, before.State, after.State)
	assert.Equal(t, before.Statics, after.Statics)
	assert.Equal(t, before.Cycles+1, after.Cycles)
}

func TestNew_UnboundAction(t *testing.T) {
	tbl, _ := wordCounter(t)
	_, err := stateworks.New(context.Background(), tbl, dispatch.NewRegistry())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnboundAction)
	assert.Contains(t, err.Error(), "invalid engine configuration")
}

func TestNew_InitialCycleFailure(t *testing.T) {
	b := dsl.New().Initial("a")
	b.Add("a").Go("b", "boom")
	b.Add("b")
	tbl, err := b.Build()
	require.NoError(t, err)

	reg := dispatch.NewRegistry().Register("boom", func(ctx context.Context, env ports.ActionEnv) (any, error) {
		return nil, errors.New("kaput")
	})
	_, err = stateworks.New(context.Background(), tbl, reg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "initial cycle failed")

	var actErr *domain.ActionError
	require.ErrorAs(t, err, &actErr)
	assert.Equal(t, domain.Action("boom"), actErr.Action)
	assert.Equal(t, domain.PhaseTransition, actErr.Phase)
}

func TestEngine_Options(t *testing.T) {
	tbl, reg := wordCounter(t)
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Set(ctx, "counter", 40))

	var entered []domain.StateID
	eng, err := stateworks.New(ctx, tbl, reg,
		stateworks.WithName("wc"),
		stateworks.WithStore(store),
		stateworks.WithInitialState("out_word"),
		stateworks.WithLifecycleHooks(domain.LifecycleHooks{
			OnStateEnter: func(ctx context.Context, e *domain.StateEvent) {
				entered = append(entered, e.State)
			},
		}),
	)
	require.NoError(t, err)
	assert.Equal(t, "wc", eng.Name)
	assert.Same(t, tbl, eng.Table())
	assert.Empty(t, entered, "starting in out_word skips the init cascade")

	require.NoError(t, eng.PostEvents(ctx, alnum))
	n, err := eng.ReadInt(ctx, "read_counter")
	require.NoError(t, err)
	assert.Equal(t, int64(41), n)
	assert.Equal(t, []domain.StateID{"in_word"}, entered)
}

func TestEngine_ReadInt(t *testing.T) {
	tbl, reg := wordCounter(t)
	reg.Register("name", func(ctx context.Context, env ports.ActionEnv) (any, error) {
		return "wc", nil
	})
	reg.Register("small", func(ctx context.Context, env ports.ActionEnv) (any, error) {
		return 7, nil
	})
	ctx := context.Background()
	eng, err := stateworks.New(ctx, tbl, reg)
	require.NoError(t, err)

	n, err := eng.ReadInt(ctx, "small")
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	_, err = eng.ReadInt(ctx, "name")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "returned string, not an integer")

	_, err = eng.ReadInt(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrUnboundAction)
}

func TestEngine_CascadeLimitPoisons(t *testing.T) {
	b := dsl.New().Initial("ping").Events("go").Statics("loop")
	b.Add("ping").On(domain.WhenStatic("loop"), "pong")
	b.Add("pong").On(domain.WhenStatic("loop"), "ping")
	tbl, err := b.Build()
	require.NoError(t, err)

	reg := dispatch.NewRegistry().Register("arm", dispatch.Raise("loop"))
	ctx := context.Background()
	eng, err := stateworks.New(ctx, tbl, reg, stateworks.WithMaxSteps(5))
	require.NoError(t, err)

	_, err = eng.Read(ctx, "arm")
	require.NoError(t, err)

	err = eng.PostEvents(ctx, "go")
	var limitErr *domain.CascadeLimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, 5, limitErr.Limit)
	assert.ErrorIs(t, err, domain.ErrCascadeLimit)

	assert.ErrorIs(t, eng.Err(), domain.ErrCascadeLimit)
	assert.ErrorIs(t, eng.PostEvents(ctx), domain.ErrCascadeLimit)
	_, err = eng.Read(ctx, "arm")
	assert.ErrorIs(t, err, domain.ErrCascadeLimit)
}

func TestEngine_ImplementsMachine(t *testing.T) {
	tbl, reg := wordCounter(t)
	eng, err := stateworks.New(context.Background(), tbl, reg)
	require.NoError(t, err)

	var m ports.Machine = eng
	require.NoError(t, m.PostEvents(context.Background(), alnum))
	assert.Equal(t, domain.StateID("in_word"), m.Inspect().State)
}
