package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/stateworks/internal/runtime"
	"github.com/aretw0/stateworks/pkg/dispatch"
	"github.com/aretw0/stateworks/pkg/domain"
	"github.com/aretw0/stateworks/pkg/dsl"
	"github.com/aretw0/stateworks/pkg/ports"
	"github.com/aretw0/stateworks/pkg/table"
	"github.com/stretchr/testify/require"
)

// recorder collects the actions dispatched through it, in order.
type recorder struct {
	calls []domain.Action
}

func (r *recorder) handler(a domain.Action) dispatch.Handler {
	return func(ctx context.Context, env ports.ActionEnv) (any, error) {
		r.calls = append(r.calls, a)
		return nil, nil
	}
}

// bindAll registers a recording handler for every action of tbl that is not bound yet.
func (r *recorder) bindAll(reg *dispatch.Registry, tbl *table.Table) *dispatch.Registry {
	for _, a := range tbl.Actions() {
		if !reg.Binds(a) {
			reg.Register(a, r.handler(a))
		}
	}
	return reg
}

func (r *recorder) count(a domain.Action) int {
	n := 0
	for _, c := range r.calls {
		if c == a {
			n++
		}
	}
	return n
}

func (r *recorder) reset() {
	r.calls = nil
}

// wordCounterTable is Init --*--> OutWord --alnum/increment--> InWord --other--> OutWord.
func wordCounterTable(t *testing.T) *table.Table {
	t.Helper()
	b := dsl.New().Initial("init").Events("alnum", "other")
	b.Add("init").Go("out_word")
	b.Add("out_word").On(domain.When("alnum"), "in_word", "increment")
	b.Add("in_word").On(domain.When("other"), "out_word")
	tbl, err := b.Build()
	require.NoError(t, err)
	return tbl
}

func wordCounterRegistry() *dispatch.Registry {
	return dispatch.NewRegistry().
		Register("increment", dispatch.Increment("counter")).
		Register("read_counter", dispatch.ReadCounter("counter"))
}

func startEngine(t *testing.T, tbl *table.Table, d ports.ActionDispatcher, opts ...runtime.EngineOption) *runtime.Engine {
	t.Helper()
	eng, err := runtime.NewEngine(tbl, d, opts...)
	require.NoError(t, err)
	require.NoError(t, eng.Start(context.Background()))
	return eng
}

func readCounter(t *testing.T, eng *runtime.Engine) int64 {
	t.Helper()
	v, err := eng.Read(context.Background(), "read_counter")
	require.NoError(t, err)
	n, ok := v.(int64)
	require.True(t, ok, "read_counter returned %T", v)
	return n
}
