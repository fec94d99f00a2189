package yamltable_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/stateworks"
	"github.com/aretw0/stateworks/pkg/adapters/yamltable"
	"github.com/aretw0/stateworks/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMachine_WordCount(t *testing.T) {
	m, err := yamltable.LoadMachine("testdata/wordcount.yaml", nil)
	require.NoError(t, err)
	assert.Equal(t, "wordcount", m.Name)

	ctx := context.Background()
	eng, err := stateworks.New(ctx, m.Table, m.Registry)
	require.NoError(t, err)
	assert.Equal(t, domain.StateID("out_word"), eng.Inspect().State)

	for _, ev := range []domain.EventTag{"read_alphanumeric", "read_alphanumeric", "read_other", "read_alphanumeric"} {
		require.NoError(t, eng.PostEvents(ctx, ev))
	}
	n, err := eng.ReadInt(ctx, "read_counter")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, domain.StateID("in_word"), eng.Inspect().State)
}

func TestLoadMachine_Turnstile(t *testing.T) {
	var out bytes.Buffer
	m, err := yamltable.LoadMachine("testdata/turnstile.yaml", &out)
	require.NoError(t, err)
	assert.Equal(t, 8, m.MaxSteps)

	ctx := context.Background()
	eng, err := stateworks.New(ctx, m.Table, m.Registry, stateworks.WithMaxSteps(m.MaxSteps))
	require.NoError(t, err)

	// Pushing a locked turnstile raises the alarm. Globals run after the
	// state's inputs, so the siren already sounds in the same cycle.
	require.NoError(t, eng.PostEvents(ctx, "push"))
	assert.Equal(t, []domain.StaticTag{"alarm"}, eng.Inspect().Statics)
	assert.Equal(t, "WEE-OO\n", out.String())

	require.NoError(t, eng.PostEvents(ctx, "coin"))
	assert.Equal(t, domain.StateID("unlocked"), eng.Inspect().State)
	assert.Empty(t, eng.Inspect().Statics)
	assert.Equal(t, "WEE-OO\nWEE-OO\n", out.String())

	require.NoError(t, eng.PostEvents(ctx, "push"))
	assert.Equal(t, domain.StateID("locked"), eng.Inspect().State)
	assert.Equal(t, "WEE-OO\nWEE-OO\nlocking\n", out.String())

	n, err := eng.ReadInt(ctx, "coins")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestParse_Conditions(t *testing.T) {
	src := `
initial: a
events: [x, y]
statics: [s]
states:
  - id: a
    inputs:
      - {when: "*", do: tick}
      - {when: x, do: one}
      - {when: [x, $s], do: two}
      - {when: {events: [x, y], statics: [s]}, do: three}
      - {do: four}
`
	doc, err := yamltable.Parse([]byte(src))
	require.NoError(t, err)
	def, err := doc.Definition()
	require.NoError(t, err)

	inputs := def.States[0].Inputs
	require.Len(t, inputs, 5)
	assert.True(t, inputs[0].Condition.IsAlways())
	assert.Equal(t, "{x}", inputs[1].Condition.String())
	assert.Equal(t, "{x & $s}", inputs[2].Condition.String())
	assert.Equal(t, "{x & y & $s}", inputs[3].Condition.String())
	assert.True(t, inputs[4].Condition.IsAlways())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "Malformed",
			src:  "initial: [unterminated",
			want: "invalid table document",
		},
		{
			name: "MissingInitial",
			src:  "states: []",
			want: "missing initial state",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := yamltable.Parse([]byte(tt.src))
			require.Error(t, err)
			assert.ErrorIs(t, err, yamltable.ErrInvalidDocument)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDefinition_BadConditionsReportedTogether(t *testing.T) {
	src := `
initial: a
events: [x]
states:
  - id: a
    inputs:
      - {when: [1], do: bad}
    transitions:
      - {when: {}, to: a}
      - {when: [""], to: a}
`
	doc, err := yamltable.Parse([]byte(src))
	require.NoError(t, err)

	_, err = doc.Definition()
	require.Error(t, err)
	assert.ErrorIs(t, err, yamltable.ErrInvalidDocument)

	var agg *domain.AggregateError
	require.True(t, errors.As(err, &agg))
	assert.Len(t, agg.Errors, 3)
}

func TestTable_ValidationErrors(t *testing.T) {
	src := `
initial: a
events: [x]
states:
  - id: a
    transitions:
      - {when: [nope], to: missing}
`
	doc, err := yamltable.Parse([]byte(src))
	require.NoError(t, err)

	_, err = doc.Table()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownSignal)
	assert.ErrorIs(t, err, domain.ErrMissingState)
}

func TestRegistry_Errors(t *testing.T) {
	src := `
initial: a
bindings:
  a: {op: explode}
  b: {op: increment}
  c: {op: raise}
  d: {op: noop, policy: sometimes}
`
	doc, err := yamltable.Parse([]byte(src))
	require.NoError(t, err)

	_, err = doc.Registry(nil)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, `binding "a": unknown op "explode"`)
	assert.Contains(t, msg, `binding "b": op "increment" requires a key`)
	assert.Contains(t, msg, `binding "c": op "raise" requires a tag`)
	assert.Contains(t, msg, `binding "d": unknown failure policy "sometimes"`)
}

func TestRegistry_Policies(t *testing.T) {
	doc, err := yamltable.Parse([]byte(`
initial: a
bindings:
  p: {op: noop}
  c: {op: noop, policy: Continue}
  x: {op: noop, policy: abort}
`))
	require.NoError(t, err)

	reg, err := doc.Registry(nil)
	require.NoError(t, err)
	assert.Equal(t, domain.PolicyPropagate, reg.PolicyOf("p"))
	assert.Equal(t, domain.PolicyContinue, reg.PolicyOf("c"))
	assert.Equal(t, domain.PolicyAbort, reg.PolicyOf("x"))
	assert.Equal(t, []domain.Action{"c", "p", "x"}, reg.Actions())
}

func TestLoad_JSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "machine.json")
	src := `{"initial":"a","states":[{"id":"a","transitions":[{"when":"always","to":"b"}]},{"id":"b"}]}`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	m, err := yamltable.LoadMachine(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "a", m.Name)

	eng, err := stateworks.New(context.Background(), m.Table, m.Registry)
	require.NoError(t, err)
	assert.Equal(t, domain.StateID("b"), eng.Inspect().State)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := yamltable.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "failed to read table file"))
}
