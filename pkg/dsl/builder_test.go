package dsl

import (
	"errors"
	"testing"

	"github.com/aretw0/stateworks/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_WordCounterTable(t *testing.T) {
	b := New().
		Initial("init").
		Events("alnum", "other")

	b.Add("init").Go("out_word")
	b.Add("out_word").On(domain.When("alnum"), "in_word", "increment")
	b.Add("in_word").On(domain.When("other"), "out_word")

	tbl, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, domain.StateID("init"), tbl.Initial())
	assert.Equal(t, []domain.StateID{"init", "out_word", "in_word"}, tbl.States())
	assert.Equal(t, []domain.Action{"increment"}, tbl.Actions())

	spec, ok := tbl.SpecOf("out_word")
	require.True(t, ok)
	require.Len(t, spec.Transitions, 1)
	assert.Equal(t, domain.StateID("in_word"), spec.Transitions[0].To)
	assert.Equal(t, []domain.Action{"increment"}, spec.Transitions[0].Actions)
	assert.Equal(t, "out_word", spec.Name, "name defaults to ID")
}

func TestBuilder_AddReturnsExisting(t *testing.T) {
	b := New().Initial("a")
	b.Add("a").Entry("x")
	b.Add("a").Entry("y")

	spec := b.Add("a").Build()
	assert.Equal(t, []domain.Action{"x", "y"}, spec.Entry)
	assert.Len(t, b.Definition().States, 1)
}

func TestBuilder_ChainsAllParts(t *testing.T) {
	b := New().Initial("idle").Events("go").Statics("armed").
		Global(domain.WhenStatic("armed"), "beep")

	b.Add("idle").
		Name("Idle").
		Entry("enter_idle").
		Exit("leave_idle").
		Input(domain.When("go"), "note").
		On(domain.When("go").AndStatic("armed"), "busy", "launch").
		Done().
		Add("busy").
		Go("idle")

	def := b.Definition()
	require.Len(t, def.States, 2)
	idle := def.States[0]
	assert.Equal(t, "Idle", idle.Name)
	assert.Equal(t, []domain.Action{"enter_idle"}, idle.Entry)
	assert.Equal(t, []domain.Action{"leave_idle"}, idle.Exit)
	require.Len(t, idle.Inputs, 1)
	assert.Equal(t, domain.Action("note"), idle.Inputs[0].Action)
	assert.True(t, def.States[1].Transitions[0].Condition.IsAlways())
	require.Len(t, def.Globals, 1)

	_, err := b.Build()
	require.NoError(t, err)
}

func TestBuilder_PropagatesConfigurationErrors(t *testing.T) {
	b := New().Initial("init")
	b.Add("init").On(domain.When("ghost"), "nowhere")

	_, err := b.Build()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnknownSignal))
	assert.True(t, errors.Is(err, domain.ErrMissingState))
}
