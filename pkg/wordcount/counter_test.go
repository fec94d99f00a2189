package wordcount_test

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/aretw0/stateworks/pkg/adapters/memory"
	"github.com/aretw0/stateworks/pkg/domain"
	"github.com/aretw0/stateworks/pkg/wordcount"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		in   rune
		want domain.EventTag
	}{
		{'a', wordcount.EventAlphanumeric},
		{'Z', wordcount.EventAlphanumeric},
		{'7', wordcount.EventAlphanumeric},
		{'é', wordcount.EventAlphanumeric},
		{'ा', wordcount.EventAlphanumeric}, // Devanagari vowel sign AA
		{'²', wordcount.EventAlphanumeric},
		{'½', wordcount.EventAlphanumeric},
		{'Ⅻ', wordcount.EventAlphanumeric},
		{'٣', wordcount.EventAlphanumeric},
		{' ', wordcount.EventOther},
		{'\t', wordcount.EventOther},
		{'\n', wordcount.EventOther},
		{'.', wordcount.EventOther},
		{'-', wordcount.EventOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, wordcount.Classify(tt.in), "Classify(%q)", tt.in)
	}
}

func TestCount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int64
	}{
		{"Empty", "", 0},
		{"OnlySpaces", "    ", 0},
		{"OneWord", "hello", 1},
		{"TwoWords", "hello world", 2},
		{"LeadingAndTrailing", "  hello world  ", 2},
		{"Tabs", "a\tb\tc", 3},
		{"Newlines", "one\ntwo\n\nthree\n", 3},
		{"Punctuated", "This text has 5 words.", 5},
		{"Digits", "route 66", 2},
	}

	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := wordcount.Count(ctx, tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCount_MatchesReference(t *testing.T) {
	words := make([]string, 1000)
	for i := range words {
		words[i] = fmt.Sprintf("word%d", i)
	}
	seps := []string{" ", "  ", "\t", "\n", " \n "}
	var sb strings.Builder
	for i, w := range words {
		sb.WriteString(w)
		sb.WriteString(seps[i%len(seps)])
	}
	text := sb.String()

	got, err := wordcount.Count(context.Background(), text)
	require.NoError(t, err)
	assert.Equal(t, wordcount.Reference(text), got)
	assert.Equal(t, int64(1000), got)
}

func TestCount_MatchesReferenceBeyondASCII(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int64
	}{
		{"DevanagariVowelSign", "काम", 1},
		{"DevanagariSentence", "मैं काम करता हूँ", 4},
		{"Superscript", "x ² y", 3},
		{"Fraction", "½", 1},
		{"RomanNumeral", "Ⅻ", 1},
		{"MixedScripts", "naïve 東京 ٣٤ x²", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := wordcount.Count(context.Background(), tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, wordcount.Reference(tt.text), got)
		})
	}
}

func TestCounter_States(t *testing.T) {
	ctx := context.Background()
	c, err := wordcount.New(ctx)
	require.NoError(t, err)

	// The wildcard transition out of init is taken by the initial cycle.
	assert.Equal(t, wordcount.StateOutWord, c.State())

	require.NoError(t, c.Feed(ctx, "ab"))
	assert.Equal(t, wordcount.StateInWord, c.State())

	require.NoError(t, c.Feed(ctx, " c"))
	assert.Equal(t, wordcount.StateInWord, c.State())

	n, err := c.Words(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, c.Finish(ctx))
	assert.Equal(t, wordcount.StateOutWord, c.State())

	n, err = c.Words(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n, "finishing does not count a word")
}

func TestCounter_SharedStoreAndKey(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	_, err := wordcount.Count(ctx, "one two", wordcount.WithStore(store), wordcount.WithKey("total"))
	require.NoError(t, err)
	got, err := wordcount.Count(ctx, "three", wordcount.WithStore(store), wordcount.WithKey("total"))
	require.NoError(t, err)

	assert.Equal(t, int64(3), got, "counts accumulate on a shared register")
	v, err := store.Get(ctx, "total")
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)
}

func TestCounter_Greeting(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer

	c, err := wordcount.New(ctx, wordcount.WithGreeting(&out))
	require.NoError(t, err)
	require.NoError(t, c.Feed(ctx, "hi"))

	// Initial cycle plus one per character.
	assert.Equal(t, 3, strings.Count(out.String(), "Hello world from state machine"))
}

func TestNewTable(t *testing.T) {
	plain := wordcount.NewTable(false)
	assert.Empty(t, plain.Globals())
	assert.Equal(t, wordcount.StateInit, plain.Initial())
	assert.ElementsMatch(t,
		[]domain.Action{wordcount.ActionIncrement},
		plain.Actions())

	greeting := wordcount.NewTable(true)
	require.Len(t, greeting.Globals(), 1)
	assert.True(t, greeting.Globals()[0].Condition.IsAlways())
	assert.Contains(t, greeting.Actions(), wordcount.ActionHello)
}
