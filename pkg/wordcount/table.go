package wordcount

import (
	"unicode"

	"github.com/aretw0/stateworks/pkg/domain"
	"github.com/aretw0/stateworks/pkg/dsl"
	"github.com/aretw0/stateworks/pkg/table"
)

const (
	EventAlphanumeric domain.EventTag = "read_alphanumeric"
	EventOther        domain.EventTag = "read_other"
)

const (
	StateInit    domain.StateID = "init"
	StateOutWord domain.StateID = "out_word"
	StateInWord  domain.StateID = "in_word"
)

const (
	ActionIncrement   domain.Action = "increment_counter"
	ActionReadCounter domain.Action = "read_counter"
	ActionHello       domain.Action = "print_hello"
)

// DefaultKey is the data store register holding the count.
const DefaultKey = "words"

// Classify maps a character to its event. Alphabetic characters (letters
// and Other_Alphabetic marks such as Indic vowel signs) and every numeric
// character (digits, letter numbers like Ⅻ, superscripts, fractions) are
// alphanumeric; everything else separates words.
func Classify(r rune) domain.EventTag {
	if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.Is(unicode.Other_Alphabetic, r) {
		return EventAlphanumeric
	}
	return EventOther
}

// NewTable builds the word-counter table. With greeting set, a global input
// action fires print_hello on every cycle.
func NewTable(greeting bool) *table.Table {
	b := dsl.New().
		Initial(StateInit).
		Events(EventAlphanumeric, EventOther).
		Declare(StateInit, StateOutWord, StateInWord)

	if greeting {
		b.Global(domain.Always(), ActionHello)
	}

	b.Add(StateInit).Name("Init").Go(StateOutWord)
	b.Add(StateOutWord).Name("OutWord").On(domain.When(EventAlphanumeric), StateInWord, ActionIncrement)
	b.Add(StateInWord).Name("InWord").On(domain.When(EventOther), StateOutWord)

	return table.MustNew(b.Definition())
}
