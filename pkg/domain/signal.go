package domain

import (
	"slices"
	"strings"
)

// EventTag identifies a one-time signal (Event).
// Events live for a single execution cycle.
type EventTag string

// StaticTag identifies a persistent signal (Static Signal).
// Statics stay active until a dispatched action lowers them.
type StaticTag string

// StateID identifies a state in the table.
type StateID string

// EventSet is a set of active events.
type EventSet map[EventTag]struct{}

// NewEventSet builds a set from the given tags.
func NewEventSet(tags ...EventTag) EventSet {
	s := make(EventSet, len(tags))
	for _, t := range tags {
		s[t] = struct{}{}
	}
	return s
}

// Has reports whether tag is in the set.
func (s EventSet) Has(tag EventTag) bool {
	_, ok := s[tag]
	return ok
}

// Sorted returns the tags in lexical order.
func (s EventSet) Sorted() []EventTag {
	out := make([]EventTag, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

func (s EventSet) String() string {
	return joinTags(s.Sorted())
}

// StaticSet is a set of active static signals.
type StaticSet map[StaticTag]struct{}

// NewStaticSet builds a set from the given tags.
func NewStaticSet(tags ...StaticTag) StaticSet {
	s := make(StaticSet, len(tags))
	for _, t := range tags {
		s[t] = struct{}{}
	}
	return s
}

// Has reports whether tag is in the set.
func (s StaticSet) Has(tag StaticTag) bool {
	_, ok := s[tag]
	return ok
}

// Sorted returns the tags in lexical order.
func (s StaticSet) Sorted() []StaticTag {
	out := make([]StaticTag, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

func (s StaticSet) String() string {
	return joinTags(s.Sorted())
}

func joinTags[T ~string](tags []T) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = string(t)
	}
	return "{" + strings.Join(parts, ",") + "}"
}
