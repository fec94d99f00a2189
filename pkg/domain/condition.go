package domain

import (
	"slices"
	"strings"
)

// Condition is the guard of an input action or transition.
// It is satisfied when every required event and every required static is
// active (logical AND across both sets), or unconditionally when it is the
// Always wildcard. The zero value requires nothing and is therefore always
// satisfied, but only Always() reports IsAlways.
type Condition struct {
	always  bool
	events  []EventTag
	statics []StaticTag
}

// Always returns the wildcard condition.
func Always() Condition {
	return Condition{always: true}
}

// When returns a condition requiring all the given events.
func When(events ...EventTag) Condition {
	return Condition{}.AndEvents(events...)
}

// WhenStatic returns a condition requiring all the given static signals.
func WhenStatic(statics ...StaticTag) Condition {
	return Condition{}.AndStatic(statics...)
}

// AndEvents returns a copy of c that additionally requires events.
// Adding requirements to the wildcard is a no-op.
func (c Condition) AndEvents(events ...EventTag) Condition {
	if c.always {
		return c
	}
	next := Condition{
		events:  append(slices.Clone(c.events), events...),
		statics: slices.Clone(c.statics),
	}
	slices.Sort(next.events)
	next.events = slices.Compact(next.events)
	return next
}

// AndStatic returns a copy of c that additionally requires statics.
// Adding requirements to the wildcard is a no-op.
func (c Condition) AndStatic(statics ...StaticTag) Condition {
	if c.always {
		return c
	}
	next := Condition{
		events:  slices.Clone(c.events),
		statics: append(slices.Clone(c.statics), statics...),
	}
	slices.Sort(next.statics)
	next.statics = slices.Compact(next.statics)
	return next
}

// IsAlways reports whether c is the wildcard.
func (c Condition) IsAlways() bool {
	return c.always
}

// Events returns the required events, sorted.
func (c Condition) Events() []EventTag {
	return slices.Clone(c.events)
}

// Statics returns the required static signals, sorted.
func (c Condition) Statics() []StaticTag {
	return slices.Clone(c.statics)
}

// RequiresEvents reports whether c can only be satisfied while some event is active.
func (c Condition) RequiresEvents() bool {
	return !c.always && len(c.events) > 0
}

// Satisfied reports whether c holds against the active signal sets.
func (c Condition) Satisfied(events EventSet, statics StaticSet) bool {
	if c.always {
		return true
	}
	for _, e := range c.events {
		if !events.Has(e) {
			return false
		}
	}
	for _, s := range c.statics {
		if !statics.Has(s) {
			return false
		}
	}
	return true
}

// Covers reports whether every signal set satisfying other also satisfies c,
// i.e. c's requirements are a subset of other's.
func (c Condition) Covers(other Condition) bool {
	if c.always {
		return true
	}
	if other.always {
		return len(c.events) == 0 && len(c.statics) == 0
	}
	return isSubset(c.events, other.events) && isSubset(c.statics, other.statics)
}

// Equal reports whether both conditions have the same requirements.
func (c Condition) Equal(other Condition) bool {
	return c.always == other.always &&
		slices.Equal(c.events, other.events) &&
		slices.Equal(c.statics, other.statics)
}

func (c Condition) String() string {
	if c.always {
		return "always"
	}
	var parts []string
	for _, e := range c.events {
		parts = append(parts, string(e))
	}
	for _, s := range c.statics {
		parts = append(parts, "$"+string(s))
	}
	return "{" + strings.Join(parts, " & ") + "}"
}

// isSubset expects both slices sorted.
func isSubset[T ~string](sub, super []T) bool {
	for _, v := range sub {
		if _, found := slices.BinarySearch(super, v); !found {
			return false
		}
	}
	return true
}
