/*
Package stateworks is a synchronous, in-process virtual finite-state-machine
(VFSM) engine.

It separates control flow (states, transitions, entry/exit/input actions)
from data flow (values held in an external data store, such as counters).
The host supplies an immutable state table and a dispatcher that gives
meaning to abstract action tokens; the engine decides which actions fire,
in which order, and how signals are consumed.

# Concept

Signals come in two lifetimes:

  - Events are one-time signals. They are posted in batches and cleared at
    the end of every execution cycle, whether or not they triggered anything.
  - Static signals persist. Only a dispatched action can raise or lower them.

Each call to PostEvents runs one execution cycle to a fixpoint: input actions
of the current state, global input actions, then transitions (first match
wins) until nothing fires. A cascade of wildcard transitions settles inside
the same call; intermediate states are never observable.

# Usage

	b := dsl.New().Initial("init").Events("alnum", "other")
	b.Add("init").Go("out_word")
	b.Add("out_word").On(domain.When("alnum"), "in_word", "increment")
	b.Add("in_word").On(domain.When("other"), "out_word")
	tbl, err := b.Build()
	if err != nil {
		log.Fatal(err)
	}

	reg := dispatch.NewRegistry().
		Register("increment", dispatch.Increment("words")).
		Register("read", dispatch.ReadCounter("words"))

	eng, err := stateworks.New(ctx, tbl, reg)
	if err != nil {
		log.Fatal(err)
	}

	for _, r := range "ab c " {
		ev := domain.EventTag("other")
		if unicode.IsLetter(r) {
			ev = "alnum"
		}
		_ = eng.PostEvents(ctx, ev)
	}
	words, _ := eng.ReadInt(ctx, "read")

Package wordcount packages this machine with a character classifier.

The engine is single-threaded: it never locks and never spawns goroutines.
Hosts with concurrent producers must serialise calls themselves, for example
with pkg/session.
*/
package stateworks
