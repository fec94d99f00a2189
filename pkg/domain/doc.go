/*
Package domain contains the core domain models of the stateworks engine.

It defines the vocabulary of a virtual finite-state machine (VFSM): signals,
conditions, actions and state specifications, plus the lifecycle hooks and
error taxonomy shared by the engine and its adapters. This package is kept
pure and free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - EventTag: a one-time signal, cleared at the end of every execution cycle.
  - StaticTag: a persistent signal, changed only by dispatched actions.
  - Condition: an AND of required events and statics, or the Always wildcard.
  - Action: an opaque output token resolved by the host's dispatcher.
  - StateSpec: entry/exit actions, input actions and ordered transitions of a state.
*/
package domain
