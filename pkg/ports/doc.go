/*
Package ports defines the driven ports (interfaces) of the stateworks engine.

These interfaces decouple the engine core from the host: what an action means,
where external data lives and how a host drives an engine are all supplied
from outside.

# Key Interfaces

  - ActionDispatcher: resolves abstract action tokens to side effects.
  - DataStore: the external data store mutated by dispatched actions (memory, Redis).
  - SignalLatch: the handle a dispatched action uses to raise or lower static signals.
  - Machine: the runtime surface (post events, read) that hosts and drivers use.
*/
package ports
