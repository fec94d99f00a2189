/*
Package observability provides lifecycle hooks for monitoring a stateworks engine.

It includes Prometheus metrics, a structured-log tracer, a human-readable
trace renderer for terminals, and Chain to attach several of them at once.
Every hook runs synchronously inside the engine cycle, so they stay cheap.
*/
package observability
