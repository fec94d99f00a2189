/*
Package table holds the immutable state table of a VFSM.

A Table is built once from a Definition and validated exhaustively: every
referenced state must have a spec, every condition may only name declared
signal tags, the initial state must exist and no transition may be shadowed by
an earlier one. All violations are reported together as a
*domain.AggregateError of *domain.ConfigurationError values.
*/
package table
