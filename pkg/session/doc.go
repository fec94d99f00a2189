/*
Package session hosts many independent engines and serialises access to them.

An engine is single-threaded by design. The Manager gives every machine an
ID and a mutex, so concurrent producers (HTTP handlers, workers) can post to
the same machine without racing. Machines do not share tables or data
stores unless the host wires them that way.
*/
package session
