// Package dispatch binds abstract action tokens to side-effecting handlers.
package dispatch
