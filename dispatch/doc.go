// Package dispatch defines the instruction lists synthesized for contract
// classes. A Routine decodes the arguments of the dispatched action from
// the contract's input stream, invokes the matching entry method, and
// encodes its result as the reply.
//
// Routines are data. Rendering them into an executable dispatcher is left
// to a downstream emitter, which can consume the JSON form written by
// Routine.MarshalJSON. Format prints a listing meant for people.
package dispatch
