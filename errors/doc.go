// Package errors provides the structured error type used across abigen.
//
// Every error carries the Phase it was raised in and a Kind, so callers can
// match classes of failure with the standard library's errors.Is:
//
//	if errors.Is(err, &abierr.Error{Phase: abierr.PhaseScan, Kind: abierr.KindDecoratorArity}) {
//	    ...
//	}
package errors
