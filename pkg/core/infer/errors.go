package infer

import "errors"

// Sentinel error kinds for the path and rule layers (§7 of the design
// notes). Wrap these with fmt.Errorf("...: %w", ErrX) to preserve errors.Is.
var (
	ErrIncompatibility = errors.New("incompatibility")
	ErrInvalidPath     = errors.New("invalid path")
	ErrOutOfBounds     = errors.New("out of bounds")
	ErrWrongKind       = errors.New("wrong kind")
	ErrNotDivisible    = errors.New("not divisible")
	ErrArity           = errors.New("arity")
)
