package dataflow

import "errors"

// Sentinel error kinds for graph construction, planning and execution
// (§7). Wrap these with fmt.Errorf("...: %w", ErrX) to preserve errors.Is.
var (
	ErrUnknownNode       = errors.New("unknown node")
	ErrUnreachablePlan   = errors.New("unreachable plan")
	ErrDependencyMissing = errors.New("dependency missing")
	ErrInvalidOutputRef  = errors.New("invalid output ref")
	ErrNotComputed       = errors.New("value is not computed")
)
