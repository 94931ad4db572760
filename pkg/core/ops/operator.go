// Package ops defines the operator contract that external collaborators
// implement to plug a computation into the executor and solver, plus a
// small built-in set (const, addn, pack, pad) exercised by the engine's
// own tests and the comparison harness.
package ops

import (
	"github.com/itohio/graphinfer/pkg/core/infer"
	"github.com/itohio/graphinfer/pkg/core/tensor"
)

// StreamInput is one streamed input slot passed to Step: a designated
// stream axis (or none, for inputs fed whole) and the chunk produced so
// far (or none, while the upstream producer hasn't emitted one yet).
type StreamInput struct {
	Axis  *int
	Chunk *tensor.Tensor
}

// Buffer is the opaque per-node scratch state an operator owns between
// Step calls; the executor hands the same value back on every call and
// never inspects it. The zero value (nil) is the default empty buffer.
type Buffer interface{}

// Operator is the contract every node's computation satisfies.
type Operator interface {
	// Eval is the pure forward computation. Input arity is fixed per
	// operator kind; callers that pass the wrong arity get ErrArity.
	Eval(inputs []tensor.Tensor) ([]tensor.Tensor, error)

	// Step accepts one chunk per streamed input and a buffer, returning
	// produced outputs once enough chunks have accumulated, or ok=false
	// while still buffering. Operators that don't support streaming
	// return ErrNotStreamable.
	Step(inputs []StreamInput, buf Buffer) (outputs []tensor.Tensor, ok bool, err error)

	// NewBuffer returns this operator's buffer kind, used to seed a
	// streaming ModelState's per-node state.
	NewBuffer() Buffer

	// Rules installs this operator's shape/type constraints on the
	// solver, addressing this node's inputs/outputs through the proxies.
	Rules(solver *infer.Solver, inputs infer.InputsProxy, outputs infer.OutputsProxy)

	// Attributes exposes static, observable metadata about the operator
	// instance (e.g. its datatype, axis, or other construction params).
	Attributes() map[string]any
}

// Streamable is implemented by operators whose Step genuinely supports
// streaming; NotStreamable.Step always errors, so the executor can refuse
// to build a streaming plan over a graph containing one (§4.9).
type Streamable interface {
	CanStream() bool
}

// NotStreamable is embedded by operators with no streaming support. It
// satisfies both Operator.Step and Operator.NewBuffer and Streamable.
type NotStreamable struct{}

func (NotStreamable) Step([]StreamInput, Buffer) ([]tensor.Tensor, bool, error) {
	return nil, false, ErrNotStreamable
}

func (NotStreamable) NewBuffer() Buffer { return nil }

func (NotStreamable) CanStream() bool { return false }
