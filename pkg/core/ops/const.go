package ops

import (
	"fmt"

	"github.com/itohio/graphinfer/pkg/core/infer"
	"github.com/itohio/graphinfer/pkg/core/tensor"
)

// Const is a zero-input operator that always produces the same baked-in
// tensor. It grounds the "Const" node kind every serialized graph uses to
// carry its literal weights and shape parameters.
type Const struct {
	NotStreamable
	Value tensor.Tensor
}

func NewConst(value tensor.Tensor) *Const { return &Const{Value: value} }

func (c *Const) Eval(inputs []tensor.Tensor) ([]tensor.Tensor, error) {
	if len(inputs) != 0 {
		return nil, fmt.Errorf("ops: Const.Eval: %w: wanted 0 inputs, got %d", ErrArity, len(inputs))
	}
	return []tensor.Tensor{c.Value}, nil
}

func (c *Const) Rules(solver *infer.Solver, inputs infer.InputsProxy, outputs infer.OutputsProxy) {
	output := outputs.At(0)
	solver.
		Equals(inputs.Len(), infer.ConstInt(0)).
		Equals(outputs.Len(), infer.ConstInt(1)).
		Equals(output.Value(), infer.Constant{Value: infer.WrapValue(infer.OnlyValue(c.Value))})
}

func (c *Const) Attributes() map[string]any {
	return map[string]any{
		"dtype": c.Value.DataType(),
		"shape": c.Value.Shape(),
	}
}
