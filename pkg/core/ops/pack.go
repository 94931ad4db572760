package ops

import (
	"fmt"

	"github.com/itohio/graphinfer/pkg/core/infer"
	"github.com/itohio/graphinfer/pkg/core/tensor"
	"github.com/itohio/graphinfer/pkg/core/tensor/types"
)

// Pack stacks N same-shaped tensors along a new axis, mirroring
// tf.stack/tf.pack. Attributes "T" (datatype) and "axis" come from the
// NodeDef; N is the input arity.
type Pack struct {
	NotStreamable
	N     int
	Axis  int
	Dtype types.DataType
}

func NewPack(dtype types.DataType, n, axis int) *Pack {
	return &Pack{N: n, Axis: axis, Dtype: dtype}
}

func (p *Pack) Eval(inputs []tensor.Tensor) ([]tensor.Tensor, error) {
	if len(inputs) != p.N {
		return nil, fmt.Errorf("ops: Pack.Eval: %w: wanted %d inputs, got %d", ErrArity, p.N, len(inputs))
	}
	if p.N == 0 {
		return []tensor.Tensor{tensor.New(p.Dtype, types.NewShape(0))}, nil
	}

	inShape := inputs[0].Shape()
	for _, in := range inputs[1:] {
		if !in.Shape().Equal(inShape) {
			return nil, fmt.Errorf("ops: Pack.Eval: mismatched shapes %v and %v", inShape, in.Shape())
		}
	}

	outShape := make(types.Shape, 0, len(inShape)+1)
	outShape = append(outShape, inShape[:p.Axis]...)
	outShape = append(outShape, p.N)
	outShape = append(outShape, inShape[p.Axis:]...)

	inner := inShape.Size()
	outer := 1
	for _, d := range inShape[:p.Axis] {
		outer *= d
	}

	out := make([]float64, outShape.Size())
	for o := 0; o < outer; o++ {
		for i, in := range inputs {
			values := in.Floats()
			block := inner / outer
			copy(out[(o*p.N+i)*block:(o*p.N+i+1)*block], values[o*block:(o+1)*block])
		}
	}
	return []tensor.Tensor{tensor.FromFloats(p.Dtype, outShape, out)}, nil
}

func (p *Pack) Rules(solver *infer.Solver, inputs infer.InputsProxy, outputs infer.OutputsProxy) {
	output := outputs.At(0)
	n, axis := p.N, p.Axis

	solver.
		Equals(inputs.Len(), infer.ConstInt(int64(n))).
		Equals(outputs.Len(), infer.ConstInt(1))
	for i := 1; i < n; i++ {
		solver.Equals(inputs.At(i).Rank(), inputs.At(0).Rank())
	}
	solver.EqualsZero(
		infer.ScaledInteger{K: -1, Inner: output.Rank()},
		infer.ConstInt(1),
		infer.ScaledInteger{K: 1, Inner: inputs.At(0).Rank()},
	)
	solver.Given(inputs.At(0).Rank(), func(s *infer.Solver, value infer.Wrapped) {
		rank, err := value.AsInt()
		if err != nil {
			return
		}
		r, ok := rank.Concretize()
		if !ok {
			return
		}
		for d := 0; d < int(r); d++ {
			for i := 1; i < n; i++ {
				s.Equals(inputs.At(i).Dim(d), inputs.At(0).Dim(d))
			}
		}
		for d := 0; d < axis; d++ {
			s.Equals(output.Dim(d), inputs.At(0).Dim(d))
		}
		for d := axis; d < int(r); d++ {
			s.Equals(output.Dim(d+1), inputs.At(0).Dim(d))
		}
	})
	solver.Equals(output.Dim(axis), infer.ConstInt(int64(n)))
}

func (p *Pack) Attributes() map[string]any {
	return map[string]any{"T": p.Dtype, "N": p.N, "axis": p.Axis}
}
