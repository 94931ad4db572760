package ops

import (
	"fmt"

	"github.com/itohio/graphinfer/pkg/core/infer"
	"github.com/itohio/graphinfer/pkg/core/tensor"
	"github.com/itohio/graphinfer/pkg/core/tensor/types"
)

// Pad zero-pads a tensor per a [rank, 2] paddings tensor: paddings[d][0]
// elements are added before dimension d, paddings[d][1] after. It
// supports streaming along one designated axis, padding only the
// non-streamed dimensions per chunk.
type Pad struct {
	Dtype types.DataType
}

func NewPad(dtype types.DataType) *Pad { return &Pad{Dtype: dtype} }

func (p *Pad) Eval(inputs []tensor.Tensor) ([]tensor.Tensor, error) {
	if len(inputs) != 2 {
		return nil, fmt.Errorf("ops: Pad.Eval: %w: wanted 2 inputs, got %d", ErrArity, len(inputs))
	}
	return []tensor.Tensor{compute(inputs[0], inputs[1], -1)}, nil
}

func (p *Pad) CanStream() bool { return true }

func (p *Pad) NewBuffer() Buffer { return nil }

// Step requires the first input to be a streamed chunk (with a stream
// axis) and the second (paddings) to be fed whole.
func (p *Pad) Step(inputs []StreamInput, _ Buffer) ([]tensor.Tensor, bool, error) {
	if len(inputs) != 2 {
		return nil, false, fmt.Errorf("ops: Pad.Step: %w: wanted 2 inputs, got %d", ErrArity, len(inputs))
	}
	chunk, paddings := inputs[0], inputs[1]
	if chunk.Axis == nil || chunk.Chunk == nil || paddings.Chunk == nil {
		return nil, false, nil
	}
	return []tensor.Tensor{compute(*chunk.Chunk, *paddings.Chunk, *chunk.Axis)}, true, nil
}

// compute pads input per the [rank,2] paddings tensor; streamDim, if >= 0,
// names the axis left untouched (its chunk is already the right size).
func compute(input, paddings tensor.Tensor, streamDim int) tensor.Tensor {
	inShape := input.Shape()
	rank := len(inShape)
	before := make([]int, rank)
	after := make([]int, rank)
	for d := 0; d < rank; d++ {
		before[d] = int(paddings.At(d, 0))
		after[d] = int(paddings.At(d, 1))
	}

	outShape := make(types.Shape, rank)
	for d := 0; d < rank; d++ {
		if d == streamDim {
			outShape[d] = inShape[d]
		} else {
			outShape[d] = inShape[d] + before[d] + after[d]
		}
	}

	out := make([]float64, outShape.Size())
	strides := outShape.Strides()
	values := input.Floats()
	inStrides := inShape.Strides()

	for flat := range values {
		idx := unflattenInto(inShape, inStrides, flat)
		outFlat := 0
		for d := 0; d < rank; d++ {
			offset := idx[d]
			if d != streamDim {
				offset += before[d]
			}
			outFlat += offset * strides[d]
		}
		out[outFlat] = values[flat]
	}

	return tensor.FromFloats(input.DataType(), outShape, out)
}

func unflattenInto(shape types.Shape, strides []int, flat int) []int {
	idx := make([]int, len(shape))
	for d, s := range strides {
		idx[d] = flat / s % shape[d]
	}
	return idx
}

func (p *Pad) Rules(solver *infer.Solver, inputs infer.InputsProxy, outputs infer.OutputsProxy) {
	input := inputs.At(0)
	padding := inputs.At(1)
	output := outputs.At(0)

	solver.
		Equals(inputs.Len(), infer.ConstInt(2)).
		Equals(outputs.Len(), infer.ConstInt(1)).
		Equals(output.Datatype(), input.Datatype()).
		Equals(padding.Datatype(), infer.Constant{Value: infer.WrapType(infer.OnlyType(types.DTI32))}).
		Equals(input.Rank(), output.Rank()).
		Equals(padding.Rank(), infer.ConstInt(2)).
		Equals(padding.Dim(0), input.Rank()).
		Equals(padding.Dim(1), infer.ConstInt(2))

	solver.Given(input.Rank(), func(s *infer.Solver, value infer.Wrapped) {
		rank, err := value.AsInt()
		if err != nil {
			return
		}
		r, ok := rank.Concretize()
		if !ok {
			return
		}
		for d := 0; d < int(r); d++ {
			s.EqualsZero(
				infer.ScaledInteger{K: -1, Inner: output.Dim(d)},
				infer.ScaledInteger{K: 1, Inner: input.Dim(d)},
				infer.ScaledInteger{K: 1, Inner: padding.ValueAt(d, 0)},
				infer.ScaledInteger{K: 1, Inner: padding.ValueAt(d, 1)},
			)
		}
	})
}

func (p *Pad) Attributes() map[string]any {
	return map[string]any{"T": p.Dtype}
}
