package ops

import (
	"testing"

	"github.com/itohio/graphinfer/pkg/core/infer"
	"github.com/itohio/graphinfer/pkg/core/tensor"
	"github.com/itohio/graphinfer/pkg/core/tensor/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPadEval(t *testing.T) {
	p := NewPad(types.DTF32)
	in := tensor.FromFloats(types.DTF32, types.NewShape(2, 3), []float64{1, 2, 3, 4, 5, 6})
	paddings := tensor.FromFloats(types.DTI32, types.NewShape(2, 2), []float64{1, 1, 2, 2})

	out, err := p.Eval([]tensor.Tensor{in, paddings})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, types.NewShape(4, 7), out[0].Shape())

	// payload sits at rows 1-2, cols 2-4.
	assert.Equal(t, 1.0, out[0].At(1, 2))
	assert.Equal(t, 2.0, out[0].At(1, 3))
	assert.Equal(t, 3.0, out[0].At(1, 4))
	assert.Equal(t, 4.0, out[0].At(2, 2))
	assert.Equal(t, 5.0, out[0].At(2, 3))
	assert.Equal(t, 6.0, out[0].At(2, 4))
	assert.Equal(t, 0.0, out[0].At(0, 0))
	assert.Equal(t, 0.0, out[0].At(3, 6))
}

func TestPadEvalWrongArity(t *testing.T) {
	p := NewPad(types.DTF32)
	_, err := p.Eval([]tensor.Tensor{tensor.Scalar(1)})
	assert.ErrorIs(t, err, ErrArity)
}

func TestPadStepBuffersUntilChunkAndPaddingsArrive(t *testing.T) {
	p := NewPad(types.DTF32)
	chunk := tensor.FromFloats(types.DTF32, types.NewShape(1, 3), []float64{1, 2, 3})
	axis := 0

	out, ok, err := p.Step([]StreamInput{{Axis: &axis, Chunk: &chunk}, {}}, nil)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, out)

	paddings := tensor.FromFloats(types.DTI32, types.NewShape(2, 2), []float64{0, 0, 2, 2})
	out, ok, err = p.Step([]StreamInput{{Axis: &axis, Chunk: &chunk}, {Chunk: &paddings}}, nil)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, out, 1)
	// streamed dim (0) stays at its chunk size; the other dim pads both sides.
	assert.Equal(t, types.NewShape(1, 7), out[0].Shape())
	assert.Equal(t, 1.0, out[0].At(0, 2))
}

func TestPadRulesInferOutputRank(t *testing.T) {
	p := NewPad(types.DTF32)
	s := &infer.Solver{}
	p.Rules(s, infer.InputsProxy{}, infer.OutputsProxy{})

	input := infer.TensorFactFromTensor(tensor.FromFloats(types.DTF32, types.NewShape(2, 3), make([]float64, 6)))
	paddings := infer.TensorFactFromTensor(tensor.FromFloats(types.DTI32, types.NewShape(2, 2), []float64{1, 1, 2, 2}))

	_, out, err := s.Infer([]infer.TensorFact{input, paddings}, []infer.TensorFact{infer.AnyTensorFact()})
	require.NoError(t, err)
	require.Len(t, out, 1)

	shape, ok := out[0].Shape.Concretize()
	require.True(t, ok)
	assert.Equal(t, types.NewShape(4, 7), shape)
}

func TestPadAttributes(t *testing.T) {
	p := NewPad(types.DTF32)
	assert.Equal(t, map[string]any{"T": types.DTF32}, p.Attributes())
}
