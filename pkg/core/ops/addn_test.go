package ops

import (
	"testing"

	"github.com/itohio/graphinfer/pkg/core/infer"
	"github.com/itohio/graphinfer/pkg/core/tensor"
	"github.com/itohio/graphinfer/pkg/core/tensor/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddNEval(t *testing.T) {
	a := NewAddN(3)
	x := tensor.FromFloats(types.DTF32, types.NewShape(3), []float64{1, 2.5, 5})
	y := tensor.FromFloats(types.DTF32, types.NewShape(3), []float64{1, 2.5, 5})
	z := tensor.FromFloats(types.DTF32, types.NewShape(3), []float64{2, 0.5, -2})

	out, err := a.Eval([]tensor.Tensor{x, y, z})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.InDeltaSlice(t, []float64{4, 5.5, 8}, out[0].Floats(), 1e-6)
}

func TestAddNEvalWrongArity(t *testing.T) {
	a := NewAddN(2)
	_, err := a.Eval(nil)
	assert.ErrorIs(t, err, ErrArity)
}

func TestAddNEvalMismatchedShapes(t *testing.T) {
	a := NewAddN(2)
	x := tensor.FromFloats(types.DTF32, types.NewShape(2), []float64{1, 2})
	y := tensor.FromFloats(types.DTF32, types.NewShape(3), []float64{1, 2, 3})
	_, err := a.Eval([]tensor.Tensor{x, y})
	assert.Error(t, err)
}

func TestAddNStepBuffersUntilAllChunksArrive(t *testing.T) {
	a := NewAddN(2)
	buf := a.NewBuffer()

	x := tensor.Scalar(1)
	out, ok, err := a.Step([]StreamInput{{Chunk: &x}, {}}, buf)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, out)

	y := tensor.Scalar(2)
	out, ok, err = a.Step([]StreamInput{{}, {Chunk: &y}}, buf)
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, out, 1)
	assert.Equal(t, 3.0, out[0].AtFlat(0))
}

func TestAddNRules(t *testing.T) {
	a := NewAddN(2)
	s := &infer.Solver{}
	a.Rules(s, infer.InputsProxy{}, infer.OutputsProxy{})

	inputs := []infer.TensorFact{
		infer.TensorFactFromTensor(tensor.FromFloats(types.DTF32, types.NewShape(2), []float64{1, 2})),
		infer.TensorFactFromTensor(tensor.FromFloats(types.DTF32, types.NewShape(2), []float64{3, 4})),
	}
	in, out, err := s.Infer(inputs, []infer.TensorFact{infer.AnyTensorFact()})
	require.NoError(t, err)
	require.Len(t, in, 2)
	require.Len(t, out, 1)

	shape, ok := out[0].Shape.Concretize()
	require.True(t, ok)
	assert.Equal(t, types.NewShape(2), shape)
}

func TestAddNAttributes(t *testing.T) {
	a := NewAddN(4)
	assert.Equal(t, map[string]any{"N": 4}, a.Attributes())
}
