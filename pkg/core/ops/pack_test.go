package ops

import (
	"testing"

	"github.com/itohio/graphinfer/pkg/core/infer"
	"github.com/itohio/graphinfer/pkg/core/tensor"
	"github.com/itohio/graphinfer/pkg/core/tensor/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackEvalAxis0(t *testing.T) {
	p := NewPack(types.DTF32, 3, 0)
	a := tensor.FromFloats(types.DTF32, types.NewShape(2), []float64{1, 4})
	b := tensor.FromFloats(types.DTF32, types.NewShape(2), []float64{2, 5})
	c := tensor.FromFloats(types.DTF32, types.NewShape(2), []float64{3, 6})

	out, err := p.Eval([]tensor.Tensor{a, b, c})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, types.NewShape(3, 2), out[0].Shape())
	assert.Equal(t, []float64{1, 4, 2, 5, 3, 6}, out[0].Floats())
}

func TestPackEvalAxis1(t *testing.T) {
	p := NewPack(types.DTF32, 3, 1)
	a := tensor.FromFloats(types.DTF32, types.NewShape(2), []float64{1, 4})
	b := tensor.FromFloats(types.DTF32, types.NewShape(2), []float64{2, 5})
	c := tensor.FromFloats(types.DTF32, types.NewShape(2), []float64{3, 6})

	out, err := p.Eval([]tensor.Tensor{a, b, c})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, types.NewShape(2, 3), out[0].Shape())
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, out[0].Floats())
}

func TestPackEvalWrongArity(t *testing.T) {
	p := NewPack(types.DTF32, 2, 0)
	_, err := p.Eval([]tensor.Tensor{tensor.Scalar(1)})
	assert.ErrorIs(t, err, ErrArity)
}

func TestPackRulesInferRankAndAxisDim(t *testing.T) {
	p := NewPack(types.DTF32, 2, 0)
	s := &infer.Solver{}
	p.Rules(s, infer.InputsProxy{}, infer.OutputsProxy{})

	inputs := []infer.TensorFact{
		infer.TensorFactFromTensor(tensor.FromFloats(types.DTF32, types.NewShape(2), []float64{1, 2})),
		infer.TensorFactFromTensor(tensor.FromFloats(types.DTF32, types.NewShape(2), []float64{3, 4})),
	}
	_, out, err := s.Infer(inputs, []infer.TensorFact{infer.AnyTensorFact()})
	require.NoError(t, err)
	require.Len(t, out, 1)

	shape, ok := out[0].Shape.Concretize()
	require.True(t, ok)
	assert.Equal(t, types.NewShape(2, 2), shape)
}

func TestPackAttributes(t *testing.T) {
	p := NewPack(types.DTI32, 3, 1)
	assert.Equal(t, map[string]any{"T": types.DTI32, "N": 3, "axis": 1}, p.Attributes())
}
