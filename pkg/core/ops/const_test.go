package ops

import (
	"testing"

	"github.com/itohio/graphinfer/pkg/core/infer"
	"github.com/itohio/graphinfer/pkg/core/tensor"
	"github.com/itohio/graphinfer/pkg/core/tensor/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstEval(t *testing.T) {
	v := tensor.FromFloats(types.DTF32, types.NewShape(2), []float64{1, 2})
	c := NewConst(v)

	out, err := c.Eval(nil)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, out[0].Equal(v))
}

func TestConstEvalRejectsInputs(t *testing.T) {
	c := NewConst(tensor.Scalar(1))
	_, err := c.Eval([]tensor.Tensor{tensor.Scalar(2)})
	assert.ErrorIs(t, err, ErrArity)
}

func TestConstNotStreamable(t *testing.T) {
	c := NewConst(tensor.Scalar(1))
	assert.False(t, c.CanStream())
	_, _, err := c.Step(nil, nil)
	assert.ErrorIs(t, err, ErrNotStreamable)
}

func TestConstRulesFixValue(t *testing.T) {
	v := tensor.FromFloats(types.DTI32, types.NewShape(3), []float64{1, 2, 3})
	c := NewConst(v)
	s := &infer.Solver{}
	c.Rules(s, infer.InputsProxy{}, infer.OutputsProxy{})

	_, out, err := s.Infer(nil, []infer.TensorFact{infer.AnyTensorFact()})
	require.NoError(t, err)
	require.Len(t, out, 1)

	val, ok := out[0].Value.Concretize()
	require.True(t, ok)
	assert.True(t, val.Equal(v))
}
