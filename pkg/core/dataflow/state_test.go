package dataflow

import (
	"errors"
	"testing"

	"github.com/itohio/graphinfer/pkg/core/ops"
	"github.com/itohio/graphinfer/pkg/core/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// placeholder stands in for a graph input: it has no value of its own, so
// evaluating it fails unless a value was fed into its slot first.
type placeholder struct{ *ops.Const }

func (placeholder) Eval([]tensor.Tensor) ([]tensor.Tensor, error) {
	return nil, errors.New("placeholder: no value fed")
}

func addChainModel() *Model {
	nodes := []*Node{
		{ID: 0, Name: "x", OpName: "Placeholder", Op: placeholder{ops.NewConst(tensor.Scalar(0))}},
		{ID: 1, Name: "y", OpName: "Placeholder", Op: placeholder{ops.NewConst(tensor.Scalar(0))}},
		{ID: 2, Name: "sum", OpName: "AddN", Inputs: []Input{{Producer: 0, Output: 0}, {Producer: 1, Output: 0}}, Op: ops.NewAddN(2)},
	}
	return &Model{Nodes: nodes, NodesByName: map[string]int{"x": 0, "y": 1, "sum": 2}}
}

func TestModelStateRunComputesTarget(t *testing.T) {
	m := addChainModel()
	state := m.State()

	out, err := state.Run(map[string]tensor.Tensor{
		"x": tensor.Scalar(2),
		"y": tensor.Scalar(3),
	}, "sum")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 5.0, out[0].At())
}

func TestModelStateRunResetsBetweenCalls(t *testing.T) {
	m := addChainModel()
	state := m.State()

	out1, err := state.Run(map[string]tensor.Tensor{"x": tensor.Scalar(1), "y": tensor.Scalar(1)}, "sum")
	require.NoError(t, err)
	assert.Equal(t, 2.0, out1[0].At())

	out2, err := state.Run(map[string]tensor.Tensor{"x": tensor.Scalar(10), "y": tensor.Scalar(5)}, "sum")
	require.NoError(t, err)
	assert.Equal(t, 15.0, out2[0].At())
}

func TestModelStateRunMissingInputFails(t *testing.T) {
	m := addChainModel()
	state := m.State()

	_, err := state.Run(map[string]tensor.Tensor{"x": tensor.Scalar(1)}, "sum")
	assert.Error(t, err)
}

func TestModelStateRunUnknownTargetFails(t *testing.T) {
	m := addChainModel()
	state := m.State()

	_, err := state.Run(map[string]tensor.Tensor{"x": tensor.Scalar(1), "y": tensor.Scalar(1)}, "missing")
	assert.ErrorIs(t, err, ErrUnknownNode)
}

func TestModelStateTakeClearsSlot(t *testing.T) {
	m := addChainModel()
	state := m.State()
	require.NoError(t, state.SetValue(0, tensor.Scalar(7)))

	out, err := state.Take(0)
	require.NoError(t, err)
	assert.Equal(t, 7.0, out[0].At())

	_, err = state.Take(0)
	assert.ErrorIs(t, err, ErrNotComputed)
}

func TestModelStateComputeOneMissingDependency(t *testing.T) {
	m := addChainModel()
	state := m.State()

	err := state.ComputeOne(2)
	assert.ErrorIs(t, err, ErrDependencyMissing)
}

func TestModelStateSetValuesUnknownNameFails(t *testing.T) {
	m := addChainModel()
	state := m.State()

	err := state.SetValues(map[string]tensor.Tensor{"nope": tensor.Scalar(1)})
	assert.ErrorIs(t, err, ErrUnknownNode)
}
