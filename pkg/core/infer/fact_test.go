package infer

import (
	"testing"

	"github.com/itohio/graphinfer/pkg/core/tensor"
	"github.com/itohio/graphinfer/pkg/core/tensor/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeFactUnify(t *testing.T) {
	u, err := AnyType.Unify(OnlyType(types.DTF32))
	require.NoError(t, err)
	assert.Equal(t, OnlyType(types.DTF32), u)

	u, err = OnlyType(types.DTF32).Unify(AnyType)
	require.NoError(t, err)
	assert.Equal(t, OnlyType(types.DTF32), u)

	u, err = OnlyType(types.DTF32).Unify(OnlyType(types.DTF32))
	require.NoError(t, err)
	assert.Equal(t, OnlyType(types.DTF32), u)

	_, err = OnlyType(types.DTF32).Unify(OnlyType(types.DTI32))
	assert.Error(t, err)
}

func TestIntFactUnify(t *testing.T) {
	u, err := AnyInt.Unify(OnlyInt(4))
	require.NoError(t, err)
	assert.Equal(t, OnlyInt(4), u)

	_, err = OnlyInt(4).Unify(OnlyInt(5))
	assert.Error(t, err)
}

func TestShapeFactUnifyClosedClosed(t *testing.T) {
	a := ClosedShape(OnlyDim(2), OnlyDim(3))
	b := ClosedShape(OnlyDim(2), AnyDim)
	u, err := a.Unify(b)
	require.NoError(t, err)
	assert.False(t, u.Open)
	shape, ok := u.Concretize()
	require.True(t, ok)
	assert.Equal(t, types.NewShape(2, 3), shape)
}

func TestShapeFactUnifyOpenTail(t *testing.T) {
	open := OpenShape(OnlyDim(2))
	closed := ClosedShape(OnlyDim(2), OnlyDim(3), OnlyDim(4))
	u, err := open.Unify(closed)
	require.NoError(t, err)
	assert.False(t, u.Open)
	shape, ok := u.Concretize()
	require.True(t, ok)
	assert.Equal(t, types.NewShape(2, 3, 4), shape)
}

func TestShapeFactUnifyClosedRejectsExtraDims(t *testing.T) {
	closed := ClosedShape(OnlyDim(2))
	longer := ClosedShape(OnlyDim(2), OnlyDim(3))
	_, err := closed.Unify(longer)
	assert.Error(t, err)
}

func TestShapeFactUnifyConflictingDim(t *testing.T) {
	a := ClosedShape(OnlyDim(2), OnlyDim(3))
	b := ClosedShape(OnlyDim(2), OnlyDim(5))
	_, err := a.Unify(b)
	assert.Error(t, err)
}

func TestShapeFactConcretizeRequiresClosed(t *testing.T) {
	_, ok := AnyShape().Concretize()
	assert.False(t, ok)

	_, ok = ClosedShape(OnlyDim(1), AnyDim).Concretize()
	assert.False(t, ok)

	shape, ok := ClosedShape(OnlyDim(1), OnlyDim(2)).Concretize()
	assert.True(t, ok)
	assert.Equal(t, types.NewShape(1, 2), shape)
}

func TestValueFactUnify(t *testing.T) {
	ta := tensor.FromFloats(types.DTF32, types.NewShape(2), []float64{1, 2})
	tb := tensor.FromFloats(types.DTF32, types.NewShape(2), []float64{1, 2})
	tc := tensor.FromFloats(types.DTF32, types.NewShape(2), []float64{1, 3})

	u, err := AnyValue.Unify(OnlyValue(ta))
	require.NoError(t, err)
	v, ok := u.Concretize()
	require.True(t, ok)
	assert.True(t, v.Equal(ta))

	_, err = OnlyValue(ta).Unify(OnlyValue(tb))
	assert.NoError(t, err)

	_, err = OnlyValue(ta).Unify(OnlyValue(tc))
	assert.Error(t, err)
}

func TestTensorFactUnifyCrossPropagatesFromValue(t *testing.T) {
	tv := tensor.FromFloats(types.DTF32, types.NewShape(2, 3), make([]float64, 6))
	fact := TensorFact{Datatype: AnyType, Shape: AnyShape(), Value: OnlyValue(tv)}

	u, err := fact.Unify(AnyTensorFact())
	require.NoError(t, err)

	dt, ok := u.Datatype.Concretize()
	require.True(t, ok)
	assert.Equal(t, types.DTF32, dt)

	shape, ok := u.Shape.Concretize()
	require.True(t, ok)
	assert.Equal(t, types.NewShape(2, 3), shape)
}

func TestTensorFactUnifyDatatypeConflict(t *testing.T) {
	a := TensorFact{Datatype: OnlyType(types.DTF32), Shape: AnyShape(), Value: AnyValue}
	b := TensorFact{Datatype: OnlyType(types.DTI32), Shape: AnyShape(), Value: AnyValue}
	_, err := a.Unify(b)
	assert.Error(t, err)
}

func TestTensorFactFromTensor(t *testing.T) {
	tt := tensor.FromFloats(types.DTI32, types.NewShape(3), []float64{1, 2, 3})
	fact := TensorFactFromTensor(tt)

	dt, ok := fact.Datatype.Concretize()
	require.True(t, ok)
	assert.Equal(t, types.DTI32, dt)

	shape, ok := fact.Shape.Concretize()
	require.True(t, ok)
	assert.Equal(t, types.NewShape(3), shape)

	v, ok := fact.Value.Concretize()
	require.True(t, ok)
	assert.True(t, v.Equal(tt))
}
