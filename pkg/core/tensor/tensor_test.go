package tensor

import (
	"testing"

	"github.com/itohio/graphinfer/pkg/core/tensor/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromFloatsRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		dt   types.DataType
	}{
		{"f64", DTF64},
		{"f32", DTF32},
		{"i32", DTI32},
		{"i8", DTI8},
		{"u8", DTU8},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			shape := types.NewShape(2, 2)
			tt := FromFloats(c.dt, shape, []float64{1, 2, 3, 4})
			assert.Equal(t, c.dt, tt.DataType())
			assert.Equal(t, shape, tt.Shape())
			assert.Equal(t, []float64{1, 2, 3, 4}, tt.Floats())
		})
	}
}

func TestTensorAtAndSetAt(t *testing.T) {
	tt := New(DTF32, types.NewShape(2, 3))
	tt.SetAt(7, 1, 2)
	assert.Equal(t, 7.0, tt.At(1, 2))
	assert.Equal(t, 0.0, tt.At(0, 0))
}

func TestTensorAtFlatMatchesAt(t *testing.T) {
	tt := FromFloats(DTI32, types.NewShape(2, 2), []float64{1, 2, 3, 4})
	assert.Equal(t, tt.At(1, 0), tt.AtFlat(2))
}

func TestTensorCloneIsIndependent(t *testing.T) {
	tt := FromFloats(DTF32, types.NewShape(2), []float64{1, 2})
	clone := tt.Clone()
	clone.SetAt(99, 0)
	assert.Equal(t, 1.0, tt.At(0))
	assert.Equal(t, 99.0, clone.At(0))
}

func TestTensorEqual(t *testing.T) {
	a := FromFloats(DTF32, types.NewShape(2), []float64{1, 2})
	b := FromFloats(DTF32, types.NewShape(2), []float64{1, 2})
	c := FromFloats(DTF32, types.NewShape(2), []float64{1, 3})
	d := FromFloats(DTI32, types.NewShape(2), []float64{1, 2})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d))
}

func TestTensorCloseEnough(t *testing.T) {
	a := FromFloats(DTF64, types.NewShape(3), []float64{10, 20, 30})
	b := FromFloats(DTF64, types.NewShape(3), []float64{10.001, 19.999, 30.002})
	assert.True(t, a.CloseEnough(b))

	c := FromFloats(DTF64, types.NewShape(3), []float64{100, 200, 300})
	assert.False(t, a.CloseEnough(c))
}

func TestTensorCloseEnoughRequiresMatchingShape(t *testing.T) {
	a := FromFloats(DTF32, types.NewShape(2), []float64{1, 2})
	b := FromFloats(DTF32, types.NewShape(1, 2), []float64{1, 2})
	assert.False(t, a.CloseEnough(b))
}

func TestStringTensorEqual(t *testing.T) {
	a := FromStrings(types.NewShape(2), []string{"a", "b"})
	b := FromStrings(types.NewShape(2), []string{"a", "b"})
	c := FromStrings(types.NewShape(2), []string{"a", "c"})
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestScalar(t *testing.T) {
	s := Scalar(3.5)
	assert.Equal(t, types.NewShape(), s.Shape())
	require.Equal(t, 1, s.Size())
	assert.Equal(t, 3.5, s.At())
}
