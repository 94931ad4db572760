// Package tensor implements the immutable N-D array value that flows
// between operators (spec §3). Numeric element kinds are backed by
// gorgonia.org/tensor.Dense, the same wrapping pattern the teacher uses in
// pkg/core/math/tensor/gorgonia. The string kind has no gorgonia dtype
// counterpart and is carried as a plain slice instead.
package tensor

import (
	"fmt"
	"math"

	"github.com/itohio/graphinfer/pkg/core/tensor/types"
	gorgonia "gorgonia.org/tensor"
)

type DataType = types.DataType
type Shape = types.Shape

const (
	DTUnknown = types.DTUnknown
	DTU8      = types.DTU8
	DTI8      = types.DTI8
	DTI32     = types.DTI32
	DTF32     = types.DTF32
	DTF64     = types.DTF64
	DTString  = types.DTString
)

// Tensor is a tagged-union value over {u8, i8, i32, f32, f64, string},
// each holding a dense rectangular N-D array of that kind. Tensors are
// meant to be treated as immutable once an operator has produced them.
type Tensor struct {
	dtype types.DataType
	dense gorgonia.Dense // valid when dtype != DTString
	strs  []string       // valid when dtype == DTString
	shape types.Shape    // authoritative for string tensors; mirrors dense.Shape() otherwise
}

func gorgoniaDtype(dt types.DataType) gorgonia.Dtype {
	switch dt {
	case DTU8:
		return gorgonia.Uint8
	case DTI8:
		return gorgonia.Int8
	case DTI32:
		return gorgonia.Int32
	case DTF32:
		return gorgonia.Float32
	case DTF64:
		return gorgonia.Float64
	default:
		panic(fmt.Sprintf("tensor: no gorgonia dtype for %v", dt))
	}
}

// New allocates a zero-filled tensor of the given data type and shape.
func New(dt types.DataType, shape types.Shape) Tensor {
	if dt == DTString {
		return Tensor{dtype: DTString, shape: shape.Clone(), strs: make([]string, shape.Size())}
	}
	d := gorgonia.New(gorgonia.WithShape(shape...), gorgonia.Of(gorgoniaDtype(dt)))
	return Tensor{dtype: dt, dense: *d, shape: shape.Clone()}
}

// FromFloat32 builds an f32 tensor from a backing slice (no copy).
func FromFloat32(shape types.Shape, data []float32) Tensor {
	d := gorgonia.New(gorgonia.WithShape(shape...), gorgonia.Of(gorgonia.Float32), gorgonia.WithBacking(data))
	return Tensor{dtype: DTF32, dense: *d, shape: shape.Clone()}
}

// FromFloat64 builds an f64 tensor from a backing slice (no copy).
func FromFloat64(shape types.Shape, data []float64) Tensor {
	d := gorgonia.New(gorgonia.WithShape(shape...), gorgonia.Of(gorgonia.Float64), gorgonia.WithBacking(data))
	return Tensor{dtype: DTF64, dense: *d, shape: shape.Clone()}
}

// FromInt32 builds an i32 tensor from a backing slice (no copy).
func FromInt32(shape types.Shape, data []int32) Tensor {
	d := gorgonia.New(gorgonia.WithShape(shape...), gorgonia.Of(gorgonia.Int32), gorgonia.WithBacking(data))
	return Tensor{dtype: DTI32, dense: *d, shape: shape.Clone()}
}

// FromInt8 builds an i8 tensor from a backing slice (no copy).
func FromInt8(shape types.Shape, data []int8) Tensor {
	d := gorgonia.New(gorgonia.WithShape(shape...), gorgonia.Of(gorgonia.Int8), gorgonia.WithBacking(data))
	return Tensor{dtype: DTI8, dense: *d, shape: shape.Clone()}
}

// FromUint8 builds a u8 tensor from a backing slice (no copy).
func FromUint8(shape types.Shape, data []uint8) Tensor {
	d := gorgonia.New(gorgonia.WithShape(shape...), gorgonia.Of(gorgonia.Uint8), gorgonia.WithBacking(data))
	return Tensor{dtype: DTU8, dense: *d, shape: shape.Clone()}
}

// FromStrings builds a string tensor from a backing slice (no copy).
func FromStrings(shape types.Shape, data []string) Tensor {
	return Tensor{dtype: DTString, shape: shape.Clone(), strs: data}
}

// Scalar wraps a single float64 value as a 0-rank f64 tensor.
func Scalar(v float64) Tensor {
	return FromFloat64(types.NewShape(), []float64{v})
}

func (t Tensor) DataType() types.DataType { return t.dtype }

func (t Tensor) Shape() types.Shape {
	if t.dtype == DTString {
		return t.shape.Clone()
	}
	return t.dense.Shape().Clone()
}

func (t Tensor) Rank() int { return t.Shape().Rank() }

func (t Tensor) Size() int {
	if t.dtype == DTString {
		return len(t.strs)
	}
	return t.dense.Size()
}

func (t Tensor) Empty() bool { return t.Size() == 0 }

// Data returns the underlying backing slice: []uint8, []int8, []int32,
// []float32, []float64 or []string depending on DataType().
func (t Tensor) Data() any {
	if t.dtype == DTString {
		return t.strs
	}
	return t.dense.Data()
}

// At returns the element at the given multi-dimensional indices as a
// float64, for numeric tensors only.
func (t Tensor) At(indices ...int) float64 {
	if t.dtype == DTString {
		panic("tensor: At called on a string tensor")
	}
	v, err := t.dense.At(indices...)
	if err != nil {
		panic(fmt.Sprintf("tensor: At%v: %v", indices, err))
	}
	return toFloat64(v)
}

// SetAt sets the element at the given multi-dimensional indices, for
// numeric tensors only.
func (t Tensor) SetAt(value float64, indices ...int) {
	if t.dtype == DTString {
		panic("tensor: SetAt called on a string tensor")
	}
	var v any
	switch t.dtype {
	case DTU8:
		v = uint8(value)
	case DTI8:
		v = int8(value)
	case DTI32:
		v = int32(value)
	case DTF32:
		v = float32(value)
	case DTF64:
		v = value
	}
	if err := t.dense.SetAt(v, indices...); err != nil {
		panic(fmt.Sprintf("tensor: SetAt%v: %v", indices, err))
	}
}

// StringAt returns the element at the given linear index, for string
// tensors only.
func (t Tensor) StringAt(index int) string {
	return t.strs[index]
}

// AtFlat returns the element at the given row-major linear index, for
// numeric tensors only. Unlike At, it does not depend on the tensor's rank.
func (t Tensor) AtFlat(index int) float64 {
	return t.floats64()[index]
}

// SetAtFlat sets the element at the given row-major linear index, for
// numeric tensors only.
func (t Tensor) SetAtFlat(index int, value float64) {
	t.SetAt(value, unflatten(t.Shape(), index)...)
}

func unflatten(shape types.Shape, index int) []int {
	if len(shape) == 0 {
		return nil
	}
	indices := make([]int, len(shape))
	for i := len(shape) - 1; i >= 0; i-- {
		indices[i] = index % shape[i]
		index /= shape[i]
	}
	return indices
}

// Floats returns every element as a float64 slice in row-major order, for
// numeric tensors only.
func (t Tensor) Floats() []float64 {
	return t.floats64()
}

// FromFloats builds a tensor of the given data type and shape from float64
// values, converting down to the narrower element kind as needed.
func FromFloats(dt types.DataType, shape types.Shape, values []float64) Tensor {
	switch dt {
	case DTF64:
		return FromFloat64(shape, values)
	case DTF32:
		data := make([]float32, len(values))
		for i, v := range values {
			data[i] = float32(v)
		}
		return FromFloat32(shape, data)
	case DTI32:
		data := make([]int32, len(values))
		for i, v := range values {
			data[i] = int32(v)
		}
		return FromInt32(shape, data)
	case DTI8:
		data := make([]int8, len(values))
		for i, v := range values {
			data[i] = int8(v)
		}
		return FromInt8(shape, data)
	case DTU8:
		data := make([]uint8, len(values))
		for i, v := range values {
			data[i] = uint8(v)
		}
		return FromUint8(shape, data)
	default:
		panic(fmt.Sprintf("tensor: FromFloats: unsupported data type %v", dt))
	}
}

// Clone returns an independent deep copy.
func (t Tensor) Clone() Tensor {
	if t.dtype == DTString {
		strs := make([]string, len(t.strs))
		copy(strs, t.strs)
		return Tensor{dtype: DTString, shape: t.shape.Clone(), strs: strs}
	}
	cloned := t.dense.Clone().(*gorgonia.Dense)
	return Tensor{dtype: t.dtype, dense: *cloned, shape: t.Shape()}
}

func toFloat64(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int32:
		return float64(x)
	case int8:
		return float64(x)
	case uint8:
		return float64(x)
	case int:
		return float64(x)
	default:
		panic(fmt.Sprintf("tensor: unsupported element type %T", v))
	}
}

// floats64 returns every element as a float64 slice in row-major order.
// Only valid for numeric tensors.
func (t Tensor) floats64() []float64 {
	if t.dtype == DTString {
		panic("tensor: floats64 called on a string tensor")
	}
	n := t.Size()
	out := make([]float64, n)
	switch data := t.dense.Data().(type) {
	case []float64:
		copy(out, data)
	case []float32:
		for i, v := range data {
			out[i] = float64(v)
		}
	case []int32:
		for i, v := range data {
			out[i] = float64(v)
		}
	case []int8:
		for i, v := range data {
			out[i] = float64(v)
		}
	case []uint8:
		for i, v := range data {
			out[i] = float64(v)
		}
	default:
		// Scalar (rank-0) Dense stores a single boxed value rather than a slice.
		out[0] = t.At()
	}
	return out
}

// Equal reports exact shape, datatype and elementwise equality.
func (t Tensor) Equal(other Tensor) bool {
	if t.dtype != other.dtype || !t.Shape().Equal(other.Shape()) {
		return false
	}
	if t.dtype == DTString {
		if len(t.strs) != len(other.strs) {
			return false
		}
		for i := range t.strs {
			if t.strs[i] != other.strs[i] {
				return false
			}
		}
		return true
	}
	a, b := t.floats64(), other.floats64()
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// CloseEnough implements the approximate-equality predicate used by the
// comparison harness (§9): margin = max(stddev/10, |mean|/10_000), applied
// over both tensors cast to float64.
func (t Tensor) CloseEnough(other Tensor) bool {
	if t.dtype == DTString || other.dtype == DTString {
		return t.Equal(other)
	}
	if !t.Shape().Equal(other.Shape()) {
		return false
	}
	a := t.floats64()
	b := other.floats64()
	if len(a) == 0 {
		return true
	}
	var sum float64
	for _, v := range a {
		sum += math.Abs(v)
	}
	mean := sum / float64(len(a))
	var sq float64
	for _, v := range a {
		d := v - mean
		sq += d * d
	}
	stddev := math.Sqrt(sq / float64(len(a)))
	margin := math.Max(stddev/10, math.Abs(mean)/10_000)
	for i := range a {
		if math.Abs(b[i]-a[i]) > margin {
			return false
		}
	}
	return true
}

func (t Tensor) String() string {
	if t.dtype == DTString {
		return fmt.Sprintf("Tensor string%v %v", t.Shape(), t.strs)
	}
	return fmt.Sprintf("Tensor %v%v %v", t.dtype, t.Shape(), t.dense.Data())
}
