package wire

import (
	"encoding/binary"
	"fmt"
	"math"

	coretensor "github.com/itohio/graphinfer/pkg/core/tensor"
	"github.com/itohio/graphinfer/pkg/core/tensor/types"
)

// DecodeTensor maps a serialized TensorProto to a core Tensor per its
// dtype and shape fields, reading either raw tensor_content bytes or the
// typed value array, whichever is populated.
func DecodeTensor(t *TensorProto) (coretensor.Tensor, error) {
	dt, err := t.Dtype.Datatype()
	if err != nil {
		return coretensor.Tensor{}, fmt.Errorf("wire: DecodeTensor: %w", err)
	}

	dims := make(types.Shape, 0)
	if t.Shape != nil {
		dims = make(types.Shape, len(t.Shape.Dim))
		for i, d := range t.Shape.Dim {
			dims[i] = int(d.Size)
		}
	}

	if dt == types.DTString {
		strs := make([]string, len(t.StringVal))
		for i, b := range t.StringVal {
			strs[i] = string(b)
		}
		return coretensor.FromStrings(dims, strs), nil
	}

	if len(t.Content) > 0 {
		return decodeFromContent(dt, dims, t.Content)
	}
	return decodeFromTypedVal(dt, dims, t)
}

func decodeFromContent(dt types.DataType, dims types.Shape, content []byte) (coretensor.Tensor, error) {
	switch dt {
	case types.DTF32:
		data := make([]float32, len(content)/4)
		for i := range data {
			data[i] = math.Float32frombits(binary.LittleEndian.Uint32(content[i*4:]))
		}
		return coretensor.FromFloat32(dims, data), nil
	case types.DTF64:
		data := make([]float64, len(content)/8)
		for i := range data {
			data[i] = math.Float64frombits(binary.LittleEndian.Uint64(content[i*8:]))
		}
		return coretensor.FromFloat64(dims, data), nil
	case types.DTI32:
		data := make([]int32, len(content)/4)
		for i := range data {
			data[i] = int32(binary.LittleEndian.Uint32(content[i*4:]))
		}
		return coretensor.FromInt32(dims, data), nil
	case types.DTI8:
		data := make([]int8, len(content))
		for i, b := range content {
			data[i] = int8(b)
		}
		return coretensor.FromInt8(dims, data), nil
	case types.DTU8:
		return coretensor.FromUint8(dims, append([]byte(nil), content...)), nil
	default:
		return coretensor.Tensor{}, fmt.Errorf("wire: decodeFromContent: unsupported dtype %v", dt)
	}
}

func decodeFromTypedVal(dt types.DataType, dims types.Shape, t *TensorProto) (coretensor.Tensor, error) {
	switch dt {
	case types.DTF32:
		return coretensor.FromFloat32(dims, t.FloatVal), nil
	case types.DTF64:
		return coretensor.FromFloat64(dims, t.DoubleVal), nil
	case types.DTI32:
		return coretensor.FromInt32(dims, t.IntVal), nil
	case types.DTI8:
		data := make([]int8, len(t.IntVal))
		for i, v := range t.IntVal {
			data[i] = int8(v)
		}
		return coretensor.FromInt8(dims, data), nil
	case types.DTU8:
		data := make([]byte, len(t.IntVal))
		for i, v := range t.IntVal {
			data[i] = byte(v)
		}
		return coretensor.FromUint8(dims, data), nil
	default:
		return coretensor.Tensor{}, fmt.Errorf("wire: decodeFromTypedVal: unsupported dtype %v", dt)
	}
}
