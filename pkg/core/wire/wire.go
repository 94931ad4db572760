// Package wire decodes the TensorFlow GraphDef wire format by hand,
// field by field, using google.golang.org/protobuf/encoding/protowire
// rather than a generated .pb.go. The schema covered here is the small
// slice of tensorflow/core/framework/{graph,node_def,attr_value,tensor,
// tensor_shape,types}.proto that the executor and solver actually read.
package wire

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Well-known field numbers from the TensorFlow proto schema.
const (
	fieldGraphNode = 1

	fieldNodeName = 1
	fieldNodeOp   = 2
	fieldNodeIn   = 3
	fieldNodeAttr = 5

	fieldAttrMapKey   = 1
	fieldAttrMapValue = 2

	fieldAttrS      = 2
	fieldAttrI      = 3
	fieldAttrF      = 4
	fieldAttrB      = 5
	fieldAttrType   = 6
	fieldAttrShape  = 7
	fieldAttrTensor = 8
	fieldAttrList   = 1

	fieldListS    = 2
	fieldListI    = 3
	fieldListF    = 4
	fieldListB    = 5
	fieldListType = 6

	fieldShapeDim        = 2
	fieldShapeUnknownRank = 3
	fieldDimSize         = 1
	fieldDimName         = 2

	fieldTensorDtype   = 1
	fieldTensorShape   = 2
	fieldTensorContent = 4
	fieldTensorFloat   = 5
	fieldTensorDouble  = 6
	fieldTensorInt     = 7
	fieldTensorString  = 8
	fieldTensorInt64   = 10
)

// DataType mirrors tensorflow.DataType's wire values for the subset this
// engine understands.
type DataType int32

const (
	DTInvalid DataType = 0
	DTFloat   DataType = 1
	DTDouble  DataType = 2
	DTInt32   DataType = 3
	DTUint8   DataType = 4
	DTInt16   DataType = 5
	DTInt8    DataType = 6
	DTString  DataType = 7
	DTInt64   DataType = 9
)

// GraphDef is the decoded top-level message: an ordered list of nodes.
type GraphDef struct {
	Node []*NodeDef
}

// NodeDef is one node in the serialized graph.
type NodeDef struct {
	Name  string
	Op    string
	Input []string
	Attr  map[string]*AttrValue
}

// AttrValue is the decoded oneof of a node attribute.
type AttrValue struct {
	HasS      bool
	S         []byte
	HasI      bool
	I         int64
	HasF      bool
	F         float32
	HasB      bool
	B         bool
	HasType   bool
	Type      DataType
	HasShape  bool
	Shape     *TensorShapeProto
	HasTensor bool
	Tensor    *TensorProto
	List      *ListValue
}

// ListValue is the repeated-value payload of a "list" AttrValue.
type ListValue struct {
	S    [][]byte
	I    []int64
	F    []float32
	B    []bool
	Type []DataType
}

// TensorShapeProto is a dense shape: an ordered list of dims.
type TensorShapeProto struct {
	Dim         []TensorShapeDim
	UnknownRank bool
}

type TensorShapeDim struct {
	Size int64
	Name string
}

// TensorProto is a serialized tensor: either raw tensor_content bytes to
// be reinterpreted per dtype, or one of the typed value arrays.
type TensorProto struct {
	Dtype     DataType
	Shape     *TensorShapeProto
	Content   []byte
	FloatVal  []float32
	DoubleVal []float64
	IntVal    []int32
	Int64Val  []int64
	StringVal [][]byte
}

// DecodeGraphDef parses a serialized GraphDef message.
func DecodeGraphDef(data []byte) (*GraphDef, error) {
	g := &GraphDef{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("wire: DecodeGraphDef: %w", protowire.ParseError(n))
		}
		data = data[n:]

		switch num {
		case fieldGraphNode:
			msg, n, err := consumeBytes(data, typ)
			if err != nil {
				return nil, fmt.Errorf("wire: DecodeGraphDef: node: %w", err)
			}
			data = data[n:]
			node, err := decodeNodeDef(msg)
			if err != nil {
				return nil, fmt.Errorf("wire: DecodeGraphDef: %w", err)
			}
			g.Node = append(g.Node, node)
		default:
			n, err := skipField(data, typ)
			if err != nil {
				return nil, fmt.Errorf("wire: DecodeGraphDef: %w", err)
			}
			data = data[n:]
		}
	}
	return g, nil
}

func decodeNodeDef(data []byte) (*NodeDef, error) {
	n := &NodeDef{Attr: map[string]*AttrValue{}}
	for len(data) > 0 {
		num, typ, m := protowire.ConsumeTag(data)
		if m < 0 {
			return nil, fmt.Errorf("wire: decodeNodeDef: %w", protowire.ParseError(m))
		}
		data = data[m:]

		switch num {
		case fieldNodeName:
			s, m, err := consumeString(data, typ)
			if err != nil {
				return nil, fmt.Errorf("wire: decodeNodeDef: name: %w", err)
			}
			n.Name = s
			data = data[m:]
		case fieldNodeOp:
			s, m, err := consumeString(data, typ)
			if err != nil {
				return nil, fmt.Errorf("wire: decodeNodeDef: op: %w", err)
			}
			n.Op = s
			data = data[m:]
		case fieldNodeIn:
			s, m, err := consumeString(data, typ)
			if err != nil {
				return nil, fmt.Errorf("wire: decodeNodeDef: input: %w", err)
			}
			n.Input = append(n.Input, s)
			data = data[m:]
		case fieldNodeAttr:
			msg, m, err := consumeBytes(data, typ)
			if err != nil {
				return nil, fmt.Errorf("wire: decodeNodeDef: attr: %w", err)
			}
			data = data[m:]
			key, val, err := decodeAttrMapEntry(msg)
			if err != nil {
				return nil, fmt.Errorf("wire: decodeNodeDef: %w", err)
			}
			n.Attr[key] = val
		default:
			m, err := skipField(data, typ)
			if err != nil {
				return nil, fmt.Errorf("wire: decodeNodeDef: %w", err)
			}
			data = data[m:]
		}
	}
	return n, nil
}

func decodeAttrMapEntry(data []byte) (string, *AttrValue, error) {
	var key string
	val := &AttrValue{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return "", nil, fmt.Errorf("wire: decodeAttrMapEntry: %w", protowire.ParseError(n))
		}
		data = data[n:]

		switch num {
		case fieldAttrMapKey:
			s, n, err := consumeString(data, typ)
			if err != nil {
				return "", nil, err
			}
			key = s
			data = data[n:]
		case fieldAttrMapValue:
			msg, n, err := consumeBytes(data, typ)
			if err != nil {
				return "", nil, err
			}
			data = data[n:]
			v, err := decodeAttrValue(msg)
			if err != nil {
				return "", nil, err
			}
			val = v
		default:
			n, err := skipField(data, typ)
			if err != nil {
				return "", nil, err
			}
			data = data[n:]
		}
	}
	return key, val, nil
}

func decodeAttrValue(data []byte) (*AttrValue, error) {
	v := &AttrValue{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("wire: decodeAttrValue: %w", protowire.ParseError(n))
		}
		data = data[n:]

		switch num {
		case fieldAttrS:
			b, n, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			v.HasS, v.S = true, append([]byte(nil), b...)
			data = data[n:]
		case fieldAttrI:
			i, n, err := consumeVarint(data, typ)
			if err != nil {
				return nil, err
			}
			v.HasI, v.I = true, int64(i)
			data = data[n:]
		case fieldAttrF:
			f, n, err := consumeFixed32(data, typ)
			if err != nil {
				return nil, err
			}
			v.HasF, v.F = true, protowire.DecodeFloat(f)
			data = data[n:]
		case fieldAttrB:
			b, n, err := consumeVarint(data, typ)
			if err != nil {
				return nil, err
			}
			v.HasB, v.B = true, b != 0
			data = data[n:]
		case fieldAttrType:
			i, n, err := consumeVarint(data, typ)
			if err != nil {
				return nil, err
			}
			v.HasType, v.Type = true, DataType(i)
			data = data[n:]
		case fieldAttrShape:
			msg, n, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			data = data[n:]
			shape, err := decodeTensorShape(msg)
			if err != nil {
				return nil, err
			}
			v.HasShape, v.Shape = true, shape
		case fieldAttrTensor:
			msg, n, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			data = data[n:]
			t, err := decodeTensorProto(msg)
			if err != nil {
				return nil, err
			}
			v.HasTensor, v.Tensor = true, t
		case fieldAttrList:
			msg, n, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			data = data[n:]
			list, err := decodeListValue(msg)
			if err != nil {
				return nil, err
			}
			v.List = list
		default:
			n, err := skipField(data, typ)
			if err != nil {
				return nil, err
			}
			data = data[n:]
		}
	}
	return v, nil
}

func decodeListValue(data []byte) (*ListValue, error) {
	l := &ListValue{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("wire: decodeListValue: %w", protowire.ParseError(n))
		}
		data = data[n:]

		switch num {
		case fieldListS:
			b, n, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			l.S = append(l.S, append([]byte(nil), b...))
			data = data[n:]
		case fieldListI:
			vals, n, err := consumePackedVarint(data, typ)
			if err != nil {
				return nil, err
			}
			for _, v := range vals {
				l.I = append(l.I, int64(v))
			}
			data = data[n:]
		case fieldListF:
			vals, n, err := consumePackedFixed32(data, typ)
			if err != nil {
				return nil, err
			}
			for _, v := range vals {
				l.F = append(l.F, protowire.DecodeFloat(v))
			}
			data = data[n:]
		case fieldListB:
			vals, n, err := consumePackedVarint(data, typ)
			if err != nil {
				return nil, err
			}
			for _, v := range vals {
				l.B = append(l.B, v != 0)
			}
			data = data[n:]
		case fieldListType:
			vals, n, err := consumePackedVarint(data, typ)
			if err != nil {
				return nil, err
			}
			for _, v := range vals {
				l.Type = append(l.Type, DataType(v))
			}
			data = data[n:]
		default:
			n, err := skipField(data, typ)
			if err != nil {
				return nil, err
			}
			data = data[n:]
		}
	}
	return l, nil
}

func decodeTensorShape(data []byte) (*TensorShapeProto, error) {
	s := &TensorShapeProto{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("wire: decodeTensorShape: %w", protowire.ParseError(n))
		}
		data = data[n:]

		switch num {
		case fieldShapeDim:
			msg, n, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			data = data[n:]
			dim, err := decodeDim(msg)
			if err != nil {
				return nil, err
			}
			s.Dim = append(s.Dim, dim)
		case fieldShapeUnknownRank:
			b, n, err := consumeVarint(data, typ)
			if err != nil {
				return nil, err
			}
			s.UnknownRank = b != 0
			data = data[n:]
		default:
			n, err := skipField(data, typ)
			if err != nil {
				return nil, err
			}
			data = data[n:]
		}
	}
	return s, nil
}

func decodeDim(data []byte) (TensorShapeDim, error) {
	d := TensorShapeDim{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return d, fmt.Errorf("wire: decodeDim: %w", protowire.ParseError(n))
		}
		data = data[n:]

		switch num {
		case fieldDimSize:
			v, n, err := consumeVarint(data, typ)
			if err != nil {
				return d, err
			}
			d.Size = int64(v)
			data = data[n:]
		case fieldDimName:
			s, n, err := consumeString(data, typ)
			if err != nil {
				return d, err
			}
			d.Name = s
			data = data[n:]
		default:
			n, err := skipField(data, typ)
			if err != nil {
				return d, err
			}
			data = data[n:]
		}
	}
	return d, nil
}

func decodeTensorProto(data []byte) (*TensorProto, error) {
	t := &TensorProto{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("wire: decodeTensorProto: %w", protowire.ParseError(n))
		}
		data = data[n:]

		switch num {
		case fieldTensorDtype:
			v, n, err := consumeVarint(data, typ)
			if err != nil {
				return nil, err
			}
			t.Dtype = DataType(v)
			data = data[n:]
		case fieldTensorShape:
			msg, n, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			data = data[n:]
			shape, err := decodeTensorShape(msg)
			if err != nil {
				return nil, err
			}
			t.Shape = shape
		case fieldTensorContent:
			b, n, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			t.Content = append([]byte(nil), b...)
			data = data[n:]
		case fieldTensorFloat:
			vals, n, err := consumePackedFixed32(data, typ)
			if err != nil {
				return nil, err
			}
			for _, v := range vals {
				t.FloatVal = append(t.FloatVal, protowire.DecodeFloat(v))
			}
			data = data[n:]
		case fieldTensorDouble:
			vals, n, err := consumePackedFixed64(data, typ)
			if err != nil {
				return nil, err
			}
			for _, v := range vals {
				t.DoubleVal = append(t.DoubleVal, protowire.DecodeDouble(v))
			}
			data = data[n:]
		case fieldTensorInt:
			vals, n, err := consumePackedVarint(data, typ)
			if err != nil {
				return nil, err
			}
			for _, v := range vals {
				t.IntVal = append(t.IntVal, int32(v))
			}
			data = data[n:]
		case fieldTensorInt64:
			vals, n, err := consumePackedVarint(data, typ)
			if err != nil {
				return nil, err
			}
			for _, v := range vals {
				t.Int64Val = append(t.Int64Val, int64(v))
			}
			data = data[n:]
		case fieldTensorString:
			b, n, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			t.StringVal = append(t.StringVal, append([]byte(nil), b...))
			data = data[n:]
		default:
			n, err := skipField(data, typ)
			if err != nil {
				return nil, err
			}
			data = data[n:]
		}
	}
	return t, nil
}

func consumeBytes(data []byte, typ protowire.Type) ([]byte, int, error) {
	if typ != protowire.BytesType {
		return nil, 0, fmt.Errorf("expected bytes/message wire type, got %v", typ)
	}
	b, n := protowire.ConsumeBytes(data)
	if n < 0 {
		return nil, 0, protowire.ParseError(n)
	}
	return b, n, nil
}

func consumeString(data []byte, typ protowire.Type) (string, int, error) {
	b, n, err := consumeBytes(data, typ)
	if err != nil {
		return "", 0, err
	}
	return string(b), n, nil
}

func consumeVarint(data []byte, typ protowire.Type) (uint64, int, error) {
	if typ != protowire.VarintType {
		return 0, 0, fmt.Errorf("expected varint wire type, got %v", typ)
	}
	v, n := protowire.ConsumeVarint(data)
	if n < 0 {
		return 0, 0, protowire.ParseError(n)
	}
	return v, n, nil
}

func consumeFixed32(data []byte, typ protowire.Type) (uint32, int, error) {
	if typ != protowire.Fixed32Type {
		return 0, 0, fmt.Errorf("expected fixed32 wire type, got %v", typ)
	}
	v, n := protowire.ConsumeFixed32(data)
	if n < 0 {
		return 0, 0, protowire.ParseError(n)
	}
	return v, n, nil
}

// consumePackedVarint accepts both the packed (length-delimited) and
// unpacked (repeated varint field) wire encodings, since proto3 allows
// either for scalar numeric repeated fields.
func consumePackedVarint(data []byte, typ protowire.Type) ([]uint64, int, error) {
	if typ == protowire.VarintType {
		v, n, err := consumeVarint(data, typ)
		if err != nil {
			return nil, 0, err
		}
		return []uint64{v}, n, nil
	}
	b, n, err := consumeBytes(data, typ)
	if err != nil {
		return nil, 0, err
	}
	var out []uint64
	for len(b) > 0 {
		v, m := protowire.ConsumeVarint(b)
		if m < 0 {
			return nil, 0, protowire.ParseError(m)
		}
		out = append(out, v)
		b = b[m:]
	}
	return out, n, nil
}

func consumePackedFixed32(data []byte, typ protowire.Type) ([]uint32, int, error) {
	if typ == protowire.Fixed32Type {
		v, n, err := consumeFixed32(data, typ)
		if err != nil {
			return nil, 0, err
		}
		return []uint32{v}, n, nil
	}
	b, n, err := consumeBytes(data, typ)
	if err != nil {
		return nil, 0, err
	}
	var out []uint32
	for len(b) > 0 {
		v, m := protowire.ConsumeFixed32(b)
		if m < 0 {
			return nil, 0, protowire.ParseError(m)
		}
		out = append(out, v)
		b = b[4:]
		_ = m
	}
	return out, n, nil
}

func consumePackedFixed64(data []byte, typ protowire.Type) ([]uint64, int, error) {
	if typ == protowire.Fixed64Type {
		v, n := protowire.ConsumeFixed64(data)
		if n < 0 {
			return nil, 0, protowire.ParseError(n)
		}
		return []uint64{v}, n, nil
	}
	b, n, err := consumeBytes(data, typ)
	if err != nil {
		return nil, 0, err
	}
	var out []uint64
	for len(b) > 0 {
		v, m := protowire.ConsumeFixed64(b)
		if m < 0 {
			return nil, 0, protowire.ParseError(m)
		}
		out = append(out, v)
		b = b[8:]
		_ = m
	}
	return out, n, nil
}

func skipField(data []byte, typ protowire.Type) (int, error) {
	n := protowire.ConsumeFieldValue(0, typ, data)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	return n, nil
}
