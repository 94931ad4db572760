package wire

import (
	"errors"
	"fmt"

	coretensor "github.com/itohio/graphinfer/pkg/core/tensor"
	"github.com/itohio/graphinfer/pkg/core/tensor/types"
)

// ErrAttrMissing and ErrAttrKind are returned by the typed attribute
// accessors below: missing names and type mismatches are distinguishable
// by errors.Is.
var (
	ErrAttrMissing = errors.New("attribute missing")
	ErrAttrKind    = errors.New("attribute has the wrong kind")
)

// Datatype converts a wire DataType to the core tensor/fact enum, for the
// subset of types this engine understands.
func (d DataType) Datatype() (types.DataType, error) {
	switch d {
	case DTUint8:
		return types.DTU8, nil
	case DTInt8:
		return types.DTI8, nil
	case DTInt32:
		return types.DTI32, nil
	case DTFloat:
		return types.DTF32, nil
	case DTDouble:
		return types.DTF64, nil
	case DTString:
		return types.DTString, nil
	default:
		return types.DTUnknown, fmt.Errorf("wire: unsupported DataType %d", d)
	}
}

// AttrDatatype reads a "type" attribute.
func (n *NodeDef) AttrDatatype(name string) (types.DataType, error) {
	a, ok := n.Attr[name]
	if !ok {
		return types.DTUnknown, fmt.Errorf("wire: NodeDef %q: %w: %q", n.Name, ErrAttrMissing, name)
	}
	if !a.HasType {
		return types.DTUnknown, fmt.Errorf("wire: NodeDef %q: %w: attribute %q is not a type", n.Name, ErrAttrKind, name)
	}
	dt, err := a.Type.Datatype()
	if err != nil {
		return types.DTUnknown, fmt.Errorf("wire: NodeDef %q: %w: attribute %q: %v", n.Name, ErrAttrKind, name, err)
	}
	return dt, nil
}

// AttrInt reads an "int" attribute.
func (n *NodeDef) AttrInt(name string) (int64, error) {
	a, ok := n.Attr[name]
	if !ok {
		return 0, fmt.Errorf("wire: NodeDef %q: %w: %q", n.Name, ErrAttrMissing, name)
	}
	if !a.HasI {
		return 0, fmt.Errorf("wire: NodeDef %q: %w: attribute %q is not an int", n.Name, ErrAttrKind, name)
	}
	return a.I, nil
}

// AttrInts reads an "int list" attribute.
func (n *NodeDef) AttrInts(name string) ([]int64, error) {
	a, ok := n.Attr[name]
	if !ok {
		return nil, fmt.Errorf("wire: NodeDef %q: %w: %q", n.Name, ErrAttrMissing, name)
	}
	if a.List == nil {
		return nil, fmt.Errorf("wire: NodeDef %q: %w: attribute %q is not an int list", n.Name, ErrAttrKind, name)
	}
	return a.List.I, nil
}

// AttrFloat reads a "float" attribute.
func (n *NodeDef) AttrFloat(name string) (float32, error) {
	a, ok := n.Attr[name]
	if !ok {
		return 0, fmt.Errorf("wire: NodeDef %q: %w: %q", n.Name, ErrAttrMissing, name)
	}
	if !a.HasF {
		return 0, fmt.Errorf("wire: NodeDef %q: %w: attribute %q is not a float", n.Name, ErrAttrKind, name)
	}
	return a.F, nil
}

// AttrString reads a "string" (bytes) attribute.
func (n *NodeDef) AttrString(name string) (string, error) {
	a, ok := n.Attr[name]
	if !ok {
		return "", fmt.Errorf("wire: NodeDef %q: %w: %q", n.Name, ErrAttrMissing, name)
	}
	if !a.HasS {
		return "", fmt.Errorf("wire: NodeDef %q: %w: attribute %q is not a string", n.Name, ErrAttrKind, name)
	}
	return string(a.S), nil
}

// AttrTensor reads a "tensor" attribute and decodes it to a core Tensor.
func (n *NodeDef) AttrTensor(name string) (coretensor.Tensor, error) {
	a, ok := n.Attr[name]
	if !ok {
		return coretensor.Tensor{}, fmt.Errorf("wire: NodeDef %q: %w: %q", n.Name, ErrAttrMissing, name)
	}
	if !a.HasTensor {
		return coretensor.Tensor{}, fmt.Errorf("wire: NodeDef %q: %w: attribute %q is not a tensor", n.Name, ErrAttrKind, name)
	}
	return DecodeTensor(a.Tensor)
}
