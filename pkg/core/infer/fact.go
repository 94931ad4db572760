// Package infer implements the shape/type inference solver: a lattice of
// partial facts, a symbolic path language addressing them inside a
// Context, and a declarative rule/solver pair that runs fixed-point
// propagation over per-operator rules. It is grounded on the solver
// described by the teacher's graph package in spirit, generalized here to
// the dataflow domain's own fact algebra.
package infer

import (
	"fmt"

	"github.com/itohio/graphinfer/pkg/core/tensor"
	"github.com/itohio/graphinfer/pkg/core/tensor/types"
)

// TypeFact is Any or Only(Datatype).
type TypeFact struct {
	known bool
	value types.DataType
}

// AnyType is the bottom ("unknown") TypeFact.
var AnyType = TypeFact{}

// OnlyType returns a ground TypeFact.
func OnlyType(dt types.DataType) TypeFact { return TypeFact{known: true, value: dt} }

func (f TypeFact) Concretize() (types.DataType, bool) { return f.value, f.known }

func (f TypeFact) Unify(other TypeFact) (TypeFact, error) {
	if !f.known {
		return other, nil
	}
	if !other.known {
		return f, nil
	}
	if f.value != other.value {
		return TypeFact{}, fmt.Errorf("infer: TypeFact.Unify: incompatible datatypes %v and %v", f.value, other.value)
	}
	return f, nil
}

func (f TypeFact) String() string {
	if !f.known {
		return "Any"
	}
	return f.value.String()
}

// IntFact is Any or Only(int64).
type IntFact struct {
	known bool
	value int64
}

var AnyInt = IntFact{}

func OnlyInt(v int64) IntFact { return IntFact{known: true, value: v} }

func (f IntFact) Concretize() (int64, bool) { return f.value, f.known }

func (f IntFact) Unify(other IntFact) (IntFact, error) {
	if !f.known {
		return other, nil
	}
	if !other.known {
		return f, nil
	}
	if f.value != other.value {
		return IntFact{}, fmt.Errorf("infer: IntFact.Unify: incompatible values %d and %d", f.value, other.value)
	}
	return f, nil
}

func (f IntFact) String() string {
	if !f.known {
		return "Any"
	}
	return fmt.Sprintf("%d", f.value)
}

// DimFact is Any or Only(usize). Negative dims are never valid.
type DimFact struct {
	known bool
	value int
}

var AnyDim = DimFact{}

func OnlyDim(v int) DimFact { return DimFact{known: true, value: v} }

func (f DimFact) Concretize() (int, bool) { return f.value, f.known }

func (f DimFact) Unify(other DimFact) (DimFact, error) {
	if !f.known {
		return other, nil
	}
	if !other.known {
		return f, nil
	}
	if f.value != other.value {
		return DimFact{}, fmt.Errorf("infer: DimFact.Unify: incompatible dims %d and %d", f.value, other.value)
	}
	return f, nil
}

func (f DimFact) String() string {
	if !f.known {
		return "_"
	}
	return fmt.Sprintf("%d", f.value)
}

// ShapeFact is an ordered sequence of DimFact plus an open flag: open=true
// means additional unspecified trailing dimensions may exist.
type ShapeFact struct {
	Dims []DimFact
	Open bool
}

// AnyShape is the fully unconstrained, open, empty-prefix shape.
func AnyShape() ShapeFact { return ShapeFact{Open: true} }

// ClosedShape returns a ShapeFact with exactly the given dims and no more.
func ClosedShape(dims ...DimFact) ShapeFact { return ShapeFact{Dims: dims, Open: false} }

// OpenShape returns a ShapeFact with the given known prefix and an open tail.
func OpenShape(dims ...DimFact) ShapeFact { return ShapeFact{Dims: dims, Open: true} }

// ShapeFactFromShape builds a fully ground, closed ShapeFact from a concrete shape.
func ShapeFactFromShape(s types.Shape) ShapeFact {
	dims := make([]DimFact, len(s))
	for i, d := range s {
		dims[i] = OnlyDim(d)
	}
	return ShapeFact{Dims: dims, Open: false}
}

// Concretize returns the full concrete shape if every dim is known and the
// shape is closed.
func (f ShapeFact) Concretize() (types.Shape, bool) {
	if f.Open {
		return nil, false
	}
	out := make(types.Shape, len(f.Dims))
	for i, d := range f.Dims {
		v, ok := d.Concretize()
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// Unify aligns positionally from the left, unifies overlapping dims, and
// accepts the longer side's tail only if the shorter side is open. The
// result's open flag is the conjunction of both sides'.
func (f ShapeFact) Unify(other ShapeFact) (ShapeFact, error) {
	left, right := f, other
	shortLen := len(left.Dims)
	if len(right.Dims) < shortLen {
		shortLen = len(right.Dims)
	}

	dims := make([]DimFact, 0, max(len(left.Dims), len(right.Dims)))
	for i := 0; i < shortLen; i++ {
		d, err := left.Dims[i].Unify(right.Dims[i])
		if err != nil {
			return ShapeFact{}, fmt.Errorf("infer: ShapeFact.Unify: dim %d: %w", i, err)
		}
		dims = append(dims, d)
	}

	switch {
	case len(left.Dims) == len(right.Dims):
		// nothing left over
	case len(left.Dims) < len(right.Dims):
		if !left.Open {
			return ShapeFact{}, fmt.Errorf("infer: ShapeFact.Unify: closed shape %v has no room for extra dims %v", left.Dims, right.Dims[shortLen:])
		}
		dims = append(dims, right.Dims[shortLen:]...)
	default:
		if !right.Open {
			return ShapeFact{}, fmt.Errorf("infer: ShapeFact.Unify: closed shape %v has no room for extra dims %v", right.Dims, left.Dims[shortLen:])
		}
		dims = append(dims, left.Dims[shortLen:]...)
	}

	return ShapeFact{Dims: dims, Open: left.Open && right.Open}, nil
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (f ShapeFact) String() string {
	out := "["
	for i, d := range f.Dims {
		if i > 0 {
			out += ", "
		}
		out += d.String()
	}
	if f.Open {
		if len(f.Dims) > 0 {
			out += ", "
		}
		out += ".."
	}
	return out + "]"
}

// ValueFact is Any or Only(Tensor).
type ValueFact struct {
	known bool
	value tensor.Tensor
}

var AnyValue = ValueFact{}

func OnlyValue(t tensor.Tensor) ValueFact { return ValueFact{known: true, value: t} }

func (f ValueFact) Concretize() (tensor.Tensor, bool) { return f.value, f.known }

func (f ValueFact) Unify(other ValueFact) (ValueFact, error) {
	if !f.known {
		return other, nil
	}
	if !other.known {
		return f, nil
	}
	if !f.value.Equal(other.value) {
		return ValueFact{}, fmt.Errorf("infer: ValueFact.Unify: incompatible tensors %v and %v", f.value, other.value)
	}
	return f, nil
}

// TensorFact is the composite fact carried per input/output slot:
// {datatype, shape, value}. Unification is component-wise with
// cross-propagation: a known value forces shape and datatype; a known
// shape forces the shape component of value if present.
type TensorFact struct {
	Datatype TypeFact
	Shape    ShapeFact
	Value    ValueFact
}

// AnyTensorFact is the fully unconstrained TensorFact.
func AnyTensorFact() TensorFact {
	return TensorFact{Datatype: AnyType, Shape: AnyShape(), Value: AnyValue}
}

// TensorFactFromTensor builds a fully ground TensorFact from a concrete tensor.
func TensorFactFromTensor(t tensor.Tensor) TensorFact {
	return TensorFact{
		Datatype: OnlyType(t.DataType()),
		Shape:    ShapeFactFromShape(t.Shape()),
		Value:    OnlyValue(t),
	}
}

// Unify composes field-wise, then re-cross-propagates until fixed: a known
// value forces shape and datatype to match it.
func (f TensorFact) Unify(other TensorFact) (TensorFact, error) {
	datatype, err := f.Datatype.Unify(other.Datatype)
	if err != nil {
		return TensorFact{}, fmt.Errorf("infer: TensorFact.Unify: datatype: %w", err)
	}
	shape, err := f.Shape.Unify(other.Shape)
	if err != nil {
		return TensorFact{}, fmt.Errorf("infer: TensorFact.Unify: shape: %w", err)
	}
	value, err := f.Value.Unify(other.Value)
	if err != nil {
		return TensorFact{}, fmt.Errorf("infer: TensorFact.Unify: value: %w", err)
	}

	result := TensorFact{Datatype: datatype, Shape: shape, Value: value}
	if t, ok := value.Concretize(); ok {
		result.Shape, err = result.Shape.Unify(ShapeFactFromShape(t.Shape()))
		if err != nil {
			return TensorFact{}, fmt.Errorf("infer: TensorFact.Unify: value/shape cross-propagation: %w", err)
		}
		result.Datatype, err = result.Datatype.Unify(OnlyType(t.DataType()))
		if err != nil {
			return TensorFact{}, fmt.Errorf("infer: TensorFact.Unify: value/datatype cross-propagation: %w", err)
		}
	}
	return result, nil
}
