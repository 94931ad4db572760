package infer

import (
	"fmt"
)

// Path is a symbolic address of a sub-fact within a Context: the first
// element selects inputs (0) or outputs (1); the second is -1 for the
// vector's length or a fact index; after an index, 0 addresses the
// datatype, 1 the rank, 2 the shape (2, k: dim k) and 3 the value
// (3, i, j, ...: one element of an integer-valued tensor).
type Path []int

func (p Path) String() string {
	if len(p) == 0 {
		return "<empty path>"
	}
	out := "inputs"
	if p[0] == 1 {
		out = "outputs"
	}
	rest := p[1:]
	if len(rest) == 0 {
		return out
	}
	switch rest[0] {
	case -1:
		return out + ".len"
	default:
		out += fmt.Sprintf("[%d]", rest[0])
	}
	for _, part := range pathTail(rest[1:]) {
		out += part
	}
	return out
}

func pathTail(rest []int) []string {
	if len(rest) == 0 {
		return nil
	}
	var parts []string
	switch rest[0] {
	case 0:
		parts = append(parts, ".datatype")
	case 1:
		parts = append(parts, ".rank")
	case 2:
		if len(rest) > 1 {
			parts = append(parts, fmt.Sprintf(".shape[%d]", rest[1]))
		} else {
			parts = append(parts, ".shape")
		}
	case 3:
		s := ".value"
		for _, k := range rest[1:] {
			s += fmt.Sprintf("[%d]", k)
		}
		parts = append(parts, s)
	default:
		parts = append(parts, ".invalid")
	}
	return parts
}

// Wrapped carries one of the fact kinds, type-erased so that a Variable
// expression can read or write through a single Path regardless of which
// kind lives at that address.
type Wrapped struct {
	Type  *TypeFact
	Int   *IntFact
	Shape *ShapeFact
	Value *ValueFact
}

func WrapType(f TypeFact) Wrapped   { return Wrapped{Type: &f} }
func WrapInt(f IntFact) Wrapped     { return Wrapped{Int: &f} }
func WrapShape(f ShapeFact) Wrapped { return Wrapped{Shape: &f} }
func WrapValue(f ValueFact) Wrapped { return Wrapped{Value: &f} }

func (w Wrapped) AsType() (TypeFact, error) {
	if w.Type == nil {
		return TypeFact{}, fmt.Errorf("infer: Wrapped: expected TypeFact, got %#v: %w", w, ErrWrongKind)
	}
	return *w.Type, nil
}

func (w Wrapped) AsInt() (IntFact, error) {
	if w.Int == nil {
		return IntFact{}, fmt.Errorf("infer: Wrapped: expected IntFact, got %#v: %w", w, ErrWrongKind)
	}
	return *w.Int, nil
}

func (w Wrapped) AsShape() (ShapeFact, error) {
	if w.Shape == nil {
		return ShapeFact{}, fmt.Errorf("infer: Wrapped: expected ShapeFact, got %#v: %w", w, ErrWrongKind)
	}
	return *w.Shape, nil
}

func (w Wrapped) AsValue() (ValueFact, error) {
	if w.Value == nil {
		return ValueFact{}, fmt.Errorf("infer: Wrapped: expected ValueFact, got %#v: %w", w, ErrWrongKind)
	}
	return *w.Value, nil
}

// kind identifies which field of a Wrapped is occupied, or zero if none is.
type wrappedKind int

const (
	kindNone wrappedKind = iota
	kindType
	kindInt
	kindShape
	kindValue
)

func (w Wrapped) kind() wrappedKind {
	switch {
	case w.Type != nil:
		return kindType
	case w.Int != nil:
		return kindInt
	case w.Shape != nil:
		return kindShape
	case w.Value != nil:
		return kindValue
	default:
		return kindNone
	}
}

// Unify folds two wrapped facts of the same kind together. Either side may
// be the zero Wrapped (absent, treated as that kind's Any); it is a
// WrongKind error for both sides to be present but carry different kinds.
func (w Wrapped) Unify(other Wrapped) (Wrapped, error) {
	wKind, oKind := w.kind(), other.kind()
	if wKind != kindNone && oKind != kindNone && wKind != oKind {
		return Wrapped{}, fmt.Errorf("infer: Unify: %w", ErrWrongKind)
	}

	switch {
	case w.Type != nil || other.Type != nil:
		a, b := AnyType, AnyType
		if w.Type != nil {
			a = *w.Type
		}
		if other.Type != nil {
			b = *other.Type
		}
		u, err := a.Unify(b)
		if err != nil {
			return Wrapped{}, err
		}
		return WrapType(u), nil

	case w.Int != nil || other.Int != nil:
		a, b := AnyInt, AnyInt
		if w.Int != nil {
			a = *w.Int
		}
		if other.Int != nil {
			b = *other.Int
		}
		u, err := a.Unify(b)
		if err != nil {
			return Wrapped{}, err
		}
		return WrapInt(u), nil

	case w.Shape != nil || other.Shape != nil:
		a, b := AnyShape(), AnyShape()
		if w.Shape != nil {
			a = *w.Shape
		}
		if other.Shape != nil {
			b = *other.Shape
		}
		u, err := a.Unify(b)
		if err != nil {
			return Wrapped{}, err
		}
		return WrapShape(u), nil

	case w.Value != nil || other.Value != nil:
		a, b := AnyValue, AnyValue
		if w.Value != nil {
			a = *w.Value
		}
		if other.Value != nil {
			b = *other.Value
		}
		u, err := a.Unify(b)
		if err != nil {
			return Wrapped{}, err
		}
		return WrapValue(u), nil

	default:
		return Wrapped{}, nil
	}
}

// IsBottom reports whether w carries no information at all (the fully
// unconstrained Any of its kind, or no kind at all).
func (w Wrapped) IsBottom() bool {
	switch {
	case w.Type != nil:
		_, ok := w.Type.Concretize()
		return !ok
	case w.Int != nil:
		_, ok := w.Int.Concretize()
		return !ok
	case w.Shape != nil:
		return w.Shape.Open && len(w.Shape.Dims) == 0
	case w.Value != nil:
		_, ok := w.Value.Concretize()
		return !ok
	default:
		return true
	}
}

// Context is the mutable pair of TensorFact vectors that is the working
// state of a single solver run.
type Context struct {
	Inputs  []TensorFact
	Outputs []TensorFact
}

// NewContext builds a Context from the caller-supplied input/output arity.
func NewContext(inputs, outputs []TensorFact) *Context {
	return &Context{Inputs: inputs, Outputs: outputs}
}

// Get walks the path per the grammar in the fact/path design and returns
// the wrapped fact found there.
func (c *Context) Get(path Path) (Wrapped, error) {
	if len(path) == 0 {
		return Wrapped{}, fmt.Errorf("infer: Context.Get: empty path")
	}
	switch path[0] {
	case 0:
		return getFacts(c.Inputs, path[1:])
	case 1:
		return getFacts(c.Outputs, path[1:])
	default:
		return Wrapped{}, fmt.Errorf("infer: Context.Get: %w: first path component must be 0 (inputs) or 1 (outputs), got %d", ErrInvalidPath, path[0])
	}
}

// Set walks the path and unifies value into the fact found there.
func (c *Context) Set(path Path, value Wrapped) error {
	if len(path) == 0 {
		return fmt.Errorf("infer: Context.Set: empty path")
	}
	switch path[0] {
	case 0:
		return setFacts(c.Inputs, path[1:], value)
	case 1:
		return setFacts(c.Outputs, path[1:], value)
	default:
		return fmt.Errorf("infer: Context.Set: %w: first path component must be 0 (inputs) or 1 (outputs), got %d", ErrInvalidPath, path[0])
	}
}

func getFacts(facts []TensorFact, path []int) (Wrapped, error) {
	if len(path) == 0 {
		return Wrapped{}, fmt.Errorf("infer: getFacts: %w: empty subpath", ErrInvalidPath)
	}
	if path[0] == -1 {
		return WrapInt(OnlyInt(int64(len(facts)))), nil
	}
	if path[0] < 0 {
		return Wrapped{}, fmt.Errorf("infer: getFacts: %w: subpath %v must start with -1 or a fact index", ErrInvalidPath, path)
	}
	k := path[0]
	if k >= len(facts) {
		return Wrapped{}, fmt.Errorf("infer: getFacts: %w: only %d facts, index %d is out of range", ErrOutOfBounds, len(facts), k)
	}
	return getFact(facts[k], path[1:])
}

func setFacts(facts []TensorFact, path []int, value Wrapped) error {
	if len(path) == 0 {
		return fmt.Errorf("infer: setFacts: %w: empty subpath", ErrInvalidPath)
	}
	if path[0] == -1 {
		// Setting the length of an input/output vector is a compatibility
		// check only: the vectors are sized from the caller's arity and
		// are never resized by the solver.
		v, err := value.AsInt()
		if err != nil {
			return err
		}
		if n, ok := v.Concretize(); ok && int(n) != len(facts) {
			return fmt.Errorf("infer: setFacts: can't set length to %d, already has length %d", n, len(facts))
		}
		return nil
	}
	if path[0] < 0 {
		return fmt.Errorf("infer: setFacts: %w: subpath %v must start with -1 or a fact index", ErrInvalidPath, path)
	}
	k := path[0]
	if k >= len(facts) {
		return fmt.Errorf("infer: setFacts: %w: only %d facts, index %d is out of range", ErrOutOfBounds, len(facts), k)
	}
	updated, err := setFact(facts[k], path[1:], value)
	if err != nil {
		return err
	}
	facts[k] = updated
	return nil
}

func getFact(fact TensorFact, path []int) (Wrapped, error) {
	if len(path) == 0 {
		return Wrapped{}, fmt.Errorf("infer: getFact: %w: empty subpath", ErrInvalidPath)
	}
	switch path[0] {
	case 0:
		return WrapType(fact.Datatype), nil
	case 1:
		if fact.Shape.Open {
			return WrapInt(AnyInt), nil
		}
		return WrapInt(OnlyInt(int64(len(fact.Shape.Dims)))), nil
	case 2:
		return getShape(fact.Shape, path[1:])
	case 3:
		return getValue(fact.Value, path[1:])
	default:
		return Wrapped{}, fmt.Errorf("infer: getFact: %w: subpath %v must start with 0, 1, 2 or 3", ErrInvalidPath, path)
	}
}

func setFact(fact TensorFact, path []int, value Wrapped) (TensorFact, error) {
	switch {
	case len(path) == 1 && path[0] == 0:
		v, err := value.AsType()
		if err != nil {
			return TensorFact{}, err
		}
		dt, err := v.Unify(fact.Datatype)
		if err != nil {
			return TensorFact{}, fmt.Errorf("infer: setFact: %w: %v", ErrIncompatibility, err)
		}
		fact.Datatype = dt
		return fact, nil

	case len(path) == 1 && path[0] == 1:
		v, err := value.AsInt()
		if err != nil {
			return TensorFact{}, err
		}
		if k, ok := v.Concretize(); ok {
			if k < 0 {
				return TensorFact{}, fmt.Errorf("infer: setFact: inferred a negative rank (%d)", k)
			}
			dims := make([]DimFact, k)
			shape, err := fact.Shape.Unify(ClosedShape(dims...))
			if err != nil {
				return TensorFact{}, fmt.Errorf("infer: setFact: %w: %v", ErrIncompatibility, err)
			}
			fact.Shape = shape
		}
		return fact, nil

	case len(path) == 1 && path[0] == 2:
		v, err := value.AsShape()
		if err != nil {
			return TensorFact{}, err
		}
		shape, err := v.Unify(fact.Shape)
		if err != nil {
			return TensorFact{}, fmt.Errorf("infer: setFact: %w: %v", ErrIncompatibility, err)
		}
		fact.Shape = shape
		return fact, nil

	case len(path) == 2 && path[0] == 2:
		k := path[1]
		v, err := value.AsInt()
		if err != nil {
			return TensorFact{}, err
		}
		dim := DimFact{}
		if n, ok := v.Concretize(); ok {
			dim = OnlyDim(int(n))
		}
		dims := make([]DimFact, k)
		dims = append(dims, dim)
		shape, err := fact.Shape.Unify(OpenShape(dims...))
		if err != nil {
			return TensorFact{}, fmt.Errorf("infer: setFact: %w: %v", ErrIncompatibility, err)
		}
		fact.Shape = shape
		return fact, nil

	case len(path) == 1 && path[0] == 3:
		v, err := value.AsValue()
		if err != nil {
			return TensorFact{}, err
		}
		val, err := fact.Value.Unify(v)
		if err != nil {
			return TensorFact{}, fmt.Errorf("infer: setFact: %w: %v", ErrIncompatibility, err)
		}
		fact.Value = val
		if t, ok := val.Concretize(); ok {
			shape, err := fact.Shape.Unify(ShapeFactFromShape(t.Shape()))
			if err != nil {
				return TensorFact{}, fmt.Errorf("infer: setFact: %w: %v", ErrIncompatibility, err)
			}
			fact.Shape = shape
			dt, err := fact.Datatype.Unify(OnlyType(t.DataType()))
			if err != nil {
				return TensorFact{}, fmt.Errorf("infer: setFact: %w: %v", ErrIncompatibility, err)
			}
			fact.Datatype = dt
		}
		return fact, nil

	case len(path) >= 1 && path[0] == 3:
		// Setting an individual indexed value within a tensor fact is not
		// supported; only whole-value sets participate in unification.
		return fact, nil

	default:
		return TensorFact{}, fmt.Errorf("infer: setFact: %w: subpath %v must start with 0, 1, 2 or 3", ErrInvalidPath, path)
	}
}

func getShape(shape ShapeFact, path []int) (Wrapped, error) {
	if len(path) == 0 {
		return WrapShape(shape), nil
	}
	if len(path) != 1 {
		return Wrapped{}, fmt.Errorf("infer: getShape: %w: subpath %v for a shape must be [] or [k]", ErrInvalidPath, path)
	}
	k := path[0]
	if k < len(shape.Dims) {
		return WrapInt(dimToInt(shape.Dims[k])), nil
	}
	if shape.Open {
		return WrapInt(AnyInt), nil
	}
	return Wrapped{}, fmt.Errorf("infer: getShape: %w: closed shape %v has no dim %d", ErrOutOfBounds, shape, k)
}

func dimToInt(d DimFact) IntFact {
	if v, ok := d.Concretize(); ok {
		return OnlyInt(int64(v))
	}
	return AnyInt
}

func getValue(value ValueFact, path []int) (Wrapped, error) {
	if len(path) == 0 || (len(path) == 1 && path[0] == -1) {
		return WrapValue(value), nil
	}
	t, ok := value.Concretize()
	if !ok {
		return WrapInt(AnyInt), nil
	}
	switch t.DataType() {
	case 1, 2, 3: // DTU8, DTI8, DTI32 — the solver only indexes integer-valued tensors.
		indices := make([]int, len(path))
		copy(indices, path)
		return WrapInt(OnlyInt(int64(t.At(indices...)))), nil
	default:
		return Wrapped{}, fmt.Errorf("infer: getValue: found value of kind %v, but the solver only supports integer values", t.DataType())
	}
}
