package infer

import "fmt"

// Expression is an abstract value of one of the fact kinds: a Constant, a
// Variable (backed by a Path) or a ScaledInteger (coefficient times an
// inner integer-valued expression). Every expression knows the paths it
// depends on, so a rule can report which locations it watches.
type Expression interface {
	// Get returns the expression's current value in the context, or
	// ok=false if it isn't known yet.
	Get(ctx *Context) (value Wrapped, ok bool, err error)
	// Set tries to unify the expression's location(s) with value.
	Set(ctx *Context, value Wrapped) error
	// Paths returns the paths the expression depends on.
	Paths() []Path
}

// Constant always returns the same wrapped value and rejects any Set with
// a differing value.
type Constant struct {
	Value Wrapped
}

func (c Constant) Get(*Context) (Wrapped, bool, error) { return c.Value, true, nil }

func (c Constant) Set(_ *Context, value Wrapped) error {
	if wrappedEqual(c.Value, value) {
		return nil
	}
	return fmt.Errorf("infer: Constant.Set: cannot set value of constant %v to %v", c.Value, value)
}

func (c Constant) Paths() []Path { return nil }

func wrappedEqual(a, b Wrapped) bool {
	switch {
	case a.Int != nil && b.Int != nil:
		av, aok := a.Int.Concretize()
		bv, bok := b.Int.Concretize()
		return aok == bok && av == bv
	case a.Type != nil && b.Type != nil:
		av, aok := a.Type.Concretize()
		bv, bok := b.Type.Concretize()
		return aok == bok && av == bv
	case a.Shape != nil && b.Shape != nil:
		as, aok := a.Shape.Concretize()
		bs, bok := b.Shape.Concretize()
		return aok == bok && as.Equal(bs)
	case a.Value != nil && b.Value != nil:
		av, aok := a.Value.Concretize()
		bv, bok := b.Value.Concretize()
		return aok == bok && (!aok || av.Equal(bv))
	default:
		return false
	}
}

// ConstInt is a convenience constructor for an integer Constant expression.
func ConstInt(v int64) Constant { return Constant{Value: WrapInt(OnlyInt(v))} }

// Variable reads and writes through a Path: for instance "inputs[0].rank"
// compiles to a Path and is wrapped as a Variable.
type Variable struct {
	Path Path
}

func (v Variable) Get(ctx *Context) (Wrapped, bool, error) {
	w, err := ctx.Get(v.Path)
	if err != nil {
		return Wrapped{}, false, err
	}
	known := true
	switch {
	case w.Type != nil:
		_, known = w.Type.Concretize()
	case w.Int != nil:
		_, known = w.Int.Concretize()
	case w.Shape != nil:
		_, known = w.Shape.Concretize()
	case w.Value != nil:
		_, known = w.Value.Concretize()
	}
	return w, known, nil
}

func (v Variable) Set(ctx *Context, value Wrapped) error {
	return ctx.Set(v.Path, value)
}

func (v Variable) Paths() []Path { return []Path{v.Path} }

// ScaledInteger is k * inner, where inner is an integer-valued expression.
type ScaledInteger struct {
	K     int64
	Inner Expression
}

func (s ScaledInteger) Get(ctx *Context) (Wrapped, bool, error) {
	w, ok, err := s.Inner.Get(ctx)
	if err != nil || !ok {
		return Wrapped{}, ok, err
	}
	inner, err := w.AsInt()
	if err != nil {
		return Wrapped{}, false, err
	}
	v, ok := inner.Concretize()
	if !ok {
		return Wrapped{}, false, nil
	}
	return WrapInt(OnlyInt(s.K * v)), true, nil
}

// Set handles k=0∧m=0 as a no-op, k=0∧m≠0 as an error, and otherwise
// attempts checked division m/k, failing with ErrNotDivisible if the
// remainder is non-zero.
func (s ScaledInteger) Set(ctx *Context, value Wrapped) error {
	m, err := value.AsInt()
	if err != nil {
		return err
	}
	mv, ok := m.Concretize()
	if !ok {
		return nil
	}
	if s.K == 0 {
		if mv == 0 {
			return nil
		}
		return fmt.Errorf("infer: ScaledInteger.Set: cannot set 0*x to %d", mv)
	}
	if mv%s.K != 0 {
		return fmt.Errorf("infer: ScaledInteger.Set: %w: %d is not divisible by %d", ErrNotDivisible, mv, s.K)
	}
	return s.Inner.Set(ctx, WrapInt(OnlyInt(mv/s.K)))
}

func (s ScaledInteger) Paths() []Path { return s.Inner.Paths() }
