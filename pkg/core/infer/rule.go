package infer

import "fmt"

// Rule is one constraint the solver tries to apply against a Context.
// Apply must return whether it made progress (mutated the context or
// produced new rules) and any rules it wants to add to the fixed-point
// loop.
type Rule interface {
	Apply(ctx *Context) (progress bool, added []Rule, err error)
	Paths() []Path
}

// EqualsRule states that every item must unify to a common value; once
// computed, that value is set back into each item's location.
type EqualsRule struct {
	Items []Expression
}

func Equals(items ...Expression) *EqualsRule { return &EqualsRule{Items: items} }

func (r *EqualsRule) Apply(ctx *Context) (bool, []Rule, error) {
	if len(r.Items) == 0 {
		return false, nil, nil
	}

	var value Wrapped
	for _, item := range r.Items {
		w, _, err := item.Get(ctx)
		if err != nil {
			return false, nil, err
		}
		value, err = value.Unify(w)
		if err != nil {
			return false, nil, fmt.Errorf("infer: EqualsRule: %w: %v", ErrIncompatibility, err)
		}
	}
	if value.IsBottom() {
		return false, nil, nil
	}

	for _, item := range r.Items {
		if err := item.Set(ctx, value); err != nil {
			return false, nil, fmt.Errorf("infer: EqualsRule: %w", err)
		}
	}
	return true, nil, nil
}

func (r *EqualsRule) Paths() []Path {
	var paths []Path
	for _, item := range r.Items {
		paths = append(paths, item.Paths()...)
	}
	return paths
}

// EqualsZeroRule states that the sum of integer coefficients times their
// integer-valued subexpressions equals zero. If all but one summand is
// known, the missing one is deduced.
type EqualsZeroRule struct {
	Items []Expression
}

func EqualsZero(items ...Expression) *EqualsZeroRule { return &EqualsZeroRule{Items: items} }

func (r *EqualsZeroRule) Apply(ctx *Context) (bool, []Rule, error) {
	var sum int64
	var missing Expression
	missingCount := 0

	for _, item := range r.Items {
		w, ok, err := item.Get(ctx)
		if err != nil {
			return false, nil, err
		}
		if !ok {
			missingCount++
			missing = item
			continue
		}
		v, err := w.AsInt()
		if err != nil {
			return false, nil, err
		}
		n, ok := v.Concretize()
		if !ok {
			missingCount++
			missing = item
			continue
		}
		sum += n
	}

	switch {
	case missingCount > 1:
		return false, nil, nil
	case missingCount == 1:
		if err := missing.Set(ctx, WrapInt(OnlyInt(-sum))); err != nil {
			return false, nil, fmt.Errorf("infer: EqualsZeroRule: %w", err)
		}
		return true, nil, nil
	case sum != 0:
		return false, nil, fmt.Errorf("infer: EqualsZeroRule: %w: sum of values is %d, not 0", ErrIncompatibility, sum)
	default:
		return false, nil, nil
	}
}

func (r *EqualsZeroRule) Paths() []Path {
	var paths []Path
	for _, item := range r.Items {
		paths = append(paths, item.Paths()...)
	}
	return paths
}

// GivenRule invokes a producer once item concretizes. The producer emits
// more rules onto the Solver it's given, which are then handed back to the
// outer fixed-point loop.
type GivenRule struct {
	Item     Expression
	Producer func(s *Solver, value Wrapped)
}

func Given(item Expression, producer func(s *Solver, value Wrapped)) *GivenRule {
	return &GivenRule{Item: item, Producer: producer}
}

func (r *GivenRule) Apply(ctx *Context) (bool, []Rule, error) {
	w, ok, err := r.Item.Get(ctx)
	if err != nil {
		return false, nil, err
	}
	if !ok {
		return false, nil, nil
	}

	inner := &Solver{}
	r.Producer(inner, w)
	return true, inner.TakeRules(), nil
}

func (r *GivenRule) Paths() []Path { return r.Item.Paths() }
