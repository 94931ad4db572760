package infer

// Solver is a declarative constraint solver: a list of rules that are
// applied against a Context until a fixed point is reached.
type Solver struct {
	rules []Rule
}

// Equals adds a rule that every item must unify to a common value.
func (s *Solver) Equals(items ...Expression) *Solver {
	s.rules = append(s.rules, Equals(items...))
	return s
}

// EqualsZero adds a rule that the sum of items must equal zero.
func (s *Solver) EqualsZero(items ...Expression) *Solver {
	s.rules = append(s.rules, EqualsZero(items...))
	return s
}

// Given adds a rule that fires the producer once item concretizes.
func (s *Solver) Given(item Expression, producer func(s *Solver, value Wrapped)) *Solver {
	s.rules = append(s.rules, Given(item, producer))
	return s
}

// AddRule appends an already-constructed rule, for operators that build
// rules directly rather than through the convenience methods above.
func (s *Solver) AddRule(r Rule) *Solver {
	s.rules = append(s.rules, r)
	return s
}

// TakeRules consumes the solver and returns its accumulated rules.
func (s *Solver) TakeRules() []Rule {
	rules := s.rules
	s.rules = nil
	return rules
}

type trackedRule struct {
	rule   Rule
	solved bool
}

// Infer builds a Context from the given input/output facts and runs the
// rules to a fixed point:
//  1. mark all rules unapplied;
//  2. repeat until a full pass makes no progress: invoke every unapplied
//     rule, OR its return flag into its "solved" latch, and queue any
//     rules it produced;
//  3. append queued rules as unapplied and loop;
//  4. return the (possibly refined) input/output facts.
//
// Termination follows from each rule either strictly refining a fact (a
// finite descending chain on the lattice) or being a Given rule that
// fires at most once per concrete value of its gating expression.
func (s *Solver) Infer(inputs, outputs []TensorFact) ([]TensorFact, []TensorFact, error) {
	ctx := NewContext(inputs, outputs)

	tracked := make([]*trackedRule, 0, len(s.rules))
	for _, r := range s.rules {
		tracked = append(tracked, &trackedRule{rule: r})
	}

	for {
		changed := false
		var pending []Rule

		for _, t := range tracked {
			if t.solved {
				continue
			}
			progress, added, err := t.rule.Apply(ctx)
			if err != nil {
				return nil, nil, err
			}
			if progress {
				t.solved = true
				changed = true
			}
			if len(added) > 0 {
				pending = append(pending, added...)
				changed = true
			}
		}

		for _, r := range pending {
			tracked = append(tracked, &trackedRule{rule: r})
		}

		if !changed {
			break
		}
	}

	return ctx.Inputs, ctx.Outputs, nil
}
