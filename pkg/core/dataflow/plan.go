package dataflow

import (
	"fmt"
	"sort"
)

// Plan is an ordered list of node ids such that every node's inputs
// appear earlier in the list.
type Plan struct {
	Order []int
}

// ForTargets builds a Plan reaching every node in targets, by growing a
// "needed" set from the targets and repeatedly scheduling any needed node
// whose producers are already done, adding unmet producers to needed as
// it goes. Grounded on the teacher-pack original's bitset "needed minus
// done" growth loop, with one deliberate deviation: progress is only
// counted when the needed or done sets actually grow, not merely when a
// node is found not-yet-computable. That keeps the loop defensively
// terminating over a cyclic or otherwise unreachable sub-graph — a node
// stuck in a cycle stops making the needed set grow once its producers
// are already known, and the loop ends and reports ErrUnreachablePlan
// instead of spinning forever re-discovering the same unmet dependency.
func ForTargets(nodes []*Node, targets []int) (*Plan, error) {
	needed := make(map[int]bool, len(targets))
	for _, t := range targets {
		needed[t] = true
	}
	done := make(map[int]bool, len(nodes))

	var order []int
	for {
		progress := false

		missing := make([]int, 0, len(needed))
		for id := range needed {
			if !done[id] {
				missing = append(missing, id)
			}
		}
		sort.Ints(missing)

		for _, id := range missing {
			node := nodes[id]
			computable := true
			for _, in := range node.Inputs {
				if !done[in.Producer] {
					computable = false
					if !needed[in.Producer] {
						needed[in.Producer] = true
						progress = true
					}
				}
			}
			if computable {
				progress = true
				order = append(order, id)
				done[id] = true
			}
		}

		if !progress {
			break
		}
	}

	for _, t := range targets {
		if !done[t] {
			return nil, fmt.Errorf("dataflow: ForTargets: %w: could not plan for node %q", ErrUnreachablePlan, nodes[t].Name)
		}
	}

	return &Plan{Order: order}, nil
}

// ForModel builds a Plan reaching the given target node ids within model.
func ForModel(model *Model, targets ...int) (*Plan, error) {
	return ForTargets(model.Nodes, targets)
}
