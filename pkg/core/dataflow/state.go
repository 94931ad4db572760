package dataflow

import (
	"fmt"

	"github.com/itohio/graphinfer/pkg/core/tensor"
)

// ModelState is a per-execution scratchpad: one slot per node id, holding
// the tensors that node's Eval produced (or nil, if not yet computed).
// A Model is immutable and may be shared among many ModelStates; a
// ModelState itself is single-writer.
type ModelState struct {
	model   *Model
	outputs [][]tensor.Tensor
}

func newModelState(m *Model) *ModelState {
	return &ModelState{model: m, outputs: make([][]tensor.Tensor, len(m.Nodes))}
}

// Reset clears every node's output slot.
func (s *ModelState) Reset() {
	s.outputs = make([][]tensor.Tensor, len(s.model.Nodes))
}

// SetOutputs seeds node id's slot directly, for feeding external inputs
// into the graph before a run.
func (s *ModelState) SetOutputs(id int, values []tensor.Tensor) error {
	if id < 0 || id >= len(s.outputs) {
		return fmt.Errorf("dataflow: ModelState.SetOutputs: %w: invalid node id %d", ErrUnknownNode, id)
	}
	s.outputs[id] = values
	return nil
}

// SetValue is SetOutputs for a single-output node.
func (s *ModelState) SetValue(id int, value tensor.Tensor) error {
	return s.SetOutputs(id, []tensor.Tensor{value})
}

// SetValues seeds several named input nodes at once.
func (s *ModelState) SetValues(values map[string]tensor.Tensor) error {
	for name, v := range values {
		id, err := s.model.NodeIDByName(name)
		if err != nil {
			return fmt.Errorf("dataflow: ModelState.SetValues: %w", err)
		}
		if err := s.SetValue(id, v); err != nil {
			return err
		}
	}
	return nil
}

// ComputeOne gathers node's input tensors from already-produced slots,
// invokes its operator's Eval, and stores the result.
func (s *ModelState) ComputeOne(id int) error {
	node := s.model.Nodes[id]

	var inputs []tensor.Tensor
	for _, in := range node.Inputs {
		if in.IsControl() {
			continue
		}
		producer := s.model.Nodes[in.Producer]
		outs := s.outputs[in.Producer]
		if outs == nil {
			return fmt.Errorf("dataflow: ModelState.ComputeOne: computing %q, precursor %q not done: %w", node.Name, producer.Name, ErrDependencyMissing)
		}
		if in.Output >= len(outs) {
			return fmt.Errorf("dataflow: ModelState.ComputeOne: computing %q: %w: producer %q has no output %d", node.Name, ErrInvalidOutputRef, producer.Name, in.Output)
		}
		inputs = append(inputs, outs[in.Output])
	}

	outputs, err := node.Op.Eval(inputs)
	if err != nil {
		return fmt.Errorf("dataflow: ModelState.ComputeOne: node %q: %w", node.Name, err)
	}
	s.outputs[id] = outputs
	return nil
}

// Take consumes and returns node id's produced outputs.
func (s *ModelState) Take(id int) ([]tensor.Tensor, error) {
	if id < 0 || id >= len(s.outputs) {
		return nil, fmt.Errorf("dataflow: ModelState.Take: %w: invalid node id %d", ErrUnknownNode, id)
	}
	out := s.outputs[id]
	if out == nil {
		return nil, fmt.Errorf("dataflow: ModelState.Take: %w", ErrNotComputed)
	}
	s.outputs[id] = nil
	return out, nil
}

// TakeByName is Take addressed by node name.
func (s *ModelState) TakeByName(name string) ([]tensor.Tensor, error) {
	id, err := s.model.NodeIDByName(name)
	if err != nil {
		return nil, fmt.Errorf("dataflow: ModelState.TakeByName: %w", err)
	}
	return s.Take(id)
}

// Run resets state, seeds inputs, plans to target, walks the plan
// computing every node whose slot is still empty, and returns target's
// outputs.
func (s *ModelState) Run(inputs map[string]tensor.Tensor, target string) ([]tensor.Tensor, error) {
	s.Reset()
	if err := s.SetValues(inputs); err != nil {
		return nil, fmt.Errorf("dataflow: ModelState.Run: %w", err)
	}

	targetID, err := s.model.NodeIDByName(target)
	if err != nil {
		return nil, fmt.Errorf("dataflow: ModelState.Run: %w", err)
	}

	plan, err := ForModel(s.model, targetID)
	if err != nil {
		return nil, fmt.Errorf("dataflow: ModelState.Run: %w", err)
	}

	for _, id := range plan.Order {
		if s.outputs[id] != nil {
			continue
		}
		if err := s.ComputeOne(id); err != nil {
			return nil, fmt.Errorf("dataflow: ModelState.Run: %w", err)
		}
	}

	return s.Take(targetID)
}
