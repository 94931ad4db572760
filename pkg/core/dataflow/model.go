// Package dataflow assembles decoded graph nodes into a Model, plans a
// dependency-ordered subset of nodes reaching a target, and executes that
// plan (immediately or chunk-by-chunk) over an operator's Eval/Step
// contract from pkg/core/ops.
package dataflow

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/itohio/graphinfer/pkg/core/ops"
	"github.com/itohio/graphinfer/pkg/core/wire"
)

// Input is one producer reference a Node consumes: (producer node id,
// output index). A control-only input (TensorFlow's "^node" syntax) has
// Output == -1: it orders the node after its producer but contributes no
// tensor to Eval.
type Input struct {
	Producer int
	Output   int
}

// IsControl reports whether this input is control-only.
func (i Input) IsControl() bool { return i.Output < 0 }

// Node is one computation in a Model: an operator plus its ordered input
// references.
type Node struct {
	ID      int
	Name    string
	OpName  string
	Inputs  []Input
	Op      ops.Operator
}

// Model is an immutable, shareable graph: nodes indexed by id, plus a
// name-to-id lookup. Once built it never changes; many ModelStates may
// run against the same Model concurrently.
type Model struct {
	Nodes       []*Node
	NodesByName map[string]int
}

// New builds a Model from a decoded GraphDef, resolving each node's input
// strings against the nodes already built — a node may only reference
// nodes that precede it in the GraphDef, exactly like the node_def.proto
// "node:src_output" / "^node" input grammar it documents.
func New(g *wire.GraphDef) (*Model, error) {
	nodes := make([]*Node, 0, len(g.Node))
	byName := make(map[string]int, len(g.Node))

	for _, pbnode := range g.Node {
		inputs := make([]Input, 0, len(pbnode.Input))
		for _, raw := range pbnode.Input {
			input, err := resolveInput(byName, raw)
			if err != nil {
				return nil, fmt.Errorf("dataflow: New: building node %q: %w", pbnode.Name, err)
			}
			inputs = append(inputs, input)
		}

		op, err := ops.Build(pbnode)
		if err != nil {
			return nil, fmt.Errorf("dataflow: New: building node %q: %w", pbnode.Name, err)
		}

		node := &Node{
			ID:     len(nodes),
			Name:   pbnode.Name,
			OpName: pbnode.Op,
			Inputs: inputs,
			Op:     op,
		}
		byName[pbnode.Name] = node.ID
		nodes = append(nodes, node)
	}

	return &Model{Nodes: nodes, NodesByName: byName}, nil
}

// resolveInput parses one node_def.proto input string: "^node" is
// control-only, "node" means output 0, "node:k" means output k.
func resolveInput(byName map[string]int, raw string) (Input, error) {
	if strings.HasPrefix(raw, "^") {
		name := strings.TrimPrefix(raw, "^")
		id, ok := byName[name]
		if !ok {
			return Input{}, fmt.Errorf("%w: %q", ErrUnknownNode, name)
		}
		return Input{Producer: id, Output: -1}, nil
	}

	parts := strings.SplitN(raw, ":", 2)
	id, ok := byName[parts[0]]
	if !ok {
		return Input{}, fmt.Errorf("%w: %q", ErrUnknownNode, raw)
	}
	if len(parts) == 1 {
		return Input{Producer: id, Output: 0}, nil
	}
	output, err := strconv.Atoi(parts[1])
	if err != nil {
		return Input{}, fmt.Errorf("dataflow: resolveInput: %q: %w", raw, err)
	}
	return Input{Producer: id, Output: output}, nil
}

// NodeIDByName looks up a node's id by name.
func (m *Model) NodeIDByName(name string) (int, error) {
	id, ok := m.NodesByName[name]
	if !ok {
		return 0, fmt.Errorf("dataflow: NodeIDByName: %w: %q", ErrUnknownNode, name)
	}
	return id, nil
}

// GetNode looks up a node by name.
func (m *Model) GetNode(name string) (*Node, error) {
	id, err := m.NodeIDByName(name)
	if err != nil {
		return nil, err
	}
	return m.Nodes[id], nil
}

// GetNodeByID looks up a node by id.
func (m *Model) GetNodeByID(id int) (*Node, error) {
	if id < 0 || id >= len(m.Nodes) {
		return nil, fmt.Errorf("dataflow: GetNodeByID: %w: invalid node id %d", ErrUnknownNode, id)
	}
	return m.Nodes[id], nil
}

// NodeNames returns every node's name, in id order.
func (m *Model) NodeNames() []string {
	names := make([]string, len(m.Nodes))
	for i, n := range m.Nodes {
		names[i] = n.Name
	}
	return names
}

// State returns a fresh, empty ModelState bound to this Model.
func (m *Model) State() *ModelState {
	return newModelState(m)
}
