// Package graphinfer is the public facade: load a serialized graph, look
// nodes up by name or id, and run it. It is a thin wrapper over
// pkg/core/wire (decoding) and pkg/core/dataflow (model/plan/executor),
// mirroring the shape of the teacher-lineage original's top-level API
// (for_path/run_with_names).
package graphinfer

import (
	"fmt"
	"os"

	"github.com/itohio/graphinfer/pkg/core/dataflow"
	"github.com/itohio/graphinfer/pkg/core/tensor"
	"github.com/itohio/graphinfer/pkg/core/wire"
)

// Graph wraps a dataflow.Model built from a decoded GraphDef.
type Graph struct {
	model *dataflow.Model
}

// Load decodes a serialized GraphDef and builds a Graph from it.
func Load(data []byte) (*Graph, error) {
	g, err := wire.DecodeGraphDef(data)
	if err != nil {
		return nil, fmt.Errorf("graphinfer: Load: %w", err)
	}
	model, err := dataflow.New(g)
	if err != nil {
		return nil, fmt.Errorf("graphinfer: Load: %w", err)
	}
	return &Graph{model: model}, nil
}

// LoadFile reads and decodes a serialized GraphDef from a file path.
func LoadFile(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("graphinfer: LoadFile: %w", err)
	}
	return Load(data)
}

// NodeIDByName looks up a node's id by name.
func (g *Graph) NodeIDByName(name string) (int, error) {
	return g.model.NodeIDByName(name)
}

// NodeNames returns every node's name, in id order.
func (g *Graph) NodeNames() []string {
	return g.model.NodeNames()
}

// Model exposes the underlying dataflow.Model, for callers that want
// direct access to Plan/ModelState (streaming, multi-target runs, etc).
func (g *Graph) Model() *dataflow.Model {
	return g.model
}

// State returns a fresh ModelState bound to this graph.
func (g *Graph) State() *dataflow.ModelState {
	return g.model.State()
}

// Run feeds inputs (named node → tensor) into a fresh ModelState and
// computes the named target, in one call.
func (g *Graph) Run(inputs map[string]tensor.Tensor, target string) ([]tensor.Tensor, error) {
	outs, err := g.State().Run(inputs, target)
	if err != nil {
		return nil, fmt.Errorf("graphinfer: Run: %w", err)
	}
	return outs, nil
}
