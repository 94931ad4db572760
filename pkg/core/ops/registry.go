package ops

import (
	"fmt"
	"strings"

	"github.com/itohio/graphinfer/pkg/core/wire"
)

// Builder constructs an Operator from a decoded NodeDef, reading whatever
// attributes that operator kind needs.
type Builder func(n *wire.NodeDef) (Operator, error)

// registry maps a NodeDef's "op" field to the Builder that knows how to
// construct that operator kind, mirroring the teacher's op-name-to-
// constructor dispatch.
var registry = map[string]Builder{
	"Const": buildConst,
	"AddN":  buildAddN,
	"Pack":  buildPack,
	"Pad":   buildPad,
}

// Register adds or replaces the Builder for an op name, letting a caller
// extend the built-in set with their own operators.
func Register(opName string, b Builder) {
	registry[opName] = b
}

// Build constructs the Operator for a decoded NodeDef using its "op" field.
func Build(n *wire.NodeDef) (Operator, error) {
	b, ok := registry[n.Op]
	if !ok {
		return nil, fmt.Errorf("ops: Build: no builder registered for op %q (node %q)", n.Op, n.Name)
	}
	return b(n)
}

func buildConst(n *wire.NodeDef) (Operator, error) {
	t, err := n.AttrTensor("value")
	if err != nil {
		return nil, fmt.Errorf("ops: buildConst: %w", err)
	}
	return NewConst(t), nil
}

func buildAddN(n *wire.NodeDef) (Operator, error) {
	return NewAddN(dataInputCount(n.Input)), nil
}

// dataInputCount counts the data inputs in a NodeDef's Input list, skipping
// "^node" control-only entries the same way dataflow.resolveInput does, so
// arity matches the tensors ComputeOne actually passes to Eval.
func dataInputCount(inputs []string) int {
	n := 0
	for _, in := range inputs {
		if !strings.HasPrefix(in, "^") {
			n++
		}
	}
	return n
}

func buildPack(n *wire.NodeDef) (Operator, error) {
	dtype, err := n.AttrDatatype("T")
	if err != nil {
		return nil, fmt.Errorf("ops: buildPack: %w", err)
	}
	axis, err := n.AttrInt("axis")
	if err != nil {
		return nil, fmt.Errorf("ops: buildPack: %w", err)
	}
	return NewPack(dtype, len(n.Input), int(axis)), nil
}

func buildPad(n *wire.NodeDef) (Operator, error) {
	dtype, err := n.AttrDatatype("T")
	if err != nil {
		return nil, fmt.Errorf("ops: buildPad: %w", err)
	}
	return NewPad(dtype), nil
}
