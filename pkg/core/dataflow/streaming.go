package dataflow

import (
	"fmt"

	"github.com/itohio/graphinfer/pkg/core/ops"
	"github.com/itohio/graphinfer/pkg/core/tensor"
)

// ChunkedInput is one streamed source: the ordered chunks fed one per
// round along the run's designated stream axis.
type ChunkedInput struct {
	Chunks []tensor.Tensor
}

// RunStreaming advances the sub-graph reaching target chunk-by-chunk
// along axis. streamed names the graph's streamed source nodes and their
// per-round chunks; whole names leaf nodes fed the same tensor every
// round (e.g. a Const supplying Pad's paddings). Every other node on the
// plan must support streaming (§4.9); if one doesn't, RunStreaming
// refuses with ops.ErrNotStreamable rather than silently running it once.
//
// Streamed and whole nodes are leaves the plan never calls Step on —
// their values are injected directly, the same way ModelState.SetValue
// injects a value without invoking Eval — so they are exempt from the
// streaming-support check even if their operator (e.g. Const) is
// NotStreamable.
func RunStreaming(model *Model, axis int, streamed map[string]ChunkedInput, whole map[string]tensor.Tensor, target string) ([]tensor.Tensor, error) {
	srcIDs := make(map[int]string, len(streamed))
	for name := range streamed {
		id, err := model.NodeIDByName(name)
		if err != nil {
			return nil, fmt.Errorf("dataflow: RunStreaming: %w", err)
		}
		srcIDs[id] = name
	}
	wholeIDs := make(map[int]string, len(whole))
	for name := range whole {
		id, err := model.NodeIDByName(name)
		if err != nil {
			return nil, fmt.Errorf("dataflow: RunStreaming: %w", err)
		}
		wholeIDs[id] = name
	}

	targetID, err := model.NodeIDByName(target)
	if err != nil {
		return nil, fmt.Errorf("dataflow: RunStreaming: %w", err)
	}

	plan, err := ForModel(model, targetID)
	if err != nil {
		return nil, fmt.Errorf("dataflow: RunStreaming: %w", err)
	}

	buffers := make(map[int]ops.Buffer, len(plan.Order))
	for _, id := range plan.Order {
		if _, ok := srcIDs[id]; ok {
			continue
		}
		if _, ok := wholeIDs[id]; ok {
			continue
		}
		node := model.Nodes[id]
		s, ok := node.Op.(ops.Streamable)
		if !ok || !s.CanStream() {
			return nil, fmt.Errorf("dataflow: RunStreaming: node %q (%s): %w", node.Name, node.OpName, ops.ErrNotStreamable)
		}
		buffers[id] = node.Op.NewBuffer()
	}

	numRounds := -1
	for name, c := range streamed {
		if numRounds == -1 {
			numRounds = len(c.Chunks)
			continue
		}
		if len(c.Chunks) != numRounds {
			return nil, fmt.Errorf("dataflow: RunStreaming: streamed input %q has %d chunks, wanted %d", name, len(c.Chunks), numRounds)
		}
	}
	if numRounds <= 0 {
		return nil, fmt.Errorf("dataflow: RunStreaming: at least one streamed input with at least one chunk is required")
	}

	var targetChunks [][]tensor.Tensor
	for round := 0; round < numRounds; round++ {
		current := make([][]tensor.Tensor, len(model.Nodes))
		chunked := make([]bool, len(model.Nodes))

		for _, id := range plan.Order {
			node := model.Nodes[id]

			if name, ok := srcIDs[id]; ok {
				current[id] = []tensor.Tensor{streamed[name].Chunks[round]}
				chunked[id] = true
				continue
			}
			if name, ok := wholeIDs[id]; ok {
				current[id] = []tensor.Tensor{whole[name]}
				continue
			}

			ins := make([]ops.StreamInput, 0, len(node.Inputs))
			for _, in := range node.Inputs {
				if in.IsControl() {
					continue
				}
				producerOuts := current[in.Producer]
				if producerOuts == nil || in.Output >= len(producerOuts) {
					ins = append(ins, ops.StreamInput{})
					continue
				}
				chunk := producerOuts[in.Output]
				si := ops.StreamInput{Chunk: &chunk}
				if chunked[in.Producer] {
					a := axis
					si.Axis = &a
				}
				ins = append(ins, si)
			}

			outs, ok, err := node.Op.Step(ins, buffers[id])
			if err != nil {
				return nil, fmt.Errorf("dataflow: RunStreaming: node %q: %w", node.Name, err)
			}
			if ok {
				current[id] = outs
				chunked[id] = true
			}
		}

		if current[targetID] != nil {
			targetChunks = append(targetChunks, current[targetID])
		}
	}

	if len(targetChunks) == 0 {
		return nil, fmt.Errorf("dataflow: RunStreaming: %w: target %q never produced a chunk", ErrNotComputed, target)
	}

	numOutputs := len(targetChunks[0])
	result := make([]tensor.Tensor, numOutputs)
	for j := 0; j < numOutputs; j++ {
		chunks := make([]tensor.Tensor, len(targetChunks))
		for r, outs := range targetChunks {
			chunks[r] = outs[j]
		}
		result[j] = concatAlongAxis(chunks, axis)
	}
	return result, nil
}

// concatAlongAxis joins same-rank tensors along axis, assuming every
// other dimension already agrees, the same outer/inner block
// interleaving Pack.Eval uses to build a stacked tensor.
func concatAlongAxis(chunks []tensor.Tensor, axis int) tensor.Tensor {
	if len(chunks) == 1 {
		return chunks[0]
	}

	base := chunks[0].Shape()
	outShape := base.Clone()
	total := 0
	for _, c := range chunks {
		total += c.Shape()[axis]
	}
	outShape[axis] = total

	outer := 1
	for _, d := range base[:axis] {
		outer *= d
	}
	inner := 1
	for _, d := range base[axis+1:] {
		inner *= d
	}

	out := make([]float64, outShape.Size())
	offset := 0
	for _, c := range chunks {
		axisLen := c.Shape()[axis]
		values := c.Floats()
		for o := 0; o < outer; o++ {
			srcStart := o * axisLen * inner
			dstStart := o*total*inner + offset*inner
			copy(out[dstStart:dstStart+axisLen*inner], values[srcStart:srcStart+axisLen*inner])
		}
		offset += axisLen
	}
	return tensor.FromFloats(chunks[0].DataType(), outShape, out)
}
