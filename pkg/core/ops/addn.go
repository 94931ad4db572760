package ops

import (
	"fmt"

	"github.com/itohio/graphinfer/pkg/core/infer"
	"github.com/itohio/graphinfer/pkg/core/tensor"
)

// AddN elementwise-sums N same-shaped, same-dtype tensors. It streams by
// buffering one queued chunk per input and emitting a sum once every
// queue has a chunk available.
type AddN struct {
	N int
}

func NewAddN(n int) *AddN { return &AddN{N: n} }

func (a *AddN) Eval(inputs []tensor.Tensor) ([]tensor.Tensor, error) {
	if len(inputs) != a.N {
		return nil, fmt.Errorf("ops: AddN.Eval: %w: wanted %d inputs, got %d", ErrArity, a.N, len(inputs))
	}
	shape := inputs[0].Shape()
	sum := inputs[0].Floats()
	for _, in := range inputs[1:] {
		if !in.Shape().Equal(shape) {
			return nil, fmt.Errorf("ops: AddN.Eval: mismatched shapes %v and %v", shape, in.Shape())
		}
		values := in.Floats()
		for i, v := range values {
			sum[i] += v
		}
	}
	return []tensor.Tensor{tensor.FromFloats(inputs[0].DataType(), shape, sum)}, nil
}

// addNBuffer holds one pending-chunk queue per input.
type addNBuffer struct {
	queues [][]tensor.Tensor
}

func (a *AddN) NewBuffer() Buffer {
	return &addNBuffer{queues: make([][]tensor.Tensor, a.N)}
}

func (a *AddN) CanStream() bool { return true }

func (a *AddN) Step(inputs []StreamInput, buf Buffer) ([]tensor.Tensor, bool, error) {
	b, ok := buf.(*addNBuffer)
	if !ok {
		return nil, false, fmt.Errorf("ops: AddN.Step: %w", ErrBufferType)
	}
	if len(inputs) != a.N {
		return nil, false, fmt.Errorf("ops: AddN.Step: %w: wanted %d inputs, got %d", ErrArity, a.N, len(inputs))
	}
	for i, in := range inputs {
		if in.Chunk != nil {
			b.queues[i] = append(b.queues[i], *in.Chunk)
		}
	}
	for _, q := range b.queues {
		if len(q) == 0 {
			return nil, false, nil
		}
	}
	chunks := make([]tensor.Tensor, a.N)
	for i, q := range b.queues {
		chunks[i] = q[0]
		b.queues[i] = q[1:]
	}
	out, err := a.Eval(chunks)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

func (a *AddN) Rules(solver *infer.Solver, inputs infer.InputsProxy, outputs infer.OutputsProxy) {
	output := outputs.At(0)
	solver.
		Equals(inputs.Len(), infer.ConstInt(int64(a.N))).
		Equals(outputs.Len(), infer.ConstInt(1)).
		Equals(output.Datatype(), inputs.At(0).Datatype()).
		Equals(output.Rank(), inputs.At(0).Rank())
	for i := 1; i < a.N; i++ {
		solver.
			Equals(inputs.At(i).Datatype(), inputs.At(0).Datatype()).
			Equals(inputs.At(i).Shape(), inputs.At(0).Shape())
	}
	solver.Equals(output.Shape(), inputs.At(0).Shape())
}

func (a *AddN) Attributes() map[string]any {
	return map[string]any{"N": a.N}
}
