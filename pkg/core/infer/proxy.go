package infer

// InputsProxy and OutputsProxy are purely syntactic helpers that compile
// accessor chains like inputs[i].rank or outputs[i].shape[d] into Paths,
// so operator rule registration code reads like the constraints it
// expresses rather than raw integer slices.
type InputsProxy struct{}
type OutputsProxy struct{}

func (InputsProxy) At(i int) TensorProxy  { return TensorProxy{base: Path{0, i}} }
func (OutputsProxy) At(i int) TensorProxy { return TensorProxy{base: Path{1, i}} }

func (InputsProxy) Len() Variable  { return Variable{Path: Path{0, -1}} }
func (OutputsProxy) Len() Variable { return Variable{Path: Path{1, -1}} }

// TensorProxy is the per-slot accessor for a single input or output's
// datatype, rank, shape and value.
type TensorProxy struct{ base Path }

func (p TensorProxy) Datatype() Variable { return Variable{Path: append(clone(p.base), 0)} }
func (p TensorProxy) Rank() Variable     { return Variable{Path: append(clone(p.base), 1)} }
func (p TensorProxy) Shape() Variable    { return Variable{Path: append(clone(p.base), 2)} }
func (p TensorProxy) Value() Variable    { return Variable{Path: append(clone(p.base), 3)} }

func (p TensorProxy) Dim(k int) Variable {
	return Variable{Path: append(append(clone(p.base), 2), k)}
}

func (p TensorProxy) ValueAt(indices ...int) Variable {
	path := append(clone(p.base), 3)
	path = append(path, indices...)
	return Variable{Path: path}
}

func clone(p Path) Path {
	out := make(Path, len(p))
	copy(out, p)
	return out
}
