package ops

import "errors"

var (
	ErrArity         = errors.New("wrong input arity")
	ErrNotStreamable = errors.New("operator does not support streaming")
	ErrBufferType    = errors.New("buffer is not this operator's buffer kind")
)
