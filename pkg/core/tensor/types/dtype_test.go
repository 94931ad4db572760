package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDataTypeString(t *testing.T) {
	cases := map[DataType]string{
		DTUnknown: "unknown",
		DTU8:      "u8",
		DTI8:      "i8",
		DTI32:     "i32",
		DTF32:     "f32",
		DTF64:     "f64",
		DTString:  "string",
	}
	for dt, want := range cases {
		assert.Equal(t, want, dt.String())
	}
}
