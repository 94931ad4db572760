package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/itohio/graphinfer/pkg/core/tensor/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputSpecTensorDefaultsToF32(t *testing.T) {
	spec := InputSpec{Shape: []int{2}, Values: []float64{1, 2}}
	tt, err := spec.Tensor()
	require.NoError(t, err)
	assert.Equal(t, types.DTF32, tt.DataType())
	assert.Equal(t, []float64{1, 2}, tt.Floats())
}

func TestInputSpecTensorParsesEveryDtype(t *testing.T) {
	cases := map[string]types.DataType{
		"f32": types.DTF32,
		"f64": types.DTF64,
		"i32": types.DTI32,
		"i8":  types.DTI8,
		"u8":  types.DTU8,
	}
	for name, want := range cases {
		spec := InputSpec{Dtype: name, Shape: []int{1}, Values: []float64{1}}
		tt, err := spec.Tensor()
		require.NoError(t, err)
		assert.Equal(t, want, tt.DataType())
	}
}

func TestInputSpecTensorRejectsUnknownDtype(t *testing.T) {
	spec := InputSpec{Dtype: "bogus", Shape: []int{1}, Values: []float64{1}}
	_, err := spec.Tensor()
	assert.Error(t, err)
}

func TestInputSpecTensorRejectsShapeValuesMismatch(t *testing.T) {
	spec := InputSpec{Shape: []int{2, 2}, Values: []float64{1, 2, 3}}
	_, err := spec.Tensor()
	assert.Error(t, err)
}

func TestLoadConfigParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	contents := `
target: sum
inputs_a:
  x:
    dtype: f64
    shape: [2]
    values: [1, 2]
inputs_b:
  x:
    dtype: f64
    shape: [2]
    values: [1, 2]
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "sum", cfg.Target)
	require.Contains(t, cfg.InputsA, "x")
	assert.Equal(t, "f64", cfg.InputsA["x"].Dtype)
	assert.Equal(t, []int{2}, cfg.InputsA["x"].Shape)
}

func TestLoadConfigMissingFileFails(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfigTensorsAAndBBuildFromSpecs(t *testing.T) {
	cfg := &Config{
		InputsA: map[string]InputSpec{"x": {Shape: []int{1}, Values: []float64{5}}},
		InputsB: map[string]InputSpec{"y": {Shape: []int{1}, Values: []float64{6}}},
	}

	a, err := cfg.tensorsA()
	require.NoError(t, err)
	require.Contains(t, a, "x")
	assert.Equal(t, 5.0, a["x"].At(0))

	b, err := cfg.tensorsB()
	require.NoError(t, err)
	require.Contains(t, b, "y")
	assert.Equal(t, 6.0, b["y"].At(0))
}

func TestConfigTensorsPropagatesSpecError(t *testing.T) {
	cfg := &Config{InputsA: map[string]InputSpec{"x": {Dtype: "nope", Shape: []int{1}, Values: []float64{1}}}}
	_, err := cfg.tensorsA()
	assert.Error(t, err)
}
