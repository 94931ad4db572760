package main

import (
	"fmt"
	"os"

	"github.com/itohio/graphinfer/pkg/core/tensor"
	"github.com/itohio/graphinfer/pkg/core/tensor/types"
	"gopkg.in/yaml.v3"
)

// InputSpec is one named input tensor, as written in a comparison
// harness config file.
type InputSpec struct {
	Dtype  string    `yaml:"dtype"`
	Shape  []int     `yaml:"shape"`
	Values []float64 `yaml:"values"`
}

// Tensor builds the tensor.Tensor this spec describes.
func (s InputSpec) Tensor() (tensor.Tensor, error) {
	dt, err := parseDtype(s.Dtype)
	if err != nil {
		return tensor.Tensor{}, err
	}
	shape := types.NewShape(s.Shape...)
	if shape.Size() != len(s.Values) {
		return tensor.Tensor{}, fmt.Errorf("config: input has shape %v (size %d) but %d values", shape, shape.Size(), len(s.Values))
	}
	return tensor.FromFloats(dt, shape, s.Values), nil
}

func parseDtype(name string) (types.DataType, error) {
	switch name {
	case "", "f32":
		return types.DTF32, nil
	case "f64":
		return types.DTF64, nil
	case "i32":
		return types.DTI32, nil
	case "i8":
		return types.DTI8, nil
	case "u8":
		return types.DTU8, nil
	default:
		return types.DTUnknown, fmt.Errorf("config: unsupported dtype %q", name)
	}
}

// Config is the optional YAML configuration for the comparison harness:
// which target node to run and what input tensors to feed each graph.
type Config struct {
	Target  string               `yaml:"target"`
	InputsA map[string]InputSpec `yaml:"inputs_a"`
	InputsB map[string]InputSpec `yaml:"inputs_b"`
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: loadConfig: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: loadConfig: %w", err)
	}
	return &cfg, nil
}

func (c *Config) tensorsA() (map[string]tensor.Tensor, error) {
	return buildTensors(c.InputsA)
}

func (c *Config) tensorsB() (map[string]tensor.Tensor, error) {
	return buildTensors(c.InputsB)
}

func buildTensors(specs map[string]InputSpec) (map[string]tensor.Tensor, error) {
	out := make(map[string]tensor.Tensor, len(specs))
	for name, spec := range specs {
		t, err := spec.Tensor()
		if err != nil {
			return nil, fmt.Errorf("config: input %q: %w", name, err)
		}
		out[name] = t
	}
	return out, nil
}
