// Command compare runs a target node of one or two serialized graphs and
// reports whether the outputs are shape-identical and element-wise
// close_enough (§9). It is informative only — no inference or execution
// logic lives here beyond calling the public graphinfer facade.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/itohio/graphinfer"
	"github.com/itohio/graphinfer/pkg/core/logger"
	"github.com/itohio/graphinfer/pkg/core/tensor"
)

var (
	graphA     = flag.String("a", "", "path to the first serialized GraphDef")
	graphB     = flag.String("b", "", "path to the second serialized GraphDef (defaults to -a)")
	targetFlag = flag.String("target", "", "name of the node to compute and compare (overridden by config's target, if set)")
	configPath = flag.String("config", "", "optional YAML config naming the target and each graph's input tensors")
)

func main() {
	flag.Parse()

	if *graphA == "" {
		logger.Log.Error().Msg("-a is required")
		flag.Usage()
		os.Exit(1)
	}

	cfg := &Config{Target: *targetFlag}
	if *configPath != "" {
		loaded, err := loadConfig(*configPath)
		if err != nil {
			logger.Log.Error().Err(err).Msg("loading config")
			os.Exit(1)
		}
		cfg = loaded
		if cfg.Target == "" {
			cfg.Target = *targetFlag
		}
	}
	if cfg.Target == "" {
		logger.Log.Error().Msg("-target or config.target is required")
		os.Exit(1)
	}

	pathB := *graphB
	if pathB == "" {
		pathB = *graphA
	}

	outA, err := run(*graphA, cfg.InputsA, cfg.Target)
	if err != nil {
		logger.Log.Error().Err(err).Str("graph", *graphA).Msg("running graph A")
		os.Exit(1)
	}
	outB, err := run(pathB, cfg.InputsB, cfg.Target)
	if err != nil {
		logger.Log.Error().Err(err).Str("graph", pathB).Msg("running graph B")
		os.Exit(1)
	}

	if !report(outA, outB) {
		os.Exit(1)
	}
}

func run(path string, specs map[string]InputSpec, target string) ([]tensor.Tensor, error) {
	g, err := graphinfer.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	inputs, err := buildTensors(specs)
	if err != nil {
		return nil, err
	}
	return g.Run(inputs, target)
}

// report prints a shape-then-element comparison and returns true iff
// every output pair matches.
func report(a, b []tensor.Tensor) bool {
	if len(a) != len(b) {
		fmt.Printf("MISMATCH: graph A produced %d outputs, graph B produced %d\n", len(a), len(b))
		return false
	}

	ok := true
	for i := range a {
		shapesMatch := a[i].Shape().Equal(b[i].Shape())
		if !shapesMatch {
			fmt.Printf("output %d: MISMATCH shape A=%v B=%v\n", i, a[i].Shape(), b[i].Shape())
			ok = false
			continue
		}
		if a[i].CloseEnough(b[i]) {
			fmt.Printf("output %d: MATCH shape=%v\n", i, a[i].Shape())
		} else {
			fmt.Printf("output %d: MISMATCH values shape=%v\n  A=%v\n  B=%v\n", i, a[i].Shape(), a[i], b[i])
			ok = false
		}
	}
	return ok
}
