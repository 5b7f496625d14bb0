package autodiff

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/lanegrad/internal/lane"
	"github.com/born-ml/lanegrad/internal/parallel"
)

// BuildFunc builds a computation on g from leaves holding the inputs and returns its root.
type BuildFunc func(g *Graph, inputs []Value) (Value, error)

// NumericalGradient estimates d(sum(root))/d(input) for every input element by
// central finite differences:
//
//	(f(x+eps) - f(x-eps)) / (2*eps)
//
// A fresh graph is built for every evaluation, so f must be deterministic.
func NumericalGradient(cfg Config, inputs []lane.Lane, f BuildFunc, eps float64) ([]lane.Lane, error) {
	return numericalGradient(cfg, inputs, f, eps, parallel.Sequential())
}

// NumericalGradientParallel is NumericalGradient with the probes spread over
// up to workers goroutines. Every probe builds its own graph, so f must be safe
// to call concurrently. Results are identical to NumericalGradient.
func NumericalGradientParallel(cfg Config, inputs []lane.Lane, f BuildFunc, eps float64, workers int) ([]lane.Lane, error) {
	return numericalGradient(cfg, inputs, f, eps, parallel.Config{
		Enabled:      workers > 1,
		NumWorkers:   workers,
		MinChunkSize: 1,
	})
}

func numericalGradient(cfg Config, inputs []lane.Lane, f BuildFunc, eps float64, pcfg parallel.Config) ([]lane.Lane, error) {
	type probe struct{ input, elem int }

	grads := make([]lane.Lane, len(inputs))
	var probes []probe
	for i := range inputs {
		grads[i] = make(lane.Lane, len(inputs[i]))
		for j := range inputs[i] {
			probes = append(probes, probe{i, j})
		}
	}

	err := parallel.ForErr(len(probes), func(k int) error {
		i, j := probes[k].input, probes[k].elem
		plus, err := evalShifted(cfg, inputs, i, j, eps, f)
		if err != nil {
			return err
		}
		minus, err := evalShifted(cfg, inputs, i, j, -eps, f)
		if err != nil {
			return err
		}
		grads[i][j] = (plus - minus) / (2 * eps)
		return nil
	}, pcfg)
	if err != nil {
		return nil, err
	}
	return grads, nil
}

// CheckGradients compares the gradients from Backward with NumericalGradient.
//
// An element passes when |analytic - numerical| <= tol * max(1, |analytic|, |numerical|).
// The first failing element is reported wrapped in ErrGradientMismatch.
func CheckGradients(cfg Config, inputs []lane.Lane, f BuildFunc, eps, tol float64) error {
	g, leaves, root, err := build(cfg, inputs, f)
	if err != nil {
		return err
	}
	grads, err := g.Backward(root)
	if err != nil {
		return err
	}

	numeric, err := NumericalGradient(cfg, inputs, f, eps)
	if err != nil {
		return err
	}

	for i, leaf := range leaves {
		analytic := grads.Of(leaf)
		for j := range analytic {
			a, n := analytic[j], numeric[i][j]
			scale := math.Max(1, math.Max(math.Abs(a), math.Abs(n)))
			if math.Abs(a-n) > tol*scale || math.IsNaN(a) != math.IsNaN(n) {
				return errors.Wrapf(ErrGradientMismatch, "input %d lane %d: backward %g, numerical %g", i, j, a, n)
			}
		}
	}
	return nil
}

func evalShifted(cfg Config, inputs []lane.Lane, i, j int, shift float64, f BuildFunc) (float64, error) {
	shifted := make([]lane.Lane, len(inputs))
	copy(shifted, inputs)
	shifted[i] = inputs[i].Clone()
	shifted[i][j] += shift

	_, _, root, err := build(cfg, shifted, f)
	if err != nil {
		return 0, err
	}
	return floats.Sum(root.g.dataLane(root.id)), nil
}

func build(cfg Config, inputs []lane.Lane, f BuildFunc) (*Graph, []Value, Value, error) {
	g, err := NewGraph(cfg)
	if err != nil {
		return nil, nil, Value{}, err
	}
	leaves := make([]Value, len(inputs))
	for i, in := range inputs {
		leaves[i], err = g.Leaf(in)
		if err != nil {
			return nil, nil, Value{}, errors.Wrapf(err, "input %d", i)
		}
	}
	root, err := f(g, leaves)
	if err != nil {
		return nil, nil, Value{}, err
	}
	if root.g != g {
		return nil, nil, Value{}, errors.Wrap(ErrForeignValue, "build function returned a root from another graph")
	}
	return g, leaves, root, nil
}
