// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation over scalars
// and fixed-width vector lanes.
//
// Operations on Values are recorded in a Graph. Backward computes the gradient of
// one root with respect to every Value it depends on, summing over every path.
//
// Example:
//
//	import "github.com/born-ml/lanegrad/autodiff"
//
//	func main() {
//	    g := autodiff.MustNewGraph(1) // width 1: scalar graph
//
//	    a := g.MustLeaf(2.0)
//	    b := g.MustLeaf(3.0)
//	    e := a.Mul(b).Add(b).Pow(2) // e = (a*b + b)²
//
//	    grads := e.Backward()
//	    fmt.Println(grads.Of(a), grads.Of(b)) // [54] [54]
//	}
//
// Vector graphs use the same API with a wider lane:
//
//	g := autodiff.MustNewGraph(4)
//	x := g.MustLeaf([4]float64{1, 2, 3, 4})
//	y := x.Add(3) // [4 5 6 7]
package autodiff

import (
	"github.com/born-ml/lanegrad/internal/autodiff"
	"github.com/born-ml/lanegrad/internal/autodiff/ops"
	"github.com/born-ml/lanegrad/internal/lane"
)

// Graph is an append-only arena of Values sharing one lane width.
type Graph = autodiff.Graph

// Value is a handle to one node of a Graph.
type Value = autodiff.Value

// NodeID indexes a node in its graph.
type NodeID = autodiff.NodeID

// Config controls graph construction.
type Config = autodiff.Config

// Gradients maps each Value reachable from a root to its gradient.
type Gradients = autodiff.Gradients

// Tape is the linearized order Backward walks.
type Tape = autodiff.Tape

// Stats describes the storage used by a graph.
type Stats = autodiff.Stats

// BuildFunc builds a computation for gradient checking.
type BuildFunc = autodiff.BuildFunc

// Lane is a fixed-width run of float64 values.
type Lane = lane.Lane

// Op tags how a Value was produced.
type Op = ops.Kind

// Operation kinds.
const (
	OpNone = ops.None
	OpAdd  = ops.Add
	OpMul  = ops.Mul
	OpPow  = ops.Pow
	OpRelu = ops.Relu
)

// Errors returned by graph construction and gradient checking.
var (
	ErrInvalidWidth       = autodiff.ErrInvalidWidth
	ErrWidthMismatch      = autodiff.ErrWidthMismatch
	ErrUnsupportedOperand = autodiff.ErrUnsupportedOperand
	ErrForeignValue       = autodiff.ErrForeignValue
	ErrGradientMismatch   = autodiff.ErrGradientMismatch
)

// DefaultConfig returns a scalar configuration with invariant checks enabled.
func DefaultConfig() Config {
	return autodiff.DefaultConfig()
}

// NewGraph creates an empty graph.
func NewGraph(cfg Config) (*Graph, error) {
	return autodiff.NewGraph(cfg)
}

// MustNewGraph creates a graph of the given lane width. Panics if width < 1.
//
// Example:
//
//	g := autodiff.MustNewGraph(8)
func MustNewGraph(width int) *Graph {
	return autodiff.MustNewGraph(width)
}

// CheckGradients compares Backward against central finite differences.
func CheckGradients(cfg Config, inputs []Lane, f BuildFunc, eps, tol float64) error {
	return autodiff.CheckGradients(cfg, inputs, f, eps, tol)
}

// NumericalGradient estimates gradients by central finite differences.
func NumericalGradient(cfg Config, inputs []Lane, f BuildFunc, eps float64) ([]Lane, error) {
	return autodiff.NumericalGradient(cfg, inputs, f, eps)
}

// NumericalGradientParallel is NumericalGradient with the probes spread over
// up to workers goroutines. f must be safe to call concurrently.
func NumericalGradientParallel(cfg Config, inputs []Lane, f BuildFunc, eps float64, workers int) ([]Lane, error) {
	return autodiff.NumericalGradientParallel(cfg, inputs, f, eps, workers)
}
