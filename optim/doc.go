// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides gradient-descent optimizers for lanegrad graphs.
//
// # Overview
//
// This package contains:
//   - Parameter: a trainable lane that persists across graphs
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//   - SaveParameters / LoadParameters: SafeTensors checkpoints
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/lanegrad/autodiff"
//	    "github.com/born-ml/lanegrad/optim"
//	)
//
//	func main() {
//	    w := optim.NewParameter("w", autodiff.Lane{0})
//	    b := optim.NewParameter("b", autodiff.Lane{0})
//	    opt := optim.NewAdam([]*optim.Parameter{w, b}, optim.AdamConfig{LR: 0.05})
//
//	    for step := range 500 {
//	        g := autodiff.MustNewGraph(1)
//	        wv, _ := w.Bind(g)
//	        bv, _ := b.Bind(g)
//	        loss := wv.Mul(3).Add(bv).Sub(7).Pow(2)
//	        opt.Step(loss.Backward())
//	    }
//	}
//
// Graphs are built for a single root and never mutated afterwards, so a new
// graph is built every step and each Parameter is bound into it as a leaf.
// Parameters that were not bound into the graph of the gradients are skipped.
package optim
