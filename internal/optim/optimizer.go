// Package optim implements gradient-descent optimizers for values trained with lanegrad.
//
// Graphs are immutable and built for a single root, so trainable state lives outside
// them in Parameters. Every step binds each Parameter into a fresh graph as a leaf,
// computes the loss, runs Backward, and lets the optimizer update the Parameters.
//
// This package provides:
//   - Parameter: trainable lane that outlives individual graphs
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation
//
// Example usage:
//
//	w := optim.NewParameter("w", lane.Lane{0})
//	opt := optim.NewSGD([]*optim.Parameter{w}, optim.SGDConfig{LR: 0.1})
//
//	for step := range steps {
//	    g := autodiff.MustNewGraph(1)
//	    wv, _ := w.Bind(g)
//	    loss := wv.Sub(3).Pow(2)
//	    opt.Step(loss.Backward())
//	}
package optim

import (
	"github.com/born-ml/lanegrad/internal/autodiff"
	"github.com/born-ml/lanegrad/internal/lane"
)

// Optimizer is the base interface for all optimization algorithms.
//
// All optimizers must implement:
//   - Step: Apply gradient updates to parameters
//   - GetLR: Get current learning rate (for monitoring/scheduling)
type Optimizer interface {
	// Step applies gradient updates to all parameters bound into the graph
	// the gradients were computed on. Parameters the loss did not depend on
	// are left unchanged.
	Step(grads *autodiff.Gradients)

	// GetLR returns the current learning rate.
	GetLR() float64
}

// Parameter is a trainable lane that persists across graphs.
type Parameter struct {
	name string
	data lane.Lane
	leaf autodiff.Value // Leaf in the most recently bound graph.
}

// NewParameter creates a parameter initialized with a copy of init.
func NewParameter(name string, init lane.Lane) *Parameter {
	return &Parameter{name: name, data: init.Clone()}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Data returns a copy of the current parameter value.
func (p *Parameter) Data() lane.Lane {
	return p.data.Clone()
}

// Bind adds the parameter to g as a leaf and remembers it, so the next Step finds
// its gradient. Binding again replaces the previous leaf.
func (p *Parameter) Bind(g *autodiff.Graph) (autodiff.Value, error) {
	v, err := g.Leaf(p.data)
	if err != nil {
		return autodiff.Value{}, err
	}
	p.leaf = v
	return v, nil
}

// Value returns the leaf from the most recent Bind, or the zero Value.
func (p *Parameter) Value() autodiff.Value {
	return p.leaf
}

// gradient returns the gradient for param, or nil if it was not part of the graph.
func gradient(param *Parameter, grads *autodiff.Gradients) lane.Lane {
	if param == nil || !grads.Has(param.leaf) {
		return nil
	}
	return grads.Of(param.leaf)
}
