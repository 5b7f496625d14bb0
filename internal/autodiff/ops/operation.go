// Package ops defines the operation kinds recorded in the graph and their chain rules.
//
// Each operation implements the Operation interface, which provides:
//   - Forward: computes the output lane from the operand lanes
//   - Backward: accumulates operand gradients given the output gradient
//
// Supported operations:
//   - AddOp: element-wise addition (d(a+b)/da = 1, d(a+b)/db = 1)
//   - MulOp: element-wise multiplication (d(a*b)/da = b, d(a*b)/db = a)
//   - PowOp: element-wise power with a constant exponent (d(x^k)/dx = k*x^(k-1))
//   - ReLUOp: rectified linear unit (d(ReLU(x))/dx = 1 if ReLU(x) > 0, else 0)
//
// Subtraction, negation and division are not operations: the graph builds them
// from Add, Mul and Pow, so these four rules are all the evaluator needs.
package ops

import (
	"fmt"

	"github.com/born-ml/lanegrad/internal/lane"
)

// Kind tags how a node's data was produced.
type Kind uint8

// Operation kinds.
const (
	None Kind = iota // Leaf, no operands.
	Add
	Mul
	Pow
	Relu
)

// String returns the operation name.
func (k Kind) String() string {
	switch k {
	case None:
		return "None"
	case Add:
		return "Add"
	case Mul:
		return "Mul"
	case Pow:
		return "Pow"
	case Relu:
		return "Relu"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Arity returns the number of node operands the kind takes.
// Pow takes one: its exponent is an auxiliary constant, not an operand.
func (k Kind) Arity() int {
	switch k {
	case Add, Mul:
		return 2
	case Pow, Relu:
		return 1
	default:
		return 0
	}
}

// Operands carries the lanes an operation reads.
// Right is nil for unary operations and Aux is nil unless the kind is Pow.
type Operands struct {
	Left  lane.Lane
	Right lane.Lane
	Aux   lane.Lane
}

// Grads carries the gradient accumulators of the operands.
// Accumulators are nil where the matching operand is absent.
type Grads struct {
	Left  lane.Lane
	Right lane.Lane
}

// Operation is the forward computation and chain rule of one Kind.
type Operation interface {
	// Kind returns the tag recorded on nodes produced by this operation.
	Kind() Kind

	// Forward writes the result of applying the operation to in into out.
	Forward(out lane.Lane, in Operands)

	// Backward adds the contribution of outGrad to the operand gradients.
	// out is the node's own forward value. Backward never overwrites a gradient:
	// a node feeding several consumers receives the sum of their contributions.
	//
	// Example for AddOp:
	//   outGrad: dL/d(a+b)
	//   grads.Left += outGrad, grads.Right += outGrad
	Backward(outGrad, out lane.Lane, in Operands, grads Grads)
}

var registry = [...]Operation{
	None: LeafOp{},
	Add:  AddOp{},
	Mul:  MulOp{},
	Pow:  PowOp{},
	Relu: ReLUOp{},
}

// For returns the operation registered for k.
// Panics on an unknown kind.
func For(k Kind) Operation {
	if int(k) >= len(registry) {
		panic(fmt.Sprintf("ops: unknown kind %v", k))
	}
	return registry[k]
}

// LeafOp is the no-op recorded on leaf nodes.
type LeafOp struct{}

// Kind returns None.
func (LeafOp) Kind() Kind { return None }

// Forward does nothing; leaf data is written by the builder.
func (LeafOp) Forward(lane.Lane, Operands) {}

// Backward does nothing; leaves have no operands.
func (LeafOp) Backward(lane.Lane, lane.Lane, Operands, Grads) {}
