package ops

import "github.com/born-ml/lanegrad/internal/lane"

// ReLUOp represents a ReLU (Rectified Linear Unit) activation: output = max(0, x).
//
// Backward pass:
//   - d(ReLU(x))/dx = 1 if x > 0, else 0
//
// The mask is taken from the output rather than the input. The two agree because
// ReLU(x) > 0 exactly when x > 0, so no extra state is recorded.
type ReLUOp struct{}

// Kind returns Relu.
func (ReLUOp) Kind() Kind { return Relu }

// Forward computes out = max(0, x).
func (ReLUOp) Forward(out lane.Lane, in Operands) {
	lane.ReluTo(out, in.Left)
}

// Backward passes the output gradient through the active lanes only.
func (ReLUOp) Backward(outGrad, out lane.Lane, _ Operands, grads Grads) {
	lane.AccumulateMasked(grads.Left, out, outGrad)
}
