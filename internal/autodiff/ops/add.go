package ops

import "github.com/born-ml/lanegrad/internal/lane"

// AddOp represents an element-wise addition operation: output = a + b.
//
// Backward pass:
//   - d(a+b)/da = 1, so grad_a += outputGrad
//   - d(a+b)/db = 1, so grad_b += outputGrad
//
// When a and b are the same node both terms land on it, giving 2 * outputGrad.
type AddOp struct{}

// Kind returns Add.
func (AddOp) Kind() Kind { return Add }

// Forward computes out = a + b.
func (AddOp) Forward(out lane.Lane, in Operands) {
	lane.AddTo(out, in.Left, in.Right)
}

// Backward distributes the output gradient unchanged to both inputs.
func (AddOp) Backward(outGrad, _ lane.Lane, _ Operands, grads Grads) {
	lane.Accumulate(grads.Left, outGrad)
	lane.Accumulate(grads.Right, outGrad)
}
