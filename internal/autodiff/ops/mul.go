package ops

import "github.com/born-ml/lanegrad/internal/lane"

// MulOp represents an element-wise multiplication operation: output = a * b.
//
// Backward pass:
//   - d(a*b)/da = b, so grad_a += outputGrad * b
//   - d(a*b)/db = a, so grad_b += outputGrad * a
type MulOp struct{}

// Kind returns Mul.
func (MulOp) Kind() Kind { return Mul }

// Forward computes out = a * b.
func (MulOp) Forward(out lane.Lane, in Operands) {
	lane.MulTo(out, in.Left, in.Right)
}

// Backward scales the output gradient by the opposite operand.
// Operand data is immutable after construction, so both terms see forward values.
func (MulOp) Backward(outGrad, _ lane.Lane, in Operands, grads Grads) {
	lane.AccumulateProduct(grads.Left, in.Right, outGrad)
	lane.AccumulateProduct(grads.Right, in.Left, outGrad)
}
