package ops

import "github.com/born-ml/lanegrad/internal/lane"

// PowOp represents an element-wise power with a constant exponent: output = x ** k.
//
// The exponent lives in Operands.Aux. It is a constant for differentiation even when
// it was read from another node, so no gradient ever flows into it.
//
// Backward pass:
//   - d(x^k)/dx = k * x^(k-1), so grad_x += k * x^(k-1) * outputGrad
//
// A zero base with a negative exponent yields IEEE-754 infinities in both passes.
type PowOp struct{}

// Kind returns Pow.
func (PowOp) Kind() Kind { return Pow }

// Forward computes out = x ** k.
func (PowOp) Forward(out lane.Lane, in Operands) {
	lane.PowTo(out, in.Left, in.Aux)
}

// Backward applies the power rule.
func (PowOp) Backward(outGrad, _ lane.Lane, in Operands, grads Grads) {
	lane.AccumulatePowGrad(grads.Left, in.Left, in.Aux, outGrad)
}
