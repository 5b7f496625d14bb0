package lane

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// All kernels require operands of equal width; callers validate widths up front
// and gonum panics on a mismatch that slips through.

// AddTo computes dst = a + b.
func AddTo(dst, a, b Lane) {
	floats.AddTo(dst, a, b)
}

// MulTo computes dst = a * b.
func MulTo(dst, a, b Lane) {
	floats.MulTo(dst, a, b)
}

// PowTo computes dst = base ** exp.
func PowTo(dst, base, exp Lane) {
	for i := range dst {
		dst[i] = math.Pow(base[i], exp[i])
	}
}

// ReluTo computes dst = max(x, 0).
//
// NaN inputs produce 0, matching the strict x > 0 test used by the gradient.
func ReluTo(dst, x Lane) {
	for i, v := range x {
		if v > 0 {
			dst[i] = v
		} else {
			dst[i] = 0
		}
	}
}

// Accumulate computes dst += src.
func Accumulate(dst, src Lane) {
	floats.Add(dst, src)
}

// AccumulateProduct computes dst += a * b.
func AccumulateProduct(dst, a, b Lane) {
	for i := range dst {
		dst[i] += a[i] * b[i]
	}
}

// AccumulatePowGrad computes dst += exp * base**(exp-1) * g, the power rule.
func AccumulatePowGrad(dst, base, exp, g Lane) {
	for i := range dst {
		dst[i] += exp[i] * math.Pow(base[i], exp[i]-1) * g[i]
	}
}

// AccumulateMasked computes dst += g where mask > 0.
func AccumulateMasked(dst, mask, g Lane) {
	for i := range dst {
		if mask[i] > 0 {
			dst[i] += g[i]
		}
	}
}
