// Package lane provides fixed-width numeric lanes and the contiguous storage they are packed into.
//
// A Lane is a view of W float64 values. Width 1 is the scalar case; every kernel in this
// package is elementwise, so scalar and vector graphs share the same code path.
//
// Lanes live inside a Buffer and are addressed by a Span handed out by an Allocator:
//
//	var alloc lane.Allocator
//	buf := lane.NewBuffer(0)
//
//	s := alloc.Alloc(4)     // Span{Offset: 0, Width: 4}
//	buf.Ensure(alloc.Size())
//	copy(buf.Lane(s), []float64{1, 2, 3, 4})
package lane

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Lane is a fixed-width run of float64 values.
type Lane []float64

// Broadcast returns a new lane of the given width with every element set to x.
func Broadcast(x float64, width int) Lane {
	l := make(Lane, width)
	l.Fill(x)
	return l
}

// Width returns the number of elements in the lane.
func (l Lane) Width() int {
	return len(l)
}

// Clone returns a copy that does not alias the receiver.
func (l Lane) Clone() Lane {
	c := make(Lane, len(l))
	copy(c, l)
	return c
}

// Fill sets every element to x.
func (l Lane) Fill(x float64) {
	for i := range l {
		l[i] = x
	}
}

// Equal reports whether both lanes have the same width and identical elements.
// NaN never compares equal.
func (l Lane) Equal(other Lane) bool {
	return len(l) == len(other) && floats.Equal(l, other)
}

// EqualApprox reports whether both lanes have the same width and every pair of
// elements is within tol (absolute or relative).
func (l Lane) EqualApprox(other Lane, tol float64) bool {
	return len(l) == len(other) && floats.EqualApprox(l, other, tol)
}

// String formats the lane as [a b c].
func (l Lane) String() string {
	return fmt.Sprint([]float64(l))
}
