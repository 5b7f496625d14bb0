package autodiff

import "github.com/pkg/errors"

// Construction errors. They are returned wrapped with the failing operation,
// so match them with errors.Is.
var (
	// ErrInvalidWidth is returned when a graph is configured with a lane width below 1.
	ErrInvalidWidth = errors.New("invalid lane width")

	// ErrWidthMismatch is returned when a lane literal does not match the graph width.
	ErrWidthMismatch = errors.New("lane width mismatch")

	// ErrUnsupportedOperand is returned for operands that are not a Value, a number,
	// or a lane literal.
	ErrUnsupportedOperand = errors.New("unsupported operand type")

	// ErrForeignValue is returned when a Value from another graph (or the zero Value)
	// is passed to a graph.
	ErrForeignValue = errors.New("value does not belong to this graph")

	// ErrGradientMismatch is returned by CheckGradients when backward and numerical
	// gradients disagree.
	ErrGradientMismatch = errors.New("gradient mismatch")
)
