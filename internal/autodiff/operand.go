package autodiff

import (
	"reflect"

	"github.com/pkg/errors"

	"github.com/born-ml/lanegrad/internal/lane"
)

// operandKind is the closed set of shapes an operand can take.
type operandKind uint8

const (
	nodeOperand   operandKind = iota // An existing Value of this graph.
	scalarOperand                    // A number, broadcast to every lane.
	laneOperand                      // A literal of exactly Width elements.
)

// operand is a builder argument resolved once at the entry of a builder call.
type operand struct {
	kind   operandKind
	id     NodeID
	scalar float64
	lit    lane.Lane
}

// resolve classifies x without touching the arena, so a failing call leaves the
// graph unchanged.
func (g *Graph) resolve(op string, x any) (operand, error) {
	switch v := x.(type) {
	case Value:
		if v.g != g {
			return operand{}, errors.Wrapf(ErrForeignValue, "%s: operand %v", op, v.id)
		}
		return operand{kind: nodeOperand, id: v.id}, nil
	case float64:
		return operand{kind: scalarOperand, scalar: v}, nil
	case float32:
		return operand{kind: scalarOperand, scalar: float64(v)}, nil
	case int:
		return operand{kind: scalarOperand, scalar: float64(v)}, nil
	case int32:
		return operand{kind: scalarOperand, scalar: float64(v)}, nil
	case int64:
		return operand{kind: scalarOperand, scalar: float64(v)}, nil
	case lane.Lane:
		return g.laneLiteral(op, v)
	case []float64:
		return g.laneLiteral(op, v)
	case []float32:
		l := make(lane.Lane, len(v))
		for i, f := range v {
			l[i] = float64(f)
		}
		return g.laneLiteral(op, l)
	case nil:
		return operand{}, errors.Wrapf(ErrUnsupportedOperand, "%s: nil", op)
	}
	return g.arrayLiteral(op, x)
}

// arrayLiteral accepts fixed-size Go arrays such as [4]float64 or [4]int.
// Array lengths are part of the type, so they cannot be listed in a type switch.
func (g *Graph) arrayLiteral(op string, x any) (operand, error) {
	rv := reflect.ValueOf(x)
	if rv.Kind() != reflect.Array {
		return operand{}, errors.Wrapf(ErrUnsupportedOperand, "%s: %T", op, x)
	}
	l := make(lane.Lane, rv.Len())
	for i := range l {
		e := rv.Index(i)
		switch {
		case e.CanFloat():
			l[i] = e.Float()
		case e.CanInt():
			l[i] = float64(e.Int())
		default:
			return operand{}, errors.Wrapf(ErrUnsupportedOperand, "%s: %T", op, x)
		}
	}
	return g.laneLiteral(op, l)
}

func (g *Graph) laneLiteral(op string, l lane.Lane) (operand, error) {
	if len(l) != g.cfg.Width {
		return operand{}, errors.Wrapf(ErrWidthMismatch, "%s: literal has width %d, graph width is %d", op, len(l), g.cfg.Width)
	}
	return operand{kind: laneOperand, lit: l}, nil
}

// lane returns the operand's value as a lane of the graph width.
// For node operands the lane is a copy, safe to hold across arena growth.
func (g *Graph) lane(o operand) lane.Lane {
	switch o.kind {
	case nodeOperand:
		return g.dataLane(o.id).Clone()
	case scalarOperand:
		return lane.Broadcast(o.scalar, g.cfg.Width)
	default:
		return o.lit
	}
}

// materialize returns the node for o, wrapping literals in a new leaf.
func (g *Graph) materialize(o operand) NodeID {
	if o.kind == nodeOperand {
		return o.id
	}
	return g.leaf(g.lane(o))
}
