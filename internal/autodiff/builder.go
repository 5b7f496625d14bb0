package autodiff

import (
	"github.com/born-ml/lanegrad/internal/autodiff/ops"
	"github.com/born-ml/lanegrad/internal/lane"
)

// Operands accepted by the builder methods:
//   - a Value created by the same graph
//   - a number (float64, float32, int, int32, int64), broadcast to every lane
//   - a lane literal of exactly Width elements: lane.Lane, []float64, []float32,
//     or a fixed-size array such as [4]float64
//
// Literals are wrapped in new leaf nodes. A failing call appends nothing.

// Leaf wraps a literal (or copies a Value's data) into a new leaf node.
func (g *Graph) Leaf(x any) (Value, error) {
	o, err := g.resolve("Leaf", x)
	if err != nil {
		return Value{}, err
	}
	return g.Value(g.leaf(g.lane(o))), nil
}

// MustLeaf is like Leaf but panics on error.
func (g *Graph) MustLeaf(x any) Value {
	return must(g.Leaf(x))
}

func (g *Graph) leaf(l lane.Lane) NodeID {
	id := g.newNode(ops.None, NoNode, NoNode, lane.Span{})
	copy(g.dataLane(id), l)
	return id
}

// Add returns a + b.
func (g *Graph) Add(a, b any) (Value, error) {
	return g.binary("Add", ops.Add, a, b)
}

// Mul returns a * b.
func (g *Graph) Mul(a, b any) (Value, error) {
	return g.binary("Mul", ops.Mul, a, b)
}

// Sub returns a - b, built as Add(a, Neg(b)).
func (g *Graph) Sub(a, b any) (Value, error) {
	l, r, err := g.resolvePair("Sub", a, b)
	if err != nil {
		return Value{}, err
	}
	left := g.materialize(l)
	neg := g.neg(g.materialize(r))
	return g.Value(g.apply(ops.Add, left, neg, lane.Span{})), nil
}

// Div returns a / b, built as Mul(a, Pow(b, -1)).
// Division by zero is not checked; it yields IEEE-754 infinities or NaN.
func (g *Graph) Div(a, b any) (Value, error) {
	l, r, err := g.resolvePair("Div", a, b)
	if err != nil {
		return Value{}, err
	}
	left := g.materialize(l)
	recip := g.pow(g.materialize(r), lane.Broadcast(-1, g.cfg.Width))
	return g.Value(g.apply(ops.Mul, left, recip, lane.Span{})), nil
}

// Neg returns -a, built as Mul(a, -1) with a synthetic -1 leaf.
func (g *Graph) Neg(a any) (Value, error) {
	o, err := g.resolve("Neg", a)
	if err != nil {
		return Value{}, err
	}
	return g.Value(g.neg(g.materialize(o))), nil
}

func (g *Graph) neg(id NodeID) NodeID {
	minusOne := g.leaf(lane.Broadcast(-1, g.cfg.Width))
	return g.apply(ops.Mul, id, minusOne, lane.Span{})
}

// Pow returns a ** exp.
//
// exp is a number, a lane literal of per-lane exponents, or a Value whose current
// data is copied as the exponent. The exponent is a constant for differentiation:
// a Value used as an exponent never receives gradient through this node.
func (g *Graph) Pow(a, exp any) (Value, error) {
	base, err := g.resolve("Pow", a)
	if err != nil {
		return Value{}, err
	}
	e, err := g.resolve("Pow", exp)
	if err != nil {
		return Value{}, err
	}
	return g.Value(g.pow(g.materialize(base), g.lane(e))), nil
}

func (g *Graph) pow(id NodeID, exp lane.Lane) NodeID {
	return g.apply(ops.Pow, id, NoNode, g.newConst(exp))
}

// Relu returns max(a, 0) per lane.
func (g *Graph) Relu(a any) (Value, error) {
	o, err := g.resolve("Relu", a)
	if err != nil {
		return Value{}, err
	}
	return g.Value(g.apply(ops.Relu, g.materialize(o), NoNode, lane.Span{})), nil
}

func (g *Graph) binary(name string, op ops.Kind, a, b any) (Value, error) {
	l, r, err := g.resolvePair(name, a, b)
	if err != nil {
		return Value{}, err
	}
	left := g.materialize(l)
	right := g.materialize(r)
	return g.Value(g.apply(op, left, right, lane.Span{})), nil
}

func (g *Graph) resolvePair(name string, a, b any) (operand, operand, error) {
	l, err := g.resolve(name, a)
	if err != nil {
		return operand{}, operand{}, err
	}
	r, err := g.resolve(name, b)
	if err != nil {
		return operand{}, operand{}, err
	}
	return l, r, nil
}

// apply appends a node for op and computes its forward value.
func (g *Graph) apply(op ops.Kind, left, right NodeID, aux lane.Span) NodeID {
	id := g.newNode(op, left, right, aux)
	n := &g.nodes[id]
	ops.For(op).Forward(g.dataLane(id), g.operands(n))
	return id
}

func must(v Value, err error) Value {
	if err != nil {
		panic(err)
	}
	return v
}
