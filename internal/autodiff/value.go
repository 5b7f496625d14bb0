package autodiff

import (
	"fmt"

	"github.com/born-ml/lanegrad/internal/autodiff/ops"
	"github.com/born-ml/lanegrad/internal/lane"
)

// Value is a handle to one node of a Graph.
//
// Values are small and compared by identity: two Values are equal when they refer
// to the same node of the same graph. The zero Value refers to no node.
//
// The arithmetic methods mirror the Graph builder methods but panic on error,
// which keeps expressions readable:
//
//	loss := pred.Sub(target).Pow(2)
type Value struct {
	g  *Graph
	id NodeID
}

// ID returns the node's index in its graph.
func (v Value) ID() NodeID {
	return v.id
}

// Graph returns the graph that owns the node, or nil for the zero Value.
func (v Value) Graph() *Graph {
	return v.g
}

// Valid reports whether v refers to a node.
func (v Value) Valid() bool {
	return v.g != nil
}

// Op returns the kind of operation that produced the node.
func (v Value) Op() ops.Kind {
	return v.node().op
}

// Data returns a copy of the node's forward value.
func (v Value) Data() lane.Lane {
	v.node()
	return v.g.dataLane(v.id).Clone()
}

// Grad returns a copy of the node's gradient as left by the last Backward call.
func (v Value) Grad() lane.Lane {
	v.node()
	return v.g.gradLane(v.id).Clone()
}

// Scalar returns the first element of the node's data: the value itself for a
// scalar graph.
func (v Value) Scalar() float64 {
	v.node()
	return v.g.dataLane(v.id)[0]
}

// GradScalar returns the first element of the node's gradient.
func (v Value) GradScalar() float64 {
	v.node()
	return v.g.gradLane(v.id)[0]
}

// Left returns the first operand, if any.
func (v Value) Left() (Value, bool) {
	return v.operand(v.node().left)
}

// Right returns the second operand, if any. Unary operations have none.
func (v Value) Right() (Value, bool) {
	return v.operand(v.node().right)
}

// Exponent returns a copy of the constant exponent of a Pow node.
func (v Value) Exponent() (lane.Lane, bool) {
	n := v.node()
	if n.op != ops.Pow {
		return nil, false
	}
	return v.g.consts.Lane(n.aux).Clone(), true
}

func (v Value) operand(id NodeID) (Value, bool) {
	if id == NoNode {
		return Value{}, false
	}
	return Value{g: v.g, id: id}, true
}

func (v Value) node() *node {
	if v.g == nil {
		panic("autodiff: use of zero Value")
	}
	v.g.mustContain(v.id)
	return &v.g.nodes[v.id]
}

// String formats the node as Value(op=Mul, data=[6], grad=[0]).
func (v Value) String() string {
	if v.g == nil {
		return "Value(<nil>)"
	}
	return fmt.Sprintf("Value(op=%v, data=%v, grad=%v)", v.Op(), v.g.dataLane(v.id), v.g.gradLane(v.id))
}

// Add returns v + other. Panics on error.
func (v Value) Add(other any) Value {
	return must(v.graph().Add(v, other))
}

// Mul returns v * other. Panics on error.
func (v Value) Mul(other any) Value {
	return must(v.graph().Mul(v, other))
}

// Sub returns v - other. Panics on error.
func (v Value) Sub(other any) Value {
	return must(v.graph().Sub(v, other))
}

// Div returns v / other. Panics on error.
func (v Value) Div(other any) Value {
	return must(v.graph().Div(v, other))
}

// Pow returns v ** exp. Panics on error.
func (v Value) Pow(exp any) Value {
	return must(v.graph().Pow(v, exp))
}

// Neg returns -v. Panics on error.
func (v Value) Neg() Value {
	return must(v.graph().Neg(v))
}

// Relu returns max(v, 0). Panics on error.
func (v Value) Relu() Value {
	return must(v.graph().Relu(v))
}

// Backward computes the gradient of v with respect to every node it depends on.
// Panics on error.
func (v Value) Backward() *Gradients {
	grads, err := v.graph().Backward(v)
	if err != nil {
		panic(err)
	}
	return grads
}

func (v Value) graph() *Graph {
	if v.g == nil {
		panic("autodiff: use of zero Value")
	}
	return v.g
}
