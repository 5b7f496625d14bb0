package autodiff

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/born-ml/lanegrad/internal/autodiff/ops"
	"github.com/born-ml/lanegrad/internal/lane"
)

// Backward computes the gradient of root with respect to every node it depends on.
//
// Algorithm:
//  1. Linearize the nodes reachable from root (each node exactly once)
//  2. Zero every gradient in the graph and seed root's gradient with ones
//  3. Walk the tape from root toward the leaves; each node propagates its
//     gradient to its operands once, via its operation's chain rule
//  4. Operand gradients accumulate, so a node used along several paths
//     receives the sum of every path's contribution
//
// Gradients are written onto the nodes (see Value.Grad) and also returned as a
// snapshot that later Backward calls do not change. Calling Backward again with
// the same root yields the same gradients.
func (g *Graph) Backward(root Value) (*Gradients, error) {
	if err := g.own("Backward", root); err != nil {
		return nil, err
	}

	tape := g.linearize(root.id)

	g.grads.Fill(0)
	g.gradLane(root.id).Fill(1)

	var propagated []bool
	if g.cfg.CheckInvariants {
		propagated = make([]bool, root.id+1)
	}

	order := tape.order
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		n := &g.nodes[id]
		if n.op == ops.None {
			continue
		}
		if propagated != nil {
			propagated[id] = true
			g.checkPending(id, n, propagated)
		}
		ops.For(n.op).Backward(g.gradLane(id), g.dataLane(id), g.operands(n), g.operandGrads(n))
	}

	return g.snapshot(tape), nil
}

// checkPending asserts that n's operands have not propagated yet. Accumulating into
// an operand after it propagated would silently drop this contribution.
func (g *Graph) checkPending(id NodeID, n *node, propagated []bool) {
	for _, operand := range [...]NodeID{n.left, n.right} {
		if operand != NoNode && propagated[operand] {
			panic(fmt.Sprintf("autodiff: node %d accumulates into operand %d after it propagated", id, operand))
		}
	}
}

// own checks that v is a node of g.
func (g *Graph) own(op string, v Value) error {
	if v.g != g {
		return errors.Wrapf(ErrForeignValue, "%s: root %d", op, v.id)
	}
	g.mustContain(v.id)
	return nil
}

// snapshot copies the gradients of every node on the tape.
func (g *Graph) snapshot(tape *Tape) *Gradients {
	order := tape.order
	flat := make([]float64, len(order)*g.cfg.Width)
	grads := make(map[NodeID]lane.Lane, len(order))
	for i, id := range order {
		l := lane.Lane(flat[i*g.cfg.Width : (i+1)*g.cfg.Width : (i+1)*g.cfg.Width])
		copy(l, g.gradLane(id))
		grads[id] = l
	}
	return &Gradients{g: g, root: tape.root, width: g.cfg.Width, grads: grads}
}

// Gradients maps each node reachable from a root to d(root)/d(node).
//
// When the root is a vector, the gradient is that of the sum of its lanes.
type Gradients struct {
	g     *Graph
	root  NodeID
	width int
	grads map[NodeID]lane.Lane
}

// Root returns the node the gradients were computed for.
func (gr *Gradients) Root() Value {
	return Value{g: gr.g, id: gr.root}
}

// Of returns a copy of the gradient for v. Nodes that root does not depend on
// (including Values from another graph) have a zero gradient.
func (gr *Gradients) Of(v Value) lane.Lane {
	if l, ok := gr.lookup(v); ok {
		return l.Clone()
	}
	return make(lane.Lane, gr.width)
}

// Has reports whether v was reachable from the root.
func (gr *Gradients) Has(v Value) bool {
	_, ok := gr.lookup(v)
	return ok
}

// Len returns the number of nodes reachable from the root.
func (gr *Gradients) Len() int {
	return len(gr.grads)
}

// Range calls f for every reachable node in unspecified order until f returns false.
func (gr *Gradients) Range(f func(v Value, grad lane.Lane) bool) {
	for id, l := range gr.grads {
		if !f(Value{g: gr.g, id: id}, l.Clone()) {
			return
		}
	}
}

func (gr *Gradients) lookup(v Value) (lane.Lane, bool) {
	if v.g != gr.g {
		return nil, false
	}
	l, ok := gr.grads[v.id]
	return l, ok
}
