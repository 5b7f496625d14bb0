package autodiff

import "fmt"

// Tape is the linearized order of the nodes reachable from a root.
//
// Every reachable node appears exactly once, and after all of its operands, so the
// root is last. Walking the tape in reverse visits each node only after every one of
// its consumers, which is what lets Backward read a fully accumulated gradient and
// propagate it once.
type Tape struct {
	root  NodeID
	order []NodeID
}

// Root returns the node the tape was built from.
func (t *Tape) Root() NodeID {
	return t.root
}

// Len returns the number of distinct nodes on the tape.
func (t *Tape) Len() int {
	return len(t.order)
}

// Nodes returns the node IDs in operand-first order. The slice must not be modified.
func (t *Tape) Nodes() []NodeID {
	return t.order
}

// visit states used during linearization.
const (
	unvisited uint8 = iota
	expanded
	recorded
)

// stackItem is a node on the explicit DFS stack. A node is pushed once to expand its
// operands and once more, below them, to be recorded after they are.
type stackItem struct {
	id   NodeID
	emit bool
}

// Linearize records the nodes reachable from root in post-order.
//
// It uses an explicit stack rather than recursion so deep chains cannot exhaust the
// goroutine stack. Operands are pushed right then left, so the left subtree is
// recorded first.
func (g *Graph) Linearize(root Value) (*Tape, error) {
	if err := g.own("Linearize", root); err != nil {
		return nil, err
	}
	return g.linearize(root.id), nil
}

func (g *Graph) linearize(root NodeID) *Tape {
	state := make([]uint8, root+1)
	order := make([]NodeID, 0, root+1)
	stack := []stackItem{{id: root}}

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if item.emit {
			state[item.id] = recorded
			order = append(order, item.id)
			continue
		}

		if state[item.id] != unvisited {
			continue
		}
		state[item.id] = expanded

		n := &g.nodes[item.id]
		stack = append(stack, stackItem{id: item.id, emit: true})
		for _, operand := range [...]NodeID{n.right, n.left} {
			if operand == NoNode {
				continue
			}
			if g.cfg.CheckInvariants && operand >= item.id {
				panic(fmt.Sprintf("autodiff: node %d references operand %d that does not precede it", item.id, operand))
			}
			switch state[operand] {
			case unvisited:
				stack = append(stack, stackItem{id: operand})
			case expanded:
				// Expanded but not recorded means it is on the current path.
				panic(fmt.Sprintf("autodiff: cycle through node %d", operand))
			}
		}
	}

	return &Tape{root: root, order: order}
}
