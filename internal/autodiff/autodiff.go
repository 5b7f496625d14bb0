// Package autodiff implements reverse-mode automatic differentiation over a graph of lanes.
//
// A Graph is an append-only arena of nodes. Every node holds a lane of W float64
// values (W = 1 for scalars) and records the operation that produced it. Operands are
// referenced by NodeID, an index into the arena, so nodes never point at memory that
// can go away before the graph does.
//
// Architecture:
//   - Graph: owns the node arena and the lane buffers (values, grads, constants)
//   - Builder methods (Leaf, Add, Mul, Pow, Relu and sugar): compute the forward
//     value and append a node
//   - ops.Operation: forward computation and chain rule per operation kind
//   - Backward: linearizes the nodes reachable from a root and applies the chain
//     rules once per node in reverse order
//
// Usage:
//
//	g := autodiff.MustNewGraph(1)
//	x := g.MustLeaf(2.0)
//	y := x.Mul(x) // y = x²
//
//	grads := y.Backward()
//	fmt.Println(grads.Of(x)) // dy/dx = 2x = [4]
//
// A Graph is not safe for concurrent use.
package autodiff

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/born-ml/lanegrad/internal/autodiff/ops"
	"github.com/born-ml/lanegrad/internal/lane"
)

// NodeID indexes a node in its graph's arena.
type NodeID int32

// NoNode marks an absent operand.
const NoNode NodeID = -1

// Config controls graph construction.
type Config struct {
	Width           int  // Lane width; 1 for scalar graphs.
	Capacity        int  // Expected number of nodes, used to pre-size the arena.
	CheckInvariants bool // Verify operand ordering and accumulation order during Backward.
}

// DefaultConfig returns a scalar configuration with invariant checks enabled.
func DefaultConfig() Config {
	return Config{
		Width:           1,
		Capacity:        64,
		CheckInvariants: true,
	}
}

// node is one arena entry. Its grad lives in the grads buffer at the same span as
// its data in the values buffer.
type node struct {
	op    ops.Kind
	left  NodeID
	right NodeID
	span  lane.Span
	aux   lane.Span // Exponent in the constants buffer; only set for Pow.
}

// Graph is an append-only arena of nodes sharing one lane width.
type Graph struct {
	cfg   Config
	nodes []node

	alloc  lane.Allocator // Layout shared by values and grads.
	values *lane.Buffer
	grads  *lane.Buffer

	constAlloc lane.Allocator
	consts     *lane.Buffer
}

// NewGraph creates an empty graph.
func NewGraph(cfg Config) (*Graph, error) {
	if cfg.Width < 1 {
		return nil, errors.Wrapf(ErrInvalidWidth, "NewGraph: width %d", cfg.Width)
	}
	capacity := max(cfg.Capacity, 0)
	return &Graph{
		cfg:    cfg,
		nodes:  make([]node, 0, capacity),
		values: lane.NewBuffer(capacity * cfg.Width),
		grads:  lane.NewBuffer(capacity * cfg.Width),
		consts: lane.NewBuffer(0),
	}, nil
}

// MustNewGraph creates a graph of the given width with default settings.
// Panics if width is below 1.
func MustNewGraph(width int) *Graph {
	cfg := DefaultConfig()
	cfg.Width = width
	g, err := NewGraph(cfg)
	if err != nil {
		panic(err)
	}
	return g
}

// Width returns the lane width shared by every node.
func (g *Graph) Width() int {
	return g.cfg.Width
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Value returns the handle of node id.
// Panics if id is out of range.
func (g *Graph) Value(id NodeID) Value {
	g.mustContain(id)
	return Value{g: g, id: id}
}

// ZeroGrad resets every gradient in the graph to zero.
func (g *Graph) ZeroGrad() {
	g.grads.Fill(0)
}

// Stats describes the storage used by a graph.
type Stats struct {
	Nodes      int // Nodes in the arena.
	Leaves     int // Nodes with op None.
	ValueElems int // Elements in the values buffer (and the grads buffer).
	ConstElems int // Elements in the constants buffer.
}

// Stats returns the current storage statistics.
func (g *Graph) Stats() Stats {
	s := Stats{
		Nodes:      len(g.nodes),
		ValueElems: g.values.Len(),
		ConstElems: g.consts.Len(),
	}
	for i := range g.nodes {
		if g.nodes[i].op == ops.None {
			s.Leaves++
		}
	}
	return s
}

// newNode appends a node and reserves its data and grad lanes.
// Operands must already exist, which keeps the arena topologically ordered.
func (g *Graph) newNode(op ops.Kind, left, right NodeID, aux lane.Span) NodeID {
	id := NodeID(len(g.nodes))
	for _, operand := range [...]NodeID{left, right} {
		if operand != NoNode && (operand < 0 || operand >= id) {
			panic(fmt.Sprintf("autodiff: %v node %d references operand %d that does not precede it", op, id, operand))
		}
	}
	if (op == ops.None) != (left == NoNode && right == NoNode) {
		panic(fmt.Sprintf("autodiff: %v node %d has operands (%d, %d)", op, id, left, right))
	}

	span := g.alloc.Alloc(g.cfg.Width)
	g.values.Ensure(g.alloc.Size())
	g.grads.Ensure(g.alloc.Size())

	g.nodes = append(g.nodes, node{
		op:    op,
		left:  left,
		right: right,
		span:  span,
		aux:   aux,
	})
	return id
}

// newConst stores a constant lane outside the node arena.
func (g *Graph) newConst(l lane.Lane) lane.Span {
	span := g.constAlloc.Alloc(g.cfg.Width)
	g.consts.Ensure(g.constAlloc.Size())
	copy(g.consts.Lane(span), l)
	return span
}

func (g *Graph) mustContain(id NodeID) {
	if id < 0 || int(id) >= len(g.nodes) {
		panic(fmt.Sprintf("autodiff: node %d out of range [0, %d)", id, len(g.nodes)))
	}
}

func (g *Graph) dataLane(id NodeID) lane.Lane {
	return g.values.Lane(g.nodes[id].span)
}

func (g *Graph) gradLane(id NodeID) lane.Lane {
	return g.grads.Lane(g.nodes[id].span)
}

// operands returns the lanes node n reads.
func (g *Graph) operands(n *node) ops.Operands {
	var in ops.Operands
	if n.left != NoNode {
		in.Left = g.dataLane(n.left)
	}
	if n.right != NoNode {
		in.Right = g.dataLane(n.right)
	}
	if n.op == ops.Pow {
		in.Aux = g.consts.Lane(n.aux)
	}
	return in
}

// operandGrads returns the accumulators of node n's operands.
func (g *Graph) operandGrads(n *node) ops.Grads {
	var grads ops.Grads
	if n.left != NoNode {
		grads.Left = g.gradLane(n.left)
	}
	if n.right != NoNode {
		grads.Right = g.gradLane(n.right)
	}
	return grads
}
