package autodiff_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/lanegrad/internal/autodiff"
	"github.com/born-ml/lanegrad/internal/lane"
)

// TestBackward_EndToEnd tests the canonical regression case:
// c = a*b, d = c+b, e = d².
func TestBackward_EndToEnd(t *testing.T) {
	g := autodiff.MustNewGraph(1)
	a := g.MustLeaf(2.0)
	b := g.MustLeaf(3.0)
	c := a.Mul(b)
	d := c.Add(b)
	e := d.Pow(2)

	require.Equal(t, 9.0, d.Scalar())
	require.Equal(t, 81.0, e.Scalar())

	grads := e.Backward()

	assert.Equal(t, 1.0, e.GradScalar())
	assert.Equal(t, 18.0, d.GradScalar())
	assert.Equal(t, 18.0, c.GradScalar())
	assert.Equal(t, 54.0, b.GradScalar())
	assert.Equal(t, 54.0, a.GradScalar())

	// The snapshot agrees with the values left on the nodes.
	for _, v := range []autodiff.Value{a, b, c, d, e} {
		assert.Equal(t, v.Grad(), grads.Of(v))
	}
	assert.Equal(t, e, grads.Root())
	assert.Equal(t, 5, grads.Len())
}

// TestBackward_Additivity tests d(a+b)/da = d(a+b)/db = 1.
func TestBackward_Additivity(t *testing.T) {
	g := autodiff.MustNewGraph(1)
	a := g.MustLeaf(1.5)
	b := g.MustLeaf(-4.0)
	c := a.Add(b)

	c.Backward()

	assert.Equal(t, c.Grad(), a.Grad())
	assert.Equal(t, c.Grad(), b.Grad())
}

// TestBackward_ProductRule tests d(a*b)/da = b and d(a*b)/db = a.
func TestBackward_ProductRule(t *testing.T) {
	g := autodiff.MustNewGraph(3)
	a := g.MustLeaf([]float64{1, 2, 3})
	b := g.MustLeaf([]float64{4, -5, 6})
	c := a.Mul(b)

	c.Backward()

	assert.Equal(t, lane.Lane{4, -5, 6}, a.Grad())
	assert.Equal(t, lane.Lane{1, 2, 3}, b.Grad())
}

// TestBackward_PowerRule tests d(a^k)/da = k*a^(k-1).
func TestBackward_PowerRule(t *testing.T) {
	tests := []struct {
		name string
		x    float64
		k    float64
		want float64
	}{
		{"square", 3, 2, 6},
		{"cube", 2, 3, 12},
		{"zero exponent", 5, 0, 0},
		{"reciprocal", 2, -1, -0.25},
		{"sqrt", 4, 0.5, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := autodiff.MustNewGraph(1)
			a := g.MustLeaf(tt.x)
			b := a.Pow(tt.k)
			b.Backward()
			assert.InDelta(t, tt.want*b.GradScalar(), a.GradScalar(), 1e-12)
		})
	}
}

// TestBackward_ReluGating tests that gradient only flows through active lanes.
func TestBackward_ReluGating(t *testing.T) {
	g := autodiff.MustNewGraph(4)
	a := g.MustLeaf([]float64{-3, 0, 0.5, 2})
	b := a.Relu()
	c := b.Mul([]float64{10, 10, 10, 10})

	c.Backward()

	assert.Equal(t, lane.Lane{10, 10, 10, 10}, b.Grad())
	assert.Equal(t, lane.Lane{0, 0, 10, 10}, a.Grad())
}

// TestBackward_Diamond tests that a node shared by several paths receives the sum.
func TestBackward_Diamond(t *testing.T) {
	t.Run("a*a", func(t *testing.T) {
		g := autodiff.MustNewGraph(1)
		a := g.MustLeaf(3.0)
		a.Mul(a).Backward()
		assert.Equal(t, 6.0, a.GradScalar())
	})

	t.Run("a+a", func(t *testing.T) {
		g := autodiff.MustNewGraph(1)
		a := g.MustLeaf(3.0)
		a.Add(a).Backward()
		assert.Equal(t, 2.0, a.GradScalar())
	})

	// d = (2a²)² = 4a⁴, so dd/da = 16a³. Re-descending through the shared
	// nodes once per incoming edge would inflate this.
	t.Run("nested", func(t *testing.T) {
		g := autodiff.MustNewGraph(1)
		a := g.MustLeaf(2.0)
		b := a.Mul(a)
		c := b.Add(b)
		d := c.Mul(c)

		d.Backward()

		assert.Equal(t, 64.0, d.Scalar())
		assert.Equal(t, 16.0, c.GradScalar())
		assert.Equal(t, 32.0, b.GradScalar())
		assert.Equal(t, 128.0, a.GradScalar())
	})

	t.Run("two consumers", func(t *testing.T) {
		g := autodiff.MustNewGraph(1)
		x := g.MustLeaf(3.0)
		y := x.Mul(2)
		z := x.Pow(2)
		out := y.Add(z) // 2x + x², d/dx = 2 + 2x

		out.Backward()
		assert.Equal(t, 8.0, x.GradScalar())
	})
}

// TestBackward_SubDiv tests gradients through the sugar operations.
func TestBackward_SubDiv(t *testing.T) {
	g := autodiff.MustNewGraph(1)
	a := g.MustLeaf(6.0)
	b := g.MustLeaf(3.0)

	s := a.Sub(b)
	s.Backward()
	assert.Equal(t, 1.0, a.GradScalar())
	assert.Equal(t, -1.0, b.GradScalar())

	q := a.Div(b)
	q.Backward()
	assert.InDelta(t, 1.0/3, a.GradScalar(), 1e-12)
	assert.InDelta(t, -6.0/9, b.GradScalar(), 1e-12)

	n := a.Neg()
	n.Backward()
	assert.Equal(t, -1.0, a.GradScalar())
	assert.Equal(t, 0.0, b.GradScalar(), "b is not reachable from -a")
}

// TestBackward_Idempotent tests that re-evaluating an unchanged graph repeats the result.
func TestBackward_Idempotent(t *testing.T) {
	g := autodiff.MustNewGraph(2)
	a := g.MustLeaf([]float64{2, -1})
	b := g.MustLeaf([]float64{3, 4})
	out := a.Mul(b).Add(b).Relu().Pow(2)

	first := out.Backward()
	firstA, firstB := a.Grad(), b.Grad()

	second := out.Backward()

	assert.Equal(t, firstA, a.Grad())
	assert.Equal(t, firstB, b.Grad())
	assert.Equal(t, first.Of(a), second.Of(a))
	assert.Equal(t, first.Of(b), second.Of(b))
}

// TestBackward_SnapshotIsStable tests that a later Backward does not change an earlier result.
func TestBackward_SnapshotIsStable(t *testing.T) {
	g := autodiff.MustNewGraph(1)
	a := g.MustLeaf(2.0)
	sq := a.Pow(2)
	cube := a.Pow(3)

	first := sq.Backward()
	cube.Backward()

	assert.Equal(t, lane.Lane{4}, first.Of(a))
	assert.Equal(t, lane.Lane{12}, a.Grad())
	assert.False(t, first.Has(cube))
	assert.Equal(t, lane.Lane{0}, sq.Grad(), "unreachable nodes are reset to zero")
}

// TestBackward_ExponentNodeIsConstant tests that a Value used as an exponent gets no gradient.
func TestBackward_ExponentNodeIsConstant(t *testing.T) {
	g := autodiff.MustNewGraph(2)
	x := g.MustLeaf([]float64{2, 3})
	k := g.MustLeaf([]float64{3, 2})
	p := x.Pow(k)

	grads := p.Backward()

	assert.Equal(t, lane.Lane{12, 6}, x.Grad())
	assert.Equal(t, lane.Lane{0, 0}, k.Grad())
	assert.False(t, grads.Has(k))
	assert.Equal(t, lane.Lane{0, 0}, grads.Of(k))
}

// TestBackward_ExponentNodeAlsoOperand tests a node used both as base and exponent.
func TestBackward_ExponentNodeAlsoOperand(t *testing.T) {
	g := autodiff.MustNewGraph(1)
	x := g.MustLeaf(2.0)
	p := x.Pow(x) // treated as x^2 with constant exponent 2

	p.Backward()
	assert.Equal(t, 4.0, p.Scalar())
	assert.Equal(t, 4.0, x.GradScalar())
}

func TestBackward_LeafRoot(t *testing.T) {
	g := autodiff.MustNewGraph(3)
	a := g.MustLeaf(1.0)

	grads := a.Backward()
	assert.Equal(t, lane.Lane{1, 1, 1}, grads.Of(a))
	assert.Equal(t, 1, grads.Len())
}

func TestBackward_ForeignRoot(t *testing.T) {
	g := autodiff.MustNewGraph(1)
	other := autodiff.MustNewGraph(1)
	v := other.MustLeaf(1.0)

	_, err := g.Backward(v)
	assert.True(t, errors.Is(err, autodiff.ErrForeignValue))

	_, err = g.Backward(autodiff.Value{})
	assert.True(t, errors.Is(err, autodiff.ErrForeignValue))
}

func TestGradients_OfForeignValue(t *testing.T) {
	g := autodiff.MustNewGraph(2)
	other := autodiff.MustNewGraph(2)
	a := g.MustLeaf(1.0)
	grads := a.Backward()

	assert.Equal(t, lane.Lane{0, 0}, grads.Of(other.MustLeaf(1.0)))
}

func TestGradients_Range(t *testing.T) {
	g := autodiff.MustNewGraph(1)
	a := g.MustLeaf(2.0)
	b := g.MustLeaf(5.0)
	grads := a.Mul(b).Backward()

	seen := map[autodiff.NodeID]float64{}
	grads.Range(func(v autodiff.Value, grad lane.Lane) bool {
		seen[v.ID()] = grad[0]
		return true
	})
	assert.Equal(t, map[autodiff.NodeID]float64{a.ID(): 5, b.ID(): 2, 2: 1}, seen)

	calls := 0
	grads.Range(func(autodiff.Value, lane.Lane) bool {
		calls++
		return false
	})
	assert.Equal(t, 1, calls)
}

func TestZeroGrad(t *testing.T) {
	g := autodiff.MustNewGraph(1)
	a := g.MustLeaf(2.0)
	a.Mul(a).Backward()
	require.Equal(t, 4.0, a.GradScalar())

	g.ZeroGrad()
	assert.Equal(t, 0.0, a.GradScalar())
}

// TestBackward_DeepChain tests that linearization does not recurse per node.
func TestBackward_DeepChain(t *testing.T) {
	cfg := autodiff.DefaultConfig()
	cfg.Capacity = 200_001
	g, err := autodiff.NewGraph(cfg)
	require.NoError(t, err)

	x := g.MustLeaf(1.0)
	y := x
	for i := 0; i < 100_000; i++ {
		y = y.Add(x)
	}

	y.Backward()
	assert.Equal(t, 100_001.0, x.GradScalar())
}
