package lane

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcast(t *testing.T) {
	l := Broadcast(3, 4)
	assert.Equal(t, Lane{3, 3, 3, 3}, l)
	assert.Equal(t, 4, l.Width())
}

func TestLane_CloneDoesNotAlias(t *testing.T) {
	l := Lane{1, 2}
	c := l.Clone()
	c[0] = 9
	assert.Equal(t, 1.0, l[0])
}

func TestLane_Equal(t *testing.T) {
	assert.True(t, Lane{1, 2}.Equal(Lane{1, 2}))
	assert.False(t, Lane{1, 2}.Equal(Lane{1, 3}))
	assert.False(t, Lane{1, 2}.Equal(Lane{1}))
	assert.False(t, Lane{math.NaN()}.Equal(Lane{math.NaN()}))
	assert.True(t, Lane{1, 2}.EqualApprox(Lane{1 + 1e-12, 2}, 1e-9))
}

func TestKernels(t *testing.T) {
	a := Lane{1, 2, 3, -4}
	b := Lane{3, 3, 3, 3}
	dst := make(Lane, 4)

	AddTo(dst, a, b)
	assert.Equal(t, Lane{4, 5, 6, -1}, dst)

	MulTo(dst, a, b)
	assert.Equal(t, Lane{3, 6, 9, -12}, dst)

	PowTo(dst, a, Lane{2, 0, -1, 2})
	assert.Equal(t, Lane{1, 1, 1.0 / 3, 16}, dst)

	ReluTo(dst, a)
	assert.Equal(t, Lane{1, 2, 3, 0}, dst)
}

func TestReluTo_NaN(t *testing.T) {
	dst := make(Lane, 1)
	ReluTo(dst, Lane{math.NaN()})
	assert.Equal(t, 0.0, dst[0])
}

func TestAccumulateKernels(t *testing.T) {
	dst := Lane{1, 1, 1}

	Accumulate(dst, Lane{1, 2, 3})
	assert.Equal(t, Lane{2, 3, 4}, dst)

	AccumulateProduct(dst, Lane{2, 2, 2}, Lane{1, 0, -1})
	assert.Equal(t, Lane{4, 3, 2}, dst)

	AccumulateMasked(dst, Lane{1, 0, -1}, Lane{10, 10, 10})
	assert.Equal(t, Lane{14, 3, 2}, dst)

	dst.Fill(0)
	// d/dx x^3 at x=2 is 12, scaled by g=0.5.
	AccumulatePowGrad(dst, Lane{2, 2, 2}, Lane{3, 3, 3}, Lane{0.5, 0.5, 0.5})
	assert.Equal(t, Lane{6, 6, 6}, dst)
}

func TestAllocator(t *testing.T) {
	var a Allocator

	s1 := a.Alloc(4)
	s2 := a.Alloc(4)
	s3 := a.Alloc(1)

	assert.Equal(t, Span{Offset: 0, Width: 4}, s1)
	assert.Equal(t, Span{Offset: 4, Width: 4}, s2)
	assert.Equal(t, Span{Offset: 8, Width: 1}, s3)
	assert.Equal(t, 9, a.Size())
	assert.Equal(t, 3, a.Spans())
	assert.Equal(t, "[4:8]", s2.String())

	a.Reset()
	assert.Equal(t, 0, a.Size())
	assert.Equal(t, Span{Offset: 0, Width: 2}, a.Alloc(2))
}

func TestAllocator_InvalidWidth(t *testing.T) {
	var a Allocator
	assert.Panics(t, func() { a.Alloc(0) })
}

func TestBuffer_EnsureAndLane(t *testing.T) {
	var a Allocator
	buf := NewBuffer(2)

	s1 := a.Alloc(2)
	buf.Ensure(a.Size())
	copy(buf.Lane(s1), []float64{1, 2})

	// Force growth past the initial capacity; earlier contents survive.
	s2 := a.Alloc(8)
	buf.Ensure(a.Size())
	require.Equal(t, 10, buf.Len())
	assert.Equal(t, Lane{1, 2}, buf.Lane(s1))
	assert.Equal(t, make(Lane, 8), buf.Lane(s2))

	// Lanes are capacity-limited.
	l := buf.Lane(s1)
	_ = append(l, 99)
	assert.Equal(t, 0.0, buf.Lane(s2)[0])

	buf.Fill(7)
	assert.Equal(t, Lane{7, 7}, buf.Lane(s1))
}

func TestBuffer_EnsureReusesCapacity(t *testing.T) {
	buf := NewBuffer(8)
	buf.Ensure(2)
	buf.Fill(5)
	buf.Ensure(4)
	assert.Equal(t, Lane{5, 5, 0, 0}, buf.Lane(Span{Offset: 0, Width: 4}))
}

func TestBuffer_LaneOutOfRange(t *testing.T) {
	buf := NewBuffer(0)
	buf.Ensure(2)
	assert.Panics(t, func() { buf.Lane(Span{Offset: 1, Width: 2}) })
}
