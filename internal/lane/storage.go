package lane

import "fmt"

// Span locates one lane inside a Buffer.
type Span struct {
	Offset int
	Width  int
}

// End returns the offset one past the last element.
func (s Span) End() int {
	return s.Offset + s.Width
}

// String formats the span as [offset:end].
func (s Span) String() string {
	return fmt.Sprintf("[%d:%d]", s.Offset, s.End())
}

// Allocator hands out consecutive, non-overlapping spans of a contiguous region.
// Spans are never freed individually; Reset releases all of them at once.
//
// The zero value is ready to use.
type Allocator struct {
	size  int
	spans int
}

// Alloc reserves width elements and returns their span.
// Panics if width is not positive.
func (a *Allocator) Alloc(width int) Span {
	if width <= 0 {
		panic(fmt.Sprintf("lane: invalid span width %d", width))
	}
	s := Span{Offset: a.size, Width: width}
	a.size += width
	a.spans++
	return s
}

// Size returns the number of elements reserved so far.
func (a *Allocator) Size() int {
	return a.size
}

// Spans returns the number of spans handed out.
func (a *Allocator) Spans() int {
	return a.spans
}

// Reset forgets every span handed out so far.
func (a *Allocator) Reset() {
	a.size = 0
	a.spans = 0
}

// Buffer is a growable contiguous float64 store.
//
// Lanes returned by Lane alias the buffer until the next call to Ensure that
// grows it; do not hold a lane across a growth.
type Buffer struct {
	data []float64
}

// NewBuffer creates an empty buffer with room for capacity elements.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{data: make([]float64, 0, max(capacity, 0))}
}

// Ensure grows the buffer to at least size elements. New elements are zero.
func (b *Buffer) Ensure(size int) {
	if size <= len(b.data) {
		return
	}
	if size <= cap(b.data) {
		old := len(b.data)
		b.data = b.data[:size]
		clear(b.data[old:])
		return
	}
	grown := make([]float64, size, max(size, 2*cap(b.data)))
	copy(grown, b.data)
	b.data = grown
}

// Lane returns the lane stored at s.
// The returned lane is capacity-limited so appending to it never clobbers a neighbor.
func (b *Buffer) Lane(s Span) Lane {
	if s.Offset < 0 || s.End() > len(b.data) {
		panic(fmt.Sprintf("lane: span %v out of range for buffer of length %d", s, len(b.data)))
	}
	return Lane(b.data[s.Offset:s.End():s.End()])
}

// Fill sets every element to x.
func (b *Buffer) Fill(x float64) {
	Lane(b.data).Fill(x)
}

// Len returns the number of elements in the buffer.
func (b *Buffer) Len() int {
	return len(b.data)
}
