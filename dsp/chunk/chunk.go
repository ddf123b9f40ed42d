// Package chunk partitions buffers into contiguous chunks and reassembles
// them.
//
// Chunks tile their parent exactly: 1-D chunk k covers samples
// [k*size, min((k+1)*size, n)), and 2-D chunks tile the grid in row-major
// order with smaller chunks along the right and bottom edges. Merge checks
// that a chunk list matches this layout and never truncates or pads, so
// Merge(Split(b, s), b.Shape()) reproduces b for every s >= 1.
package chunk

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-chunkflow/dsp/buffer"
)

var (
	// ErrInvalidChunkSize is returned for chunk sizes below 1.
	ErrInvalidChunkSize = errors.New("chunk: chunk size must be at least 1")
	// ErrShapeMismatch is wrapped by ShapeMismatchError.
	ErrShapeMismatch = errors.New("chunk: shape mismatch")
)

// ShapeMismatchError reports a chunk whose origin or shape does not match
// the expected layout.
type ShapeMismatchError struct {
	Index int
	Got   buffer.Shape
	Want  buffer.Shape
	// Reason is set when the mismatch is not about the extent itself,
	// for example a wrong origin or chunk count.
	Reason string
}

func (e *ShapeMismatchError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("chunk: shape mismatch at chunk %d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("chunk: shape mismatch at chunk %d: got %v, want %v", e.Index, e.Got, e.Want)
}

func (e *ShapeMismatchError) Unwrap() error { return ErrShapeMismatch }

// Chunk is a contiguous piece of a parent buffer together with its origin.
type Chunk struct {
	// Index is the position in split order.
	Index int
	// Row and Col locate the first sample in the parent. 1-D chunks have
	// Row == 0 and Col equal to the sample offset.
	Row, Col int
	Data     *buffer.Buffer
}

// WithData returns a copy of c carrying d in place of its data.
func (c Chunk) WithData(d *buffer.Buffer) Chunk {
	c.Data = d
	return c
}

// Layout describes how a shape is tiled by chunks.
type Layout struct {
	Shape     buffer.Shape
	ChunkRows int
	ChunkCols int
}

// NewLayout returns the layout for chunks of size samples. Grids are cut
// into 1 x size tiles.
func NewLayout(shape buffer.Shape, size int) (Layout, error) {
	if size < 1 {
		return Layout{}, fmt.Errorf("%w: %d", ErrInvalidChunkSize, size)
	}
	return Layout{Shape: shape, ChunkRows: 1, ChunkCols: size}, nil
}

// NewGridLayout returns the layout for rows x cols tiles of a grid.
func NewGridLayout(shape buffer.Shape, rows, cols int) (Layout, error) {
	if rows < 1 || cols < 1 {
		return Layout{}, fmt.Errorf("%w: %dx%d", ErrInvalidChunkSize, rows, cols)
	}
	return Layout{Shape: shape, ChunkRows: rows, ChunkCols: cols}, nil
}

// GridRows returns the number of chunk rows.
func (l Layout) GridRows() int { return ceilDiv(l.Shape.Rows, l.ChunkRows) }

// GridCols returns the number of chunk columns.
func (l Layout) GridCols() int { return ceilDiv(l.Shape.Cols, l.ChunkCols) }

// Count returns the number of chunks. A zero-length shape has no chunks.
func (l Layout) Count() int {
	if l.Shape.Len() == 0 {
		return 0
	}
	return l.GridRows() * l.GridCols()
}

// Origin returns the row and column of chunk i.
func (l Layout) Origin(i int) (row, col int) {
	gc := l.GridCols()
	return (i / gc) * l.ChunkRows, (i % gc) * l.ChunkCols
}

// ChunkShape returns the shape of chunk i.
func (l Layout) ChunkShape(i int) buffer.Shape {
	r0, c0 := l.Origin(i)
	rows := min(l.ChunkRows, l.Shape.Rows-r0)
	cols := min(l.ChunkCols, l.Shape.Cols-c0)
	if l.Shape.Is2D() {
		return buffer.Grid(rows, cols)
	}
	return buffer.Vector(cols)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
