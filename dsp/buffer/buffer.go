package buffer

import (
	"errors"
	"fmt"
)

// ErrInvalidShape is returned when sample data does not fit the requested shape.
var ErrInvalidShape = errors.New("buffer: data does not match shape")

// Buffer wraps a float64 slice with a fixed 1-D or 2-D shape.
// Samples are stored row-major.
type Buffer struct {
	samples []float64
	shape   Shape
}

// New returns a zero-filled 1-D Buffer of the given length.
func New(length int) *Buffer {
	return NewShape(Vector(length))
}

// NewGrid returns a zero-filled 2-D Buffer.
func NewGrid(rows, cols int) *Buffer {
	return NewShape(Grid(rows, cols))
}

// NewShape returns a zero-filled Buffer with the given shape.
func NewShape(shape Shape) *Buffer {
	if shape.Dims != 2 {
		shape = Vector(shape.Len())
	}
	return &Buffer{samples: make([]float64, shape.Len()), shape: shape}
}

// FromSlice wraps an existing slice as a 1-D Buffer without copying.
// Mutations to the slice are visible through the Buffer and vice versa.
func FromSlice(s []float64) *Buffer {
	return &Buffer{samples: s, shape: Vector(len(s))}
}

// FromGrid wraps s as a rows x cols grid without copying.
func FromGrid(rows, cols int, s []float64) (*Buffer, error) {
	if rows < 0 || cols < 0 || rows*cols != len(s) {
		return nil, fmt.Errorf("%w: %d samples for [%dx%d]", ErrInvalidShape, len(s), rows, cols)
	}
	return &Buffer{samples: s, shape: Grid(rows, cols)}, nil
}

// FromRows copies a jagged-free [][]float64 into a new grid Buffer.
func FromRows(rows [][]float64) (*Buffer, error) {
	if len(rows) == 0 {
		return NewGrid(0, 0), nil
	}
	cols := len(rows[0])
	b := NewGrid(len(rows), cols)
	for r, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidShape, r, len(row), cols)
		}
		copy(b.Row(r), row)
	}
	return b, nil
}

// Samples returns the underlying slice.
func (b *Buffer) Samples() []float64 {
	return b.samples
}

// Len returns the number of samples.
func (b *Buffer) Len() int {
	return len(b.samples)
}

// Shape returns the buffer shape.
func (b *Buffer) Shape() Shape {
	return b.shape
}

// Rows returns the number of rows (1 for a vector).
func (b *Buffer) Rows() int {
	return b.shape.Rows
}

// Cols returns the number of columns (the length for a vector).
func (b *Buffer) Cols() int {
	return b.shape.Cols
}

// Row returns row r as a sub-slice sharing memory with the buffer.
func (b *Buffer) Row(r int) []float64 {
	start := r * b.shape.Cols
	return b.samples[start : start+b.shape.Cols : start+b.shape.Cols]
}

// At returns the sample at (r, c).
func (b *Buffer) At(r, c int) float64 {
	return b.samples[r*b.shape.Cols+c]
}

// Set stores v at (r, c).
func (b *Buffer) Set(r, c int, v float64) {
	b.samples[r*b.shape.Cols+c] = v
}

// Zero sets all samples to 0.
func (b *Buffer) Zero() {
	for i := range b.samples {
		b.samples[i] = 0
	}
}

// ZeroRange sets samples in [start, end) to 0.
// Indices are clamped to valid bounds.
func (b *Buffer) ZeroRange(start, end int) {
	if start < 0 {
		start = 0
	}
	if end > len(b.samples) {
		end = len(b.samples)
	}
	for i := start; i < end; i++ {
		b.samples[i] = 0
	}
}

// Copy returns a deep copy of the buffer with the same shape.
func (b *Buffer) Copy() *Buffer {
	s := make([]float64, len(b.samples))
	copy(s, b.samples)
	return &Buffer{samples: s, shape: b.shape}
}

// Like returns a zero-filled buffer with the same shape as b.
func (b *Buffer) Like() *Buffer {
	return NewShape(b.shape)
}

// Equal reports whether o has the same shape and bit-identical samples.
// NaN samples compare equal to NaN at the same position.
func (b *Buffer) Equal(o *Buffer) bool {
	if b == nil || o == nil {
		return b == o
	}
	if b.shape != o.shape {
		return false
	}
	for i, v := range b.samples {
		w := o.samples[i]
		if v != w && (v == v || w == w) {
			return false
		}
	}
	return true
}

// reset replaces the shape and reuses capacity when possible. Only the pool
// calls it; a Buffer handed to a caller never changes shape.
func (b *Buffer) reset(shape Shape) {
	n := shape.Len()
	if cap(b.samples) >= n {
		b.samples = b.samples[:n]
	} else {
		b.samples = make([]float64, n)
	}
	b.shape = shape
}
