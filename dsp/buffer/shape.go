package buffer

import "fmt"

// Shape describes the extent of a Buffer. A 1-D buffer is stored as a single
// row with Dims == 1.
type Shape struct {
	Rows int
	Cols int
	Dims int
}

// Vector returns the shape of a 1-D buffer with n samples.
func Vector(n int) Shape {
	if n < 0 {
		n = 0
	}
	return Shape{Rows: 1, Cols: n, Dims: 1}
}

// Grid returns the shape of a 2-D buffer.
func Grid(rows, cols int) Shape {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return Shape{Rows: rows, Cols: cols, Dims: 2}
}

// Len returns the number of samples covered by the shape.
func (s Shape) Len() int {
	return s.Rows * s.Cols
}

// Is2D reports whether the shape is a grid.
func (s Shape) Is2D() bool {
	return s.Dims == 2
}

// String formats the shape as [n] or [rows x cols].
func (s Shape) String() string {
	if s.Is2D() {
		return fmt.Sprintf("[%dx%d]", s.Rows, s.Cols)
	}
	return fmt.Sprintf("[%d]", s.Cols)
}
