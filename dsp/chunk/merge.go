package chunk

import (
	"fmt"

	"github.com/cwbudde/algo-chunkflow/dsp/buffer"
)

// Merge reassembles chunks into a buffer of the given shape. The chunks must
// be in split order and each must have exactly the origin and extent the
// layout for shape assigns to its position; otherwise a *ShapeMismatchError
// is returned. The chunk size is inferred from the first chunk.
func Merge(chunks []Chunk, shape buffer.Shape) (*buffer.Buffer, error) {
	if len(chunks) == 0 {
		if shape.Len() != 0 {
			return nil, &ShapeMismatchError{Index: 0, Want: shape, Reason: "no chunks for non-empty shape"}
		}
		return buffer.NewShape(shape), nil
	}

	if chunks[0].Data == nil {
		return nil, &ShapeMismatchError{Index: 0, Want: shape, Reason: "nil chunk data"}
	}
	first := chunks[0].Data.Shape()
	l := Layout{Shape: shape, ChunkRows: max(first.Rows, 1), ChunkCols: max(first.Cols, 1)}
	return MergeLayout(chunks, l)
}

// MergeLayout reassembles chunks laid out by l.
func MergeLayout(chunks []Chunk, l Layout) (*buffer.Buffer, error) {
	if got, want := len(chunks), l.Count(); got != want {
		return nil, &ShapeMismatchError{
			Index:  min(got, want),
			Want:   l.Shape,
			Reason: fmt.Sprintf("got %d chunks, want %d", got, want),
		}
	}

	out := buffer.NewShape(l.Shape)
	for i, c := range chunks {
		if err := checkChunk(l, i, c); err != nil {
			return nil, err
		}
		for r := 0; r < c.Data.Rows(); r++ {
			copy(out.Row(c.Row + r)[c.Col:], c.Data.Row(r))
		}
	}
	return out, nil
}

func checkChunk(l Layout, i int, c Chunk) error {
	if c.Data == nil {
		return &ShapeMismatchError{Index: i, Want: l.ChunkShape(i), Reason: "nil chunk data"}
	}
	if c.Index != i {
		return &ShapeMismatchError{Index: i, Reason: fmt.Sprintf("out of order: chunk index %d", c.Index)}
	}
	r0, c0 := l.Origin(i)
	if c.Row != r0 || c.Col != c0 {
		return &ShapeMismatchError{
			Index:  i,
			Reason: fmt.Sprintf("origin (%d,%d), want (%d,%d)", c.Row, c.Col, r0, c0),
		}
	}
	if want := l.ChunkShape(i); c.Data.Shape() != want {
		return &ShapeMismatchError{Index: i, Got: c.Data.Shape(), Want: want}
	}
	return nil
}
