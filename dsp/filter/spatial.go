package filter

import (
	"math"

	"github.com/cwbudde/algo-chunkflow/dsp/buffer"
)

// Smooth2D averages every interior cell with its four direct neighbours.
// Border cells are copied unchanged. On a 1-D buffer every cell is a border
// cell, so Smooth2D acts as the identity.
type Smooth2D struct{}

// Apply smooths in.
func (Smooth2D) Apply(in *buffer.Buffer) (*buffer.Buffer, error) {
	out := in.Copy()
	rows, cols := in.Rows(), in.Cols()
	if !in.Shape().Is2D() || rows < 3 || cols < 3 {
		return out, nil
	}

	src := in.Samples()
	dst := out.Samples()
	for r := 1; r < rows-1; r++ {
		base := r * cols
		for c := 1; c < cols-1; c++ {
			i := base + c
			dst[i] = (src[i-cols] + src[i-1] + src[i] + src[i+1] + src[i+cols]) / 5
		}
	}
	return out, nil
}

// Threshold zeroes samples whose magnitude is below Level. NaN samples are
// kept as is.
type Threshold struct {
	Level float64
}

// Apply gates in.
func (t Threshold) Apply(in *buffer.Buffer) (*buffer.Buffer, error) {
	out := in.Copy()
	s := out.Samples()
	for i, v := range s {
		if math.Abs(v) < t.Level {
			s[i] = 0
		}
	}
	return out, nil
}
