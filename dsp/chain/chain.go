package chain

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-chunkflow/dsp/buffer"
	"github.com/cwbudde/algo-chunkflow/dsp/filter"
)

var (
	// ErrShapeMismatch is returned when a stage output does not have the
	// shape of its input.
	ErrShapeMismatch = errors.New("chain: stage output shape mismatch")
	// ErrInvalidMode is returned by ParseMode for unknown names.
	ErrInvalidMode = errors.New("chain: unknown mode")
)

// Mode selects how stages are composed.
type Mode int

const (
	// ModeCascade feeds each stage output into the next stage.
	ModeCascade Mode = iota
	// ModeSeries applies every stage to the original input and
	// concatenates the outputs.
	ModeSeries
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeCascade:
		return "cascade"
	case ModeSeries:
		return "series"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "cascade" or "series".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "cascade":
		return ModeCascade, nil
	case "series":
		return ModeSeries, nil
	default:
		return 0, fmt.Errorf("%w %q", ErrInvalidMode, s)
	}
}

// Chain is an ordered list of filter stages with a composition mode.
type Chain struct {
	mode   Mode
	stages []filter.Filter
}

// New returns a chain with the given mode and stages. Nil stages are skipped.
func New(mode Mode, stages ...filter.Filter) *Chain {
	c := &Chain{mode: mode}
	for _, s := range stages {
		c.Add(s)
	}
	return c
}

// Cascade returns a ModeCascade chain.
func Cascade(stages ...filter.Filter) *Chain {
	return New(ModeCascade, stages...)
}

// Series returns a ModeSeries chain.
func Series(stages ...filter.Filter) *Chain {
	return New(ModeSeries, stages...)
}

// Add appends a stage. Nil is ignored.
func (c *Chain) Add(stage filter.Filter) {
	if stage == nil {
		return
	}
	c.stages = append(c.stages, stage)
}

// Mode returns the composition mode.
func (c *Chain) Mode() Mode { return c.mode }

// Len returns the number of stages.
func (c *Chain) Len() int { return len(c.stages) }

// Stages returns a copy of the stage list.
func (c *Chain) Stages() []filter.Filter {
	out := make([]filter.Filter, len(c.stages))
	copy(out, c.stages)
	return out
}

// Snapshot returns a chain with the same mode whose stages are snapshots of
// the current stages. Later changes to c or to its stages' configuration do
// not affect the result.
func (c *Chain) Snapshot() filter.Filter {
	s := &Chain{mode: c.mode, stages: make([]filter.Filter, len(c.stages))}
	for i, st := range c.stages {
		s.stages[i] = filter.Snapshot(st)
	}
	return s
}

// Apply runs the chain over in.
func (c *Chain) Apply(in *buffer.Buffer) (*buffer.Buffer, error) {
	if c.mode == ModeSeries {
		return c.applySeries(in)
	}
	return c.applyCascade(in)
}

func (c *Chain) applyCascade(in *buffer.Buffer) (*buffer.Buffer, error) {
	if len(c.stages) == 0 {
		return in.Copy(), nil
	}
	cur := in
	for i, st := range c.stages {
		out, err := ApplyStage(i, st, cur)
		if err != nil {
			return nil, err
		}
		cur = out
	}
	return cur, nil
}

func (c *Chain) applySeries(in *buffer.Buffer) (*buffer.Buffer, error) {
	parts := make([]*buffer.Buffer, len(c.stages))
	for i, st := range c.stages {
		out, err := ApplyStage(i, st, in)
		if err != nil {
			return nil, err
		}
		parts[i] = out
	}
	return Concat(in.Shape(), parts)
}

// ApplyStage applies stage i to in and checks that the output keeps the
// input shape. Errors carry the stage index.
func ApplyStage(i int, stage filter.Filter, in *buffer.Buffer) (*buffer.Buffer, error) {
	out, err := stage.Apply(in)
	if err != nil {
		return nil, fmt.Errorf("chain: stage %d: %w", i, err)
	}
	if out == nil || out.Shape() != in.Shape() {
		var got buffer.Shape
		if out != nil {
			got = out.Shape()
		}
		return nil, fmt.Errorf("chain: stage %d: %w: got %v, want %v", i, ErrShapeMismatch, got, in.Shape())
	}
	return out, nil
}

// Concat joins stage outputs that each have shape part. 1-D parts are
// appended end to end; 2-D parts are stacked row-wise. No parts yields an
// empty buffer of the same dimensionality.
func Concat(part buffer.Shape, parts []*buffer.Buffer) (*buffer.Buffer, error) {
	var out *buffer.Buffer
	if part.Is2D() {
		out = buffer.NewGrid(part.Rows*len(parts), part.Cols)
	} else {
		out = buffer.New(part.Len() * len(parts))
	}

	dst := out.Samples()
	for i, p := range parts {
		if p.Shape() != part {
			return nil, fmt.Errorf("chain: segment %d: %w: got %v, want %v", i, ErrShapeMismatch, p.Shape(), part)
		}
		copy(dst[i*part.Len():], p.Samples())
	}
	return out, nil
}

// Segments splits a Series output back into per-stage buffers of shape part.
// The returned buffers share memory with out.
func Segments(out *buffer.Buffer, part buffer.Shape) ([]*buffer.Buffer, error) {
	n := part.Len()
	if n == 0 {
		return nil, nil
	}
	if out.Len()%n != 0 {
		return nil, fmt.Errorf("chain: %w: %v is not a multiple of %v", ErrShapeMismatch, out.Shape(), part)
	}
	segs := make([]*buffer.Buffer, out.Len()/n)
	for i := range segs {
		s := out.Samples()[i*n : (i+1)*n : (i+1)*n]
		if part.Is2D() {
			segs[i], _ = buffer.FromGrid(part.Rows, part.Cols, s)
		} else {
			segs[i] = buffer.FromSlice(s)
		}
	}
	return segs, nil
}
