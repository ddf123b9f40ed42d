package iir

import (
	"github.com/cwbudde/algo-chunkflow/dsp/buffer"
	"github.com/cwbudde/algo-chunkflow/dsp/filter"
)

// Cascade runs a fixed list of sections in series over every row of a buffer.
// It is immutable after construction.
type Cascade struct {
	kind     filter.Kind
	sections []Coefficients
}

// NewCascade wraps already designed sections.
func NewCascade(kind filter.Kind, sections []Coefficients) *Cascade {
	s := make([]Coefficients, len(sections))
	copy(s, sections)
	return &Cascade{kind: kind, sections: s}
}

// Butterworth returns a Butterworth cascade of the given order.
func Butterworth(kind filter.Kind, freq, sampleRate float64, order int) (*Cascade, error) {
	sections, err := ButterworthSections(kind, freq, sampleRate, order)
	if err != nil {
		return nil, err
	}
	return &Cascade{kind: kind, sections: sections}, nil
}

// Chebyshev returns a Chebyshev Type I cascade of the given order and ripple.
func Chebyshev(kind filter.Kind, freq, sampleRate float64, order int, rippleDB float64) (*Cascade, error) {
	sections, err := ChebyshevSections(kind, freq, sampleRate, order, rippleDB)
	if err != nil {
		return nil, err
	}
	return &Cascade{kind: kind, sections: sections}, nil
}

// Kind returns the pass-band kind.
func (c *Cascade) Kind() filter.Kind { return c.kind }

// Sections returns a copy of the section coefficients.
func (c *Cascade) Sections() []Coefficients {
	out := make([]Coefficients, len(c.sections))
	copy(out, c.sections)
	return out
}

// Order returns the total filter order.
func (c *Cascade) Order() int {
	order := 0
	for _, s := range c.sections {
		if s.B2 == 0 && s.A2 == 0 {
			order++
		} else {
			order += 2
		}
	}
	return order
}

// Response returns the cascaded frequency response at freqHz.
func (c *Cascade) Response(freqHz, sampleRate float64) complex128 {
	h := complex(1, 0)
	for _, s := range c.sections {
		h *= s.Response(freqHz, sampleRate)
	}
	return h
}

// Apply filters every row of in from zero initial state.
func (c *Cascade) Apply(in *buffer.Buffer) (*buffer.Buffer, error) {
	return filter.Rowwise(in, func(dst, src []float64) {
		copy(dst, src)
		for _, s := range c.sections {
			s.processBlock(dst)
		}
	}), nil
}
