package filter

import (
	"fmt"

	"github.com/cwbudde/algo-chunkflow/dsp/buffer"
	"github.com/cwbudde/algo-chunkflow/dsp/core"
)

// LowPass is the exponential moving average
//
//	out[i] = out[i-1] + c*(in[i] - out[i-1])
//
// with out[0] = 0, or out[0] = in[0] when primed.
type LowPass struct {
	cutoff float64
	primed bool
}

// NewLowPass returns a low-pass recurrence with coefficient cutoff in (0, 1).
func NewLowPass(cutoff float64, opts ...Option) (*LowPass, error) {
	if !core.OpenUnit(cutoff) {
		return nil, fmt.Errorf("%w: low-pass %v", ErrInvalidCutoff, cutoff)
	}
	o := applyOptions(opts)
	return &LowPass{cutoff: cutoff, primed: o.primed}, nil
}

// Cutoff returns the recurrence coefficient.
func (f *LowPass) Cutoff() float64 { return f.cutoff }

// Apply filters every row of in.
func (f *LowPass) Apply(in *buffer.Buffer) (*buffer.Buffer, error) {
	return Rowwise(in, f.processRow), nil
}

func (f *LowPass) processRow(dst, src []float64) {
	if len(src) == 0 {
		return
	}
	c := f.cutoff
	if f.primed {
		dst[0] = src[0]
	} else {
		dst[0] = 0
	}
	for i := 1; i < len(src); i++ {
		dst[i] = dst[i-1] + c*(src[i]-dst[i-1])
	}
}

// HighPass is the first difference
//
//	out[i] = in[i] - c*in[i-1]
//
// with the sample before the start taken as zero, so out[0] = in[0],
// or out[0] = 0 with WithZeroedStart.
type HighPass struct {
	cutoff    float64
	zeroStart bool
}

// NewHighPass returns a high-pass recurrence with coefficient cutoff in (0, 1).
func NewHighPass(cutoff float64, opts ...Option) (*HighPass, error) {
	if !core.OpenUnit(cutoff) {
		return nil, fmt.Errorf("%w: high-pass %v", ErrInvalidCutoff, cutoff)
	}
	o := applyOptions(opts)
	return &HighPass{cutoff: cutoff, zeroStart: o.zeroStart}, nil
}

// Cutoff returns the recurrence coefficient.
func (f *HighPass) Cutoff() float64 { return f.cutoff }

// Apply filters every row of in.
func (f *HighPass) Apply(in *buffer.Buffer) (*buffer.Buffer, error) {
	return Rowwise(in, f.processRow), nil
}

func (f *HighPass) processRow(dst, src []float64) {
	prev := 0.0
	for i, x := range src {
		dst[i] = x - prev*f.cutoff
		prev = x
	}
	if f.zeroStart && len(dst) > 0 {
		dst[0] = 0
	}
}

// BandPass applies a low-pass and then a high-pass recurrence.
type BandPass struct {
	low  *LowPass
	high *HighPass
}

// NewBandPass returns HighPass(highCutoff) after LowPass(lowCutoff).
func NewBandPass(lowCutoff, highCutoff float64, opts ...Option) (*BandPass, error) {
	lp, err := NewLowPass(lowCutoff, opts...)
	if err != nil {
		return nil, err
	}
	hp, err := NewHighPass(highCutoff, opts...)
	if err != nil {
		return nil, err
	}
	return &BandPass{low: lp, high: hp}, nil
}

// Apply filters every row of in.
func (f *BandPass) Apply(in *buffer.Buffer) (*buffer.Buffer, error) {
	return Rowwise(in, func(dst, src []float64) {
		f.low.processRow(dst, src)
		// The high-pass keeps the previous input in a local, so it may
		// run in place.
		f.high.processRow(dst, dst)
	}), nil
}
