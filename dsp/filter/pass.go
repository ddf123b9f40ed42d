package filter

import (
	"fmt"
	"sync/atomic"

	"github.com/cwbudde/algo-chunkflow/dsp/buffer"
)

// Pass is a low, high or band-pass stage with an optional advanced variant.
//
// The active variant is resolved when SetAdvanced or ClearAdvanced is called,
// not on every Apply. Apply and Snapshot read the resolved variant with a
// single atomic load.
type Pass struct {
	kind     Kind
	fallback Filter
	active   atomic.Pointer[variant]
}

type variant struct {
	filter   Filter
	advanced bool
}

// NewPass builds a Pass whose default is the recurrence filter of the given
// kind. low is used by low and band-pass, high by high and band-pass.
func NewPass(kind Kind, low, high float64, opts ...Option) (*Pass, error) {
	var (
		def Filter
		err error
	)
	switch kind {
	case KindLowPass:
		def, err = NewLowPass(low, opts...)
	case KindHighPass:
		def, err = NewHighPass(high, opts...)
	case KindBandPass:
		def, err = NewBandPass(low, high, opts...)
	default:
		err = fmt.Errorf("%w: %v", ErrUnsupportedKind, kind)
	}
	if err != nil {
		return nil, err
	}
	return NewPassWithDefault(kind, def), nil
}

// NewPassWithDefault wraps an arbitrary default filter.
func NewPassWithDefault(kind Kind, def Filter) *Pass {
	p := &Pass{kind: kind, fallback: def}
	p.active.Store(&variant{filter: def})
	return p
}

// Kind returns the pass-band kind.
func (p *Pass) Kind() Kind { return p.kind }

// Default returns the fallback filter used when no advanced variant is set.
func (p *Pass) Default() Filter { return p.fallback }

// SetAdvanced installs an advanced variant. A nil filter clears it.
// Must not be called concurrently with a run that uses p.
func (p *Pass) SetAdvanced(f Filter) {
	if f == nil {
		p.ClearAdvanced()
		return
	}
	p.active.Store(&variant{filter: f, advanced: true})
}

// ClearAdvanced restores the default variant.
func (p *Pass) ClearAdvanced() {
	p.active.Store(&variant{filter: p.fallback})
}

// Advanced returns the advanced variant, if one is set.
func (p *Pass) Advanced() (Filter, bool) {
	v := p.active.Load()
	if !v.advanced {
		return nil, false
	}
	return v.filter, true
}

// Apply runs the currently resolved variant.
func (p *Pass) Apply(in *buffer.Buffer) (*buffer.Buffer, error) {
	return p.active.Load().filter.Apply(in)
}

// Snapshot returns the currently resolved variant. Later calls to
// SetAdvanced or ClearAdvanced do not affect the returned filter.
func (p *Pass) Snapshot() Filter {
	return Snapshot(p.active.Load().filter)
}
