package main

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-chunkflow/dsp/chain"
	"github.com/cwbudde/algo-chunkflow/dsp/filter"
	"github.com/cwbudde/algo-chunkflow/dsp/filter/iir"
	"github.com/cwbudde/algo-chunkflow/dsp/filter/spectral"
)

type chainOptions struct {
	low, high float64
	advanced  string
	freq      float64
	rate      float64
	order     int
	ripple    float64
}

// buildChain returns a fresh low-pass then high-pass chain. The low-pass
// stage is replaced by the selected advanced design, if any.
func buildChain(mode chain.Mode, o chainOptions) (*chain.Chain, error) {
	lp, err := filter.NewPass(filter.KindLowPass, o.low, o.high)
	if err != nil {
		return nil, fmt.Errorf("low-pass: %w", err)
	}
	hp, err := filter.NewPass(filter.KindHighPass, o.low, o.high)
	if err != nil {
		return nil, fmt.Errorf("high-pass: %w", err)
	}

	adv, err := advancedLowPass(o)
	if err != nil {
		return nil, err
	}
	if adv != nil {
		lp.SetAdvanced(adv)
	}
	return chain.New(mode, lp, hp), nil
}

func advancedLowPass(o chainOptions) (filter.Filter, error) {
	switch strings.ToLower(o.advanced) {
	case "", "none":
		return nil, nil
	case "butterworth":
		return iir.Butterworth(filter.KindLowPass, o.freq, o.rate, o.order)
	case "chebyshev":
		return iir.Chebyshev(filter.KindLowPass, o.freq, o.rate, o.order, o.ripple)
	case "spectral":
		return spectral.New(filter.KindLowPass, o.freq/(o.rate/2))
	default:
		return nil, fmt.Errorf("%w: unknown advanced filter %q", errUsage, o.advanced)
	}
}
