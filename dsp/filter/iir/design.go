package iir

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-chunkflow/dsp/filter"
)

var (
	// ErrInvalidOrder is returned for a filter order below 1.
	ErrInvalidOrder = errors.New("iir: order must be at least 1")
	// ErrInvalidFrequency is returned when the corner frequency is not
	// strictly between 0 and Nyquist.
	ErrInvalidFrequency = errors.New("iir: frequency must lie in (0, sampleRate/2)")
)

// ButterworthSections designs a Butterworth low or high-pass cascade.
// Odd orders end with a first-order section (B2 = A2 = 0).
func ButterworthSections(kind filter.Kind, freq, sampleRate float64, order int) ([]Coefficients, error) {
	k, err := validate(kind, freq, sampleRate, order)
	if err != nil {
		return nil, err
	}

	sections := make([]Coefficients, 0, (order+1)/2)
	for i := order/2 - 1; i >= 0; i-- {
		q := butterworthQ(order, i)
		if kind == filter.KindLowPass {
			sections = append(sections, lowpassRBJ(freq, q, sampleRate))
		} else {
			sections = append(sections, highpassRBJ(freq, q, sampleRate))
		}
	}
	if order%2 != 0 {
		sections = append(sections, firstOrder(kind, k))
	}
	return sections, nil
}

// ChebyshevSections designs a Chebyshev Type I low or high-pass cascade with
// the given pass-band ripple. Even orders have unity gain at DC (low-pass) or
// Nyquist (high-pass) and at the corner, peaking rippleDB above it in
// between. A non-positive ripple defaults to 1 dB.
// Odd orders end with a first-order Butterworth section.
func ChebyshevSections(kind filter.Kind, freq, sampleRate float64, order int, rippleDB float64) ([]Coefficients, error) {
	k, err := validate(kind, freq, sampleRate, order)
	if err != nil {
		return nil, err
	}

	r0, r1 := rippleFactors(order, rippleDB)
	k2 := k * k
	n := float64(order)
	sections := make([]Coefficients, 0, (order+1)/2)

	for i := order/2 - 1; i >= 0; i-- {
		m := float64(2*i + 1)
		if kind == filter.KindLowPass {
			tt := math.Cos(m * math.Pi / (2 * n))
			b := 1 / (r0 - tt*tt)
			a := 2 * k * b * r1 * tt
			t := 1 / (a + b + k2)
			sections = append(sections, Coefficients{
				B0: k2 * t,
				B1: 2 * k2 * t,
				B2: k2 * t,
				A1: 2 * (k2 - b) * t,
				A2: (k2 + b - a) * t,
			})
			continue
		}
		s := math.Sin(m * math.Pi / (4 * n))
		tt := s * s
		a := 1 / (r0 + 4*tt - 4*tt*tt - 1)
		b := 2 * k * a * r1 * (1 - 2*tt)
		t := 1 / (b + 1 + a*k2)
		sections = append(sections, Coefficients{
			B0: t,
			B1: -2 * t,
			B2: t,
			A1: 2 * (a*k2 - 1) * t,
			A2: (1 + a*k2 - b) * t,
		})
	}
	if order%2 != 0 {
		sections = append(sections, firstOrder(kind, k))
	}
	return sections, nil
}

func validate(kind filter.Kind, freq, sampleRate float64, order int) (float64, error) {
	if kind != filter.KindLowPass && kind != filter.KindHighPass {
		return 0, fmt.Errorf("iir: %w: %v", filter.ErrUnsupportedKind, kind)
	}
	if order < 1 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidOrder, order)
	}
	k, ok := bilinearK(freq, sampleRate)
	if !ok {
		return 0, fmt.Errorf("%w: %v Hz at %v Hz", ErrInvalidFrequency, freq, sampleRate)
	}
	return k, nil
}

// bilinearK returns tan(pi*freq/sampleRate).
func bilinearK(freq, sampleRate float64) (float64, bool) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) || !(freq > 0) || freq >= sampleRate/2 {
		return 0, false
	}
	return math.Tan(math.Pi * freq / sampleRate), true
}

// butterworthQ returns the Q of pole pair index in an order-n design.
func butterworthQ(order, index int) float64 {
	theta := math.Pi * float64(2*index+1) / (2 * float64(order))
	return 1 / (2 * math.Sin(theta))
}

// rippleFactors returns cosh²(v) and sinh(v) with v = asinh(1/eps)/order,
// where eps is the ripple factor for rippleDB.
func rippleFactors(order int, rippleDB float64) (float64, float64) {
	if !(rippleDB > 0) {
		rippleDB = 1
	}
	eps := math.Sqrt(math.Pow(10, rippleDB/10) - 1)
	t := math.Asinh(1/eps) / float64(order)
	c := math.Cosh(t)
	return c * c, math.Sinh(t)
}

func firstOrder(kind filter.Kind, k float64) Coefficients {
	norm := 1 / (1 + k)
	if kind == filter.KindLowPass {
		return Coefficients{B0: k * norm, B1: k * norm, A1: (k - 1) * norm}
	}
	return Coefficients{B0: norm, B1: -norm, A1: (k - 1) * norm}
}

func lowpassRBJ(freq, q, sampleRate float64) Coefficients {
	w0 := 2 * math.Pi * freq / sampleRate
	cw, sw := math.Cos(w0), math.Sin(w0)
	alpha := sw / (2 * q)
	b1 := 1 - cw
	return normalize(b1/2, b1, b1/2, 1+alpha, -2*cw, 1-alpha)
}

func highpassRBJ(freq, q, sampleRate float64) Coefficients {
	w0 := 2 * math.Pi * freq / sampleRate
	cw, sw := math.Cos(w0), math.Sin(w0)
	alpha := sw / (2 * q)
	b1 := 1 + cw
	return normalize(b1/2, -b1, b1/2, 1+alpha, -2*cw, 1-alpha)
}
