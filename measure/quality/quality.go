// Package quality scores a processed signal against its original.
//
// Both metrics compare samples position by position:
//
//	SNR = 10*log10(sum(o^2) / sum((o-p)^2))  dB
//	MSE = sum((o-p)^2) / N
//
// SNR is +Inf when the signals are identical. Building with the fastmath tag
// replaces the logarithm with a fast approximation.
package quality

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// ErrLengthMismatch is returned when the two signals differ in length.
var ErrLengthMismatch = errors.New("quality: length mismatch")

// SNR returns the signal-to-noise ratio of processed relative to original
// in dB.
func SNR(original, processed []float64) (float64, error) {
	signal, noise, err := energies(original, processed)
	if err != nil {
		return 0, err
	}
	if noise == 0 {
		return math.Inf(1), nil
	}
	if signal == 0 {
		return math.Inf(-1), nil
	}
	return 10 * log10(signal/noise), nil
}

// MSE returns the mean squared error between original and processed.
// Empty signals have an MSE of 0.
func MSE(original, processed []float64) (float64, error) {
	_, noise, err := energies(original, processed)
	if err != nil {
		return 0, err
	}
	if len(original) == 0 {
		return 0, nil
	}
	return noise / float64(len(original)), nil
}

// Score holds both metrics for one comparison.
type Score struct {
	SNR float64
	MSE float64
}

// Compare returns SNR and MSE in one pass.
func Compare(original, processed []float64) (Score, error) {
	signal, noise, err := energies(original, processed)
	if err != nil {
		return Score{}, err
	}
	var s Score
	switch {
	case noise == 0:
		s.SNR = math.Inf(1)
	case signal == 0:
		s.SNR = math.Inf(-1)
	default:
		s.SNR = 10 * log10(signal/noise)
	}
	if n := len(original); n > 0 {
		s.MSE = noise / float64(n)
	}
	return s, nil
}

// energies returns sum(o^2) and sum((o-p)^2).
func energies(original, processed []float64) (float64, float64, error) {
	if len(original) != len(processed) {
		return 0, 0, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(original), len(processed))
	}
	n := len(original)
	if n == 0 {
		return 0, 0, nil
	}

	sq := make([]float64, n)
	vecmath.MulBlock(sq, original, original)
	signal := sum(sq)

	// sq <- (o - p)^2
	vecmath.ScaleBlock(sq, processed, -1)
	vecmath.AddBlockInPlace(sq, original)
	vecmath.MulBlockInPlace(sq, sq)
	noise := sum(sq)

	return signal, noise, nil
}

func sum(x []float64) float64 {
	var s float64
	for _, v := range x {
		s += v
	}
	return s
}
