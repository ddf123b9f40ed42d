// Package testutil holds deterministic test signals and tolerance checks
// shared by the package tests.
package testutil

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-chunkflow/dsp/buffer"
)

// DeterministicSine generates a sine wave starting at phase 0.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates uniform noise in [-amplitude, amplitude)
// from a fixed seed.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// NoiseBuffer wraps unit-amplitude noise as a vector buffer.
func NoiseBuffer(seed int64, length int) *buffer.Buffer {
	return buffer.FromSlice(DeterministicNoise(seed, 1, length))
}

// NoiseGrid returns a rows x cols grid of unit-amplitude noise.
func NoiseGrid(seed int64, rows, cols int) *buffer.Buffer {
	b := buffer.NewGrid(rows, cols)
	copy(b.Samples(), DeterministicNoise(seed, 1, rows*cols))
	return b
}

// Impulse generates a unit impulse at pos.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC generates a constant signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}
