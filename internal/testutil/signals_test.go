package testutil

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-chunkflow/dsp/buffer"
)

func TestDeterministicSine(t *testing.T) {
	s := DeterministicSine(1000, 48000, 1.0, 48)
	if len(s) != 48 {
		t.Fatalf("len = %d, want 48", len(s))
	}
	if math.Abs(s[0]) > 1e-15 {
		t.Fatalf("s[0] = %v, want 0", s[0])
	}
	for i, v := range s {
		if v < -1 || v > 1 {
			t.Fatalf("s[%d] = %v out of range", i, v)
		}
	}
}

func TestDeterministicNoiseReproducible(t *testing.T) {
	a := DeterministicNoise(42, 0.5, 256)
	b := DeterministicNoise(42, 0.5, 256)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("non-deterministic at index %d", i)
		}
		if a[i] < -0.5 || a[i] >= 0.5 {
			t.Fatalf("a[%d] = %v out of range", i, a[i])
		}
	}
}

func TestNoiseGrid(t *testing.T) {
	g := NoiseGrid(7, 3, 5)
	if g.Shape() != buffer.Grid(3, 5) {
		t.Fatalf("shape = %v, want [3x5]", g.Shape())
	}
	v := NoiseBuffer(7, 15)
	RequireSliceNearlyEqual(t, g.Samples(), v.Samples(), 0)
}

func TestImpulse(t *testing.T) {
	imp := Impulse(4, 2)
	want := []float64{0, 0, 1, 0}
	RequireSliceNearlyEqual(t, imp, want, 0)

	for i, v := range Impulse(4, 10) {
		if v != 0 {
			t.Fatalf("imp[%d] = %v, want all zeros for out-of-bounds pos", i, v)
		}
	}
}

func TestDC(t *testing.T) {
	for i, v := range DC(0.5, 4) {
		if v != 0.5 {
			t.Fatalf("DC[%d] = %v, want 0.5", i, v)
		}
	}
}
