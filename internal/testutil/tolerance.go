package testutil

import (
	"fmt"
	"math"
	"testing"

	"github.com/cwbudde/algo-chunkflow/dsp/buffer"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair exceeds eps (absolute tolerance).
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		diff := math.Abs(got[i] - want[i])
		if diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireBufferNearlyEqual compares shapes exactly and samples within eps.
func RequireBufferNearlyEqual(t *testing.T, got, want *buffer.Buffer, eps float64) {
	t.Helper()
	if got == nil || want == nil {
		t.Fatalf("nil buffer: got %v, want %v", got, want)
	}
	if got.Shape() != want.Shape() {
		t.Fatalf("shape mismatch: got %v, want %v", got.Shape(), want.Shape())
	}
	RequireSliceNearlyEqual(t, got.Samples(), want.Samples(), eps)
}

// MaxAbsDiff returns the maximum absolute difference between two slices.
// Returns an error if the slices differ in length.
func MaxAbsDiff(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}
	maxDiff := 0.0
	for i := range a {
		d := math.Abs(a[i] - b[i])
		if d > maxDiff {
			maxDiff = d
		}
	}
	return maxDiff, nil
}
