package iir

import (
	"math"
	"sync"
	"testing"

	"github.com/cwbudde/algo-chunkflow/dsp/buffer"
	"github.com/cwbudde/algo-chunkflow/dsp/filter"
	"github.com/cwbudde/algo-chunkflow/internal/testutil"
)

func TestSectionImpulseResponse(t *testing.T) {
	// B0=0.25 B1=0.5 B2=0.25 A1=-0.2 A2=0.04, traced by hand.
	c := NewCascade(filter.KindLowPass, []Coefficients{{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04}})
	out, err := c.Apply(buffer.FromSlice(testutil.Impulse(4, 0)))
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, out.Samples(), []float64{0.25, 0.55, 0.35, 0.048}, 1e-12)
}

func TestLowPassSettlesToDC(t *testing.T) {
	c, _ := Butterworth(filter.KindLowPass, 500, sampleRate, 4)
	out, _ := c.Apply(buffer.FromSlice(testutil.DC(1, 4000)))
	if got := out.Samples()[3999]; math.Abs(got-1) > 1e-6 {
		t.Fatalf("settled value = %v, want 1", got)
	}
}

func TestHighPassRemovesDC(t *testing.T) {
	c, _ := Chebyshev(filter.KindHighPass, 500, sampleRate, 3, 0.5)
	out, _ := c.Apply(buffer.FromSlice(testutil.DC(1, 4000)))
	if got := out.Samples()[3999]; math.Abs(got) > 1e-6 {
		t.Fatalf("settled value = %v, want 0", got)
	}
}

func TestApplyStartsFromZeroState(t *testing.T) {
	c, _ := Butterworth(filter.KindLowPass, 3000, sampleRate, 5)
	in := testutil.NoiseBuffer(11, 300)

	first, _ := c.Apply(in)
	second, _ := c.Apply(in)
	if !first.Equal(second) {
		t.Fatal("repeated Apply calls differ; state leaked between calls")
	}

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got, _ := c.Apply(in); !got.Equal(first) {
				t.Error("concurrent Apply differs")
			}
		}()
	}
	wg.Wait()
}

func TestApplyGridRowsIndependent(t *testing.T) {
	c, _ := Butterworth(filter.KindHighPass, 3000, sampleRate, 2)
	row := testutil.DeterministicSine(5000, sampleRate, 1, 32)
	data := append(append([]float64{}, row...), row...)
	grid, _ := buffer.FromGrid(2, 32, data)

	out, _ := c.Apply(grid)
	testutil.RequireSliceNearlyEqual(t, out.Row(0), out.Row(1), 0)
}

func TestNewCascadeCopiesSections(t *testing.T) {
	sections := []Coefficients{{B0: 1}}
	c := NewCascade(filter.KindLowPass, sections)
	sections[0].B0 = 2
	if c.Sections()[0].B0 != 1 {
		t.Fatal("NewCascade must copy its sections")
	}
}
