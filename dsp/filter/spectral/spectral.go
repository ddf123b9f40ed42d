// Package spectral implements brick-wall low and high-pass filters in the
// frequency domain.
package spectral

import (
	"fmt"
	"math"
	"sync"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-chunkflow/dsp/buffer"
	"github.com/cwbudde/algo-chunkflow/dsp/core"
	"github.com/cwbudde/algo-chunkflow/dsp/filter"
)

const minFFTSize = 16

// Brickwall zeroes every FFT bin on the stop side of a cutoff given as a
// fraction of Nyquist. Rows are zero-padded to a power of two, transformed,
// masked, transformed back and truncated to their original length.
//
// A low-pass keeps bins at or below the cutoff and a high-pass keeps the
// rest, so the two outputs for the same cutoff sum to the input.
type Brickwall struct {
	kind   filter.Kind
	cutoff float64
}

// New returns a brick-wall filter. cutoff must lie in (0, 1).
func New(kind filter.Kind, cutoff float64) (*Brickwall, error) {
	if kind != filter.KindLowPass && kind != filter.KindHighPass {
		return nil, fmt.Errorf("spectral: %w: %v", filter.ErrUnsupportedKind, kind)
	}
	if !core.OpenUnit(cutoff) {
		return nil, fmt.Errorf("spectral: %w: %v", filter.ErrInvalidCutoff, cutoff)
	}
	return &Brickwall{kind: kind, cutoff: cutoff}, nil
}

// Kind returns the pass-band kind.
func (b *Brickwall) Kind() filter.Kind { return b.kind }

// Cutoff returns the cutoff as a fraction of Nyquist.
func (b *Brickwall) Cutoff() float64 { return b.cutoff }

// Apply filters every row of in.
func (b *Brickwall) Apply(in *buffer.Buffer) (*buffer.Buffer, error) {
	out := in.Like()
	if in.Len() == 0 {
		return out, nil
	}

	ws, err := getWorkspace(fftSize(in.Cols()))
	if err != nil {
		return nil, err
	}
	defer putWorkspace(ws)

	for r := 0; r < in.Rows(); r++ {
		if err := b.processRow(ws, out.Row(r), in.Row(r)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (b *Brickwall) processRow(ws *workspace, dst, src []float64) error {
	data := ws.data
	for i := range data {
		data[i] = 0
	}
	for i, x := range src {
		data[i] = complex(x, 0)
	}

	if err := ws.plan.Forward(data, data); err != nil {
		return fmt.Errorf("spectral: forward FFT failed: %w", err)
	}

	n := len(data)
	half := float64(n / 2)
	for k := range data {
		f := float64(min(k, n-k)) / half
		keep := f <= b.cutoff
		if b.kind == filter.KindHighPass {
			keep = !keep
		}
		if !keep {
			data[k] = 0
		}
	}

	if err := ws.plan.Inverse(data, data); err != nil {
		return fmt.Errorf("spectral: inverse FFT failed: %w", err)
	}
	for i := range dst {
		dst[i] = real(data[i])
	}
	return nil
}

func fftSize(n int) int {
	if n <= minFFTSize {
		return minFFTSize
	}
	return 1 << int(math.Ceil(math.Log2(float64(n))))
}

type workspace struct {
	plan *algofft.Plan[complex128]
	data []complex128
}

// Workspaces are pooled per FFT size so concurrent chunk units never share
// a plan.
var (
	poolsMu sync.RWMutex
	pools   = make(map[int]*sync.Pool)
)

func getWorkspace(size int) (*workspace, error) {
	if v := workspacePool(size).Get(); v != nil {
		if ws, ok := v.(*workspace); ok {
			return ws, nil
		}
	}
	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("spectral: plan for size %d: %w", size, err)
	}
	return &workspace{plan: plan, data: make([]complex128, size)}, nil
}

func putWorkspace(ws *workspace) {
	workspacePool(len(ws.data)).Put(ws)
}

func workspacePool(size int) *sync.Pool {
	poolsMu.RLock()
	p, ok := pools[size]
	poolsMu.RUnlock()
	if ok {
		return p
	}

	poolsMu.Lock()
	defer poolsMu.Unlock()
	if p, ok := pools[size]; ok {
		return p
	}
	p = &sync.Pool{}
	pools[size] = p
	return p
}
