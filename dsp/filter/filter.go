package filter

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-chunkflow/dsp/buffer"
)

var (
	// ErrInvalidCutoff is returned when a recurrence coefficient lies outside (0, 1).
	ErrInvalidCutoff = errors.New("filter: cutoff must lie in (0, 1)")
	// ErrUnsupportedKind is returned when a filter family cannot build the requested kind.
	ErrUnsupportedKind = errors.New("filter: unsupported filter kind")
)

// Filter transforms one buffer into another of the same shape.
// Implementations must not retain or mutate the input.
type Filter interface {
	Apply(in *buffer.Buffer) (*buffer.Buffer, error)
}

// Func adapts a plain function to the Filter interface.
type Func func(in *buffer.Buffer) (*buffer.Buffer, error)

// Apply calls f(in).
func (f Func) Apply(in *buffer.Buffer) (*buffer.Buffer, error) {
	return f(in)
}

// Snapshotter is implemented by filters whose configuration can change after
// construction. Snapshot returns a filter bound to the current configuration
// that later setter calls do not affect.
type Snapshotter interface {
	Snapshot() Filter
}

// Snapshot returns f.Snapshot() when f is a Snapshotter and f otherwise.
func Snapshot(f Filter) Filter {
	if s, ok := f.(Snapshotter); ok {
		return s.Snapshot()
	}
	return f
}

// Kind selects the pass-band of a filter family.
type Kind int

const (
	KindLowPass Kind = iota
	KindHighPass
	KindBandPass
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindLowPass:
		return "lowpass"
	case KindHighPass:
		return "highpass"
	case KindBandPass:
		return "bandpass"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind parses the names produced by Kind.String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "lowpass", "low":
		return KindLowPass, nil
	case "highpass", "high":
		return KindHighPass, nil
	case "bandpass", "band":
		return KindBandPass, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedKind, s)
	}
}

// Identity passes its input through unchanged (as a copy).
type Identity struct{}

// Apply returns a copy of in.
func (Identity) Apply(in *buffer.Buffer) (*buffer.Buffer, error) {
	return in.Copy(), nil
}

// Rowwise applies fn to every row of in and returns the result.
// 1-D buffers have exactly one row. fn may be called with empty slices.
func Rowwise(in *buffer.Buffer, fn func(dst, src []float64)) *buffer.Buffer {
	out := in.Like()
	for r := 0; r < in.Rows(); r++ {
		fn(out.Row(r), in.Row(r))
	}
	return out
}
