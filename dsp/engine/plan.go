package engine

import (
	"fmt"
	"time"

	"github.com/cwbudde/algo-chunkflow/dsp/core"
	"github.com/cwbudde/algo-chunkflow/dsp/filter"
)

// Mode selects where units execute.
type Mode int

const (
	// Parallel executes units on the engine's worker pool.
	Parallel Mode = iota
	// Sequential executes units in submission order on the calling goroutine.
	Sequential
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Parallel:
		return "parallel"
	case Sequential:
		return "sequential"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Dispatch selects how a run is cut into units.
type Dispatch int

const (
	// DispatchChunks creates one unit per chunk (per stage for Series chains).
	DispatchChunks Dispatch = iota
	// DispatchStages creates one unit per stage of a Series chain, each over
	// the whole input.
	DispatchStages
)

// String returns the dispatch name.
func (d Dispatch) String() string {
	switch d {
	case DispatchChunks:
		return "chunks"
	case DispatchStages:
		return "stages"
	default:
		return fmt.Sprintf("Dispatch(%d)", int(d))
	}
}

// ParseDispatch parses "chunks" or "stages".
func ParseDispatch(s string) (Dispatch, error) {
	switch s {
	case "chunks":
		return DispatchChunks, nil
	case "stages":
		return DispatchStages, nil
	default:
		return 0, fmt.Errorf("%w: unknown dispatch %q", ErrInvalidPlan, s)
	}
}

// Plan describes a single run. It is passed by value and not modified.
type Plan struct {
	// ChunkSize is the number of samples per chunk for 1-D input, and the
	// tile width of 1 x ChunkSize tiles for 2-D input without a grid size.
	ChunkSize int
	// ChunkRows and ChunkCols give the tile size for 2-D input. Both must be
	// positive to take effect.
	ChunkRows int
	ChunkCols int
	// Workers bounds the number of units in flight in Parallel mode. The
	// engine's pool size is an additional upper bound.
	Workers  int
	Filter   filter.Filter
	Mode     Mode
	Dispatch Dispatch
	// Timeout, when positive, is the time budget for the whole run. A unit
	// that starts after or finishes past the deadline fails.
	Timeout time.Duration
}

// PlanFromConfig builds a Parallel, chunk-dispatched plan from cfg.
func PlanFromConfig(cfg core.ProcessorConfig, f filter.Filter) Plan {
	return Plan{
		ChunkSize: cfg.ChunkSize,
		ChunkRows: cfg.ChunkRows,
		ChunkCols: cfg.ChunkCols,
		Workers:   cfg.Workers,
		Filter:    f,
		Mode:      Parallel,
		Dispatch:  DispatchChunks,
	}
}

// Validate checks the input-independent parts of the plan.
func (p Plan) Validate() error {
	switch {
	case p.Filter == nil:
		return fmt.Errorf("%w: nil filter", ErrInvalidPlan)
	case p.Mode != Parallel && p.Mode != Sequential:
		return fmt.Errorf("%w: %v", ErrInvalidPlan, p.Mode)
	case p.Dispatch != DispatchChunks && p.Dispatch != DispatchStages:
		return fmt.Errorf("%w: %v", ErrInvalidPlan, p.Dispatch)
	case p.Mode == Parallel && p.Workers < 1:
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidPlan, p.Workers)
	case p.Timeout < 0:
		return fmt.Errorf("%w: negative timeout %v", ErrInvalidPlan, p.Timeout)
	}
	return nil
}

func (p Plan) gridChunks() bool {
	return p.ChunkRows > 0 && p.ChunkCols > 0
}
