package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cwbudde/algo-vecmath/cpu"

	"github.com/cwbudde/algo-chunkflow/dsp/buffer"
	"github.com/cwbudde/algo-chunkflow/dsp/chain"
	"github.com/cwbudde/algo-chunkflow/dsp/chunk"
	"github.com/cwbudde/algo-chunkflow/dsp/filter"
	"github.com/cwbudde/algo-chunkflow/internal/workerpool"
)

// Engine executes plans. It owns a worker pool that lives until Close and is
// shared by all runs; concurrent calls to Run are allowed.
type Engine struct {
	cfg  config
	pool *workerpool.Pool
}

// Result is the outcome of a successful run.
type Result struct {
	Output  *buffer.Buffer
	Elapsed time.Duration
	// Units is the number of units the run was cut into.
	Units int
}

// New starts an engine.
func New(opts ...Option) *Engine {
	cfg := defaultConfig()
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}

	f := cpu.DetectFeatures()
	cfg.logger.Debug("engine started",
		"workers", cfg.workers,
		"arch", f.Architecture,
		"sse2", f.HasSSE2,
		"avx2", f.HasAVX2,
		"neon", f.HasNEON,
		"force_generic", f.ForceGeneric,
	)

	return &Engine{cfg: cfg, pool: workerpool.New(cfg.workers)}
}

// Workers returns the size of the engine's worker pool.
func (e *Engine) Workers() int {
	return e.pool.NumWorkers()
}

// Close stops the worker pool. Runs in progress complete first.
func (e *Engine) Close() {
	e.pool.Close()
}

// Run executes plan over input.
//
// Every unit is awaited before Run returns. If any unit fails, Run returns a
// *UnitError for the failed unit with the lowest submission index and no
// output. Panics inside a unit are reported the same way, wrapping
// ErrUnitPanic. Empty input produces empty output.
func (e *Engine) Run(ctx context.Context, plan Plan, input *buffer.Buffer) (Result, error) {
	start := time.Now()
	res, err := e.run(ctx, plan, input)
	res.Elapsed = time.Since(start)

	e.cfg.metrics.RecordRun(plan.Mode, res.Units, res.Elapsed, err)
	if err != nil {
		e.cfg.logger.Warn("run failed",
			"mode", plan.Mode.String(),
			"units", res.Units,
			"elapsed", res.Elapsed,
			"error", err,
		)
		return Result{Elapsed: res.Elapsed, Units: res.Units}, err
	}
	e.cfg.logger.Debug("run completed",
		"mode", plan.Mode.String(),
		"dispatch", plan.Dispatch.String(),
		"units", res.Units,
		"workers", plan.Workers,
		"elapsed", res.Elapsed,
	)
	return res, nil
}

func (e *Engine) run(ctx context.Context, plan Plan, input *buffer.Buffer) (Result, error) {
	if err := plan.Validate(); err != nil {
		return Result{}, err
	}
	if input == nil {
		return Result{}, fmt.Errorf("%w: nil input", ErrInvalidPlan)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if plan.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, plan.Timeout)
		defer cancel()
	}

	j, err := e.prepare(plan, filter.Snapshot(plan.Filter), input)
	if err != nil {
		return Result{}, err
	}
	defer j.release(e.cfg.pool)

	n := j.units()
	outs := make([]*buffer.Buffer, n)
	errs := make([]error, n)
	exec := func(i int) {
		outs[i], errs[i] = e.runUnit(ctx, j.stage(i), j.piece(i))
	}

	if plan.Mode == Sequential {
		for i := range n {
			exec(i)
		}
	} else if err := e.pool.ForEach(ctx, n, plan.Workers, exec); err != nil {
		switch {
		case errors.Is(err, workerpool.ErrClosed):
			return Result{Units: n}, ErrClosed
		case errors.Is(err, workerpool.ErrTaskPanic):
			return Result{Units: n}, fmt.Errorf("engine: %w", err)
		}
		// Nothing could be scheduled; every unit fails with the context error.
		for i := range errs {
			errs[i] = err
		}
	}

	for i, err := range errs {
		if err != nil {
			return Result{Units: n}, &UnitError{Index: i, Err: err}
		}
	}

	out, err := j.assemble(outs)
	if err != nil {
		return Result{Units: n}, err
	}
	return Result{Output: out, Units: n}, nil
}

// runUnit applies f to in, turning a panic into an error and failing the
// unit when the context is done at its start or end.
func (e *Engine) runUnit(ctx context.Context, f filter.Filter, in *buffer.Buffer) (out *buffer.Buffer, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("%w: %v", ErrUnitPanic, r)
		}
		e.cfg.metrics.RecordUnit(time.Since(start), err)
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err = f.Apply(in)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, &chunk.ShapeMismatchError{Want: in.Shape(), Reason: "filter returned no output"}
	}
	if out.Shape() != in.Shape() {
		return nil, &chunk.ShapeMismatchError{Got: out.Shape(), Want: in.Shape()}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// job is the unit layout of one run. Units are ordered stage-major: all
// pieces of stage 0, then all pieces of stage 1, and so on.
type job struct {
	shape  buffer.Shape
	series bool
	stages []filter.Filter
	pieces []chunk.Chunk
	layout chunk.Layout
	whole  bool
}

func (e *Engine) prepare(plan Plan, f filter.Filter, input *buffer.Buffer) (*job, error) {
	j := &job{shape: input.Shape(), stages: []filter.Filter{f}}
	if c, ok := f.(*chain.Chain); ok && c.Mode() == chain.ModeSeries {
		j.series = true
		j.stages = c.Stages()
	}

	if plan.Dispatch == DispatchStages {
		if !j.series {
			return nil, fmt.Errorf("%w: stage dispatch needs a series chain", ErrInvalidPlan)
		}
		j.whole = true
		j.pieces = []chunk.Chunk{{Data: input}}
		return j, nil
	}

	var (
		l   chunk.Layout
		err error
	)
	if input.Shape().Is2D() && plan.gridChunks() {
		l, err = chunk.NewGridLayout(input.Shape(), plan.ChunkRows, plan.ChunkCols)
	} else {
		l, err = chunk.NewLayout(input.Shape(), plan.ChunkSize)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPlan, err)
	}

	var opts []chunk.Option
	if e.cfg.pool != nil {
		opts = append(opts, chunk.WithPool(e.cfg.pool))
	}
	j.layout = l
	j.pieces = chunk.SplitLayout(input, l, opts...)
	return j, nil
}

func (j *job) units() int {
	return len(j.stages) * len(j.pieces)
}

func (j *job) stage(i int) filter.Filter {
	return j.stages[i/len(j.pieces)]
}

func (j *job) piece(i int) *buffer.Buffer {
	return j.pieces[i%len(j.pieces)].Data
}

func (j *job) assemble(outs []*buffer.Buffer) (*buffer.Buffer, error) {
	n := len(j.pieces)
	lanes := make([]*buffer.Buffer, len(j.stages))
	for s := range j.stages {
		if j.whole {
			lanes[s] = outs[s]
			continue
		}
		merged := make([]chunk.Chunk, n)
		for p := range n {
			merged[p] = j.pieces[p].WithData(outs[s*n+p])
		}
		out, err := chunk.MergeLayout(merged, j.layout)
		if err != nil {
			return nil, err
		}
		lanes[s] = out
	}

	if j.series {
		return chain.Concat(j.shape, lanes)
	}
	return lanes[0], nil
}

func (j *job) release(p *buffer.Pool) {
	if p == nil || j.whole {
		return
	}
	chunk.Release(p, j.pieces)
}
