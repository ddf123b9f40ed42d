// Package bench times a plan in sequential and parallel mode and scores the
// outputs against the input.
package bench

import (
	"context"
	"fmt"
	"time"

	"github.com/cwbudde/algo-chunkflow/dsp/buffer"
	"github.com/cwbudde/algo-chunkflow/dsp/chain"
	"github.com/cwbudde/algo-chunkflow/dsp/engine"
	"github.com/cwbudde/algo-chunkflow/measure/quality"
)

// Measurement is the timing and quality of one run.
type Measurement struct {
	Elapsed time.Duration
	// Score is the mean over Segments.
	Score quality.Score
	// Segments holds one score per Series stage, or a single score for
	// any other filter.
	Segments []quality.Score
}

// Report compares a sequential and a parallel run of the same plan.
type Report struct {
	Name       string
	Chain      string
	Units      int
	Sequential Measurement
	Parallel   Measurement
	// Equivalent reports whether both runs produced bit-identical output.
	Equivalent bool
}

// Speedup returns sequential time over parallel time, or 0 when the
// parallel time is zero.
func (r Report) Speedup() float64 {
	if r.Parallel.Elapsed <= 0 {
		return 0
	}
	return float64(r.Sequential.Elapsed) / float64(r.Parallel.Elapsed)
}

// Compare runs plan once sequentially and once in parallel on eng.
func Compare(ctx context.Context, eng *engine.Engine, plan engine.Plan, input *buffer.Buffer) (Report, error) {
	rep := Report{Chain: chainLabel(plan)}

	seqPlan := plan
	seqPlan.Mode = engine.Sequential
	seq, err := eng.Run(ctx, seqPlan, input)
	if err != nil {
		return Report{}, fmt.Errorf("bench: sequential run: %w", err)
	}

	parPlan := plan
	parPlan.Mode = engine.Parallel
	par, err := eng.Run(ctx, parPlan, input)
	if err != nil {
		return Report{}, fmt.Errorf("bench: parallel run: %w", err)
	}

	if rep.Sequential, err = measure(input, seq); err != nil {
		return Report{}, err
	}
	if rep.Parallel, err = measure(input, par); err != nil {
		return Report{}, err
	}
	rep.Units = par.Units
	rep.Equivalent = seq.Output.Equal(par.Output)
	return rep, nil
}

func measure(input *buffer.Buffer, res engine.Result) (Measurement, error) {
	m := Measurement{Elapsed: res.Elapsed}

	segs := []*buffer.Buffer{res.Output}
	if res.Output.Len() != input.Len() {
		var err error
		if segs, err = chain.Segments(res.Output, input.Shape()); err != nil {
			return Measurement{}, fmt.Errorf("bench: %w", err)
		}
	}

	for _, s := range segs {
		score, err := quality.Compare(input.Samples(), s.Samples())
		if err != nil {
			return Measurement{}, fmt.Errorf("bench: %w", err)
		}
		m.Segments = append(m.Segments, score)
		m.Score.SNR += score.SNR
		m.Score.MSE += score.MSE
	}
	if len(m.Segments) == 0 {
		return m, nil
	}
	n := float64(len(m.Segments))
	m.Score.SNR /= n
	m.Score.MSE /= n
	return m, nil
}

func chainLabel(plan engine.Plan) string {
	if c, ok := plan.Filter.(*chain.Chain); ok {
		return c.Mode().String()
	}
	return "filter"
}
