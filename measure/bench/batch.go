package bench

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-chunkflow/dsp/buffer"
	"github.com/cwbudde/algo-chunkflow/dsp/engine"
)

// Job is one named input to benchmark.
type Job struct {
	Name  string
	Plan  engine.Plan
	Input *buffer.Buffer
}

// RunAll compares every job, running at most limit jobs at once (limit <= 0
// means no limit). Reports are returned in job order. The first error cancels
// the remaining jobs.
func RunAll(ctx context.Context, eng *engine.Engine, jobs []Job, limit int) ([]Report, error) {
	reports := make([]Report, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, job := range jobs {
		g.Go(func() error {
			rep, err := Compare(ctx, eng, job.Plan, job.Input)
			if err != nil {
				return fmt.Errorf("bench: %s: %w", job.Name, err)
			}
			rep.Name = job.Name
			reports[i] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}
