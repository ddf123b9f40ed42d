package bench

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-chunkflow/dsp/buffer"
	"github.com/cwbudde/algo-chunkflow/dsp/chain"
	"github.com/cwbudde/algo-chunkflow/dsp/engine"
	"github.com/cwbudde/algo-chunkflow/dsp/filter"
	"github.com/cwbudde/algo-chunkflow/internal/testutil"
	"github.com/cwbudde/algo-chunkflow/measure/quality"
)

func newEngine(t *testing.T) *engine.Engine {
	t.Helper()
	e := engine.New(engine.WithWorkers(4))
	t.Cleanup(e.Close)
	return e
}

func TestCompareCascade(t *testing.T) {
	e := newEngine(t)
	lp, _ := filter.NewLowPass(0.2)
	hp, _ := filter.NewHighPass(0.8)
	input := buffer.FromSlice(testutil.DeterministicSine(5, 360, 1, 3600))

	rep, err := Compare(context.Background(), e, engine.Plan{
		ChunkSize: 360,
		Workers:   4,
		Filter:    chain.Cascade(lp, hp),
	}, input)
	require.NoError(t, err)

	assert.Equal(t, "cascade", rep.Chain)
	assert.Equal(t, 10, rep.Units)
	assert.True(t, rep.Equivalent)
	assert.Len(t, rep.Sequential.Segments, 1)
	assert.Equal(t, rep.Sequential.Score, rep.Parallel.Score)
	assert.Greater(t, rep.Sequential.Elapsed, time.Duration(0))
	assert.False(t, math.IsNaN(rep.Sequential.Score.SNR))
}

func TestCompareSeriesScoresPerSegment(t *testing.T) {
	e := newEngine(t)
	input := testutil.NoiseBuffer(3, 500)

	rep, err := Compare(context.Background(), e, engine.Plan{
		ChunkSize: 64,
		Workers:   2,
		Filter:    chain.Series(filter.Identity{}, filter.Threshold{Level: 0.5}),
	}, input)
	require.NoError(t, err)

	require.Len(t, rep.Parallel.Segments, 2)
	assert.True(t, math.IsInf(rep.Parallel.Segments[0].SNR, 1), "identity segment is lossless")
	assert.Zero(t, rep.Parallel.Segments[0].MSE)
	assert.Greater(t, rep.Parallel.Segments[1].MSE, 0.0)
	assert.InDelta(t, rep.Parallel.Segments[1].MSE/2, rep.Parallel.Score.MSE, 1e-15)
	assert.Equal(t, "series", rep.Chain)
}

func TestCompareEmptyInput(t *testing.T) {
	e := newEngine(t)
	rep, err := Compare(context.Background(), e, engine.Plan{ChunkSize: 8, Workers: 2, Filter: filter.Identity{}}, buffer.New(0))
	require.NoError(t, err)
	assert.True(t, rep.Equivalent)
	assert.Equal(t, 0, rep.Units)
}

func TestCompareZeroStageSeries(t *testing.T) {
	e := newEngine(t)
	plan := engine.Plan{ChunkSize: 2, Workers: 2, Filter: chain.Series()}
	rep, err := Compare(context.Background(), e, plan, buffer.FromSlice([]float64{1, 2, 3}))
	require.NoError(t, err)

	assert.Empty(t, rep.Parallel.Segments)
	assert.Equal(t, quality.Score{}, rep.Parallel.Score)
	assert.Equal(t, quality.Score{}, rep.Sequential.Score)
}

func TestComparePropagatesRunErrors(t *testing.T) {
	e := newEngine(t)
	failing := filter.Func(func(*buffer.Buffer) (*buffer.Buffer, error) { return nil, errors.New("bad") })

	_, err := Compare(context.Background(), e, engine.Plan{ChunkSize: 2, Workers: 1, Filter: failing}, buffer.New(4))
	var ue *engine.UnitError
	require.ErrorAs(t, err, &ue)
	assert.Contains(t, err.Error(), "sequential run")
}

func TestSpeedup(t *testing.T) {
	r := Report{
		Sequential: Measurement{Elapsed: 300 * time.Millisecond},
		Parallel:   Measurement{Elapsed: 100 * time.Millisecond},
	}
	assert.InDelta(t, 3.0, r.Speedup(), 1e-12)
	assert.Zero(t, Report{}.Speedup())
}

func TestWriteCSV(t *testing.T) {
	reports := []Report{
		{
			Name:       "100.dat",
			Chain:      "cascade",
			Units:      4,
			Sequential: Measurement{Elapsed: 2000, Score: scoreOf(12.5, 0.25)},
			Parallel:   Measurement{Elapsed: 1000, Score: scoreOf(12.5, 0.25)},
			Equivalent: true,
		},
		{
			Name:       "101.dat",
			Chain:      "series",
			Sequential: Measurement{Score: scoreOf(math.Inf(1), 0)},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, reports...))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{"100.dat", "cascade", "4", "2000", "12.5", "0.25", "1000", "12.5", "0.25", "2.000", "true"}, rows[1])
	assert.Equal(t, "+Inf", rows[2][4])
	assert.Equal(t, "0.000", rows[2][9])
}

func TestRunAll(t *testing.T) {
	e := newEngine(t)
	lp, _ := filter.NewLowPass(0.4)

	jobs := make([]Job, 5)
	for i := range jobs {
		jobs[i] = Job{
			Name:  string(rune('a' + i)),
			Plan:  engine.Plan{ChunkSize: 50, Workers: 2, Filter: lp},
			Input: testutil.NoiseBuffer(int64(i), 200+i),
		}
	}

	reports, err := RunAll(context.Background(), e, jobs, 2)
	require.NoError(t, err)
	require.Len(t, reports, len(jobs))
	for i, r := range reports {
		assert.Equal(t, jobs[i].Name, r.Name)
		assert.True(t, r.Equivalent)
	}

	jobs[3].Plan.Filter = nil
	_, err = RunAll(context.Background(), e, jobs, 0)
	require.ErrorIs(t, err, engine.ErrInvalidPlan)
	assert.Contains(t, err.Error(), "bench: d:")
}

func scoreOf(snr, mse float64) quality.Score {
	return quality.Score{SNR: snr, MSE: mse}
}
