// Command chunkbench runs a two-stage filter chain over domain files and
// compares sequential against chunked parallel execution.
//
// Usage:
//
//	chunkbench [flags] file ...
//
// Each file is decoded by extension (.wav, .png, .dat, .txt, .zst, .lz4,
// .log), filtered by a low-pass and a high-pass stage combined as a cascade
// or a series, and timed in both modes. Results are printed as a table or
// as CSV.
//
// Examples:
//
//	chunkbench -advanced butterworth -freq 100 recording.wav
//	chunkbench -mode series -chunk 1024 -csv results.csv 100.dat 101.dat
//	chunkbench -rows 64 -cols 64 -out denoised scan.png
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-chunkflow/adapter"
	"github.com/cwbudde/algo-chunkflow/dsp/buffer"
	"github.com/cwbudde/algo-chunkflow/dsp/chain"
	"github.com/cwbudde/algo-chunkflow/dsp/core"
	"github.com/cwbudde/algo-chunkflow/dsp/engine"
	"github.com/cwbudde/algo-chunkflow/measure/bench"
)

var errUsage = errors.New("usage")

type options struct {
	filters  chainOptions
	cfg      core.ProcessorConfig
	mode     string
	dispatch string
	timeout  time.Duration
	jobs     int
	format   string
	csvPath  string
	outDir   string
	verbose  bool
	files    []string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return
	case errors.Is(err, errUsage):
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	default:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	def := core.DefaultProcessorConfig()
	var o options

	fs := flag.NewFlagSet("chunkbench", flag.ContinueOnError)
	fs.SetOutput(stderr)
	chunkSize := fs.Int("chunk", def.ChunkSize, "samples per chunk for 1-D input")
	rows := fs.Int("rows", def.ChunkRows, "block rows for 2-D input")
	cols := fs.Int("cols", def.ChunkCols, "block columns for 2-D input")
	workers := fs.Int("workers", def.Workers, "units in flight during parallel runs")
	fs.StringVar(&o.mode, "mode", "cascade", "stage combination: cascade or series")
	fs.StringVar(&o.dispatch, "dispatch", "chunks", "parallel unit: chunks or stages")
	fs.Float64Var(&o.filters.low, "low", 0.2, "low-pass recurrence cutoff in (0, 1)")
	fs.Float64Var(&o.filters.high, "high", 0.8, "high-pass recurrence cutoff in (0, 1)")
	fs.StringVar(&o.filters.advanced, "advanced", "none", "low-pass replacement: none, butterworth, chebyshev or spectral")
	fs.Float64Var(&o.filters.freq, "freq", 100, "advanced low-pass corner frequency in Hz")
	fs.Float64Var(&o.filters.rate, "rate", adapter.DefaultSampleRate, "sample rate in Hz used by advanced filters")
	fs.IntVar(&o.filters.order, "order", 4, "advanced filter order")
	fs.Float64Var(&o.filters.ripple, "ripple", 0.5, "Chebyshev passband ripple in dB")
	fs.DurationVar(&o.timeout, "timeout", 0, "time budget per run (0 disables)")
	fs.IntVar(&o.jobs, "jobs", 1, "files benchmarked concurrently")
	fs.StringVar(&o.format, "format", "table", "report format on stdout: table or csv")
	fs.StringVar(&o.csvPath, "csv", "", "also write the CSV report to this file")
	fs.StringVar(&o.outDir, "out", "", "write the filtered output of each file to this directory")
	fs.BoolVar(&o.verbose, "v", false, "verbose logging")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: chunkbench [flags] file ...\n\n")
		fmt.Fprintf(stderr, "Benchmarks sequential against chunked parallel filtering.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  chunkbench -advanced butterworth -freq 100 recording.wav\n")
		fmt.Fprintf(stderr, "  chunkbench -mode series -csv results.csv 100.dat\n")
		fmt.Fprintf(stderr, "  chunkbench -rows 64 -cols 64 -out denoised scan.png\n")
	}
	if err := fs.Parse(args); err != nil {
		return o, err
	}

	o.cfg = core.ApplyProcessorOptions(
		core.WithChunkSize(*chunkSize),
		core.WithChunkGrid(*rows, *cols),
		core.WithWorkers(*workers),
	)
	o.files = fs.Args()
	if len(o.files) == 0 {
		fs.Usage()
		return o, fmt.Errorf("%w: no input files", errUsage)
	}
	if o.format != "table" && o.format != "csv" {
		return o, fmt.Errorf("%w: unknown format %q", errUsage, o.format)
	}
	if o.jobs < 1 {
		o.jobs = 1
	}
	return o, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	mode, err := chain.ParseMode(o.mode)
	if err != nil {
		return err
	}
	dispatch, err := engine.ParseDispatch(o.dispatch)
	if err != nil {
		return err
	}

	inputs, err := decodeAll(ctx, o.files, o.jobs)
	if err != nil {
		return err
	}

	eng := engine.New(engine.WithWorkers(o.cfg.Workers), engine.WithLogger(logger))
	defer eng.Close()

	jobs := make([]bench.Job, len(inputs))
	for i, in := range inputs {
		c, err := buildChain(mode, o.filters)
		if err != nil {
			return err
		}
		plan := engine.PlanFromConfig(o.cfg, c)
		plan.Dispatch = dispatch
		plan.Timeout = o.timeout
		jobs[i] = bench.Job{Name: filepath.Base(in.path), Plan: plan, Input: in.data}
		logger.Debug("decoded", "file", in.path, "shape", in.data.Shape().String())
	}

	reports, err := bench.RunAll(ctx, eng, jobs, o.jobs)
	if err != nil {
		return err
	}

	if err := writeReport(stdout, o.format, reports); err != nil {
		return err
	}
	if o.csvPath != "" {
		if err := writeCSVFile(o.csvPath, reports); err != nil {
			return err
		}
	}
	if o.outDir != "" {
		return writeOutputs(ctx, eng, o.outDir, inputs, jobs)
	}
	return nil
}

type input struct {
	path  string
	codec adapter.Codec
	data  *buffer.Buffer
}

func decodeAll(ctx context.Context, paths []string, limit int) ([]input, error) {
	inputs := make([]input, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			codec, err := adapter.ForPath(p)
			if err != nil {
				return err
			}
			data, err := codec.Decode(p)
			if err != nil {
				return err
			}
			inputs[i] = input{path: p, codec: codec, data: data}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return inputs, nil
}

func writeReport(w io.Writer, format string, reports []bench.Report) error {
	if format == "csv" {
		return bench.WriteCSV(w, reports...)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "File\tChain\tUnits\tSequential\tParallel\tSpeedup\tSNR [dB]\tMSE\tEquivalent\n")
	fmt.Fprintf(tw, "----\t-----\t-----\t----------\t--------\t-------\t--------\t---\t----------\n")
	for _, r := range reports {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%v\t%v\t%.2fx\t%.2f\t%.4g\t%t\n",
			r.Name,
			r.Chain,
			r.Units,
			r.Sequential.Elapsed,
			r.Parallel.Elapsed,
			r.Speedup(),
			r.Parallel.Score.SNR,
			r.Parallel.Score.MSE,
			r.Equivalent,
		)
	}
	return tw.Flush()
}

func writeCSVFile(path string, reports []bench.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = bench.WriteCSV(f, reports...)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

// writeOutputs runs each plan once more and encodes the result next to the
// input name. Series outputs are split back into one file per stage.
func writeOutputs(ctx context.Context, eng *engine.Engine, dir string, inputs []input, jobs []bench.Job) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for i, in := range inputs {
		res, err := eng.Run(ctx, jobs[i].Plan, in.data)
		if err != nil {
			return fmt.Errorf("%s: %w", in.path, err)
		}

		base := filepath.Base(in.path)
		ext := filepath.Ext(base)
		stem := strings.TrimSuffix(base, ext)

		c, _ := jobs[i].Plan.Filter.(*chain.Chain)
		if c == nil || c.Mode() != chain.ModeSeries {
			if err := in.codec.Encode(res.Output, filepath.Join(dir, stem+"_filtered"+ext)); err != nil {
				return err
			}
			continue
		}

		segs, err := chain.Segments(res.Output, in.data.Shape())
		if err != nil {
			return fmt.Errorf("%s: %w", in.path, err)
		}
		for s, seg := range segs {
			name := fmt.Sprintf("%s_stage%d%s", stem, s, ext)
			if err := in.codec.Encode(seg, filepath.Join(dir, name)); err != nil {
				return err
			}
		}
	}
	return nil
}
