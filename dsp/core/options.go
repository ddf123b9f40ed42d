package core

import "runtime"

// ProcessorConfig defines the chunking and concurrency settings shared by
// execution plans and the benchmark harness.
type ProcessorConfig struct {
	// ChunkSize is the nominal chunk length for 1-D buffers.
	ChunkSize int
	// ChunkRows and ChunkCols give the nominal block size for 2-D buffers.
	ChunkRows int
	ChunkCols int
	// Workers bounds the number of units in flight during a parallel run.
	Workers int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns 4096-sample chunks, 100x100 image blocks
// and one worker per available CPU.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		ChunkSize: 4096,
		ChunkRows: 100,
		ChunkCols: 100,
		Workers:   runtime.GOMAXPROCS(0),
	}
}

// WithChunkSize sets the 1-D chunk length.
func WithChunkSize(size int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if size > 0 {
			cfg.ChunkSize = size
		}
	}
}

// WithChunkGrid sets the 2-D block size.
func WithChunkGrid(rows, cols int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if rows > 0 && cols > 0 {
			cfg.ChunkRows = rows
			cfg.ChunkCols = cols
		}
	}
}

// WithWorkers sets the worker count.
func WithWorkers(workers int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if workers > 0 {
			cfg.Workers = workers
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
