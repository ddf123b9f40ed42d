package engine

import (
	"log/slog"
	"runtime"

	"github.com/cwbudde/algo-chunkflow/dsp/buffer"
)

type config struct {
	workers int
	logger  *slog.Logger
	metrics MetricsCollector
	pool    *buffer.Pool
}

func defaultConfig() config {
	return config{
		workers: runtime.GOMAXPROCS(0),
		logger:  slog.New(slog.DiscardHandler),
		metrics: NoopMetricsCollector{},
	}
}

// Option configures an Engine.
type Option func(*config)

// WithWorkers sets the size of the engine's worker pool. Values below 1 are
// ignored.
func WithWorkers(n int) Option {
	return func(c *config) {
		if n >= 1 {
			c.workers = n
		}
	}
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics sets the metrics collector. A nil collector is ignored.
func WithMetrics(m MetricsCollector) Option {
	return func(c *config) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithBufferPool makes the engine draw chunk buffers from p and return them
// after each run.
func WithBufferPool(p *buffer.Pool) Option {
	return func(c *config) { c.pool = p }
}
