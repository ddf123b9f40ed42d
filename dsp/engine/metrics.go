package engine

import (
	"sync/atomic"
	"time"
)

// MetricsCollector receives run and unit measurements. Implementations must
// be safe for concurrent use; RecordUnit is called from worker goroutines.
type MetricsCollector interface {
	// RecordRun is called once per Run with the mode, number of units,
	// total elapsed time and the returned error.
	RecordRun(mode Mode, units int, elapsed time.Duration, err error)
	// RecordUnit is called after each unit.
	RecordUnit(elapsed time.Duration, err error)
}

// NoopMetricsCollector discards all measurements.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordRun(Mode, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordUnit(time.Duration, error)           {}

// BasicMetricsCollector keeps in-memory counters.
type BasicMetricsCollector struct {
	SequentialRuns atomic.Int64
	ParallelRuns   atomic.Int64
	RunErrors      atomic.Int64
	RunTotalNanos  atomic.Int64
	Units          atomic.Int64
	UnitErrors     atomic.Int64
	UnitTotalNanos atomic.Int64
}

// RecordRun implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRun(mode Mode, _ int, elapsed time.Duration, err error) {
	if mode == Sequential {
		b.SequentialRuns.Add(1)
	} else {
		b.ParallelRuns.Add(1)
	}
	b.RunTotalNanos.Add(elapsed.Nanoseconds())
	if err != nil {
		b.RunErrors.Add(1)
	}
}

// RecordUnit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordUnit(elapsed time.Duration, err error) {
	b.Units.Add(1)
	b.UnitTotalNanos.Add(elapsed.Nanoseconds())
	if err != nil {
		b.UnitErrors.Add(1)
	}
}

// BasicMetricsStats is a point-in-time copy of BasicMetricsCollector.
type BasicMetricsStats struct {
	SequentialRuns int64
	ParallelRuns   int64
	RunErrors      int64
	RunAvgNanos    int64
	Units          int64
	UnitErrors     int64
	UnitAvgNanos   int64
}

// GetStats returns a snapshot of the counters.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	runs := b.SequentialRuns.Load() + b.ParallelRuns.Load()
	units := b.Units.Load()
	return BasicMetricsStats{
		SequentialRuns: b.SequentialRuns.Load(),
		ParallelRuns:   b.ParallelRuns.Load(),
		RunErrors:      b.RunErrors.Load(),
		RunAvgNanos:    avg(b.RunTotalNanos.Load(), runs),
		Units:          units,
		UnitErrors:     b.UnitErrors.Load(),
		UnitAvgNanos:   avg(b.UnitTotalNanos.Load(), units),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}
