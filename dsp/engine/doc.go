// Package engine runs filters over chunked buffers, either sequentially on
// the calling goroutine or in parallel on a long-lived worker pool.
//
// A run splits its input into units of work, executes every unit, waits for
// all of them, and then either reassembles the outputs in submission order or
// reports the failure of the lowest-indexed unit. Sequential and parallel
// runs of the same plan execute the same unit function over the same units,
// so for deterministic filters they produce bit-identical output.
//
// The filter is snapshotted once at the start of a run. Changing a filter's
// configuration while a run is in progress is not supported.
package engine
