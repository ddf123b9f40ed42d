// Package filter defines the Filter capability shared by every processing
// stage and provides the default shape-preserving filters: identity,
// first-order low-pass, high-pass and band-pass recurrences, a 2-D cross
// smoother and a magnitude threshold.
//
// [Pass] wraps a default low/high/band-pass filter with an optional advanced
// variant (Butterworth, Chebyshev, spectral). When no advanced variant is
// configured, Pass falls back to its default.
//
// Filters are configured once and then applied concurrently. Configuration
// setters such as [Pass.SetAdvanced] must not be called while an engine run
// that uses the filter is in flight; the engine snapshots the resolved
// variant at the start of each run.
package filter
