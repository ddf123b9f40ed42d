// Package buffer provides the fixed-shape float64 sample container used by
// every filter, chain and engine in this module, plus a pool for reusing
// chunk-sized buffers across runs.
//
// A Buffer is either a 1-D vector or a 2-D row-major grid. Its shape is set
// at creation and never changes; callers replace a buffer rather than
// resize it.
package buffer
