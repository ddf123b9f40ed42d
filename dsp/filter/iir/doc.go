// Package iir provides recursive filters built from cascaded second-order
// sections, for use as advanced variants of a [filter.Pass].
//
// Coefficients follow the RBJ cookbook for the second-order sections and the
// bilinear transform for first-order sections. Butterworth cascades use one
// section per conjugate pole pair with the matching per-section Q; Chebyshev
// Type I cascades derive their sections from the pass-band ripple.
//
// Every Apply runs on fresh section state, so a single [Cascade] may be
// shared by concurrently running chunk units.
package iir
