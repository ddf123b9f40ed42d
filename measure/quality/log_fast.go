//go:build fastmath

package quality

import "github.com/meko-christian/algo-approx"

const ln10 = 2.30258509299404568401799145468436421

// log10 computes log10(x) using a fast natural-log approximation.
func log10(x float64) float64 {
	return approx.FastLog(x) / ln10
}
