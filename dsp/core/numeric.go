package core

// Clamp limits value to the inclusive range [min, max]. NaN is returned
// unchanged.
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// OpenUnit reports whether c lies strictly inside (0, 1).
func OpenUnit(c float64) bool {
	return c > 0 && c < 1
}
