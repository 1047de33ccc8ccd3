package util

// Truncate shortens s to at most n runes for tabular display, replacing the
// tail with an ellipsis when cut.
func Truncate(s string, n int) string {
	if n <= 3 {
		n = 3
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// ClampQuantity bounds a user-supplied cart quantity to a sane range.
// Negative input clamps to zero.
func ClampQuantity(q int) int {
	const max = 999
	if q < 0 {
		return 0
	}
	if q > max {
		return max
	}
	return q
}
