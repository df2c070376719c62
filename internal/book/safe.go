package book

import "math"

// SaturatingAdd adds a and b, clamping to the maximum uint64 instead
// of wrapping on overflow.
func SaturatingAdd(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}

// SaturatingSub subtracts b from a, clamping to zero instead of
// wrapping on underflow.
func SaturatingSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}
