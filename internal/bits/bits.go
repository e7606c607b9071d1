// Package bits provides overflow-checked integer primitives.
package bits

import "math/bits"

// Pow64 returns base^exp and whether the result fits in a uint64.
// Pow64(0, 0) is 1.
func Pow64(base uint64, exp int) (uint64, bool) {
	result := uint64(1)
	for range exp {
		hi, lo := bits.Mul64(result, base)
		if hi != 0 {
			return 0, false
		}
		result = lo
	}
	return result, true
}

// DivRoundHalfEven returns n/d rounded to the nearest integer, with ties
// going to the even neighbour. d must be non-zero.
func DivRoundHalfEven(n, d uint64) uint64 {
	q, r := n/d, n%d
	// Compare 2r with d without overflowing: r < d always holds.
	switch {
	case r > d-r:
		q++
	case r == d-r && q&1 == 1:
		q++
	}
	return q
}
