package bitmath

// Alignment and power-of-two arithmetic shared by the allocator strategies.
// All inputs and results are arena-relative byte counts, so uint32 is enough.

import "math/bits"

// AlignUp returns n rounded up to the next multiple of align.
// align must be a power of two.
//
// Example:
//
//	AlignUp(1, 8)  = 8
//	AlignUp(8, 8)  = 8
//	AlignUp(9, 8)  = 16
func AlignUp(n, align uint32) uint32 {
	mask := align - 1
	return (n + mask) &^ mask
}

// IsPow2 reports whether n is a non-zero power of two.
func IsPow2(n uint32) bool {
	return n != 0 && n&(n-1) == 0
}

// CeilPow2 returns the smallest power of two >= n.
// CeilPow2(0) and CeilPow2(1) both return 1.
func CeilPow2(n uint32) uint32 {
	if n <= 1 {
		return 1
	}
	return 1 << (32 - bits.LeadingZeros32(n-1))
}

// Log2 returns the base-2 logarithm of n. n must be a non-zero power
// of two; for other inputs the result is the position of the highest
// set bit.
func Log2(n uint32) uint32 {
	return uint32(bits.Len32(n)) - 1
}
