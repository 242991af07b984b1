// Package debruijn finds the lowest and highest set bit of a word in
// constant time using de Bruijn sequences, for targets where the
// compiler cannot lower math/bits to a single count-zeros instruction.
//
// A de Bruijn sequence of size N (a power of two) is a cyclic bit
// sequence in which every log2(N)-bit pattern occurs exactly once.
// Multiplying a sequence that starts with log2(N) zeros by an isolated
// bit (a power of two) rotates a unique log2(N)-bit window to the top
// of the word; shifting that window down yields a perfect index into a
// lookup table of bit positions.
package debruijn

const (
	number32 = 0x04653ADF
	shift32  = 27

	number64 = 0x0218A392CD3D5DBF
	shift64  = 58
)

var indices32 = [32]uint32{
	0, 1, 2, 6, 3, 11, 7, 16, 4, 14, 12, 21, 8, 23, 17, 26,
	31, 5, 10, 15, 13, 20, 22, 25, 30, 9, 19, 24, 29, 18, 28, 27,
}

var indices64 = [64]uint32{
	0, 1, 2, 7, 3, 13, 8, 19, 4, 25, 14, 28, 9, 34, 20, 40,
	5, 17, 26, 38, 15, 46, 29, 48, 10, 31, 35, 54, 21, 50, 41, 57,
	63, 6, 12, 18, 24, 27, 33, 39, 16, 37, 45, 47, 30, 53, 49, 56,
	62, 11, 23, 32, 36, 44, 52, 55, 61, 22, 43, 51, 60, 42, 59, 58,
}

// LowestSet32 returns the index of the lowest set bit of v.
// Returns 0 when v is 0.
func LowestSet32(v uint32) uint32 {
	isolated := v & -v
	return indices32[number32*isolated>>shift32]
}

// LowestSet64 returns the index of the lowest set bit of v.
// Returns 0 when v is 0.
func LowestSet64(v uint64) uint32 {
	isolated := v & -v
	return indices64[number64*isolated>>shift64]
}

// HighestSet32 returns the index of the highest set bit of v.
// Returns 31 when v is 0.
func HighestSet32(v uint32) uint32 {
	return 31 - LowestSet32(reverse32(v))
}

// HighestSet64 returns the index of the highest set bit of v.
// Returns 63 when v is 0.
func HighestSet64(v uint64) uint32 {
	return 63 - LowestSet64(reverse64(v))
}

// reverse32 mirrors the bits of v without relying on math/bits, so the
// fallback path stays free of intrinsics end to end.
func reverse32(v uint32) uint32 {
	v = v>>1&0x55555555 | v&0x55555555<<1
	v = v>>2&0x33333333 | v&0x33333333<<2
	v = v>>4&0x0F0F0F0F | v&0x0F0F0F0F<<4
	v = v>>8&0x00FF00FF | v&0x00FF00FF<<8
	return v>>16 | v<<16
}

func reverse64(v uint64) uint64 {
	return uint64(reverse32(uint32(v)))<<32 | uint64(reverse32(uint32(v>>32)))
}
