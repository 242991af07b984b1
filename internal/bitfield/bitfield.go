// Package bitfield implements fast bitfields: bit sets whose lowest
// and highest set bits can be found in constant time, independent of
// the field's contents. The allocator strategies use them for free
// maps, liveness tracking and order occupancy, where a data-dependent
// scan would break the latency bound.
//
// Two sizes are provided. Small holds one 64-bit word. Large holds
// 64 groups of 64 bits (4096 bits total) behind a layer cache: a
// summary word with one bit per non-empty group, so any lookup is at
// most two word scans.
package bitfield

import (
	"math/bits"

	"github.com/joshuapare/memkit/internal/cpufeat"
	"github.com/joshuapare/memkit/internal/debruijn"
)

const (
	// GroupBits is the width of one bitfield word.
	GroupBits = 64

	// LargeBits is the capacity of a Large bitfield.
	LargeBits = GroupBits * GroupBits
)

// The scan implementation is picked once at init: math/bits where the
// CPU lowers it to a count-zeros instruction, de Bruijn lookup
// otherwise. Both are branch-free and constant time.
var (
	lowestSet  func(uint64) uint32
	highestSet func(uint64) uint32
)

func init() {
	if cpufeat.HasFastBitScan() {
		lowestSet = func(v uint64) uint32 { return uint32(bits.TrailingZeros64(v)) }
		highestSet = func(v uint64) uint32 { return uint32(63 - bits.LeadingZeros64(v)) }
	} else {
		lowestSet = debruijn.LowestSet64
		highestSet = debruijn.HighestSet64
	}
}

// Small is a fast bitfield of GroupBits bits.
type Small struct {
	field uint64
}

// Set sets bit i. Out-of-range indexes are ignored.
func (s *Small) Set(i uint32) {
	if i < GroupBits {
		s.field |= 1 << i
	}
}

// Clear clears bit i. Out-of-range indexes are ignored.
func (s *Small) Clear(i uint32) {
	if i < GroupBits {
		s.field &^= 1 << i
	}
}

// Test reports whether bit i is set. Out-of-range indexes are false.
func (s *Small) Test(i uint32) bool {
	return i < GroupBits && s.field&(1<<i) != 0
}

// Empty reports whether no bits are set.
func (s *Small) Empty() bool {
	return s.field == 0
}

// LowestSet returns the lowest set bit index, or false if empty.
func (s *Small) LowestSet() (uint32, bool) {
	if s.field == 0 {
		return 0, false
	}
	return lowestSet(s.field), true
}

// HighestSet returns the highest set bit index, or false if empty.
func (s *Small) HighestSet() (uint32, bool) {
	if s.field == 0 {
		return 0, false
	}
	return highestSet(s.field), true
}

// LowestSetFrom returns the lowest set bit index >= i, or false if no
// such bit exists.
func (s *Small) LowestSetFrom(i uint32) (uint32, bool) {
	if i >= GroupBits {
		return 0, false
	}
	masked := s.field &^ (1<<i - 1)
	if masked == 0 {
		return 0, false
	}
	return lowestSet(masked), true
}

// Large is a fast bitfield of LargeBits bits with a layer cache: bit g
// of the cache is set iff group g has any set bits.
type Large struct {
	layer  uint64
	groups [GroupBits]uint64
}

// Set sets bit i. Out-of-range indexes are ignored.
func (l *Large) Set(i uint32) {
	if i >= LargeBits {
		return
	}
	g := i / GroupBits
	l.groups[g] |= 1 << (i % GroupBits)
	l.layer |= 1 << g
}

// Clear clears bit i. Out-of-range indexes are ignored.
func (l *Large) Clear(i uint32) {
	if i >= LargeBits {
		return
	}
	g := i / GroupBits
	l.groups[g] &^= 1 << (i % GroupBits)
	if l.groups[g] == 0 {
		l.layer &^= 1 << g
	}
}

// Test reports whether bit i is set. Out-of-range indexes are false.
func (l *Large) Test(i uint32) bool {
	if i >= LargeBits {
		return false
	}
	return l.groups[i/GroupBits]&(1<<(i%GroupBits)) != 0
}

// Empty reports whether no bits are set.
func (l *Large) Empty() bool {
	return l.layer == 0
}

// LowestSet returns the lowest set bit index, or false if empty.
func (l *Large) LowestSet() (uint32, bool) {
	if l.layer == 0 {
		return 0, false
	}
	g := lowestSet(l.layer)
	return g*GroupBits + lowestSet(l.groups[g]), true
}

// HighestSet returns the highest set bit index, or false if empty.
func (l *Large) HighestSet() (uint32, bool) {
	if l.layer == 0 {
		return 0, false
	}
	g := highestSet(l.layer)
	return g*GroupBits + highestSet(l.groups[g]), true
}

// LowestSetFrom returns the lowest set bit index >= i, or false if no
// such bit exists. At most two word scans via the layer cache.
func (l *Large) LowestSetFrom(i uint32) (uint32, bool) {
	if i >= LargeBits {
		return 0, false
	}
	g := i / GroupBits
	if masked := l.groups[g] &^ (1<<(i%GroupBits) - 1); masked != 0 {
		return g*GroupBits + lowestSet(masked), true
	}
	if g == GroupBits-1 {
		return 0, false
	}
	layerMasked := l.layer &^ (1<<(g+1) - 1)
	if layerMasked == 0 {
		return 0, false
	}
	g = lowestSet(layerMasked)
	return g*GroupBits + lowestSet(l.groups[g]), true
}

// SetRun sets the n bits starting at i. Bits beyond the field are
// ignored. Word-at-a-time, so cost is proportional to n/64.
func (l *Large) SetRun(i, n uint32) {
	l.eachRunWord(i, n, func(g uint32, mask uint64) {
		l.groups[g] |= mask
		l.layer |= 1 << g
	})
}

// ClearRun clears the n bits starting at i.
func (l *Large) ClearRun(i, n uint32) {
	l.eachRunWord(i, n, func(g uint32, mask uint64) {
		l.groups[g] &^= mask
		if l.groups[g] == 0 {
			l.layer &^= 1 << g
		}
	})
}

// AllSet reports whether every one of the n bits starting at i is set.
// A run extending past the field is never all set.
func (l *Large) AllSet(i, n uint32) bool {
	if n == 0 {
		return true
	}
	if i+n > LargeBits || i+n < i {
		return false
	}
	ok := true
	l.eachRunWord(i, n, func(g uint32, mask uint64) {
		if l.groups[g]&mask != mask {
			ok = false
		}
	})
	return ok
}

// NoneSet reports whether none of the n bits starting at i is set.
func (l *Large) NoneSet(i, n uint32) bool {
	ok := true
	l.eachRunWord(i, n, func(g uint32, mask uint64) {
		if l.groups[g]&mask != 0 {
			ok = false
		}
	})
	return ok
}

// SetRunLen returns the length of the run of set bits starting exactly
// at i, capped at limit.
func (l *Large) SetRunLen(i, limit uint32) uint32 {
	var run uint32
	for run < limit && l.Test(i+run) {
		run++
	}
	return run
}

// Count returns the number of set bits. Fixed 64-word scan.
func (l *Large) Count() uint32 {
	var n int
	for g := range l.groups {
		n += bits.OnesCount64(l.groups[g])
	}
	return uint32(n)
}

// LongestSetRun returns the length of the longest run of consecutive
// set bits within the first limit bits. Cost is fixed by limit, not by
// the field's contents.
func (l *Large) LongestSetRun(limit uint32) uint32 {
	if limit > LargeBits {
		limit = LargeBits
	}
	var best, run uint32
	for i := uint32(0); i < limit; i++ {
		if l.Test(i) {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 0
		}
	}
	return best
}

// eachRunWord applies fn to each (group, mask) pair covering bits
// [i, i+n), clipped to the field.
func (l *Large) eachRunWord(i, n uint32, fn func(g uint32, mask uint64)) {
	if i >= LargeBits {
		return
	}
	if i+n > LargeBits || i+n < i {
		n = LargeBits - i
	}
	for n > 0 {
		g := i / GroupBits
		bit := i % GroupBits
		span := GroupBits - bit
		if span > n {
			span = n
		}
		var mask uint64
		if span == GroupBits {
			mask = ^uint64(0)
		} else {
			mask = (1<<span - 1) << bit
		}
		fn(g, mask)
		i += span
		n -= span
	}
}
