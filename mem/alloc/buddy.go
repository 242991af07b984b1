package alloc

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/joshuapare/memkit/internal/bitfield"
	"github.com/joshuapare/memkit/internal/bitmath"
)

// noBlock terminates the per-order free lists.
const noBlock = ^uint32(0)

// minBuddyBlock leaves room for the 8-byte free-list node (next and
// prev links) embedded at the head of every free block.
const minBuddyBlock = 8

// Buddy is a power-of-two buddy allocator. Requests round up to the
// nearest power-of-two order; each order keeps its own free list,
// threaded through the free blocks themselves (next link at offset 0,
// prev link at offset 4 - the node lives in memory the caller does not
// own yet and is destroyed the instant the block is handed out).
//
// Alloc walks up from the requested order to the first non-empty list
// and splits one block per level on the way back down. Free merges the
// block with its buddy, eagerly and recursively, as long as the buddy
// is free at the same order. Both walks are bounded by the order
// count, log2(arenaLen/minBlock) - a configuration constant, never a
// function of occupancy. The price is internal fragmentation of up to
// ~2x on sizes just past a power of two.
//
// Per-order free bitfields make the buddy-free check O(1), an order
// occupancy mask makes the first-fit order lookup O(1), and a granule
// liveness bitfield catches double frees.
type Buddy struct {
	arena    []byte
	arenaLen uint32
	minBlock uint32
	minShift uint32
	maxOrder uint32 // relative: block size at order o is minBlock<<o

	heads     []uint32
	orderMask bitfield.Small
	freeBits  []bitfield.Large
	live      bitfield.Large
	used      uint64

	counters BuddyCounters
}

// BuddyCounters instruments the split/merge walks so tests and tools
// can verify the worst-case step bound against the order count.
type BuddyCounters struct {
	AllocCalls    uint64
	FreeCalls     uint64
	SplitSteps    uint64
	MergeSteps    uint64
	MaxSplitSteps uint32
	MaxMergeSteps uint32
}

// NewBuddy builds a buddy allocator over arena. The arena length must
// be a power of two and a multiple of minBlock; the whole arena starts
// as one free block at the top order.
func NewBuddy(arena []byte, minBlock uint32) (*Buddy, error) {
	if uint64(len(arena)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: arena of %d bytes exceeds the 32-bit offset space",
			ErrBadConfig, len(arena))
	}
	arenaLen := uint32(len(arena))
	if minBlock < minBuddyBlock || !bitmath.IsPow2(minBlock) {
		return nil, fmt.Errorf("%w: min block %d must be a power of two >= %d",
			ErrBadConfig, minBlock, minBuddyBlock)
	}
	if arenaLen == 0 || !bitmath.IsPow2(arenaLen) {
		return nil, fmt.Errorf("%w: arena length %d must be a power of two",
			ErrBadConfig, arenaLen)
	}
	if arenaLen < minBlock {
		return nil, fmt.Errorf("%w: arena length %d below min block %d",
			ErrBadConfig, arenaLen, minBlock)
	}
	granules := arenaLen / minBlock
	if granules > bitfield.LargeBits {
		return nil, fmt.Errorf("%w: %d granules exceeds tracking capacity %d",
			ErrBadConfig, granules, bitfield.LargeBits)
	}

	minShift := bitmath.Log2(minBlock)
	maxOrder := bitmath.Log2(arenaLen) - minShift

	b := &Buddy{
		arena:    arena,
		arenaLen: arenaLen,
		minBlock: minBlock,
		minShift: minShift,
		maxOrder: maxOrder,
		heads:    make([]uint32, maxOrder+1),
		freeBits: make([]bitfield.Large, maxOrder+1),
	}
	for o := range b.heads {
		b.heads[o] = noBlock
	}
	b.pushFree(maxOrder, 0)
	return b, nil
}

// Orders returns the number of buddy orders, the bound on split and
// merge step counts.
func (b *Buddy) Orders() uint32 {
	return b.maxOrder + 1
}

// Counters returns a snapshot of the step instrumentation.
func (b *Buddy) Counters() BuddyCounters {
	return b.counters
}

// Alloc rounds the request up to a power-of-two order and serves it
// from the first non-empty free list at or above that order, splitting
// on the way down.
func (b *Buddy) Alloc(size, align uint32) (uint32, uint32, error) {
	if align == 0 || !bitmath.IsPow2(align) {
		return 0, 0, fmt.Errorf("%w: align %d", ErrBadAlign, align)
	}
	if align > b.arenaLen {
		return 0, 0, fmt.Errorf("%w: align %d exceeds arena length %d",
			ErrBadAlign, align, b.arenaLen)
	}
	if size > b.arenaLen {
		return 0, 0, ErrNoSpace
	}
	b.counters.AllocCalls++

	// Buddy blocks are naturally aligned to their own size, so folding
	// the alignment into the rounded size satisfies any supported
	// alignment for free.
	need := size
	if need < b.minBlock {
		need = b.minBlock
	}
	if need < align {
		need = align
	}
	need = bitmath.CeilPow2(need)

	order := bitmath.Log2(need) - b.minShift
	from, ok := b.orderMask.LowestSetFrom(order)
	if !ok {
		return 0, 0, ErrNoSpace
	}

	off := b.popFree(from)
	var steps uint32
	for from > order {
		from--
		steps++
		b.pushFree(from, off+(b.minBlock<<from))
	}

	b.live.SetRun(off>>b.minShift, need>>b.minShift)
	b.used += uint64(need)

	b.counters.SplitSteps += uint64(steps)
	if steps > b.counters.MaxSplitSteps {
		b.counters.MaxSplitSteps = steps
	}
	return off, need, nil
}

// Free returns the block to its order's free list, merging with its
// buddy eagerly while the buddy is also free at the same order.
func (b *Buddy) Free(off, size uint32) error {
	if size < b.minBlock || size > b.arenaLen || !bitmath.IsPow2(size) ||
		off%size != 0 || off > b.arenaLen-size {
		return fmt.Errorf("%w: offset %d size %d", ErrBadBlock, off, size)
	}
	g0, gn := off>>b.minShift, size>>b.minShift
	if !b.live.AllSet(g0, gn) {
		// Double free, or a reference this allocator never handed out.
		return fmt.Errorf("%w: block at %d is not live", ErrBadBlock, off)
	}
	b.counters.FreeCalls++
	b.live.ClearRun(g0, gn)
	b.used -= uint64(size)

	order := bitmath.Log2(size) - b.minShift
	var steps uint32
	for order < b.maxOrder {
		buddy := off ^ (b.minBlock << order)
		if !b.freeBits[order].Test(buddy >> (b.minShift + order)) {
			break
		}
		b.removeFree(order, buddy)
		if buddy < off {
			off = buddy
		}
		order++
		steps++
	}
	b.pushFree(order, off)

	b.counters.MergeSteps += uint64(steps)
	if steps > b.counters.MaxMergeSteps {
		b.counters.MaxMergeSteps = steps
	}
	return nil
}

// Stats reports occupancy. The largest free block follows directly
// from the highest non-empty order.
func (b *Buddy) Stats() Stats {
	free := uint64(b.arenaLen) - b.used
	var largest uint64
	if o, ok := b.orderMask.HighestSet(); ok {
		largest = uint64(b.minBlock) << o
	}
	return Stats{
		UsedBytes:     b.used,
		FreeBytes:     free,
		LargestFree:   largest,
		Fragmentation: fragmentation(free, largest),
	}
}

// Free-list node accessors. The node occupies the first 8 bytes of a
// free block and is only valid while the block is on a free list.

func (b *Buddy) nextOf(off uint32) uint32 {
	return binary.LittleEndian.Uint32(b.arena[off:])
}

func (b *Buddy) setNext(off, next uint32) {
	binary.LittleEndian.PutUint32(b.arena[off:], next)
}

func (b *Buddy) prevOf(off uint32) uint32 {
	return binary.LittleEndian.Uint32(b.arena[off+4:])
}

func (b *Buddy) setPrev(off, prev uint32) {
	binary.LittleEndian.PutUint32(b.arena[off+4:], prev)
}

func (b *Buddy) pushFree(order, off uint32) {
	head := b.heads[order]
	b.setNext(off, head)
	b.setPrev(off, noBlock)
	if head != noBlock {
		b.setPrev(head, off)
	}
	b.heads[order] = off
	b.freeBits[order].Set(off >> (b.minShift + order))
	b.orderMask.Set(order)
}

func (b *Buddy) popFree(order uint32) uint32 {
	off := b.heads[order]
	next := b.nextOf(off)
	b.heads[order] = next
	if next != noBlock {
		b.setPrev(next, noBlock)
	} else {
		b.orderMask.Clear(order)
	}
	b.freeBits[order].Clear(off >> (b.minShift + order))
	return off
}

func (b *Buddy) removeFree(order, off uint32) {
	prev, next := b.prevOf(off), b.nextOf(off)
	if prev != noBlock {
		b.setNext(prev, next)
	} else {
		b.heads[order] = next
	}
	if next != noBlock {
		b.setPrev(next, prev)
	}
	if b.heads[order] == noBlock {
		b.orderMask.Clear(order)
	}
	b.freeBits[order].Clear(off >> (b.minShift + order))
}
