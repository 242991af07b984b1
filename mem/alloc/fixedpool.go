package alloc

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/joshuapare/memkit/internal/bitfield"
	"github.com/joshuapare/memkit/internal/bitmath"
)

// noSlot terminates the free list.
const noSlot = ^uint32(0)

// minSlotSize leaves room for the 4-byte free-list link and keeps
// slots 8-byte aligned.
const minSlotSize = 8

// FixedPool partitions its arena into equal slots at construction.
// Free slots are threaded into a singly-linked list through their own
// storage: the first four bytes of a free slot hold the offset of the
// next free slot. The link is destroyed the instant the slot is handed
// out, since its storage then belongs to the caller.
//
// Alloc pops the list head and Free pushes onto it, both O(1). A
// liveness bitfield over the slots catches double frees and corrupted
// references.
type FixedPool struct {
	arena    []byte
	slotSize uint32
	slots    uint32
	head     uint32
	maxAlign uint32 // largest power of two dividing slotSize
	live     bitfield.Large
	liveN    uint32
}

// NewFixedPool builds a pool of len(arena)/slotSize slots. Trailing
// bytes that do not fill a whole slot are unused.
func NewFixedPool(arena []byte, slotSize uint32) (*FixedPool, error) {
	if uint64(len(arena)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: arena of %d bytes exceeds the 32-bit offset space",
			ErrBadConfig, len(arena))
	}
	if slotSize < minSlotSize || slotSize%minSlotSize != 0 {
		return nil, fmt.Errorf("%w: slot size %d must be a multiple of %d",
			ErrBadConfig, slotSize, minSlotSize)
	}
	slots := uint32(len(arena)) / slotSize
	if slots == 0 {
		return nil, fmt.Errorf("%w: arena of %d bytes holds no %d-byte slot",
			ErrBadConfig, len(arena), slotSize)
	}
	if slots > bitfield.LargeBits {
		return nil, fmt.Errorf("%w: %d slots exceeds tracking capacity %d",
			ErrBadConfig, slots, bitfield.LargeBits)
	}

	p := &FixedPool{
		arena:    arena,
		slotSize: slotSize,
		slots:    slots,
		head:     0,
		maxAlign: slotSize & -slotSize,
	}

	// Thread the free list in address order.
	for i := uint32(0); i < slots; i++ {
		next := noSlot
		if i+1 < slots {
			next = (i + 1) * slotSize
		}
		binary.LittleEndian.PutUint32(arena[i*slotSize:], next)
	}
	return p, nil
}

// Alloc pops the free-list head. Any size up to the slot size is
// served by a whole slot; larger requests fail with ErrNoSpace since
// no slot can ever satisfy them.
func (p *FixedPool) Alloc(size, align uint32) (uint32, uint32, error) {
	if align == 0 || !bitmath.IsPow2(align) || align > p.maxAlign {
		return 0, 0, fmt.Errorf("%w: align %d (pool supports up to %d)",
			ErrBadAlign, align, p.maxAlign)
	}
	if size > p.slotSize {
		return 0, 0, fmt.Errorf("%w: request %d exceeds slot size %d",
			ErrNoSpace, size, p.slotSize)
	}
	if p.head == noSlot {
		return 0, 0, ErrNoSpace
	}

	off := p.head
	p.head = binary.LittleEndian.Uint32(p.arena[off:])
	p.live.Set(off / p.slotSize)
	p.liveN++
	return off, p.slotSize, nil
}

// Free pushes the slot back onto the free-list head.
func (p *FixedPool) Free(off, size uint32) error {
	if off%p.slotSize != 0 || off/p.slotSize >= p.slots || size != p.slotSize {
		return fmt.Errorf("%w: offset %d size %d", ErrBadBlock, off, size)
	}
	idx := off / p.slotSize
	if !p.live.Test(idx) {
		// Double free, or a reference this pool never handed out.
		return fmt.Errorf("%w: slot %d is not live", ErrBadBlock, idx)
	}
	p.live.Clear(idx)
	p.liveN--
	binary.LittleEndian.PutUint32(p.arena[off:], p.head)
	p.head = off
	return nil
}

// Stats reports occupancy. A pool has no external fragmentation by
// construction: every free span is exactly one slot.
func (p *FixedPool) Stats() Stats {
	used := uint64(p.liveN) * uint64(p.slotSize)
	free := uint64(p.slots-p.liveN) * uint64(p.slotSize)
	largest := uint64(0)
	if p.liveN < p.slots {
		largest = uint64(p.slotSize)
	}
	return Stats{
		UsedBytes:   used,
		FreeBytes:   free,
		LargestFree: largest,
	}
}

// SlotCount returns the number of slots the pool was carved into.
func (p *FixedPool) SlotCount() uint32 {
	return p.slots
}
