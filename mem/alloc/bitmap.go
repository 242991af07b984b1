package alloc

import (
	"fmt"
	"math"

	"github.com/joshuapare/memkit/internal/bitfield"
	"github.com/joshuapare/memkit/internal/bitmath"
)

// minUnitSize keeps units 8-byte aligned like every other granule.
const minUnitSize = 8

// Bitmap divides its arena into fixed-size units and tracks each with
// one bit (set = free). Alloc searches for a run of free units long
// enough for the request, but examines at most maxScan units before
// failing with ErrNoSpace - even if free space technically exists
// further on. That cap is the strategy's latency-over-utilization
// trade-off: the worst-case search cost is a configuration constant,
// and callers who prefer utilization raise MaxScanWidth (or leave it
// zero for the whole arena, whose unit count is itself fixed).
//
// Unlike the other strategies the bitmap keeps no metadata inside the
// arena; liveness lives entirely in the bitfield, which doubles as the
// double-free detector.
type Bitmap struct {
	arena     []byte
	unit      uint32
	units     uint32
	maxScan   uint32
	free      bitfield.Large
	freeUnits uint32
}

// NewBitmap builds a bitmap allocator with len(arena)/unit tracked
// units. Trailing bytes that do not fill a whole unit are unused.
func NewBitmap(arena []byte, unit, maxScan uint32) (*Bitmap, error) {
	if uint64(len(arena)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: arena of %d bytes exceeds the 32-bit offset space",
			ErrBadConfig, len(arena))
	}
	if unit < minUnitSize || !bitmath.IsPow2(unit) {
		return nil, fmt.Errorf("%w: unit size %d must be a power of two >= %d",
			ErrBadConfig, unit, minUnitSize)
	}
	units := uint32(len(arena)) / unit
	if units == 0 {
		return nil, fmt.Errorf("%w: arena of %d bytes holds no %d-byte unit",
			ErrBadConfig, len(arena), unit)
	}
	if units > bitfield.LargeBits {
		return nil, fmt.Errorf("%w: %d units exceeds tracking capacity %d",
			ErrBadConfig, units, bitfield.LargeBits)
	}
	if maxScan == 0 || maxScan > units {
		maxScan = units
	}

	b := &Bitmap{
		arena:     arena,
		unit:      unit,
		units:     units,
		maxScan:   maxScan,
		freeUnits: units,
	}
	b.free.SetRun(0, units)
	return b, nil
}

// Units returns the number of tracked units.
func (b *Bitmap) Units() uint32 {
	return b.units
}

// Alloc finds a run of free units covering the request. Candidate
// starts advance strictly, and every examined unit counts against the
// scan cap, so the loop terminates within maxScan iterations no matter
// how fragmented the bitmap is.
func (b *Bitmap) Alloc(size, align uint32) (uint32, uint32, error) {
	if align == 0 || !bitmath.IsPow2(align) {
		return 0, 0, fmt.Errorf("%w: align %d", ErrBadAlign, align)
	}
	step := uint32(1)
	if align > b.unit {
		step = align / b.unit
		if step > b.units {
			return 0, 0, fmt.Errorf("%w: align %d exceeds arena span",
				ErrBadAlign, align)
		}
	}

	n := (size + b.unit - 1) / b.unit
	if n == 0 {
		n = 1
	}
	if n > b.units {
		return 0, 0, ErrNoSpace
	}

	var scanned uint32
	for cand := uint32(0); scanned < b.maxScan; {
		p, ok := b.free.LowestSetFrom(cand)
		if !ok {
			return 0, 0, ErrNoSpace
		}
		p = bitmath.AlignUp(p, step)
		if p+n > b.units || p+n < p {
			return 0, 0, ErrNoSpace
		}
		run := b.free.SetRunLen(p, n)
		scanned += run + 1
		if run == n {
			b.free.ClearRun(p, n)
			b.freeUnits -= n
			return p * b.unit, n * b.unit, nil
		}
		cand = p + run + 1
	}
	// Scan cap reached: fail rather than keep searching. See the type
	// comment for the trade-off.
	return 0, 0, fmt.Errorf("%w: scan cap of %d units reached",
		ErrNoSpace, b.maxScan)
}

// Free marks the block's units free again. Every unit in the range
// must currently be live, so double frees and stale references fail
// with ErrBadBlock.
func (b *Bitmap) Free(off, size uint32) error {
	if off%b.unit != 0 || size == 0 {
		return fmt.Errorf("%w: offset %d size %d", ErrBadBlock, off, size)
	}
	p := off / b.unit
	n := (size + b.unit - 1) / b.unit
	if p+n > b.units || p+n < p {
		return fmt.Errorf("%w: range %d+%d outside arena", ErrBadBlock, off, size)
	}
	if !b.free.NoneSet(p, n) {
		return fmt.Errorf("%w: range at %d is not fully live", ErrBadBlock, off)
	}
	b.free.SetRun(p, n)
	b.freeUnits += n
	return nil
}

// Stats reports occupancy. The largest-run scan is bounded by the unit
// count, a configuration constant.
func (b *Bitmap) Stats() Stats {
	used := uint64(b.units-b.freeUnits) * uint64(b.unit)
	free := uint64(b.freeUnits) * uint64(b.unit)
	largest := uint64(b.free.LongestSetRun(b.units)) * uint64(b.unit)
	return Stats{
		UsedBytes:     used,
		FreeBytes:     free,
		LargestFree:   largest,
		Fragmentation: fragmentation(free, largest),
	}
}
