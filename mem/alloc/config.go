package alloc

import "fmt"

// Kind selects an allocation strategy.
type Kind uint8

const (
	// KindFixedPool partitions the arena into equal slots. O(1)
	// alloc/free, zero external fragmentation, waste is the gap
	// between request and slot size.
	KindFixedPool Kind = iota + 1

	// KindBuddy rounds requests to power-of-two blocks with per-order
	// free lists. Worst-case step count is log2(arenaLen/MinBlock), a
	// configuration constant; internal fragmentation up to ~2x on
	// pathological sizes is the documented trade-off.
	KindBuddy

	// KindBitmap tracks fixed-size units with one bit each. The run
	// search is capped at MaxScanWidth units, trading utilization for
	// a hard latency bound.
	KindBitmap
)

func (k Kind) String() string {
	switch k {
	case KindFixedPool:
		return "fixedpool"
	case KindBuddy:
		return "buddy"
	case KindBitmap:
		return "bitmap"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Config selects and parameterizes a strategy for one region. Exactly
// the fields for the chosen Kind are consulted.
type Config struct {
	Kind Kind

	// SlotSize is the FixedPool slot size in bytes. Must be a multiple
	// of 8 and at least 8 (a free slot stores its list link in its own
	// first bytes).
	SlotSize uint32

	// MinBlock is the smallest block the Buddy strategy hands out.
	// Must be a power of two and at least 8.
	MinBlock uint32

	// UnitSize is the Bitmap allocation granule. Must be a power of
	// two and at least 8.
	UnitSize uint32

	// MaxScanWidth caps the number of bitmap units examined per Alloc
	// before the strategy gives up with ErrNoSpace. Zero means the
	// whole arena (the cap degenerates to the unit count, which is
	// itself a configuration constant).
	MaxScanWidth uint32
}

// New validates cfg against the arena and constructs the strategy.
// The strategy takes ownership of the arena's contents: free-structure
// metadata is written directly into unallocated memory.
func New(arena []byte, cfg Config) (Strategy, error) {
	switch cfg.Kind {
	case KindFixedPool:
		return NewFixedPool(arena, cfg.SlotSize)
	case KindBuddy:
		return NewBuddy(arena, cfg.MinBlock)
	case KindBitmap:
		return NewBitmap(arena, cfg.UnitSize, cfg.MaxScanWidth)
	}
	return nil, fmt.Errorf("%w: unknown strategy kind %d", ErrBadConfig, cfg.Kind)
}
