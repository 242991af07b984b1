package mem

// Handle identifies a registered region. The first region registered
// with an Allocator gets DefaultRegion.
type Handle uint32

// DefaultRegion is the handle requests route to when the caller has no
// reason to target a specific region.
const DefaultRegion Handle = 0

// Block is a live allocation. The caller owns Data exclusively from
// Alloc until the matching Free and must not retain or dereference it
// afterwards; Off and Size are the strategy's bookkeeping identity and
// must be passed back unchanged.
type Block struct {
	// Region is the handle of the region that produced the block.
	Region Handle

	// Off is the block's offset within its region's arena.
	Off uint32

	// Size is the rounded size actually reserved, >= the requested
	// size.
	Size uint32

	// Data aliases the arena span [Off, Off+Size). Its capacity is
	// clipped so the caller cannot reslice past the block.
	Data []byte
}

// RegionStats is a point-in-time occupancy snapshot for one region.
type RegionStats struct {
	Capacity      uint64
	UsedBytes     uint64
	FreeBytes     uint64
	LargestFree   uint64
	Fragmentation float64
}
