package alloc

// Strategy is the contract every allocation strategy implements. A
// strategy is bound to one arena at construction and is immutable
// afterwards. Implementations are not safe for concurrent use; the
// owning region serializes access through its lock.
//
// Every operation runs in worst-case time that is a function of the
// strategy's configured granularity only, never of the number of
// blocks currently outstanding.
type Strategy interface {
	// Alloc reserves a block of at least size bytes aligned to align
	// (a power of two) and returns its arena offset and rounded size.
	// Fails with ErrNoSpace or ErrBadAlign.
	Alloc(size, align uint32) (off, n uint32, err error)

	// Free returns the block at off with the given rounded size to the
	// free structure. Fails with ErrBadBlock if the block is not live.
	Free(off, size uint32) error

	// Stats reports occupancy. Read-only, bounded time.
	Stats() Stats
}

// Stats is a point-in-time occupancy snapshot for one strategy.
type Stats struct {
	UsedBytes   uint64
	FreeBytes   uint64
	LargestFree uint64

	// Fragmentation estimates how scattered the free space is:
	// 1 - LargestFree/FreeBytes, so 0 means one contiguous free span
	// and values near 1 mean the free space is unusable for large
	// requests. Zero when nothing is free.
	Fragmentation float64
}

func fragmentation(freeBytes, largestFree uint64) float64 {
	if freeBytes == 0 {
		return 0
	}
	return 1 - float64(largestFree)/float64(freeBytes)
}
