// Package alloc implements the bounded-latency allocation strategies
// behind memkit regions.
//
// # Overview
//
// Every strategy manages one fixed arena and implements the Strategy
// interface:
//
//   - Alloc(size, align): reserve a block, return its offset and
//     rounded size
//   - Free(off, size): return a block to the free structure
//   - Stats(): occupancy snapshot
//
// The defining constraint is latency: each operation's worst case is a
// function of the strategy's configured granularity, never of how many
// blocks happen to be outstanding. Unbounded free-list walks are a
// correctness defect here, not a performance one.
//
// # Strategies
//
// FixedPool: equal slots, free list threaded through slot storage
//
//   - O(1) alloc (pop head) and free (push head)
//   - no external fragmentation; waste is request vs slot size
//
// Buddy: power-of-two orders, per-order embedded free lists
//
//   - split and merge walks bounded by log2(arenaLen/MinBlock)
//   - eager coalescing on every free
//   - internal fragmentation up to ~2x on pathological sizes
//
// Bitmap: one bit per unit, run search capped at MaxScanWidth
//
//   - the cap is a deliberate latency-over-utilization trade-off:
//     Alloc may fail with ErrNoSpace while free space exists beyond
//     the scan horizon
//
// # Metadata placement
//
// FixedPool and Buddy write their free-list nodes into the free blocks
// themselves (offsets encoded little-endian at the block head), so
// there is no separate metadata heap and a node logically ceases to
// exist the moment its block is handed out. The bitmap keeps its state
// in a fast bitfield instead and stores nothing in the arena.
//
// Tracking bitfields are fixed at 4096 bits; configurations whose
// granule count exceeds that are rejected with ErrBadConfig rather
// than grown, keeping all bookkeeping statically sized.
//
// # Error taxonomy
//
//   - ErrNoSpace: no suitable free block (recoverable by caller policy)
//   - ErrBadAlign, ErrBadConfig: caller programming errors, never retried
//   - ErrBadBlock: double free or corrupted reference - treat as fatal
//
// # Thread safety
//
// Strategies are not safe for concurrent use. The owning mem.Region
// serializes access through its spin lock; see the mem package.
package alloc
