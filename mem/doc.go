// Package mem is the core of memkit: bounded-latency dynamic memory
// management over fixed arenas, safe to call from multiple execution
// contexts including ones that must never wait.
//
// # Overview
//
// Applications talk to an Allocator, a fixed table of regions. Each
// region binds one arena (a fixed span from the arena package) to one
// allocation strategy (mem/alloc) and one spin lock (mem/spin):
//
//	application -> Allocator -> Region -> lock -> strategy -> block
//
// Every operation has a worst-case time that depends only on the
// region's configuration, never on current occupancy: the strategies
// rule out occupancy-dependent scans by construction, and the lock's
// critical sections contain nothing else.
//
// # Basic usage
//
//	ar, err := arena.New(1 << 20)
//	if err != nil { ... }
//	a := mem.New(4)
//	h, err := a.Register(ar, alloc.Config{Kind: alloc.KindBuddy, MinBlock: 64})
//	if err != nil { ... }
//
//	blk, err := a.Alloc(h, 100, 8)
//	if err != nil { ... }
//	copy(blk.Data, payload)
//	...
//	if err := a.Free(blk); err != nil { ... }
//
// # Contexts that cannot wait
//
// TryAlloc and TryFree never wait for the region lock: if another
// context holds it they fail with ErrBusy, a transient condition the
// caller retries or abandons. This is the path for interrupt-style
// callers, which must not spin on a lock a lower-priority context
// holds.
//
// # Ownership
//
// A Block's Data is the caller's exclusively from Alloc until the
// matching Free; the region owns the arena and all free-structure
// metadata. Blocks are plain values with no automatic reclamation -
// a lost block is leaked until system reset, and a double Free fails
// with ErrBadBlock where the strategy's metadata can detect it.
//
// # Errors
//
// All failures are sentinel errors matchable with errors.Is: ErrBusy
// (retry), ErrNoSpace (caller policy), ErrBadAlign and ErrBadConfig
// (programming errors), ErrBadBlock and ErrBadRegion (invariant
// violations - treat as fatal). Nothing is retried internally.
//
// # Debugging
//
// Set MEMKIT_LOG_ALLOC to any value to log allocation failures to
// stderr.
package mem
