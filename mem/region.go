package mem

import (
	"fmt"
	"os"

	"github.com/joshuapare/memkit/arena"
	"github.com/joshuapare/memkit/mem/alloc"
	"github.com/joshuapare/memkit/mem/spin"
)

// Runtime debug flag for allocation logging - controlled by the
// MEMKIT_LOG_ALLOC env var.
var logAlloc = os.Getenv("MEMKIT_LOG_ALLOC") != ""

// Region binds one arena to one allocation strategy and one lock. All
// blocks a region returns lie inside its arena and never overlap
// another live block from the same region; the arena and all
// free-structure metadata are mutated only while the lock is held.
//
// Alloc/Free busy-wait for the lock and suit ordinary contexts.
// TryAlloc/TryFree take the lock's non-waiting path and fail with
// ErrBusy under contention - the path for contexts that must never
// wait, such as interrupt-style callers that could otherwise invert
// priority against a lock holder.
type Region struct {
	handle Handle
	ar     *arena.Arena
	strat  alloc.Strategy
	lk     spin.Lock
}

func newRegion(h Handle, ar *arena.Arena, cfg alloc.Config) (*Region, error) {
	strat, err := alloc.New(ar.Bytes(), cfg)
	if err != nil {
		return nil, translate(err)
	}
	return &Region{handle: h, ar: ar, strat: strat}, nil
}

// Handle returns the region's handle.
func (r *Region) Handle() Handle {
	return r.handle
}

// Capacity returns the region's arena length in bytes.
func (r *Region) Capacity() uint64 {
	return uint64(r.ar.Len())
}

// Alloc reserves a block of at least size bytes aligned to align,
// waiting for the region lock if necessary.
func (r *Region) Alloc(size, align uint32) (Block, error) {
	r.lk.Acquire()
	return r.allocLocked(size, align)
}

// TryAlloc is Alloc on the non-waiting lock path: if the region is
// locked by another context it fails immediately with ErrBusy.
func (r *Region) TryAlloc(size, align uint32) (Block, error) {
	if !r.lk.TryAcquire() {
		return Block{}, ErrBusy
	}
	return r.allocLocked(size, align)
}

func (r *Region) allocLocked(size, align uint32) (Block, error) {
	defer r.lk.Release()
	off, n, err := r.strat.Alloc(size, align)
	if err != nil {
		if logAlloc {
			fmt.Fprintf(os.Stderr, "[ALLOC] region %d: alloc(%d, %d) failed: %v\n",
				r.handle, size, align, err)
		}
		return Block{}, translate(err)
	}
	buf := r.ar.Bytes()
	return Block{
		Region: r.handle,
		Off:    off,
		Size:   n,
		Data:   buf[off : off+n : off+n],
	}, nil
}

// Free returns a block to the region, waiting for the lock if
// necessary. The caller must not touch b.Data afterwards.
func (r *Region) Free(b Block) error {
	r.lk.Acquire()
	return r.freeLocked(b)
}

// TryFree is Free on the non-waiting lock path, failing with ErrBusy
// under contention. The block stays live when ErrBusy is returned.
func (r *Region) TryFree(b Block) error {
	if !r.lk.TryAcquire() {
		return ErrBusy
	}
	return r.freeLocked(b)
}

func (r *Region) freeLocked(b Block) error {
	defer r.lk.Release()
	if b.Region != r.handle {
		return fmt.Errorf("%w: block belongs to region %d", ErrBadBlock, b.Region)
	}
	if err := r.strat.Free(b.Off, b.Size); err != nil {
		if logAlloc {
			fmt.Fprintf(os.Stderr, "[ALLOC] region %d: free(%d, %d) failed: %v\n",
				r.handle, b.Off, b.Size, err)
		}
		return translate(err)
	}
	return nil
}

// Stats snapshots the region's occupancy under the lock.
func (r *Region) Stats() RegionStats {
	r.lk.Acquire()
	defer r.lk.Release()
	s := r.strat.Stats()
	return RegionStats{
		Capacity:      uint64(r.ar.Len()),
		UsedBytes:     s.UsedBytes,
		FreeBytes:     s.FreeBytes,
		LargestFree:   s.LargestFree,
		Fragmentation: s.Fragmentation,
	}
}
