package mem

import (
	"fmt"
	"sync/atomic"

	"github.com/joshuapare/memkit/arena"
	"github.com/joshuapare/memkit/mem/alloc"
	"github.com/joshuapare/memkit/mem/spin"
)

// Allocator is the public entry point: a fixed-capacity table of
// regions that routes requests by handle. The table's capacity is set
// once at construction and never grows - the facade itself must not
// allocate on the request path.
//
// Registration happens at startup; Alloc/Free/Stats may then be called
// from any context. Operations on the same region are serialized by
// that region's lock; operations on different regions proceed fully in
// parallel.
type Allocator struct {
	regions []*Region
	count   atomic.Int32
	regLk   spin.Lock
}

// New creates an allocator with room for maxRegions regions.
func New(maxRegions int) *Allocator {
	if maxRegions < 1 {
		maxRegions = 1
	}
	return &Allocator{regions: make([]*Region, maxRegions)}
}

// Register binds an arena to a strategy as a new region and returns
// its handle. The first region registered becomes DefaultRegion.
// Fails with ErrBadConfig if the arena is incompatible with the
// strategy or the table is full.
func (a *Allocator) Register(ar *arena.Arena, cfg alloc.Config) (Handle, error) {
	a.regLk.Acquire()
	defer a.regLk.Release()

	n := int(a.count.Load())
	if n == len(a.regions) {
		return 0, fmt.Errorf("%w: region table full (%d)", ErrBadConfig, len(a.regions))
	}
	h := Handle(n)
	r, err := newRegion(h, ar, cfg)
	if err != nil {
		return 0, err
	}
	a.regions[n] = r
	a.count.Store(int32(n + 1))
	return h, nil
}

// Regions returns the number of registered regions. Handles 0 through
// Regions()-1 are valid.
func (a *Allocator) Regions() int {
	return int(a.count.Load())
}

// Region resolves a handle. Fails with ErrBadRegion for handles never
// returned by Register.
func (a *Allocator) Region(h Handle) (*Region, error) {
	// Compare in uint32 so a handle >= 2^31 cannot sneak past the
	// bounds check as a negative int32.
	if uint32(h) >= uint32(a.count.Load()) {
		return nil, fmt.Errorf("%w: handle %d", ErrBadRegion, h)
	}
	return a.regions[h], nil
}

// Alloc reserves a block of at least size bytes aligned to align from
// the region named by h.
func (a *Allocator) Alloc(h Handle, size, align uint32) (Block, error) {
	r, err := a.Region(h)
	if err != nil {
		return Block{}, err
	}
	return r.Alloc(size, align)
}

// TryAlloc is Alloc on the non-waiting lock path (ErrBusy under
// contention).
func (a *Allocator) TryAlloc(h Handle, size, align uint32) (Block, error) {
	r, err := a.Region(h)
	if err != nil {
		return Block{}, err
	}
	return r.TryAlloc(size, align)
}

// Free returns a block to the region it came from, routed by the
// handle the block carries.
func (a *Allocator) Free(b Block) error {
	r, err := a.Region(b.Region)
	if err != nil {
		return err
	}
	return r.Free(b)
}

// TryFree is Free on the non-waiting lock path (ErrBusy under
// contention; the block stays live).
func (a *Allocator) TryFree(b Block) error {
	r, err := a.Region(b.Region)
	if err != nil {
		return err
	}
	return r.TryFree(b)
}

// Stats snapshots the occupancy of the region named by h.
func (a *Allocator) Stats(h Handle) (RegionStats, error) {
	r, err := a.Region(h)
	if err != nil {
		return RegionStats{}, err
	}
	return r.Stats(), nil
}
