package mem

import (
	"errors"

	"github.com/joshuapare/memkit/mem/alloc"
)

var (
	// ErrBusy indicates the region's lock was contended on a
	// non-blocking call. Transient; the caller may retry or abandon.
	ErrBusy = errors.New("mem: region busy")

	// ErrNoSpace indicates no suitable free block exists in the region.
	ErrNoSpace = errors.New("mem: out of memory")

	// ErrBadAlign indicates an alignment the region's strategy does not
	// support. Caller programming error; never retried.
	ErrBadAlign = errors.New("mem: unsupported alignment")

	// ErrBadConfig indicates a region configuration incompatible with
	// its arena, or a full region table.
	ErrBadConfig = errors.New("mem: invalid configuration")

	// ErrBadBlock indicates a free of a block the region does not
	// consider live - a double free or memory corruption. Must be
	// surfaced, never ignored; callers may treat it as fatal.
	ErrBadBlock = errors.New("mem: invalid block")

	// ErrBadRegion indicates an unknown region handle.
	ErrBadRegion = errors.New("mem: unknown region")
)

// translate maps strategy-level errors onto the facade taxonomy so
// callers match against one set of sentinels regardless of strategy.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, alloc.ErrNoSpace):
		return errors.Join(ErrNoSpace, err)
	case errors.Is(err, alloc.ErrBadAlign):
		return errors.Join(ErrBadAlign, err)
	case errors.Is(err, alloc.ErrBadConfig):
		return errors.Join(ErrBadConfig, err)
	case errors.Is(err, alloc.ErrBadBlock):
		return errors.Join(ErrBadBlock, err)
	}
	return err
}
