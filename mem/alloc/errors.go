package alloc

import "errors"

var (
	// ErrNoSpace indicates that no free block satisfying the request
	// exists (or, for the bitmap strategy, none within the scan cap).
	ErrNoSpace = errors.New("alloc: no free block large enough")

	// ErrBadAlign indicates the requested alignment is not a power of
	// two the strategy supports.
	ErrBadAlign = errors.New("alloc: unsupported alignment")

	// ErrBadConfig indicates the strategy configuration is incompatible
	// with the arena (bad granule size, arena too small or too large).
	ErrBadConfig = errors.New("alloc: invalid configuration")

	// ErrBadBlock indicates a free of a block the strategy does not
	// consider live - a double free or a corrupted reference. Callers
	// should treat it as fatal: it signals an invariant violation
	// somewhere else in the system.
	ErrBadBlock = errors.New("alloc: block not live")
)
