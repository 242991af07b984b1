// Package arena provides the fixed memory spans the allocator regions
// manage. An arena is contiguous, created once, never resized, and
// owned by exactly one region for its whole lifetime.
//
// Arenas come from one of two places: an anonymous private mapping
// (New, page-aligned, released with Close) or a caller-supplied buffer
// (FromBytes, for targets that carve regions out of a static reserve).
package arena

import "errors"

var (
	// ErrEmpty indicates a zero-length span was supplied.
	ErrEmpty = errors.New("arena: empty span")

	// ErrBadSize indicates a non-positive mapping size was requested.
	ErrBadSize = errors.New("arena: size must be positive")
)

// Arena is a fixed, contiguous span of memory.
type Arena struct {
	data    []byte
	release func() error
}

// FromBytes wraps a caller-supplied buffer as an arena. The caller
// must not touch buf for the arena's lifetime; the owning region
// writes free-structure metadata directly into it.
func FromBytes(buf []byte) (*Arena, error) {
	if len(buf) == 0 {
		return nil, ErrEmpty
	}
	return &Arena{data: buf}, nil
}

// Bytes returns the arena's backing span.
func (a *Arena) Bytes() []byte {
	return a.data
}

// Len returns the arena length in bytes.
func (a *Arena) Len() int {
	return len(a.data)
}

// Close releases the arena's backing memory where the arena owns it
// (mapped arenas). Closing twice, or closing a FromBytes arena, is a
// no-op. No block from the owning region may be used afterwards.
func (a *Arena) Close() error {
	if a.release == nil {
		a.data = nil
		return nil
	}
	rel := a.release
	a.release = nil
	a.data = nil
	return rel()
}
