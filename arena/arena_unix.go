//go:build unix

package arena

import (
	"errors"

	"golang.org/x/sys/unix"
)

// New creates an arena backed by an anonymous private mapping. The
// span is page-aligned, which also satisfies every block alignment the
// strategies hand out. Release with Close.
func New(size int) (*Arena, error) {
	if size <= 0 {
		return nil, ErrBadSize
	}
	data, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, err
	}
	release := func() error {
		err := unix.Munmap(data)
		if errors.Is(err, unix.EINVAL) {
			// Treat double-unmap as no-op for callers.
			return nil
		}
		return err
	}
	return &Arena{data: data, release: release}, nil
}
