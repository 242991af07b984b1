//go:build !unix

package arena

// New creates an arena backed by a plain heap allocation on targets
// without anonymous mappings. Alignment still covers every block
// alignment the strategies hand out, since Go heap spans of this size
// are page-aligned in practice; FromBytes callers on such targets
// should supply suitably aligned reserves themselves.
func New(size int) (*Arena, error) {
	if size <= 0 {
		return nil, ErrBadSize
	}
	return &Arena{data: make([]byte, size)}, nil
}
