package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPool(t *testing.T, arenaLen int, slot uint32) *FixedPool {
	t.Helper()
	p, err := NewFixedPool(make([]byte, arenaLen), slot)
	require.NoError(t, err)
	return p
}

func TestFixedPoolSlotCount(t *testing.T) {
	// 320 bytes at 32 bytes per slot is exactly 10 slots.
	p := newPool(t, 320, 32)
	require.Equal(t, uint32(10), p.SlotCount())

	// Trailing bytes that do not fill a slot are unused.
	p = newPool(t, 330, 32)
	assert.Equal(t, uint32(10), p.SlotCount())
}

func TestFixedPoolExhaustion(t *testing.T) {
	p := newPool(t, 320, 32)

	seen := make(map[uint32]bool)
	for i := 0; i < 10; i++ {
		off, n, err := p.Alloc(16, 1)
		require.NoError(t, err, "alloc %d", i)
		require.Equal(t, uint32(32), n, "every grant is a whole slot")
		require.Zero(t, off%32)
		require.False(t, seen[off], "slot %d handed out twice", off)
		seen[off] = true
	}

	// The 11th allocation must fail: the pool is exactly 10 slots.
	_, _, err := p.Alloc(16, 1)
	assert.ErrorIs(t, err, ErrNoSpace)
}

func TestFixedPoolFreeRecycles(t *testing.T) {
	p := newPool(t, 64, 32)

	off1, _, err := p.Alloc(32, 1)
	require.NoError(t, err)
	_, _, err = p.Alloc(32, 1)
	require.NoError(t, err)
	_, _, err = p.Alloc(32, 1)
	require.ErrorIs(t, err, ErrNoSpace)

	require.NoError(t, p.Free(off1, 32))

	// The freed slot is the new list head.
	off3, _, err := p.Alloc(32, 1)
	require.NoError(t, err)
	assert.Equal(t, off1, off3)
}

func TestFixedPoolOversizeRequest(t *testing.T) {
	p := newPool(t, 320, 32)
	_, _, err := p.Alloc(33, 1)
	assert.ErrorIs(t, err, ErrNoSpace, "no slot can ever serve a request over the slot size")
}

func TestFixedPoolAlignment(t *testing.T) {
	p := newPool(t, 320, 32)

	// Up to the slot's natural alignment is fine.
	off, _, err := p.Alloc(8, 32)
	require.NoError(t, err)
	assert.Zero(t, off%32)

	_, _, err = p.Alloc(8, 64)
	assert.ErrorIs(t, err, ErrBadAlign)

	_, _, err = p.Alloc(8, 3)
	assert.ErrorIs(t, err, ErrBadAlign, "non-power-of-two alignment")

	_, _, err = p.Alloc(8, 0)
	assert.ErrorIs(t, err, ErrBadAlign)
}

func TestFixedPoolDoubleFree(t *testing.T) {
	p := newPool(t, 320, 32)

	off, n, err := p.Alloc(16, 1)
	require.NoError(t, err)
	require.NoError(t, p.Free(off, n))

	assert.ErrorIs(t, p.Free(off, n), ErrBadBlock)
}

func TestFixedPoolFreeValidation(t *testing.T) {
	p := newPool(t, 320, 32)

	assert.ErrorIs(t, p.Free(33, 32), ErrBadBlock, "misaligned offset")
	assert.ErrorIs(t, p.Free(320, 32), ErrBadBlock, "offset past the arena")
	assert.ErrorIs(t, p.Free(0, 16), ErrBadBlock, "size is not the slot size")
	assert.ErrorIs(t, p.Free(0, 32), ErrBadBlock, "slot never allocated")
}

func TestFixedPoolStats(t *testing.T) {
	p := newPool(t, 320, 32)

	s := p.Stats()
	assert.Equal(t, uint64(0), s.UsedBytes)
	assert.Equal(t, uint64(320), s.FreeBytes)
	assert.Equal(t, uint64(32), s.LargestFree)

	off, n, err := p.Alloc(16, 1)
	require.NoError(t, err)
	s = p.Stats()
	assert.Equal(t, uint64(32), s.UsedBytes)
	assert.Equal(t, uint64(288), s.FreeBytes)

	require.NoError(t, p.Free(off, n))
	s = p.Stats()
	assert.Equal(t, uint64(0), s.UsedBytes)
	assert.Equal(t, uint64(320), s.FreeBytes)
}

func TestFixedPoolConfigValidation(t *testing.T) {
	_, err := NewFixedPool(make([]byte, 320), 12)
	assert.ErrorIs(t, err, ErrBadConfig, "slot size not a multiple of 8")

	_, err = NewFixedPool(make([]byte, 320), 4)
	assert.ErrorIs(t, err, ErrBadConfig, "slot size below the link minimum")

	_, err = NewFixedPool(make([]byte, 16), 32)
	assert.ErrorIs(t, err, ErrBadConfig, "arena holds no slot")

	_, err = NewFixedPool(make([]byte, 8*5000), 8)
	assert.ErrorIs(t, err, ErrBadConfig, "slot count over tracking capacity")
}
