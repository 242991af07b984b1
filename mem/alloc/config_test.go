package alloc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDispatch(t *testing.T) {
	arena := make([]byte, 1024)

	s, err := New(arena, Config{Kind: KindFixedPool, SlotSize: 64})
	require.NoError(t, err)
	assert.IsType(t, &FixedPool{}, s)

	s, err = New(arena, Config{Kind: KindBuddy, MinBlock: 64})
	require.NoError(t, err)
	assert.IsType(t, &Buddy{}, s)

	s, err = New(arena, Config{Kind: KindBitmap, UnitSize: 64})
	require.NoError(t, err)
	assert.IsType(t, &Bitmap{}, s)
}

func TestNewUnknownKind(t *testing.T) {
	_, err := New(make([]byte, 1024), Config{})
	assert.ErrorIs(t, err, ErrBadConfig)

	_, err = New(make([]byte, 1024), Config{Kind: Kind(99)})
	assert.ErrorIs(t, err, ErrBadConfig)
}

// Arenas longer than the 32-bit offset space must be rejected up
// front, not silently truncated to their low 32 bits of length.
func TestNewRejectsOversizeArena(t *testing.T) {
	if math.MaxInt <= math.MaxUint32 {
		t.Skip("arena length cannot exceed 32 bits on this platform")
	}
	size := uint64(1)<<32 + 1024
	// Virtual allocation only: validation fails before any byte of the
	// arena is touched.
	huge := make([]byte, int(size))

	for _, cfg := range []Config{
		{Kind: KindFixedPool, SlotSize: 64},
		{Kind: KindBuddy, MinBlock: 64},
		{Kind: KindBitmap, UnitSize: 64},
	} {
		_, err := New(huge, cfg)
		assert.ErrorIs(t, err, ErrBadConfig, cfg.Kind.String())
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "fixedpool", KindFixedPool.String())
	assert.Equal(t, "buddy", KindBuddy.String())
	assert.Equal(t, "bitmap", KindBitmap.String())
	assert.Equal(t, "kind(9)", Kind(9).String())
}
