package acceptance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/memkit/mem"
	"github.com/joshuapare/memkit/mem/alloc"
)

// A 1024-byte buddy region with a 64-byte min block: a 100-byte request
// is served by a 128-byte block, a 1000-byte request then fails, and
// freeing the first block restores the full arena as one free span.
func TestBuddyScenario(t *testing.T) {
	a, h := newAllocator(t, 1024, alloc.Config{
		Kind:     alloc.KindBuddy,
		MinBlock: 64,
	})

	b, err := a.Alloc(h, 100, 8)
	require.NoError(t, err)
	assert.Equal(t, uint32(128), b.Size)

	_, err = a.Alloc(h, 1000, 8)
	require.ErrorIs(t, err, mem.ErrNoSpace)

	require.NoError(t, a.Free(b))

	s, err := a.Stats(h)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), s.UsedBytes)
	assert.Equal(t, uint64(1024), s.LargestFree, "free space coalesced back to one block")

	big, err := a.Alloc(h, 1000, 8)
	require.NoError(t, err)
	assert.Equal(t, uint32(1024), big.Size)
	require.NoError(t, a.Free(big))
}

// A 320-byte pool with 32-byte slots holds exactly ten blocks; the
// eleventh allocation fails however small the request.
func TestFixedPoolScenario(t *testing.T) {
	a, h := newAllocator(t, 320, alloc.Config{
		Kind:     alloc.KindFixedPool,
		SlotSize: 32,
	})

	var live []mem.Block
	for i := 0; i < 10; i++ {
		b, err := a.Alloc(h, 16, 1)
		require.NoError(t, err, "alloc %d of 10", i)
		assert.Equal(t, uint32(32), b.Size)
		live = append(live, b)
	}
	requireDisjoint(t, live)

	_, err := a.Alloc(h, 16, 1)
	require.ErrorIs(t, err, mem.ErrNoSpace)

	for _, b := range live {
		require.NoError(t, a.Free(b))
	}
}

// Double frees surface as ErrBadBlock from every strategy.
func TestDoubleFreeDetection(t *testing.T) {
	configs := []alloc.Config{
		{Kind: alloc.KindFixedPool, SlotSize: 64},
		{Kind: alloc.KindBuddy, MinBlock: 64},
		{Kind: alloc.KindBitmap, UnitSize: 64},
	}
	for _, cfg := range configs {
		t.Run(cfg.Kind.String(), func(t *testing.T) {
			a, h := newAllocator(t, 1024, cfg)

			b, err := a.Alloc(h, 50, 8)
			require.NoError(t, err)
			require.NoError(t, a.Free(b))

			assert.ErrorIs(t, a.Free(b), mem.ErrBadBlock)
		})
	}
}

// Every strategy reports alignment it cannot honor rather than
// misplacing the block.
func TestAlignmentHonored(t *testing.T) {
	configs := []alloc.Config{
		{Kind: alloc.KindFixedPool, SlotSize: 64},
		{Kind: alloc.KindBuddy, MinBlock: 64},
		{Kind: alloc.KindBitmap, UnitSize: 64},
	}
	for _, cfg := range configs {
		t.Run(cfg.Kind.String(), func(t *testing.T) {
			a, h := newAllocator(t, 1024, cfg)

			b, err := a.Alloc(h, 8, 64)
			require.NoError(t, err)
			assert.Zero(t, b.Off%64)
			require.NoError(t, a.Free(b))

			_, err = a.Alloc(h, 8, 24)
			assert.ErrorIs(t, err, mem.ErrBadAlign, "non-power-of-two alignment")
		})
	}
}
