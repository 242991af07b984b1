package acceptance

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/memkit/arena"
	"github.com/joshuapare/memkit/mem"
	"github.com/joshuapare/memkit/mem/alloc"
)

// newAllocator builds a one-region allocator over a fresh arena.
func newAllocator(t *testing.T, arenaLen int, cfg alloc.Config) (*mem.Allocator, mem.Handle) {
	t.Helper()

	ar, err := arena.FromBytes(make([]byte, arenaLen))
	require.NoError(t, err, "Failed to wrap %d-byte arena", arenaLen)

	a := mem.New(1)
	h, err := a.Register(ar, cfg)
	require.NoError(t, err, "Failed to register %s region", cfg.Kind)
	return a, h
}

// requireDisjoint fails if any two live blocks overlap.
func requireDisjoint(t *testing.T, live []mem.Block) {
	t.Helper()
	for i := range live {
		for j := i + 1; j < len(live); j++ {
			a, b := live[i], live[j]
			disjoint := a.Off+a.Size <= b.Off || b.Off+b.Size <= a.Off
			require.True(t, disjoint, "live blocks overlap: %d+%d and %d+%d",
				a.Off, a.Size, b.Off, b.Size)
		}
	}
}

// fill stamps a block with a byte derived from its offset.
func fill(b mem.Block) {
	tag := byte(b.Off>>3) ^ 0x5A
	for i := range b.Data {
		b.Data[i] = tag
	}
}

// requireIntact fails if the block's stamp was overwritten, which means
// another block aliased its memory.
func requireIntact(t *testing.T, b mem.Block) {
	t.Helper()
	tag := byte(b.Off>>3) ^ 0x5A
	for i := range b.Data {
		require.Equal(t, tag, b.Data[i],
			"block at %d: byte %d clobbered by another allocation", b.Off, i)
	}
}

// runWorkload drives ops random alloc/free operations against one
// region, checking block disjointness and data integrity throughout.
// All blocks are freed before returning.
func runWorkload(t *testing.T, a *mem.Allocator, h mem.Handle, ops int, maxSize uint32, seed int64) {
	t.Helper()

	rng := rand.New(rand.NewSource(seed))
	var live []mem.Block

	for i := 0; i < ops; i++ {
		if len(live) > 0 && rng.Intn(2) == 0 {
			j := rng.Intn(len(live))
			requireIntact(t, live[j])
			require.NoError(t, a.Free(live[j]), "free at op %d", i)
			live[j] = live[len(live)-1]
			live = live[:len(live)-1]
			continue
		}

		size := uint32(rng.Intn(int(maxSize))) + 1
		b, err := a.Alloc(h, size, 8)
		if err != nil {
			require.ErrorIs(t, err, mem.ErrNoSpace, "alloc at op %d", i)
			continue
		}
		require.GreaterOrEqual(t, b.Size, size, "granted block smaller than request")
		fill(b)
		live = append(live, b)
		requireDisjoint(t, live)
	}

	for _, b := range live {
		requireIntact(t, b)
		require.NoError(t, a.Free(b))
	}

	s, err := a.Stats(h)
	require.NoError(t, err)
	require.Zero(t, s.UsedBytes, "bytes leaked after draining the workload")
}
