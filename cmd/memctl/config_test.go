package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/memkit/mem/alloc"
)

// The out-of-the-box defaults must build a working region for every
// strategy; a default arena too large for the tracking bitfields would
// make every subcommand fail before doing any work.
func TestDefaultConfigBuildsEveryStrategy(t *testing.T) {
	for _, strategy := range []string{"fixedpool", "buddy", "bitmap"} {
		t.Run(strategy, func(t *testing.T) {
			cfg, err := loadRegionConfig()
			require.NoError(t, err)
			cfg.Strategy = strategy

			ac, err := cfg.allocConfig()
			require.NoError(t, err)

			_, err = alloc.New(make([]byte, cfg.ArenaSize), ac)
			require.NoError(t, err, "default %s config rejected by its own allocator", strategy)
		})
	}
}

func TestAllocConfigUnknownStrategy(t *testing.T) {
	cfg := regionConfig{Strategy: "slab"}
	_, err := cfg.allocConfig()
	assert.Error(t, err)
}

func TestAllocConfigAliases(t *testing.T) {
	cfg := regionConfig{Strategy: "Pool", SlotSize: 64}
	ac, err := cfg.allocConfig()
	require.NoError(t, err)
	assert.Equal(t, alloc.KindFixedPool, ac.Kind)
}
