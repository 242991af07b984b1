package main

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"github.com/joshuapare/memkit/mem/alloc"
)

// regionConfig holds the region setup shared by the subcommands.
// Defaults come from MEMCTL_* environment variables and can be
// overridden per-invocation with flags. The defaults stay within the
// 4096-granule tracking capacity: 256 KiB over 64-byte granules.
type regionConfig struct {
	Strategy     string `default:"buddy"`
	ArenaSize    uint32 `split_words:"true" default:"262144"`
	SlotSize     uint32 `split_words:"true" default:"64"`
	MinBlock     uint32 `split_words:"true" default:"64"`
	UnitSize     uint32 `split_words:"true" default:"64"`
	MaxScanWidth uint32 `split_words:"true" default:"0"`
}

// loadRegionConfig reads MEMCTL_* env defaults.
func loadRegionConfig() (regionConfig, error) {
	var cfg regionConfig
	if err := envconfig.Process("memctl", &cfg); err != nil {
		return cfg, fmt.Errorf("reading MEMCTL_* environment: %w", err)
	}
	return cfg, nil
}

// allocConfig translates the CLI view into a strategy config.
func (c regionConfig) allocConfig() (alloc.Config, error) {
	switch strings.ToLower(c.Strategy) {
	case "fixedpool", "pool":
		return alloc.Config{Kind: alloc.KindFixedPool, SlotSize: c.SlotSize}, nil
	case "buddy":
		return alloc.Config{Kind: alloc.KindBuddy, MinBlock: c.MinBlock}, nil
	case "bitmap":
		return alloc.Config{
			Kind:         alloc.KindBitmap,
			UnitSize:     c.UnitSize,
			MaxScanWidth: c.MaxScanWidth,
		}, nil
	}
	return alloc.Config{}, fmt.Errorf("unknown strategy %q (fixedpool, buddy, bitmap)", c.Strategy)
}

// addRegionFlags registers the shared region flags on a command,
// seeded with the env-derived defaults.
func addRegionFlags(cfg *regionConfig, cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&cfg.Strategy, "strategy", cfg.Strategy, "Allocation strategy (fixedpool, buddy, bitmap)")
	flags.Uint32Var(&cfg.ArenaSize, "arena", cfg.ArenaSize, "Arena size in bytes")
	flags.Uint32Var(&cfg.SlotSize, "slot", cfg.SlotSize, "FixedPool slot size")
	flags.Uint32Var(&cfg.MinBlock, "min-block", cfg.MinBlock, "Buddy minimum block size")
	flags.Uint32Var(&cfg.UnitSize, "unit", cfg.UnitSize, "Bitmap unit size")
	flags.Uint32Var(&cfg.MaxScanWidth, "max-scan", cfg.MaxScanWidth, "Bitmap scan cap in units (0 = whole arena)")
}
