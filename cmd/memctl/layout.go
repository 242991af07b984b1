package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/memkit/arena"
	"github.com/joshuapare/memkit/mem/alloc"
)

var layoutCfg regionConfig

func init() {
	rootCmd.AddCommand(newLayoutCmd())
}

func newLayoutCmd() *cobra.Command {
	cfg, err := loadRegionConfig()
	layoutCfg = cfg
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the granule layout a region configuration produces",
		Long: `The layout command validates a region configuration against an arena
size and prints the resulting partitioning: slot count for a fixed
pool, the order table for a buddy region, or the unit count and scan
cap for a bitmap region.

Example:
  memctl layout --strategy buddy --arena 1024 --min-block 64`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err != nil {
				return err
			}
			return runLayout()
		},
	}
	addRegionFlags(&layoutCfg, cmd)
	return cmd
}

func runLayout() error {
	cfg, err := layoutCfg.allocConfig()
	if err != nil {
		return err
	}
	ar, err := arena.New(int(layoutCfg.ArenaSize))
	if err != nil {
		return fmt.Errorf("creating arena: %w", err)
	}
	defer ar.Close()

	strat, err := alloc.New(ar.Bytes(), cfg)
	if err != nil {
		return fmt.Errorf("configuring %s region: %w", layoutCfg.Strategy, err)
	}

	printInfo("strategy: %s, arena: %d bytes\n", cfg.Kind, layoutCfg.ArenaSize)
	switch s := strat.(type) {
	case *alloc.FixedPool:
		printInfo("slots:    %d x %d bytes\n", s.SlotCount(), layoutCfg.SlotSize)
	case *alloc.Buddy:
		printInfo("orders:   %d (worst-case step bound per op)\n", s.Orders())
		for o := uint32(0); o < s.Orders(); o++ {
			blocks := layoutCfg.ArenaSize / (layoutCfg.MinBlock << o)
			printInfo("  order %2d: %8d-byte blocks, %d max\n",
				o, layoutCfg.MinBlock<<o, blocks)
		}
	case *alloc.Bitmap:
		scan := layoutCfg.MaxScanWidth
		if scan == 0 || scan > s.Units() {
			scan = s.Units()
		}
		printInfo("units:    %d x %d bytes, scan cap %d units\n",
			s.Units(), layoutCfg.UnitSize, scan)
	}
	return nil
}
