package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/joshuapare/memkit/arena"
	"github.com/joshuapare/memkit/mem/alloc"
)

var (
	benchOps     int
	benchMaxSize uint32
	benchAlign   uint32
	benchSeed    int64
	benchCfg     regionConfig
)

func init() {
	cmd := newBenchCmd()
	cmd.Flags().IntVar(&benchOps, "ops", 100000, "Number of alloc/free operations")
	cmd.Flags().Uint32Var(&benchMaxSize, "max-size", 512, "Maximum request size in bytes")
	cmd.Flags().Uint32Var(&benchAlign, "align", 8, "Request alignment")
	cmd.Flags().Int64Var(&benchSeed, "seed", 1, "Workload RNG seed")
	rootCmd.AddCommand(cmd)
}

func newBenchCmd() *cobra.Command {
	cfg, err := loadRegionConfig()
	benchCfg = cfg
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run an alloc/free workload against a configured region",
		Long: `The bench command drives a randomized alloc/free workload against one
region and reports throughput, final occupancy, and (for the buddy
strategy) the worst-case split/merge step counts observed.

Defaults come from MEMCTL_* environment variables; flags override.

Example:
  memctl bench --strategy buddy --arena 262144 --min-block 64
  MEMCTL_STRATEGY=bitmap memctl bench --max-scan 256`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err != nil {
				return err
			}
			return runBench()
		},
	}
	addRegionFlags(&benchCfg, cmd)
	return cmd
}

type benchResult struct {
	Ops         int     `json:"ops"`
	Allocs      int     `json:"allocs"`
	Frees       int     `json:"frees"`
	NoSpace     int     `json:"no_space"`
	Seconds     float64 `json:"seconds"`
	OpsPerSec   float64 `json:"ops_per_sec"`
	UsedBytes   uint64  `json:"used_bytes"`
	FreeBytes   uint64  `json:"free_bytes"`
	LargestFree uint64  `json:"largest_free_bytes"`
	Frag        float64 `json:"fragmentation"`

	// Buddy only
	MaxSplitSteps uint32 `json:"max_split_steps,omitempty"`
	MaxMergeSteps uint32 `json:"max_merge_steps,omitempty"`
	OrderBound    uint32 `json:"order_bound,omitempty"`
}

func runBench() error {
	cfg, err := benchCfg.allocConfig()
	if err != nil {
		return err
	}
	ar, err := arena.New(int(benchCfg.ArenaSize))
	if err != nil {
		return fmt.Errorf("creating arena: %w", err)
	}
	defer ar.Close()

	strat, err := alloc.New(ar.Bytes(), cfg)
	if err != nil {
		return fmt.Errorf("configuring %s region: %w", benchCfg.Strategy, err)
	}

	printVerbose("Benchmarking %s over %d-byte arena, %d ops\n",
		benchCfg.Strategy, benchCfg.ArenaSize, benchOps)

	type liveBlock struct{ off, size uint32 }
	rng := rand.New(rand.NewSource(benchSeed))
	live := make([]liveBlock, 0, 1024)
	res := benchResult{Ops: benchOps}

	start := time.Now()
	for i := 0; i < benchOps; i++ {
		if len(live) > 0 && rng.Intn(2) == 0 {
			j := rng.Intn(len(live))
			b := live[j]
			if err := strat.Free(b.off, b.size); err != nil {
				return fmt.Errorf("free at op %d: %w", i, err)
			}
			live[j] = live[len(live)-1]
			live = live[:len(live)-1]
			res.Frees++
			continue
		}
		size := uint32(rng.Intn(int(benchMaxSize))) + 1
		off, n, err := strat.Alloc(size, benchAlign)
		if err != nil {
			res.NoSpace++
			continue
		}
		live = append(live, liveBlock{off, n})
		res.Allocs++
	}
	res.Seconds = time.Since(start).Seconds()
	res.OpsPerSec = float64(benchOps) / res.Seconds

	for _, b := range live {
		if err := strat.Free(b.off, b.size); err != nil {
			return fmt.Errorf("draining live blocks: %w", err)
		}
	}

	s := strat.Stats()
	res.UsedBytes = s.UsedBytes
	res.FreeBytes = s.FreeBytes
	res.LargestFree = s.LargestFree
	res.Frag = s.Fragmentation

	if b, ok := strat.(*alloc.Buddy); ok {
		c := b.Counters()
		res.MaxSplitSteps = c.MaxSplitSteps
		res.MaxMergeSteps = c.MaxMergeSteps
		res.OrderBound = b.Orders()
	}

	if jsonOut {
		return printJSON(res)
	}
	printInfo("ops:        %d (%d allocs, %d frees, %d no-space)\n",
		res.Ops, res.Allocs, res.Frees, res.NoSpace)
	printInfo("elapsed:    %.3fs (%.0f ops/s)\n", res.Seconds, res.OpsPerSec)
	printInfo("occupancy:  used=%d free=%d largest=%d frag=%.3f\n",
		res.UsedBytes, res.FreeBytes, res.LargestFree, res.Frag)
	if res.OrderBound > 0 {
		printInfo("buddy:      max split steps=%d, max merge steps=%d (bound %d)\n",
			res.MaxSplitSteps, res.MaxMergeSteps, res.OrderBound)
	}
	return nil
}
