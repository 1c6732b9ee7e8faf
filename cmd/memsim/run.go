package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/memsim/config"
	"github.com/sarchlab/memsim/tiered"
	"github.com/sarchlab/memsim/trace"
)

var runCmd = &cobra.Command{
	Use:   "run [trace]",
	Short: "Replay a trace file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		verbose, _ := cmd.Flags().GetBool("verbose")

		cfg := config.DefaultConfig()
		if configPath != "" {
			var err error
			cfg, err = config.LoadConfig(configPath)
			if err != nil {
				return err
			}
		}

		if cmd.Flags().Changed("seed") {
			cfg.Seed, _ = cmd.Flags().GetInt64("seed")
		}

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open trace: %w", err)
		}
		defer f.Close()

		var logger *log.Logger
		if verbose {
			logger = log.New(cmd.ErrOrStderr(), "", 0)
		}

		return runTrace(cmd.OutOrStdout(), cfg, f, logger)
	},
}

func init() {
	runCmd.Flags().StringP("config", "c", "", "path to memory configuration JSON file")
	runCmd.Flags().BoolP("verbose", "v", false, "log every cache hit, miss, and eviction")
	runCmd.Flags().Int64("seed", 1, "override the replacement seed of the configuration")
	rootCmd.AddCommand(runCmd)
}

// runTrace builds the configured memory, replays the trace, and prints a
// report to out. Cache events go to logger when it is not nil.
func runTrace(
	out io.Writer,
	cfg *config.Config,
	r io.Reader,
	logger *log.Logger,
) error {
	m, err := cfg.Build()
	if err != nil {
		return err
	}

	if logger != nil {
		m.Cache().AcceptHook(trace.NewAccessLogger(logger))
	}

	accesses, err := trace.Parse(r)
	if err != nil {
		return err
	}

	result, replayErr := trace.Replay(m, accesses)

	printReport(out, cfg, m.Stats(), result)

	return replayErr
}

func printReport(
	out io.Writer,
	cfg *config.Config,
	stats tiered.Statistics,
	result trace.Result,
) {
	fmt.Fprintf(out, "Organization: %s\n", cfg.Organization)
	fmt.Fprintf(out, "Geometry: cache_size=%d line_size=%d address_size=%d (%d slots)\n",
		cfg.CacheSize, cfg.LineSize, cfg.AddressSize, cfg.Positions())
	fmt.Fprintf(out, "Write policy: %s\n", cfg.WritePolicy)
	fmt.Fprintf(out, "\n")
	fmt.Fprintf(out, "Reads:         %d\n", stats.Reads)
	fmt.Fprintf(out, "Writes:        %d\n", stats.Writes)
	fmt.Fprintf(out, "Hits:          %d\n", stats.Hits)
	fmt.Fprintf(out, "Misses:        %d\n", stats.Misses)
	fmt.Fprintf(out, "Allocations:   %d\n", stats.Allocations)
	fmt.Fprintf(out, "Invalidations: %d\n", stats.Invalidations)
	fmt.Fprintf(out, "Updates:       %d\n", stats.Updates)
	fmt.Fprintf(out, "Hit rate:      %.1f%%\n", 100*stats.HitRate())

	if result.Misses > 0 {
		fmt.Fprintf(out, "Unserved reads: %d\n", result.Misses)
	}
}
