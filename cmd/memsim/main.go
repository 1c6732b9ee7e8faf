// Package main provides the memsim command line tool, which replays memory
// access traces against a cache in front of a backing store.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "memsim",
	Short: "memsim replays memory access traces through a simulated cache.",
	Long: `memsim replays memory access traces through a direct-mapped or ` +
		`fully associative cache sitting in front of a flat backing store, ` +
		`and reports hit and miss statistics.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
