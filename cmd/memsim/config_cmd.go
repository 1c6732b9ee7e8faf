package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/memsim/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the default memory configuration as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("output")
		if out != "" {
			return config.DefaultConfig().SaveConfig(out)
		}

		data, err := json.MarshalIndent(config.DefaultConfig(), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to serialize memory config: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(data))

		return nil
	},
}

func init() {
	configCmd.Flags().StringP("output", "o", "", "write the configuration to this file instead of stdout")
	rootCmd.AddCommand(configCmd)
}
