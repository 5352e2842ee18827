package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/cachesim/cache"
)

var configInitCmd = &cobra.Command{
	Use:   "config-init <path>",
	Short: "Write the default cache configuration as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		if err := cache.DefaultConfig().Save(args[0]); err != nil {
			return err
		}

		fmt.Printf("Wrote default configuration to %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configInitCmd)
}
