package main

import (
	"github.com/spf13/cobra"

	"github.com/sarchlab/cachesim/cache"
	"github.com/sarchlab/cachesim/trace"
)

// demoAccesses is a short built-in sequence that exercises hits,
// misses, replacement, and write-back on the default direct-mapped
// configuration.
var demoAccesses = []trace.Access{
	{Op: cache.Read, Address: 0},
	{Op: cache.Read, Address: 32},
	{Op: cache.Read, Address: 1024},
	{Op: cache.Write, Address: 1024},
	{Op: cache.Read, Address: 1024},
	{Op: cache.Write, Address: 32},
	{Op: cache.Read, Address: 32},
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a built-in demonstration sequence",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		verbose = true

		config, err := buildConfig()
		if err != nil {
			return err
		}

		return simulate(config, demoAccesses)
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}
