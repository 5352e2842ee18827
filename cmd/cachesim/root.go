package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/cachesim/cache"
)

var (
	addressBits   int
	cacheSize     int
	blockSize     int
	associativity int
	writeMode     string
	policy        string
	seed          int64
	configPath    string
	verbose       bool
	recordName    string
)

// rootCmd represents the base command when called without any
// subcommands.
var rootCmd = &cobra.Command{
	Use:   "cachesim",
	Short: "CacheSim simulates a single-level CPU cache over an address trace.",
	Long: `CacheSim models a set-associative cache with configurable geometry, ` +
		`write policy (write-back or write-through), and replacement policy ` +
		`(LRU, FIFO, or seeded random). It replays read/write address traces ` +
		`and reports per-operation results and aggregate statistics.`,
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	defaults := cache.DefaultConfig()

	pf := rootCmd.PersistentFlags()
	pf.IntVar(&addressBits, "address-bits", defaults.AddressBits,
		"address width in bits")
	pf.IntVar(&cacheSize, "cache-size", defaults.Size,
		"cache capacity in bytes")
	pf.IntVar(&blockSize, "block-size", defaults.BlockSize,
		"cache line size in bytes")
	pf.IntVar(&associativity, "associativity", defaults.Associativity,
		"ways per set (1 = direct-mapped)")
	pf.StringVar(&writeMode, "mode", string(defaults.Mode),
		"write policy: writeback or writethrough")
	pf.StringVar(&policy, "policy", string(defaults.Policy),
		"replacement policy: lru, fifo, or random")
	pf.Int64Var(&seed, "seed", 0,
		"seed for the random replacement policy")
	pf.StringVar(&configPath, "config", "",
		"path to a cache configuration JSON file (overrides geometry flags)")
	pf.BoolVarP(&verbose, "verbose", "v", false,
		"narrate every operation")
	pf.StringVar(&recordName, "record", "",
		"record results into <name>.sqlite3")
}

// buildConfig assembles the cache configuration from the config file or
// the geometry flags.
func buildConfig() (cache.Config, error) {
	if configPath != "" {
		return cache.LoadConfig(configPath)
	}

	return cache.Config{
		AddressBits:   addressBits,
		Size:          cacheSize,
		BlockSize:     blockSize,
		Associativity: associativity,
		Mode:          cache.WriteMode(writeMode),
		Policy:        cache.PolicyKind(policy),
		Seed:          seed,
	}, nil
}
