// Package main provides the entry point for CacheSim.
// CacheSim is a single-level CPU cache simulator.
//
// For the full CLI, use: go run ./cmd/cachesim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("CacheSim - Single-Level CPU Cache Simulator")
	fmt.Println("")
	fmt.Println("Usage: cachesim [command] [options]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  run <trace>   Replay an address trace through the cache")
	fmt.Println("  demo          Run a built-in demonstration sequence")
	fmt.Println("  config-init   Write the default configuration as JSON")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/cachesim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/cachesim' instead.")
	}
}
