// Package main provides the cachesim command-line interface.
// CacheSim replays memory address traces through a configurable
// single-level cache model and reports hit/miss statistics.
package main

func main() {
	Execute()
}
