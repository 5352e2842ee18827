// Package cache implements a single-level set-associative cache
// simulator with configurable write and replacement policies.
package cache

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"os"
)

// WriteMode selects how writes propagate to the backing store.
type WriteMode string

const (
	// WriteBack absorbs writes into the cache and writes a block to the
	// backing store only when a dirty line is evicted.
	WriteBack WriteMode = "writeback"
	// WriteThrough forwards every write to the backing store
	// immediately; lines are never dirty.
	WriteThrough WriteMode = "writethrough"
)

// PolicyKind names a built-in replacement policy.
type PolicyKind string

const (
	PolicyLRU    PolicyKind = "lru"
	PolicyFIFO   PolicyKind = "fifo"
	PolicyRandom PolicyKind = "random"
)

// Config holds the cache geometry and policy selection. A Config is
// immutable after the engine is constructed.
type Config struct {
	// AddressBits is the width of memory addresses in bits (1-64).
	AddressBits int `json:"address_bits"`

	// Size is the total cache capacity in bytes.
	Size int `json:"cache_size"`

	// BlockSize is the size of one cache line in bytes.
	BlockSize int `json:"block_size"`

	// Associativity is the number of ways per set. 1 is direct-mapped;
	// Size/BlockSize is fully associative.
	Associativity int `json:"associativity"`

	// Mode selects the write policy.
	Mode WriteMode `json:"write_mode"`

	// Policy selects the replacement policy.
	Policy PolicyKind `json:"replacement_policy"`

	// Seed feeds the random replacement policy. Ignored by the
	// deterministic policies.
	Seed int64 `json:"seed"`
}

// DefaultConfig returns a small direct-mapped write-back cache:
// 16-bit addresses, 1KB capacity, 64B blocks, LRU.
func DefaultConfig() Config {
	return Config{
		AddressBits:   16,
		Size:          1024,
		BlockSize:     64,
		Associativity: 1,
		Mode:          WriteBack,
		Policy:        PolicyLRU,
	}
}

// LoadConfig loads a Config from a JSON file. Fields absent from the
// file keep their default values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read cache config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("failed to parse cache config: %w", err)
	}

	return config, nil
}

// Save writes the Config to a JSON file.
func (c Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize cache config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache config file: %w", err)
	}

	return nil
}

// NumBlocks returns the total number of cache lines.
func (c Config) NumBlocks() int {
	return c.Size / c.BlockSize
}

// NumSets returns the number of sets.
func (c Config) NumSets() int {
	return c.NumBlocks() / c.Associativity
}

// OffsetBits returns the number of block-offset bits.
func (c Config) OffsetBits() int {
	return bits.TrailingZeros64(uint64(c.BlockSize))
}

// IndexBits returns the number of set-index bits.
func (c Config) IndexBits() int {
	return bits.TrailingZeros64(uint64(c.NumSets()))
}

// Validate checks every geometry constraint. The returned error wraps
// ErrInvalidConfig and names the constraint that failed.
func (c Config) Validate() error {
	if c.BlockSize < 1 || !isPowerOfTwo(c.BlockSize) {
		return fmt.Errorf("%w: block size must be a power of two >= 1, got %d",
			ErrInvalidConfig, c.BlockSize)
	}

	if c.Size < c.BlockSize || c.Size%c.BlockSize != 0 ||
		!isPowerOfTwo(c.Size/c.BlockSize) {
		return fmt.Errorf(
			"%w: cache size must be a power-of-two multiple of the block size, got %d",
			ErrInvalidConfig, c.Size)
	}

	if c.Associativity < 1 || c.NumBlocks()%c.Associativity != 0 {
		return fmt.Errorf(
			"%w: associativity must divide the number of blocks (%d) evenly, got %d",
			ErrInvalidConfig, c.NumBlocks(), c.Associativity)
	}

	if !isPowerOfTwo(c.NumSets()) {
		return fmt.Errorf("%w: number of sets must be a power of two, got %d",
			ErrInvalidConfig, c.NumSets())
	}

	if c.AddressBits < 1 || c.AddressBits > 64 {
		return fmt.Errorf("%w: address width must be between 1 and 64 bits, got %d",
			ErrInvalidConfig, c.AddressBits)
	}

	if c.AddressBits < c.OffsetBits()+c.IndexBits() {
		return fmt.Errorf(
			"%w: address width %d is too small for %d offset bits and %d index bits",
			ErrInvalidConfig, c.AddressBits, c.OffsetBits(), c.IndexBits())
	}

	switch c.Mode {
	case WriteBack, WriteThrough:
	default:
		return fmt.Errorf("%w: unknown write mode %q", ErrInvalidConfig, c.Mode)
	}

	switch c.Policy {
	case PolicyLRU, PolicyFIFO, PolicyRandom:
	default:
		return fmt.Errorf("%w: unknown replacement policy %q",
			ErrInvalidConfig, c.Policy)
	}

	return nil
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
