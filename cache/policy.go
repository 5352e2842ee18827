package cache

import (
	"fmt"
	"math/rand"
)

// A ReplacementPolicy decides which way of a full set should be
// evicted, and is notified of accesses and fills so it can keep its
// per-set state current. The state itself lives in the Set; a single
// policy instance serves every set of an engine.
type ReplacementPolicy interface {
	// ChooseVictim returns the way to evict from a full set.
	ChooseVictim(set *Set) int
	// OnAccess reports a hit on a way.
	OnAccess(set *Set, way int)
	// OnFill reports that a way was filled with a new tag.
	OnFill(set *Set, way int)
}

// NewPolicy constructs one of the built-in policies. The seed is used
// by the random policy only.
func NewPolicy(kind PolicyKind, seed int64) (ReplacementPolicy, error) {
	switch kind {
	case PolicyLRU:
		return NewLRUPolicy(), nil
	case PolicyFIFO:
		return NewFIFOPolicy(), nil
	case PolicyRandom:
		return NewRandomPolicy(seed), nil
	default:
		return nil, fmt.Errorf("%w: unknown replacement policy %q",
			ErrInvalidConfig, kind)
	}
}

// lruPolicy evicts the least recently touched way. Ways that were
// never touched are evicted lowest way index first.
type lruPolicy struct{}

// NewLRUPolicy returns a least-recently-used policy.
func NewLRUPolicy() ReplacementPolicy {
	return lruPolicy{}
}

func (lruPolicy) ChooseVictim(set *Set) int {
	return set.order[0]
}

func (lruPolicy) OnAccess(set *Set, way int) {
	set.moveToBack(way)
}

func (lruPolicy) OnFill(set *Set, way int) {
	set.moveToBack(way)
}

// fifoPolicy evicts the way that was filled first. Hits do not change
// the eviction order.
type fifoPolicy struct{}

// NewFIFOPolicy returns a first-in-first-out policy.
func NewFIFOPolicy() ReplacementPolicy {
	return fifoPolicy{}
}

func (fifoPolicy) ChooseVictim(set *Set) int {
	return set.order[0]
}

func (fifoPolicy) OnAccess(set *Set, way int) {}

func (fifoPolicy) OnFill(set *Set, way int) {
	set.moveToBack(way)
}

// randomPolicy evicts a uniformly random way. The sequence of choices
// is reproducible for a given seed.
type randomPolicy struct {
	rng *rand.Rand
}

// NewRandomPolicy returns a seeded random policy.
func NewRandomPolicy(seed int64) ReplacementPolicy {
	return &randomPolicy{rng: rand.New(rand.NewSource(seed))}
}

func (p *randomPolicy) ChooseVictim(set *Set) int {
	return p.rng.Intn(len(set.Lines))
}

func (p *randomPolicy) OnAccess(set *Set, way int) {}

func (p *randomPolicy) OnFill(set *Set, way int) {}
