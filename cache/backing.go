package cache

// A BackingStore absorbs block writes from the cache: write-through
// writes and write-back flushes of dirty blocks. The engine only
// guarantees when the calls happen; what the store does with them is
// the harness's business.
type BackingStore interface {
	// Write receives the block-aligned address of the written block.
	Write(blockAddr uint64)
}

// NopStore discards every write.
type NopStore struct{}

// Write implements BackingStore.
func (NopStore) Write(blockAddr uint64) {}

// CountingStore counts writes per block address. It is the simplest
// useful backing model for traces whose contents do not matter.
type CountingStore struct {
	writes map[uint64]uint64
	total  uint64
}

// NewCountingStore returns an empty CountingStore.
func NewCountingStore() *CountingStore {
	return &CountingStore{writes: make(map[uint64]uint64)}
}

// Write implements BackingStore.
func (s *CountingStore) Write(blockAddr uint64) {
	s.writes[blockAddr]++
	s.total++
}

// Total returns the number of writes received.
func (s *CountingStore) Total() uint64 {
	return s.total
}

// Count returns the number of writes received for one block address.
func (s *CountingStore) Count(blockAddr uint64) uint64 {
	return s.writes[blockAddr]
}
