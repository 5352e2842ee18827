package cache

// A Collector accumulates hit/miss/write-back counters from request
// results. It makes no decisions of its own.
type Collector struct {
	reads          uint64
	writes         uint64
	hits           uint64
	misses         uint64
	evictions      uint64
	dirtyEvictions uint64
	backingWrites  uint64
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Reads          uint64
	Writes         uint64
	Hits           uint64
	Misses         uint64
	Evictions      uint64
	DirtyEvictions uint64
	BackingWrites  uint64

	// HitRate is Hits / (Hits + Misses), 0 before any request.
	HitRate float64
}

// Record accumulates one request result.
func (c *Collector) Record(result RequestResult) {
	switch result.Op {
	case Read:
		c.reads++
	case Write:
		c.writes++
	}

	if result.Hit {
		c.hits++
	} else {
		c.misses++
	}

	if result.Evicted != nil {
		c.evictions++
		if result.Evicted.WasDirty {
			c.dirtyEvictions++
		}
	}

	if result.BackingWrite {
		c.backingWrites++
	}
}

// RecordWriteback counts a backing-store write that happened outside a
// request, such as a flush.
func (c *Collector) RecordWriteback() {
	c.backingWrites++
}

// Snapshot returns the current counter values.
func (c *Collector) Snapshot() Snapshot {
	s := Snapshot{
		Reads:          c.reads,
		Writes:         c.writes,
		Hits:           c.hits,
		Misses:         c.misses,
		Evictions:      c.evictions,
		DirtyEvictions: c.dirtyEvictions,
		BackingWrites:  c.backingWrites,
	}

	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}

	return s
}
