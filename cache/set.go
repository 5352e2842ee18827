package cache

// A Line is one way of a cache set: the tag it holds plus validity and
// dirty state. A line starts invalid, becomes valid on a miss fill, and
// is reset to invalid when evicted.
type Line struct {
	Valid bool
	Dirty bool
	Tag   uint64
}

// EvictionInfo describes the valid line displaced by an allocation.
type EvictionInfo struct {
	// Tag of the evicted line.
	Tag uint64
	// Way the line occupied.
	Way int
	// WasDirty reports whether the line held unwritten data. Only
	// possible in write-back mode.
	WasDirty bool
	// BlockAddress is the block-aligned address of the evicted block.
	BlockAddress uint64
}

// A Set holds the lines that share one index, together with the
// replacement-order state that the policies maintain. The set keeps at
// most one valid line per tag.
type Set struct {
	Lines []Line

	// order lists way indices with the replacement candidate at the
	// front. Owned by the set, mutated only through policy calls.
	order []int
}

func newSet(ways int) Set {
	order := make([]int, ways)
	for i := range order {
		order[i] = i
	}

	return Set{
		Lines: make([]Line, ways),
		order: order,
	}
}

// Find returns the way holding the given tag.
func (s *Set) Find(tag uint64) (way int, ok bool) {
	for i, line := range s.Lines {
		if line.Valid && line.Tag == tag {
			return i, true
		}
	}

	return 0, false
}

// Allocate fills a way with a new tag. Invalid ways are filled first,
// lowest way index first, so fills are reproducible. When the set is
// full the policy chooses a victim; the victim's prior state is
// returned so the caller can write it back. The filled line is valid
// and clean.
func (s *Set) Allocate(tag uint64, policy ReplacementPolicy) (way int, evicted *EvictionInfo) {
	for i := range s.Lines {
		if !s.Lines[i].Valid {
			s.Lines[i] = Line{Valid: true, Tag: tag}
			policy.OnFill(s, i)
			return i, nil
		}
	}

	victim := policy.ChooseVictim(s)
	old := s.Lines[victim]
	evicted = &EvictionInfo{
		Tag:      old.Tag,
		Way:      victim,
		WasDirty: old.Dirty,
	}

	s.Lines[victim] = Line{Valid: true, Tag: tag}
	policy.OnFill(s, victim)

	return victim, evicted
}

// Touch reports a hit on a way for recency bookkeeping. Validity, tag,
// and dirty state are unchanged.
func (s *Set) Touch(way int, policy ReplacementPolicy) {
	policy.OnAccess(s, way)
}

// MarkDirty flags a way as holding unwritten data.
func (s *Set) MarkDirty(way int) {
	s.Lines[way].Dirty = true
}

// moveToBack makes a way the last replacement candidate.
func (s *Set) moveToBack(way int) {
	for i, w := range s.order {
		if w == way {
			s.order = append(s.order[:i], s.order[i+1:]...)
			s.order = append(s.order, way)
			return
		}
	}
}
