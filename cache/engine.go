package cache

// Operation is the kind of memory request.
type Operation int

const (
	// Read loads from an address.
	Read Operation = iota
	// Write stores to an address.
	Write
)

// String returns "read" or "write".
func (o Operation) String() string {
	if o == Write {
		return "write"
	}
	return "read"
}

// RequestResult describes the outcome of one request. It is built
// fresh per request and never mutated afterwards.
type RequestResult struct {
	// Address and Op echo the request.
	Address uint64
	Op      Operation

	// Hit reports whether the block was already cached.
	Hit bool

	// Tag, SetIndex, and Offset are the decoded address fields.
	Tag      uint64
	SetIndex uint64
	Offset   uint64

	// Evicted is set when the miss fill displaced a valid line.
	Evicted *EvictionInfo

	// BackingWrite reports whether this request triggered a backing
	// store write (write-through write, or dirty eviction).
	BackingWrite bool
}

// An Observer is called with each request result. Useful for
// per-operation narration without coupling it to the engine.
type Observer func(RequestResult)

// Engine simulates a single-level cache. It is not safe for concurrent
// use; independent simulation runs each own their own Engine.
type Engine struct {
	config   Config
	decoder  AddressDecoder
	sets     []Set
	policy   ReplacementPolicy
	backing  BackingStore
	stats    Collector
	observer Observer
}

// An Option configures an Engine beyond its Config.
type Option func(*Engine)

// WithObserver registers a callback invoked with every request result.
func WithObserver(observer Observer) Option {
	return func(e *Engine) {
		e.observer = observer
	}
}

// WithPolicy overrides the replacement policy named in the Config,
// allowing policies not built into this package.
func WithPolicy(policy ReplacementPolicy) Option {
	return func(e *Engine) {
		e.policy = policy
	}
}

// New creates an engine from a validated configuration. A nil backing
// store is replaced by a NopStore. New fails with ErrInvalidConfig if
// any geometry constraint is violated.
func New(config Config, backing BackingStore, opts ...Option) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	decoder, err := NewAddressDecoder(config)
	if err != nil {
		return nil, err
	}

	policy, err := NewPolicy(config.Policy, config.Seed)
	if err != nil {
		return nil, err
	}

	if backing == nil {
		backing = NopStore{}
	}

	e := &Engine{
		config:  config,
		decoder: decoder,
		policy:  policy,
		backing: backing,
		sets:    makeSets(config),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

func makeSets(config Config) []Set {
	sets := make([]Set, config.NumSets())
	for i := range sets {
		sets[i] = newSet(config.Associativity)
	}

	return sets
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.config
}

// Stats returns a snapshot of the accumulated statistics.
func (e *Engine) Stats() Snapshot {
	return e.stats.Snapshot()
}

// Request performs one read or write. It fails with ErrOutOfRange if
// the address does not fit the configured width; no state changes in
// that case. Once decode succeeds the request always completes.
func (e *Engine) Request(address uint64, op Operation) (RequestResult, error) {
	decoded, err := e.decoder.Decode(address)
	if err != nil {
		return RequestResult{}, err
	}

	result := RequestResult{
		Address:  address,
		Op:       op,
		Tag:      decoded.Tag,
		SetIndex: decoded.Index,
		Offset:   decoded.Offset,
	}

	set := &e.sets[decoded.Index]

	if way, ok := set.Find(decoded.Tag); ok {
		result.Hit = true
		set.Touch(way, e.policy)
		e.applyWrite(set, way, decoded, op, &result)
	} else {
		way := e.fill(set, decoded, &result)
		e.applyWrite(set, way, decoded, op, &result)
	}

	e.stats.Record(result)
	if e.observer != nil {
		e.observer(result)
	}

	return result, nil
}

// fill allocates a line for a missing block, writing a dirty victim
// back to the backing store before anything else touches the set.
func (e *Engine) fill(set *Set, decoded DecodedAddress, result *RequestResult) int {
	way, evicted := set.Allocate(decoded.Tag, e.policy)
	if evicted != nil {
		evicted.BlockAddress = e.decoder.BlockAddress(evicted.Tag, decoded.Index)
		if evicted.WasDirty {
			e.backing.Write(evicted.BlockAddress)
			result.BackingWrite = true
		}
		result.Evicted = evicted
	}

	return way
}

// applyWrite performs the write-policy action for a write request. Both
// modes allocate on a write miss, so by this point the line exists.
func (e *Engine) applyWrite(set *Set, way int, decoded DecodedAddress, op Operation, result *RequestResult) {
	if op != Write {
		return
	}

	switch e.config.Mode {
	case WriteThrough:
		e.backing.Write(e.decoder.BlockAddress(decoded.Tag, decoded.Index))
		result.BackingWrite = true
	case WriteBack:
		set.MarkDirty(way)
	}
}

// Flush writes every dirty line back to the backing store and
// invalidates all lines. Flush writebacks count toward the
// backing-write statistic.
func (e *Engine) Flush() {
	for i := range e.sets {
		for _, line := range e.sets[i].Lines {
			if line.Valid && line.Dirty {
				e.backing.Write(e.decoder.BlockAddress(line.Tag, uint64(i)))
				e.stats.RecordWriteback()
			}
		}
		e.sets[i] = newSet(e.config.Associativity)
	}
}

// Reset invalidates all lines without writeback and clears statistics.
func (e *Engine) Reset() {
	e.sets = makeSets(e.config)
	e.stats = Collector{}
}
