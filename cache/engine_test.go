package cache_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachesim/cache"
)

var _ = Describe("Engine", func() {
	var (
		config  cache.Config
		backing *cache.CountingStore
	)

	// 1-way, 4 sets, 16B blocks. Addresses 0 and 64 share set 0 with
	// different tags.
	BeforeEach(func() {
		config = cache.Config{
			AddressBits:   16,
			Size:          64,
			BlockSize:     16,
			Associativity: 1,
			Mode:          cache.WriteBack,
			Policy:        cache.PolicyLRU,
		}
		backing = cache.NewCountingStore()
	})

	newEngine := func(opts ...cache.Option) *cache.Engine {
		engine, err := cache.New(config, backing, opts...)
		Expect(err).NotTo(HaveOccurred())
		return engine
	}

	Describe("construction", func() {
		It("should fail on an invalid configuration", func() {
			config.Associativity = 5
			_, err := cache.New(config, backing)
			Expect(err).To(MatchError(cache.ErrInvalidConfig))
		})

		It("should accept a nil backing store", func() {
			engine, err := cache.New(config, nil)
			Expect(err).NotTo(HaveOccurred())

			_, err = engine.Request(0, cache.Write)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should report a zero hit rate before any request", func() {
			engine := newEngine()
			Expect(engine.Stats().HitRate).To(Equal(0.0))
		})
	})

	Describe("out-of-range addresses", func() {
		It("should fail without mutating state", func() {
			engine := newEngine()

			_, err := engine.Request(1<<16, cache.Read)
			Expect(err).To(MatchError(cache.ErrOutOfRange))

			stats := engine.Stats()
			Expect(stats.Reads).To(Equal(uint64(0)))
			Expect(stats.Misses).To(Equal(uint64(0)))
		})
	})

	Describe("write-back mode", func() {
		It("should follow the direct-mapped eviction scenario", func() {
			engine := newEngine()

			// Write 0: miss, no eviction, nothing reaches the backing
			// store.
			result, err := engine.Request(0, cache.Write)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Hit).To(BeFalse())
			Expect(result.Evicted).To(BeNil())
			Expect(result.BackingWrite).To(BeFalse())
			Expect(backing.Total()).To(Equal(uint64(0)))

			// Write 64: same set, new tag. Evicts the dirty line for
			// address 0 and writes it back.
			result, err = engine.Request(64, cache.Write)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Hit).To(BeFalse())
			Expect(result.Evicted).NotTo(BeNil())
			Expect(result.Evicted.WasDirty).To(BeTrue())
			Expect(result.Evicted.BlockAddress).To(Equal(uint64(0)))
			Expect(result.BackingWrite).To(BeTrue())
			Expect(backing.Count(0)).To(Equal(uint64(1)))

			// Read 0: miss again. The line for 64 is dirty from the
			// write, so the read miss still forces a writeback.
			result, err = engine.Request(0, cache.Read)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Hit).To(BeFalse())
			Expect(result.Evicted).NotTo(BeNil())
			Expect(result.Evicted.WasDirty).To(BeTrue())
			Expect(result.Evicted.BlockAddress).To(Equal(uint64(64)))
			Expect(result.BackingWrite).To(BeTrue())
			Expect(backing.Count(64)).To(Equal(uint64(1)))

			stats := engine.Stats()
			Expect(stats.Misses).To(Equal(uint64(3)))
			Expect(stats.DirtyEvictions).To(Equal(uint64(2)))
			Expect(stats.BackingWrites).To(Equal(uint64(2)))
		})

		It("should not write the backing store on a write hit", func() {
			engine := newEngine()

			engine.Request(0, cache.Write)
			result, err := engine.Request(4, cache.Write)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Hit).To(BeTrue())
			Expect(result.BackingWrite).To(BeFalse())
			Expect(backing.Total()).To(Equal(uint64(0)))
		})

		It("should evict clean lines without a backing write", func() {
			engine := newEngine()

			engine.Request(0, cache.Read)
			result, err := engine.Request(64, cache.Read)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Evicted).NotTo(BeNil())
			Expect(result.Evicted.WasDirty).To(BeFalse())
			Expect(result.BackingWrite).To(BeFalse())
			Expect(backing.Total()).To(Equal(uint64(0)))
		})

		It("should evict the true LRU way in a 2-way set", func() {
			config.Associativity = 2 // 2 sets of 2 ways
			engine := newEngine()

			// Three tags mapping to set 0: 0, 32, 64.
			engine.Request(0, cache.Read)  // way 0
			engine.Request(32, cache.Read) // way 1
			engine.Request(0, cache.Read)  // hit, way 0 most recent

			result, err := engine.Request(64, cache.Read)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Evicted).NotTo(BeNil())
			Expect(result.Evicted.Way).To(Equal(1))
			Expect(result.Evicted.BlockAddress).To(Equal(uint64(32)))

			// Way 0 must have survived.
			hit, err := engine.Request(0, cache.Read)
			Expect(err).NotTo(HaveOccurred())
			Expect(hit.Hit).To(BeTrue())
		})
	})

	Describe("write-through mode", func() {
		BeforeEach(func() {
			config.Mode = cache.WriteThrough
		})

		It("should write the backing store exactly once per write", func() {
			engine := newEngine()

			// Write miss (allocates), then write hit.
			engine.Request(0, cache.Write)
			Expect(backing.Total()).To(Equal(uint64(1)))

			result, err := engine.Request(8, cache.Write)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Hit).To(BeTrue())
			Expect(result.BackingWrite).To(BeTrue())
			Expect(backing.Total()).To(Equal(uint64(2)))
			Expect(backing.Count(0)).To(Equal(uint64(2)))
		})

		It("should never evict a dirty line", func() {
			engine := newEngine()

			engine.Request(0, cache.Write)
			engine.Request(0, cache.Write)

			result, err := engine.Request(64, cache.Read)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Evicted).NotTo(BeNil())
			Expect(result.Evicted.WasDirty).To(BeFalse())

			stats := engine.Stats()
			Expect(stats.DirtyEvictions).To(Equal(uint64(0)))
		})

		It("should not write the backing store on a read", func() {
			engine := newEngine()

			engine.Request(0, cache.Read)
			engine.Request(0, cache.Read)
			Expect(backing.Total()).To(Equal(uint64(0)))
		})

		It("should allocate on a write miss", func() {
			engine := newEngine()

			engine.Request(0, cache.Write)

			result, err := engine.Request(0, cache.Read)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Hit).To(BeTrue())
		})
	})

	Describe("determinism", func() {
		requests := []struct {
			addr uint64
			op   cache.Operation
		}{
			{0, cache.Write}, {64, cache.Read}, {32, cache.Write},
			{0, cache.Read}, {128, cache.Write}, {64, cache.Write},
			{32, cache.Read}, {192, cache.Read}, {0, cache.Write},
		}

		run := func(cfg cache.Config) ([]cache.RequestResult, cache.Snapshot) {
			engine, err := cache.New(cfg, cache.NewCountingStore())
			Expect(err).NotTo(HaveOccurred())

			results := make([]cache.RequestResult, 0, len(requests))
			for _, r := range requests {
				result, err := engine.Request(r.addr, r.op)
				Expect(err).NotTo(HaveOccurred())
				results = append(results, result)
			}
			return results, engine.Stats()
		}

		It("should replay identically with a deterministic policy", func() {
			firstResults, firstStats := run(config)
			secondResults, secondStats := run(config)

			Expect(secondResults).To(Equal(firstResults))
			Expect(secondStats).To(Equal(firstStats))
		})

		It("should replay identically with a seeded random policy", func() {
			config.Policy = cache.PolicyRandom
			config.Seed = 42
			config.Associativity = 2

			firstResults, firstStats := run(config)
			secondResults, secondStats := run(config)

			Expect(secondResults).To(Equal(firstResults))
			Expect(secondStats).To(Equal(firstStats))
		})
	})

	Describe("statistics", func() {
		It("should compute the hit rate", func() {
			engine := newEngine()

			engine.Request(0, cache.Read)  // miss
			engine.Request(0, cache.Read)  // hit
			engine.Request(4, cache.Read)  // hit
			engine.Request(64, cache.Read) // miss

			stats := engine.Stats()
			Expect(stats.Reads).To(Equal(uint64(4)))
			Expect(stats.Hits).To(Equal(uint64(2)))
			Expect(stats.Misses).To(Equal(uint64(2)))
			Expect(stats.HitRate).To(Equal(0.5))
		})
	})

	Describe("observer", func() {
		It("should see every request result", func() {
			var seen []cache.RequestResult
			engine := newEngine(cache.WithObserver(func(r cache.RequestResult) {
				seen = append(seen, r)
			}))

			engine.Request(0, cache.Write)
			engine.Request(0, cache.Read)

			Expect(seen).To(HaveLen(2))
			Expect(seen[0].Hit).To(BeFalse())
			Expect(seen[1].Hit).To(BeTrue())
			Expect(seen[1].Op).To(Equal(cache.Read))
		})
	})

	Describe("Flush", func() {
		It("should write back every dirty line and invalidate everything", func() {
			engine := newEngine()

			engine.Request(0, cache.Write)
			engine.Request(16, cache.Write)
			engine.Request(32, cache.Read)
			Expect(backing.Total()).To(Equal(uint64(0)))

			engine.Flush()

			Expect(backing.Count(0)).To(Equal(uint64(1)))
			Expect(backing.Count(16)).To(Equal(uint64(1)))
			Expect(backing.Count(32)).To(Equal(uint64(0)))
			Expect(engine.Stats().BackingWrites).To(Equal(uint64(2)))

			// Everything misses after a flush.
			result, err := engine.Request(0, cache.Read)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Hit).To(BeFalse())
		})
	})

	Describe("Reset", func() {
		It("should drop dirty lines without writeback and clear statistics", func() {
			engine := newEngine()

			engine.Request(0, cache.Write)
			engine.Reset()

			Expect(backing.Total()).To(Equal(uint64(0)))
			Expect(engine.Stats()).To(Equal(cache.Snapshot{}))

			result, err := engine.Request(0, cache.Read)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Hit).To(BeFalse())
		})
	})

	Describe("custom policy", func() {
		It("should be swappable without touching the engine", func() {
			config.Associativity = 2
			engine := newEngine(cache.WithPolicy(cache.NewFIFOPolicy()))

			engine.Request(0, cache.Read)  // way 0, first in
			engine.Request(32, cache.Read) // way 1
			engine.Request(0, cache.Read)  // hit; FIFO ignores it

			result, err := engine.Request(64, cache.Read)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Evicted).NotTo(BeNil())
			Expect(result.Evicted.BlockAddress).To(Equal(uint64(0)))
		})
	})
})
