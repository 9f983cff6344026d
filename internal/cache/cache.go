package cache

import "fmt"

// Counters record miss-path events. A hit never touches them.
type Counters struct {
	Evictions          uint64 `json:"evictions"`
	PrefetchesIssued   uint64 `json:"prefetchesIssued"`
	PrefetchesDropped  uint64 `json:"prefetchesDropped"`  // target set was full
	PrefetchDuplicates uint64 `json:"prefetchDuplicates"` // tag was already resident
}

// Cache is a set-associative cache model. It is not safe for concurrent use;
// a sweep gives each goroutine its own Cache.
type Cache struct {
	config    Config
	blockSize uint64
	numSets   uint64
	sets      []set
	counters  Counters
}

// New builds an empty cache for a validated geometry.
func New(config Config) (*Cache, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	numSets := config.NumSets()
	ways := int(config.NumWays()) //nolint:gosec // validated small positive

	// one backing arena, sliced into per-set rings
	arena := make([]uint64, numSets*uint64(ways)) //nolint:gosec // ways > 0
	sets := make([]set, numSets)
	for i := range sets {
		sets[i] = newSet(arena[i*ways : (i+1)*ways : (i+1)*ways])
	}

	return &Cache{
		config:    config,
		blockSize: config.BlockSize,
		numSets:   numSets,
		sets:      sets,
	}, nil
}

// Config returns the geometry the cache was built with.
func (c *Cache) Config() Config {
	return c.config
}

// Counters returns the miss-path event counters.
func (c *Cache) Counters() Counters {
	return c.counters
}

// Access looks addr up and reports whether it hit. A hit mutates nothing.
// A miss admits the block with FIFO replacement and then prefetches.
func (c *Cache) Access(addr uint64) bool {
	s, t := Decode(addr, c.blockSize, c.numSets)
	if c.sets[s].contains(t) {
		return true
	}

	if _, ok := c.sets[s].insert(t); ok {
		c.counters.Evictions++
	}
	c.prefetch(addr)
	return false
}

// prefetch appends the PrefetchDepth-1 blocks following addr to their sets
// when those sets have a free way.
func (c *Cache) prefetch(addr uint64) {
	for k := 1; k < c.config.PrefetchDepth; k++ {
		next := addr + uint64(k)*c.blockSize //nolint:gosec // k > 0, sum wraps modulo 2^64
		s, t := Decode(next, c.blockSize, c.numSets)
		target := &c.sets[s]

		dup := target.contains(t)
		if dup && c.config.DedupPrefetch {
			continue
		}
		if !target.append(t) {
			c.counters.PrefetchesDropped++
			continue
		}
		c.counters.PrefetchesIssued++
		if dup {
			c.counters.PrefetchDuplicates++
		}
	}
}

// Contains reports whether addr's block is resident without mutating anything.
func (c *Cache) Contains(addr uint64) bool {
	s, t := Decode(addr, c.blockSize, c.numSets)
	return c.sets[s].contains(t)
}

// Locate returns the set index and tag addr decodes to.
func (c *Cache) Locate(addr uint64) (set, tag uint64) {
	return Decode(addr, c.blockSize, c.numSets)
}

// NumSets is the number of sets.
func (c *Cache) NumSets() int {
	return len(c.sets)
}

// SetLen is the number of blocks resident in set i.
func (c *Cache) SetLen(i int) int {
	return c.sets[i].len()
}

// Tags returns the tags resident in set i, oldest first.
func (c *Cache) Tags(i int) []uint64 {
	return c.sets[i].snapshot()
}

func (c *Cache) String() string {
	return fmt.Sprintf("cache(%s, %d sets x %d ways)", c.config.Name(), c.numSets, c.config.NumWays())
}
