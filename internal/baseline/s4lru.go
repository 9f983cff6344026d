package baseline

import (
	"github.com/dgryski/go-s4lru"
)

// s4lruMinCapacity keeps each of the four segments non-empty.
const s4lruMinCapacity = 4

type s4lruCache struct {
	c *s4lru.Cache
}

// NewS4LRU creates a segmented LRU policy.
func NewS4LRU(capacity int) (Policy, error) {
	return &s4lruCache{c: s4lru.New(max(capacity, s4lruMinCapacity))}, nil
}

func (c *s4lruCache) Get(block uint64) bool {
	_, ok := c.c.Get(blockKey(block))
	return ok
}

func (c *s4lruCache) Set(block uint64) {
	c.c.Set(blockKey(block), struct{}{})
}

func (*s4lruCache) Name() string {
	return "s4lru"
}

func (*s4lruCache) Close() {}
