package baseline

import lru "github.com/hashicorp/golang-lru/v2"

type lruCache struct {
	c *lru.Cache[uint64, struct{}]
}

// NewLRU creates a least-recently-used policy.
func NewLRU(capacity int) (Policy, error) {
	c, err := lru.New[uint64, struct{}](capacity)
	if err != nil {
		return nil, err
	}
	return &lruCache{c: c}, nil
}

func (c *lruCache) Get(block uint64) bool {
	_, ok := c.c.Get(block)
	return ok
}

func (c *lruCache) Set(block uint64) {
	c.c.Add(block, struct{}{})
}

func (*lruCache) Name() string {
	return "lru"
}

func (*lruCache) Close() {}
