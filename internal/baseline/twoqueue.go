package baseline

import lru "github.com/hashicorp/golang-lru/v2"

type twoQueueCache struct {
	c *lru.TwoQueueCache[uint64, struct{}]
}

// NewTwoQueue creates a 2Q policy.
func NewTwoQueue(capacity int) (Policy, error) {
	c, err := lru.New2Q[uint64, struct{}](capacity)
	if err != nil {
		return nil, err
	}
	return &twoQueueCache{c: c}, nil
}

func (c *twoQueueCache) Get(block uint64) bool {
	_, ok := c.c.Get(block)
	return ok
}

func (c *twoQueueCache) Set(block uint64) {
	c.c.Add(block, struct{}{})
}

func (*twoQueueCache) Name() string {
	return "2q"
}

func (*twoQueueCache) Close() {}
