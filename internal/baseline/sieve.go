package baseline

import (
	"github.com/scalalang2/golang-fifo/sieve"
)

type sieveCache struct {
	c *sieve.Sieve[uint64, struct{}]
}

// NewSieve creates a SIEVE policy.
func NewSieve(capacity int) (Policy, error) {
	return &sieveCache{c: sieve.New[uint64, struct{}](capacity, 0)}, nil
}

func (c *sieveCache) Get(block uint64) bool {
	_, ok := c.c.Get(block)
	return ok
}

func (c *sieveCache) Set(block uint64) {
	c.c.Set(block, struct{}{})
}

func (*sieveCache) Name() string {
	return "sieve"
}

func (*sieveCache) Close() {}
