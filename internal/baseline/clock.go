package baseline

import (
	"github.com/Code-Hex/go-generics-cache/policy/clock"
)

type clockCache struct {
	c *clock.Cache[uint64, struct{}]
}

// NewClock creates a CLOCK policy.
func NewClock(capacity int) (Policy, error) {
	return &clockCache{
		c: clock.NewCache[uint64, struct{}](clock.WithCapacity(capacity)),
	}, nil
}

func (c *clockCache) Get(block uint64) bool {
	_, ok := c.c.Get(block)
	return ok
}

func (c *clockCache) Set(block uint64) {
	c.c.Set(block, struct{}{})
}

func (*clockCache) Name() string {
	return "clock"
}

func (*clockCache) Close() {}
