package baseline

import (
	"github.com/maypok86/otter/v2"
)

type otterCache struct {
	c *otter.Cache[uint64, struct{}]
}

// NewOtter creates an Otter (W-TinyLFU) policy.
func NewOtter(capacity int) (Policy, error) {
	return &otterCache{c: otter.Must(&otter.Options[uint64, struct{}]{MaximumSize: capacity})}, nil
}

func (c *otterCache) Get(block uint64) bool {
	_, ok := c.c.GetIfPresent(block)
	return ok
}

func (c *otterCache) Set(block uint64) {
	c.c.Set(block, struct{}{})
}

func (*otterCache) Name() string {
	return "otter"
}

func (*otterCache) Close() {}

func (*otterCache) Approximate() string {
	return "eviction is amortized through internal buffers"
}
