package baseline

import "github.com/Yiling-J/theine-go"

type theineCache struct {
	c *theine.Cache[uint64, struct{}]
}

// NewTheine creates a Theine (adaptive W-TinyLFU) policy.
func NewTheine(capacity int) (Policy, error) {
	c, err := theine.NewBuilder[uint64, struct{}](int64(capacity)).Build()
	if err != nil {
		return nil, err
	}
	return &theineCache{c: c}, nil
}

func (c *theineCache) Get(block uint64) bool {
	_, ok := c.c.Get(block)
	return ok
}

func (c *theineCache) Set(block uint64) {
	c.c.Set(block, struct{}{}, 1)
}

func (*theineCache) Name() string {
	return "theine"
}

func (c *theineCache) Close() {
	c.c.Close()
}

func (*theineCache) Approximate() string {
	return "eviction is amortized through internal buffers"
}
