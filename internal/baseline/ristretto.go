package baseline

import "github.com/dgraph-io/ristretto"

type ristrettoCache struct {
	c *ristretto.Cache
}

// NewRistretto creates a Ristretto (TinyLFU admission, sampled LFU) policy.
func NewRistretto(capacity int) (Policy, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        int64(capacity) * 10,
		MaxCost:            int64(capacity),
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &ristrettoCache{c: c}, nil
}

func (c *ristrettoCache) Get(block uint64) bool {
	_, ok := c.c.Get(block)
	return ok
}

// Set waits for the write to land so replays stay deterministic.
func (c *ristrettoCache) Set(block uint64) {
	c.c.Set(block, struct{}{}, 1)
	c.c.Wait()
}

func (*ristrettoCache) Name() string {
	return "ristretto"
}

func (c *ristrettoCache) Close() {
	c.c.Close()
}

func (*ristrettoCache) Approximate() string {
	return "admission filter may reject new blocks"
}
