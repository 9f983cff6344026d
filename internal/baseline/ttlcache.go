package baseline

import (
	"time"

	"github.com/jellydator/ttlcache/v3"
)

type ttlcacheCache struct {
	c *ttlcache.Cache[uint64, struct{}]
}

// NewTTLCache creates a ttlcache policy. Entries never expire during a
// replay, so it acts as a capacity-bounded LRU.
func NewTTLCache(capacity int) (Policy, error) {
	c := ttlcache.New[uint64, struct{}](
		ttlcache.WithCapacity[uint64, struct{}](uint64(capacity)), //nolint:gosec // capacity always positive
		ttlcache.WithTTL[uint64, struct{}](time.Hour),
		ttlcache.WithDisableTouchOnHit[uint64, struct{}](),
	)
	return &ttlcacheCache{c: c}, nil
}

func (c *ttlcacheCache) Get(block uint64) bool {
	return c.c.Get(block) != nil
}

func (c *ttlcacheCache) Set(block uint64) {
	c.c.Set(block, struct{}{}, ttlcache.DefaultTTL)
}

func (*ttlcacheCache) Name() string {
	return "ttlcache"
}

func (c *ttlcacheCache) Close() {
	c.c.DeleteAll()
}
