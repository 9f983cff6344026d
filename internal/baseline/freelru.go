package baseline

import (
	"encoding/binary"
	"fmt"
	"math"

	lru "github.com/elastic/go-freelru"
	"github.com/zeebo/xxh3"
)

func hashBlock(block uint64) uint32 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], block)
	return uint32(xxh3.Hash(buf[:])) //nolint:gosec // truncation intended
}

// freeLRUCapacity converts capacity to the uint32 freelru takes.
func freeLRUCapacity(capacity int) (uint32, error) {
	if capacity < 1 || uint64(capacity) > math.MaxUint32 {
		return 0, fmt.Errorf("freelru capacity %d out of range [1, %d]", capacity, uint32(math.MaxUint32))
	}
	return uint32(capacity), nil
}

type freeLRUSyncedCache struct {
	c *lru.SyncedLRU[uint64, struct{}]
}

// NewFreeLRUSynced creates a freelru policy with a single lock.
func NewFreeLRUSynced(capacity int) (Policy, error) {
	n, err := freeLRUCapacity(capacity)
	if err != nil {
		return nil, err
	}
	c, err := lru.NewSynced[uint64, struct{}](n, hashBlock)
	if err != nil {
		return nil, err
	}
	return &freeLRUSyncedCache{c: c}, nil
}

func (c *freeLRUSyncedCache) Get(block uint64) bool {
	_, ok := c.c.Get(block)
	return ok
}

func (c *freeLRUSyncedCache) Set(block uint64) {
	c.c.Add(block, struct{}{})
}

func (*freeLRUSyncedCache) Name() string {
	return "freelru-sync"
}

func (*freeLRUSyncedCache) Close() {}

type freeLRUShardedCache struct {
	c *lru.ShardedLRU[uint64, struct{}]
}

// NewFreeLRUSharded creates a sharded freelru policy. Each shard runs its
// own LRU, so it behaves like a hashed set-associative LRU cache.
func NewFreeLRUSharded(capacity int) (Policy, error) {
	n, err := freeLRUCapacity(capacity)
	if err != nil {
		return nil, err
	}
	c, err := lru.NewSharded[uint64, struct{}](n, hashBlock)
	if err != nil {
		return nil, err
	}
	return &freeLRUShardedCache{c: c}, nil
}

func (c *freeLRUShardedCache) Get(block uint64) bool {
	_, ok := c.c.Get(block)
	return ok
}

func (c *freeLRUShardedCache) Set(block uint64) {
	c.c.Add(block, struct{}{})
}

func (*freeLRUShardedCache) Name() string {
	return "freelru-shard"
}

func (*freeLRUShardedCache) Close() {}

func (*freeLRUShardedCache) Approximate() string {
	return "capacity is split across hash shards"
}
