package baseline

import (
	"encoding/binary"

	"github.com/coocood/freecache"
)

const (
	// freecacheEntrySize is an 8-byte key, empty value and the 24-byte entry header.
	freecacheEntrySize = 32
	// freecacheMinBytes is the smallest cache freecache will build.
	freecacheMinBytes = 512 * 1024
)

type freecacheCache struct {
	c *freecache.Cache
}

// NewFreecache creates a byte-budgeted freecache policy sized for capacity blocks.
func NewFreecache(capacity int) (Policy, error) {
	return &freecacheCache{c: freecache.NewCache(max(capacity*freecacheEntrySize, freecacheMinBytes))}, nil
}

func (c *freecacheCache) Get(block uint64) bool {
	var key [8]byte
	binary.BigEndian.PutUint64(key[:], block)
	_, err := c.c.Get(key[:])
	return err == nil
}

func (c *freecacheCache) Set(block uint64) {
	var key [8]byte
	binary.BigEndian.PutUint64(key[:], block)
	c.c.Set(key[:], nil, 0) //nolint:errcheck,gosec // best-effort set
}

func (*freecacheCache) Name() string {
	return "freecache"
}

func (*freecacheCache) Close() {}

func (*freecacheCache) Approximate() string {
	return "byte budget has a 512 KiB floor, so small caches hold more blocks"
}
