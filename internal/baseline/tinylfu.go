package baseline

import (
	"strconv"

	"github.com/vmihailenco/go-tinylfu"
)

type tinyLFUCache struct {
	c *tinylfu.SyncT
}

// NewTinyLFU creates a TinyLFU policy.
func NewTinyLFU(capacity int) (Policy, error) {
	return &tinyLFUCache{c: tinylfu.NewSync(capacity, capacity*10)}, nil
}

func (c *tinyLFUCache) Get(block uint64) bool {
	_, ok := c.c.Get(blockKey(block))
	return ok
}

func (c *tinyLFUCache) Set(block uint64) {
	c.c.Set(&tinylfu.Item{Key: blockKey(block), Value: struct{}{}})
}

func (*tinyLFUCache) Name() string {
	return "tinylfu"
}

func (*tinyLFUCache) Close() {}

// blockKey is the string form used by string-keyed libraries.
func blockKey(block uint64) string {
	return strconv.FormatUint(block, 16)
}
