package baseline

import (
	"github.com/scalalang2/golang-fifo/s3fifo"
)

type s3fifoCache struct {
	c *s3fifo.S3FIFO[uint64, struct{}]
}

// NewS3FIFO creates an S3-FIFO policy.
func NewS3FIFO(capacity int) (Policy, error) {
	return &s3fifoCache{c: s3fifo.New[uint64, struct{}](capacity, 0)}, nil
}

func (c *s3fifoCache) Get(block uint64) bool {
	_, ok := c.c.Get(block)
	return ok
}

func (c *s3fifoCache) Set(block uint64) {
	c.c.Set(block, struct{}{})
}

func (*s3fifoCache) Name() string {
	return "s3-fifo"
}

func (*s3fifoCache) Close() {}
