package benchmark

import (
	"fmt"

	"github.com/tstromberg/gocachesim/internal/baseline"
	"github.com/tstromberg/gocachesim/internal/cache"
	"github.com/tstromberg/gocachesim/internal/trace"
)

// BaselineResult holds one reference policy's replay of a trace.
type BaselineResult struct {
	Name        string `json:"name"`
	Result      Result `json:"result"`
	Approximate string `json:"approximate,omitempty"`
}

// RunBaselines replays the block-number stream of records through each
// policy as a fully associative cache holding the same number of blocks
// as cfg. A miss admits the block; prefetch is not modelled.
func RunBaselines(cfg cache.Config, records []trace.Record, policies []baseline.Named) ([]BaselineResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	capacity := int(cfg.NumBlocks()) //nolint:gosec // bounded by validated geometry

	results := make([]BaselineResult, 0, len(policies))
	for _, p := range policies {
		res, note, err := replayPolicy(p, capacity, cfg.BlockSize, records)
		if err != nil {
			return nil, err
		}
		results = append(results, BaselineResult{Name: p.Name, Result: res, Approximate: note})
	}
	return results, nil
}

func replayPolicy(p baseline.Named, capacity int, blockSize uint64, records []trace.Record) (Result, string, error) {
	c, err := p.New(capacity)
	if err != nil {
		return Result{}, "", fmt.Errorf("create %s: %w", p.Name, err)
	}
	defer c.Close()

	var res Result
	for _, rec := range records {
		block := rec.Address / blockSize
		if c.Get(block) {
			res.Hits++
		} else {
			c.Set(block)
		}
		res.Accesses++
	}

	var note string
	if a, ok := c.(baseline.Approximate); ok {
		note = a.Approximate()
	}
	return res, note, nil
}
