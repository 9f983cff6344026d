// Package benchmark drives traces through the cache model and reference policies.
package benchmark

import (
	"fmt"

	"github.com/tstromberg/gocachesim/internal/cache"
	"github.com/tstromberg/gocachesim/internal/trace"
)

// Result holds hit statistics for one replay.
type Result struct {
	Hits     uint64 `json:"hits"`
	Accesses uint64 `json:"accesses"`
}

// Misses is the number of accesses that were not hits.
func (r Result) Misses() uint64 {
	return r.Accesses - r.Hits
}

// HitRate is the hit percentage, 0 for an empty replay.
func (r Result) HitRate() float64 {
	if r.Accesses == 0 {
		return 0
	}
	return float64(r.Hits) / float64(r.Accesses) * 100
}

func (r Result) String() string {
	return fmt.Sprintf("Hits: %d, Misses: %d", r.Hits, r.Misses())
}

// Observer is called after every access with its outcome.
type Observer func(rec trace.Record, hit bool)

// Replay runs records through c in order.
func Replay(c *cache.Cache, records []trace.Record) Result {
	var res Result
	for _, rec := range records {
		if c.Access(rec.Address) {
			res.Hits++
		}
		res.Accesses++
	}
	return res
}

// ReplayReader streams records from r through c. A read or parse error
// aborts the replay and no result is returned.
func ReplayReader(c *cache.Cache, r *trace.Reader, observe Observer) (Result, error) {
	var res Result
	for r.Next() {
		rec := r.Record()
		hit := c.Access(rec.Address)
		if hit {
			res.Hits++
		}
		res.Accesses++
		if observe != nil {
			observe(rec, hit)
		}
	}
	if err := r.Err(); err != nil {
		return Result{}, err
	}
	return res, nil
}

// RunFile simulates cfg against the trace at path.
func RunFile(cfg cache.Config, path string, observe Observer) (Result, cache.Counters, error) {
	c, err := cache.New(cfg)
	if err != nil {
		return Result{}, cache.Counters{}, err
	}

	r, err := trace.Open(path)
	if err != nil {
		return Result{}, cache.Counters{}, err
	}
	defer r.Close() //nolint:errcheck // read-only

	res, err := ReplayReader(c, r, observe)
	if err != nil {
		return Result{}, cache.Counters{}, fmt.Errorf("%s: %w", path, err)
	}
	return res, c.Counters(), nil
}
