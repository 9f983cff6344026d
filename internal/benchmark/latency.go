package benchmark

import (
	"fmt"
	"testing"

	"github.com/tstromberg/gocachesim/internal/baseline"
	"github.com/tstromberg/gocachesim/internal/cache"
	"github.com/tstromberg/gocachesim/internal/trace"
)

// ModelName labels the set-associative FIFO model in latency results.
const ModelName = "fifo-model"

// LatencyResult holds single-threaded cost per access.
type LatencyResult struct {
	Name            string  `json:"name"`
	NsPerAccess     float64 `json:"nsPerAccess"`
	AllocsPerAccess int64   `json:"allocsPerAccess"`
}

// RunLatency measures the cost of one access for the model and each policy,
// cycling through records. The model comes first.
func RunLatency(cfg cache.Config, records []trace.Record, policies []baseline.Named) ([]LatencyResult, error) {
	if len(records) == 0 {
		return nil, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	results := make([]LatencyResult, 0, len(policies)+1)

	model := testing.Benchmark(func(b *testing.B) {
		benchModel(b, cfg, records)
	})
	results = append(results, latencyResult(ModelName, model))

	capacity := int(cfg.NumBlocks()) //nolint:gosec // bounded by validated geometry
	for _, p := range policies {
		// Build once so factory errors surface outside the benchmark.
		check, err := p.New(capacity)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", p.Name, err)
		}
		check.Close()

		r := testing.Benchmark(func(b *testing.B) {
			benchPolicy(b, p.New, capacity, cfg.BlockSize, records)
		})
		results = append(results, latencyResult(p.Name, r))
	}
	return results, nil
}

func latencyResult(name string, r testing.BenchmarkResult) LatencyResult {
	return LatencyResult{
		Name:            name,
		NsPerAccess:     float64(r.NsPerOp()),
		AllocsPerAccess: r.AllocsPerOp(),
	}
}

func benchModel(b *testing.B, cfg cache.Config, records []trace.Record) {
	c, err := cache.New(cfg)
	if err != nil {
		b.Fatal(err)
	}
	n := len(records)

	b.ReportAllocs()
	b.ResetTimer()
	for i := range b.N {
		c.Access(records[i%n].Address)
	}
}

func benchPolicy(b *testing.B, factory baseline.Factory, capacity int, blockSize uint64, records []trace.Record) {
	c, err := factory(capacity)
	if err != nil {
		b.Fatal(err)
	}
	defer c.Close()
	n := len(records)

	b.ReportAllocs()
	b.ResetTimer()
	for i := range b.N {
		block := records[i%n].Address / blockSize
		if !c.Get(block) {
			c.Set(block)
		}
	}
}
