package workload

import (
	"math/rand/v2"

	"github.com/tstromberg/gocachesim/internal/trace"
)

// Uniform generates n accesses with a uniformly random operation and a
// uniformly random 32-bit address.
func Uniform(n int, seed uint64) []trace.Record {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	records := make([]trace.Record, n)
	for i := range records {
		records[i] = trace.Record{Op: randomOp(rng), Address: uint64(rng.Uint32())}
	}
	return records
}

// Sequential generates n reads walking upward from start by stride bytes,
// the pattern a sequential prefetcher is built for.
func Sequential(n int, start, stride uint64) []trace.Record {
	records := make([]trace.Record, n)
	for i := range records {
		records[i] = trace.Record{Op: trace.Read, Address: start + uint64(i)*stride} //nolint:gosec // i >= 0
	}
	return records
}

func randomOp(rng *rand.Rand) string {
	if rng.IntN(2) == 0 {
		return trace.Write
	}
	return trace.Read
}
