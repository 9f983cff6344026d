// Package baseline replays block streams through fully associative caches
// built on third-party replacement policies. They give a reference point for
// the set-associative FIFO model: same block capacity, no set conflicts,
// smarter eviction.
package baseline

// Policy is a fully associative cache of block numbers.
type Policy interface {
	// Get reports whether block is resident. Policies may update recency.
	Get(block uint64) bool
	// Set admits block, evicting according to the policy.
	Set(block uint64)
	Name() string
	Close()
}

// Factory creates a policy holding up to capacity blocks.
type Factory func(capacity int) (Policy, error)

// Approximate is implemented by policies whose capacity or admission is not
// exact, so their hit rates should be read as indicative.
type Approximate interface {
	Approximate() string
}
