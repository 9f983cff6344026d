// Package cache models a set-associative hardware cache with FIFO replacement
// and miss-triggered sequential prefetch.
package cache

import (
	"errors"
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// MaxBlocks bounds the total number of blocks a simulated cache may hold.
// A direct-mapped cache costs a tag plus a set header per block, about 3 GiB
// at this limit.
const MaxBlocks = 1 << 26

var (
	// ErrInvalidConfig is wrapped by every geometry validation failure.
	ErrInvalidConfig = errors.New("invalid cache configuration")
	// ErrInvalidAssociativity is wrapped when an associativity token cannot be parsed.
	ErrInvalidAssociativity = errors.New("invalid associativity")
)

// Kind selects how blocks are placed within the cache.
type Kind int

const (
	Direct         Kind = iota // one way per set
	SetAssociative             // Ways ways per set
)

// Associativity is the placement mode of a cache.
type Associativity struct {
	Kind Kind
	Ways int // only meaningful for SetAssociative
}

// DirectMapped returns a direct-mapped associativity.
func DirectMapped() Associativity {
	return Associativity{Kind: Direct}
}

// NWay returns an n-way set-associative associativity.
func NWay(n int) Associativity {
	return Associativity{Kind: SetAssociative, Ways: n}
}

// ParseAssociativity parses "direct", "assoc" or "assoc:<N>".
// A bare "assoc" is treated as direct-mapped.
func ParseAssociativity(token string) (Associativity, error) {
	switch {
	case token == "direct", token == "assoc":
		return DirectMapped(), nil
	case strings.HasPrefix(token, "assoc:"):
		n, err := strconv.Atoi(strings.TrimPrefix(token, "assoc:"))
		if err != nil || n < 1 {
			return Associativity{}, fmt.Errorf("%w: %q: way count must be a positive integer", ErrInvalidAssociativity, token)
		}
		return NWay(n), nil
	default:
		return Associativity{}, fmt.Errorf("%w: %q", ErrInvalidAssociativity, token)
	}
}

// NumWays is the number of blocks a set holds.
func (a Associativity) NumWays() int {
	if a.Kind == Direct {
		return 1
	}
	return a.Ways
}

func (a Associativity) String() string {
	if a.Kind == Direct {
		return "direct"
	}
	return fmt.Sprintf("assoc:%d", a.Ways)
}

// MarshalText renders the associativity in its command-line token form.
func (a Associativity) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText parses the command-line token form.
func (a *Associativity) UnmarshalText(text []byte) error {
	parsed, err := ParseAssociativity(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Config is the geometry of a simulated cache.
type Config struct {
	CacheSize     uint64        `json:"cacheSize" yaml:"cache_size"`
	BlockSize     uint64        `json:"blockSize" yaml:"block_size"`
	Associativity Associativity `json:"associativity" yaml:"associativity"`
	PrefetchDepth int           `json:"prefetchDepth" yaml:"prefetch_depth"`

	// DedupPrefetch skips a prefetch whose tag is already resident in its
	// set. Off by default, in which case duplicates may occupy ways.
	DedupPrefetch bool `json:"dedupPrefetch,omitempty" yaml:"dedup_prefetch"`
}

// NumWays is the number of blocks per set.
func (c Config) NumWays() uint64 {
	return uint64(c.Associativity.NumWays()) //nolint:gosec // validated positive
}

// NumSets is the number of sets in the cache. It is 0 when a single set
// does not fit, including when ways x block size overflows.
func (c Config) NumSets() uint64 {
	hi, denom := bits.Mul64(c.BlockSize, c.NumWays())
	if hi != 0 || denom == 0 {
		return 0
	}
	return c.CacheSize / denom
}

// NumBlocks is the total block capacity of the cache.
func (c Config) NumBlocks() uint64 {
	return c.NumSets() * c.NumWays()
}

// Name is a compact label used in reports, e.g. "64K/64B/assoc:4/pf2".
func (c Config) Name() string {
	name := fmt.Sprintf("%s/%dB/%s/pf%d", formatSize(c.CacheSize), c.BlockSize, c.Associativity, c.PrefetchDepth)
	if c.DedupPrefetch {
		name += "+dedup"
	}
	return name
}

// Validate checks the geometry invariants.
func (c Config) Validate() error {
	if !IsPowerOfTwo(c.CacheSize) || !IsPowerOfTwo(c.BlockSize) {
		return fmt.Errorf("%w: cache size and block size must be powers of 2", ErrInvalidConfig)
	}
	if c.Associativity.Kind == SetAssociative && c.Associativity.Ways < 1 {
		return fmt.Errorf("%w: way count must be positive, got %d", ErrInvalidConfig, c.Associativity.Ways)
	}
	if c.PrefetchDepth < 0 {
		return fmt.Errorf("%w: prefetch depth must be non-negative, got %d", ErrInvalidConfig, c.PrefetchDepth)
	}
	sets := c.NumSets()
	if sets < 1 {
		return fmt.Errorf("%w: %d bytes cannot hold one set of %d x %d-byte blocks",
			ErrInvalidConfig, c.CacheSize, c.NumWays(), c.BlockSize)
	}
	hi, blocks := bits.Mul64(sets, c.NumWays())
	if hi != 0 || blocks > MaxBlocks {
		return fmt.Errorf("%w: %d sets x %d ways exceeds the %d block limit",
			ErrInvalidConfig, sets, c.NumWays(), MaxBlocks)
	}
	if hi, bytes := bits.Mul64(blocks, c.BlockSize); hi != 0 || bytes != c.CacheSize {
		return fmt.Errorf("%w: %d sets x %d ways x %d bytes != %d bytes",
			ErrInvalidConfig, sets, c.NumWays(), c.BlockSize, c.CacheSize)
	}
	return nil
}

// IsPowerOfTwo reports whether x is a positive power of two.
func IsPowerOfTwo(x uint64) bool {
	return x > 0 && x&(x-1) == 0
}

func formatSize(n uint64) string {
	switch {
	case n >= 1<<20 && n%(1<<20) == 0:
		return fmt.Sprintf("%dM", n>>20)
	case n >= 1<<10 && n%(1<<10) == 0:
		return fmt.Sprintf("%dK", n>>10)
	default:
		return fmt.Sprintf("%dB", n)
	}
}
