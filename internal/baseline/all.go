package baseline

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknown is returned when a requested policy is not registered.
var ErrUnknown = errors.New("unknown baseline")

// registry maps policy names to their factory functions.
var registry = map[string]Factory{
	"otter":         NewOtter,
	"theine":        NewTheine,
	"ttlcache":      NewTTLCache,
	"ristretto":     NewRistretto,
	"tinylfu":       NewTinyLFU,
	"sieve":         NewSieve,
	"s3-fifo":       NewS3FIFO,
	"freelru-shard": NewFreeLRUSharded,
	"freelru-sync":  NewFreeLRUSynced,
	"freecache":     NewFreecache,
	"2q":            NewTwoQueue,
	"s4lru":         NewS4LRU,
	"clock":         NewClock,
	"lru":           NewLRU,
}

// defaultOrder defines the display order for policies.
var defaultOrder = []string{
	"lru", "2q", "clock", "sieve", "s3-fifo", "s4lru",
	"otter", "theine", "ristretto", "tinylfu",
	"freelru-sync", "freelru-shard", "freecache", "ttlcache",
}

// Named pairs a factory with its registry name.
type Named struct {
	Name string
	New  Factory
}

// AvailableNames returns every registered policy name in display order.
func AvailableNames() []string {
	return defaultOrder
}

// ParseList splits a comma-separated list, dropping empty entries.
// "all" expands to every registered policy.
func ParseList(s string) []string {
	var names []string
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if part == "all" {
			return defaultOrder
		}
		names = append(names, part)
	}
	return names
}

// Select resolves names to factories, preserving display order and dropping
// repeats. An empty list selects nothing.
func Select(names []string) ([]Named, error) {
	want := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := registry[name]; !ok {
			return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknown, name, strings.Join(defaultOrder, ", "))
		}
		want[name] = true
	}

	var selected []Named
	for _, name := range defaultOrder {
		if want[name] {
			selected = append(selected, Named{Name: name, New: registry[name]})
		}
	}
	return selected, nil
}
