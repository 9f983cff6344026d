package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tstromberg/gocachesim/internal/baseline"
	"github.com/tstromberg/gocachesim/internal/cache"
)

const sweepYAML = `
traces:
  - small.trace
  - /abs/big.trace.zst
configs:
  - cache_size: 32768
    block_size: 64
    associativity: assoc:8
    prefetch_depth: 2
    dedup_prefetch: true
grid:
  cache_sizes: [1024, 2048]
  block_sizes: [16]
  associativities: [direct, "assoc:4"]
baselines: [lru, sieve]
outdir: out
workers: 2
`

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sweep.yaml")
	if err := os.WriteFile(path, []byte(sweepYAML), 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if s.Traces[0] != filepath.Join(dir, "small.trace") || s.Traces[1] != "/abs/big.trace.zst" {
		t.Errorf("traces = %v", s.Traces)
	}
	if s.OutDir != filepath.Join(dir, "out") {
		t.Errorf("outdir = %q", s.OutDir)
	}
	if s.Workers != 2 {
		t.Errorf("workers = %d, want 2", s.Workers)
	}

	want := []cache.Config{
		{CacheSize: 32768, BlockSize: 64, Associativity: cache.NWay(8), PrefetchDepth: 2, DedupPrefetch: true},
		{CacheSize: 1024, BlockSize: 16, Associativity: cache.DirectMapped()},
		{CacheSize: 1024, BlockSize: 16, Associativity: cache.NWay(4)},
		{CacheSize: 2048, BlockSize: 16, Associativity: cache.DirectMapped()},
		{CacheSize: 2048, BlockSize: 16, Associativity: cache.NWay(4)},
	}
	if len(s.Configs) != len(want) {
		t.Fatalf("got %d configs, want %d: %+v", len(s.Configs), len(want), s.Configs)
	}
	for i := range want {
		if s.Configs[i] != want[i] {
			t.Errorf("config %d = %+v, want %+v", i, s.Configs[i], want[i])
		}
	}

	policies, err := s.Policies()
	if err != nil {
		t.Fatal(err)
	}
	if len(policies) != 2 {
		t.Errorf("policies = %+v, want lru and sieve", policies)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"no traces", "configs: [{cache_size: 64, block_size: 16, associativity: direct}]", ErrInvalid},
		{"no configs", "traces: [a]", ErrInvalid},
		{"bad geometry", "traces: [a]\nconfigs: [{cache_size: 48, block_size: 16, associativity: direct}]", cache.ErrInvalidConfig},
		{"bad associativity", "traces: [a]\nconfigs: [{cache_size: 64, block_size: 16, associativity: 'assoc:0'}]", cache.ErrInvalidAssociativity},
		{"unknown baseline", "traces: [a]\nconfigs: [{cache_size: 64, block_size: 16}]\nbaselines: [mru]", baseline.ErrUnknown},
		{"negative workers", "traces: [a]\nconfigs: [{cache_size: 64, block_size: 16}]\nworkers: -1", ErrInvalid},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.doc)); !errors.Is(err, tc.want) {
				t.Errorf("Parse error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestBaselinesAll(t *testing.T) {
	s, err := Parse([]byte("traces: [a]\nconfigs: [{cache_size: 64, block_size: 16}]\nbaselines: [all]"))
	if err != nil {
		t.Fatal(err)
	}
	policies, err := s.Policies()
	if err != nil {
		t.Fatal(err)
	}
	if len(policies) != len(baseline.AvailableNames()) {
		t.Errorf("all selected %d policies, want %d", len(policies), len(baseline.AvailableNames()))
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "none.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) = %v, want os.ErrNotExist", err)
	}
}
