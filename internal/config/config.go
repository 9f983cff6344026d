// Package config loads configuration sweeps from YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/tstromberg/gocachesim/internal/baseline"
	"github.com/tstromberg/gocachesim/internal/cache"
)

// ErrInvalid is returned for sweep files that parse but cannot be run.
var ErrInvalid = errors.New("invalid sweep")

// Sweep lists the traces and cache geometries to simulate. Every
// configuration is run against every trace.
type Sweep struct {
	Traces    []string       `yaml:"traces"`
	Configs   []cache.Config `yaml:"configs"`
	Grid      *Grid          `yaml:"grid"`
	Baselines []string       `yaml:"baselines"`
	OutDir    string         `yaml:"outdir"`
	Workers   int            `yaml:"workers"`
	Latency   bool           `yaml:"latency"`
}

// Grid expands to the cross product of its axes.
type Grid struct {
	CacheSizes      []uint64              `yaml:"cache_sizes"`
	BlockSizes      []uint64              `yaml:"block_sizes"`
	Associativities []cache.Associativity `yaml:"associativities"`
	PrefetchDepths  []int                 `yaml:"prefetch_depths"`
	DedupPrefetch   bool                  `yaml:"dedup_prefetch"`
}

// Expand returns one config per combination, in axis order. A missing
// prefetch axis means depth 0 and a missing associativity axis means direct.
func (g Grid) Expand() []cache.Config {
	assocs := g.Associativities
	if len(assocs) == 0 {
		assocs = []cache.Associativity{cache.DirectMapped()}
	}
	depths := g.PrefetchDepths
	if len(depths) == 0 {
		depths = []int{0}
	}

	var out []cache.Config
	for _, size := range g.CacheSizes {
		for _, block := range g.BlockSizes {
			for _, a := range assocs {
				for _, d := range depths {
					out = append(out, cache.Config{
						CacheSize:     size,
						BlockSize:     block,
						Associativity: a,
						PrefetchDepth: d,
						DedupPrefetch: g.DedupPrefetch,
					})
				}
			}
		}
	}
	return out
}

// Load reads and validates a sweep file. Relative trace paths and the
// output directory are resolved against the file's directory.
func Load(path string) (*Sweep, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sweep: %w", err)
	}

	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for i, t := range s.Traces {
		if !filepath.IsAbs(t) {
			s.Traces[i] = filepath.Join(dir, t)
		}
	}
	if s.OutDir != "" && !filepath.IsAbs(s.OutDir) {
		s.OutDir = filepath.Join(dir, s.OutDir)
	}
	return s, nil
}

// Parse decodes and validates a sweep document. Grid combinations are
// appended to the explicit configs.
func Parse(data []byte) (*Sweep, error) {
	var s Sweep
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse sweep: %w", err)
	}
	if s.Grid != nil {
		s.Configs = append(s.Configs, s.Grid.Expand()...)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks that the sweep names at least one trace and one
// geometry, that every geometry is valid and that baselines exist.
func (s *Sweep) Validate() error {
	if len(s.Traces) == 0 {
		return fmt.Errorf("%w: no traces", ErrInvalid)
	}
	if len(s.Configs) == 0 {
		return fmt.Errorf("%w: no configs", ErrInvalid)
	}
	for i, c := range s.Configs {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("config %d: %w", i+1, err)
		}
	}
	if s.Workers < 0 {
		return fmt.Errorf("%w: workers must be non-negative, got %d", ErrInvalid, s.Workers)
	}
	if _, err := s.Policies(); err != nil {
		return err
	}
	return nil
}

// Policies resolves the baseline names; "all" selects every policy.
func (s *Sweep) Policies() ([]baseline.Named, error) {
	var names []string
	for _, n := range s.Baselines {
		names = append(names, baseline.ParseList(n)...)
	}
	return baseline.Select(names)
}
