package baseline

import (
	"errors"
	"math"
	"slices"
	"testing"
)

func TestPoliciesHitAfterSet(t *testing.T) {
	for _, name := range AvailableNames() {
		t.Run(name, func(t *testing.T) {
			p, err := registry[name](4096)
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			defer p.Close()

			if p.Name() != name {
				t.Errorf("Name = %q, want %q", p.Name(), name)
			}
			if p.Get(7) {
				t.Error("empty policy reported a hit")
			}
			p.Set(7)
			// Admission-filtered policies may drop a cold block.
			if _, approx := p.(Approximate); !approx && !p.Get(7) {
				t.Error("block missing right after Set")
			}
		})
	}
}

func TestLRUEvictsOldest(t *testing.T) {
	p, err := NewLRU(2)
	if err != nil {
		t.Fatal(err)
	}
	p.Set(1)
	p.Set(2)
	p.Get(1)
	p.Set(3)

	if !p.Get(1) || !p.Get(3) {
		t.Error("recently used blocks evicted")
	}
	if p.Get(2) {
		t.Error("least recently used block survived")
	}
}

func TestParseList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"lru", []string{"lru"}},
		{" lru, sieve ,,", []string{"lru", "sieve"}},
		{"lru,all", defaultOrder},
	}
	for _, tc := range tests {
		if got := ParseList(tc.in); !slices.Equal(got, tc.want) {
			t.Errorf("ParseList(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestSelect(t *testing.T) {
	got, err := Select([]string{"sieve", "lru", "sieve"})
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, n := range got {
		names = append(names, n.Name)
	}
	if want := []string{"lru", "sieve"}; !slices.Equal(names, want) {
		t.Errorf("Select order = %v, want %v", names, want)
	}

	if _, err := Select([]string{"lru", "mru"}); !errors.Is(err, ErrUnknown) {
		t.Errorf("Select(mru) error = %v, want ErrUnknown", err)
	}
}

func TestRegistryMatchesOrder(t *testing.T) {
	if len(registry) != len(defaultOrder) {
		t.Fatalf("registry has %d entries, order has %d", len(registry), len(defaultOrder))
	}
	for _, name := range defaultOrder {
		if _, ok := registry[name]; !ok {
			t.Errorf("%q listed but not registered", name)
		}
	}
}

func TestFreeLRURejectsCapacityOutOfRange(t *testing.T) {
	for _, capacity := range []int{0, -1, math.MaxUint32 + 1} {
		if _, err := NewFreeLRUSynced(capacity); err == nil {
			t.Errorf("NewFreeLRUSynced(%d) accepted an out-of-range capacity", capacity)
		}
		if _, err := NewFreeLRUSharded(capacity); err == nil {
			t.Errorf("NewFreeLRUSharded(%d) accepted an out-of-range capacity", capacity)
		}
	}
}
