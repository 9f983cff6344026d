package cache

import (
	"slices"
	"testing"
)

func TestSetRingWraps(t *testing.T) {
	s := newSet(make([]uint64, 3))

	for tag := range uint64(3) {
		if _, ok := s.insert(tag); ok {
			t.Fatalf("insert(%d) evicted from a set with free ways", tag)
		}
	}
	if !s.full() {
		t.Fatal("set should be full")
	}

	for tag := uint64(3); tag < 10; tag++ {
		evicted, ok := s.insert(tag)
		if !ok || evicted != tag-3 {
			t.Fatalf("insert(%d) evicted (%d, %v), want (%d, true)", tag, evicted, ok, tag-3)
		}
		if want := []uint64{tag - 2, tag - 1, tag}; !slices.Equal(s.snapshot(), want) {
			t.Fatalf("after insert(%d) tags = %v, want %v", tag, s.snapshot(), want)
		}
	}
}

func TestSetAppend(t *testing.T) {
	s := newSet(make([]uint64, 2))

	if !s.append(5) || !s.append(5) {
		t.Fatal("append into free ways failed")
	}
	if s.append(6) {
		t.Fatal("append into a full set succeeded")
	}
	if got := s.snapshot(); !slices.Equal(got, []uint64{5, 5}) {
		t.Errorf("tags = %v, want [5 5]", got)
	}
	if s.contains(6) {
		t.Error("rejected tag is resident")
	}
	if s.len() != 2 {
		t.Errorf("len = %d, want 2", s.len())
	}
}
