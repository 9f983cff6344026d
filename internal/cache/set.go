package cache

// set is a bounded FIFO of resident tags backed by a fixed ring.
// Entries are never reordered once admitted.
type set struct {
	tags []uint64 // ring storage, len == ways
	head int      // index of the oldest entry
	n    int      // number of resident entries
}

func newSet(ring []uint64) set {
	return set{tags: ring}
}

func (s *set) len() int {
	return s.n
}

func (s *set) full() bool {
	return s.n == len(s.tags)
}

func (s *set) contains(tag uint64) bool {
	for i := range s.n {
		if s.tags[(s.head+i)%len(s.tags)] == tag {
			return true
		}
	}
	return false
}

// insert admits tag as the newest entry, evicting the oldest when full.
func (s *set) insert(tag uint64) (evicted uint64, ok bool) {
	if s.full() {
		evicted, ok = s.tags[s.head], true
		s.head = (s.head + 1) % len(s.tags)
		s.n--
	}
	s.push(tag)
	return evicted, ok
}

// append admits tag only if a way is free. It never evicts.
func (s *set) append(tag uint64) bool {
	if s.full() {
		return false
	}
	s.push(tag)
	return true
}

func (s *set) push(tag uint64) {
	s.tags[(s.head+s.n)%len(s.tags)] = tag
	s.n++
}

// snapshot returns resident tags, oldest first.
func (s *set) snapshot() []uint64 {
	out := make([]uint64, s.n)
	for i := range s.n {
		out[i] = s.tags[(s.head+i)%len(s.tags)]
	}
	return out
}
