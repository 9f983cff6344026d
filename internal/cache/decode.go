package cache

// Decode splits an address into its set index and tag.
func Decode(addr, blockSize, numSets uint64) (set, tag uint64) {
	set = (addr / blockSize) % numSets
	tag = addr / (blockSize * numSets)
	return set, tag
}

// Offset is the byte offset of addr within its block. The model never stores it.
func Offset(addr, blockSize uint64) uint64 {
	return addr % blockSize
}
