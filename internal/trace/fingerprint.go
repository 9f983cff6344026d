package trace

import (
	"encoding/binary"
	"fmt"

	"github.com/zeebo/xxh3"
)

// Fingerprint is an xxh3 digest of a trace's operations and addresses.
// Two traces with the same accesses in the same order share a fingerprint
// regardless of formatting or compression.
func Fingerprint(records []Record) string {
	h := xxh3.New()
	var buf [9]byte
	for _, rec := range records {
		buf[0] = 'R'
		if rec.IsWrite() {
			buf[0] = 'W'
		}
		binary.LittleEndian.PutUint64(buf[1:], rec.Address)
		h.Write(buf[:]) //nolint:errcheck,gosec // hash writes never fail
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
