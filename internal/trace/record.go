// Package trace reads and writes memory access traces.
//
// A trace has one access per line, "<op> <hex_address>", for example
// "R 0x1a2b". Blank lines are ignored. Files ending in .zst or .gz are
// transparently (de)compressed.
package trace

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Operation names used by generated traces.
const (
	Read  = "R"
	Write = "W"
)

var (
	// ErrNotFound is returned when a trace file does not exist.
	ErrNotFound = errors.New("trace file not found")
	// ErrBlankLine is returned by ParseLine for a line with no content.
	ErrBlankLine = errors.New("blank line")
)

// Record is a single memory access.
type Record struct {
	Op      string // "R" or "W"; the cache model ignores it
	Address uint64
}

// IsWrite reports whether the access is a write.
func (r Record) IsWrite() bool {
	return strings.EqualFold(r.Op, Write)
}

func (r Record) String() string {
	return fmt.Sprintf("%s %#x", r.Op, r.Address)
}

// ParseError identifies a malformed trace line.
type ParseError struct {
	Line int    // 1-based line number
	Text string // offending line, trimmed
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseLine parses one "<op> <hex_address>" line.
func ParseLine(line string) (Record, error) {
	fields := strings.Fields(line)
	switch len(fields) {
	case 0:
		return Record{}, ErrBlankLine
	case 2:
	default:
		return Record{}, fmt.Errorf("want 2 fields, got %d", len(fields))
	}

	addr, err := ParseAddress(fields[1])
	if err != nil {
		return Record{}, err
	}
	return Record{Op: fields[0], Address: addr}, nil
}

// ParseAddress parses a hexadecimal address with an optional 0x prefix.
func ParseAddress(s string) (uint64, error) {
	digits := s
	if len(digits) > 1 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		digits = digits[2:]
	}
	addr, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("bad hex address %q", s)
	}
	return addr, nil
}
