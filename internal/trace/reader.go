package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Reader streams records from a trace, skipping blank lines.
type Reader struct {
	scanner *bufio.Scanner
	closers []func() error
	line    int
	rec     Record
	err     error
}

// NewReader reads an uncompressed trace from r.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Reader{scanner: scanner}
}

// Open opens a trace file, decompressing .zst and .gz files.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("open trace: %w", err)
	}

	var src io.Reader = f
	closers := []func() error{f.Close}

	switch {
	case strings.HasSuffix(path, ".zst"), strings.HasSuffix(path, ".zstd"):
		decoder, err := zstd.NewReader(f)
		if err != nil {
			f.Close() //nolint:errcheck,gosec // already failing
			return nil, fmt.Errorf("create zstd decoder: %w", err)
		}
		src = decoder
		closers = append([]func() error{func() error { decoder.Close(); return nil }}, closers...)
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close() //nolint:errcheck,gosec // already failing
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		src = gz
		closers = append([]func() error{gz.Close}, closers...)
	}

	r := NewReader(src)
	r.closers = closers
	return r, nil
}

// Next advances to the next record. It returns false at the end of the
// trace or on the first malformed line; check Err afterwards.
func (r *Reader) Next() bool {
	if r.err != nil {
		return false
	}
	for r.scanner.Scan() {
		r.line++
		text := r.scanner.Text()
		rec, err := ParseLine(text)
		if errors.Is(err, ErrBlankLine) {
			continue
		}
		if err != nil {
			r.err = &ParseError{Line: r.line, Text: strings.TrimSpace(text), Err: err}
			return false
		}
		r.rec = rec
		return true
	}
	if err := r.scanner.Err(); err != nil {
		r.err = fmt.Errorf("scan trace: %w", err)
	}
	return false
}

// Record returns the record read by the last successful Next.
func (r *Reader) Record() Record {
	return r.rec
}

// Line is the 1-based line number of the current record.
func (r *Reader) Line() int {
	return r.line
}

// Err returns the first error encountered, if any.
func (r *Reader) Err() error {
	return r.err
}

// Close releases the underlying file and decoder.
func (r *Reader) Close() error {
	var errs []error
	for _, c := range r.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}

// Load reads a whole trace file into memory.
func Load(path string) ([]Record, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close() //nolint:errcheck // read-only

	var records []Record
	for r.Next() {
		records = append(records, r.Record())
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return records, nil
}
