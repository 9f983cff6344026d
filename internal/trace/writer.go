package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Writer emits records in trace format.
type Writer struct {
	buf     *bufio.Writer
	closers []func() error
	n       int
}

// NewWriter writes an uncompressed trace to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{buf: bufio.NewWriter(w)}
}

// Create creates a trace file, compressing when the name ends in .zst or .gz.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create trace: %w", err)
	}

	var dst io.Writer = f
	closers := []func() error{f.Close}

	switch {
	case strings.HasSuffix(path, ".zst"), strings.HasSuffix(path, ".zstd"):
		encoder, err := zstd.NewWriter(f)
		if err != nil {
			f.Close() //nolint:errcheck,gosec // already failing
			return nil, fmt.Errorf("create zstd encoder: %w", err)
		}
		dst = encoder
		closers = append([]func() error{encoder.Close}, closers...)
	case strings.HasSuffix(path, ".gz"):
		gz := gzip.NewWriter(f)
		dst = gz
		closers = append([]func() error{gz.Close}, closers...)
	}

	w := NewWriter(dst)
	w.closers = closers
	return w, nil
}

// Write appends one record.
func (w *Writer) Write(rec Record) error {
	if _, err := fmt.Fprintf(w.buf, "%s 0x%x\n", rec.Op, rec.Address); err != nil {
		return fmt.Errorf("write record %d: %w", w.n+1, err)
	}
	w.n++
	return nil
}

// WriteAll appends every record.
func (w *Writer) WriteAll(records []Record) error {
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// Count is the number of records written so far.
func (w *Writer) Count() int {
	return w.n
}

// Close flushes and closes the encoder and file, innermost first.
func (w *Writer) Close() error {
	errs := []error{w.buf.Flush()}
	for _, c := range w.closers {
		errs = append(errs, c())
	}
	w.closers = nil
	return errors.Join(errs...)
}
