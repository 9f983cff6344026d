package trace

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		line    string
		want    Record
		wantErr bool
	}{
		{"R 0x1a2b", Record{Op: "R", Address: 0x1a2b}, false},
		{"W 0X00", Record{Op: "W", Address: 0}, false},
		{"  R\t0xdeadbeef  ", Record{Op: "R", Address: 0xdeadbeef}, false},
		{"W ff", Record{Op: "W", Address: 0xff}, false},
		{"R 0xffffffffffffffff", Record{Op: "R", Address: ^uint64(0)}, false},
		{"R", Record{}, true},
		{"R 0x10 extra", Record{}, true},
		{"R 0xzz", Record{}, true},
		{"R 0x", Record{}, true},
		{"R -0x10", Record{}, true},
		{"R 0x1ffffffffffffffff", Record{}, true},
	}

	for _, tc := range tests {
		got, err := ParseLine(tc.line)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseLine(%q) = %+v, want error", tc.line, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseLine(%q) unexpected error: %v", tc.line, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseLine(%q) = %+v, want %+v", tc.line, got, tc.want)
		}
	}

	if _, err := ParseLine("   "); !errors.Is(err, ErrBlankLine) {
		t.Errorf("ParseLine(blank) error = %v, want ErrBlankLine", err)
	}
}

func TestReaderSkipsBlankLines(t *testing.T) {
	input := "R 0x0\n\n   \nW 0x40\r\nR 0x00\n"
	r := NewReader(strings.NewReader(input))

	var got []Record
	for r.Next() {
		got = append(got, r.Record())
	}
	if err := r.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Record{{"R", 0}, {"W", 0x40}, {"R", 0}}
	if !slices.Equal(got, want) {
		t.Errorf("records = %v, want %v", got, want)
	}
	if r.Line() != 5 {
		t.Errorf("Line = %d, want 5", r.Line())
	}
}

func TestReaderStopsOnMalformedLine(t *testing.T) {
	input := "R 0x0\nW 0x10\nR nothex\nR 0x20\n"
	r := NewReader(strings.NewReader(input))

	n := 0
	for r.Next() {
		n++
	}
	if n != 2 {
		t.Errorf("read %d records before the bad line, want 2", n)
	}

	var perr *ParseError
	if !errors.As(r.Err(), &perr) {
		t.Fatalf("Err = %v, want *ParseError", r.Err())
	}
	if perr.Line != 3 || perr.Text != "R nothex" {
		t.Errorf("ParseError = line %d %q, want line 3 %q", perr.Line, perr.Text, "R nothex")
	}
	if !strings.Contains(perr.Error(), "line 3") {
		t.Errorf("message %q does not name the line", perr.Error())
	}
	if r.Next() {
		t.Error("Next continued after an error")
	}
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.trace"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Open(missing) = %v, want ErrNotFound", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "absent.trace")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load(missing) = %v, want ErrNotFound", err)
	}
}

func TestCreateLoadRoundTrip(t *testing.T) {
	records := []Record{{"R", 0}, {"W", 0x1a2b}, {"R", 0xffffffff}, {"W", 0x40}}
	dir := t.TempDir()

	for _, name := range []string{"plain.trace", "packed.trace.zst", "packed.trace.gz"} {
		path := filepath.Join(dir, name)
		w, err := Create(path)
		if err != nil {
			t.Fatalf("Create(%s): %v", name, err)
		}
		if err := w.WriteAll(records); err != nil {
			t.Fatalf("WriteAll(%s): %v", name, err)
		}
		if w.Count() != len(records) {
			t.Errorf("%s: Count = %d, want %d", name, w.Count(), len(records))
		}
		if err := w.Close(); err != nil {
			t.Fatalf("Close(%s): %v", name, err)
		}

		got, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%s): %v", name, err)
		}
		if !slices.Equal(got, records) {
			t.Errorf("%s: loaded %v, want %v", name, got, records)
		}
	}

	plain, err := os.ReadFile(filepath.Join(dir, "plain.trace"))
	if err != nil {
		t.Fatal(err)
	}
	if want := "R 0x0\nW 0x1a2b\nR 0xffffffff\nW 0x40\n"; string(plain) != want {
		t.Errorf("plain file = %q, want %q", plain, want)
	}
}

func TestLoadReportsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.trace")
	if err := os.WriteFile(path, []byte("R 0x0\nbogus\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Load = %v, want *ParseError", err)
	}
	if perr.Line != 2 {
		t.Errorf("line = %d, want 2", perr.Line)
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("error %q does not name %s", err, path)
	}
}

func TestFingerprint(t *testing.T) {
	a := []Record{{"R", 0}, {"W", 0x40}}
	b := []Record{{"r", 0}, {"w", 0x40}}
	c := []Record{{"W", 0x40}, {"R", 0}}

	if Fingerprint(a) != Fingerprint(b) {
		t.Error("fingerprint depends on op case")
	}
	if Fingerprint(a) == Fingerprint(c) {
		t.Error("fingerprint ignores order")
	}
	if got := len(Fingerprint(nil)); got != 16 {
		t.Errorf("fingerprint length = %d, want 16", got)
	}
}
