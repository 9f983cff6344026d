package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTrace(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.trace")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun(t *testing.T) {
	conflict := writeTrace(t, "R 0x00\nR 0x00\n\nW 0x40\nR 0x00\n")

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  string
	}{
		{"direct mapped", []string{"64", "16", "direct", "0", conflict}, 0, "Hits: 1, Misses: 3\n"},
		{"bare assoc is direct", []string{"64", "16", "assoc", "0", conflict}, 0, "Hits: 1, Misses: 3\n"},
		{"two way", []string{"64", "16", "assoc:2", "0", conflict}, 0, "Hits: 2, Misses: 2\n"},
		{"too few args", []string{"64", "16", "direct", "0"}, 1, "Usage:"},
		{"too many args", []string{"64", "16", "direct", "0", conflict, "x"}, 1, "Usage:"},
		{"size not power of two", []string{"48", "16", "direct", "0", conflict}, 1, "Error:"},
		{"size not a number", []string{"big", "16", "direct", "0", conflict}, 1, "Error:"},
		{"zero block size", []string{"64", "0", "direct", "0", conflict}, 1, "Error:"},
		{"bad associativity", []string{"64", "16", "assoc:x", "0", conflict}, 1, "Error:"},
		{"unknown associativity", []string{"64", "16", "full", "0", conflict}, 1, "Error:"},
		{"negative depth", []string{"64", "16", "direct", "-1", conflict}, 1, "Error:"},
		{"geometry too small", []string{"32", "16", "assoc:4", "0", conflict}, 1, "Error:"},
		{"too many blocks", []string{"4611686018427387904", "1", "direct", "0", conflict}, 1, "Error:"},
		{"ways overflow", []string{"9223372036854775808", "9223372036854775808", "assoc:3", "0", conflict}, 1, "Error:"},
		{"missing trace", []string{"64", "16", "direct", "0", filepath.Join(t.TempDir(), "nope")}, 1, "Error:"},
		{"unknown baseline", []string{"-baselines", "mru", "64", "16", "direct", "0", conflict}, 1, "Error:"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tc.args, &stdout, &stderr)
			if code != tc.wantCode {
				t.Errorf("exit code = %d, want %d (stdout %q)", code, tc.wantCode, stdout.String())
			}
			if tc.wantCode == 0 && stdout.String() != tc.wantOut {
				t.Errorf("stdout = %q, want %q", stdout.String(), tc.wantOut)
			}
			if tc.wantCode != 0 && !strings.Contains(stdout.String(), tc.wantOut) {
				t.Errorf("stdout = %q, want it to contain %q", stdout.String(), tc.wantOut)
			}
		})
	}
}

func TestRunMalformedLineHasNoPartialOutput(t *testing.T) {
	path := writeTrace(t, "R 0x00\nR 0x00\nR zz\nR 0x00\n")

	var stdout, stderr bytes.Buffer
	if code := run([]string{"64", "16", "direct", "0", path}, &stdout, &stderr); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	out := stdout.String()
	if strings.Contains(out, "Hits:") {
		t.Errorf("partial result printed: %q", out)
	}
	if !strings.Contains(out, "line 3") || !strings.Contains(out, "R zz") {
		t.Errorf("error %q does not identify the line", out)
	}
}

func TestRunPrefetch(t *testing.T) {
	path := writeTrace(t, "R 0x100\nR 0x110\nR 0x120\n")

	var stdout, stderr bytes.Buffer
	if code := run([]string{"256", "16", "assoc:2", "3", path}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d: %s", code, stdout.String())
	}
	if got, want := stdout.String(), "Hits: 2, Misses: 1\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestRunVerbose(t *testing.T) {
	path := writeTrace(t, "R 0x00\nW 0x00\n")

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-v", "64", "16", "direct", "0", path}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d: %s", code, stdout.String())
	}
	lines := strings.Split(strings.TrimSpace(stderr.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("verbose log = %q, want 2 lines", stderr.String())
	}
	if !strings.Contains(lines[0], "miss") || !strings.Contains(lines[1], "hit") {
		t.Errorf("verbose log = %q", lines)
	}
	if stdout.String() != "Hits: 1, Misses: 1\n" {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRunBaselinesAndReports(t *testing.T) {
	path := writeTrace(t, "R 0x00\nR 0x40\nR 0x00\nR 0x40\n")
	outDir := filepath.Join(t.TempDir(), "out")

	var stdout, stderr bytes.Buffer
	args := []string{"-baselines", "lru,sieve", "-outdir", outDir, "64", "16", "direct", "0", path}
	if code := run(args, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d: %s", code, stdout.String())
	}
	out := stdout.String()
	if !strings.HasPrefix(out, "Hits: 0, Misses: 4\n") {
		t.Errorf("stdout does not start with the result line: %q", out)
	}
	for _, want := range []string{"lru", "sieve"} {
		if !strings.Contains(out, want) {
			t.Errorf("baseline table missing %q", want)
		}
	}
	for _, name := range []string{"gocachesim_results.json", "gocachesim_results.md", "gocachesim_results.html"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("report %s: %v", name, err)
		}
	}
}

func TestRunReportFailureHasNoPartialOutput(t *testing.T) {
	path := writeTrace(t, "R 0x00\nR 0x00\n")
	// a regular file where the report directory should go
	outDir := writeTrace(t, "")

	var stdout, stderr bytes.Buffer
	args := []string{"-baselines", "lru", "-outdir", outDir, "64", "16", "direct", "0", path}
	if code := run(args, &stdout, &stderr); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	out := stdout.String()
	if !strings.HasPrefix(out, "Error:") {
		t.Errorf("stdout = %q, want only the error", out)
	}
	if strings.Contains(out, "Hits:") {
		t.Errorf("partial result printed: %q", out)
	}
}

func TestRunSweep(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.trace"), []byte("R 0x00\nR 0x40\nR 0x00\nR 0x40\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	sweep := `
traces: [a.trace]
configs:
  - {cache_size: 64, block_size: 16, associativity: direct}
  - {cache_size: 64, block_size: 16, associativity: "assoc:2"}
outdir: out
`
	sweepPath := filepath.Join(dir, "sweep.yaml")
	if err := os.WriteFile(sweepPath, []byte(sweep), 0o600); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-sweep", sweepPath}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d: %s", code, stdout.String())
	}
	out := stdout.String()
	if !strings.Contains(out, "winner: 64B/16B/assoc:2/pf0") {
		t.Errorf("sweep output missing winner:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "out", "gocachesim_results.json")); err != nil {
		t.Errorf("sweep report: %v", err)
	}

	stdout.Reset()
	if code := run([]string{"-sweep", sweepPath, "extra"}, &stdout, &stderr); code != 1 {
		t.Errorf("sweep with positional args exit code = %d, want 1", code)
	}
}
