// tracegen writes a synthetic memory access trace for gocachesim.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/tstromberg/gocachesim/internal/trace"
	"github.com/tstromberg/gocachesim/internal/workload"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("tracegen", flag.ContinueOnError)
	fs.SetOutput(stdout)
	seed := fs.Uint64("seed", 0, "Random seed (default: current time)")
	dist := fs.String("dist", "uniform", "Address distribution: uniform, zipf or sequential")
	blocks := fs.Int("blocks", 65536, "Distinct blocks for zipf")
	alpha := fs.Float64("alpha", 0.99, "Zipf skew")
	blockSize := fs.Uint64("block-size", 64, "Block size in bytes for zipf")
	start := fs.Uint64("start", 0, "First address for sequential")
	stride := fs.Uint64("stride", 64, "Address step for sequential")
	fs.Usage = func() {
		fmt.Fprintln(stdout, "Usage: tracegen [flags] <n> <output_file>")
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, "Writes n accesses, one \"<R|W> 0x<hex>\" per line. Output ending in .zst or .gz is compressed.")
		fmt.Fprintln(stdout)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return 1
	}

	n, err := strconv.Atoi(fs.Arg(0))
	if err != nil || n < 0 {
		fmt.Fprintf(stdout, "Error: n must be a non-negative integer, got %q\n", fs.Arg(0))
		return 1
	}
	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano()) //nolint:gosec // only seeds the generator
	}

	var records []trace.Record
	switch *dist {
	case "uniform":
		records = workload.Uniform(n, *seed)
	case "zipf":
		if *blocks < 1 || *blockSize == 0 || *alpha <= 0 || *alpha == 1 {
			fmt.Fprintln(stdout, "Error: zipf needs -blocks >= 1, -block-size > 0 and -alpha > 0, != 1")
			return 1
		}
		records = workload.Zipf(n, *blocks, *alpha, *blockSize, *seed)
	case "sequential":
		records = workload.Sequential(n, *start, *stride)
	default:
		fmt.Fprintf(stdout, "Error: unknown distribution %q\n", *dist)
		return 1
	}

	if err := write(fs.Arg(1), records); err != nil {
		fmt.Fprintf(stdout, "Error: %v\n", err)
		return 1
	}
	return 0
}

func write(path string, records []trace.Record) error {
	w, err := trace.Create(path)
	if err != nil {
		return err
	}
	if err := w.WriteAll(records); err != nil {
		w.Close() //nolint:errcheck,gosec // already failing
		return err
	}
	return w.Close()
}
