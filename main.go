// gocachesim simulates a set-associative FIFO cache with sequential
// prefetch over a memory access trace.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/tstromberg/gocachesim/internal/baseline"
	"github.com/tstromberg/gocachesim/internal/benchmark"
	"github.com/tstromberg/gocachesim/internal/cache"
	"github.com/tstromberg/gocachesim/internal/config"
	"github.com/tstromberg/gocachesim/internal/output"
	"github.com/tstromberg/gocachesim/internal/trace"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// options holds the parsed command-line flags.
type options struct {
	verbose   bool
	dedup     bool
	baselines string
	sweep     string
	outDir    string
	latency   bool
	workers   int
}

// run executes the command and returns the process exit code. Errors are
// reported on stdout.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("gocachesim", flag.ContinueOnError)
	fs.SetOutput(stdout)
	fs.Usage = func() { printUsage(stdout) }

	var opts options
	fs.BoolVar(&opts.verbose, "v", false, "Log every access to stderr")
	fs.BoolVar(&opts.dedup, "dedup-prefetch", false, "Skip prefetches whose block is already resident")
	fs.StringVar(&opts.baselines, "baselines", "", "Comma-separated reference policies to compare against, or \"all\"")
	fs.StringVar(&opts.sweep, "sweep", "", "Run the configuration sweep described by a YAML file")
	fs.StringVar(&opts.outDir, "outdir", "", "Output directory for gocachesim_results.{json,md,html}")
	fs.BoolVar(&opts.latency, "latency", false, "Measure ns per access of the model and each baseline")
	fs.IntVar(&opts.workers, "workers", 0, "Parallel sweep workers (default: GOMAXPROCS)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	commandLine := "gocachesim " + strings.Join(args, " ")

	if opts.sweep != "" {
		if fs.NArg() != 0 {
			fmt.Fprintln(stdout, "Error: -sweep does not take positional arguments")
			return 1
		}
		if err := runSweep(stdout, opts, commandLine); err != nil {
			fmt.Fprintf(stdout, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	if fs.NArg() != 5 {
		printUsage(stdout)
		return 1
	}

	cfg, err := parseConfig(fs.Args()[:4])
	if err != nil {
		fmt.Fprintf(stdout, "Error: %v\n", err)
		return 1
	}
	cfg.DedupPrefetch = opts.dedup

	if err := runSingle(stdout, stderr, cfg, fs.Arg(4), opts, commandLine); err != nil {
		fmt.Fprintf(stdout, "Error: %v\n", err)
		return 1
	}
	return 0
}

// parseConfig parses <cache_size> <block_size> <associativity> <prefetch_depth>.
func parseConfig(args []string) (cache.Config, error) {
	cacheSize, err := parseSize("cache size", args[0])
	if err != nil {
		return cache.Config{}, err
	}
	blockSize, err := parseSize("block size", args[1])
	if err != nil {
		return cache.Config{}, err
	}
	assoc, err := cache.ParseAssociativity(args[2])
	if err != nil {
		return cache.Config{}, err
	}
	depth, err := strconv.Atoi(args[3])
	if err != nil || depth < 0 {
		return cache.Config{}, fmt.Errorf("%w: prefetch depth must be a non-negative integer, got %q", cache.ErrInvalidConfig, args[3])
	}

	cfg := cache.Config{
		CacheSize:     cacheSize,
		BlockSize:     blockSize,
		Associativity: assoc,
		PrefetchDepth: depth,
	}
	if err := cfg.Validate(); err != nil {
		return cache.Config{}, err
	}
	return cfg, nil
}

func parseSize(what, s string) (uint64, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || !cache.IsPowerOfTwo(n) {
		return 0, fmt.Errorf("%w: %s must be a positive power of 2, got %q", cache.ErrInvalidConfig, what, s)
	}
	return n, nil
}

func runSingle(stdout, stderr io.Writer, cfg cache.Config, path string, opts options, commandLine string) error {
	policies, err := baseline.Select(baseline.ParseList(opts.baselines))
	if err != nil {
		return err
	}

	var observe benchmark.Observer
	if opts.verbose {
		logger := log.New(stderr, "", 0)
		numSets := cfg.NumSets()
		observe = func(rec trace.Record, hit bool) {
			set, tag := cache.Decode(rec.Address, cfg.BlockSize, numSets)
			outcome := "miss"
			if hit {
				outcome = "hit"
			}
			logger.Printf("%s %#x %s set=%d tag=%#x", rec.Op, rec.Address, outcome, set, tag)
		}
	}

	// nothing reaches stdout until every step has succeeded
	var out bytes.Buffer
	res, counters, err := benchmark.RunFile(cfg, path, observe)
	if err != nil {
		return err
	}
	fmt.Fprintln(&out, res)

	if len(policies) == 0 && !opts.latency && opts.outDir == "" {
		_, err = out.WriteTo(stdout)
		return err
	}

	records, err := trace.Load(path)
	if err != nil {
		return err
	}
	r := benchmark.Run{
		Trace:       path,
		Fingerprint: trace.Fingerprint(records),
		Name:        cfg.Name(),
		Config:      cfg,
		Result:      res,
		Counters:    counters,
	}
	if len(policies) > 0 {
		r.Baselines, err = benchmark.RunBaselines(cfg, records, policies)
		if err != nil {
			return err
		}
		printBaselineTable(&out, r)
	}

	results := output.Results{Runs: []benchmark.Run{r}}
	if opts.latency {
		l, err := measureLatency(&out, cfg, path, records, policies)
		if err != nil {
			return err
		}
		results.Latency = append(results.Latency, l)
	}

	if err := writeReports(&out, opts.outDir, results, commandLine); err != nil {
		return err
	}
	_, err = out.WriteTo(stdout)
	return err
}

func runSweep(stdout io.Writer, opts options, commandLine string) error {
	s, err := config.Load(opts.sweep)
	if err != nil {
		return err
	}
	policies, err := s.Policies()
	if err != nil {
		return err
	}
	if opts.baselines != "" {
		policies, err = baseline.Select(baseline.ParseList(opts.baselines))
		if err != nil {
			return err
		}
	}
	if opts.dedup {
		for i := range s.Configs {
			s.Configs[i].DedupPrefetch = true
		}
	}
	workers := s.Workers
	if opts.workers > 0 {
		workers = opts.workers
	}
	outDir := s.OutDir
	if opts.outDir != "" {
		outDir = opts.outDir
	}

	fmt.Fprintln(stdout, "gocachesim sweep")
	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "  traces:    %d\n", len(s.Traces))
	fmt.Fprintf(stdout, "  configs:   %d\n", len(s.Configs))
	fmt.Fprintf(stdout, "  baselines: %d\n", len(policies))
	fmt.Fprintln(stdout)

	loaded := make(map[string][]trace.Record, len(s.Traces))
	var jobs []benchmark.Job
	for _, path := range s.Traces {
		records, err := trace.Load(path)
		if err != nil {
			return err
		}
		loaded[path] = records
		for _, cfg := range s.Configs {
			jobs = append(jobs, benchmark.Job{Trace: path, Records: records, Config: cfg})
		}
	}

	runs, err := benchmark.RunSweep(context.Background(), jobs, policies, workers)
	if err != nil {
		return err
	}

	results := output.Results{Runs: runs}
	for _, g := range output.GroupByTrace(runs) {
		printTraceTable(stdout, g)
	}

	if opts.latency || s.Latency {
		for _, path := range s.Traces {
			l, err := measureLatency(stdout, s.Configs[0], path, loaded[path], policies)
			if err != nil {
				return err
			}
			results.Latency = append(results.Latency, l)
		}
	}

	results.Rankings, results.MedalTable = output.ComputeRankings(results)
	printOverallRanking(stdout, results.Rankings)

	return writeReports(stdout, outDir, results, commandLine)
}

func measureLatency(stdout io.Writer, cfg cache.Config, path string, records []trace.Record, policies []baseline.Named) (output.LatencyData, error) {
	lr, err := benchmark.RunLatency(cfg, records, policies)
	if err != nil {
		return output.LatencyData{}, err
	}
	l := output.LatencyData{Trace: path, Config: cfg.Name(), Results: lr}
	printLatencyTable(stdout, l)
	return l, nil
}

func writeReports(stdout io.Writer, outDir string, results output.Results, commandLine string) error {
	if outDir == "" {
		return nil
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil { //nolint:gosec // G301: 0755 is standard dir permission
		return fmt.Errorf("create output directory: %w", err)
	}

	results.MachineInfo = output.MachineInfo{
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		NumCPU:    runtime.NumCPU(),
		GoVersion: runtime.Version(),
	}

	jsonPath := filepath.Join(outDir, "gocachesim_results.json")
	mdPath := filepath.Join(outDir, "gocachesim_results.md")
	htmlPath := filepath.Join(outDir, "gocachesim_results.html")

	if err := output.WriteJSON(jsonPath, results, commandLine); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	if err := output.WriteMarkdown(mdPath, results, commandLine); err != nil {
		return fmt.Errorf("write Markdown: %w", err)
	}
	if err := output.WriteHTML(htmlPath, results, commandLine); err != nil {
		return fmt.Errorf("write HTML: %w", err)
	}
	fmt.Fprintf(stdout, "Results: %s\n", htmlPath)
	fmt.Fprintf(stdout, "         %s\n", mdPath)
	fmt.Fprintf(stdout, "         %s\n", jsonPath)
	return nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: gocachesim [flags] <cache_size> <block_size> <associativity> <prefetch_depth> <trace_file>")
	fmt.Fprintln(w, "       gocachesim [flags] -sweep <file.yaml>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  cache_size      Cache capacity in bytes (power of 2)")
	fmt.Fprintln(w, "  block_size      Block size in bytes (power of 2)")
	fmt.Fprintln(w, "  associativity   direct or assoc:<N>")
	fmt.Fprintln(w, "  prefetch_depth  Blocks fetched per miss, counting the missed one (0 or 1 disables)")
	fmt.Fprintln(w, "  trace_file      Lines of \"<R|W> <hex address>\" (.zst and .gz are decompressed)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  -v                 Log every access to stderr")
	fmt.Fprintln(w, "  -dedup-prefetch    Skip prefetches whose block is already resident")
	fmt.Fprintln(w, "  -baselines <list>  Compare against fully associative policies (or \"all\")")
	fmt.Fprintln(w, "  -sweep <file>      Run a YAML configuration sweep")
	fmt.Fprintln(w, "  -workers <n>       Parallel sweep workers (default: GOMAXPROCS)")
	fmt.Fprintln(w, "  -outdir <dir>      Write gocachesim_results.{json,md,html}")
	fmt.Fprintln(w, "  -latency           Measure ns per access")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Example:")
	fmt.Fprintln(w, "  gocachesim 32768 64 assoc:8 2 app.trace")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Available baselines:")
	for _, name := range baseline.AvailableNames() {
		fmt.Fprintf(w, "  - %s\n", name)
	}
}
