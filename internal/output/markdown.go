package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tstromberg/gocachesim/internal/benchmark"
)

// WriteMarkdown writes results to a Markdown file.
func WriteMarkdown(filename string, results Results, commandLine string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	w := func(format string, args ...any) {
		fmt.Fprintf(f, format, args...)
	}

	w("# gocachesim Results\n\n")
	w("```\n")
	w("Command: %s\n", commandLine)
	w("Environment: %s/%s, %d CPUs, %s\n", results.MachineInfo.OS, results.MachineInfo.Arch, results.MachineInfo.NumCPU, results.MachineInfo.GoVersion)
	w("```\n\n")

	groups := GroupByTrace(results.Runs)
	if len(groups) > 0 {
		w("## Hit Rate\n\n")
		for _, g := range groups {
			writeTraceMarkdown(w, g)
		}
	}

	if len(results.Latency) > 0 {
		w("## Latency\n\n")
		for _, l := range results.Latency {
			writeLatencyMarkdown(w, l)
		}
	}

	if len(results.Rankings) > 0 {
		w("## Overall Rankings\n\n")
		w("| Rank | Config                   | Score | Avg Hit |   Gold | Silver | Bronze |\n")
		w("|------|--------------------------|-------|---------|--------|--------|--------|\n")
		for _, r := range results.Rankings {
			w("| %4d | %-24s | %5.0f | %6.2f%% | %6d | %6d | %6d |\n", r.Rank, r.Name, r.Score, r.AvgHitRate, r.Gold, r.Silver, r.Bronze)
		}
		w("\n")
	}

	return nil
}

func writeTraceMarkdown(w func(string, ...any), g TraceGroup) {
	w("### %s\n\n", filepath.Base(g.Trace))
	w("Fingerprint `%s`\n\n", g.Fingerprint)

	names := baselineNames(g.Runs)

	w("| Config                   |       Hits |     Misses |   Hit % | Evictions | PF issued | PF dropped | PF dup |")
	for _, n := range names {
		w(" %13s |", n)
	}
	w("\n|--------------------------|------------|------------|---------|-----------|-----------|------------|--------|")
	for range names {
		w("---------------|")
	}
	w("\n")

	sorted := SortByHitRate(g.Runs)
	for _, r := range sorted {
		w("| %-24s | %10d | %10d | %6.2f%% | %9d | %9d | %10d | %6d |",
			r.Name, r.Result.Hits, r.Result.Misses(), r.HitRate(),
			r.Counters.Evictions, r.Counters.PrefetchesIssued, r.Counters.PrefetchesDropped, r.Counters.PrefetchDuplicates)
		for _, n := range names {
			w(" %12s%% |", baselineRate(r, n))
		}
		w("\n")
	}

	entries := make([]WinnerEntry, len(sorted))
	for i, r := range sorted {
		entries[i] = WinnerEntry{Name: r.Name, Score: r.HitRate()}
	}
	winners, runnerUp := FormatWinners(entries)
	switch {
	case len(winners) > 1:
		w("\n  winners: %v tied at %.3f%%\n", winners, Round3(entries[0].Score))
	case runnerUp != nil:
		w("\n  winner: %s (%+.2f points vs %s)\n", winners[0], entries[0].Score-runnerUp.Score, runnerUp.Name)
	}
	w("\n")
}

func writeLatencyMarkdown(w func(string, ...any), l LatencyData) {
	if len(l.Results) == 0 {
		return
	}

	w("### %s, %s\n\n", filepath.Base(l.Trace), l.Config)
	w("| Cache         | ns/access | allocs/access |\n")
	w("|---------------|-----------|---------------|\n")
	for _, r := range l.Results {
		w("| %-13s | %9.1f | %13d |\n", r.Name, r.NsPerAccess, r.AllocsPerAccess)
	}
	w("\n")
}

func baselineRate(r benchmark.Run, name string) string {
	for _, b := range r.Baselines {
		if b.Name == name {
			return fmt.Sprintf("%.2f", b.Result.HitRate())
		}
	}
	return "-"
}
