package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/tstromberg/gocachesim/internal/benchmark"
	"github.com/tstromberg/gocachesim/internal/output"
)

const lineWidth = 80

func printSection(w io.Writer, name, description string) {
	header := fmt.Sprintf("%s: %s ", name, description)
	padding := max(lineWidth-len(header), 4)
	fmt.Fprintf(w, "%s%s\n\n", header, strings.Repeat("-", padding))
}

// printBaselineTable compares one run against its reference policies.
func printBaselineTable(w io.Writer, r benchmark.Run) {
	fmt.Fprintln(w)
	printSection(w, "baselines", fmt.Sprintf("fully associative, %d blocks", r.Config.NumBlocks()))

	fmt.Fprintln(w, "  | Cache         |       Hits |     Misses |   Hit % |")
	fmt.Fprintln(w, "  |---------------|------------|------------|---------|")
	fmt.Fprintf(w, "  | %-13s | %10d | %10d | %6.2f%% |\n", benchmark.ModelName, r.Result.Hits, r.Result.Misses(), r.HitRate())

	var notes []string
	for _, b := range r.Baselines {
		name := b.Name
		if b.Approximate != "" {
			name += "*"
			notes = append(notes, fmt.Sprintf("%s: %s", b.Name, b.Approximate))
		}
		fmt.Fprintf(w, "  | %-13s | %10d | %10d | %6.2f%% |\n", name, b.Result.Hits, b.Result.Misses(), b.Result.HitRate())
	}
	fmt.Fprintln(w)
	for _, n := range notes {
		fmt.Fprintf(w, "  * %s\n", n)
	}
	if len(notes) > 0 {
		fmt.Fprintln(w)
	}
}

// printTraceTable prints every configuration replayed on one trace, best first.
func printTraceTable(w io.Writer, g output.TraceGroup) {
	printSection(w, filepath.Base(g.Trace), "fingerprint "+g.Fingerprint)

	fmt.Fprintln(w, "  | Config                   |       Hits |     Misses |   Hit % | Evictions | PF dropped |")
	fmt.Fprintln(w, "  |--------------------------|------------|------------|---------|-----------|------------|")

	sorted := output.SortByHitRate(g.Runs)
	for _, r := range sorted {
		fmt.Fprintf(w, "  | %-24s | %10d | %10d | %6.2f%% | %9d | %10d |\n",
			r.Name, r.Result.Hits, r.Result.Misses(), r.HitRate(), r.Counters.Evictions, r.Counters.PrefetchesDropped)
	}

	entries := make([]output.WinnerEntry, len(sorted))
	for i, r := range sorted {
		entries[i] = output.WinnerEntry{Name: r.Name, Score: r.HitRate()}
	}
	winners, runnerUp := output.FormatWinners(entries)
	switch {
	case len(winners) > 1:
		fmt.Fprintf(w, "\n  winners: %s (tied at %.3f%%)\n", strings.Join(winners, ", "), output.Round3(entries[0].Score))
	case runnerUp != nil:
		fmt.Fprintf(w, "\n  winner: %s (%+.2f points vs %s)\n", winners[0], entries[0].Score-runnerUp.Score, runnerUp.Name)
	}
	fmt.Fprintln(w)
}

func printLatencyTable(w io.Writer, l output.LatencyData) {
	printSection(w, "latency", fmt.Sprintf("%s, %s", filepath.Base(l.Trace), l.Config))

	fmt.Fprintln(w, "  | Cache         | ns/access | allocs/access |")
	fmt.Fprintln(w, "  |---------------|-----------|---------------|")
	for _, r := range l.Results {
		fmt.Fprintf(w, "  | %-13s | %9.1f | %13d |\n", r.Name, r.NsPerAccess, r.AllocsPerAccess)
	}
	fmt.Fprintln(w)
}

func printOverallRanking(w io.Writer, rankings []output.Ranking) {
	if len(rankings) == 0 {
		return
	}

	printSection(w, "summary", "ranked voting across all traces")

	for i := 0; i < len(rankings) && i < 3; i++ {
		r := rankings[i]
		fmt.Fprintf(w, "  #%d  %s (%.0f points, %.2f%% avg hit rate)\n", r.Rank, r.Name, r.Score, r.AvgHitRate)
	}
	fmt.Fprintln(w)
}
