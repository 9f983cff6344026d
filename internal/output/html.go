// Package output provides result formatting and export.
package output

import (
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tstromberg/gocachesim/internal/benchmark"
)

//go:embed template.html
var templateFS embed.FS

// Results holds everything a report shows.
type Results struct {
	Timestamp   string
	Runs        []benchmark.Run
	Latency     []LatencyData
	Rankings    []Ranking
	MedalTable  *MedalTable
	MachineInfo MachineInfo
}

// MachineInfo holds information about the simulation environment.
type MachineInfo struct {
	OS          string
	Arch        string
	NumCPU      int
	GoVersion   string
	CommandLine string
}

// Ranking represents an overall ranking entry.
type Ranking struct {
	Rank       int
	Name       string
	Score      float64
	AvgHitRate float64
	Gold       int
	Silver     int
	Bronze     int
}

// BenchmarkMedal holds one trace's top 3 placements. Tied configurations
// share a placement.
type BenchmarkMedal struct {
	Name   string
	Gold   []string
	Silver []string
	Bronze []string
}

// MedalTable holds the placements for every trace.
type MedalTable struct {
	Benchmarks []BenchmarkMedal
}

// LatencyData holds per-access latency measured on one trace and geometry.
type LatencyData struct {
	Trace   string
	Config  string
	Results []benchmark.LatencyResult
}

// WriteHTML writes results to an HTML file.
func WriteHTML(filename string, results Results, commandLine string) error {
	results.Timestamp = time.Now().Format("2006-01-02 15:04:05 MST")
	results.MachineInfo.CommandLine = commandLine

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	return htmlTemplate.Execute(f, results)
}

var htmlTemplate = template.Must(template.New("template.html").Funcs(templateFuncs).ParseFS(templateFS, "template.html"))

var templateFuncs = template.FuncMap{
	"add":           func(a, b int) int { return a + b },
	"groupByTrace":  GroupByTrace,
	"sortByHitRate": SortByHitRate,
	"base":          filepath.Base,
	"join":          func(s []string) string { return strings.Join(s, ", ") },
	"pct":           func(f float64) string { return fmt.Sprintf("%.2f", f) },
	"ns":            func(f float64) string { return fmt.Sprintf("%.1f", f) },
	"barWidth": func(value, maxValue float64) float64 {
		if maxValue == 0 {
			return 0
		}
		return (value / maxValue) * 100
	},
	"maxLatency": func(results []benchmark.LatencyResult) float64 {
		m := 0.0
		for _, r := range results {
			m = max(m, r.NsPerAccess)
		}
		return m
	},
	"baselineNames": baselineNames,
	"baselineRate":  baselineRate,
	"chartLabels": func(runs []benchmark.Run) template.JS {
		labels := make([]string, len(runs))
		for i, r := range runs {
			labels[i] = fmt.Sprintf("%q", r.Name)
		}
		return template.JS("[" + strings.Join(labels, ",") + "]") //nolint:gosec // names are config strings
	},
	"chartDatasets": func(runs []benchmark.Run) template.JS {
		sets := []string{chartDataset("fifo model", modelColor, runs, func(r benchmark.Run) float64 { return r.HitRate() })}
		for i, name := range baselineNames(runs) {
			color := policyColors[i%len(policyColors)]
			sets = append(sets, chartDataset(name, color, runs, func(r benchmark.Run) float64 {
				for _, b := range r.Baselines {
					if b.Name == name {
						return b.Result.HitRate()
					}
				}
				return 0
			}))
		}
		return template.JS("[" + strings.Join(sets, ",") + "]") //nolint:gosec // generated from numbers and policy names
	},
}

const modelColor = "#2E7D32"

var policyColors = []string{
	"#1976D2", "#D32F2F", "#7B1FA2", "#F57C00", "#0288D1", "#00796B", "#C2185B",
	"#5D4037", "#455A64", "#E64A19", "#512DA8", "#00695C", "#AFB42B", "#0097A7",
}

func chartDataset(label, color string, runs []benchmark.Run, value func(benchmark.Run) float64) string {
	data := make([]string, len(runs))
	for i, r := range runs {
		data[i] = fmt.Sprintf("%.2f", value(r))
	}
	return fmt.Sprintf(`{label:%q,data:[%s],backgroundColor:%q,borderColor:%q,borderWidth:1}`,
		label, strings.Join(data, ","), color, color)
}

// baselineNames lists the policies present in runs, in first-seen order.
func baselineNames(runs []benchmark.Run) []string {
	var names []string
	seen := make(map[string]bool)
	for _, r := range runs {
		for _, b := range r.Baselines {
			if !seen[b.Name] {
				seen[b.Name] = true
				names = append(names, b.Name)
			}
		}
	}
	return names
}
