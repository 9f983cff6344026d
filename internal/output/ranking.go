package output

import (
	"math"
	"sort"

	"github.com/tstromberg/gocachesim/internal/benchmark"
)

// Points awarded by placement: 1st=10, 2nd=7, 3rd=5, 4th=4, 5th=3, 6th=2, 7th=1.
var placementPoints = []float64{10, 7, 5, 4, 3, 2, 1}

// rankedEntry holds a name and score for tie detection.
type rankedEntry struct {
	name  string
	score float64
}

// Round3 rounds to 3 decimal places for tie detection.
func Round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}

// WinnerEntry represents a ranked entry for winner display.
type WinnerEntry struct {
	Name  string
	Score float64
}

// FormatWinners returns winner names and the first runner-up for comparison.
// If multiple entries tie for first, all are returned as winners.
// Returns (winners, runnerUp) where runnerUp is nil if everyone ties or only one entry.
func FormatWinners(entries []WinnerEntry) (winners []string, runnerUp *WinnerEntry) {
	if len(entries) == 0 {
		return nil, nil
	}

	bestScore := Round3(entries[0].Score)
	for _, e := range entries {
		if Round3(e.Score) != bestScore {
			runnerUp = &WinnerEntry{Name: e.Name, Score: e.Score}
			break
		}
		winners = append(winners, e.Name)
	}

	return winners, runnerUp
}

// TraceGroup is every run of one trace, in sweep order.
type TraceGroup struct {
	Trace       string
	Fingerprint string
	Runs        []benchmark.Run
}

// GroupByTrace splits runs by trace, keeping first-seen trace order.
func GroupByTrace(runs []benchmark.Run) []TraceGroup {
	var groups []TraceGroup
	index := make(map[string]int)
	for _, r := range runs {
		i, ok := index[r.Trace]
		if !ok {
			i = len(groups)
			index[r.Trace] = i
			groups = append(groups, TraceGroup{Trace: r.Trace, Fingerprint: r.Fingerprint})
		}
		groups[i].Runs = append(groups[i].Runs, r)
	}
	return groups
}

// SortByHitRate returns a copy of runs ordered by descending hit rate.
// Equal rates keep sweep order.
func SortByHitRate(runs []benchmark.Run) []benchmark.Run {
	sorted := make([]benchmark.Run, len(runs))
	copy(sorted, runs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].HitRate() > sorted[j].HitRate()
	})
	return sorted
}

// ComputeRankings ranks configurations by hit rate on each trace and
// totals placement points across traces. Configurations whose hit rates
// match to three decimals share a placement, and the placements they
// occupy are skipped.
func ComputeRankings(results Results) ([]Ranking, *MedalTable) {
	scores := make(map[string]float64)
	medals := make(map[string][3]int) // [gold, silver, bronze]
	hitRates := make(map[string][]float64)
	var order []string
	var benchmarks []BenchmarkMedal

	assignPoints := func(benchName string, entries []rankedEntry) {
		bm := BenchmarkMedal{Name: benchName}
		pos := 0 // 0=gold, 1=silver, 2=bronze
		i := 0

		for i < len(entries) {
			var tied []string
			baseScore := Round3(entries[i].score)
			for i < len(entries) && Round3(entries[i].score) == baseScore {
				tied = append(tied, entries[i].name)
				i++
			}

			for _, n := range tied {
				if pos < len(placementPoints) {
					scores[n] += placementPoints[pos]
				} else if _, ok := scores[n]; !ok {
					scores[n] = 0
				}
				if pos < 3 {
					m := medals[n]
					m[pos]++
					medals[n] = m
				}
			}

			switch pos {
			case 0:
				bm.Gold = tied
			case 1:
				bm.Silver = tied
			case 2:
				bm.Bronze = tied
			}

			pos += len(tied)
		}

		benchmarks = append(benchmarks, bm)
	}

	for _, g := range GroupByTrace(results.Runs) {
		sorted := SortByHitRate(g.Runs)
		entries := make([]rankedEntry, len(sorted))
		for i, r := range sorted {
			entries[i] = rankedEntry{r.Name, r.HitRate()}
			if _, ok := hitRates[r.Name]; !ok {
				order = append(order, r.Name)
			}
			hitRates[r.Name] = append(hitRates[r.Name], r.HitRate())
		}
		assignPoints(g.Trace, entries)
	}

	if len(scores) == 0 {
		return nil, nil
	}

	type configRank struct {
		name   string
		score  float64
		avg    float64
		gold   int
		silver int
		bronze int
		seen   int
	}
	ranks := make([]configRank, 0, len(order))
	for i, name := range order {
		m := medals[name]
		ranks = append(ranks, configRank{name, scores[name], mean(hitRates[name]), m[0], m[1], m[2], i})
	}
	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].score != ranks[j].score {
			return ranks[i].score > ranks[j].score
		}
		if ranks[i].gold != ranks[j].gold {
			return ranks[i].gold > ranks[j].gold
		}
		if ranks[i].silver != ranks[j].silver {
			return ranks[i].silver > ranks[j].silver
		}
		if ranks[i].bronze != ranks[j].bronze {
			return ranks[i].bronze > ranks[j].bronze
		}
		return ranks[i].seen < ranks[j].seen
	})

	result := make([]Ranking, len(ranks))
	for i, r := range ranks {
		result[i] = Ranking{
			Rank:       i + 1,
			Name:       r.name,
			Score:      r.score,
			AvgHitRate: r.avg,
			Gold:       r.gold,
			Silver:     r.silver,
			Bronze:     r.bronze,
		}
	}

	return result, &MedalTable{Benchmarks: benchmarks}
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
