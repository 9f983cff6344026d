package benchmark

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/tstromberg/gocachesim/internal/baseline"
	"github.com/tstromberg/gocachesim/internal/cache"
	"github.com/tstromberg/gocachesim/internal/trace"
)

// Job is one configuration to replay against one loaded trace.
type Job struct {
	Trace   string
	Records []trace.Record
	Config  cache.Config
}

// Run is the outcome of a Job.
type Run struct {
	Trace       string           `json:"trace"`
	Fingerprint string           `json:"fingerprint"`
	Name        string           `json:"name"`
	Config      cache.Config     `json:"config"`
	Result      Result           `json:"result"`
	Counters    cache.Counters   `json:"counters"`
	Baselines   []BaselineResult `json:"baselines,omitempty"`
}

// HitRate is the model's hit percentage for this run.
func (r Run) HitRate() float64 {
	return r.Result.HitRate()
}

// RunSweep replays every job on its own cache, up to workers at a time
// (GOMAXPROCS when workers <= 0). Results are returned in job order. The
// first failure cancels the jobs that have not started.
func RunSweep(ctx context.Context, jobs []Job, policies []baseline.Named, workers int) ([]Run, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	fingerprints := make(map[string]string)
	for _, j := range jobs {
		if _, ok := fingerprints[j.Trace]; !ok {
			fingerprints[j.Trace] = trace.Fingerprint(j.Records)
		}
	}

	runs := make([]Run, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, j := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := cache.New(j.Config)
			if err != nil {
				return err
			}
			run := Run{
				Trace:       j.Trace,
				Fingerprint: fingerprints[j.Trace],
				Name:        j.Config.Name(),
				Config:      j.Config,
				Result:      Replay(c, j.Records),
				Counters:    c.Counters(),
			}
			if len(policies) > 0 {
				run.Baselines, err = RunBaselines(j.Config, j.Records, policies)
				if err != nil {
					return err
				}
			}
			runs[i] = run
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return runs, nil
}
