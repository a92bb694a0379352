// Package runner schedules per-date interpolation jobs, either
// sequentially or across a fixed-size worker pool. Results are keyed
// by date, so completion order never matters.
package runner

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hadley-data/climate.report/internal/interp"
)

// Job is one independent unit of interpolation work: the tessellated
// point set of a single (variable, date) pair. Jobs share no state.
type Job struct {
	Date   time.Time
	Lons   []float64
	Lats   []float64
	Values []float64
}

// Options controls how a batch of jobs executes.
type Options struct {
	// Kernel selects the RBF variant used for every job in the batch.
	Kernel interp.Kernel

	// Parallel enables the worker pool. When false, or when the
	// resolved worker count is 1, jobs run sequentially in date order
	// on the calling goroutine.
	Parallel bool

	// MaxWorkers caps the pool size. Zero means one worker per CPU.
	MaxWorkers int

	// ChunkSize batches this many jobs per dispatch to cut scheduling
	// overhead. It affects throughput and progress granularity only,
	// never results. Values below 1 behave as 1.
	ChunkSize int

	// Progress, when non-nil, is invoked after each completed job with
	// the running completion count and the batch total. It is a side
	// channel: disabling it must not change results. Calls are
	// serialized.
	Progress func(done, total int)
}

// workers resolves the effective pool size.
func (o Options) workers() int {
	if !o.Parallel {
		return 1
	}
	if o.MaxWorkers > 0 {
		return o.MaxWorkers
	}
	return runtime.NumCPU()
}

func (o Options) chunkSize() int {
	if o.ChunkSize < 1 {
		return 1
	}
	return o.ChunkSize
}

// Run interpolates every job of one variable and returns the dense
// grids keyed by date. The first job failure aborts the batch: no
// partial results are returned, no jobs are retried, and the error
// names the originating variable and date. The pool is released before
// Run returns on every path.
func Run(variable string, jobs []Job, opts Options) (map[time.Time]*interp.Grid, error) {
	if opts.workers() <= 1 {
		return runSequential(variable, jobs, opts)
	}
	return runParallel(variable, jobs, opts)
}

func runSequential(variable string, jobs []Job, opts Options) (map[time.Time]*interp.Grid, error) {
	results := make(map[time.Time]*interp.Grid, len(jobs))
	for i, job := range jobs {
		g, err := runJob(variable, job, opts.Kernel)
		if err != nil {
			return nil, err
		}
		results[job.Date] = g
		if opts.Progress != nil {
			opts.Progress(i+1, len(jobs))
		}
	}
	return results, nil
}

func runParallel(variable string, jobs []Job, opts Options) (map[time.Time]*interp.Grid, error) {
	var g errgroup.Group
	g.SetLimit(opts.workers())

	var mu sync.Mutex
	results := make(map[time.Time]*interp.Grid, len(jobs))
	done := 0

	size := opts.chunkSize()
	for start := 0; start < len(jobs); start += size {
		chunk := jobs[start:min(start+size, len(jobs))]
		g.Go(func() error {
			for _, job := range chunk {
				grid, err := runJob(variable, job, opts.Kernel)
				if err != nil {
					return err
				}
				mu.Lock()
				results[job.Date] = grid
				done++
				if opts.Progress != nil {
					opts.Progress(done, len(jobs))
				}
				mu.Unlock()
			}
			return nil
		})
	}

	// Wait releases the pool on success and failure alike. Jobs
	// already dispatched are never cancelled mid-flight.
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func runJob(variable string, job Job, kernel interp.Kernel) (*interp.Grid, error) {
	grid, err := interp.Interpolate(job.Lons, job.Lats, job.Values, kernel)
	if err != nil {
		return nil, fmt.Errorf("interpolate %s %s: %w", variable, job.Date.Format("2006-01-02"), err)
	}
	return grid, nil
}
