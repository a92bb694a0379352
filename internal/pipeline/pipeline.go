// Package pipeline is the composition root of the gridding run: it
// wires aggregation, point extraction, tessellation, the job runner,
// and the derived difference field into one batch invocation. It
// imports from the stage packages (obs, interp, runner, derive);
// none of those packages import pipeline.
package pipeline

import (
	"fmt"
	"time"

	"github.com/hadley-data/climate.report/internal/derive"
	"github.com/hadley-data/climate.report/internal/interp"
	"github.com/hadley-data/climate.report/internal/obs"
	"github.com/hadley-data/climate.report/internal/runner"
)

// DiffVar is the name of the synthesized difference variable.
const DiffVar = "diff"

// Config holds one invocation's parameters. All fields are plain
// values with no side effects.
type Config struct {
	// PressureLevels are the level labels averaged into the aggregate
	// variable (e.g. "200mb", "150mb", "100mb", "70mb").
	PressureLevels []string

	// OutName names the synthesized altitude aggregate (e.g. "aloft").
	OutName string

	// StartYear drops all rows dated before January 1 of this year.
	StartYear int

	// Kernel is the RBF variant used for every interpolation job.
	Kernel interp.Kernel

	// Parallel, MaxWorkers and ChunkSize configure the job runner.
	Parallel   bool
	MaxWorkers int
	ChunkSize  int

	// Progress, when non-nil, receives per-variable job completion
	// counts. Purely a reporting side channel.
	Progress func(variable string, done, total int)
}

// Result carries the two output collections of a run: the original
// sparse point sets and the interpolated dense grids, each including
// the synthesized difference variable. Both are finalized before Run
// returns and are not mutated afterwards.
type Result struct {
	Sparse map[string]*obs.Series
	Grids  map[string]map[time.Time]*interp.Grid
}

// Run executes the full batch: aggregate altitude levels, extract
// per-date point sets, tessellate, interpolate every (variable, date)
// job, and derive the sparse and dense difference fields. Any job or
// matching failure aborts the invocation; only the designed-in skip of
// zero-point dates is silent.
func Run(table *obs.Table, cfg Config) (*Result, error) {
	if cfg.OutName == DiffVar {
		return nil, fmt.Errorf("aggregate variable name %q collides with the difference variable", DiffVar)
	}
	aggregated, err := obs.Aggregate(table, cfg.PressureLevels, cfg.OutName, cfg.StartYear)
	if err != nil {
		return nil, err
	}
	diagf("aggregated %d rows across %d pressure levels", len(aggregated), len(cfg.PressureLevels))

	variables := []string{obs.SurfaceVar, cfg.OutName}
	sparse := obs.ExtractPointSets(aggregated, variables)

	grids := make(map[string]map[time.Time]*interp.Grid, len(variables)+1)
	for _, variable := range variables {
		series := sparse[variable]
		jobs := buildJobs(series)
		diagf("interpolating %s: %d dates", variable, len(jobs))

		opts := runner.Options{
			Kernel:     cfg.Kernel,
			Parallel:   cfg.Parallel,
			MaxWorkers: cfg.MaxWorkers,
			ChunkSize:  cfg.ChunkSize,
		}
		if cfg.Progress != nil {
			opts.Progress = func(done, total int) { cfg.Progress(variable, done, total) }
		}

		result, err := runner.Run(variable, jobs, opts)
		if err != nil {
			opsf("batch failed: %v", err)
			return nil, err
		}
		grids[variable] = result
	}

	sparseDiff, err := derive.SparseDiff(sparse[obs.SurfaceVar], sparse[cfg.OutName], DiffVar)
	if err != nil {
		opsf("sparse diff failed: %v", err)
		return nil, fmt.Errorf("sparse diff: %w", err)
	}
	sparse[DiffVar] = sparseDiff
	grids[DiffVar] = derive.DenseDiff(grids[obs.SurfaceVar], grids[cfg.OutName])

	return &Result{Sparse: sparse, Grids: grids}, nil
}

// buildJobs tessellates each date's point set into one runner job.
// The tessellated superset is fitting input only; the sparse result
// collection keeps the original un-tessellated sets.
func buildJobs(series *obs.Series) []runner.Job {
	jobs := make([]runner.Job, 0, len(series.Sets))
	for _, set := range series.Sets {
		lons, lats, values := interp.Tessellate(set.Lons, set.Lats, set.Values)
		jobs = append(jobs, runner.Job{Date: set.Date, Lons: lons, Lats: lats, Values: values})
	}
	return jobs
}
