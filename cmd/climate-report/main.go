// Command climate-report runs the station-to-grid batch pipeline: it
// reads a daily observation table, averages the configured pressure
// levels into an altitude aggregate, interpolates every variable onto
// the 1 degree global grid, derives the surface/aloft difference
// fields, and writes the results to a SQLite archive and plot files.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hadley-data/climate.report/internal/config"
	"github.com/hadley-data/climate.report/internal/ingest"
	"github.com/hadley-data/climate.report/internal/interp"
	"github.com/hadley-data/climate.report/internal/obs"
	"github.com/hadley-data/climate.report/internal/pipeline"
	"github.com/hadley-data/climate.report/internal/render"
	"github.com/hadley-data/climate.report/internal/store"
)

func main() {
	var (
		inputPath  = flag.String("input", "", "observation CSV file (required)")
		configPath = flag.String("config", "", "JSON options file")
		dbPath     = flag.String("db", "", "SQLite archive path (empty disables persistence)")
		plotDir    = flag.String("plots", "", "directory for PNG heatmaps and HTML reports (empty disables plotting)")

		levelsFlag   = flag.String("pressure-levels", "", "comma-separated pressure levels to average")
		outNameFlag  = flag.String("out-name", "", "name of the altitude aggregate variable")
		startYear    = flag.Int("start-year", 0, "drop rows dated before January 1 of this year")
		methodFlag   = flag.String("method", "", "RBF kernel name")
		parallelFlag = flag.Bool("parallel", true, "run interpolation jobs on a worker pool")
		maxWorkers   = flag.Int("max-workers", 0, "worker pool size (0 = one per CPU)")
		chunkSize    = flag.Int("chunk-size", 0, "jobs per worker dispatch")
		progressFlag = flag.Bool("progress", true, "report job completion counts on stderr")
		verbose      = flag.Bool("verbose", false, "enable diagnostic logging")
	)
	flag.Parse()

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -input is required")
		flag.Usage()
		os.Exit(1)
	}

	var diag io.Writer
	if *verbose {
		diag = os.Stderr
	}
	pipeline.SetLogWriters(os.Stderr, diag)

	opts := &config.Options{}
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load options: %v", err)
		}
		opts = loaded
	}
	applyFlagOverrides(opts, *levelsFlag, *outNameFlag, *startYear, *methodFlag, parallelFlag, *maxWorkers, *chunkSize, progressFlag)
	if err := opts.Validate(); err != nil {
		log.Fatalf("Invalid options: %v", err)
	}

	table, levels, err := ingest.ReadTable(*inputPath)
	if err != nil {
		log.Fatalf("Failed to read observations: %v", err)
	}
	fmt.Printf("Read %d rows (%d level columns) from %s\n", len(table.Rows), len(levels), *inputPath)

	cfg := pipeline.Config{
		PressureLevels: opts.GetPressureLevels(),
		OutName:        opts.GetOutName(),
		StartYear:      opts.GetStartYear(),
		Kernel:         opts.GetKernel(),
		Parallel:       opts.GetParallel(),
		MaxWorkers:     opts.GetMaxWorkers(),
		ChunkSize:      opts.GetChunkSize(),
	}
	if opts.GetProgress() {
		cfg.Progress = func(variable string, done, total int) {
			fmt.Fprintf(os.Stderr, "%s: %d/%d\n", variable, done, total)
		}
	}

	started := time.Now()
	result, err := pipeline.Run(table, cfg)
	if err != nil {
		log.Fatalf("Pipeline failed: %v", err)
	}
	fmt.Printf("Interpolated %d variables in %v\n", len(result.Grids), time.Since(started).Round(time.Millisecond))

	if *dbPath != "" {
		if err := persist(*dbPath, opts, result); err != nil {
			log.Fatalf("Failed to persist results: %v", err)
		}
	}
	if *plotDir != "" {
		if err := writePlots(*plotDir, result); err != nil {
			log.Fatalf("Failed to write plots: %v", err)
		}
	}
}

// applyFlagOverrides lays command-line values over the options file.
// Boolean flags only override when given explicitly so the file keeps
// authority over untouched toggles.
func applyFlagOverrides(opts *config.Options, levels, outName string, startYear int, method string, parallel *bool, maxWorkers, chunkSize int, progress *bool) {
	if levels != "" {
		opts.PressureLevels = &levels
	}
	if outName != "" {
		opts.OutName = &outName
	}
	if startYear != 0 {
		opts.StartYear = &startYear
	}
	if method != "" {
		opts.Method = &method
	}
	if maxWorkers != 0 {
		opts.MaxWorkers = &maxWorkers
	}
	if chunkSize != 0 {
		opts.ChunkSize = &chunkSize
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "parallel":
			opts.Parallel = parallel
		case "progress":
			opts.Progress = progress
		}
	})
}

func persist(path string, opts *config.Options, result *pipeline.Result) error {
	s, err := store.Open(path)
	if err != nil {
		return err
	}
	defer s.Close()

	runID, err := s.CreateRun(opts.GetKernel().String(), opts.GetOutName(), opts.GetStartYear(), strings.Join(opts.GetPressureLevels(), ","))
	if err != nil {
		return err
	}
	for _, series := range result.Sparse {
		if err := s.SaveSeries(runID, series); err != nil {
			return err
		}
	}
	for variable, grids := range result.Grids {
		if err := s.SaveGrids(runID, variable, grids); err != nil {
			return err
		}
	}
	fmt.Printf("Saved run %s to %s\n", runID, path)
	return nil
}

// writePlots renders one PNG heatmap and one HTML report per
// (variable, date) grid. Station overlays come from the matching
// sparse point set when one exists.
func writePlots(dir string, result *pipeline.Result) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for variable, grids := range result.Grids {
		series := result.Sparse[variable]
		for _, date := range sortedDates(grids) {
			var stations *obs.PointSet
			if series != nil {
				if ps, ok := series.ByDate(date); ok {
					stations = &ps
				}
			}
			title := fmt.Sprintf("%s %s", variable, date.Format("2006-01-02"))
			base := fmt.Sprintf("%s-%s", variable, date.Format("2006-01-02"))
			g := grids[date]

			if err := render.SaveHeatmapPNG(g, stations, title, filepath.Join(dir, base+".png")); err != nil {
				return fmt.Errorf("render %s: %w", base, err)
			}
			f, err := os.Create(filepath.Join(dir, base+".html"))
			if err != nil {
				return err
			}
			if err := render.WriteHTMLReport(f, g, title, 0); err != nil {
				f.Close()
				return fmt.Errorf("render %s: %w", base, err)
			}
			if err := f.Close(); err != nil {
				return err
			}
		}
	}
	return nil
}

func sortedDates(grids map[time.Time]*interp.Grid) []time.Time {
	dates := make([]time.Time, 0, len(grids))
	for date := range grids {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
