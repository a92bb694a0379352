// Package config loads and validates run options for the gridding
// pipeline. Options files are JSON with every field optional: fields
// omitted from the file keep their defaults, so partial configs are
// safe.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/hadley-data/climate.report/internal/interp"
	"github.com/hadley-data/climate.report/internal/obs"
)

// Defaults applied when a field is absent from the options file and
// not overridden on the command line.
const (
	DefaultPressureLevels = "200,150,100,70"
	DefaultOutName        = "aloft"
	DefaultStartYear      = 1965
	DefaultMethod         = "multiquadric"
	DefaultChunkSize      = 1
)

// Options is the root configuration for one pipeline invocation. All
// fields are pointers so a JSON file can override any subset.
type Options struct {
	// PressureLevels is a comma-separated list of level labels to
	// average; bare numbers get an "mb" suffix appended.
	PressureLevels *string `json:"pressure_levels,omitempty"`

	// OutName names the synthesized altitude aggregate variable.
	OutName *string `json:"out_name,omitempty"`

	// StartYear cuts off all rows dated before January 1 of the year.
	StartYear *int `json:"start_year,omitempty"`

	// Method selects the RBF kernel by name.
	Method *string `json:"method,omitempty"`

	// Parallel toggles the worker pool; MaxWorkers caps its size
	// (0 = one worker per CPU); ChunkSize batches jobs per dispatch.
	Parallel   *bool `json:"parallel,omitempty"`
	MaxWorkers *int  `json:"max_workers,omitempty"`
	ChunkSize  *int  `json:"chunk_size,omitempty"`

	// Progress toggles job-completion reporting on stderr.
	Progress *bool `json:"progress,omitempty"`
}

// Load reads an Options file from a JSON path.
func Load(path string) (*Options, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("options file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("read options file: %w", err)
	}

	opts := &Options{}
	if err := json.Unmarshal(data, opts); err != nil {
		return nil, fmt.Errorf("parse options JSON: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return opts, nil
}

// Validate checks every populated field. Unset fields are always valid
// because their defaults are.
func (o *Options) Validate() error {
	if o.PressureLevels != nil {
		if len(splitLevels(*o.PressureLevels)) == 0 {
			return fmt.Errorf("pressure_levels is empty")
		}
		for _, label := range splitLevels(*o.PressureLevels) {
			if _, err := obs.ParseLevel(label); err != nil {
				return err
			}
		}
	}
	if o.OutName != nil && *o.OutName == "" {
		return fmt.Errorf("out_name is empty")
	}
	if o.StartYear != nil && *o.StartYear <= 0 {
		return fmt.Errorf("start_year %d is not a valid year", *o.StartYear)
	}
	if o.Method != nil {
		if _, err := interp.ParseKernel(*o.Method); err != nil {
			return err
		}
	}
	if o.MaxWorkers != nil && *o.MaxWorkers < 0 {
		return fmt.Errorf("max_workers %d is negative", *o.MaxWorkers)
	}
	if o.ChunkSize != nil && *o.ChunkSize < 1 {
		return fmt.Errorf("chunk_size %d is below 1", *o.ChunkSize)
	}
	return nil
}

// GetPressureLevels returns the normalized level labels.
func (o *Options) GetPressureLevels() []string {
	spec := DefaultPressureLevels
	if o.PressureLevels != nil {
		spec = *o.PressureLevels
	}
	return splitLevels(spec)
}

// GetOutName returns the aggregate variable name.
func (o *Options) GetOutName() string {
	if o.OutName != nil {
		return *o.OutName
	}
	return DefaultOutName
}

// GetStartYear returns the start-year cutoff.
func (o *Options) GetStartYear() int {
	if o.StartYear != nil {
		return *o.StartYear
	}
	return DefaultStartYear
}

// GetKernel resolves the configured method name. Validate must have
// accepted the options first; an invalid stored name panics.
func (o *Options) GetKernel() interp.Kernel {
	method := DefaultMethod
	if o.Method != nil {
		method = *o.Method
	}
	k, err := interp.ParseKernel(method)
	if err != nil {
		panic(fmt.Sprintf("config: unvalidated kernel name %q", method))
	}
	return k
}

// GetParallel reports whether the worker pool is enabled (default on).
func (o *Options) GetParallel() bool {
	if o.Parallel != nil {
		return *o.Parallel
	}
	return true
}

// GetMaxWorkers returns the worker cap; zero means one per CPU.
func (o *Options) GetMaxWorkers() int {
	if o.MaxWorkers != nil {
		return *o.MaxWorkers
	}
	return 0
}

// EffectiveWorkers resolves the worker count that a run will use.
func (o *Options) EffectiveWorkers() int {
	if !o.GetParallel() {
		return 1
	}
	if n := o.GetMaxWorkers(); n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// GetChunkSize returns the per-dispatch job batch size.
func (o *Options) GetChunkSize() int {
	if o.ChunkSize != nil {
		return *o.ChunkSize
	}
	return DefaultChunkSize
}

// GetProgress reports whether progress output is enabled (default on).
func (o *Options) GetProgress() bool {
	if o.Progress != nil {
		return *o.Progress
	}
	return true
}

func splitLevels(spec string) []string {
	var out []string
	for _, part := range strings.Split(spec, ",") {
		if label := obs.NormalizeLevel(part); label != "" {
			out = append(out, label)
		}
	}
	return out
}
