package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hadley-data/climate.report/internal/interp"
)

func ptrString(v string) *string { return &v }
func ptrInt(v int) *int          { return &v }
func ptrBool(v bool) *bool       { return &v }

func TestDefaults(t *testing.T) {
	opts := &Options{}

	levels := opts.GetPressureLevels()
	want := []string{"200mb", "150mb", "100mb", "70mb"}
	if len(levels) != len(want) {
		t.Fatalf("default levels = %v, want %v", levels, want)
	}
	for i := range want {
		if levels[i] != want[i] {
			t.Errorf("level[%d] = %q, want %q", i, levels[i], want[i])
		}
	}

	if got := opts.GetOutName(); got != "aloft" {
		t.Errorf("out name = %q, want aloft", got)
	}
	if got := opts.GetStartYear(); got != 1965 {
		t.Errorf("start year = %d, want 1965", got)
	}
	if got := opts.GetKernel(); got != interp.Multiquadric {
		t.Errorf("kernel = %v, want multiquadric", got)
	}
	if !opts.GetParallel() {
		t.Error("parallelism should default on")
	}
	if got := opts.GetChunkSize(); got != 1 {
		t.Errorf("chunk size = %d, want 1", got)
	}
	if !opts.GetProgress() {
		t.Error("progress should default on")
	}
	if opts.EffectiveWorkers() < 1 {
		t.Error("effective workers below 1")
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name      string
		opts      Options
		expectErr bool
	}{
		{"empty", Options{}, false},
		{"good_levels", Options{PressureLevels: ptrString("500,300mb")}, false},
		{"bad_levels", Options{PressureLevels: ptrString("nope")}, true},
		{"empty_levels", Options{PressureLevels: ptrString("")}, true},
		{"empty_out_name", Options{OutName: ptrString("")}, true},
		{"bad_year", Options{StartYear: ptrInt(0)}, true},
		{"good_method", Options{Method: ptrString("gaussian")}, false},
		{"bad_method", Options{Method: ptrString("bilinear")}, true},
		{"negative_workers", Options{MaxWorkers: ptrInt(-1)}, true},
		{"parallel_off", Options{Parallel: ptrBool(false)}, false},
		{"zero_chunk", Options{ChunkSize: ptrInt(0)}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.opts.Validate()
			if tc.expectErr && err == nil {
				t.Error("expected validation error")
			}
			if !tc.expectErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "options.json")
	content := `{
		"pressure_levels": "500,300",
		"out_name": "upper",
		"start_year": 1980,
		"method": "thin_plate",
		"parallel": false,
		"chunk_size": 4
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	opts, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := opts.GetPressureLevels(); len(got) != 2 || got[0] != "500mb" || got[1] != "300mb" {
		t.Errorf("levels = %v, want [500mb 300mb]", got)
	}
	if got := opts.GetOutName(); got != "upper" {
		t.Errorf("out name = %q, want upper", got)
	}
	if got := opts.GetStartYear(); got != 1980 {
		t.Errorf("start year = %d, want 1980", got)
	}
	if got := opts.GetKernel(); got != interp.ThinPlate {
		t.Errorf("kernel = %v, want thin_plate", got)
	}
	if opts.GetParallel() {
		t.Error("parallel should be disabled")
	}
	if opts.EffectiveWorkers() != 1 {
		t.Errorf("effective workers = %d, want 1", opts.EffectiveWorkers())
	}
	if got := opts.GetChunkSize(); got != 4 {
		t.Errorf("chunk size = %d, want 4", got)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("wrong_extension", func(t *testing.T) {
		if _, err := Load(filepath.Join(dir, "options.yaml")); err == nil {
			t.Error("expected error for non-JSON extension")
		}
	})

	t.Run("missing_file", func(t *testing.T) {
		if _, err := Load(filepath.Join(dir, "absent.json")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("invalid_content", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		if err := os.WriteFile(path, []byte(`{"method": "bilinear"}`), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Error("expected validation error for unknown method")
		}
	})
}
