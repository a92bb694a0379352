package obs

import (
	"math"
	"time"
)

// SurfaceVar is the name of the surface-level temperature variable.
const SurfaceVar = "surface"

// Row is one station-date observation: a position, the surface reading,
// and a reading per pressure level. Level values may be missing (NaN).
type Row struct {
	Date    time.Time
	Lon     float64
	Lat     float64
	Surface float64
	Levels  map[string]float64
}

// Table is the merged tabular dataset handed over by the ingestion
// collaborator. Rows are not required to be sorted.
type Table struct {
	Rows []Row
}

// Missing returns the sentinel used for absent numeric values.
func Missing() float64 {
	return math.NaN()
}

// IsMissing reports whether v is the missing-value sentinel.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// DateOf builds a canonical UTC-midnight date usable as a map key.
// All dates inside the pipeline must be constructed through this
// function (or normalized with Day) so that key equality holds.
func DateOf(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Day normalizes an arbitrary timestamp to its canonical UTC date.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return DateOf(t.Year(), t.Month(), t.Day())
}
