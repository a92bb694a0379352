package obs

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// AggregatedRow is a station-date record reduced to named scalar
// variables: the surface reading plus the synthesized altitude
// aggregate. Values may be NaN when the source data was missing.
type AggregatedRow struct {
	Date   time.Time
	Lon    float64
	Lat    float64
	Values map[string]float64
}

// ParseLevel extracts the numeric pressure in hPa from a level label
// such as "200mb". The label format is digits followed by a two-letter
// unit suffix.
func ParseLevel(label string) (float64, error) {
	if len(label) <= 2 {
		return 0, fmt.Errorf("pressure level label %q too short", label)
	}
	digits := label[:len(label)-2]
	unit := label[len(label)-2:]
	if unit != "mb" {
		return 0, fmt.Errorf("pressure level label %q: unsupported unit %q", label, unit)
	}
	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0, fmt.Errorf("pressure level label %q: %w", label, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("pressure level label %q: non-positive pressure", label)
	}
	return v, nil
}

// NormalizeLevel lowercases a level spec and appends the "mb" suffix if
// the user supplied a bare number (e.g. "200" -> "200mb").
func NormalizeLevel(spec string) string {
	s := strings.ToLower(strings.TrimSpace(spec))
	if s == "" {
		return s
	}
	if !strings.HasSuffix(s, "mb") {
		s += "mb"
	}
	return s
}

// Aggregate reduces the per-level readings of every row to a single
// scalar named outName: the ln(pressure)-weighted mean of the levels
// present in that row, with weights renormalized per row so partial
// missingness does not bias the mean. A row with no level present gets
// a NaN aggregate. Rows dated before startYear are dropped entirely.
//
// The returned rows carry two variables: SurfaceVar and outName.
func Aggregate(t *Table, levels []string, outName string, startYear int) ([]AggregatedRow, error) {
	if outName == "" {
		return nil, fmt.Errorf("aggregate: empty output variable name")
	}
	if outName == SurfaceVar {
		return nil, fmt.Errorf("aggregate: output variable name %q collides with the surface variable", outName)
	}
	if len(levels) == 0 {
		return nil, fmt.Errorf("aggregate: no pressure levels given")
	}

	logWeights := make([]float64, len(levels))
	for i, label := range levels {
		hpa, err := ParseLevel(label)
		if err != nil {
			return nil, fmt.Errorf("aggregate: %w", err)
		}
		logWeights[i] = math.Log(hpa)
	}

	cutoff := DateOf(startYear, time.January, 1)
	out := make([]AggregatedRow, 0, len(t.Rows))
	for _, row := range t.Rows {
		if row.Date.Before(cutoff) {
			continue
		}

		var weightSum, valueSum float64
		present := 0
		for i, label := range levels {
			v, ok := row.Levels[label]
			if !ok || IsMissing(v) {
				continue
			}
			weightSum += logWeights[i]
			valueSum += logWeights[i] * v
			present++
		}

		aloft := Missing()
		if present > 0 {
			aloft = valueSum / weightSum
		}

		out = append(out, AggregatedRow{
			Date: Day(row.Date),
			Lon:  row.Lon,
			Lat:  row.Lat,
			Values: map[string]float64{
				SurfaceVar: row.Surface,
				outName:    aloft,
			},
		})
	}

	return out, nil
}
