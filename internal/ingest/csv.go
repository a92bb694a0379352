// Package ingest loads the merged station/measurement table that the
// acquisition tooling produces. The pipeline core is agnostic to this
// format; ingest is the adapter between the on-disk CSV and obs.Table.
//
// Expected header: date,lon,lat,surface followed by one column per
// pressure level (e.g. 200mb,150mb,...). Empty cells are missing
// values. Rows need not be sorted.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/hadley-data/climate.report/internal/obs"
)

const dateLayout = "2006-01-02"

// fixed leading columns before the per-level columns
var baseColumns = []string{"date", "lon", "lat", "surface"}

// ReadTable loads a merged observation CSV. It returns the table and
// the pressure-level column names found in the header.
func ReadTable(path string) (*obs.Table, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open observations: %w", err)
	}
	defer f.Close()

	table, levels, err := readTable(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, levels, nil
}

func readTable(r io.Reader) (*obs.Table, []string, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) < len(baseColumns) {
		return nil, nil, fmt.Errorf("header has %d columns, need at least %d", len(header), len(baseColumns))
	}
	for i, want := range baseColumns {
		if header[i] != want {
			return nil, nil, fmt.Errorf("header column %d is %q, want %q", i, header[i], want)
		}
	}

	levels := make([]string, 0, len(header)-len(baseColumns))
	for _, label := range header[len(baseColumns):] {
		label = obs.NormalizeLevel(label)
		if _, err := obs.ParseLevel(label); err != nil {
			return nil, nil, fmt.Errorf("header: %w", err)
		}
		levels = append(levels, label)
	}

	table := &obs.Table{}
	line := 1
	for {
		line++
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", line, err)
		}

		date, err := time.Parse(dateLayout, record[0])
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", line, err)
		}
		lon, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: lon: %w", line, err)
		}
		lat, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: lat: %w", line, err)
		}
		surface, err := parseCell(record[3])
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: surface: %w", line, err)
		}

		row := obs.Row{
			Date:    obs.Day(date),
			Lon:     lon,
			Lat:     lat,
			Surface: surface,
			Levels:  make(map[string]float64, len(levels)),
		}
		for i, label := range levels {
			v, err := parseCell(record[len(baseColumns)+i])
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: %s: %w", line, label, err)
			}
			row.Levels[label] = v
		}
		table.Rows = append(table.Rows, row)
	}

	return table, levels, nil
}

// parseCell converts one numeric cell; an empty cell is missing.
func parseCell(s string) (float64, error) {
	if s == "" {
		return obs.Missing(), nil
	}
	return strconv.ParseFloat(s, 64)
}
