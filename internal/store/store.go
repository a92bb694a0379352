// Package store persists pipeline outputs to SQLite: run metadata,
// the original sparse point sets, and the interpolated dense grids.
// File naming and schema are this package's concern alone; the
// pipeline core never sees them.
package store

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/hadley-data/climate.report/internal/interp"
	"github.com/hadley-data/climate.report/internal/obs"
)

const dateLayout = "2006-01-02"

// Store wraps the results database.
type Store struct {
	*sql.DB
}

// Open opens (creating if needed) a results database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id            TEXT PRIMARY KEY,
			method            TEXT,
			out_name          TEXT,
			start_year        BIGINT,
			pressure_levels   TEXT,
			created_at        TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS point_sets (
			run_id            TEXT,
			variable          TEXT,
			date              TEXT,
			lon               DOUBLE,
			lat               DOUBLE,
			value             DOUBLE,
			FOREIGN KEY(run_id) REFERENCES runs(run_id)
		);
		CREATE TABLE IF NOT EXISTS grids (
			run_id            TEXT,
			variable          TEXT,
			date              TEXT,
			width             BIGINT,
			height            BIGINT,
			cells             BLOB,
			FOREIGN KEY(run_id) REFERENCES runs(run_id)
		);
		CREATE INDEX IF NOT EXISTS idx_point_sets_lookup ON point_sets(run_id, variable, date);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_grids_lookup ON grids(run_id, variable, date);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db}, nil
}

// CreateRun records one pipeline invocation and returns its id.
func (s *Store) CreateRun(method, outName string, startYear int, pressureLevels string) (string, error) {
	runID := uuid.NewString()
	_, err := s.Exec(
		`INSERT INTO runs (run_id, method, out_name, start_year, pressure_levels) VALUES (?, ?, ?, ?, ?)`,
		runID, method, outName, startYear, pressureLevels,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return runID, nil
}

// SaveSeries writes every point of a sparse series under a run.
func (s *Store) SaveSeries(runID string, series *obs.Series) error {
	tx, err := s.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO point_sets (run_id, variable, date, lon, lat, value) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, set := range series.Sets {
		date := set.Date.Format(dateLayout)
		for i := range set.Values {
			if _, err := stmt.Exec(runID, series.Variable, date, set.Lons[i], set.Lats[i], set.Values[i]); err != nil {
				return fmt.Errorf("insert point (%s, %s): %w", series.Variable, date, err)
			}
		}
	}
	return tx.Commit()
}

// SaveGrids writes the dense grids of one variable under a run.
func (s *Store) SaveGrids(runID, variable string, grids map[time.Time]*interp.Grid) error {
	tx, err := s.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO grids (run_id, variable, date, width, height, cells) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, date := range sortedDates(grids) {
		g := grids[date]
		if _, err := stmt.Exec(runID, variable, date.Format(dateLayout),
			interp.GridWidth, interp.GridHeight, encodeCells(g.Values)); err != nil {
			return fmt.Errorf("insert grid (%s, %s): %w", variable, date.Format(dateLayout), err)
		}
	}
	return tx.Commit()
}

// LoadGrid reads back one grid.
func (s *Store) LoadGrid(runID, variable string, date time.Time) (*interp.Grid, error) {
	var width, height int
	var cells []byte
	err := s.QueryRow(
		`SELECT width, height, cells FROM grids WHERE run_id = ? AND variable = ? AND date = ?`,
		runID, variable, date.Format(dateLayout),
	).Scan(&width, &height, &cells)
	if err != nil {
		return nil, fmt.Errorf("load grid (%s, %s): %w", variable, date.Format(dateLayout), err)
	}
	if width != interp.GridWidth || height != interp.GridHeight {
		return nil, fmt.Errorf("load grid (%s, %s): unexpected shape %dx%d", variable, date.Format(dateLayout), width, height)
	}

	values, err := decodeCells(cells, width*height)
	if err != nil {
		return nil, fmt.Errorf("load grid (%s, %s): %w", variable, date.Format(dateLayout), err)
	}
	return &interp.Grid{Values: values}, nil
}

// LoadSeries reads back one variable's sparse point sets for a run.
func (s *Store) LoadSeries(runID, variable string) (*obs.Series, error) {
	rows, err := s.Query(
		`SELECT date, lon, lat, value FROM point_sets WHERE run_id = ? AND variable = ? ORDER BY date`,
		runID, variable,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byDate := make(map[time.Time]*obs.PointSet)
	for rows.Next() {
		var dateStr string
		var lon, lat, value float64
		if err := rows.Scan(&dateStr, &lon, &lat, &value); err != nil {
			return nil, err
		}
		date, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("stored date %q: %w", dateStr, err)
		}
		date = obs.Day(date)
		set := byDate[date]
		if set == nil {
			set = &obs.PointSet{Date: date}
			byDate[date] = set
		}
		set.Lons = append(set.Lons, lon)
		set.Lats = append(set.Lats, lat)
		set.Values = append(set.Values, value)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sets := make([]obs.PointSet, 0, len(byDate))
	for _, set := range byDate {
		sets = append(sets, *set)
	}
	return obs.NewSeries(variable, sets), nil
}

// encodeCells packs grid cells as little-endian float64 bytes.
func encodeCells(values []float64) []byte {
	buf := make([]byte, 8*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(v))
	}
	return buf
}

func decodeCells(buf []byte, n int) ([]float64, error) {
	if len(buf) != 8*n {
		return nil, fmt.Errorf("cell blob is %d bytes, want %d", len(buf), 8*n)
	}
	values := make([]float64, n)
	for i := range values {
		values[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[8*i:]))
	}
	return values, nil
}

func sortedDates(grids map[time.Time]*interp.Grid) []time.Time {
	dates := make([]time.Time, 0, len(grids))
	for d := range grids {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
