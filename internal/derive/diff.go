// Package derive builds the difference field ("surface" minus the
// altitude aggregate) in both sparse and dense representations. The
// two representations are computed from their own upstream structures
// so interpolation error never leaks into the sparse record.
package derive

import (
	"errors"
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/hadley-data/climate.report/internal/interp"
	"github.com/hadley-data/climate.report/internal/obs"
)

// ErrNoMatch is returned when the aggregate series lacks a date or an
// exact position present in the surface series. It indicates an
// upstream inconsistency between the two point sets.
var ErrNoMatch = errors.New("no matching aggregate sample")

// SparseDiff subtracts the aggregate value from the surface value at
// every (date, position) of the surface series. Positions must match
// exactly on the packed coordinate pair; there is no interpolation or
// default substitution.
func SparseDiff(surface, aggregate *obs.Series, outName string) (*obs.Series, error) {
	sets := make([]obs.PointSet, 0, len(surface.Sets))
	for _, surfSet := range surface.Sets {
		aggSet, ok := aggregate.ByDate(surfSet.Date)
		if !ok {
			return nil, fmt.Errorf("%w: date %s missing from %s series",
				ErrNoMatch, surfSet.Date.Format("2006-01-02"), aggregate.Variable)
		}

		aggAt := make(map[[2]float64]float64, aggSet.Len())
		for i := range aggSet.Values {
			aggAt[[2]float64{aggSet.Lons[i], aggSet.Lats[i]}] = aggSet.Values[i]
		}

		diff := obs.PointSet{
			Date:   surfSet.Date,
			Lons:   append([]float64(nil), surfSet.Lons...),
			Lats:   append([]float64(nil), surfSet.Lats...),
			Values: make([]float64, surfSet.Len()),
		}
		for i := range surfSet.Values {
			pos := [2]float64{surfSet.Lons[i], surfSet.Lats[i]}
			aggVal, ok := aggAt[pos]
			if !ok {
				return nil, fmt.Errorf("%w: position (%v, %v) on %s missing from %s series",
					ErrNoMatch, pos[0], pos[1], surfSet.Date.Format("2006-01-02"), aggregate.Variable)
			}
			diff.Values[i] = surfSet.Values[i] - aggVal
		}
		sets = append(sets, diff)
	}

	return obs.NewSeries(outName, sets), nil
}

// DenseDiff subtracts the aggregate grid from the surface grid
// elementwise for every date present in both collections.
func DenseDiff(surface, aggregate map[time.Time]*interp.Grid) map[time.Time]*interp.Grid {
	out := make(map[time.Time]*interp.Grid)
	for date, surfGrid := range surface {
		aggGrid, ok := aggregate[date]
		if !ok {
			continue
		}
		diff := interp.NewGrid()
		floats.SubTo(diff.Values, surfGrid.Values, aggGrid.Values)
		out[date] = diff
	}
	return out
}
