package obs

import (
	"sort"
	"time"
)

// PointSet is the sparse sample of one variable at one timestep:
// parallel coordinate/value slices with every missing value already
// filtered out.
type PointSet struct {
	Date   time.Time
	Lons   []float64
	Lats   []float64
	Values []float64
}

// Len returns the number of points in the set.
func (p PointSet) Len() int { return len(p.Values) }

// Series is the per-variable, date-ordered sequence of point sets,
// with a date index for direct lookup.
type Series struct {
	Variable string
	Sets     []PointSet

	byDate map[time.Time]int
}

// ByDate returns the point set for a date, if present.
func (s *Series) ByDate(d time.Time) (PointSet, bool) {
	i, ok := s.byDate[d]
	if !ok {
		return PointSet{}, false
	}
	return s.Sets[i], true
}

// Dates returns the dates of the series in ascending order.
func (s *Series) Dates() []time.Time {
	out := make([]time.Time, len(s.Sets))
	for i, set := range s.Sets {
		out[i] = set.Date
	}
	return out
}

// NewSeries builds a Series from point sets, sorting them by date.
func NewSeries(variable string, sets []PointSet) *Series {
	sort.Slice(sets, func(i, j int) bool { return sets[i].Date.Before(sets[j].Date) })
	s := &Series{Variable: variable, Sets: sets, byDate: make(map[time.Time]int, len(sets))}
	for i, set := range sets {
		s.byDate[set.Date] = i
	}
	return s
}

// ExtractPointSets converts aggregated rows into one Series per named
// variable. Rows whose value is missing for a variable are excluded
// from that variable's point set, and dates left with zero points are
// skipped for that variable. Dates are emitted in ascending order.
func ExtractPointSets(rows []AggregatedRow, variables []string) map[string]*Series {
	out := make(map[string]*Series, len(variables))
	for _, variable := range variables {
		byDate := make(map[time.Time]*PointSet)
		for _, row := range rows {
			v, ok := row.Values[variable]
			if !ok || IsMissing(v) {
				continue
			}
			set := byDate[row.Date]
			if set == nil {
				set = &PointSet{Date: row.Date}
				byDate[row.Date] = set
			}
			set.Lons = append(set.Lons, row.Lon)
			set.Lats = append(set.Lats, row.Lat)
			set.Values = append(set.Values, v)
		}

		sets := make([]PointSet, 0, len(byDate))
		for _, set := range byDate {
			sets = append(sets, *set)
		}
		out[variable] = NewSeries(variable, sets)
	}
	return out
}
