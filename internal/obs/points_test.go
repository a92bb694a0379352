package obs

import (
	"testing"
	"time"
)

func aggRow(date time.Time, lon, lat, surface, aloft float64) AggregatedRow {
	return AggregatedRow{
		Date: date,
		Lon:  lon,
		Lat:  lat,
		Values: map[string]float64{
			SurfaceVar: surface,
			"aloft":    aloft,
		},
	}
}

func TestExtractPointSetsFiltersMissing(t *testing.T) {
	d := DateOf(1990, time.January, 31)
	rows := []AggregatedRow{
		aggRow(d, 10, 20, 1, 5),
		aggRow(d, 30, 40, 2, Missing()),
		aggRow(d, 50, 60, Missing(), 6),
	}

	series := ExtractPointSets(rows, []string{SurfaceVar, "aloft"})

	surface, ok := series[SurfaceVar].ByDate(d)
	if !ok {
		t.Fatal("surface point set missing for date")
	}
	if surface.Len() != 2 {
		t.Errorf("surface has %d points, want 2", surface.Len())
	}
	for _, v := range surface.Values {
		if IsMissing(v) {
			t.Error("surface point set contains a missing value")
		}
	}

	aloft, ok := series["aloft"].ByDate(d)
	if !ok {
		t.Fatal("aloft point set missing for date")
	}
	if aloft.Len() != 2 {
		t.Errorf("aloft has %d points, want 2", aloft.Len())
	}
}

func TestExtractPointSetsSkipsEmptyDates(t *testing.T) {
	d1 := DateOf(1990, time.January, 31)
	d2 := DateOf(1990, time.February, 28)
	rows := []AggregatedRow{
		aggRow(d1, 10, 20, 1, 5),
		aggRow(d2, 10, 20, 2, Missing()), // aloft empty on d2
	}

	series := ExtractPointSets(rows, []string{SurfaceVar, "aloft"})

	if got := len(series[SurfaceVar].Sets); got != 2 {
		t.Errorf("surface has %d dates, want 2", got)
	}
	if got := len(series["aloft"].Sets); got != 1 {
		t.Errorf("aloft has %d dates, want 1", got)
	}
	if _, ok := series["aloft"].ByDate(d2); ok {
		t.Error("aloft should not contain the zero-point date")
	}
}

func TestExtractPointSetsDateOrdering(t *testing.T) {
	dates := []time.Time{
		DateOf(1992, time.March, 31),
		DateOf(1990, time.January, 31),
		DateOf(1991, time.June, 30),
	}
	var rows []AggregatedRow
	for _, d := range dates {
		rows = append(rows, aggRow(d, 0, 0, 1, 1))
	}

	series := ExtractPointSets(rows, []string{SurfaceVar})
	got := series[SurfaceVar].Dates()
	for i := 1; i < len(got); i++ {
		if !got[i-1].Before(got[i]) {
			t.Fatalf("dates out of order: %v", got)
		}
	}
}

func TestSeriesByDateMiss(t *testing.T) {
	series := NewSeries("surface", nil)
	if _, ok := series.ByDate(DateOf(1990, time.January, 31)); ok {
		t.Error("ByDate on empty series should miss")
	}
}
