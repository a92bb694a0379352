package render

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hadley-data/climate.report/internal/interp"
	"github.com/hadley-data/climate.report/internal/obs"
)

func gradientGrid() *interp.Grid {
	g := interp.NewGrid()
	for ix := 0; ix < interp.GridWidth; ix++ {
		for iy := 0; iy < interp.GridHeight; iy++ {
			g.Set(ix, iy, float64(ix+iy))
		}
	}
	return g
}

func TestFieldGridMapping(t *testing.T) {
	g := gradientGrid()
	fg := fieldGrid{g: g}

	c, r := fg.Dims()
	if c != interp.GridWidth || r != interp.GridHeight {
		t.Fatalf("Dims() = (%d, %d), want (%d, %d)", c, r, interp.GridWidth, interp.GridHeight)
	}
	if got := fg.X(0); got != -180 {
		t.Errorf("X(0) = %v, want -180", got)
	}
	if got := fg.X(359); got != 179 {
		t.Errorf("X(359) = %v, want 179", got)
	}
	if got := fg.Y(0); got != -90 {
		t.Errorf("Y(0) = %v, want -90", got)
	}
	if got := fg.Y(179); got != 89 {
		t.Errorf("Y(179) = %v, want 89", got)
	}
	if got := fg.Z(10, 20); got != 30 {
		t.Errorf("Z(10, 20) = %v, want 30", got)
	}
}

func TestSaveHeatmapPNG(t *testing.T) {
	g := gradientGrid()
	stations := &obs.PointSet{
		Lons:   []float64{-120, 0, 140},
		Lats:   []float64{45, 0, -30},
		Values: []float64{1, 2, 3},
	}
	path := filepath.Join(t.TempDir(), "field.png")
	if err := SaveHeatmapPNG(g, stations, "surface 1996-01-01", path); err != nil {
		t.Fatalf("SaveHeatmapPNG: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("empty PNG written")
	}
}

func TestSaveHeatmapPNGNoStations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "field.png")
	if err := SaveHeatmapPNG(gradientGrid(), nil, "diff 1996-01-01", path); err != nil {
		t.Fatalf("SaveHeatmapPNG without stations: %v", err)
	}
}

func TestWriteHTMLReport(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteHTMLReport(&buf, gradientGrid(), "aloft 1996-01-01", 500); err != nil {
		t.Fatalf("WriteHTMLReport: %v", err)
	}
	html := buf.String()
	if !strings.Contains(html, "aloft 1996-01-01") {
		t.Error("report missing title")
	}
	if !strings.Contains(html, "visualMap") {
		t.Error("report missing visual map")
	}
	// 360*180 cells at a 500 point bound needs stride 130, 499 points.
	if !strings.Contains(html, "stride=130") {
		t.Error("report missing downsampling stride")
	}
}

func TestWriteHTMLReportDefaultBound(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteHTMLReport(&buf, gradientGrid(), "surface", 0); err != nil {
		t.Fatalf("WriteHTMLReport: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("empty report")
	}
}
