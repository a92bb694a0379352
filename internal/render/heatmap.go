// Package render produces static media from interpolated fields: PNG
// heatmaps with station overlays and self-contained HTML reports. It
// is a presentation adapter; nothing in the pipeline core depends on
// it.
package render

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/hadley-data/climate.report/internal/interp"
	"github.com/hadley-data/climate.report/internal/obs"
)

// fieldGrid adapts an interpolated grid to the plotter's grid
// interface. Columns are longitudes, rows are latitudes.
type fieldGrid struct {
	g *interp.Grid
}

func (f fieldGrid) Dims() (c, r int)   { return interp.GridWidth, interp.GridHeight }
func (f fieldGrid) Z(c, r int) float64 { return f.g.At(c, r) }
func (f fieldGrid) X(c int) float64    { return float64(interp.LonMin + c) }
func (f fieldGrid) Y(r int) float64    { return float64(interp.LatMin + r) }

// SaveHeatmapPNG renders one grid as a global heatmap, optionally
// overlaying the station positions that produced it, and writes a PNG.
func SaveHeatmapPNG(g *interp.Grid, stations *obs.PointSet, title, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Longitude (°)"
	p.Y.Label.Text = "Latitude (°)"

	data := fieldGrid{g: g}
	heatmap := plotter.NewHeatMap(data, moreland.SmoothBlueRed().Palette(255))
	p.Add(heatmap)

	if stations != nil && stations.Len() > 0 {
		pts := make(plotter.XYs, stations.Len())
		for i := range pts {
			pts[i] = plotter.XY{X: stations.Lons[i], Y: stations.Lats[i]}
		}
		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("station scatter: %w", err)
		}
		scatter.Radius = vg.Points(1.5)
		p.Add(scatter)
	}

	if err := p.Save(14*vg.Inch, 7*vg.Inch, path); err != nil {
		return fmt.Errorf("save heatmap: %w", err)
	}
	return nil
}
