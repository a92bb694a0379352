package render

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/hadley-data/climate.report/internal/interp"
)

// defaultMaxReportPoints bounds the payload size of an HTML report.
const defaultMaxReportPoints = 8000

// viridis-like ramp for the visual map
var reportColors = []string{
	"#440154", "#482777", "#3e4989", "#31688e", "#26828e",
	"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
}

// WriteHTMLReport renders one grid as an interactive HTML scatter
// heatmap. Cells are downsampled by stride to stay within maxPoints
// (0 uses the default bound).
func WriteHTMLReport(w io.Writer, g *interp.Grid, title string, maxPoints int) error {
	if maxPoints <= 0 {
		maxPoints = defaultMaxReportPoints
	}

	total := interp.GridWidth * interp.GridHeight
	stride := 1
	if total > maxPoints {
		stride = int(math.Ceil(float64(total) / float64(maxPoints)))
	}

	data := make([]opts.ScatterData, 0, total/stride+1)
	minVal := math.Inf(1)
	maxVal := math.Inf(-1)
	for idx := 0; idx < total; idx += stride {
		ix := idx / interp.GridHeight
		iy := idx % interp.GridHeight
		v := g.At(ix, iy)
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
		data = append(data, opts.ScatterData{Value: []interface{}{
			interp.LonMin + ix, interp.LatMin + iy, v,
		}})
	}
	if minVal >= maxVal {
		minVal, maxVal = minVal-1, minVal+1
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Theme: "dark", Width: "1200px", Height: "650px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("points=%d stride=%d", len(data), stride)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: interp.LonMin, Max: interp.LonMin + interp.GridWidth, Name: "Longitude (°)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: interp.LatMin, Max: interp.LatMin + interp.GridHeight, Name: "Latitude (°)", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(minVal),
			Max:        float32(maxVal),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: reportColors},
		}),
	)

	scatter.AddSeries("field", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 3}))

	return scatter.Render(w)
}
