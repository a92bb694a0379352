package interp

import "fmt"

// Canonical tile: the full globe at 1-degree resolution. Grid index
// (ix, iy) corresponds to longitude LonMin+ix, latitude LatMin+iy.
const (
	GridWidth  = 360
	GridHeight = 180
	LonMin     = -180
	LatMin     = -90
)

// Grid is one dense interpolated field over the canonical tile,
// stored row-major by longitude index.
type Grid struct {
	Values []float64
}

// NewGrid allocates a zeroed canonical-tile grid.
func NewGrid() *Grid {
	return &Grid{Values: make([]float64, GridWidth*GridHeight)}
}

// At returns the value at longitude index ix, latitude index iy.
func (g *Grid) At(ix, iy int) float64 {
	return g.Values[ix*GridHeight+iy]
}

// Set stores the value at longitude index ix, latitude index iy.
func (g *Grid) Set(ix, iy int, v float64) {
	g.Values[ix*GridHeight+iy] = v
}

// AtCoord returns the value at integer degree coordinates.
func (g *Grid) AtCoord(lon, lat int) float64 {
	return g.At(lon-LonMin, lat-LatMin)
}

// Interpolate fits an RBF model to a (typically tessellated) point set
// and evaluates it at every integer-degree coordinate of the canonical
// tile. The fit spans the extended domain populated by the tessellated
// copies; only the central tile survives the crop, so it is evaluated
// directly. Values outside the convex hull extrapolate unclamped.
func Interpolate(lons, lats, values []float64, kernel Kernel) (*Grid, error) {
	model, err := FitRBF(lons, lats, values, kernel)
	if err != nil {
		return nil, fmt.Errorf("fit %s RBF: %w", kernel, err)
	}

	g := NewGrid()
	for ix := 0; ix < GridWidth; ix++ {
		lon := float64(LonMin + ix)
		for iy := 0; iy < GridHeight; iy++ {
			g.Set(ix, iy, model.Eval(lon, float64(LatMin+iy)))
		}
	}
	return g, nil
}
