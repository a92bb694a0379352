package interp

// Tessellation bounds. Replicated copies falling outside this window
// are discarded, so a point keeps between 4 and 9 of its copies
// depending on which side of the origin it sits.
const (
	tessLonMin = -360.0
	tessLonMax = 360.0
	tessLatMin = -180.0
	tessLatMax = 180.0
)

// Tessellate expands a sparse point set into a periodic-boundary-safe
// superset: the set is shifted into [0,360]x[0,180], replicated across
// a 3x3 tile grid with offsets (360i, 180j), shifted back so the
// central copy re-aligns with the original domain, and filtered to
// [-360,360]x[-180,180]. Values are replicated along with positions.
//
// The latitude wrap is a translation, not a polar reflection. That is
// a known approximation of the original gridding behaviour; downstream
// outputs depend on it, so it must be preserved as-is.
func Tessellate(lons, lats, values []float64) (tLons, tLats, tValues []float64) {
	n := len(values)
	tLons = make([]float64, 0, 9*n)
	tLats = make([]float64, 0, 9*n)
	tValues = make([]float64, 0, 9*n)

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			dLon := float64(360*i) - (360 + 180) + 180
			dLat := float64(180*j) - (180 + 90) + 90
			for p := 0; p < n; p++ {
				lon := lons[p] + dLon
				lat := lats[p] + dLat
				if lon < tessLonMin || lon > tessLonMax || lat < tessLatMin || lat > tessLatMax {
					continue
				}
				tLons = append(tLons, lon)
				tLats = append(tLats, lat)
				tValues = append(tValues, values[p])
			}
		}
	}

	return tLons, tLats, tValues
}
