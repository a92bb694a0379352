package interp

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrDegenerateFit is returned when a point set cannot support an RBF
// fit (no points, or a singular kernel matrix from duplicate points).
var ErrDegenerateFit = errors.New("degenerate point set for RBF fit")

// RBF is a fitted radial-basis-function model over 2-D sample points.
// It is immutable after FitRBF and safe for concurrent evaluation.
type RBF struct {
	kernel  Kernel
	eps     float64
	lons    []float64
	lats    []float64
	weights []float64
}

// FitRBF solves for the kernel weights that make the model reproduce
// every sample value exactly at its sample position. The shape
// parameter defaults to the approximate average inter-node distance
// derived from the bounding box.
func FitRBF(lons, lats, values []float64, kernel Kernel) (*RBF, error) {
	n := len(values)
	if n == 0 {
		return nil, fmt.Errorf("%w: no points", ErrDegenerateFit)
	}
	if len(lons) != n || len(lats) != n {
		return nil, fmt.Errorf("rbf: mismatched lengths: %d lons, %d lats, %d values", len(lons), len(lats), n)
	}

	eps := defaultEpsilon(lons, lats)

	a := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			r := math.Hypot(lons[i]-lons[j], lats[i]-lats[j])
			a.SetSym(i, j, kernel.eval(r, eps))
		}
	}

	var lu mat.LU
	lu.Factorize(a)

	w := mat.NewVecDense(n, nil)
	b := mat.NewVecDense(n, nil)
	for i, v := range values {
		b.SetVec(i, v)
	}
	if err := lu.SolveVecTo(w, false, b); err != nil {
		// An ill-conditioned but solvable system still yields usable
		// weights; an exactly singular matrix (duplicate points) shows
		// up as an infinite condition number and fails the fit.
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return nil, fmt.Errorf("%w: singular kernel matrix (%d points)", ErrDegenerateFit, n)
		}
	}

	weights := make([]float64, n)
	for i := range weights {
		v := w.AtVec(i)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: non-finite weight from solve (%d points)", ErrDegenerateFit, n)
		}
		weights[i] = v
	}

	return &RBF{
		kernel:  kernel,
		eps:     eps,
		lons:    append([]float64(nil), lons...),
		lats:    append([]float64(nil), lats...),
		weights: weights,
	}, nil
}

// Eval returns the model value at an arbitrary coordinate. Positions
// outside the convex hull of the samples extrapolate without clamping.
func (m *RBF) Eval(lon, lat float64) float64 {
	var sum float64
	for i, w := range m.weights {
		r := math.Hypot(lon-m.lons[i], lat-m.lats[i])
		sum += w * m.kernel.eval(r, m.eps)
	}
	return sum
}

// defaultEpsilon estimates the average distance between nodes from the
// bounding box: (product of non-degenerate edge lengths / N)^(1/dims).
func defaultEpsilon(lons, lats []float64) float64 {
	lonMin, lonMax := minMax(lons)
	latMin, latMax := minMax(lats)

	prod := 1.0
	dims := 0
	if edge := lonMax - lonMin; edge > 0 {
		prod *= edge
		dims++
	}
	if edge := latMax - latMin; edge > 0 {
		prod *= edge
		dims++
	}
	if dims == 0 {
		// All points coincide; any positive shape parameter works.
		return 1
	}
	return math.Pow(prod/float64(len(lons)), 1/float64(dims))
}

func minMax(xs []float64) (min, max float64) {
	min, max = xs[0], xs[0]
	for _, x := range xs[1:] {
		if x < min {
			min = x
		}
		if x > max {
			max = x
		}
	}
	return min, max
}
