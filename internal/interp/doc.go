// Package interp implements radial-basis-function gridding of sparse
// station samples: the closed set of RBF kernels, the periodic-boundary
// tessellation used to keep the planar interpolant continuous across
// the antimeridian, and evaluation onto the canonical 1-degree global
// grid.
package interp
