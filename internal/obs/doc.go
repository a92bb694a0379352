// Package obs owns the observation data model for the gridding pipeline:
// station rows, altitude-weighted aggregation, and sparse point set
// extraction.
//
// Missing numeric values are represented as NaN throughout. Packages
// downstream of obs (interp, runner, derive) never see a NaN value:
// extraction filters them out before building point sets.
package obs
