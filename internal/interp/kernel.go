package interp

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrUnknownKernel is returned when a kernel name does not resolve to
// one of the supported RBF variants.
var ErrUnknownKernel = errors.New("unknown RBF kernel")

// Kernel identifies one of the supported radial basis functions.
// The set is closed: configuration strings must resolve to one of
// these variants or fail fast.
type Kernel int

const (
	Multiquadric Kernel = iota
	InverseMultiquadric
	Gaussian
	Linear
	Cubic
	Quintic
	ThinPlate
)

var kernelNames = map[Kernel]string{
	Multiquadric:        "multiquadric",
	InverseMultiquadric: "inverse",
	Gaussian:            "gaussian",
	Linear:              "linear",
	Cubic:               "cubic",
	Quintic:             "quintic",
	ThinPlate:           "thin_plate",
}

func (k Kernel) String() string {
	if name, ok := kernelNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kernel(%d)", int(k))
}

// ParseKernel resolves a configuration string to a Kernel. Matching is
// case-insensitive and accepts both "thin_plate" and "thin-plate".
func ParseKernel(name string) (Kernel, error) {
	s := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for k, n := range kernelNames {
		if s == n {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKernel, name)
}

// eval computes the kernel value for distance r and shape parameter eps.
func (k Kernel) eval(r, eps float64) float64 {
	switch k {
	case Multiquadric:
		q := r / eps
		return math.Sqrt(q*q + 1)
	case InverseMultiquadric:
		q := r / eps
		return 1 / math.Sqrt(q*q+1)
	case Gaussian:
		q := r / eps
		return math.Exp(-q * q)
	case Linear:
		return r
	case Cubic:
		return r * r * r
	case Quintic:
		return r * r * r * r * r
	case ThinPlate:
		if r == 0 {
			return 0
		}
		return r * r * math.Log(r)
	default:
		panic(fmt.Sprintf("interp: eval on invalid kernel %d", int(k)))
	}
}
