package interp

import (
	"errors"
	"math"
	"testing"
)

func TestParseKernel(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expected  Kernel
		expectErr bool
	}{
		{"multiquadric", "multiquadric", Multiquadric, false},
		{"inverse", "inverse", InverseMultiquadric, false},
		{"gaussian", "gaussian", Gaussian, false},
		{"linear", "linear", Linear, false},
		{"cubic", "cubic", Cubic, false},
		{"quintic", "quintic", Quintic, false},
		{"thin_plate", "thin_plate", ThinPlate, false},
		{"thin_plate_hyphen", "thin-plate", ThinPlate, false},
		{"uppercase", "GAUSSIAN", Gaussian, false},
		{"whitespace", "  linear ", Linear, false},
		{"unknown", "bicubic", 0, true},
		{"empty", "", 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseKernel(tc.input)
			if tc.expectErr {
				if !errors.Is(err, ErrUnknownKernel) {
					t.Errorf("ParseKernel(%q) error = %v, want ErrUnknownKernel", tc.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseKernel(%q) unexpected error: %v", tc.input, err)
			}
			if got != tc.expected {
				t.Errorf("ParseKernel(%q) = %v, want %v", tc.input, got, tc.expected)
			}
		})
	}
}

func TestKernelEvalAtZero(t *testing.T) {
	// Value of each kernel at r=0 with eps=1.
	testCases := []struct {
		kernel   Kernel
		expected float64
	}{
		{Multiquadric, 1},
		{InverseMultiquadric, 1},
		{Gaussian, 1},
		{Linear, 0},
		{Cubic, 0},
		{Quintic, 0},
		{ThinPlate, 0},
	}
	for _, tc := range testCases {
		if got := tc.kernel.eval(0, 1); got != tc.expected {
			t.Errorf("%v.eval(0, 1) = %v, want %v", tc.kernel, got, tc.expected)
		}
	}
}

func TestKernelEvalFinite(t *testing.T) {
	for k := range kernelNames {
		for _, r := range []float64{0, 0.5, 1, 10, 500} {
			if v := k.eval(r, 2.5); math.IsNaN(v) || math.IsInf(v, 0) {
				t.Errorf("%v.eval(%v, 2.5) = %v, want finite", k, r, v)
			}
		}
	}
}
