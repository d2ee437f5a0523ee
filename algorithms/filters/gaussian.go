package filters

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/capillary/algorithms/common"
)

// ErrInvalidInput is the shared validation error, see common.ErrInvalidInput
var ErrInvalidInput = common.ErrInvalidInput

// GaussianKernel returns a unit-sum Gaussian smoothing kernel covering
// ±3 sigma, int(6*sigma)+1 taps long
func GaussianKernel(sigma float64) ([]float64, error) {
	if !(sigma > 0) || math.IsInf(sigma, 0) {
		return nil, fmt.Errorf("gaussian kernel: sigma must be positive, got %g: %w", sigma, ErrInvalidInput)
	}

	size := int(6*sigma) + 1
	kernel := make([]float64, size)
	for i := range kernel {
		x := (float64(i) - 3*sigma) / sigma
		kernel[i] = math.Exp(-x * x / 2)
	}

	floats.Scale(1/floats.Sum(kernel), kernel)
	return kernel, nil
}

// Smooth convolves x with a Gaussian kernel of the given sigma
func Smooth(x []float64, sigma float64) ([]float64, error) {
	kernel, err := GaussianKernel(sigma)
	if err != nil {
		return nil, err
	}
	return Convolve(x, kernel)
}
