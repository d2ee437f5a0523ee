package filters

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// BandpassFilter isolates a band of spatial frequencies with two Gaussian
// stages: a wide Gaussian estimates the slowly varying trend, which is
// subtracted (high-pass), and a narrow Gaussian then suppresses sample noise
// (low-pass).
//
// Both stages use Convolve, so the output has the input's length and edges
// are handled by sample replication.
type BandpassFilter struct {
	trendSigma  float64 // High-pass cutoff, as a Gaussian sigma in samples
	smoothSigma float64 // Low-pass cutoff, as a Gaussian sigma in samples

	trendKernel  []float64
	smoothKernel []float64
	convolver    *Convolver
}

// NewBandpassFilter creates a band-pass filter from the two Gaussian widths.
// The trend must be wider than the smoothing kernel.
func NewBandpassFilter(trendSigma, smoothSigma float64) (*BandpassFilter, error) {
	if trendSigma <= smoothSigma {
		return nil, fmt.Errorf("bandpass: trend sigma %g must exceed smoothing sigma %g: %w",
			trendSigma, smoothSigma, ErrInvalidInput)
	}

	trendKernel, err := GaussianKernel(trendSigma)
	if err != nil {
		return nil, err
	}
	smoothKernel, err := GaussianKernel(smoothSigma)
	if err != nil {
		return nil, err
	}

	return &BandpassFilter{
		trendSigma:   trendSigma,
		smoothSigma:  smoothSigma,
		trendKernel:  trendKernel,
		smoothKernel: smoothKernel,
		convolver:    NewConvolver(Auto),
	}, nil
}

// MinLength returns the shortest input ProcessBuffer accepts
func (bf *BandpassFilter) MinLength() int {
	return len(bf.trendKernel)
}

// RemoveTrend applies only the high-pass stage
func (bf *BandpassFilter) RemoveTrend(input []float64) ([]float64, error) {
	trend, err := bf.convolver.Convolve(input, bf.trendKernel)
	if err != nil {
		return nil, fmt.Errorf("failed to estimate trend: %w", err)
	}

	highpass := make([]float64, len(input))
	floats.SubTo(highpass, input, trend)
	return highpass, nil
}

// ProcessBuffer filters a whole buffer
func (bf *BandpassFilter) ProcessBuffer(input []float64) ([]float64, error) {
	highpass, err := bf.RemoveTrend(input)
	if err != nil {
		return nil, err
	}

	output, err := bf.convolver.Convolve(highpass, bf.smoothKernel)
	if err != nil {
		return nil, fmt.Errorf("failed to smooth: %w", err)
	}
	return output, nil
}

// GetParameters returns the trend and smoothing sigmas
func (bf *BandpassFilter) GetParameters() (trendSigma, smoothSigma float64) {
	return bf.trendSigma, bf.smoothSigma
}
