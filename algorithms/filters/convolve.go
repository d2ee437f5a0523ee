package filters

import (
	"fmt"

	"github.com/mjibson/go-dsp/fft"

	"github.com/RyanBlaney/capillary/algorithms/common"
)

// ConvolutionMethod selects how Convolver evaluates the sum
type ConvolutionMethod int

const (
	// Auto picks Direct for short kernels and FFT otherwise
	Auto ConvolutionMethod = iota

	// Direct evaluates the convolution sum sample by sample
	Direct

	// FFT multiplies spectra computed with mjibson/go-dsp
	FFT
)

// fftKernelThreshold is the kernel length from which Auto switches to FFT
const fftKernelThreshold = 64

// Convolver computes same-length convolutions with edge-replicated padding:
// len(k)/2 copies of the first sample are prepended and len(k)-1-len(k)/2
// copies of the last sample appended, so a centred kernel never sees zeros.
type Convolver struct {
	method ConvolutionMethod
}

// NewConvolver creates a convolver using the given method
func NewConvolver(method ConvolutionMethod) *Convolver {
	return &Convolver{method: method}
}

// Convolve convolves x with kernel k using automatic method selection
func Convolve(x, k []float64) ([]float64, error) {
	return NewConvolver(Auto).Convolve(x, k)
}

// Convolve returns a slice of len(x) holding x convolved with k.
// The signal must be at least as long as the kernel.
func (c *Convolver) Convolve(x, k []float64) ([]float64, error) {
	if len(k) == 0 {
		return nil, fmt.Errorf("convolve: empty kernel: %w", ErrInvalidInput)
	}
	if len(x) < len(k) {
		return nil, fmt.Errorf("convolve: signal of length %d shorter than kernel of length %d: %w",
			len(x), len(k), ErrInvalidInput)
	}

	padded := padEdges(x, len(k))

	switch c.resolve(len(k)) {
	case FFT:
		return convolveFFT(padded, k, len(x)), nil
	default:
		return convolveDirect(padded, k, len(x)), nil
	}
}

func (c *Convolver) resolve(kernelLen int) ConvolutionMethod {
	if c.method != Auto {
		return c.method
	}
	if kernelLen >= fftKernelThreshold {
		return FFT
	}
	return Direct
}

// padEdges replicates the edge samples of x around it for a kernel of size k
func padEdges(x []float64, k int) []float64 {
	front := k / 2
	back := k - 1 - front

	padded := make([]float64, 0, len(x)+k-1)
	for range front {
		padded = append(padded, x[0])
	}
	padded = append(padded, x...)
	for range back {
		padded = append(padded, x[len(x)-1])
	}
	return padded
}

func convolveDirect(padded, k []float64, n int) []float64 {
	last := len(k) - 1
	result := make([]float64, n)
	for i := range result {
		sum := 0.0
		for j := range k {
			sum += padded[i+j] * k[last-j]
		}
		result[i] = sum
	}
	return result
}

func convolveFFT(padded, k []float64, n int) []float64 {
	// Full linear convolution length, rounded up for a radix-2 transform
	size := common.NextPowerOfTwo(len(padded) + len(k) - 1)

	a := make([]float64, size)
	b := make([]float64, size)
	copy(a, padded)
	copy(b, k)

	// mjibson/go-dsp handles all sizes, power-of-two sizes are fastest
	spectrumA := fft.FFTReal(a)
	spectrumB := fft.FFTReal(b)
	for i := range spectrumA {
		spectrumA[i] *= spectrumB[i]
	}
	full := fft.IFFT(spectrumA)

	offset := len(k) - 1
	result := make([]float64, n)
	for i := range result {
		result[i] = real(full[i+offset])
	}
	return result
}
