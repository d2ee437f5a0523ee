package common

import (
	"fmt"
	"math"
)

// Argmax returns the index of the largest element of data.
//
// Ties resolve to the lowest index. NaN elements are never selected; an empty
// or all-NaN slice returns ErrInvalidInput.
func Argmax(data []float64) (int, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("argmax: empty array: %w", ErrInvalidInput)
	}
	return ArgmaxRange(data, 0, len(data))
}

// ArgmaxRange returns the index of the largest element in data[lo:hi].
// The returned index is relative to data, not to the sub-range.
func ArgmaxRange(data []float64, lo, hi int) (int, error) {
	if lo < 0 || hi > len(data) || lo >= hi {
		return 0, fmt.Errorf("argmax: range [%d, %d) outside array of length %d: %w",
			lo, hi, len(data), ErrInvalidInput)
	}

	best := -1
	bestVal := math.Inf(-1)
	for i := lo; i < hi; i++ {
		v := data[i]
		if math.IsNaN(v) {
			continue
		}
		if best < 0 || v > bestVal {
			best = i
			bestVal = v
		}
	}

	if best < 0 {
		return 0, fmt.Errorf("argmax: no comparable values: %w", ErrInvalidInput)
	}
	return best, nil
}
