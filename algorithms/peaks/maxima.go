package peaks

import (
	"fmt"
)

// FindLocalMaxima returns the indices i in [margin, len(x)-margin) where x[i]
// is positive and strictly greater than every sample within radius on both
// sides. Indices are returned in ascending order.
func FindLocalMaxima(x []float64, radius, margin int) ([]int, error) {
	if radius < 1 {
		return nil, fmt.Errorf("local maxima: radius must be positive, got %d: %w", radius, ErrInvalidInput)
	}
	if margin < radius {
		margin = radius
	}

	var maxima []int
	for i := margin; i < len(x)-margin; i++ {
		if x[i] <= 0 {
			continue
		}
		if isStrictMaximum(x, i, radius) {
			maxima = append(maxima, i)
		}
	}

	return maxima, nil
}

func isStrictMaximum(x []float64, i, radius int) bool {
	for j := i - radius; j <= i+radius; j++ {
		if j == i {
			continue
		}
		if !(x[i] > x[j]) {
			return false
		}
	}
	return true
}
