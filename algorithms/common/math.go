package common

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Basic statistical helpers shared by the analysis pipeline, backed by gonum

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// StandardDeviation calculates the sample standard deviation
func StandardDeviation(data []float64) float64 {
	if len(data) < 2 {
		return 0.0
	}
	return stat.StdDev(data, nil)
}

// Normalize normalizes data to zero mean and unit variance.
// Constant data is only mean-centred.
func Normalize(data []float64) []float64 {
	if len(data) == 0 {
		return data
	}

	mean := Mean(data)
	std := StandardDeviation(data)

	normalized := make([]float64, len(data))
	copy(normalized, data)
	floats.AddConst(-mean, normalized)

	if std < 1e-10 {
		return normalized
	}

	floats.Scale(1/std, normalized)
	return normalized
}

// Finite returns the finite elements of data in their original order.
// The input is returned unchanged when it holds no NaN or Inf values.
func Finite(data []float64) []float64 {
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out := make([]float64, i, len(data))
			copy(out, data[:i])
			for _, w := range data[i+1:] {
				if !math.IsNaN(w) && !math.IsInf(w, 0) {
					out = append(out, w)
				}
			}
			return out
		}
	}
	return data
}

// Clamp constrains a value to a range
func Clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// NextPowerOfTwo finds the next power of 2 >= n
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	power := 1
	for power < n {
		power <<= 1
	}
	return power
}
