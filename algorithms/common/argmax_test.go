package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgmax(t *testing.T) {
	tests := []struct {
		name     string
		input    []float64
		expected int
	}{
		{name: "single element", input: []float64{7}, expected: 0},
		{name: "ties resolve to first", input: []float64{1.0, 3.0, 3.0, 2.0}, expected: 1},
		{name: "max at end", input: []float64{-3, -2, -1}, expected: 2},
		{name: "all negative", input: []float64{-5, -1, -9}, expected: 1},
		{name: "nan skipped", input: []float64{math.NaN(), 2, math.NaN(), 1}, expected: 1},
		{name: "positive infinity wins", input: []float64{1, math.Inf(1), 3}, expected: 1},
		{name: "negative infinity only", input: []float64{math.Inf(-1), math.Inf(-1)}, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Argmax(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestArgmaxIsFirstMaximum(t *testing.T) {
	data := []float64{0.5, 2, -1, 2, 1.5, 0, 2, -4}
	idx, err := Argmax(data)
	require.NoError(t, err)

	for j, v := range data {
		assert.GreaterOrEqual(t, data[idx], v)
		if v == data[idx] {
			assert.LessOrEqual(t, idx, j)
		}
	}
}

func TestArgmaxInvalidInput(t *testing.T) {
	_, err := Argmax(nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Argmax([]float64{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Argmax([]float64{math.NaN(), math.NaN()})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestArgmaxRange(t *testing.T) {
	data := []float64{9, 1, 4, 2, 8}

	idx, err := ArgmaxRange(data, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, 2, idx)

	for _, bounds := range [][2]int{{-1, 3}, {0, 6}, {3, 3}, {4, 2}} {
		_, err := ArgmaxRange(data, bounds[0], bounds[1])
		assert.ErrorIs(t, err, ErrInvalidInput, "bounds %v", bounds)
	}
}
