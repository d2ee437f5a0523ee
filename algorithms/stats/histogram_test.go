package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistogramCounts(t *testing.T) {
	intervals := []float64{1, 2, 2, 3, 3, 3, 4}
	histX := make([]float64, 4)
	histV := make([]float64, 4)

	require.NoError(t, Histogram(intervals, histX, histV))

	assert.Equal(t, []float64{1, 2, 3, 1}, histV)
	assert.InDeltaSlice(t, []float64{1.375, 2.125, 2.875, 3.625}, histX, 1e-12)
}

func TestHistogramCountsSumToInput(t *testing.T) {
	intervals := []float64{0.3, 7.1, 2.2, 2.2, 5.9, 1.0, 6.4, 3.3, 0.3, 4.8, 7.1}

	for _, nHist := range []int{1, 2, 3, 7, 50} {
		histX := make([]float64, nHist)
		histV := make([]float64, nHist)
		require.NoError(t, Histogram(intervals, histX, histV))

		total := 0.0
		for _, v := range histV {
			total += v
		}
		assert.Equal(t, float64(len(intervals)), total, "n_hist=%d", nHist)
	}
}

func TestHistogramCentersEvenlySpaced(t *testing.T) {
	intervals := []float64{-2, 10, 3.5, 0}
	histX := make([]float64, 6)
	histV := make([]float64, 6)

	require.NoError(t, Histogram(intervals, histX, histV))

	width := (10.0 - -2.0) / 6
	for i := 1; i < len(histX); i++ {
		assert.Greater(t, histX[i], histX[i-1])
		assert.InDelta(t, width, histX[i]-histX[i-1], 1e-12)
	}
	assert.InDelta(t, -2+width/2, histX[0], 1e-12)
}

func TestHistogramTopEdgeGoesToLastBucket(t *testing.T) {
	histX := make([]float64, 3)
	histV := make([]float64, 3)

	require.NoError(t, Histogram([]float64{0, 3, 3}, histX, histV))
	assert.Equal(t, []float64{1, 0, 2}, histV)
}

func TestHistogramDegenerate(t *testing.T) {
	histX := make([]float64, 5)
	histV := make([]float64, 5)

	require.NoError(t, Histogram([]float64{4, 4, 4}, histX, histV))

	assert.InDeltaSlice(t, []float64{3.6, 3.8, 4.0, 4.2, 4.4}, histX, 1e-12)
	assert.Equal(t, []float64{0, 0, 3, 0, 0}, histV)
	for _, v := range append(histX, histV...) {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
	}
}

func TestHistogramDegenerateLargeValue(t *testing.T) {
	result, err := Bin([]float64{1e20, 1e20}, 4, HistogramOptions{})
	require.NoError(t, err)

	assert.Greater(t, result.Width, 0.0)
	assert.Equal(t, 2, result.Count)
	for i := 1; i < len(result.Centers); i++ {
		assert.Greater(t, result.Centers[i], result.Centers[i-1])
	}
}

func TestHistogramExtremeRanges(t *testing.T) {
	tests := []struct {
		name      string
		intervals []float64
		nHist     int
		rng       *[2]float64
		expected  []float64
	}{
		{
			name:      "span wider than MaxFloat64",
			intervals: []float64{-1e308, 0, 1e308},
			nHist:     4,
			expected:  []float64{1, 0, 1, 1},
		},
		{
			name:      "full float64 span",
			intervals: []float64{-math.MaxFloat64, math.MaxFloat64},
			nHist:     2,
			expected:  []float64{1, 1},
		},
		{
			name:      "caller range wider than MaxFloat64",
			intervals: []float64{-1e308, 0, 1e308},
			nHist:     4,
			rng:       &[2]float64{-1e308, 1e308},
			expected:  []float64{1, 0, 1, 1},
		},
		{
			name:      "subnormal span",
			intervals: []float64{0, math.SmallestNonzeroFloat64},
			nHist:     200,
		},
		{
			name:      "span of a few ulps",
			intervals: []float64{1, math.Nextafter(1, 2)},
			nHist:     200,
		},
		{
			name:      "repeated MaxFloat64",
			intervals: []float64{math.MaxFloat64, math.MaxFloat64},
			nHist:     8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Bin(tt.intervals, tt.nHist, HistogramOptions{Range: tt.rng})
			require.NoError(t, err)

			assert.Equal(t, len(tt.intervals), result.Count)
			if tt.expected != nil {
				assert.Equal(t, tt.expected, result.Values)
			}

			assert.Greater(t, result.Width, 0.0)
			assert.False(t, math.IsInf(result.Width, 0))
			for i, c := range result.Centers {
				assert.False(t, math.IsNaN(c) || math.IsInf(c, 0), "center %d", i)
				if i > 0 {
					assert.Greater(t, c, result.Centers[i-1], "center %d", i)
				}
			}
		})
	}
}

func TestHistogramExtremeRangeRejected(t *testing.T) {
	_, err := Bin([]float64{-1e308, 1e308}, 1, HistogramOptions{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Bin([]float64{1}, 200, HistogramOptions{Range: &[2]float64{0, math.SmallestNonzeroFloat64}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestHistogramEmptyInput(t *testing.T) {
	histX := make([]float64, 4)
	histV := []float64{9, 9, 9, 9}

	require.NoError(t, Histogram(nil, histX, histV))

	assert.Equal(t, []float64{0, 0, 0, 0}, histV)
	assert.InDeltaSlice(t, []float64{0.125, 0.375, 0.625, 0.875}, histX, 1e-12)
}

func TestHistogramSkipsNonFinite(t *testing.T) {
	intervals := []float64{1, math.NaN(), 2, math.Inf(1), math.Inf(-1), 3}

	result, err := Bin(intervals, 2, HistogramOptions{})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Count)
	assert.Equal(t, 1.0, result.Min)
	assert.Equal(t, 3.0, result.Max)
	assert.Equal(t, []float64{1, 2}, result.Values)
}

func TestHistogramDensity(t *testing.T) {
	intervals := []float64{1, 2, 2, 3, 3, 3, 4}

	result, err := Bin(intervals, 4, HistogramOptions{Statistic: Density})
	require.NoError(t, err)

	area := 0.0
	for _, v := range result.Values {
		area += v * result.Width
	}
	assert.InDelta(t, 1.0, area, 1e-12)
	assert.InDelta(t, 3.0/(7*0.75), result.Values[2], 1e-12)
	assert.Equal(t, Density, result.Statistic)
}

func TestHistogramCallerRange(t *testing.T) {
	rng := [2]float64{0, 10}
	result, err := Bin([]float64{-1, 0, 2.5, 5, 10, 11}, 4, HistogramOptions{Range: &rng})
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 1, 1, 1}, result.Values)
	assert.Equal(t, 4, result.Count)
	assert.InDeltaSlice(t, []float64{1.25, 3.75, 6.25, 8.75}, result.Centers, 1e-12)
}

func TestHistogramInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		histX []float64
		histV []float64
		opts  HistogramOptions
	}{
		{name: "no buckets", histX: []float64{}, histV: []float64{}},
		{name: "nil buffers", histX: nil, histV: nil},
		{name: "mismatched buffers", histX: make([]float64, 3), histV: make([]float64, 2)},
		{name: "unknown statistic", histX: make([]float64, 3), histV: make([]float64, 3), opts: HistogramOptions{Statistic: HistogramStatistic(9)}},
		{name: "inverted range", histX: make([]float64, 3), histV: make([]float64, 3), opts: HistogramOptions{Range: &[2]float64{5, 1}}},
		{name: "nan range", histX: make([]float64, 3), histV: make([]float64, 3), opts: HistogramOptions{Range: &[2]float64{math.NaN(), 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := HistogramWithOptions([]float64{1, 2, 3}, tt.histX, tt.histV, tt.opts)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	_, err := Bin([]float64{1}, 0, HistogramOptions{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Bin([]float64{1}, -3, HistogramOptions{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseHistogramStatistic(t *testing.T) {
	s, err := ParseHistogramStatistic("density")
	require.NoError(t, err)
	assert.Equal(t, Density, s)
	assert.Equal(t, "density", s.String())

	s, err = ParseHistogramStatistic("")
	require.NoError(t, err)
	assert.Equal(t, Count, s)

	_, err = ParseHistogramStatistic("median")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestHistogramStatisticText(t *testing.T) {
	for _, stat := range []HistogramStatistic{Count, Density} {
		text, err := stat.MarshalText()
		require.NoError(t, err)

		var parsed HistogramStatistic
		require.NoError(t, parsed.UnmarshalText(text))
		assert.Equal(t, stat, parsed)
	}

	var parsed HistogramStatistic
	assert.ErrorIs(t, parsed.UnmarshalText([]byte("median")), ErrInvalidInput)
}
