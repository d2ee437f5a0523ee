package filters

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestBandpassRemovesLinearTrend(t *testing.T) {
	bf, err := NewBandpassFilter(20, 3)
	require.NoError(t, err)

	ramp := make([]float64, 200)
	for i := range ramp {
		ramp[i] = 50 + 0.5*float64(i)
	}

	out, err := bf.ProcessBuffer(ramp)
	require.NoError(t, err)
	require.Len(t, out, len(ramp))

	// Away from the replicated edges the trend estimate is exact
	for i := 70; i < 130; i++ {
		assert.InDelta(t, 0.0, out[i], 1e-9, "index %d", i)
	}
}

func TestBandpassPassesWaveBand(t *testing.T) {
	bf, err := NewBandpassFilter(20, 3)
	require.NoError(t, err)

	wave := make([]float64, 300)
	for i := range wave {
		wave[i] = 10 + 2*math.Sin(2*math.Pi*float64(i)/25)
	}

	out, err := bf.ProcessBuffer(wave)
	require.NoError(t, err)

	interior := out[80:220]
	amplitude := (floats.Max(interior) - floats.Min(interior)) / 2
	assert.InDelta(t, 1.5, amplitude, 0.2)
	assert.InDelta(t, 0.0, floats.Sum(interior)/float64(len(interior)), 0.1)
}

func TestBandpassRemoveTrendOnly(t *testing.T) {
	bf, err := NewBandpassFilter(5, 1)
	require.NoError(t, err)

	constant := []float64{4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4}
	out, err := bf.RemoveTrend(constant)
	require.NoError(t, err)
	for _, v := range out {
		assert.InDelta(t, 0.0, v, 1e-12)
	}
}

func TestBandpassParameters(t *testing.T) {
	bf, err := NewBandpassFilter(20, 3)
	require.NoError(t, err)

	trend, smooth := bf.GetParameters()
	assert.Equal(t, 20.0, trend)
	assert.Equal(t, 3.0, smooth)
	assert.Equal(t, 121, bf.MinLength())
}

func TestBandpassInvalid(t *testing.T) {
	_, err := NewBandpassFilter(3, 3)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewBandpassFilter(5, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	bf, err := NewBandpassFilter(20, 3)
	require.NoError(t, err)
	_, err = bf.ProcessBuffer(make([]float64, 50))
	assert.ErrorIs(t, err, ErrInvalidInput)
}
