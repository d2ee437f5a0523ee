package stats

import (
	"fmt"
	"math"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// QuantileRecorder tracks the distribution of non-negative measurements in
// constant memory. Values are stored as fixed-point integers: a value v is
// recorded as round(v * scale).
//
// QuantileRecorder is not safe for concurrent use.
type QuantileRecorder struct {
	hist  *hdrhistogram.Histogram
	scale float64
}

// NewQuantileRecorder creates a recorder for values in [0, maxValue] with the
// given fixed-point scale and significant figures (1-5)
func NewQuantileRecorder(maxValue, scale float64, sigFigs int) (*QuantileRecorder, error) {
	if scale <= 0 || math.IsInf(scale, 0) || math.IsNaN(scale) {
		return nil, fmt.Errorf("quantile recorder: scale must be positive, got %g: %w", scale, ErrInvalidInput)
	}
	if sigFigs < 1 || sigFigs > 5 {
		return nil, fmt.Errorf("quantile recorder: significant figures must be in [1, 5], got %d: %w", sigFigs, ErrInvalidInput)
	}

	highest := maxValue * scale
	if !(highest >= 2) || highest > math.MaxInt64/2 {
		return nil, fmt.Errorf("quantile recorder: max value %g out of range for scale %g: %w", maxValue, scale, ErrInvalidInput)
	}

	return &QuantileRecorder{
		hist:  hdrhistogram.New(1, int64(highest), sigFigs),
		scale: scale,
	}, nil
}

// Record adds a measurement
func (r *QuantileRecorder) Record(v float64) error {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("quantile recorder: cannot record %g: %w", v, ErrInvalidInput)
	}
	if err := r.hist.RecordValue(int64(math.Round(v * r.scale))); err != nil {
		return fmt.Errorf("quantile recorder: %w", err)
	}
	return nil
}

// RecordAll adds every measurement, stopping at the first failure
func (r *QuantileRecorder) RecordAll(values []float64) error {
	for _, v := range values {
		if err := r.Record(v); err != nil {
			return err
		}
	}
	return nil
}

// ValueAtQuantile returns the value at quantile q in [0, 1]
func (r *QuantileRecorder) ValueAtQuantile(q float64) float64 {
	return float64(r.hist.ValueAtQuantile(q*100)) / r.scale
}

// Count returns the number of recorded measurements
func (r *QuantileRecorder) Count() int64 {
	return r.hist.TotalCount()
}

// Mean returns the mean of the recorded measurements
func (r *QuantileRecorder) Mean() float64 {
	return r.hist.Mean() / r.scale
}

// Reset discards all recorded measurements
func (r *QuantileRecorder) Reset() {
	r.hist.Reset()
}
