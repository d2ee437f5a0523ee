package stats

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/capillary/algorithms/common"
)

// ErrInvalidInput is the shared validation error, see common.ErrInvalidInput
var ErrInvalidInput = common.ErrInvalidInput

// HistogramStatistic selects what each bucket reports
type HistogramStatistic int

const (
	// Count reports the raw number of values in each bucket
	Count HistogramStatistic = iota

	// Density reports count / (total * width), so the bucket areas sum to 1
	Density
)

func (s HistogramStatistic) String() string {
	switch s {
	case Count:
		return "count"
	case Density:
		return "density"
	default:
		return "unknown"
	}
}

// MarshalText encodes the statistic by name in JSON and YAML output
func (s HistogramStatistic) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText
func (s *HistogramStatistic) UnmarshalText(text []byte) error {
	parsed, err := ParseHistogramStatistic(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseHistogramStatistic maps "count" or "density" to a HistogramStatistic
func ParseHistogramStatistic(name string) (HistogramStatistic, error) {
	switch name {
	case "", "count":
		return Count, nil
	case "density":
		return Density, nil
	default:
		return Count, fmt.Errorf("unknown histogram statistic %q: %w", name, ErrInvalidInput)
	}
}

// degenerateHalfWidth widens a zero-width range around a repeated value
const degenerateHalfWidth = 0.5

// HistogramOptions controls binning
type HistogramOptions struct {
	Statistic HistogramStatistic `json:"statistic"`

	// Range overrides the observed [min, max] when non-nil; values outside
	// it are ignored
	Range *[2]float64 `json:"range,omitempty"`
}

// HistogramResult holds an allocated histogram layout
type HistogramResult struct {
	Centers   []float64          `json:"centers"`   // Bucket centers, strictly increasing
	Values    []float64          `json:"values"`    // Bucket statistics
	Min       float64            `json:"min"`       // Lower edge of the first bucket
	Max       float64            `json:"max"`       // Upper edge of the last bucket
	Width     float64            `json:"width"`     // Bucket width
	Count     int                `json:"count"`     // Values that landed in a bucket
	Statistic HistogramStatistic `json:"statistic"` // Statistic reported in Values
}

// Histogram bins intervals into len(histX) equal-width buckets spanning the
// observed value range. Bucket centers are written to histX and raw counts to
// histV; both buffers must have the same non-zero length.
//
// Non-finite values are skipped. When every value is equal the range is
// widened to [v-0.5, v+0.5], or by a relative 1e-9 for very large v; a range
// too narrow to split into distinct buckets is widened the same way. With no
// values the range is [0, 1] and every count is zero. A single bucket over a
// span wider than math.MaxFloat64 is rejected with ErrInvalidInput.
func Histogram(intervals, histX, histV []float64) error {
	_, err := histogramInto(intervals, histX, histV, HistogramOptions{})
	return err
}

// HistogramWithOptions is Histogram with a configurable statistic and range
func HistogramWithOptions(intervals, histX, histV []float64, opts HistogramOptions) error {
	_, err := histogramInto(intervals, histX, histV, opts)
	return err
}

// Bin allocates and fills a histogram with nHist buckets
func Bin(intervals []float64, nHist int, opts HistogramOptions) (*HistogramResult, error) {
	if nHist <= 0 {
		return nil, fmt.Errorf("histogram: bucket count must be positive, got %d: %w", nHist, ErrInvalidInput)
	}

	result := &HistogramResult{
		Centers: make([]float64, nHist),
		Values:  make([]float64, nHist),
	}

	layout, err := histogramInto(intervals, result.Centers, result.Values, opts)
	if err != nil {
		return nil, err
	}

	result.Min = layout.min
	result.Max = layout.max
	result.Width = layout.width
	result.Count = layout.count
	result.Statistic = opts.Statistic

	return result, nil
}

type histogramLayout struct {
	min, max, width float64
	count           int
}

func histogramInto(intervals, histX, histV []float64, opts HistogramOptions) (histogramLayout, error) {
	nHist := len(histX)
	if nHist == 0 {
		return histogramLayout{}, fmt.Errorf("histogram: bucket count must be positive: %w", ErrInvalidInput)
	}
	if len(histV) != nHist {
		return histogramLayout{}, fmt.Errorf("histogram: output buffers differ in length (%d vs %d): %w",
			nHist, len(histV), ErrInvalidInput)
	}
	if opts.Statistic != Count && opts.Statistic != Density {
		return histogramLayout{}, fmt.Errorf("histogram: unknown statistic %d: %w", opts.Statistic, ErrInvalidInput)
	}

	values := common.Finite(intervals)

	lo, hi, width, err := binningRange(values, opts.Range, nHist)
	if err != nil {
		return histogramLayout{}, err
	}

	for i := range histX {
		histX[i] = bucketCenter(lo, hi, width, i, nHist)
		histV[i] = 0
	}

	counted := 0
	for _, v := range values {
		if v < lo || v > hi {
			continue
		}
		q := (v - lo) / width
		if math.IsInf(q, 0) {
			// v - lo overflowed
			q = v/width - lo/width
		}
		if math.IsNaN(q) {
			continue
		}
		// Top edge belongs to the last bucket
		idx := nHist - 1
		if q < float64(nHist) {
			idx = max(int(math.Floor(q)), 0)
		}
		histV[idx]++
		counted++
	}

	if opts.Statistic == Density && counted > 0 {
		total := float64(counted)
		for i := range histV {
			histV[i] = histV[i] / total / width
		}
	}

	return histogramLayout{min: lo, max: hi, width: width, count: counted}, nil
}

// bucketCenter returns the midpoint of bucket i, measured from whichever
// edge keeps the offset finite
func bucketCenter(lo, hi, width float64, i, nHist int) float64 {
	offset := (float64(i) + 0.5) * width
	if math.IsInf(offset, 0) {
		return hi - (float64(nHist-i)-0.5)*width
	}
	return lo + offset
}

// minNormal is the smallest positive normal float64; narrower buckets would
// overflow a density
const minNormal = 0x1p-1022

// bucketWidth splits [lo, hi] into nHist buckets without overflowing when the
// span exceeds math.MaxFloat64
func bucketWidth(lo, hi float64, nHist int) float64 {
	n := float64(nHist)
	width := (hi - lo) / n
	if math.IsInf(width, 0) {
		width = hi/n - lo/n
	}
	return width
}

// resolvable reports whether buckets of this width produce distinct,
// strictly increasing centers at the magnitude of the range
func resolvable(lo, hi, width float64) bool {
	if !(width >= minNormal) || math.IsInf(width, 0) {
		return false
	}
	m := math.Max(math.Abs(lo), math.Abs(hi))
	ulp := m - math.Nextafter(m, 0)
	return width > 64*ulp
}

// binningRange returns the [lo, hi] range to partition and its bucket width.
// An observed range too narrow to resolve into nHist buckets is widened
// around its midpoint like a single repeated value. A caller range that
// cannot be resolved, or a span that overflows a single bucket, is rejected.
func binningRange(values []float64, override *[2]float64, nHist int) (float64, float64, float64, error) {
	if override != nil {
		lo, hi := override[0], override[1]
		if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) || hi <= lo {
			return 0, 0, 0, fmt.Errorf("histogram: invalid range [%g, %g]: %w", lo, hi, ErrInvalidInput)
		}
		width := bucketWidth(lo, hi, nHist)
		if !resolvable(lo, hi, width) {
			return 0, 0, 0, fmt.Errorf("histogram: range [%g, %g] cannot be split into %d buckets: %w",
				lo, hi, nHist, ErrInvalidInput)
		}
		return lo, hi, width, nil
	}

	if len(values) == 0 {
		return 0, 1, 1 / float64(nHist), nil
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	if hi != lo {
		width := bucketWidth(lo, hi, nHist)
		if math.IsInf(width, 0) {
			return 0, 0, 0, fmt.Errorf("histogram: span [%g, %g] overflows a single bucket: %w",
				lo, hi, ErrInvalidInput)
		}
		if resolvable(lo, hi, width) {
			return lo, hi, width, nil
		}
	}

	mid := lo/2 + hi/2
	half := math.Max(degenerateHalfWidth, math.Abs(mid)*1e-9)
	lo = math.Max(mid-half, -math.MaxFloat64)
	hi = math.Min(mid+half, math.MaxFloat64)

	width := bucketWidth(lo, hi, nHist)
	if !resolvable(lo, hi, width) {
		return 0, 0, 0, fmt.Errorf("histogram: values near %g cannot be split into %d buckets: %w",
			mid, nHist, ErrInvalidInput)
	}
	return lo, hi, width, nil
}
