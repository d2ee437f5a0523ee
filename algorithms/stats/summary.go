package stats

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/RyanBlaney/capillary/algorithms/common"
)

// QuartileInfo contains quartile-specific information
type QuartileInfo struct {
	Q1  float64 `json:"q1"`  // First quartile (25th percentile)
	Q2  float64 `json:"q2"`  // Second quartile (median)
	Q3  float64 `json:"q3"`  // Third quartile (75th percentile)
	IQR float64 `json:"iqr"` // Interquartile range (Q3 - Q1)
}

// Summary describes the distribution of a set of measurements
type Summary struct {
	Count     int          `json:"count"`
	Mean      float64      `json:"mean"`
	StdDev    float64      `json:"std_dev"` // Sample standard deviation
	Min       float64      `json:"min"`
	Max       float64      `json:"max"`
	Range     float64      `json:"range"`
	Quartiles QuartileInfo `json:"quartiles"`

	// Sample-adjusted shape moments, zero when too few distinct values
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"` // Excess kurtosis, 0 for a normal distribution

	LowerOutliers []float64 `json:"lower_outliers,omitempty"` // Values < Q1 - k*IQR
	UpperOutliers []float64 `json:"upper_outliers,omitempty"` // Values > Q3 + k*IQR
}

// Summarizer computes distribution summaries with Tukey outlier fences
//
// References:
//   - Tukey, J.W. (1977). "Exploratory Data Analysis"
//   - Hyndman, R.J., Fan, Y. (1996). "Sample Quantiles in Statistical Packages"
type Summarizer struct {
	outlierK float64
}

// NewSummarizer creates a summarizer with the conventional 1.5 IQR fences
func NewSummarizer() *Summarizer {
	return &Summarizer{outlierK: 1.5}
}

// NewSummarizerWithOutlierThreshold creates a summarizer with custom fences
func NewSummarizerWithOutlierThreshold(outlierK float64) *Summarizer {
	return &Summarizer{outlierK: outlierK}
}

// Summarize computes a Summary of the finite values in data
func (s *Summarizer) Summarize(data []float64) (*Summary, error) {
	values := common.Finite(data)
	if len(values) == 0 {
		return nil, fmt.Errorf("summary: no finite values: %w", ErrInvalidInput)
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean, std := stat.MeanStdDev(sorted, nil)
	if len(sorted) < 2 {
		std = 0
	}

	q1 := stat.Quantile(0.25, stat.Empirical, sorted, nil)
	q2 := stat.Quantile(0.50, stat.Empirical, sorted, nil)
	q3 := stat.Quantile(0.75, stat.Empirical, sorted, nil)
	iqr := q3 - q1

	summary := &Summary{
		Count:  len(sorted),
		Mean:   mean,
		StdDev: std,
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Range:  sorted[len(sorted)-1] - sorted[0],
		Quartiles: QuartileInfo{
			Q1:  q1,
			Q2:  q2,
			Q3:  q3,
			IQR: iqr,
		},
	}

	if std > 0 && len(sorted) >= 3 {
		summary.Skewness = stat.Skew(sorted, nil)
	}
	if std > 0 && len(sorted) >= 4 {
		summary.Kurtosis = stat.ExKurtosis(sorted, nil)
	}

	lowerBound := q1 - s.outlierK*iqr
	upperBound := q3 + s.outlierK*iqr
	for _, v := range sorted {
		if v < lowerBound {
			summary.LowerOutliers = append(summary.LowerOutliers, v)
		} else if v > upperBound {
			summary.UpperOutliers = append(summary.UpperOutliers, v)
		}
	}

	return summary, nil
}

// Summarize computes a Summary with the default outlier fences
func Summarize(data []float64) (*Summary, error) {
	return NewSummarizer().Summarize(data)
}
