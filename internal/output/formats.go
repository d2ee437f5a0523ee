package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/capillary/algorithms/peaks"
	"github.com/RyanBlaney/capillary/algorithms/stats"
	"github.com/RyanBlaney/capillary/analysis"
)

// OutputFormat represents the available output formats
type OutputFormat string

const (
	// FormatText is the default human-readable text format
	FormatText OutputFormat = "text"
	// FormatJSON outputs indented JSON
	FormatJSON OutputFormat = "json"
	// FormatYAML outputs YAML
	FormatYAML OutputFormat = "yaml"
)

// ParseFormat maps a format name to an OutputFormat
func ParseFormat(name string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(name)) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected text, json or yaml)", name)
	}
}

// FormatProvider renders command results
type FormatProvider interface {
	FormatArgmax(result ArgmaxResult) (string, error)
	FormatPeak(peak peaks.Peak) (string, error)
	FormatHistogram(hist *stats.HistogramResult) (string, error)
	FormatStatistics(result *analysis.WavelengthStatistics) (string, error)
}

// ArgmaxResult is the outcome of the argmax command
type ArgmaxResult struct {
	Index int     `json:"index" yaml:"index"`
	Value float64 `json:"value" yaml:"value"`
}

// histogramBucket is one row of a histogram in structured output
type histogramBucket struct {
	Center float64 `json:"center" yaml:"center"`
	Value  float64 `json:"value" yaml:"value"`
}

type histogramData struct {
	Buckets   []histogramBucket `json:"buckets" yaml:"buckets"`
	Min       float64           `json:"min" yaml:"min"`
	Max       float64           `json:"max" yaml:"max"`
	Width     float64           `json:"width" yaml:"width"`
	Count     int               `json:"count" yaml:"count"`
	Statistic string            `json:"statistic" yaml:"statistic"`
}

type statisticsData struct {
	Wavelength   float64              `json:"wavelength" yaml:"wavelength"`
	PeakBucket   int                  `json:"peakBucket" yaml:"peakBucket"`
	Count        int                  `json:"count" yaml:"count"`
	Mean         float64              `json:"mean" yaml:"mean"`
	StdDev       float64              `json:"stdDev" yaml:"stdDev"`
	Min          float64              `json:"min" yaml:"min"`
	Max          float64              `json:"max" yaml:"max"`
	Median       float64              `json:"median" yaml:"median"`
	Percentiles  analysis.Percentiles `json:"percentiles" yaml:"percentiles"`
	TensionRatio *float64             `json:"tensionRatio,omitempty" yaml:"tensionRatio,omitempty"`
	Histogram    histogramData        `json:"histogram" yaml:"histogram"`
	Smoothed     []float64            `json:"smoothed" yaml:"smoothed"`
}

type peakData struct {
	Index    int     `json:"index" yaml:"index"`
	Position float64 `json:"position" yaml:"position"`
	Value    float64 `json:"value" yaml:"value"`
}

func newHistogramData(hist *stats.HistogramResult) histogramData {
	buckets := make([]histogramBucket, len(hist.Centers))
	for i := range hist.Centers {
		buckets[i] = histogramBucket{Center: hist.Centers[i], Value: hist.Values[i]}
	}
	return histogramData{
		Buckets:   buckets,
		Min:       hist.Min,
		Max:       hist.Max,
		Width:     hist.Width,
		Count:     hist.Count,
		Statistic: hist.Statistic.String(),
	}
}

func newStatisticsData(result *analysis.WavelengthStatistics) statisticsData {
	return statisticsData{
		Wavelength:   result.Wavelength,
		PeakBucket:   result.PeakBucket,
		Count:        result.Summary.Count,
		Mean:         result.Summary.Mean,
		StdDev:       result.Summary.StdDev,
		Min:          result.Summary.Min,
		Max:          result.Summary.Max,
		Median:       result.Summary.Quartiles.Q2,
		Percentiles:  result.Percentiles,
		TensionRatio: result.TensionRatio,
		Histogram:    newHistogramData(result.Histogram),
		Smoothed:     result.Smoothed,
	}
}

// JSONFormatter renders results as indented JSON
type JSONFormatter struct{}

func (f *JSONFormatter) encode(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode JSON: %w", err)
	}
	return string(data) + "\n", nil
}

// FormatArgmax implements FormatProvider
func (f *JSONFormatter) FormatArgmax(result ArgmaxResult) (string, error) {
	return f.encode(result)
}

// FormatPeak implements FormatProvider
func (f *JSONFormatter) FormatPeak(peak peaks.Peak) (string, error) {
	return f.encode(peakData(peak))
}

// FormatHistogram implements FormatProvider
func (f *JSONFormatter) FormatHistogram(hist *stats.HistogramResult) (string, error) {
	return f.encode(newHistogramData(hist))
}

// FormatStatistics implements FormatProvider
func (f *JSONFormatter) FormatStatistics(result *analysis.WavelengthStatistics) (string, error) {
	return f.encode(newStatisticsData(result))
}

// YAMLFormatter renders results as YAML
type YAMLFormatter struct{}

func (f *YAMLFormatter) encode(v any) (string, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode YAML: %w", err)
	}
	return string(data), nil
}

// FormatArgmax implements FormatProvider
func (f *YAMLFormatter) FormatArgmax(result ArgmaxResult) (string, error) {
	return f.encode(result)
}

// FormatPeak implements FormatProvider
func (f *YAMLFormatter) FormatPeak(peak peaks.Peak) (string, error) {
	return f.encode(peakData(peak))
}

// FormatHistogram implements FormatProvider
func (f *YAMLFormatter) FormatHistogram(hist *stats.HistogramResult) (string, error) {
	return f.encode(newHistogramData(hist))
}

// FormatStatistics implements FormatProvider
func (f *YAMLFormatter) FormatStatistics(result *analysis.WavelengthStatistics) (string, error) {
	return f.encode(newStatisticsData(result))
}

// GetFormatter returns a formatter for the given output format
func GetFormatter(format OutputFormat, noColor bool) FormatProvider {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return NewFormatter(noColor)
	}
}
