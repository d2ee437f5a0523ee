package output

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/capillary/algorithms/peaks"
	"github.com/RyanBlaney/capillary/algorithms/stats"
	"github.com/RyanBlaney/capillary/analysis"
)

// histogramBarWidth is the length of the longest bar in text histograms
const histogramBarWidth = 40

// Formatter renders results as human-readable text
type Formatter struct {
	NoColor bool
	Scheme  *ColorScheme
}

// NewFormatter creates a text formatter
func NewFormatter(noColor bool) *Formatter {
	scheme := DefaultColorScheme()
	if noColor {
		scheme = NoColorScheme()
	}
	return &Formatter{
		NoColor: noColor,
		Scheme:  scheme,
	}
}

func (f *Formatter) field(buf *strings.Builder, label string, value any) {
	fmt.Fprintf(buf, "  %s %s\n", f.Scheme.Label.Sprintf("%-14s", label+":"), f.Scheme.Value.Sprint(value))
}

// FormatArgmax implements FormatProvider
func (f *Formatter) FormatArgmax(result ArgmaxResult) (string, error) {
	var buf strings.Builder
	buf.WriteString(f.Scheme.Title.Sprint("▶ ARGMAX") + "\n")
	f.field(&buf, "Index", f.Scheme.Highlight.Sprint(result.Index))
	f.field(&buf, "Value", fmt.Sprintf("%g", result.Value))
	return buf.String(), nil
}

// FormatPeak implements FormatProvider
func (f *Formatter) FormatPeak(peak peaks.Peak) (string, error) {
	var buf strings.Builder
	buf.WriteString(f.Scheme.Title.Sprint("▶ PEAK") + "\n")
	f.field(&buf, "Position", f.Scheme.Highlight.Sprintf("%.6f", peak.Position))
	f.field(&buf, "Index", peak.Index)
	f.field(&buf, "Value", fmt.Sprintf("%g", peak.Value))
	return buf.String(), nil
}

// FormatHistogram implements FormatProvider
func (f *Formatter) FormatHistogram(hist *stats.HistogramResult) (string, error) {
	var buf strings.Builder
	buf.WriteString(f.Scheme.Title.Sprint("▶ HISTOGRAM") + "\n")
	f.field(&buf, "Buckets", len(hist.Centers))
	f.field(&buf, "Range", fmt.Sprintf("[%g, %g]", hist.Min, hist.Max))
	f.field(&buf, "Width", fmt.Sprintf("%g", hist.Width))
	f.field(&buf, "Values", hist.Count)
	f.field(&buf, "Statistic", hist.Statistic)
	f.writeBars(&buf, hist.Centers, hist.Values)
	return buf.String(), nil
}

// writeBars draws one scaled bar per bucket
func (f *Formatter) writeBars(buf *strings.Builder, centers, values []float64) {
	if len(values) == 0 {
		return
	}

	peak := floats.Max(values)
	for i, center := range centers {
		length := 0
		if peak > 0 {
			length = int(values[i]/peak*histogramBarWidth + 0.5)
		}
		fmt.Fprintf(buf, "  %12.6g %10.4g %s\n", center, values[i], f.Scheme.Bar.Sprint(strings.Repeat("█", length)))
	}
}

// FormatStatistics implements FormatProvider
func (f *Formatter) FormatStatistics(result *analysis.WavelengthStatistics) (string, error) {
	var buf strings.Builder
	buf.WriteString(f.Scheme.Title.Sprint("▶ WAVELENGTH STATISTICS") + "\n")
	f.field(&buf, "Dominant", f.Scheme.Highlight.Sprintf("%.4f px", result.Wavelength))
	f.field(&buf, "Measurements", result.Summary.Count)
	f.field(&buf, "Mean", fmt.Sprintf("%.4f px", result.Summary.Mean))
	f.field(&buf, "Std dev", fmt.Sprintf("%.4f px", result.Summary.StdDev))
	f.field(&buf, "Range", fmt.Sprintf("[%.4f, %.4f] px", result.Summary.Min, result.Summary.Max))
	f.field(&buf, "Median", fmt.Sprintf("%.4f px", result.Summary.Quartiles.Q2))
	f.field(&buf, "P10/P50/P90", fmt.Sprintf("%.2f / %.2f / %.2f px",
		result.Percentiles.P10, result.Percentiles.P50, result.Percentiles.P90))

	if n := len(result.Summary.LowerOutliers) + len(result.Summary.UpperOutliers); n > 0 {
		fmt.Fprintf(&buf, "  %s %s\n", WarningIcon(f.NoColor), f.Scheme.Warning.Sprintf("%d outlying measurements", n))
	}

	if result.TensionRatio != nil {
		f.field(&buf, "Tension ratio", f.Scheme.Success.Sprintf("%.4f mN·m²/kg", *result.TensionRatio))
	}
	return buf.String(), nil
}
