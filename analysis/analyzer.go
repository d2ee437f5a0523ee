package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/RyanBlaney/capillary/algorithms/common"
	"github.com/RyanBlaney/capillary/algorithms/filters"
	"github.com/RyanBlaney/capillary/algorithms/peaks"
	"github.com/RyanBlaney/capillary/algorithms/stats"
	"github.com/RyanBlaney/capillary/analysis/config"
	"github.com/RyanBlaney/capillary/logging"
)

// ErrNoWavelengths is returned by Statistics before any crest spacing has
// been measured
var ErrNoWavelengths = errors.New("no wavelengths measured")

// ProfileResult is the outcome of processing one intensity profile
type ProfileResult struct {
	Wave        []float64    `json:"wave"`        // Conditioned profile
	Peaks       []peaks.Peak `json:"peaks"`       // Refined crests
	Wavelengths []float64    `json:"wavelengths"` // Spacings between consecutive crests
}

// Percentiles holds streaming quantiles of the measured wavelengths
type Percentiles struct {
	P10 float64 `json:"p10"`
	P50 float64 `json:"p50"`
	P90 float64 `json:"p90"`
}

// WavelengthStatistics summarises every wavelength measured since the last Reset
type WavelengthStatistics struct {
	Histogram    *stats.HistogramResult `json:"histogram"`
	Smoothed     []float64              `json:"smoothed"`    // Histogram values after Gaussian smoothing
	PeakBucket   int                    `json:"peak_bucket"` // Argmax of Smoothed
	Wavelength   float64                `json:"wavelength"`  // Dominant wavelength in samples
	Summary      *stats.Summary         `json:"summary"`
	Percentiles  Percentiles            `json:"percentiles"`
	TensionRatio *float64               `json:"tension_ratio,omitempty"`
}

// Analyzer measures capillary wavelengths from intensity profiles taken
// across a wave field. Profiles are conditioned, their crests located to
// sub-sample precision, and crest spacings accumulated; Statistics then
// reports the dominant spacing.
//
// An Analyzer is not safe for concurrent use.
type Analyzer struct {
	config      *config.Config
	detector    *peaks.Detector
	bandpass    *filters.BandpassFilter
	convolver   *filters.Convolver
	histKernel  []float64
	statistic   stats.HistogramStatistic
	recorder    *stats.QuantileRecorder
	wavelengths []float64
	logger      logging.Logger
}

// NewAnalyzer creates an analyzer. A nil config uses config.DefaultConfig.
func NewAnalyzer(cfg *config.Config) (*Analyzer, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	detector, err := peaks.NewDetector(peaks.DetectorParams{
		Radius:    cfg.Peaks.Radius,
		Margin:    cfg.Peaks.Margin,
		HalfWidth: cfg.Peaks.HalfWidth,
	})
	if err != nil {
		return nil, err
	}

	bandpass, err := filters.NewBandpassFilter(cfg.Profile.TrendSigma, cfg.Profile.SmoothSigma)
	if err != nil {
		return nil, err
	}

	var histKernel []float64
	if cfg.Histogram.SmoothSigma > 0 {
		histKernel, err = filters.GaussianKernel(cfg.Histogram.SmoothSigma)
		if err != nil {
			return nil, err
		}
	}

	statistic, err := stats.ParseHistogramStatistic(cfg.Histogram.Statistic)
	if err != nil {
		return nil, err
	}

	recorder, err := stats.NewQuantileRecorder(cfg.Quantiles.MaxWavelength, cfg.Quantiles.Scale, cfg.Quantiles.SignificantDigits)
	if err != nil {
		return nil, err
	}

	return &Analyzer{
		config:     cfg,
		detector:   detector,
		bandpass:   bandpass,
		convolver:  filters.NewConvolver(filters.Auto),
		histKernel: histKernel,
		statistic:  statistic,
		recorder:   recorder,
		logger: logging.WithFields(logging.Fields{
			"component": "wavelength_analyzer",
		}),
	}, nil
}

// Reset discards all accumulated wavelengths
func (a *Analyzer) Reset() {
	a.wavelengths = a.wavelengths[:0]
	a.recorder.Reset()
}

// Wavelengths returns a copy of the accumulated wavelengths
func (a *Analyzer) Wavelengths() []float64 {
	out := make([]float64, len(a.wavelengths))
	copy(out, a.wavelengths)
	return out
}

// ConditionProfile trims, detrends, low-passes and optionally normalises a
// raw intensity profile
func (a *Analyzer) ConditionProfile(profile []float64) ([]float64, error) {
	for i, v := range profile {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("profile sample %d is not finite: %w", i, common.ErrInvalidInput)
		}
	}

	trim := a.config.Profile.TrimSamples
	if len(profile)-2*trim < a.bandpass.MinLength() {
		return nil, fmt.Errorf("profile of %d samples too short for trim %d and trend kernel of %d taps: %w",
			len(profile), trim, a.bandpass.MinLength(), common.ErrInvalidInput)
	}

	wave, err := a.bandpass.ProcessBuffer(profile[trim : len(profile)-trim])
	if err != nil {
		return nil, fmt.Errorf("failed to filter profile: %w", err)
	}

	if a.config.Profile.Normalize {
		wave = common.Normalize(wave)
	}
	return wave, nil
}

// ProcessProfile conditions a profile, locates its crests and accumulates
// the spacings between them
func (a *Analyzer) ProcessProfile(profile []float64) (*ProfileResult, error) {
	wave, err := a.ConditionProfile(profile)
	if err != nil {
		return nil, err
	}

	found, err := a.detector.Detect(wave)
	if err != nil {
		return nil, fmt.Errorf("failed to detect peaks: %w", err)
	}

	spacings := peaks.Spacings(peaks.Positions(found))
	for _, s := range spacings {
		if err := a.recorder.Record(s); err != nil {
			a.logger.Warn("Wavelength outside quantile recorder range", logging.Fields{
				"wavelength": s,
				"max":        a.config.Quantiles.MaxWavelength,
			})
		}
	}
	a.wavelengths = append(a.wavelengths, spacings...)

	a.logger.Debug("Profile processed", logging.Fields{
		"samples":     len(profile),
		"peaks":       len(found),
		"wavelengths": len(spacings),
		"accumulated": len(a.wavelengths),
	})

	return &ProfileResult{
		Wave:        wave,
		Peaks:       found,
		Wavelengths: spacings,
	}, nil
}

// Statistics bins the accumulated wavelengths, smooths the histogram and
// reports its mode as the dominant wavelength
func (a *Analyzer) Statistics() (*WavelengthStatistics, error) {
	if len(a.wavelengths) == 0 {
		return nil, ErrNoWavelengths
	}

	hist, err := stats.Bin(a.wavelengths, a.config.Histogram.Buckets, stats.HistogramOptions{
		Statistic: a.statistic,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to bin wavelengths: %w", err)
	}

	smoothed := hist.Values
	switch {
	case a.histKernel == nil:
	case len(a.histKernel) > len(hist.Values):
		a.logger.Warn("Histogram smoothing skipped, kernel wider than histogram", logging.Fields{
			"kernel":  len(a.histKernel),
			"buckets": len(hist.Values),
		})
	default:
		smoothed, err = a.convolver.Convolve(hist.Values, a.histKernel)
		if err != nil {
			return nil, fmt.Errorf("failed to smooth histogram: %w", err)
		}
	}

	peakBucket, err := common.Argmax(smoothed)
	if err != nil {
		return nil, fmt.Errorf("failed to locate histogram peak: %w", err)
	}

	wavelength := hist.Centers[peakBucket]
	if a.config.Histogram.RefineDominant {
		wavelength, err = a.refineDominant(hist, smoothed, peakBucket)
		if err != nil {
			return nil, err
		}
	}

	summary, err := stats.Summarize(a.wavelengths)
	if err != nil {
		return nil, fmt.Errorf("failed to summarise wavelengths: %w", err)
	}

	result := &WavelengthStatistics{
		Histogram:  hist,
		Smoothed:   smoothed,
		PeakBucket: peakBucket,
		Wavelength: wavelength,
		Summary:    summary,
		Percentiles: Percentiles{
			P10: a.recorder.ValueAtQuantile(0.10),
			P50: a.recorder.ValueAtQuantile(0.50),
			P90: a.recorder.ValueAtQuantile(0.90),
		},
	}

	tension := a.config.Tension
	if tension.Resolution > 0 && tension.Frequency > 0 {
		ratio, err := TensionRatio(wavelength, tension.Resolution, tension.Frequency, tension.Gravity)
		if err != nil {
			return nil, err
		}
		result.TensionRatio = &ratio
	}

	a.logger.Info("Wavelength statistics computed", logging.Fields{
		"wavelengths": len(a.wavelengths),
		"dominant":    wavelength,
		"mean":        summary.Mean,
		"std_dev":     summary.StdDev,
	})

	return result, nil
}

// refineDominant interpolates the histogram mode on a window of buckets
// around it and converts the sub-bucket offset to wavelength units
func (a *Analyzer) refineDominant(hist *stats.HistogramResult, smoothed []float64, peakBucket int) (float64, error) {
	halfWidth := a.config.Histogram.RefineHalfWidth
	lo := common.Clamp(peakBucket-halfWidth, 0, len(smoothed)-1)
	hi := common.Clamp(peakBucket+halfWidth, 0, len(smoothed)-1)

	if hi-lo+1 < 3 {
		return hist.Centers[peakBucket], nil
	}

	peak, err := peaks.RefineAt(smoothed[lo:hi+1], peakBucket-lo)
	if err != nil {
		return 0, fmt.Errorf("failed to refine dominant wavelength: %w", err)
	}

	offset := peak.Position - float64(peakBucket-lo)
	return hist.Centers[peakBucket] + offset*hist.Width, nil
}

// AnalyzeGroup resets the analyzer, processes every profile and returns the
// resulting statistics
func (a *Analyzer) AnalyzeGroup(profiles [][]float64) (*WavelengthStatistics, error) {
	a.Reset()

	for i, profile := range profiles {
		if _, err := a.ProcessProfile(profile); err != nil {
			a.logger.Error(err, "Failed to process profile", logging.Fields{
				"profile": i,
			})
			return nil, fmt.Errorf("profile %d: %w", i, err)
		}
	}

	return a.Statistics()
}
