package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config configures wavelength analysis end to end
type Config struct {
	Profile   ProfileConfig   `json:"profile" yaml:"profile"`
	Peaks     PeakConfig      `json:"peaks" yaml:"peaks"`
	Histogram HistogramConfig `json:"histogram" yaml:"histogram"`
	Quantiles QuantileConfig  `json:"quantiles" yaml:"quantiles"`
	Tension   TensionConfig   `json:"tension" yaml:"tension"`
}

// ProfileConfig controls conditioning of a raw intensity profile
type ProfileConfig struct {
	TrimSamples int     `json:"trim_samples" yaml:"trim_samples"` // Samples dropped at each end
	TrendSigma  float64 `json:"trend_sigma" yaml:"trend_sigma"`   // Gaussian sigma of the subtracted trend
	SmoothSigma float64 `json:"smooth_sigma" yaml:"smooth_sigma"` // Gaussian sigma of the low-pass
	Normalize   bool    `json:"normalize" yaml:"normalize"`       // Z-score the conditioned profile
}

// PeakConfig controls crest detection on a conditioned profile
type PeakConfig struct {
	Radius    int `json:"radius" yaml:"radius"`
	Margin    int `json:"margin" yaml:"margin"`
	HalfWidth int `json:"half_width" yaml:"half_width"`
}

// HistogramConfig controls the wavelength histogram
type HistogramConfig struct {
	Buckets         int     `json:"buckets" yaml:"buckets"`
	Statistic       string  `json:"statistic" yaml:"statistic"`       // "count" or "density"
	SmoothSigma     float64 `json:"smooth_sigma" yaml:"smooth_sigma"` // 0 disables smoothing
	RefineDominant  bool    `json:"refine_dominant" yaml:"refine_dominant"`
	RefineHalfWidth int     `json:"refine_half_width" yaml:"refine_half_width"` // Buckets on each side of the mode
}

// QuantileConfig controls the fixed-precision quantile recorder
type QuantileConfig struct {
	MaxWavelength     float64 `json:"max_wavelength" yaml:"max_wavelength"`
	Scale             float64 `json:"scale" yaml:"scale"`
	SignificantDigits int     `json:"significant_digits" yaml:"significant_digits"`
}

// TensionConfig holds the physical parameters of the measurement
type TensionConfig struct {
	Resolution float64 `json:"resolution" yaml:"resolution"` // Pixels per metre
	Frequency  float64 `json:"frequency" yaml:"frequency"`   // Excitation frequency in Hz
	Gravity    float64 `json:"gravity" yaml:"gravity"`       // m/s²
}

// DefaultConfig returns the parameters tuned for camera intensity profiles
func DefaultConfig() *Config {
	return &Config{
		Profile: ProfileConfig{
			TrimSamples: 5,
			TrendSigma:  20,
			SmoothSigma: 3,
			Normalize:   true,
		},
		Peaks: PeakConfig{
			Radius:    10,
			Margin:    20,
			HalfWidth: 10,
		},
		Histogram: HistogramConfig{
			Buckets:         200,
			Statistic:       "count",
			SmoothSigma:     5,
			RefineDominant:  false,
			RefineHalfWidth: 20,
		},
		Quantiles: QuantileConfig{
			MaxWavelength:     10000,
			Scale:             100,
			SignificantDigits: 3,
		},
		Tension: TensionConfig{
			Gravity: 9.8,
		},
	}
}

// LoadConfig reads a configuration file. The format is chosen by extension:
//   - .json -> JSON
//   - .yaml, .yml, or none -> YAML
//
// Missing keys keep their DefaultConfig values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses configuration bytes, using path only to pick the format
func ParseConfig(data []byte, path string) (*Config, error) {
	cfg := DefaultConfig()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", filepath.Ext(path))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every parameter is usable
func (c *Config) Validate() error {
	var problems []string

	if c.Profile.TrimSamples < 0 {
		problems = append(problems, "profile.trim_samples must not be negative")
	}
	if c.Profile.TrendSigma <= 0 {
		problems = append(problems, "profile.trend_sigma must be positive")
	}
	if c.Profile.SmoothSigma <= 0 {
		problems = append(problems, "profile.smooth_sigma must be positive")
	} else if c.Profile.TrendSigma <= c.Profile.SmoothSigma {
		problems = append(problems, "profile.trend_sigma must exceed profile.smooth_sigma")
	}
	if c.Peaks.Radius < 1 {
		problems = append(problems, "peaks.radius must be at least 1")
	}
	if c.Peaks.HalfWidth < 1 {
		problems = append(problems, "peaks.half_width must be at least 1")
	}
	if c.Peaks.Margin < 0 {
		problems = append(problems, "peaks.margin must not be negative")
	}
	if c.Histogram.Buckets < 1 {
		problems = append(problems, "histogram.buckets must be at least 1")
	}
	if c.Histogram.Statistic != "count" && c.Histogram.Statistic != "density" && c.Histogram.Statistic != "" {
		problems = append(problems, fmt.Sprintf("histogram.statistic %q must be count or density", c.Histogram.Statistic))
	}
	if c.Histogram.SmoothSigma < 0 {
		problems = append(problems, "histogram.smooth_sigma must not be negative")
	}
	if c.Histogram.RefineDominant && c.Histogram.RefineHalfWidth < 1 {
		problems = append(problems, "histogram.refine_half_width must be at least 1")
	}
	if c.Quantiles.MaxWavelength <= 0 || c.Quantiles.Scale <= 0 {
		problems = append(problems, "quantiles.max_wavelength and quantiles.scale must be positive")
	}
	if c.Quantiles.SignificantDigits < 1 || c.Quantiles.SignificantDigits > 5 {
		problems = append(problems, "quantiles.significant_digits must be between 1 and 5")
	}
	if c.Tension.Resolution < 0 || c.Tension.Frequency < 0 {
		problems = append(problems, "tension.resolution and tension.frequency must not be negative")
	}
	if c.Tension.Gravity <= 0 {
		problems = append(problems, "tension.gravity must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}
