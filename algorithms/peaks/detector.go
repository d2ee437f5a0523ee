package peaks

import (
	"fmt"

	"github.com/RyanBlaney/capillary/logging"
)

// DetectorParams controls local-maximum search and per-peak refinement
type DetectorParams struct {
	Radius    int `json:"radius" yaml:"radius"`         // Samples on each side a maximum must dominate
	Margin    int `json:"margin" yaml:"margin"`         // Samples skipped at both signal edges
	HalfWidth int `json:"half_width" yaml:"half_width"` // Half-width of the refinement segment
}

// DefaultDetectorParams returns the parameters used for wave profiles
func DefaultDetectorParams() DetectorParams {
	return DetectorParams{
		Radius:    10,
		Margin:    20,
		HalfWidth: 10,
	}
}

// Detector finds peaks in a wave profile and refines each of them on a
// segment centred on the coarse maximum
type Detector struct {
	params DetectorParams
	logger logging.Logger
}

// NewDetector creates a new peak detector
func NewDetector(params DetectorParams) (*Detector, error) {
	if params.Radius < 1 {
		return nil, fmt.Errorf("peak detector: radius must be positive, got %d: %w", params.Radius, ErrInvalidInput)
	}
	if params.HalfWidth < 1 {
		return nil, fmt.Errorf("peak detector: half width must be positive, got %d: %w", params.HalfWidth, ErrInvalidInput)
	}

	// Every segment must fit inside the signal
	params.Margin = max(params.Margin, params.Radius, params.HalfWidth)

	return &Detector{
		params: params,
		logger: logging.WithFields(logging.Fields{
			"component": "peak_detector",
		}),
	}, nil
}

// Params returns the effective detector parameters
func (d *Detector) Params() DetectorParams {
	return d.params
}

// Detect returns the refined peaks of wave in ascending position order.
// Peaks whose refined position is not positive are dropped.
func (d *Detector) Detect(wave []float64) ([]Peak, error) {
	rough, err := FindLocalMaxima(wave, d.params.Radius, d.params.Margin)
	if err != nil {
		return nil, err
	}

	peaks := make([]Peak, 0, len(rough))
	for _, m := range rough {
		start := m - d.params.HalfWidth
		segment := wave[start : m+d.params.HalfWidth+1]

		refined, err := RefineAt(segment, m-start)
		if err != nil {
			return nil, err
		}

		refined.Index = m
		refined.Position += float64(start)
		if refined.Position <= 0 {
			continue
		}
		peaks = append(peaks, refined)
	}

	d.logger.Debug("Peaks detected", logging.Fields{
		"samples":      len(wave),
		"local_maxima": len(rough),
		"peaks":        len(peaks),
	})

	return peaks, nil
}

// Positions extracts the refined positions of peaks
func Positions(peaks []Peak) []float64 {
	positions := make([]float64, len(peaks))
	for i, p := range peaks {
		positions[i] = p.Position
	}
	return positions
}

// Spacings returns the distances between consecutive positions
func Spacings(positions []float64) []float64 {
	if len(positions) < 2 {
		return []float64{}
	}

	spacings := make([]float64, len(positions)-1)
	for i := 1; i < len(positions); i++ {
		spacings[i-1] = positions[i] - positions[i-1]
	}
	return spacings
}
