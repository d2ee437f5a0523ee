package peaks

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/capillary/algorithms/common"
)

// ErrInvalidInput is the shared validation error, see common.ErrInvalidInput
var ErrInvalidInput = common.ErrInvalidInput

// minRefineSamples is the smallest signal a parabola can be fitted through
const minRefineSamples = 3

// flatnessEpsilon guards the parabolic fit against a zero curvature
const flatnessEpsilon = 1e-12

// Peak represents a detected peak in a sampled signal
type Peak struct {
	Index    int     `json:"index"`    // Coarse sample index
	Position float64 `json:"position"` // Refined position in sample units
	Value    float64 `json:"value"`    // Interpolated height at Position
}

// Refine locates the dominant peak of y and refines its position to
// sub-sample precision with a parabolic fit through the peak sample and its
// two neighbours.
//
// A peak on the first or last sample cannot be interpolated and is returned
// unrefined as its integer index.
func Refine(y []float64) (float64, error) {
	if len(y) < minRefineSamples {
		return 0, fmt.Errorf("peak refinement: insufficient samples for refinement (%d < %d): %w",
			len(y), minRefineSamples, ErrInvalidInput)
	}

	idx, err := common.Argmax(y)
	if err != nil {
		return 0, fmt.Errorf("peak refinement: %w", err)
	}

	peak, err := RefineAt(y, idx)
	if err != nil {
		return 0, err
	}
	return peak.Position, nil
}

// RefineAt refines a known coarse peak index of y
func RefineAt(y []float64, idx int) (Peak, error) {
	if len(y) < minRefineSamples {
		return Peak{}, fmt.Errorf("peak refinement: insufficient samples for refinement (%d < %d): %w",
			len(y), minRefineSamples, ErrInvalidInput)
	}
	if idx < 0 || idx >= len(y) {
		return Peak{}, fmt.Errorf("peak refinement: index %d outside signal of length %d: %w",
			idx, len(y), ErrInvalidInput)
	}

	peak := Peak{
		Index:    idx,
		Position: float64(idx),
		Value:    y[idx],
	}

	// No neighbour on one side, no extrapolation
	if idx == 0 || idx == len(y)-1 {
		return peak, nil
	}

	y1 := y[idx-1]
	y2 := y[idx]
	y3 := y[idx+1]

	// A non-finite neighbour leaves no parabola to fit
	if !isFinite(y1) || !isFinite(y2) || !isFinite(y3) {
		return peak, nil
	}

	curvature := y1 - 2.0*y2 + y3
	if math.Abs(curvature) < flatnessEpsilon || !isFinite(curvature) {
		return peak, nil
	}

	offset := 0.5 * (y1 - y3) / curvature
	if !isFinite(offset) {
		return peak, nil
	}

	// Vertex of the fitted parabola
	a := 0.5 * curvature
	b := 0.5 * (y3 - y1)
	peak.Position = float64(idx) + offset
	peak.Value = y2 + a*offset*offset + b*offset

	return peak, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
