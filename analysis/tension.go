package analysis

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/capillary/algorithms/common"
)

// StandardGravity is the default gravitational acceleration in m/s²
const StandardGravity = 9.8

// TensionRatio converts a capillary wavelength measured in pixels into the
// ratio of surface tension to density, in mN·m²/kg (σ/ρ scaled by 1e6).
//
// It inverts the gravity-capillary dispersion relation ω² = g·k + (σ/ρ)·k³
// with k = 2π/λ and ω = 2πf, where λ = wavelengthPx / resolution metres.
func TensionRatio(wavelengthPx, resolution, frequency, gravity float64) (float64, error) {
	params := []struct {
		name  string
		value float64
	}{
		{"wavelength", wavelengthPx},
		{"resolution", resolution},
		{"frequency", frequency},
		{"gravity", gravity},
	}
	for _, p := range params {
		if !(p.value > 0) || math.IsInf(p.value, 0) {
			return 0, fmt.Errorf("tension ratio: %s must be positive, got %g: %w", p.name, p.value, common.ErrInvalidInput)
		}
	}

	wavelength := wavelengthPx / resolution
	k := 2 * math.Pi / wavelength
	w := 2 * math.Pi * frequency

	return (w*w - k*gravity) / (k * k * k) * 1e6, nil
}
