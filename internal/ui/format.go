package ui

import (
	"fmt"
	"math"

	"event-horizon.klederson.com/internal/sim"
)

// FormatChronometer renders seconds as MM:SS.mmm. Minutes keep counting
// past 99.
func FormatChronometer(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		seconds = 0
	}
	whole := math.Floor(seconds)
	m := int(whole) / 60
	s := int(whole) % 60
	ms := int(math.Floor((seconds - whole) * 1000))
	return fmt.Sprintf("%02d:%02d.%03d", m, s, ms)
}

// FormatDilation renders the dilation factor for the relativity panel.
func FormatDilation(factor float64, horizon bool) string {
	switch {
	case horizon || factor >= 4999:
		return "EVENT HORIZON REACHED"
	case factor > 1000:
		return fmt.Sprintf(">%.0fk x", factor/1000)
	case factor > 10:
		return fmt.Sprintf("%.0fx", factor)
	default:
		return fmt.Sprintf("%.3fx", factor)
	}
}

// DilationClarification explains the factor in observer seconds. It is
// empty when there is nothing worth saying.
func DilationClarification(factor float64, horizon bool) string {
	if horizon {
		return "(time has effectively stopped for an outside observer)"
	}
	if factor < 1.1 {
		return ""
	}

	var external string
	switch {
	case factor >= 10000:
		external = fmt.Sprintf(">%.0f thousand", factor/1000)
	case factor >= 1000:
		external = fmt.Sprintf("%.1f thousand", factor/1000)
	case factor >= 100:
		external = fmt.Sprintf("%.0f", factor)
	case factor >= 2:
		external = fmt.Sprintf("%.1f", factor)
	default:
		return "(ship time running slightly slower than outside)"
	}
	return fmt.Sprintf("(1 ship sec ≈ %s outside sec)", external)
}

// Narrative is the one-line situation report for a band.
func Narrative(b sim.DilationBand, horizon bool) string {
	if horizon {
		return "EVENT HORIZON CROSSED. THERE IS NO RETURN."
	}
	switch b {
	case sim.BandHorizon, sim.BandCritical:
		return "Critical temporal distortion. Consult singularity protocols."
	case sim.BandSevere:
		return "Severe temporal distortion. Local time flow significantly altered."
	case sim.BandModerate:
		return "Moderate temporal distortion detected."
	case sim.BandSlight:
		return "Slight temporal distortion detected."
	default:
		return "Space-time continuum nominal."
	}
}

// FormatNumber mirrors the panel's numeric precision: integers as-is, large
// values without decimals, small values with two.
func FormatNumber(v float64) string {
	switch {
	case v == math.Trunc(v):
		return fmt.Sprintf("%.0f", v)
	case v > 1000:
		return fmt.Sprintf("%.0f", v)
	case v < 100:
		return fmt.Sprintf("%.2f", v)
	default:
		return fmt.Sprintf("%.1f", v)
	}
}
