package ui

import "event-horizon.klederson.com/internal/sim"

// RenderBanner returns the alert banner for the snapshot, or "" when no
// alert is showing.
func RenderBanner(width int, s sim.PresentationState) string {
	switch {
	case s.HorizonReached:
		return StyleBannerHorizon.Width(width).Render(
			"!!! EVENT HORIZON REACHED !!!\n" +
				"Point of no return. Time has effectively stopped for an outside observer.")
	case s.Critical:
		return StyleBannerCritical.Width(width).Render(
			"!!! CRITICAL WARNING !!!\n" +
				"Dangerous proximity levels. Time flow severely distorted.")
	default:
		return ""
	}
}
