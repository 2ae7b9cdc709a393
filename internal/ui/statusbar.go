package ui

import (
	"fmt"
	"strings"

	"event-horizon.klederson.com/internal/sim"
	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, s sim.PresentationState) string {
	reading := "--"
	if s.HasReading {
		reading = fmt.Sprintf("%.1fcm", s.SensorCm)
	}

	info := fmt.Sprintf(" Sensor: %s  Dist: %s km  Dilation: %s  Ship/Mission: %s / %s",
		reading,
		FormatNumber(s.DisplayDistance),
		FormatDilation(s.DilationFactor, s.HorizonReached),
		FormatChronometer(s.ShipTimeSeconds),
		FormatChronometer(s.MissionTimeSeconds))

	content := LinkBadge(s.Link) + StyleStatusBar.Render(info)

	gap := width - 2 - lipgloss.Width(content)
	if gap < 0 {
		gap = 0
	}

	return StyleStatusBar.Width(width).Render(content + strings.Repeat(" ", gap))
}
