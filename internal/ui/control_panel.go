package ui

import (
	"fmt"
	"math"
	"strings"

	"event-horizon.klederson.com/internal/sim"
	"github.com/charmbracelet/lipgloss"
)

// RenderControlPanel renders the instrument column: link state, navigation,
// chronometers, relativity readout and the recent distance trace.
func RenderControlPanel(s sim.PresentationState, history []float64, width, height int) string {
	innerW := width - 4
	if innerW < 20 {
		innerW = 20
	}

	band := lipgloss.NewStyle().Foreground(BandColor(s.Band)).Bold(true)
	bandText := lipgloss.NewStyle().Foreground(BandColor(s.Band))
	alert := s.Critical || s.HorizonReached

	field := func(label, value string, style lipgloss.Style) string {
		return StyleLabel.Render(fmt.Sprintf("  %-10s", label)) + style.Render(value)
	}
	wrap := func(text string, style lipgloss.Style) string {
		return style.Width(innerW - 2).Render(text)
	}

	var lines []string

	// System
	lines = append(lines, StyleSection.Render("SYSTEM"))
	linkStyle := StyleValue
	if s.Error != "" {
		linkStyle = StyleValueAlert
	}
	lines = append(lines, field("Link", s.Status, linkStyle))
	if s.Link == sim.Connected && s.HasReading {
		lines = append(lines, field("Sensor", fmt.Sprintf("%.1f cm", s.SensorCm), StyleValue))
	}
	if s.Error != "" {
		lines = append(lines, "  "+wrap("Error: "+s.Error, StyleError))
	}
	if s.Link == sim.Disconnected {
		lines = append(lines, "  "+StyleHelp.Render("[C] connect sensor"))
	} else {
		lines = append(lines, "  "+StyleHelp.Render("[D] disconnect"))
	}
	lines = append(lines, "")

	// Navigation
	lines = append(lines, StyleSection.Render("NAVIGATION"))
	distStyle := StyleValue
	if alert {
		distStyle = StyleValueAlert
	}
	lines = append(lines, field("Distance", FormatNumber(s.DisplayDistance)+" km (sim)", distStyle))
	lines = append(lines, field("Speed", fmt.Sprintf("%.0f km/tick", s.Speed), StyleValue))
	vecStyle := StyleValue
	if s.Direction == sim.Approaching {
		vecStyle = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
		if alert {
			vecStyle = StyleValueAlert
		}
	}
	lines = append(lines, field("Vector", s.Direction.String(), vecStyle))

	barW := innerW - 20
	if barW < 10 {
		barW = 10
	}
	lines = append(lines, StyleLabel.Render("  Proximity ")+
		RenderProximityBar(s.ProximityPercent, s.HorizonReached, barW)+
		StyleValue.Render(fmt.Sprintf(" %3.0f%%", s.ProximityPercent)))
	lines = append(lines, "")

	// Chronometers
	lines = append(lines, StyleSection.Render("CHRONOMETERS"))
	lines = append(lines, field("Mission", FormatChronometer(s.MissionTimeSeconds), StyleValue))
	lines = append(lines, field("Ship", FormatChronometer(s.ShipTimeSeconds), band))
	lines = append(lines, "")

	// Relativity
	lines = append(lines, StyleSection.Render("RELATIVITY"))
	lines = append(lines, field("Dilation", FormatDilation(s.DilationFactor, s.HorizonReached), band))
	if c := DilationClarification(s.DilationFactor, s.HorizonReached); c != "" {
		lines = append(lines, "  "+wrap(c, bandText))
	}
	lines = append(lines, "  "+wrap(Narrative(s.Band, s.HorizonReached), bandText))

	if len(history) > 1 {
		lines = append(lines, "")
		lines = append(lines, StyleSection.Render("DISTANCE TRACE"))
		lines = append(lines, "  "+StyleSparkline.Render(RenderSparkline(history, innerW-4)))
	}

	for len(lines) < height-2 {
		lines = append(lines, "")
	}

	style := StylePanelBorder
	if alert {
		style = StylePanelAlert
	}
	return style.Width(width - 2).Height(height - 2).Render(strings.Join(lines, "\n"))
}

// RenderProximityBar draws the percent toward the horizon as a bracketed bar.
func RenderProximityBar(percent float64, horizon bool, width int) string {
	ratio := math.Max(0, math.Min(1, percent/100))
	filled := int(math.Round(ratio * float64(width)))

	filledPart := lipgloss.NewStyle().Foreground(ProximityColor(percent, horizon)).Render(strings.Repeat("|", filled))
	emptyPart := lipgloss.NewStyle().Foreground(ColorTrack).Render(strings.Repeat("-", width-filled))
	return StyleHelp.Render("[") + filledPart + emptyPart + StyleHelp.Render("]")
}

// RenderSparkline scales values into a one-line trace of at most width
// characters, most recent on the right.
func RenderSparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	chars := []rune{'_', '.', '-', '~', '^'}

	start := 0
	if len(values) > width {
		start = len(values) - width
	}
	values = values[start:]

	minV, maxV := values[0], values[0]
	for _, v := range values {
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	rng := maxV - minV
	if rng < 1 {
		rng = 1
	}

	var sb strings.Builder
	for _, v := range values {
		idx := int((v - minV) / rng * float64(len(chars)-1))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(chars) {
			idx = len(chars) - 1
		}
		sb.WriteRune(chars[idx])
	}
	return sb.String()
}
