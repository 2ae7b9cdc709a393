package ui

import (
	"strings"
	"testing"

	"event-horizon.klederson.com/internal/sim"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestFormatChronometer(t *testing.T) {
	tests := map[float64]string{
		0:       "00:00.000",
		1.5:     "00:01.500",
		61.25:   "01:01.250",
		599.999: "09:59.999",
		6000:    "100:00.000",
		-3:      "00:00.000",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatChronometer(in), "seconds=%v", in)
	}
}

func TestFormatDilation(t *testing.T) {
	assert.Equal(t, "1.000x", FormatDilation(1, false))
	assert.Equal(t, "2.000x", FormatDilation(2, false))
	assert.Equal(t, "31x", FormatDilation(31, false))
	assert.Equal(t, ">2k x", FormatDilation(2400, false))
	assert.Equal(t, "EVENT HORIZON REACHED", FormatDilation(4999, false))
	assert.Equal(t, "EVENT HORIZON REACHED", FormatDilation(3, true))
}

func TestDilationClarification(t *testing.T) {
	assert.Empty(t, DilationClarification(1.05, false))
	assert.Equal(t, "(ship time running slightly slower than outside)", DilationClarification(1.5, false))
	assert.Equal(t, "(1 ship sec ≈ 2.0 outside sec)", DilationClarification(2, false))
	assert.Equal(t, "(1 ship sec ≈ 250 outside sec)", DilationClarification(250, false))
	assert.Equal(t, "(1 ship sec ≈ 2.5 thousand outside sec)", DilationClarification(2500, false))
	assert.Contains(t, DilationClarification(5000, true), "stopped")
}

func TestNarrative(t *testing.T) {
	assert.Equal(t, "Space-time continuum nominal.", Narrative(sim.BandFor(1, false), false))
	assert.Contains(t, Narrative(sim.BandFor(2, false), false), "Slight")
	assert.Contains(t, Narrative(sim.BandFor(50, false), false), "Moderate")
	assert.Contains(t, Narrative(sim.BandFor(500, false), false), "Severe")
	assert.Contains(t, Narrative(sim.BandFor(2000, false), false), "Critical")
	assert.Contains(t, Narrative(sim.BandHorizon, true), "NO RETURN")
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "50000", FormatNumber(50000))
	assert.Equal(t, "25005", FormatNumber(25005))
	assert.Equal(t, "1235", FormatNumber(1234.6))
	assert.Equal(t, "12.35", FormatNumber(12.346))
	assert.Equal(t, "250.5", FormatNumber(250.5))
}

func TestProximityColor(t *testing.T) {
	assert.Equal(t, ColorGreen, ProximityColor(10, false))
	assert.Equal(t, ColorYellow, ProximityColor(60, false))
	assert.Equal(t, ColorOrange, ProximityColor(80, false))
	assert.Equal(t, ColorRed, ProximityColor(95, false))
	assert.Equal(t, ColorPurple, ProximityColor(99, false))
	assert.Equal(t, ColorPurple, ProximityColor(5, true))
}

func TestRenderSparkline(t *testing.T) {
	assert.Empty(t, RenderSparkline(nil, 10))
	assert.Equal(t, "_^", RenderSparkline([]float64{0, 100}, 10))
	assert.Equal(t, "_-^", RenderSparkline([]float64{999, 0, 50, 100}, 3), "keeps the most recent values")
	assert.Equal(t, "___", RenderSparkline([]float64{7, 7, 7}, 10))
}

func TestRenderProximityBar(t *testing.T) {
	bar := RenderProximityBar(50, false, 10)
	assert.Equal(t, 12, lipgloss.Width(bar))
	assert.Equal(t, 5, strings.Count(bar, "|"))
}

func TestRenderControlPanel(t *testing.T) {
	s := sim.PresentationState{
		PhysicalState: sim.PhysicalState{DisplayDistance: 25005, DilationFactor: 2},
		MotionState:   sim.MotionState{Speed: 24995, Approaching: true},
		ClockState:    sim.ClockState{MissionTimeSeconds: 61.25, ShipTimeSeconds: 30.625},
		Direction:     sim.Approaching,
		Band:          sim.BandSlight,
		Link:          sim.Connected,
		Status:        "Connected to ESP32_AgujeroNegro",
		SensorCm:      52.5,
		HasReading:    true,
	}

	out := RenderControlPanel(s, []float64{50000, 25005}, 50, 40)
	for _, want := range []string{"SYSTEM", "NAVIGATION", "CHRONOMETERS", "RELATIVITY", "52.5 cm", "25005 km", "APPROACHING", "01:01.250", "00:30.625", "2.000x", "DISTANCE TRACE"} {
		assert.Contains(t, out, want)
	}
	assert.Equal(t, 40, lipgloss.Height(out))
}

func TestRenderBanner(t *testing.T) {
	assert.Empty(t, RenderBanner(80, sim.PresentationState{}))

	critical := sim.PresentationState{Critical: true}
	assert.Contains(t, RenderBanner(80, critical), "CRITICAL WARNING")

	horizon := sim.PresentationState{Critical: true, PhysicalState: sim.PhysicalState{HorizonReached: true}}
	assert.Contains(t, RenderBanner(80, horizon), "EVENT HORIZON REACHED")
}

func TestRenderMenuBar(t *testing.T) {
	bar := RenderMenuBar(100, sim.Connected, "BLE", true)
	assert.Contains(t, bar, "EVENT-HORIZON")
	assert.Contains(t, bar, "LINKED")
	assert.Contains(t, bar, "MUTED")
	assert.Equal(t, 100, lipgloss.Width(bar))
}

func TestRenderStatusBar(t *testing.T) {
	bar := RenderStatusBar(120, sim.PresentationState{
		PhysicalState: sim.PhysicalState{DisplayDistance: 50000, DilationFactor: 1},
	})
	assert.Contains(t, bar, "OFFLINE")
	assert.Contains(t, bar, "Sensor: --")
	assert.Equal(t, 120, lipgloss.Width(bar))
}
