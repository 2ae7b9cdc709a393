// Package sim turns sensor distances into the ship's simulated state: the
// mapped distance and time dilation, the mission/ship clocks, and the alert
// and sound logic derived from them.
package sim

import (
	"math"

	"event-horizon.klederson.com/internal/config"
)

// PhysicalState is the simulated frame state derived from one reading.
// HorizonReached holds iff DilationFactor is the cap iff DisplayDistance is
// the minimum simulated distance.
type PhysicalState struct {
	DisplayDistance float64 // km, in [MinSimDistance, MaxSimDistance]
	DilationFactor  float64 // in [BaseRate, DilationCap]
	HorizonReached  bool
}

// Mapper maps raw sensor distances onto the designer-tuned dilation curve.
type Mapper struct {
	tuning config.Tuning
}

// NewMapper returns a Mapper for the given tuning.
func NewMapper(t config.Tuning) Mapper {
	return Mapper{tuning: t}
}

// Rest is the state used when no reading is available.
func (m Mapper) Rest() PhysicalState {
	return PhysicalState{
		DisplayDistance: m.tuning.MaxSimDistance,
		DilationFactor:  m.tuning.BaseRate,
	}
}

// Horizon is the saturated state at or past the event horizon.
func (m Mapper) Horizon() PhysicalState {
	return PhysicalState{
		DisplayDistance: m.tuning.MinSimDistance,
		DilationFactor:  m.tuning.DilationCap,
		HorizonReached:  true,
	}
}

// Proximity normalizes a reading to [0,1]: 0 at or beyond the sensor max,
// 1 at or inside the horizon distance.
func (m Mapper) Proximity(cm float64) float64 {
	t := m.tuning
	clamped := clamp(cm, t.SensorHorizonCm, t.SensorMaxCm)
	// Validate guarantees a positive span.
	return clamp((t.SensorMaxCm-clamped)/(t.SensorMaxCm-t.SensorHorizonCm), 0, 1)
}

// Map computes the physical state for a reading. Pass present=false when
// the link has produced no reading yet.
func (m Mapper) Map(cm float64, present bool) PhysicalState {
	if !present {
		return m.Rest()
	}

	t := m.tuning
	p := m.Proximity(cm)
	if p >= 1 {
		return m.Horizon()
	}

	dilation := t.BaseRate / (1 - p)
	if dilation >= t.DilationCap {
		// The curve saturates a hair before p reaches 1; treat it as the horizon.
		return m.Horizon()
	}

	state := PhysicalState{
		DisplayDistance: clamp(t.MaxSimDistance-p*(t.MaxSimDistance-t.MinSimDistance), t.MinSimDistance, t.MaxSimDistance),
		DilationFactor:  clamp(dilation, t.BaseRate, t.DilationCap),
	}
	if !finite(state.DisplayDistance) || !finite(state.DilationFactor) {
		return m.Rest()
	}
	return state
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
