package sim

import (
	"math"

	"event-horizon.klederson.com/internal/config"
)

// AlertState carries the alert flags between frames.
type AlertState struct {
	WarningActive       bool
	CriticalActive      bool
	HorizonFlashActive  bool
	LastWarningDistance float64 // only decreases while approaching

	// horizonLatched is set once the flash has been armed for the current
	// horizon crossing and cleared when the ship leaves the horizon.
	horizonLatched bool
}

// SoundDirectives tells the caller which sounds a frame asks for. Warning,
// ProximityIntensity and ArmHorizonFlash are edges; the loop flags are levels.
type SoundDirectives struct {
	Warning            bool
	ProximityIntensity int // 1-5, 0 when no pulse is due
	TimeDistortion     bool
	Singularity        bool
	ArmHorizonFlash    bool
}

// AlertEvaluator derives alerts and sound triggers from the mapped state.
type AlertEvaluator struct {
	tuning config.Tuning
}

// NewAlertEvaluator returns an evaluator for the given tuning.
func NewAlertEvaluator(t config.Tuning) AlertEvaluator {
	return AlertEvaluator{tuning: t}
}

// Initial is the alert state at startup and after a disconnect.
func (e AlertEvaluator) Initial() AlertState {
	return AlertState{LastWarningDistance: e.tuning.MaxSimDistance}
}

// Evaluate computes the next alert state. linked reports whether a sensor
// session is active; the horizon flash only arms while linked.
func (e AlertEvaluator) Evaluate(p PhysicalState, m MotionState, prev AlertState, linked bool) (AlertState, SoundDirectives) {
	t := e.tuning
	critical := t.CriticalThreshold()
	warning := t.WarningThreshold()
	d := p.DisplayDistance

	next := prev
	next.WarningActive = d < warning
	next.CriticalActive = d < critical

	var dir SoundDirectives

	if m.Approaching {
		if d < warning && d < prev.LastWarningDistance*0.95 {
			dir.Warning = true
			next.LastWarningDistance = d
		}
		if d < critical {
			dir.ProximityIntensity = e.intensity(d)
		}
	} else if d > warning*1.2 {
		next.LastWarningDistance = t.MaxSimDistance
	}

	switch {
	case p.HorizonReached && !prev.horizonLatched && linked:
		dir.ArmHorizonFlash = true
		next.horizonLatched = true
	case !p.HorizonReached:
		next.horizonLatched = false
	}

	dir.TimeDistortion = p.DilationFactor > t.BaseRate*30 && p.DilationFactor < t.DilationCap*0.8
	dir.Singularity = p.HorizonReached ||
		p.DilationFactor >= t.DilationCap*0.8 ||
		d <= t.MinSimDistance*1.05

	return next, dir
}

// intensity maps a distance inside the critical zone to a 1-5 pulse level,
// 5 being closest to the horizon.
func (e AlertEvaluator) intensity(d float64) int {
	t := e.tuning
	critical := t.CriticalThreshold()
	progress := clamp((d-t.MinSimDistance)/math.Max(1, critical-t.MinSimDistance), 0, 1)
	level := int(math.Floor(1 + 4*(1-progress)))
	if level < 1 {
		return 1
	}
	if level > 5 {
		return 5
	}
	return level
}

// ProximityVolume is the playback volume for a proximity pulse level.
func ProximityVolume(intensity int) float64 {
	return clamp(0.2+float64(intensity-1)*(0.8/4), 0.1, 1)
}
