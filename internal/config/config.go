package config

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	// Sensor link
	DefaultDeviceName      = "ESP32_AgujeroNegro"
	DistanceServiceUUID    = 0xFFE0 // UART-style service exposed by the ESP32 sketch
	DistanceCharacteristic = 0xFFE1 // RX characteristic carrying "<cm>\n" payloads
	ScanTimeout            = 15 * time.Second
	DefaultBaudRate        = 115200

	// Frame loop
	TargetFPS            = 30
	HorizonFlashDuration = 750 * time.Millisecond
	PulseRate            = 5.0 // pulse radians per second for disk/ship animation

	// Scene
	AspectRatio = 0.5 // Terminal char aspect correction (chars are ~2:1 tall)
	StarCount   = 250
	MaxTrailLen = 20

	// Audio volumes
	AmbientVolume        = 0.3
	TimeDistortionVolume = 0.5
	SingularityVolume    = 0.7

	// Telemetry
	DistanceHistoryLen = 120

	// Demo mode
	DemoSampleInterval = 200 * time.Millisecond
	DemoCycle          = 40 * time.Second

	// App
	AppName    = "EVENT-HORIZON"
	AppVersion = "1.0"
)

// ErrInvalidTuning is returned by Tuning.Validate.
var ErrInvalidTuning = errors.New("invalid tuning")

// Tuning holds the constants of the proximity-to-dilation curve.
// Distances are km in the simulated frame, sensor values are cm.
type Tuning struct {
	SensorHorizonCm float64 // reading at or below which the horizon is reached
	SensorMaxCm     float64 // reading at or above which the ship is at rest
	MinSimDistance  float64
	MaxSimDistance  float64
	BaseRate        float64 // time flow with no dilation
	DilationCap     float64
}

// DefaultTuning returns the designer-tuned curve used by the hardware demo.
func DefaultTuning() Tuning {
	return Tuning{
		SensorHorizonCm: 5,
		SensorMaxCm:     100,
		MinSimDistance:  10,
		MaxSimDistance:  50000,
		BaseRate:        1,
		DilationCap:     5000,
	}
}

// Validate reports whether the tuning describes a usable curve.
func (t Tuning) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"sensor horizon", t.SensorHorizonCm},
		{"sensor max", t.SensorMaxCm},
		{"min simulated distance", t.MinSimDistance},
		{"max simulated distance", t.MaxSimDistance},
		{"base rate", t.BaseRate},
		{"dilation cap", t.DilationCap},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s must be finite, got %v", ErrInvalidTuning, f.name, f.v)
		}
	}

	switch {
	case t.SensorHorizonCm < 0:
		return fmt.Errorf("%w: sensor horizon %.1fcm is negative", ErrInvalidTuning, t.SensorHorizonCm)
	case t.SensorHorizonCm >= t.SensorMaxCm:
		return fmt.Errorf("%w: sensor horizon %.1fcm must be below max %.1fcm",
			ErrInvalidTuning, t.SensorHorizonCm, t.SensorMaxCm)
	case t.MinSimDistance <= 0:
		return fmt.Errorf("%w: min simulated distance must be positive", ErrInvalidTuning)
	case t.MinSimDistance >= t.MaxSimDistance:
		return fmt.Errorf("%w: min simulated distance %.0f must be below max %.0f",
			ErrInvalidTuning, t.MinSimDistance, t.MaxSimDistance)
	case t.BaseRate <= 0:
		return fmt.Errorf("%w: base rate must be positive", ErrInvalidTuning)
	case t.DilationCap <= t.BaseRate:
		return fmt.Errorf("%w: dilation cap %.0f must exceed base rate %.0f",
			ErrInvalidTuning, t.DilationCap, t.BaseRate)
	}
	return nil
}

// CriticalThreshold is the simulated distance below which proximity pulses fire.
func (t Tuning) CriticalThreshold() float64 {
	return t.MinSimDistance * 10
}

// WarningThreshold is the simulated distance below which the klaxon may fire.
func (t Tuning) WarningThreshold() float64 {
	return t.MinSimDistance * 50
}
