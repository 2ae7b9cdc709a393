package sim

import "math"

// MotionState describes how the ship moved between two readings.
type MotionState struct {
	Speed       float64 // km per reading, always >= 0
	Approaching bool
}

// Diff derives motion from the previous and current display distances.
func Diff(prev, curr float64) MotionState {
	return MotionState{
		Speed:       math.Abs(prev - curr),
		Approaching: curr < prev,
	}
}
