// Package scene derives the per-frame visual parameters of the black hole,
// its accretion disk, the starfield and the ship, and draws them as
// terminal cells.
//
// All geometry runs in a virtual plane where one unit is one column wide
// and rows are 1/AspectRatio units tall, so circles stay round on screen.
package scene

import (
	"math"

	"event-horizon.klederson.com/internal/config"
)

// VirtualSize returns the plane dimensions for a grid of cols x rows cells.
func VirtualSize(cols, rows int) (w, h float64) {
	return float64(cols), float64(rows) / config.AspectRatio
}

// CellCenter returns the virtual coordinates of a cell's centre.
func CellCenter(col, row int) (x, y float64) {
	return float64(col) + 0.5, (float64(row) + 0.5) / config.AspectRatio
}

// CellAt returns the cell containing a virtual point.
func CellAt(x, y float64) (col, row int) {
	return int(math.Floor(x)), int(math.Floor(y * config.AspectRatio))
}

// Angle returns the bearing from (cx, cy) to (x, y) in radians [0, 2π),
// 0 pointing up and increasing clockwise.
func Angle(x, y, cx, cy float64) float64 {
	return NormalizeAngle(math.Atan2(x-cx, -(y - cy)))
}

// RingChar picks the outline glyph for a circle at the given bearing.
func RingChar(angle float64) rune {
	switch int(math.Round(NormalizeAngle(angle)/(math.Pi/4))) % 8 {
	case 0, 4:
		return '-'
	case 1, 5:
		return '/'
	case 2, 6:
		return '|'
	default:
		return '\\'
	}
}

// NormalizeAngle wraps an angle to [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
