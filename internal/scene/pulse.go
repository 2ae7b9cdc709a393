package scene

import (
	"math"

	"event-horizon.klederson.com/internal/config"
)

// Pulse is the phase that drives every periodic effect: disk shimmer, ship
// bobbing, engine flare and aura.
type Pulse struct {
	Offset float64
}

// Advance moves the phase forward by dt seconds.
func (p *Pulse) Advance(dt float64) {
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return
	}
	p.Offset += dt * config.PulseRate
}

// Wave returns a [0, 1] oscillation at the given frequency multiple.
func (p Pulse) Wave(freq float64) float64 {
	return (math.Sin(p.Offset*freq) + 1) / 2
}
