package scene

import "event-horizon.klederson.com/internal/config"

const (
	trailFade   = 0.06
	trailShrink = 0.96
	// Particles smaller than this are invisible at cell resolution.
	trailMinSize = 0.05
)

// Particle is one puff of engine exhaust.
type Particle struct {
	X, Y    float64
	Opacity float64
	Size    float64
}

// Trail is the fading exhaust left behind while the ship closes in.
type Trail struct {
	Particles []Particle
}

// Update emits a particle when the frame calls for one, then ages every
// particle by one frame.
func (t *Trail) Update(f Frame) {
	if f.TrailActive {
		t.Particles = append(t.Particles, Particle{
			X:       f.ShipX - f.ShipSize*0.6,
			Y:       f.ShipY,
			Opacity: 0.8 + f.NormalizedSpeed*0.2,
			Size:    f.ShipSize * (0.6 + f.NormalizedSpeed*0.4),
		})
	}

	kept := t.Particles[:0]
	for _, p := range t.Particles {
		p.Opacity -= trailFade
		p.Size *= trailShrink
		if p.Opacity > 0 && p.Size > trailMinSize {
			kept = append(kept, p)
		}
	}
	if len(kept) > config.MaxTrailLen {
		kept = kept[len(kept)-config.MaxTrailLen:]
	}
	t.Particles = kept
}

// Reset drops every particle.
func (t *Trail) Reset() {
	t.Particles = t.Particles[:0]
}
