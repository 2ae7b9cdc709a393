package scene

import (
	"math"
	"math/rand"

	"event-horizon.klederson.com/internal/config"
)

// Star is a background star at its undisturbed position.
type Star struct {
	X, Y   float64
	Radius float64
	Alpha  float64
}

// Starfield is a random field of stars sized to the current plane. It is
// regenerated whenever the plane is resized.
type Starfield struct {
	Width, Height float64
	Stars         []Star
	rng           *rand.Rand
}

// NewStarfield returns an empty field; call Resize before use.
func NewStarfield(rng *rand.Rand) *Starfield {
	return &Starfield{rng: rng}
}

// StarCount scales the star budget to the grid so small terminals are not
// saturated.
func StarCount(cols, rows int) int {
	n := cols * rows / 12
	if n < 20 {
		n = 20
	}
	if n > config.StarCount {
		n = config.StarCount
	}
	return n
}

// Resize regenerates the field if the plane changed. It reports whether a
// new field was generated.
func (s *Starfield) Resize(w, h float64, count int) bool {
	if w == s.Width && h == s.Height && len(s.Stars) == count {
		return false
	}
	s.Width, s.Height = w, h
	s.Stars = make([]Star, count)
	for i := range s.Stars {
		s.Stars[i] = Star{
			X:      s.rng.Float64() * w,
			Y:      s.rng.Float64() * h,
			Radius: s.rng.Float64()*1.8 + 0.5,
			Alpha:  s.rng.Float64()*0.6 + 0.4,
		}
	}
	return true
}

// Place returns where a star is drawn this frame. Strong dilation pushes the
// field apart with distance from the hole, and distant stars drift inward.
func Place(st Star, f Frame) (x, y float64) {
	x, y = st.X, st.Y
	if !f.StarPullActive {
		return x, y
	}

	dx := st.X - f.CenterX
	dy := st.Y - f.CenterY
	pull := f.StarPull * (math.Abs(dx)/f.Width + math.Abs(dy)/f.Height)
	x += dx * pull
	y += dy * pull
	if math.Hypot(dx, dy) > f.Width/4 {
		x -= dx * f.InwardDrift
		y -= dy * f.InwardDrift
	}
	return x, y
}
