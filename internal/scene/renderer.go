package scene

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"event-horizon.klederson.com/internal/config"
	"event-horizon.klederson.com/internal/sim"
	"github.com/charmbracelet/lipgloss"
)

// shakePerUnit converts the canvas-pixel shake amplitude to cells.
const shakePerUnit = 0.1

type rgb struct{ r, g, b float64 }

var (
	space      = rgb{0, 0, 17}
	diskHot    = rgb{255, 185, 50}
	diskWarm   = rgb{255, 100, 0}
	diskCool   = rgb{200, 0, 0}
	ringColor  = rgb{220, 220, 255}
	flareHot   = rgb{180, 255, 255}
	flareMid   = rgb{100, 200, 255}
	flareCool  = rgb{50, 150, 255}
	auraColor  = rgb{255, 60, 0}
	flashColor = rgb{180, 0, 255}

	shipColor   = lipgloss.Color("#00FFFF")
	hullColor   = lipgloss.Color("#CCFFFF")
	flashBg     = flashColor.over(space, 0.4).color()
	styleLegend = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C6C8A"))
)

func (c rgb) over(bg rgb, a float64) rgb {
	a = clamp01(a)
	return rgb{
		r: bg.r + (c.r-bg.r)*a,
		g: bg.g + (c.g-bg.g)*a,
		b: bg.b + (c.b-bg.b)*a,
	}
}

func lerp(a, b rgb, t float64) rgb {
	return b.over(a, t)
}

func (c rgb) color() lipgloss.Color {
	ch := func(v float64) int { return int(math.Round(math.Max(0, math.Min(255, v)))) }
	return lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", ch(c.r), ch(c.g), ch(c.b)))
}

// Scene owns the animated state between frames: pulse phase, starfield and
// exhaust trail.
type Scene struct {
	tuning config.Tuning
	pulse  Pulse
	stars  *Starfield
	trail  Trail
	rng    *rand.Rand

	cols, rows int
	frame      Frame
}

// New creates a scene. The seed fixes the starfield and shake jitter.
func New(t config.Tuning, seed int64) *Scene {
	rng := rand.New(rand.NewSource(seed))
	return &Scene{
		tuning: t,
		stars:  NewStarfield(rng),
		rng:    rng,
	}
}

// Step advances the animation by dt seconds and derives the frame for a
// cols x rows viewport.
func (s *Scene) Step(dt float64, p sim.RenderParams, cols, rows int) Frame {
	s.pulse.Advance(dt)
	s.cols, s.rows = cols, rows

	w, h := VirtualSize(cols, rows)
	s.stars.Resize(w, h, StarCount(cols, rows))

	f := Compute(p, s.tuning, w, h, s.pulse)
	if f.ShakeAmplitude > 0 {
		f.ShakeX = (s.rng.Float64() - 0.5) * f.ShakeAmplitude * shakePerUnit
		f.ShakeY = (s.rng.Float64() - 0.5) * f.ShakeAmplitude * shakePerUnit
	}
	s.trail.Update(f)
	s.frame = f
	return f
}

// Frame returns the last derived frame.
func (s *Scene) Frame() Frame {
	return s.frame
}

// Trail returns the live exhaust particles.
func (s *Scene) Trail() []Particle {
	return s.trail.Particles
}

// Reset clears the exhaust, used when the session ends.
func (s *Scene) Reset() {
	s.trail.Reset()
}

type cell struct {
	ch   rune
	fg   lipgloss.Color
	bold bool
}

type canvas struct {
	cols, rows int
	cells      []cell
}

func newCanvas(cols, rows int) *canvas {
	return &canvas{cols: cols, rows: rows, cells: make([]cell, cols*rows)}
}

func (c *canvas) put(col, row int, ch rune, fg lipgloss.Color, bold bool) {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return
	}
	c.cells[row*c.cols+col] = cell{ch: ch, fg: fg, bold: bold}
}

func (c *canvas) putAt(x, y float64, ch rune, fg lipgloss.Color, bold bool) {
	col, row := CellAt(x, y)
	c.put(col, row, ch, fg, bold)
}

// View draws the last stepped frame.
func (s *Scene) View() string {
	if s.cols < 10 || s.rows < 5 {
		return ""
	}
	f := s.frame
	cv := newCanvas(s.cols, s.rows)

	s.drawStars(cv, f)
	drawHole(cv, f)
	s.drawTrail(cv, f)
	s.drawShip(cv, f)

	var sb strings.Builder
	for row := 0; row < cv.rows; row++ {
		for col := 0; col < cv.cols; col++ {
			sb.WriteString(renderCell(cv.cells[row*cv.cols+col], f.Flash))
		}
		if row < cv.rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func renderCell(c cell, flash bool) string {
	style := lipgloss.NewStyle()
	if flash {
		style = style.Background(flashBg)
	}
	if c.ch == 0 {
		if flash {
			return style.Render(" ")
		}
		return " "
	}
	return style.Foreground(c.fg).Bold(c.bold).Render(string(c.ch))
}

func (s *Scene) drawStars(cv *canvas, f Frame) {
	for _, st := range s.stars.Stars {
		x, y := Place(st, f)
		ch := '.'
		if st.Radius > 1.8 {
			ch = '*'
		} else if st.Radius > 1.2 {
			ch = '+'
		}
		cv.putAt(x, y, ch, rgb{255, 255, 255}.over(space, st.Alpha).color(), false)
	}
}

func drawHole(cv *canvas, f Frame) {
	ringAlpha := 0.15*f.DiskOpacity + 0.4*f.DiskOpacity*f.DiskOpacity
	b := f.PulseBrightness

	for row := 0; row < cv.rows; row++ {
		for col := 0; col < cv.cols; col++ {
			x, y := CellCenter(col, row)
			d := math.Hypot(x-f.CenterX, y-f.CenterY)

			switch {
			case d < f.HorizonRadius:
				cv.cells[row*cv.cols+col] = cell{}
			case math.Abs(d-f.PhotonRing) < 0.6 && ringAlpha > 0.03:
				cv.put(col, row, RingChar(Angle(x, y, f.CenterX, f.CenterY)), ringColor.over(space, ringAlpha).color(), false)
			case d >= f.DiskInner && d <= f.DiskOuter && b > 0.02:
				t := (d - f.DiskInner) / math.Max(1e-9, f.DiskOuter-f.DiskInner)
				c, a := diskStop(t, b)
				if ch := diskGlyph(a); ch != 0 {
					cv.put(col, row, ch, c.over(space, math.Max(a, 0.35)).color(), a > 0.6)
				}
			}
		}
	}

	// The hole shrinks below a cell when far away; keep a marker.
	if f.HorizonRadius < 1 {
		cv.putAt(f.CenterX, f.CenterY, 'o', ringColor.over(space, 0.3).color(), false)
	}
}

// diskStop interpolates the accretion disk gradient at t (0 inner edge,
// 1 outer edge) for brightness b.
func diskStop(t, b float64) (rgb, float64) {
	a0 := 0.3*b + 0.7*b*b
	a1 := 0.15*b + 0.5*b*b
	a2 := 0.05*b + 0.2*b*b
	if t < 0.5 {
		k := t / 0.5
		return lerp(diskHot, diskWarm, k), a0 + (a1-a0)*k
	}
	k := (t - 0.5) / 0.5
	return lerp(diskWarm, diskCool, k), a1 + (a2-a1)*k
}

func diskGlyph(a float64) rune {
	switch {
	case a > 0.5:
		return '▓'
	case a > 0.25:
		return '▒'
	case a > 0.05:
		return '░'
	default:
		return 0
	}
}

func (s *Scene) drawTrail(cv *canvas, f Frame) {
	for i, p := range s.trail.Particles {
		tp := (math.Sin(s.pulse.Offset*2+float64(i)*0.5) + 1) / 2
		c := rgb{0, 155 + tp*100, 100 + tp*100}
		ch := '-'
		if p.Size > f.ShipSize*0.5 {
			ch = '='
		}
		cv.putAt(p.X, p.Y, ch, c.over(space, math.Max(p.Opacity*0.5, 0.2)).color(), false)
	}
}

func (s *Scene) drawShip(cv *canvas, f Frame) {
	x := f.ShipX + f.ShakeX
	y := f.ShipY + f.ShakeY

	if f.AuraActive {
		for row := 0; row < cv.rows; row++ {
			for col := 0; col < cv.cols; col++ {
				cx, cy := CellCenter(col, row)
				if math.Hypot(cx-x, cy-y) <= f.AuraRadius {
					cv.put(col, row, '░', auraColor.over(space, f.AuraOpacity*0.8+0.2).color(), false)
				}
			}
		}
	}

	if f.TrailActive && f.FlareLength > 0 {
		wave := s.pulse.Wave(3)
		tail := x - f.ShipSize/2
		for dx := 0.0; dx < f.FlareLength; dx++ {
			t := dx / f.FlareLength
			var c rgb
			var a float64
			if t < 0.3 {
				c, a = lerp(flareHot, flareMid, t/0.3), 0.9+wave*0.1
			} else {
				k := (t - 0.3) / 0.7
				c, a = lerp(flareMid, flareCool, k), (0.7+wave*0.2)*(1-k)
			}
			ch := '~'
			if wave > 0.5 {
				ch = '-'
			}
			cv.putAt(tail-dx, y, ch, c.over(space, math.Max(a, 0.25)).color(), false)
		}
	}

	if f.ShipSize >= 1 {
		cv.putAt(x-1, y, '=', hullColor, false)
	}
	cv.putAt(x, y, '▶', shipColor, true)
}

// Legend produces the key line under the scene.
func Legend(width int) string {
	legend := styleLegend.Render("o horizon  ▒ accretion disk  ▶ ship  ~ engine")
	pad := (width - lipgloss.Width(legend)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + legend
}
