package scene

import (
	"math"

	"event-horizon.klederson.com/internal/config"
	"event-horizon.klederson.com/internal/sim"
)

// Frame is everything the renderer needs for one frame, in virtual units.
type Frame struct {
	Width, Height    float64
	CenterX, CenterY float64

	// NormalizedDistance is 1 at the maximum simulated distance and 0 at the
	// horizon.
	NormalizedDistance float64

	HorizonRadius   float64
	PhotonRing      float64
	DiskInner       float64
	DiskOuter       float64
	DiskOpacity     float64
	PulseBrightness float64

	StarPullActive bool
	StarPull       float64
	InwardDrift    float64

	ShipSize float64
	ShipX    float64
	ShipY    float64

	TrailActive     bool
	NormalizedSpeed float64
	FlareLength     float64
	FlareWidth      float64

	ShakeAmplitude float64
	ShakeX, ShakeY float64

	AuraActive  bool
	AuraRadius  float64
	AuraOpacity float64

	Flash bool
}

// Compute derives a frame from the render parameters for a w x h virtual
// plane at the given pulse phase. It is pure; shake offsets are left zero.
func Compute(p sim.RenderParams, t config.Tuning, w, h float64, pulse Pulse) Frame {
	f := Frame{
		Width:   w,
		Height:  h,
		CenterX: w / 2,
		CenterY: h / 2,
		Flash:   p.HorizonFlashActive,
	}

	nv := clamp01((p.DisplayDistance - t.MinSimDistance) / math.Max(1, t.MaxSimDistance-t.MinSimDistance))
	f.NormalizedDistance = nv
	progress := 1 - nv

	base := math.Min(w, h) / 7
	f.HorizonRadius = base * (0.08 + progress*0.92)
	f.PhotonRing = f.HorizonRadius * 1.5
	f.DiskInner = f.HorizonRadius * 1.1
	f.DiskOuter = f.HorizonRadius * 2.8
	f.DiskOpacity = clamp01(progress * 2.5)
	f.PulseBrightness = (math.Sin(pulse.Offset)*0.1 + 0.95) * f.DiskOpacity

	dil := p.DilationFactor
	f.StarPullActive = dil > 5
	f.StarPull = math.Min(0.2, (dil-1)/5000)
	f.InwardDrift = 0.0001 * math.Min(dil, 200)

	f.ShipSize = math.Min(w, h) / 35
	startX := f.ShipSize * 2.5
	endX := f.CenterX - f.DiskOuter - f.ShipSize*2
	eased := math.Pow(progress, 2.2)
	f.ShipX = startX*(1-eased) + endX*eased
	f.ShipY = f.CenterY + math.Sin(pulse.Offset*0.7)*f.ShipSize*0.15

	f.NormalizedSpeed = math.Min(1, p.Speed/(t.MaxSimDistance*0.1))
	f.TrailActive = p.Approaching && p.Speed > t.MaxSimDistance*0.001
	if f.TrailActive {
		f.FlareLength = f.ShipSize * (1 + f.NormalizedSpeed*2.5) * (1 + progress*1.5)
		f.FlareWidth = f.ShipSize * (0.4 + f.NormalizedSpeed*0.3)
	}

	if dil > 1.2 {
		f.ShakeAmplitude = math.Min(10, (dil-1)/400)
	}

	if dil > 500 {
		wave := pulse.Wave(1.5)
		f.AuraActive = true
		f.AuraRadius = f.ShipSize * (1.2 + wave*0.5)
		f.AuraOpacity = math.Min(0.7, (dil-500)/10000) * (0.5 + wave*0.5)
	}

	return f
}
