package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
)

// Clip durations for the one-shot effects. Loops are unbounded streams.
const (
	warningDuration = 900 * time.Millisecond
	pulseDuration   = 600 * time.Millisecond
)

// newClipStreamer builds a fresh generator for clip. One-shots are bounded
// with beep.Take; looping clips stream until paused.
func newClipStreamer(clip Clip, sr beep.SampleRate) beep.Streamer {
	switch clip {
	case ClipWarning:
		return beep.Take(sr.N(warningDuration), &klaxonGenerator{sr: sr})
	case ClipProximityPulse:
		return beep.Take(sr.N(pulseDuration), &pulseGenerator{sr: sr})
	case ClipAmbient:
		return &droneGenerator{sr: sr}
	case ClipTimeDistortion:
		return &distortionGenerator{sr: sr}
	case ClipSingularity:
		return &rumbleGenerator{sr: sr, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
	default:
		return nil
	}
}

// isLoop reports whether a clip is meant to be driven by SetLooping.
func isLoop(clip Clip) bool {
	switch clip {
	case ClipAmbient, ClipTimeDistortion, ClipSingularity:
		return true
	}
	return false
}

// klaxonGenerator alternates two square-ish tones like a ship alarm.
type klaxonGenerator struct {
	sr  beep.SampleRate
	pos int
}

func (g *klaxonGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	half := g.sr.N(150 * time.Millisecond)
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		freq := 620.0
		if (g.pos/half)%2 == 1 {
			freq = 820.0
		}

		// Odd harmonics give the square edge without aliasing too hard
		sample := 0.0
		sample += 0.30 * math.Sin(2*math.Pi*freq*t)
		sample += 0.10 * math.Sin(2*math.Pi*freq*3*t)
		sample += 0.06 * math.Sin(2*math.Pi*freq*5*t)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *klaxonGenerator) Err() error { return nil }

// pulseGenerator is a low thump with exponential decay.
type pulseGenerator struct {
	sr  beep.SampleRate
	pos int
}

func (g *pulseGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		env := math.Exp(-t * 6)
		freq := 70 * (1 + 0.5*env)
		sample := 0.6 * env * math.Sin(2*math.Pi*freq*t)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *pulseGenerator) Err() error { return nil }

// droneGenerator is a slow-breathing fifth in the sub-bass.
type droneGenerator struct {
	sr  beep.SampleRate
	pos int
}

func (g *droneGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		lfo := 0.5 + 0.5*math.Sin(2*math.Pi*0.08*t)
		sample := 0.25*math.Sin(2*math.Pi*55*t) + 0.15*lfo*math.Sin(2*math.Pi*82.5*t)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *droneGenerator) Err() error { return nil }

// distortionGenerator sweeps a detuned pair with tremolo.
type distortionGenerator struct {
	sr  beep.SampleRate
	pos int
}

func (g *distortionGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		sweep := 220 + 80*math.Sin(2*math.Pi*0.25*t)
		trem := 0.6 + 0.4*math.Sin(2*math.Pi*6*t)
		sample := trem * (0.2*math.Sin(2*math.Pi*sweep*t) + 0.2*math.Sin(2*math.Pi*sweep*1.01*t))

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *distortionGenerator) Err() error { return nil }

// rumbleGenerator mixes low-passed noise with a 40Hz sine.
type rumbleGenerator struct {
	sr  beep.SampleRate
	pos int
	rng *rand.Rand
	lp  float64
}

func (g *rumbleGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		noise := g.rng.Float64()*2 - 1
		g.lp += 0.02 * (noise - g.lp)

		sample := 0.5*g.lp + 0.3*math.Sin(2*math.Pi*40*t)
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *rumbleGenerator) Err() error { return nil }
