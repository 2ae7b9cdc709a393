package audio

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

type loop struct {
	ctrl   *beep.Ctrl
	volume *effects.Volume
}

// SpeakerPlayer plays procedurally generated clips through the system
// speaker. All clips share one mixer. A one-shot clip never overlaps
// itself: Play skips it while the previous instance is still sounding.
type SpeakerPlayer struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	loops  map[Clip]*loop
	shots  map[Clip]*atomic.Bool
	closed bool
}

// NewSpeakerPlayer initializes the speaker and starts the mixer.
func NewSpeakerPlayer() (*SpeakerPlayer, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("failed to initialize speaker: %w", err)
	}

	p := &SpeakerPlayer{
		mixer: &beep.Mixer{},
		loops: make(map[Clip]*loop),
		shots: make(map[Clip]*atomic.Bool),
	}
	speaker.Play(p.mixer)
	return p, nil
}

// Play starts a one-shot clip. Looping clips are started as loops instead.
func (p *SpeakerPlayer) Play(clip Clip, volume float64) {
	if isLoop(clip) {
		p.SetLooping(clip, true, volume)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	s := p.oneShot(clip, volume)
	if s == nil {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// oneShot builds the streamer for a one-shot clip, or returns nil while an
// earlier instance is still playing. p.mu must be held.
func (p *SpeakerPlayer) oneShot(clip Clip, volume float64) beep.Streamer {
	if playing, ok := p.shots[clip]; ok && playing.Load() {
		return nil
	}
	s := newClipStreamer(clip, sampleRate)
	if s == nil {
		return nil
	}

	playing := &atomic.Bool{}
	playing.Store(true)
	p.shots[clip] = playing
	return beep.Seq(newVolume(s, clampVolume(volume)), beep.Callback(func() {
		playing.Store(false)
	}))
}

// SetLooping starts, re-levels or pauses a looping clip.
func (p *SpeakerPlayer) SetLooping(clip Clip, active bool, volume float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	l, ok := p.loops[clip]
	if !ok {
		if !active {
			return
		}
		s := newClipStreamer(clip, sampleRate)
		if s == nil {
			return
		}
		vol := newVolume(s, clampVolume(volume))
		l = &loop{ctrl: &beep.Ctrl{Streamer: vol}, volume: vol}
		p.loops[clip] = l

		speaker.Lock()
		p.mixer.Add(l.ctrl)
		speaker.Unlock()
		return
	}

	speaker.Lock()
	l.ctrl.Paused = !active
	setVolume(l.volume, clampVolume(volume))
	speaker.Unlock()
}

// Close silences every clip and clears the mixer.
func (p *SpeakerPlayer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true

	speaker.Lock()
	for _, l := range p.loops {
		l.ctrl.Paused = true
	}
	p.mixer.Clear()
	speaker.Unlock()
}

// newVolume wraps s in a volume effect.
// math.Log2(0) is -Inf, so 0 volume maps to Silent.
func newVolume(s beep.Streamer, vol float64) *effects.Volume {
	v := &effects.Volume{Streamer: s, Base: 2}
	setVolume(v, vol)
	return v
}

func setVolume(v *effects.Volume, vol float64) {
	if vol <= 0 {
		v.Volume = 0
		v.Silent = true
		return
	}
	v.Volume = math.Log2(vol)
	v.Silent = false
}
