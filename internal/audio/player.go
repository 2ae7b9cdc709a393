package audio

import (
	"sync"
)

// Clip identifies one of the simulator's sound effects.
type Clip int

const (
	ClipWarning        Clip = iota // Klaxon when crossing another 5% toward the hole
	ClipAmbient                    // Deep-space drone, looped for the whole session
	ClipProximityPulse             // Ominous pulse inside the critical zone
	ClipTimeDistortion             // Loop while dilation is strong but below the cap band
	ClipSingularity                // Rumble loop at or near the horizon
	clipCount
)

func (c Clip) String() string {
	switch c {
	case ClipWarning:
		return "warning"
	case ClipAmbient:
		return "ambient"
	case ClipProximityPulse:
		return "proximity-pulse"
	case ClipTimeDistortion:
		return "time-distortion"
	case ClipSingularity:
		return "singularity"
	default:
		return "unknown"
	}
}

// Player is the audio collaborator. Play is fire-and-forget; SetLooping is an
// idempotent level-set: repeating the same call changes nothing audible.
type Player interface {
	Play(clip Clip, volume float64)
	SetLooping(clip Clip, active bool, volume float64)
}

// Nop discards every request.
type Nop struct{}

func (Nop) Play(Clip, float64)             {}
func (Nop) SetLooping(Clip, bool, float64) {}

type loopRequest struct {
	active bool
	volume float64
}

// Muter wraps a Player and can silence it at runtime. Loop requests made
// while muted are remembered and restored on unmute.
type Muter struct {
	mu     sync.Mutex
	player Player
	muted  bool
	loops  map[Clip]loopRequest
}

// NewMuter wraps p.
func NewMuter(p Player, muted bool) *Muter {
	return &Muter{
		player: p,
		muted:  muted,
		loops:  make(map[Clip]loopRequest),
	}
}

// Play forwards one-shots unless muted.
func (m *Muter) Play(clip Clip, volume float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.muted {
		return
	}
	m.player.Play(clip, volume)
}

// SetLooping records the desired loop level and forwards it unless muted.
func (m *Muter) SetLooping(clip Clip, active bool, volume float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loops[clip] = loopRequest{active: active, volume: volume}
	if m.muted {
		return
	}
	m.player.SetLooping(clip, active, volume)
}

// Muted reports the current mute state.
func (m *Muter) Muted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.muted
}

// Toggle flips the mute state and returns the new value.
func (m *Muter) Toggle() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.muted = !m.muted
	for clip, req := range m.loops {
		if m.muted {
			m.player.SetLooping(clip, false, req.volume)
		} else {
			m.player.SetLooping(clip, req.active, req.volume)
		}
	}
	return m.muted
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
