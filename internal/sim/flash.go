package sim

import (
	"sync"
	"time"

	"event-horizon.klederson.com/internal/timeutil"
)

// FlashPulse is a one-shot visual pulse that clears itself after a fixed
// duration. The expiry runs on the clock's timer goroutine, so the flag is
// guarded.
type FlashPulse struct {
	clock    timeutil.Clock
	duration time.Duration

	mu     sync.Mutex
	active bool
	timer  timeutil.Timer
	gen    uint64
}

// NewFlashPulse returns an idle pulse.
func NewFlashPulse(clock timeutil.Clock, d time.Duration) *FlashPulse {
	return &FlashPulse{clock: clock, duration: d}
}

// Arm turns the pulse on and schedules it to clear. Re-arming restarts it.
func (f *FlashPulse) Arm() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.timer != nil {
		f.timer.Stop()
	}
	f.gen++
	gen := f.gen
	f.active = true
	f.timer = f.clock.AfterFunc(f.duration, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.gen == gen {
			f.active = false
			f.timer = nil
		}
	})
}

// Cancel clears the pulse and stops a pending expiry.
func (f *FlashPulse) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.gen++
	f.active = false
}

// Active reports whether the pulse is showing.
func (f *FlashPulse) Active() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}
