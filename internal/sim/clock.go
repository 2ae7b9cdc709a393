package sim

import (
	"math"
	"time"
)

// ClockState is a snapshot of the two elapsed-time counters.
type ClockState struct {
	MissionTimeSeconds float64 // external observer's clock
	ShipTimeSeconds    float64 // ship-local clock, slowed by dilation
}

// ClockPair accumulates mission and ship time. Ship time advances by
// delta/max(base, dilation), so it never runs ahead of mission time.
type ClockPair struct {
	baseRate float64
	state    ClockState
	last     time.Time
	anchored bool
}

// NewClockPair returns zeroed clocks for the given base time-flow rate.
func NewClockPair(baseRate float64) *ClockPair {
	return &ClockPair{baseRate: baseRate}
}

// Tick advances both clocks by delta seconds. Negative or non-finite deltas
// are ignored.
func (c *ClockPair) Tick(delta, dilation float64) ClockState {
	if !finite(delta) || delta <= 0 {
		return c.state
	}
	rate := c.baseRate
	if finite(dilation) {
		rate = math.Max(c.baseRate, dilation)
	}

	c.state.MissionTimeSeconds += delta
	c.state.ShipTimeSeconds += delta / rate
	return c.state
}

// Frame advances the clocks from a frame timestamp. The first frame after
// construction or Reset only anchors the baseline.
func (c *ClockPair) Frame(ts time.Time, dilation float64) ClockState {
	if !c.anchored {
		c.last = ts
		c.anchored = true
		return c.state
	}
	delta := ts.Sub(c.last).Seconds()
	c.last = ts
	return c.Tick(delta, dilation)
}

// Reset zeroes both clocks and drops the frame anchor.
func (c *ClockPair) Reset() {
	c.state = ClockState{}
	c.anchored = false
	c.last = time.Time{}
}

// State returns the current snapshot.
func (c *ClockPair) State() ClockState {
	return c.state
}
