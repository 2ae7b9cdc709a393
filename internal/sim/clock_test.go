package sim

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockPair_BaseRateKeepsClocksEqual(t *testing.T) {
	c := NewClockPair(1)

	deltas := []float64{0.016, 0.033, 0.5, 0.001, 1.25, 0.016}
	for _, d := range deltas {
		s := c.Tick(d, 1)
		require.InDelta(t, s.MissionTimeSeconds, s.ShipTimeSeconds, 1e-12)
	}
	assert.InDelta(t, 1.816, c.State().MissionTimeSeconds, 1e-12)
}

func TestClockPair_DilationSlowsShipTime(t *testing.T) {
	c := NewClockPair(1)

	for _, dilation := range []float64{1.0001, 2, 30, 5000} {
		before := c.State()
		after := c.Tick(0.1, dilation)

		missionInc := after.MissionTimeSeconds - before.MissionTimeSeconds
		shipInc := after.ShipTimeSeconds - before.ShipTimeSeconds
		assert.InDelta(t, 0.1, missionInc, 1e-12)
		assert.Less(t, shipInc, missionInc, "dilation=%v", dilation)
		assert.InDelta(t, 0.1/dilation, shipInc, 1e-12)
	}
}

func TestClockPair_DilationBelowBaseIsIgnored(t *testing.T) {
	c := NewClockPair(1)

	s := c.Tick(1, 0.25)
	assert.Equal(t, s.MissionTimeSeconds, s.ShipTimeSeconds)

	s = c.Tick(1, math.NaN())
	assert.Equal(t, 2.0, s.ShipTimeSeconds)
}

func TestClockPair_IgnoresBadDeltas(t *testing.T) {
	c := NewClockPair(1)
	c.Tick(1, 1)

	for _, d := range []float64{-1, 0, math.NaN(), math.Inf(1)} {
		c.Tick(d, 1)
	}
	assert.Equal(t, ClockState{MissionTimeSeconds: 1, ShipTimeSeconds: 1}, c.State())
}

func TestClockPair_FirstFrameAnchors(t *testing.T) {
	c := NewClockPair(1)
	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	s := c.Frame(t0, 1)
	assert.Equal(t, ClockState{}, s, "first frame only anchors")

	s = c.Frame(t0.Add(500*time.Millisecond), 2)
	assert.InDelta(t, 0.5, s.MissionTimeSeconds, 1e-9)
	assert.InDelta(t, 0.25, s.ShipTimeSeconds, 1e-9)
}

func TestClockPair_ResetReanchors(t *testing.T) {
	c := NewClockPair(1)
	t0 := time.Unix(1000, 0)

	c.Frame(t0, 1)
	c.Frame(t0.Add(time.Second), 1)
	c.Reset()
	assert.Equal(t, ClockState{}, c.State())

	// A long gap across the reset must not be counted.
	s := c.Frame(t0.Add(time.Hour), 1)
	assert.Equal(t, ClockState{}, s)
	s = c.Frame(t0.Add(time.Hour+time.Second), 1)
	assert.InDelta(t, 1, s.MissionTimeSeconds, 1e-9)
}
