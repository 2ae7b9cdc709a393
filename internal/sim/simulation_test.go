package sim

import (
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"event-horizon.klederson.com/internal/audio"
	"event-horizon.klederson.com/internal/config"
	"event-horizon.klederson.com/internal/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPlayer struct {
	mu    sync.Mutex
	plays []audio.Clip
	vols  []float64
	loops map[audio.Clip]bool
}

func newRecordingPlayer() *recordingPlayer {
	return &recordingPlayer{loops: make(map[audio.Clip]bool)}
}

func (p *recordingPlayer) Play(clip audio.Clip, volume float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.plays = append(p.plays, clip)
	p.vols = append(p.vols, volume)
}

func (p *recordingPlayer) SetLooping(clip audio.Clip, active bool, _ float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loops[clip] = active
}

func (p *recordingPlayer) looping(clip audio.Clip) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loops[clip]
}

func (p *recordingPlayer) count(clip audio.Clip) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, c := range p.plays {
		if c == clip {
			n++
		}
	}
	return n
}

type recordingTelemetry struct {
	samples, warnings, horizons, errs int
	links                             []bool
	intensities                       []int
}

func (r *recordingTelemetry) SampleApplied(PhysicalState) { r.samples++ }
func (r *recordingTelemetry) WarningFired()               { r.warnings++ }
func (r *recordingTelemetry) ProximityAlert(i int)        { r.intensities = append(r.intensities, i) }
func (r *recordingTelemetry) HorizonCrossed()             { r.horizons++ }
func (r *recordingTelemetry) LinkChanged(c bool)          { r.links = append(r.links, c) }
func (r *recordingTelemetry) LinkError(error)             { r.errs++ }
func (r *recordingTelemetry) Frame(ClockState)            {}

type fixture struct {
	sim       *Simulation
	clock     *timeutil.MockClock
	player    *recordingPlayer
	telemetry *recordingTelemetry
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	f := fixture{
		clock:     timeutil.NewMockClock(time.Unix(0, 0)),
		player:    newRecordingPlayer(),
		telemetry: &recordingTelemetry{},
	}
	f.sim = New(config.DefaultTuning(), Options{
		Clock:     f.clock,
		Player:    f.player,
		Telemetry: f.telemetry,
	})
	return f
}

func (f fixture) connect(t *testing.T) {
	t.Helper()
	require.NoError(t, f.sim.BeginConnect())
	f.sim.Connected("ESP32_AgujeroNegro")
}

func TestSimulation_InitialSnapshot(t *testing.T) {
	f := newFixture(t)

	s := f.sim.Snapshot()
	assert.Equal(t, Disconnected, s.Link)
	assert.Equal(t, "Disconnected", s.Status)
	assert.Equal(t, 50000.0, s.DisplayDistance)
	assert.Equal(t, 1.0, s.DilationFactor)
	assert.False(t, s.HorizonReached)
	assert.Equal(t, ClockState{}, s.ClockState)
	assert.Equal(t, Stationary, s.Direction)
	assert.Equal(t, BandNominal, s.Band)
	assert.Zero(t, s.ProximityPercent)
	assert.False(t, s.HasReading)
}

func TestSimulation_SamplesIgnoredWhileDisconnected(t *testing.T) {
	f := newFixture(t)
	before := f.sim.Snapshot()

	f.sim.ApplySample(3)
	assert.Equal(t, before, f.sim.Snapshot())
	assert.Empty(t, f.player.plays)
	assert.Zero(t, f.telemetry.samples)

	require.NoError(t, f.sim.BeginConnect())
	f.sim.ApplySample(3)
	assert.Equal(t, Connecting, f.sim.Link())
	assert.False(t, f.sim.Snapshot().HorizonReached, "no samples before the session is up")
}

func TestSimulation_ConnectLifecycle(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.sim.BeginConnect())
	assert.ErrorIs(t, f.sim.BeginConnect(), ErrSessionActive)

	f.sim.Connected("ESP32_AgujeroNegro")
	s := f.sim.Snapshot()
	assert.Equal(t, Connected, s.Link)
	assert.Equal(t, "ESP32_AgujeroNegro", s.Device)
	assert.Equal(t, "Connected to ESP32_AgujeroNegro", s.Status)
	assert.True(t, f.player.looping(audio.ClipAmbient))
	assert.Equal(t, []bool{true}, f.telemetry.links)
	assert.ErrorIs(t, f.sim.BeginConnect(), ErrSessionActive)
}

func TestSimulation_ConnectFailed(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("adapter off")

	require.NoError(t, f.sim.BeginConnect())
	f.sim.ConnectFailed(boom)

	s := f.sim.Snapshot()
	assert.Equal(t, Disconnected, s.Link)
	assert.Equal(t, "adapter off", s.Error)
	assert.Equal(t, 1, f.telemetry.errs)
	assert.NoError(t, f.sim.BeginConnect(), "a failed attempt can be retried")
}

func TestSimulation_ApproachToHorizon(t *testing.T) {
	f := newFixture(t)
	f.connect(t)

	f.sim.ApplySample(52.5)
	s := f.sim.Snapshot()
	assert.InDelta(t, 25005, s.DisplayDistance, 1e-9)
	assert.InDelta(t, 2, s.DilationFactor, 1e-9)
	assert.True(t, s.Approaching)
	assert.Equal(t, Approaching, s.Direction)
	assert.InDelta(t, 24995, s.Speed, 1e-9)
	assert.InDelta(t, 50, s.ProximityPercent, 0.01)
	assert.Zero(t, f.player.count(audio.ClipWarning))

	f.sim.ApplySample(3)
	s = f.sim.Snapshot()
	assert.True(t, s.HorizonReached)
	assert.Equal(t, 10.0, s.DisplayDistance)
	assert.Equal(t, 5000.0, s.DilationFactor)
	assert.True(t, s.HorizonFlash)
	assert.True(t, s.Critical)
	assert.Equal(t, BandHorizon, s.Band)
	assert.InDelta(t, 100, s.ProximityPercent, 1e-9)

	assert.Equal(t, 1, f.player.count(audio.ClipWarning))
	assert.Equal(t, 1, f.player.count(audio.ClipProximityPulse))
	assert.True(t, f.player.looping(audio.ClipSingularity))
	assert.False(t, f.player.looping(audio.ClipTimeDistortion))
	assert.Equal(t, []int{5}, f.telemetry.intensities)
	assert.Equal(t, 1, f.telemetry.horizons)
	assert.Equal(t, 2, f.telemetry.samples)
}

func TestSimulation_FlashExpiresWhileHorizonHolds(t *testing.T) {
	f := newFixture(t)
	f.connect(t)

	f.sim.ApplySample(3)
	require.True(t, f.sim.Alerts().HorizonFlashActive)

	f.clock.Advance(749 * time.Millisecond)
	f.sim.ApplySample(3)
	assert.True(t, f.sim.Alerts().HorizonFlashActive)

	f.clock.Advance(time.Millisecond)
	assert.False(t, f.sim.Alerts().HorizonFlashActive)

	f.sim.ApplySample(2)
	f.clock.Advance(time.Second)
	f.sim.ApplySample(3)
	assert.False(t, f.sim.Alerts().HorizonFlashActive, "a held horizon never re-arms the flash")
	assert.True(t, f.sim.Snapshot().HorizonReached)

	f.sim.ApplySample(60)
	f.sim.ApplySample(3)
	assert.True(t, f.sim.Alerts().HorizonFlashActive, "leaving and re-entering arms again")
}

func TestSimulation_ErrorsKeepSession(t *testing.T) {
	f := newFixture(t)
	f.connect(t)

	f.sim.ApplySample(52.5)
	before := f.sim.Snapshot()

	f.sim.LinkError(errors.New("garbled payload"))
	f.sim.ApplySample(math.NaN())

	s := f.sim.Snapshot()
	assert.Equal(t, Connected, s.Link)
	assert.Equal(t, before.PhysicalState, s.PhysicalState)
	assert.Contains(t, s.Error, "non-finite")
	assert.Equal(t, 2, f.telemetry.errs)
}

func TestSimulation_DisconnectResetsEverything(t *testing.T) {
	f := newFixture(t)
	initial := f.sim.Snapshot()
	f.connect(t)

	t0 := time.Unix(100, 0)
	f.sim.Frame(t0)
	f.sim.ApplySample(40)
	f.sim.Frame(t0.Add(2 * time.Second))
	f.sim.ApplySample(3)
	require.True(t, f.sim.Snapshot().HorizonFlash)
	require.NotZero(t, f.sim.Snapshot().MissionTimeSeconds)

	f.sim.Disconnected()

	s := f.sim.Snapshot()
	assert.Equal(t, Disconnected, s.Link)
	assert.Equal(t, initial.PhysicalState, s.PhysicalState)
	assert.Equal(t, initial.MotionState, s.MotionState)
	assert.Equal(t, initial.ClockState, s.ClockState)
	assert.False(t, s.Warning)
	assert.False(t, s.Critical)
	assert.False(t, s.HorizonFlash)
	assert.Empty(t, s.Device)
	assert.False(t, s.HasReading)
	assert.Zero(t, f.clock.Pending(), "disconnect cancels the flash timer")
	assert.False(t, f.player.looping(audio.ClipSingularity))
	assert.False(t, f.player.looping(audio.ClipTimeDistortion))
	assert.Equal(t, []bool{true, false}, f.telemetry.links)

	assert.Equal(t, f.sim.alerts.Initial(), f.sim.alert)
}

func TestSimulation_FrameDrivesClocks(t *testing.T) {
	f := newFixture(t)
	f.connect(t)
	f.sim.ApplySample(52.5)

	t0 := time.Unix(100, 0)
	assert.Equal(t, ClockState{}, f.sim.Frame(t0))

	cs := f.sim.Frame(t0.Add(time.Second))
	assert.InDelta(t, 1, cs.MissionTimeSeconds, 1e-9)
	assert.InDelta(t, 0.5, cs.ShipTimeSeconds, 1e-9)
}

func TestSimulation_CloseSilencesLoops(t *testing.T) {
	f := newFixture(t)
	f.connect(t)
	f.sim.ApplySample(3)

	f.sim.Close()
	assert.False(t, f.player.looping(audio.ClipAmbient))
	assert.False(t, f.player.looping(audio.ClipSingularity))
	assert.False(t, f.sim.Alerts().HorizonFlashActive)
}
