package sim

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"event-horizon.klederson.com/internal/audio"
	"event-horizon.klederson.com/internal/config"
	"event-horizon.klederson.com/internal/timeutil"
	"github.com/sirupsen/logrus"
)

// ErrSessionActive is returned by BeginConnect while a session is connecting
// or connected.
var ErrSessionActive = errors.New("a sensor session is already active")

// Telemetry receives simulation events. metrics.Collector implements it.
type Telemetry interface {
	SampleApplied(PhysicalState)
	WarningFired()
	ProximityAlert(intensity int)
	HorizonCrossed()
	LinkChanged(connected bool)
	LinkError(err error)
	Frame(ClockState)
}

type nopTelemetry struct{}

func (nopTelemetry) SampleApplied(PhysicalState) {}
func (nopTelemetry) WarningFired()               {}
func (nopTelemetry) ProximityAlert(int)          {}
func (nopTelemetry) HorizonCrossed()             {}
func (nopTelemetry) LinkChanged(bool)            {}
func (nopTelemetry) LinkError(error)             {}
func (nopTelemetry) Frame(ClockState)            {}

// Options are the collaborators of a Simulation. Zero values are replaced by
// silent defaults.
type Options struct {
	Clock     timeutil.Clock
	Player    audio.Player
	Logger    logrus.FieldLogger
	Telemetry Telemetry
}

// Simulation owns every piece of simulation state. It is not safe for
// concurrent use: samples, frames and link events must be serialized by the
// caller (the Bubble Tea update loop does this).
type Simulation struct {
	tuning config.Tuning
	mapper Mapper
	alerts AlertEvaluator
	clocks *ClockPair
	flash  *FlashPulse

	player    audio.Player
	log       logrus.FieldLogger
	telemetry Telemetry

	link       LinkState
	device     string
	status     string
	lastErr    error
	sensorCm   float64
	hasReading bool

	physical     PhysicalState
	motion       MotionState
	prevDistance float64
	alert        AlertState
}

// New creates a simulation in the resting state.
func New(t config.Tuning, opts Options) *Simulation {
	if opts.Clock == nil {
		opts.Clock = timeutil.RealClock{}
	}
	if opts.Player == nil {
		opts.Player = audio.Nop{}
	}
	if opts.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		opts.Logger = l
	}
	if opts.Telemetry == nil {
		opts.Telemetry = nopTelemetry{}
	}

	s := &Simulation{
		tuning:    t,
		mapper:    NewMapper(t),
		alerts:    NewAlertEvaluator(t),
		clocks:    NewClockPair(t.BaseRate),
		flash:     NewFlashPulse(opts.Clock, config.HorizonFlashDuration),
		player:    opts.Player,
		log:       opts.Logger,
		telemetry: opts.Telemetry,
		status:    "Disconnected",
	}
	s.reset()
	return s
}

// Start begins the ambient soundtrack.
func (s *Simulation) Start() {
	s.player.SetLooping(audio.ClipAmbient, true, config.AmbientVolume)
}

// Close cancels pending timers and silences every loop.
func (s *Simulation) Close() {
	s.flash.Cancel()
	s.player.SetLooping(audio.ClipTimeDistortion, false, config.TimeDistortionVolume)
	s.player.SetLooping(audio.ClipSingularity, false, config.SingularityVolume)
	s.player.SetLooping(audio.ClipAmbient, false, config.AmbientVolume)
}

// BeginConnect moves Disconnected -> Connecting.
func (s *Simulation) BeginConnect() error {
	if s.link != Disconnected {
		return ErrSessionActive
	}
	s.link = Connecting
	s.status = "Connecting..."
	s.lastErr = nil
	s.log.Info("connecting to sensor")
	return nil
}

// Connected moves Connecting -> Connected. The first reading is awaited
// against a fresh motion baseline.
func (s *Simulation) Connected(device string) {
	s.link = Connected
	s.device = device
	s.status = fmt.Sprintf("Connected to %s", device)
	s.prevDistance = s.tuning.MaxSimDistance
	s.alert.horizonLatched = false
	s.hasReading = false
	s.sensorCm = 0

	s.log.WithField("device", device).Info("sensor connected")
	s.telemetry.LinkChanged(true)
	s.Start()
}

// ConnectFailed moves Connecting -> Disconnected and surfaces err.
func (s *Simulation) ConnectFailed(err error) {
	s.link = Disconnected
	s.status = "Connection failed"
	s.lastErr = err
	s.log.WithError(err).Error("sensor connection failed")
	s.telemetry.LinkError(err)
}

// LinkError surfaces an error from an active link. It never disconnects by
// itself, and the last valid physical state persists.
func (s *Simulation) LinkError(err error) {
	if err == nil {
		return
	}
	s.lastErr = err
	s.status = "Device error"
	s.log.WithError(err).Warn("sensor link error")
	s.telemetry.LinkError(err)
}

// Disconnected resets every entity to its resting value in one step and
// stops both loop sounds.
func (s *Simulation) Disconnected() {
	wasConnected := s.link == Connected
	s.link = Disconnected
	s.device = ""
	s.status = "Disconnected"
	s.reset()

	s.player.SetLooping(audio.ClipTimeDistortion, false, config.TimeDistortionVolume)
	s.player.SetLooping(audio.ClipSingularity, false, config.SingularityVolume)

	s.log.Info("sensor disconnected")
	if wasConnected {
		s.telemetry.LinkChanged(false)
	}
}

func (s *Simulation) reset() {
	s.flash.Cancel()
	s.clocks.Reset()
	s.hasReading = false
	s.sensorCm = 0
	s.physical = s.mapper.Rest()
	s.motion = MotionState{}
	s.prevDistance = s.tuning.MaxSimDistance
	s.alert = s.alerts.Initial()
}

// ApplySample maps one reading and fires the sounds it triggers. Readings
// outside a connected session are ignored.
func (s *Simulation) ApplySample(cm float64) {
	if s.link != Connected {
		return
	}
	if math.IsNaN(cm) || math.IsInf(cm, 0) {
		s.LinkError(fmt.Errorf("discarding non-finite reading %v", cm))
		return
	}

	s.sensorCm = cm
	s.hasReading = true

	wasHorizon := s.physical.HorizonReached
	s.physical = s.mapper.Map(cm, true)
	s.motion = Diff(s.prevDistance, s.physical.DisplayDistance)
	s.prevDistance = s.physical.DisplayDistance

	var dir SoundDirectives
	s.alert, dir = s.alerts.Evaluate(s.physical, s.motion, s.alert, true)
	s.apply(dir)

	if s.physical.HorizonReached && !wasHorizon {
		s.log.WithField("distance_cm", cm).Info("event horizon reached")
		s.telemetry.HorizonCrossed()
	}
	s.telemetry.SampleApplied(s.physical)
}

func (s *Simulation) apply(dir SoundDirectives) {
	if dir.Warning {
		s.player.Play(audio.ClipWarning, 1)
		s.telemetry.WarningFired()
	}
	if dir.ProximityIntensity > 0 {
		s.player.Play(audio.ClipProximityPulse, ProximityVolume(dir.ProximityIntensity))
		s.telemetry.ProximityAlert(dir.ProximityIntensity)
	}
	if dir.ArmHorizonFlash {
		s.flash.Arm()
	}
	s.player.SetLooping(audio.ClipTimeDistortion, dir.TimeDistortion, config.TimeDistortionVolume)
	s.player.SetLooping(audio.ClipSingularity, dir.Singularity, config.SingularityVolume)
}

// Frame advances the clocks for an animation frame at ts.
func (s *Simulation) Frame(ts time.Time) ClockState {
	cs := s.clocks.Frame(ts, s.physical.DilationFactor)
	s.telemetry.Frame(cs)
	return cs
}

// Snapshot aggregates the current state for rendering.
func (s *Simulation) Snapshot() PresentationState {
	t := s.tuning
	flash := s.flash.Active()

	dir := Stationary
	switch {
	case s.motion.Approaching:
		dir = Approaching
	case s.motion.Speed > t.MaxSimDistance*0.0001:
		dir = Receding
	}

	errText := ""
	if s.lastErr != nil {
		errText = s.lastErr.Error()
	}

	return PresentationState{
		PhysicalState:    s.physical,
		MotionState:      s.motion,
		ClockState:       s.clocks.State(),
		Warning:          s.alert.WarningActive,
		Critical:         s.alert.CriticalActive,
		HorizonFlash:     flash,
		Direction:        dir,
		Band:             BandFor(s.physical.DilationFactor, s.physical.HorizonReached),
		ProximityPercent: clamp((t.MaxSimDistance-s.physical.DisplayDistance)/math.Max(1, t.MaxSimDistance-t.MinSimDistance)*100, 0, 100),
		Link:             s.link,
		Device:           s.device,
		Status:           s.status,
		Error:            errText,
		SensorCm:         s.sensorCm,
		HasReading:       s.hasReading,
	}
}

// Alerts returns the alert state with the live flash flag.
func (s *Simulation) Alerts() AlertState {
	a := s.alert
	a.HorizonFlashActive = s.flash.Active()
	return a
}

// Link returns the lifecycle state.
func (s *Simulation) Link() LinkState {
	return s.link
}

// Tuning returns the curve constants in use.
func (s *Simulation) Tuning() config.Tuning {
	return s.tuning
}
