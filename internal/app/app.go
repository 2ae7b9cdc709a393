package app

import (
	"context"
	"io"
	"time"

	"event-horizon.klederson.com/internal/audio"
	"event-horizon.klederson.com/internal/config"
	"event-horizon.klederson.com/internal/scene"
	"event-horizon.klederson.com/internal/sensor"
	"event-horizon.klederson.com/internal/sim"
	"event-horizon.klederson.com/internal/timeutil"
	"event-horizon.klederson.com/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

// Options wires the model to its collaborators.
type Options struct {
	Link   sensor.Link
	Filter sensor.DeviceFilter
	Source string // shown in the menu bar: BLE, SERIAL or DEMO

	Tuning    config.Tuning
	Player    *audio.Muter
	Clock     timeutil.Clock
	Logger    logrus.FieldLogger
	Telemetry sim.Telemetry

	// AutoConnect opens a session as soon as the program starts.
	AutoConnect bool
	// Seed fixes the starfield; zero picks one from the clock.
	Seed int64
}

// shared holds state shared between the Bubble Tea model copies and main.go.
// Because Bubble Tea uses value receivers, pointer fields ensure all copies
// see the same underlying data.
type shared struct {
	sim   *sim.Simulation
	scene *scene.Scene
	trace []float64 // recent display distances, oldest first

	session   *sensor.Session
	cancel    context.CancelFunc
	attempt   uint64
	lastFrame time.Time
}

// Model is the root Bubble Tea model for the simulator.
type Model struct {
	width  int
	height int

	opts   Options
	log    logrus.FieldLogger
	shared *shared

	// Cached snapshot
	snapshot sim.PresentationState
}

// New creates a Model.
func New(opts Options) Model {
	if opts.Player == nil {
		opts.Player = audio.NewMuter(audio.Nop{}, true)
	}
	if opts.Clock == nil {
		opts.Clock = timeutil.RealClock{}
	}
	if opts.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		opts.Logger = l
	}
	if opts.Seed == 0 {
		opts.Seed = opts.Clock.Now().UnixNano()
	}

	s := sim.New(opts.Tuning, sim.Options{
		Clock:     opts.Clock,
		Player:    opts.Player,
		Logger:    opts.Logger,
		Telemetry: opts.Telemetry,
	})

	m := Model{
		opts: opts,
		log:  opts.Logger,
		shared: &shared{
			sim:   s,
			scene: scene.New(opts.Tuning, opts.Seed),
		},
	}
	m.snapshot = s.Snapshot()
	return m
}

func (m Model) Init() tea.Cmd {
	m.shared.sim.Start()
	if m.opts.AutoConnect {
		return tea.Batch(tickCmd(), m.connect())
	}
	return tickCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		m.frame(time.Time(msg))
		return m, tickCmd()

	case connectedMsg:
		return m.handleConnected(msg)

	case connectFailedMsg:
		if msg.attempt != m.shared.attempt {
			return m, nil
		}
		m.releaseAttempt()
		if m.shared.sim.Link() == sim.Connecting {
			m.shared.sim.ConnectFailed(msg.err)
		}
		m.snapshot = m.shared.sim.Snapshot()
		return m, nil

	case sensorEventMsg:
		return m.handleEvent(msg)

	case sessionEndedMsg:
		if m.shared.session != nil && m.shared.session.ID() == msg.sessionID {
			m.endSession()
		}
		m.snapshot = m.shared.sim.Snapshot()
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		m.Shutdown()
		return m, tea.Quit

	case "c", "C":
		cmd := m.connect()
		m.snapshot = m.shared.sim.Snapshot()
		return m, cmd

	case "d", "D":
		m.disconnect()
		m.snapshot = m.shared.sim.Snapshot()

	case "m", "M":
		muted := m.opts.Player.Toggle()
		m.log.WithField("muted", muted).Info("audio toggled")
	}

	return m, nil
}

// connect starts a connection attempt unless a session is already active.
func (m Model) connect() tea.Cmd {
	if err := m.shared.sim.BeginConnect(); err != nil {
		m.log.WithError(err).Debug("connect ignored")
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.shared.cancel = cancel
	m.shared.attempt++
	attempt := m.shared.attempt
	link, filter := m.opts.Link, m.opts.Filter

	return func() tea.Msg {
		sess, err := link.Connect(ctx, filter)
		if err != nil {
			return connectFailedMsg{attempt: attempt, err: err}
		}
		return connectedMsg{attempt: attempt, session: sess}
	}
}

func (m Model) handleConnected(msg connectedMsg) (tea.Model, tea.Cmd) {
	sess := msg.session
	if msg.attempt != m.shared.attempt || m.shared.sim.Link() != sim.Connecting {
		// Disconnected while the attempt was in flight.
		_ = sess.Close()
		return m, nil
	}
	m.releaseAttempt()

	m.shared.session = sess
	m.shared.trace = nil
	m.shared.sim.Connected(sess.Device())
	m.log.WithFields(logrus.Fields{"session": sess.ID(), "device": sess.Device()}).Info("session started")
	m.snapshot = m.shared.sim.Snapshot()
	return m, waitForEvent(sess)
}

func (m Model) handleEvent(msg sensorEventMsg) (tea.Model, tea.Cmd) {
	sess := m.shared.session
	if sess == nil || sess.ID() != msg.sessionID {
		return m, nil
	}

	ev := msg.event
	switch {
	case ev.Lost:
		m.shared.sim.LinkError(ev.Err)
		m.endSession()
		m.snapshot = m.shared.sim.Snapshot()
		return m, nil
	case ev.Err != nil:
		m.shared.sim.LinkError(ev.Err)
	default:
		m.shared.sim.ApplySample(ev.DistanceCm)
		snap := m.shared.sim.Snapshot()
		m.shared.trace = appendTrace(m.shared.trace, snap.DisplayDistance, config.DistanceHistoryLen)
	}

	m.snapshot = m.shared.sim.Snapshot()
	return m, waitForEvent(sess)
}

// releaseAttempt cancels the context of the pending connection attempt.
func (m Model) releaseAttempt() {
	if m.shared.cancel != nil {
		m.shared.cancel()
		m.shared.cancel = nil
	}
}

// disconnect tears down the session or the pending attempt.
func (m Model) disconnect() {
	m.releaseAttempt()
	if m.shared.sim.Link() == sim.Disconnected {
		return
	}
	m.endSession()
}

func (m Model) endSession() {
	if sess := m.shared.session; sess != nil {
		if err := sess.Close(); err != nil {
			m.log.WithError(err).WithField("session", sess.ID()).Warn("closing session")
		}
		m.shared.session = nil
	}
	m.shared.sim.Disconnected()
	m.shared.scene.Reset()
	m.shared.trace = nil
}

// Shutdown releases the session and silences audio. Safe to call twice.
func (m Model) Shutdown() {
	m.releaseAttempt()
	if sess := m.shared.session; sess != nil {
		_ = sess.Close()
		m.shared.session = nil
	}
	m.shared.sim.Close()
}

func (m *Model) frame(ts time.Time) {
	dt := 0.0
	if !m.shared.lastFrame.IsZero() {
		dt = ts.Sub(m.shared.lastFrame).Seconds()
	}
	m.shared.lastFrame = ts

	m.shared.sim.Frame(ts)
	m.snapshot = m.shared.sim.Snapshot()

	l := m.layout()
	m.shared.scene.Step(dt, m.snapshot.Render(), l.sceneCols, l.sceneRows)
}

type layout struct {
	bodyH                int
	sceneW, panelW       int
	sceneCols, sceneRows int
}

const bannerH = 2

func (m Model) layout() layout {
	bodyH := m.height - 2 - bannerH
	if bodyH < 8 {
		bodyH = 8
	}

	panelW := 46
	if m.width-panelW < 30 {
		panelW = m.width - 30
	}
	if panelW < 24 {
		panelW = 24
	}
	sceneW := m.width - panelW
	if sceneW < 12 {
		sceneW = 12
	}

	return layout{
		bodyH:     bodyH,
		sceneW:    sceneW,
		panelW:    panelW,
		sceneCols: sceneW - 2,
		sceneRows: bodyH - 3, // border and legend
	}
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing EVENT-HORIZON..."
	}

	s := m.snapshot
	l := m.layout()

	menuBar := ui.RenderMenuBar(m.width, s.Link, m.opts.Source, m.opts.Player.Muted())

	content := m.shared.scene.View()
	scenePanel := ui.RenderScenePanel(l.sceneW, l.bodyH, content, scene.Legend(l.sceneCols), s)
	controlPanel := ui.RenderControlPanel(s, m.shared.trace, l.panelW, l.bodyH)

	banner := ui.RenderBanner(m.width, s)
	if banner == "" {
		banner = "\n"
	}

	statusBar := ui.RenderStatusBar(m.width, s)

	return ui.ComposeLayout(menuBar, scenePanel, controlPanel, banner, statusBar)
}

// Snapshot returns the state shown by the last update.
func (m Model) Snapshot() sim.PresentationState {
	return m.snapshot
}

// appendTrace adds v and keeps only the newest n values.
func appendTrace(trace []float64, v float64, n int) []float64 {
	trace = append(trace, v)
	if len(trace) > n {
		trace = trace[len(trace)-n:]
	}
	return trace
}

func waitForEvent(sess *sensor.Session) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-sess.Events()
		if !ok {
			return sessionEndedMsg{sessionID: sess.ID()}
		}
		return sensorEventMsg{sessionID: sess.ID(), event: ev}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(config.TargetFPS), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
