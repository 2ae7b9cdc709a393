// Package sensor connects to the distance sensor and turns its payloads into
// a stream of readings. The BLE link talks to the ESP32 firmware, the serial
// link reads the same payload format over USB, and the mock link synthesizes
// readings for demo mode.
package sensor

import (
	"context"
	"sync"
	"sync/atomic"
)

// DeviceFilter selects the device a link connects to.
type DeviceFilter struct {
	Name string // advertised name, empty to match on service only
	Port string // serial port path, empty to pick the first one found
}

// Event is a single delivery from an active session. Exactly one of
// DistanceCm or Err is meaningful. Lost marks the final event of a session
// that ended without Close being called.
type Event struct {
	DistanceCm float64
	Err        error
	Lost       bool
}

// Link opens sensor sessions.
type Link interface {
	// Connect blocks until a session is established, ctx is cancelled or
	// the attempt fails.
	Connect(ctx context.Context, filter DeviceFilter) (*Session, error)
}

var sessionSeq atomic.Uint64

// Session is one connection to a sensor. Events is closed after a Lost
// event or after Close.
type Session struct {
	id     uint64
	device string
	events chan Event
	done   chan struct{}

	closeOnce sync.Once
	closeFn   func() error
	closeErr  error

	mu       sync.Mutex
	finished bool
}

func newSession(device string, closeFn func() error) *Session {
	return &Session{
		id:      sessionSeq.Add(1),
		device:  device,
		events:  make(chan Event, 16),
		done:    make(chan struct{}),
		closeFn: closeFn,
	}
}

// ID distinguishes sessions so events from a stale one can be dropped.
func (s *Session) ID() uint64 { return s.id }

// Device is the connected device's display name.
func (s *Session) Device() string { return s.device }

// Events returns the reading stream. It supports a single consumer.
func (s *Session) Events() <-chan Event { return s.events }

// Close ends the session and releases the device. It is safe to call more
// than once; later calls return the first result.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		if s.closeFn != nil {
			s.closeErr = s.closeFn()
		}
		s.finish()
	})
	return s.closeErr
}

// Done is closed once Close has been called.
func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// emit delivers ev unless the session has ended. It blocks while the buffer
// is full, but never past Close.
func (s *Session) emit(ev Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return false
	}
	select {
	case s.events <- ev:
		return true
	case <-s.done:
		return false
	}
}

// lose reports an unexpected end of the session and closes the stream.
// Nothing is reported once Close has been called.
func (s *Session) lose(err error) {
	if !s.closed() {
		s.emit(Event{Err: err, Lost: true})
	}
	s.finish()
}

func (s *Session) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.finished {
		s.finished = true
		close(s.events)
	}
}

// deliver parses a payload and emits either the reading or the parse error.
func (s *Session) deliver(payload []byte) {
	cm, err := ParsePayload(payload)
	if err != nil {
		s.emit(Event{Err: err})
		return
	}
	s.emit(Event{DistanceCm: cm})
}
