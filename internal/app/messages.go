package app

import (
	"time"

	"event-horizon.klederson.com/internal/sensor"
)

// TickMsg triggers a frame update for animation.
type TickMsg time.Time

// connectedMsg carries a freshly opened session.
type connectedMsg struct {
	attempt uint64
	session *sensor.Session
}

// connectFailedMsg reports a failed connection attempt.
type connectFailedMsg struct {
	attempt uint64
	err     error
}

// sensorEventMsg is one delivery from the session with the given id.
type sensorEventMsg struct {
	sessionID uint64
	event     sensor.Event
}

// sessionEndedMsg means the session's event stream closed.
type sessionEndedMsg struct {
	sessionID uint64
}
