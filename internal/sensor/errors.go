package sensor

import "errors"

// Error kinds reported by links. Wrapped errors keep the platform detail;
// match with errors.Is.
var (
	// ErrLinkUnavailable means the adapter or port is missing or disabled.
	ErrLinkUnavailable = errors.New("sensor link unavailable")

	// ErrNoDeviceSelected means no matching device was found or chosen.
	ErrNoDeviceSelected = errors.New("no sensor device selected")

	// ErrServiceUnavailable means the device lacks the distance service or
	// characteristic.
	ErrServiceUnavailable = errors.New("distance service unavailable")

	// ErrDataFormat means a payload did not contain a finite number.
	ErrDataFormat = errors.New("malformed distance payload")

	// ErrUnexpectedDisconnect means the device dropped an active session.
	ErrUnexpectedDisconnect = errors.New("device disconnected unexpectedly")
)
