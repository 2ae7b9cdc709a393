package sensor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"event-horizon.klederson.com/internal/config"
	"github.com/sirupsen/logrus"
	"tinygo.org/x/bluetooth"
)

var (
	distanceService        = bluetooth.New16BitUUID(config.DistanceServiceUUID)
	distanceCharacteristic = bluetooth.New16BitUUID(config.DistanceCharacteristic)
)

// BLELink connects to the ESP32 over Bluetooth Low Energy and subscribes to
// the distance characteristic.
type BLELink struct {
	adapter     *bluetooth.Adapter
	log         logrus.FieldLogger
	scanTimeout time.Duration

	enableOnce sync.Once
	enableErr  error

	mu      sync.Mutex
	active  *Session
	address string
}

// NewBLELink creates a link on the system's default adapter.
func NewBLELink(log logrus.FieldLogger) *BLELink {
	return &BLELink{
		adapter:     bluetooth.DefaultAdapter,
		log:         log,
		scanTimeout: config.ScanTimeout,
	}
}

func (l *BLELink) enable() error {
	l.enableOnce.Do(func() {
		if err := l.adapter.Enable(); err != nil {
			l.enableErr = fmt.Errorf("%w: enable adapter: %v (try running with sudo or setcap cap_net_admin+ep)", ErrLinkUnavailable, err)
			return
		}
		l.adapter.SetConnectHandler(l.onConnectChange)
	})
	return l.enableErr
}

// Connect scans for the sensor, connects and enables notifications.
func (l *BLELink) Connect(ctx context.Context, filter DeviceFilter) (*Session, error) {
	if err := l.enable(); err != nil {
		return nil, err
	}

	result, err := l.scan(ctx, filter)
	if err != nil {
		return nil, err
	}
	name := result.LocalName()
	if name == "" {
		name = result.Address.String()
	}
	log := l.log.WithField("device", name)
	log.WithField("rssi", result.RSSI).Info("found sensor, connecting")

	device, err := l.adapter.Connect(result.Address, bluetooth.ConnectionParams{})
	if err != nil {
		return nil, fmt.Errorf("%w: connect %s: %v", ErrLinkUnavailable, name, err)
	}

	char, err := discoverDistance(device)
	if err != nil {
		_ = device.Disconnect()
		return nil, err
	}

	sess := newSession(name, func() error {
		l.mu.Lock()
		l.active = nil
		l.mu.Unlock()
		return device.Disconnect()
	})

	l.mu.Lock()
	l.active = sess
	l.address = result.Address.String()
	l.mu.Unlock()

	if err := char.EnableNotifications(sess.deliver); err != nil {
		_ = sess.Close()
		return nil, fmt.Errorf("%w: enable notifications: %v", ErrServiceUnavailable, err)
	}

	log.Info("subscribed to distance notifications")
	return sess, nil
}

func (l *BLELink) scan(ctx context.Context, filter DeviceFilter) (bluetooth.ScanResult, error) {
	found := make(chan bluetooth.ScanResult, 1)
	scanErr := make(chan error, 1)

	go func() {
		scanErr <- l.adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
			if !matches(result, filter) {
				return
			}
			select {
			case found <- result:
				_ = adapter.StopScan()
			default:
			}
		})
	}()

	timer := time.NewTimer(l.scanTimeout)
	defer timer.Stop()

	select {
	case result := <-found:
		return result, nil
	case err := <-scanErr:
		if err != nil {
			return bluetooth.ScanResult{}, fmt.Errorf("%w: scan: %v", ErrLinkUnavailable, err)
		}
		return bluetooth.ScanResult{}, ErrNoDeviceSelected
	case <-timer.C:
		_ = l.adapter.StopScan()
		return bluetooth.ScanResult{}, fmt.Errorf("%w: no %q found within %s", ErrNoDeviceSelected, filter.Name, l.scanTimeout)
	case <-ctx.Done():
		_ = l.adapter.StopScan()
		return bluetooth.ScanResult{}, fmt.Errorf("%w: %v", ErrNoDeviceSelected, ctx.Err())
	}
}

func matches(result bluetooth.ScanResult, filter DeviceFilter) bool {
	if filter.Name != "" && result.LocalName() == filter.Name {
		return true
	}
	return result.HasServiceUUID(distanceService)
}

func discoverDistance(device bluetooth.Device) (bluetooth.DeviceCharacteristic, error) {
	services, err := device.DiscoverServices([]bluetooth.UUID{distanceService})
	if err != nil || len(services) == 0 {
		return bluetooth.DeviceCharacteristic{}, fmt.Errorf("%w: service %s: %v", ErrServiceUnavailable, distanceService, err)
	}
	chars, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{distanceCharacteristic})
	if err != nil || len(chars) == 0 {
		return bluetooth.DeviceCharacteristic{}, fmt.Errorf("%w: characteristic %s: %v", ErrServiceUnavailable, distanceCharacteristic, err)
	}
	return chars[0], nil
}

// onConnectChange reports a dropped link on the active session.
func (l *BLELink) onConnectChange(device bluetooth.Device, connected bool) {
	if connected {
		return
	}

	l.mu.Lock()
	sess := l.active
	matched := sess != nil && device.Address.String() == l.address
	if matched {
		l.active = nil
	}
	l.mu.Unlock()

	if !matched {
		return
	}
	l.log.WithField("device", sess.Device()).Warn("sensor dropped the connection")
	go sess.lose(ErrUnexpectedDisconnect)
}
