package sensor

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"event-horizon.klederson.com/internal/config"
	"github.com/sirupsen/logrus"
	"go.bug.st/serial"
)

// portOpener opens a serial port. Tests replace it with an in-memory pipe.
type portOpener func(name string, mode *serial.Mode) (io.ReadCloser, error)

func openSerial(name string, mode *serial.Mode) (io.ReadCloser, error) {
	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, err
	}
	return port, nil
}

// SerialLink reads newline-terminated distances from a USB serial port, the
// same payload the firmware prints on its console.
type SerialLink struct {
	baud  int
	log   logrus.FieldLogger
	open  portOpener
	ports func() ([]string, error)
}

// NewSerialLink creates a link at the given baud rate. Zero selects
// config.DefaultBaudRate.
func NewSerialLink(baud int, log logrus.FieldLogger) *SerialLink {
	if baud <= 0 {
		baud = config.DefaultBaudRate
	}
	return &SerialLink{
		baud:  baud,
		log:   log,
		open:  openSerial,
		ports: serial.GetPortsList,
	}
}

// Connect opens filter.Port, or the first port the system lists.
func (l *SerialLink) Connect(ctx context.Context, filter DeviceFilter) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoDeviceSelected, err)
	}

	name := filter.Port
	if name == "" {
		ports, err := l.ports()
		if err != nil {
			return nil, fmt.Errorf("%w: list ports: %v", ErrLinkUnavailable, err)
		}
		if len(ports) == 0 {
			return nil, fmt.Errorf("%w: no serial ports found", ErrNoDeviceSelected)
		}
		name = ports[0]
	}

	port, err := l.open(name, &serial.Mode{BaudRate: l.baud})
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrLinkUnavailable, name, err)
	}

	sess := newSession(name, port.Close)
	l.log.WithFields(logrus.Fields{"port": name, "baud": l.baud}).Info("serial sensor opened")
	go l.read(sess, port)
	return sess, nil
}

func (l *SerialLink) read(sess *Session, r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		sess.deliver(line)
	}

	if sess.closed() {
		sess.finish()
		return
	}
	err := scanner.Err()
	if err == nil {
		err = io.EOF
	}
	l.log.WithError(err).WithField("port", sess.Device()).Warn("serial sensor lost")
	sess.lose(fmt.Errorf("%w: %v", ErrUnexpectedDisconnect, err))
}
