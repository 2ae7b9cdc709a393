package sensor

import (
	"context"
	"math"
	"math/rand"
	"strconv"
	"time"

	"event-horizon.klederson.com/internal/config"
	"github.com/sirupsen/logrus"
)

// MockLink fakes a sensor for demo mode: the ship drifts toward the hole and
// back on a slow cycle, with sensor noise and the odd corrupted packet.
type MockLink struct {
	Interval time.Duration
	Cycle    time.Duration
	MinCm    float64
	MaxCm    float64
	Glitch   float64 // probability of a malformed payload per sample

	log  logrus.FieldLogger
	seed func() int64
}

// NewMockLink returns a demo link with the default cadence.
func NewMockLink(log logrus.FieldLogger) *MockLink {
	return &MockLink{
		Interval: config.DemoSampleInterval,
		Cycle:    config.DemoCycle,
		MinCm:    2,
		MaxCm:    110,
		Glitch:   0.02,
		log:      log,
		seed:     func() int64 { return time.Now().UnixNano() },
	}
}

// Connect starts a synthetic session immediately.
func (l *MockLink) Connect(ctx context.Context, filter DeviceFilter) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := filter.Name
	if name == "" {
		name = config.DefaultDeviceName
	}

	runCtx, cancel := context.WithCancel(context.Background())
	sess := newSession(name+" (demo)", func() error {
		cancel()
		return nil
	})
	l.log.WithField("device", sess.Device()).Info("demo sensor connected")

	go l.loop(runCtx, sess, rand.New(rand.NewSource(l.seed())))
	return sess, nil
}

func (l *MockLink) loop(ctx context.Context, sess *Session, rng *rand.Rand) {
	ticker := time.NewTicker(l.Interval)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			sess.deliver(l.sample(now.Sub(start), rng))
		}
	}
}

// sample renders the reading at elapsed time t as a firmware payload.
func (l *MockLink) sample(t time.Duration, rng *rand.Rand) []byte {
	if rng.Float64() < l.Glitch {
		return []byte("ERR\n")
	}

	mid := (l.MaxCm + l.MinCm) / 2
	amp := (l.MaxCm - l.MinCm) / 2
	phase := 2 * math.Pi * t.Seconds() / l.Cycle.Seconds()
	cm := mid + amp*math.Cos(phase) + (rng.Float64()-0.5)*1.5
	cm = math.Max(l.MinCm, math.Min(l.MaxCm, cm))

	return []byte(formatCm(cm))
}

func formatCm(cm float64) string {
	return strconv.FormatFloat(cm, 'f', 1, 64) + "\n"
}
