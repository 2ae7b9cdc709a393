package sensor

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockLink_SampleRange(t *testing.T) {
	log, _ := test.NewNullLogger()
	l := NewMockLink(log)
	l.Glitch = 0
	rng := rand.New(rand.NewSource(1))

	for step := time.Duration(0); step < l.Cycle; step += 100 * time.Millisecond {
		cm, err := ParsePayload(l.sample(step, rng))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, cm, l.MinCm)
		assert.LessOrEqual(t, cm, l.MaxCm)
	}

	far, _ := ParsePayload(l.sample(0, rng))
	near, _ := ParsePayload(l.sample(l.Cycle/2, rng))
	assert.Greater(t, far, 100.0)
	assert.Less(t, near, 5.0)
}

func TestMockLink_Glitches(t *testing.T) {
	log, _ := test.NewNullLogger()
	l := NewMockLink(log)
	l.Glitch = 1

	_, err := ParsePayload(l.sample(time.Second, rand.New(rand.NewSource(1))))
	assert.ErrorIs(t, err, ErrDataFormat)
}

func TestMockLink_Session(t *testing.T) {
	log, hook := test.NewNullLogger()
	l := NewMockLink(log)
	l.Interval = time.Millisecond
	l.Glitch = 0

	sess, err := l.Connect(context.Background(), DeviceFilter{})
	require.NoError(t, err)
	assert.Equal(t, "ESP32_AgujeroNegro (demo)", sess.Device())
	assert.Len(t, hook.AllEntries(), 1)

	for i := 0; i < 3; i++ {
		ev, ok := recv(t, sess.Events())
		require.True(t, ok)
		require.NoError(t, ev.Err)
	}

	require.NoError(t, sess.Close())
	for range sess.Events() {
	}
}

func TestMockLink_CancelledContext(t *testing.T) {
	log, _ := test.NewNullLogger()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMockLink(log).Connect(ctx, DeviceFilter{})
	assert.ErrorIs(t, err, context.Canceled)
}
