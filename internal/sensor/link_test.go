package sensor

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recv(t *testing.T, ch <-chan Event) (Event, bool) {
	t.Helper()
	select {
	case ev, ok := <-ch:
		return ev, ok
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}, false
	}
}

func TestSession_IDsAreUnique(t *testing.T) {
	a := newSession("a", nil)
	b := newSession("b", nil)
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, "a", a.Device())
}

func TestSession_CloseIsIdempotent(t *testing.T) {
	calls := 0
	boom := errors.New("release failed")
	s := newSession("dev", func() error {
		calls++
		return boom
	})

	assert.ErrorIs(t, s.Close(), boom)
	assert.ErrorIs(t, s.Close(), boom)
	assert.Equal(t, 1, calls)

	_, ok := recv(t, s.Events())
	assert.False(t, ok, "events closed after Close")
	assert.False(t, s.emit(Event{DistanceCm: 1}))
}

func TestSession_Deliver(t *testing.T) {
	s := newSession("dev", nil)
	defer s.Close()

	s.deliver([]byte("30\n42.5\n"))
	s.deliver([]byte("garbage"))

	ev, ok := recv(t, s.Events())
	require.True(t, ok)
	assert.NoError(t, ev.Err)
	assert.Equal(t, 42.5, ev.DistanceCm)

	ev, ok = recv(t, s.Events())
	require.True(t, ok)
	assert.ErrorIs(t, ev.Err, ErrDataFormat)
	assert.False(t, ev.Lost)
}

func TestSession_LoseEndsStream(t *testing.T) {
	s := newSession("dev", nil)

	s.lose(ErrUnexpectedDisconnect)

	ev, ok := recv(t, s.Events())
	require.True(t, ok)
	assert.True(t, ev.Lost)
	assert.ErrorIs(t, ev.Err, ErrUnexpectedDisconnect)

	_, ok = recv(t, s.Events())
	assert.False(t, ok)
	assert.NoError(t, s.Close())
}

func TestSession_LoseAfterCloseIsSilent(t *testing.T) {
	s := newSession("dev", nil)
	require.NoError(t, s.Close())

	s.lose(ErrUnexpectedDisconnect)
	_, ok := recv(t, s.Events())
	assert.False(t, ok)
}

func TestSession_CloseUnblocksFullBuffer(t *testing.T) {
	s := newSession("dev", nil)
	for i := 0; i < cap(s.events); i++ {
		require.True(t, s.emit(Event{DistanceCm: float64(i)}))
	}

	blocked := make(chan bool)
	go func() { blocked <- s.emit(Event{DistanceCm: 99}) }()

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, s.Close())

	select {
	case delivered := <-blocked:
		assert.False(t, delivered)
	case <-time.After(2 * time.Second):
		t.Fatal("emit still blocked after Close")
	}
}
