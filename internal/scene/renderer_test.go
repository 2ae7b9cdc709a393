package scene

import (
	"strings"
	"testing"

	"event-horizon.klederson.com/internal/config"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScene_ViewDimensions(t *testing.T) {
	s := New(config.DefaultTuning(), 1)
	s.Step(1.0/30, restParams, 60, 20)

	out := s.View()
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 20)
	for i, line := range lines {
		assert.Equal(t, 60, lipgloss.Width(line), "line %d", i)
	}
	assert.Contains(t, out, "▶")
}

func TestScene_HorizonDrawsDisk(t *testing.T) {
	s := New(config.DefaultTuning(), 1)
	f := s.Step(1.0/30, horizonParams, 60, 20)

	assert.NotZero(t, f.ShakeX+f.ShakeY)
	assert.LessOrEqual(t, f.ShakeX, 0.5)
	assert.Contains(t, s.View(), "▓")
}

func TestScene_TooSmall(t *testing.T) {
	s := New(config.DefaultTuning(), 1)
	s.Step(1.0/30, restParams, 8, 4)
	assert.Empty(t, s.View())
}

func TestScene_TrailFollowsApproach(t *testing.T) {
	s := New(config.DefaultTuning(), 1)
	p := restParams
	p.DisplayDistance = 20000
	p.Speed = 3000
	p.Approaching = true

	for i := 0; i < 5; i++ {
		s.Step(1.0/30, p, 80, 24)
	}
	assert.Len(t, s.Trail(), 5)

	s.Reset()
	assert.Empty(t, s.Trail())
}

func TestLegend(t *testing.T) {
	l := Legend(80)
	assert.Contains(t, l, "accretion disk")
	assert.GreaterOrEqual(t, 80, lipgloss.Width(l))
}
