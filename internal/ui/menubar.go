package ui

import (
	"fmt"
	"strings"

	"event-horizon.klederson.com/internal/config"
	"event-horizon.klederson.com/internal/sim"
	"github.com/charmbracelet/lipgloss"
)

// RenderMenuBar renders the top menu bar.
func RenderMenuBar(width int, link sim.LinkState, source string, muted bool) string {
	title := fmt.Sprintf(" %s v%s ", config.AppName, config.AppVersion)

	keys := []struct{ key, label string }{
		{"C", "onnect"},
		{"D", "isconnect"},
		{"M", "ute"},
		{"Q", "uit"},
	}

	var menu strings.Builder
	for _, k := range keys {
		menu.WriteString("  " + StyleMenuKey.Render("["+k.key+"]") + StyleMenuLabel.Render(k.label))
	}

	audio := "AUDIO ON"
	if muted {
		audio = "MUTED"
	}

	left := StyleMenuKey.Render(title) + menu.String()
	right := LinkBadge(link) + "  " + StyleMenuLabel.Render(fmt.Sprintf("%s  %s", source, audio)) + " "

	gap := width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	return StyleMenuBar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

// LinkBadge renders the link state as a coloured tag.
func LinkBadge(link sim.LinkState) string {
	switch link {
	case sim.Connected:
		return StyleLinkUp.Render("LINKED")
	case sim.Connecting:
		return StyleLinkPending.Render("CONNECTING")
	default:
		return StyleLinkDown.Render("OFFLINE")
	}
}
