package ui

import "event-horizon.klederson.com/internal/sim"

// RenderScenePanel wraps the scene with a border that turns red in the
// critical zone and purple at the horizon. The scene itself is drawn by the
// scene package.
func RenderScenePanel(width, height int, content, legend string, s sim.PresentationState) string {
	style := StylePanelBorder
	switch {
	case s.HorizonReached:
		style = StylePanelHorizon
	case s.Critical:
		style = StylePanelAlert
	}
	return style.Width(width - 2).Height(height - 2).Render(content + "\n" + legend)
}
