package ui

import "github.com/charmbracelet/lipgloss"

// ComposeLayout joins the scene and control panel horizontally, with the
// menu bar on top and the banner (when present) and status bar at the
// bottom.
func ComposeLayout(menuBar, scenePanel, controlPanel, banner, statusBar string) string {
	middle := lipgloss.JoinHorizontal(lipgloss.Top, scenePanel, controlPanel)
	if banner == "" {
		return lipgloss.JoinVertical(lipgloss.Left, menuBar, middle, statusBar)
	}
	return lipgloss.JoinVertical(lipgloss.Left, menuBar, middle, banner, statusBar)
}
