package ui

import (
	"event-horizon.klederson.com/internal/sim"
	"github.com/charmbracelet/lipgloss"
)

// Deep-space color palette
var (
	ColorCyan       = lipgloss.Color("#00E5FF")
	ColorCyanMid    = lipgloss.Color("#00A3B8")
	ColorCyanDim    = lipgloss.Color("#0B4F5C")
	ColorSpace      = lipgloss.Color("#000011")
	ColorBarBg      = lipgloss.Color("#001A24")
	ColorGreen      = lipgloss.Color("#22C55E")
	ColorYellow     = lipgloss.Color("#FACC15")
	ColorOrange     = lipgloss.Color("#F97316")
	ColorRed        = lipgloss.Color("#EF4444")
	ColorPurple     = lipgloss.Color("#A855F7")
	ColorPurplePale = lipgloss.Color("#D8B4FE")
	ColorTrack      = lipgloss.Color("#374151")
)

// Pre-built styles
var (
	StyleMenuBar = lipgloss.NewStyle().
			Background(ColorBarBg).
			Foreground(ColorCyan).
			Bold(true).
			Padding(0, 1)

	StyleMenuKey = lipgloss.NewStyle().
			Foreground(ColorCyan).
			Bold(true)

	StyleMenuLabel = lipgloss.NewStyle().
			Foreground(ColorCyanMid)

	StyleStatusBar = lipgloss.NewStyle().
			Background(ColorBarBg).
			Foreground(ColorCyanMid).
			Padding(0, 1)

	StyleLinkUp = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true)

	StyleLinkPending = lipgloss.NewStyle().
				Foreground(ColorYellow).
				Bold(true)

	StyleLinkDown = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	StylePanelBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorCyanDim)

	StylePanelAlert = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorRed)

	StylePanelHorizon = lipgloss.NewStyle().
				Border(lipgloss.DoubleBorder()).
				BorderForeground(ColorPurple)

	StyleSection = lipgloss.NewStyle().
			Foreground(ColorCyan).
			Bold(true)

	StyleLabel = lipgloss.NewStyle().
			Foreground(ColorCyanMid)

	StyleValue = lipgloss.NewStyle().
			Foreground(ColorCyan).
			Bold(true)

	StyleValueAlert = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorRed)

	StyleHelp = lipgloss.NewStyle().
			Foreground(ColorCyanDim)

	StyleSparkline = lipgloss.NewStyle().
			Foreground(ColorCyanMid)

	StyleBannerCritical = lipgloss.NewStyle().
				Foreground(ColorRed).
				Background(lipgloss.Color("#450A0A")).
				Bold(true).
				Align(lipgloss.Center)

	StyleBannerHorizon = lipgloss.NewStyle().
				Foreground(ColorPurplePale).
				Background(lipgloss.Color("#3B0764")).
				Bold(true).
				Align(lipgloss.Center)
)

// BandColor is the accent for a dilation band.
func BandColor(b sim.DilationBand) lipgloss.Color {
	switch b {
	case sim.BandHorizon:
		return ColorPurplePale
	case sim.BandCritical:
		return ColorRed
	case sim.BandSevere:
		return ColorOrange
	case sim.BandModerate:
		return ColorYellow
	default:
		return ColorCyan
	}
}

// ProximityColor colours the proximity bar by percent toward the horizon.
func ProximityColor(percent float64, horizon bool) lipgloss.Color {
	switch {
	case horizon || percent >= 99:
		return ColorPurple
	case percent > 90:
		return ColorRed
	case percent > 70:
		return ColorOrange
	case percent > 50:
		return ColorYellow
	default:
		return ColorGreen
	}
}
