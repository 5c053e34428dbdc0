package tui

import "github.com/charmbracelet/lipgloss"

const (
	cellW          = 11 // step column width
	labelVisualW   = 7  // "q[n]" label plus wire lead-in
	gateNameW      = 5
	gateBoxW       = gateNameW + 2
	controlsHeight = 5
	resultsHeight  = 16
	maxChartRows   = 8
)

// palette
const (
	colorBlue   = lipgloss.Color("#7aa2f7")
	colorPurple = lipgloss.Color("#bb9af7")
	colorAmber  = lipgloss.Color("#e0af68")
	colorGreen  = lipgloss.Color("#9ece6a")
	colorOrange = lipgloss.Color("#ff9e64")
	colorCyan   = lipgloss.Color("#7dcfff")
	colorTeal   = lipgloss.Color("#73daca")
	colorMuted  = lipgloss.Color("#565f89")
	colorRed    = lipgloss.Color("#f7768e")
	colorText   = lipgloss.Color("#c0caf5")
)

// panel returns a rounded, bordered box in color.
func panel(color lipgloss.Color, padding ...int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(padding...)
}

func fg(color lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(color)
}

var (
	circuitStyle    = panel(colorBlue, 1)
	qasmStyle       = panel(colorPurple, 1)
	resultsStyle    = panel(colorAmber, 0, 1)
	controlsStyle   = panel(colorGreen, 0, 1)
	menuBorderStyle = panel(colorOrange, 0, 1)

	titleStyle        = fg(colorOrange).Bold(true)
	cursorBoxStyle    = fg(colorOrange).Bold(true)
	menuSelectedStyle = fg(colorOrange).Bold(true)
	targetSelectStyle = fg(colorPurple).Bold(true)
	gateStyle         = fg(colorTeal).Bold(true)
	errorStyle        = fg(colorRed).Bold(true)

	activeGateStyle = fg(colorAmber)
	qubitLabelStyle = fg(colorCyan)
	barStyle        = fg(colorGreen)
	dimStyle        = fg(colorMuted)
	menuNormalStyle = fg(colorText)
)
