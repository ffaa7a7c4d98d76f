package styles

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha palette
var (
	Base     = lipgloss.Color("#1e1e2e")
	Surface0 = lipgloss.Color("#313244")
	Surface1 = lipgloss.Color("#45475a")
	Surface2 = lipgloss.Color("#585b70")
	Subtext0 = lipgloss.Color("#a6adc8")
	Subtext1 = lipgloss.Color("#bac2de")
	Text     = lipgloss.Color("#cdd6f4")

	Blue   = lipgloss.Color("#89b4fa")
	Green  = lipgloss.Color("#a6e3a1")
	Yellow = lipgloss.Color("#f9e2af")
	Peach  = lipgloss.Color("#fab387")
	Red    = lipgloss.Color("#f38ba8")
	Mauve  = lipgloss.Color("#cba6f7")
)

var (
	// Header styles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Mauve).
			Background(Surface0).
			Padding(0, 1)

	// Status styles
	StatusIdleStyle = lipgloss.NewStyle().
			Foreground(Subtext0).
			Bold(true)

	StatusArmingStyle = lipgloss.NewStyle().
				Foreground(Yellow).
				Bold(true)

	StatusConfirmedStyle = lipgloss.NewStyle().
				Foreground(Green).
				Bold(true)

	StatusFailedStyle = lipgloss.NewStyle().
				Foreground(Red).
				Bold(true)

	// Content area styles
	ContentBorderStyle = lipgloss.NewStyle().
				BorderTop(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(Surface1)

	// Big status banner on the arm screen
	BannerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Surface2).
			Padding(1, 4).
			Align(lipgloss.Center)

	MutedStyle = lipgloss.NewStyle().
			Foreground(Subtext0).
			Faint(true)

	// Line-oriented CLI output
	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("40")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99"))
)

type StatusType int

const (
	StatusIdle StatusType = iota
	StatusArming
	StatusConfirmed
	StatusFailed
)

func GetStatusStyle(status StatusType) lipgloss.Style {
	switch status {
	case StatusArming:
		return StatusArmingStyle
	case StatusConfirmed:
		return StatusConfirmedStyle
	case StatusFailed:
		return StatusFailedStyle
	default:
		return StatusIdleStyle
	}
}
