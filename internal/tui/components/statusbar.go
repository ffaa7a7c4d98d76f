package components

import (
	"fmt"

	"github.com/allbin/startlight"
	"github.com/allbin/startlight/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
)

type StatusBar struct {
	title  string
	driver string
	params startlight.Params
	state  string
	status styles.StatusType
	width  int
}

func NewStatusBar(title, driver string) *StatusBar {
	return &StatusBar{
		title:  title,
		driver: driver,
		state:  "IDLE",
	}
}

func (sb *StatusBar) SetParams(p startlight.Params) {
	sb.params = p
}

func (sb *StatusBar) SetState(state string, status styles.StatusType) {
	sb.state = state
	sb.status = status
}

func (sb *StatusBar) SetWidth(width int) {
	sb.width = width
}

// View renders a single status line: state, endpoint, line settings and
// driver
func (sb *StatusBar) View() string {
	terminalWidth := sb.width
	if terminalWidth <= 0 {
		terminalWidth = 80
	}

	// Section 1: State indicator (like NORMAL in nvim)
	stateBackground := styles.Blue
	switch sb.status {
	case styles.StatusArming:
		stateBackground = styles.Yellow
	case styles.StatusConfirmed:
		stateBackground = styles.Green
	case styles.StatusFailed:
		stateBackground = styles.Red
	}
	state := lipgloss.NewStyle().
		Foreground(styles.Base).
		Background(stateBackground).
		Bold(true).
		Padding(0, 1).
		Render(sb.state)

	// Section 2: Endpoint
	endpoint := sb.params.Endpoint
	if endpoint == "" {
		endpoint = "no endpoint"
	}
	port := lipgloss.NewStyle().
		Foreground(styles.Mauve).
		Bold(true).
		Padding(0, 1).
		Render(endpoint)

	// Section 3: Line settings
	details := lipgloss.NewStyle().
		Foreground(styles.Subtext0).
		Padding(0, 1).
		Render(fmt.Sprintf("⚡ %d baud 8N1, timeout %s", sb.params.BaudRate, sb.params.Timeout))

	driver := lipgloss.NewStyle().
		Foreground(styles.Subtext1).
		Padding(0, 1).
		Render(sb.driver)

	divider := lipgloss.NewStyle().
		Foreground(styles.Surface2).
		Padding(0, 1).
		Render("│")

	leftSide := lipgloss.JoinHorizontal(lipgloss.Left, state, port, divider)
	rightSide := lipgloss.JoinHorizontal(lipgloss.Left, details, divider, driver)

	spacerWidth := terminalWidth - lipgloss.Width(leftSide) - lipgloss.Width(rightSide)
	if spacerWidth < 1 {
		spacerWidth = 1
	}
	spacer := lipgloss.NewStyle().Width(spacerWidth).Render("")

	statusBarStyle := lipgloss.NewStyle().
		Foreground(styles.Text).
		Background(styles.Surface0).
		Width(terminalWidth)

	return statusBarStyle.Render(lipgloss.JoinHorizontal(lipgloss.Left, leftSide, spacer, rightSide))
}

// Title renders the screen title
func (sb *StatusBar) Title() string {
	return styles.TitleStyle.Render(sb.title)
}
