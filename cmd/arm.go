/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/allbin/startlight/internal/tui/components"
	"github.com/allbin/startlight/internal/tui/keys"
	"github.com/allbin/startlight/internal/tui/models"
	"github.com/allbin/startlight/internal/tui/styles"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// armCmd represents the arm command
var armCmd = &cobra.Command{
	Use:   "arm",
	Short: "Interactive screen for sending start signals",
	Long: `Open an interactive screen for the start light.

Press space or enter to send "start". The send runs in the background while a
spinner shows how long the device has taken; the outcome and a history of
previous sends are shown when it finishes.

Example usage:
  startlight arm --endpoint /dev/ttyACM0
  startlight --driver sim --endpoint SIM1 arm`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newManager()
		if err != nil {
			return err
		}
		return runArmTUI(models.NewArmModel(m), viper.GetString("driver"))
	},
}

func init() {
	rootCmd.AddCommand(armCmd)
}

// armModel represents the Bubble Tea model for the arm command
type armModel struct {
	*models.ArmModel
	statusBar *components.StatusBar
	history   *components.HistoryTable
	spinner   spinner.Model
	help      help.Model
	keys      keys.ArmKeys
	width     int
}

func newArmModel(state *models.ArmModel, driver string) *armModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.StatusArmingStyle

	m := &armModel{
		ArmModel:  state,
		statusBar: components.NewStatusBar("Start Light", driver),
		history:   components.NewHistoryTable(80, 5), // Resized by WindowSizeMsg
		spinner:   s,
		help:      help.New(),
		keys:      keys.NewArmKeys(),
	}
	m.statusBar.SetParams(state.Params())
	return m
}

func runArmTUI(state *models.ArmModel, driver string) error {
	m := newArmModel(state, driver)
	p := tea.NewProgram(m, tea.WithAltScreen())

	// Results arrive on the manager's goroutine; hand them to the UI loop
	state.SetDispatch(p.Send)
	state.ScanPorts()

	_, err := p.Run()
	return err
}

func (m *armModel) Init() tea.Cmd {
	return nil
}

func (m *armModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.statusBar.SetWidth(msg.Width)
		m.help.Width = msg.Width
		// Title, banner and status bar take roughly 12 lines
		m.history.SetSize(msg.Width, msg.Height-12)
		m.SetReady(true)

	case models.ResultMsg:
		m.Complete(msg)
		m.history.SetHistory(m.History())
		if msg.Result.OK {
			m.statusBar.SetState(models.ArmStateConfirmed.String(), styles.StatusConfirmed)
		} else {
			m.statusBar.SetState(models.ArmStateFailed.String(), styles.StatusFailed)
		}

	case models.PortsMsg:
		m.SetPorts(msg.Ports)

	case spinner.TickMsg:
		if !m.IsArming() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Fire):
			if m.Fire() {
				m.statusBar.SetState(models.ArmStateArming.String(), styles.StatusArming)
				return m, m.spinner.Tick
			}
		case key.Matches(msg, m.keys.Refresh):
			m.ScanPorts()
		case key.Matches(msg, m.keys.Clear):
			m.ClearHistory()
			m.history.SetHistory(nil)
			if !m.IsArming() {
				m.statusBar.SetState(models.ArmStateIdle.String(), styles.StatusIdle)
			}
		}
	}

	return m, nil
}

func (m *armModel) View() string {
	var b strings.Builder

	b.WriteString(m.statusBar.Title())
	b.WriteString("\n\n")
	b.WriteString(m.banner())
	b.WriteString("\n")

	if ports := m.Ports(); len(ports) > 0 {
		b.WriteString(styles.MutedStyle.Render("ports: " + strings.Join(ports, ", ")))
		b.WriteString("\n")
	}

	b.WriteString(styles.ContentBorderStyle.Width(max(m.width, 20)).Render(m.history.View()))
	b.WriteString("\n")
	b.WriteString(m.statusBar.View())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

// banner is the large state box in the middle of the screen
func (m *armModel) banner() string {
	var text string
	style := styles.GetStatusStyle(styles.StatusIdle)

	switch m.State() {
	case models.ArmStateArming:
		style = styles.GetStatusStyle(styles.StatusArming)
		text = fmt.Sprintf("%s ARMING  %s", m.spinner.View(), m.Waiting().Round(10*time.Millisecond))
	case models.ArmStateConfirmed:
		style = styles.GetStatusStyle(styles.StatusConfirmed)
		last, _ := m.Last()
		text = fmt.Sprintf("● CONFIRMED  %s", last.Elapsed().Round(time.Millisecond))
	case models.ArmStateFailed:
		style = styles.GetStatusStyle(styles.StatusFailed)
		last, _ := m.Last()
		text = "✗ " + strings.ToUpper(last.Result.Reason.String())
		if last.Result.Err != nil {
			text += "\n" + styles.MutedStyle.Render(last.Result.Code())
		}
	default:
		text = "○ READY  press space to start"
	}

	return styles.BannerStyle.BorderForeground(style.GetForeground()).Render(style.Render(text))
}

var _ tea.Model = (*armModel)(nil)
