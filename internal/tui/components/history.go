package components

import (
	"time"

	"github.com/allbin/startlight/internal/tui/models"
	"github.com/allbin/startlight/internal/tui/styles"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// HistoryTable lists past sends, newest at the bottom
type HistoryTable struct {
	table table.Model
}

func NewHistoryTable(width, height int) *HistoryTable {
	if height < 3 {
		height = 3
	}

	t := table.New(
		table.WithColumns(historyColumns(width)),
		table.WithFocused(false),
		table.WithHeight(height),
		table.WithWidth(width),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Subtext0).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Text)
	s.Selected = s.Selected.
		Foreground(styles.Text).
		Background(styles.Surface1).
		Bold(false)
	t.SetStyles(s)

	return &HistoryTable{table: t}
}

func historyColumns(width int) []table.Column {
	// Fixed column widths; the outcome column takes the rest
	timeWidth := 14
	elapsedWidth := 9
	sharedWidth := 6

	outcomeWidth := width - timeWidth - elapsedWidth - sharedWidth - 10
	if outcomeWidth < 20 {
		outcomeWidth = 20
	}

	return []table.Column{
		{Title: "Time", Width: timeWidth},
		{Title: "Elapsed", Width: elapsedWidth},
		{Title: "Outcome", Width: outcomeWidth},
		{Title: "Shared", Width: sharedWidth},
	}
}

func (ht *HistoryTable) SetSize(width, height int) {
	if height < 3 {
		height = 3
	}
	ht.table.SetColumns(historyColumns(width))
	ht.table.SetHeight(height)
	ht.table.SetWidth(width)
	ht.table.UpdateViewport()
}

// SetHistory replaces the rows and scrolls to the newest entry
func (ht *HistoryTable) SetHistory(history []models.ResultMsg) {
	rows := make([]table.Row, len(history))
	for i, msg := range history {
		rows[i] = historyRow(msg)
	}
	ht.table.SetRows(rows)
	ht.table.GotoBottom()
}

func historyRow(msg models.ResultMsg) table.Row {
	shared := ""
	if msg.Result.Shared {
		shared = "yes"
	}
	return table.Row{
		msg.Finished.Format("15:04:05.000"),
		msg.Elapsed().Round(time.Millisecond).String(),
		msg.Result.Code(),
		shared,
	}
}

func (ht *HistoryTable) Rows() int {
	return len(ht.table.Rows())
}

func (ht *HistoryTable) View() string {
	return ht.table.View()
}
