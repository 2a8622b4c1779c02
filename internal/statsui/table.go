package statsui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/credence/internal/model"
	"github.com/verte-zerg/credence/internal/stats"
)

func newTable(cols []table.Column, rows []table.Row) table.Model {
	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithHeight(1),
	)
	t.SetStyles(tableStyles())
	return t
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func readerColumns() []table.Column {
	return []table.Column{
		{Title: "Reader", Width: 12},
		{Title: "Kind", Width: 11},
		{Title: "Weight", Width: 7},
		{Title: "Window", Width: 16},
	}
}

func readerRows(readers []model.ReaderWeight) []table.Row {
	rows := make([]table.Row, 0, len(readers))
	for _, r := range readers {
		rows = append(rows, table.Row{
			r.ReaderID,
			string(r.Kind),
			fmt.Sprintf("%.3f", r.Weight),
			stats.Sparkline(r.Window),
		})
	}
	return rows
}

func reporterColumns() []table.Column {
	return []table.Column{
		{Title: "Reporter", Width: 14},
		{Title: "Origin", Width: 7},
		{Title: "Simple", Width: 7},
		{Title: "Weighted", Width: 8},
		{Title: "Score", Width: 7},
		{Title: "Error", Width: 7},
		{Title: "Votes", Width: 6},
	}
}

func reporterRows(reporters []model.ReporterScore) []table.Row {
	rows := make([]table.Row, 0, len(reporters))
	for _, r := range reporters {
		rows = append(rows, table.Row(stats.ReporterCells(r)))
	}
	return rows
}
