package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/san-kum/odekit/internal/dynamo"
)

// RunSummary renders a panel with the span, statistics and final state of
// a finished run.
func RunSummary(name, method string, tr *dynamo.Trajectory) string {
	stats := tr.Stats()
	last := tr.Last()

	rows := [][2]string{
		{"method", method},
		{"span", fmt.Sprintf("[%.6g, %.6g]", tr.First().T, last.T)},
		{"samples", fmt.Sprintf("%d", tr.Len())},
		{"steps", fmt.Sprintf("%d", stats.Steps)},
		{"rejected", fmt.Sprintf("%d", stats.Rejected)},
		{"evaluations", fmt.Sprintf("%d", stats.Evaluations)},
		{"last dt", fmt.Sprintf("%.4g", stats.LastDt)},
		{"final state", formatState(last.X)},
	}

	var b strings.Builder
	b.WriteString(Title.Render(name))
	for _, r := range rows {
		b.WriteString("\n")
		b.WriteString(MetricLabel.Render(fmt.Sprintf("%-12s", r[0])))
		b.WriteString(MetricValue.Render(r[1]))
	}
	return Panel.Render(b.String())
}

// Table renders rows under headers with the package styles.
func Table(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(Subtle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return Title.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(headers...).
		Rows(rows...)
	return t.String()
}

func formatState(x dynamo.State) string {
	parts := make([]string, len(x))
	for i, v := range x {
		parts[i] = fmt.Sprintf("%.6g", v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
