package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/goccy/go-json"
)

func borderColor() lipgloss.Color { return lipgloss.Color("240") }
func headerColor() lipgloss.Color { return lipgloss.Color("39") }
func errorColor() lipgloss.Color  { return lipgloss.Color("196") }

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderTable writes a bordered table with a highlighted header row.
func renderTable(w io.Writer, headers []string, rows [][]string) error {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(headerColor()).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(borderColor())).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// renderPairs writes a two-column label/value table.
func renderPairs(w io.Writer, title string, pairs [][2]string) error {
	if title != "" {
		if _, err := fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Foreground(headerColor()).Render(title)); err != nil {
			return err
		}
	}
	rows := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, []string{p[0], p[1]})
	}
	return renderTable(w, []string{"Field", "Value"}, rows)
}

func renderWarning(w io.Writer, msg string) error {
	_, err := fmt.Fprintln(w, lipgloss.NewStyle().Foreground(errorColor()).Render(msg))
	return err
}
