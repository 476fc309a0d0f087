package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	accent  = lipgloss.Color("#F2C94C")
	success = lipgloss.Color("#10B981")
	failure = lipgloss.Color("#EF4444")
	muted   = lipgloss.Color("#6B7280")

	stepStyle    = lipgloss.NewStyle().Foreground(accent).Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(success)
	errorStyle   = lipgloss.NewStyle().Foreground(failure).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(muted)
	passBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(success).
			Padding(0, 2)

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(accent).Align(lipgloss.Center)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func printStep(format string, args ...any) {
	fmt.Println(stepStyle.Render(">> ") + fmt.Sprintf(format, args...))
}

func printOK(format string, args ...any) {
	fmt.Println("   " + okStyle.Render("✓ ") + fmt.Sprintf(format, args...))
}

func printError(msg string) {
	fmt.Println(errorStyle.Render("✗ " + msg))
}

func statsTable(rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(accent)).
		Headers("Metric", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 1:
				return cellStyle.Align(lipgloss.Right)
			default:
				return cellStyle
			}
		}).
		Render()
}
