package cmd

import (
	"tendersdz/models"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

// statusColors - цвета статусов тендера по стадиям
var statusColors = map[models.TenderStatus]lipgloss.Color{
	models.StatusIdentified: lipgloss.Color("39"),
	models.StatusBought:     lipgloss.Color("45"),
	models.StatusStudying:   lipgloss.Color("214"),
	models.StatusSubmitted:  lipgloss.Color("141"),
	models.StatusWon:        lipgloss.Color("42"),
	models.StatusLost:       lipgloss.Color("196"),
}

// statusLabel - цветная подпись статуса; неизвестные статусы без цвета
func statusLabel(s models.TenderStatus) string {
	color, ok := statusColors[s.Normalize()]
	if !ok {
		return s.Label()
	}
	return lipgloss.NewStyle().Bold(true).Foreground(color).Render(s.Label())
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
