package calendar

import (
	"fmt"
	"strings"

	"github.com/amonks/smarttodo/task"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	weekdayStyle  = lipgloss.NewStyle().Faint(true)
	outsideStyle  = lipgloss.NewStyle().Faint(true)
	busyStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	todayStyle    = lipgloss.NewStyle().Reverse(true)
	weekdayHeader = []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}
)

const cellWidth = 3

// Render draws the grid as a terminal calendar. Days with tasks are
// highlighted and marked with a dot; today is shown in reverse video.
func Render(g Grid, today task.Date) string {
	width := len(weekdayHeader) * cellWidth
	var b strings.Builder

	title := fmt.Sprintf("%s %d", g.Month, g.Year)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, titleStyle.Render(title)))
	b.WriteString("\n")

	header := make([]string, len(weekdayHeader))
	for i, name := range weekdayHeader {
		header[i] = weekdayStyle.Render(fmt.Sprintf("%*s ", cellWidth-1, name))
	}
	b.WriteString(strings.TrimRight(strings.Join(header, ""), " "))
	b.WriteString("\n")

	for _, week := range g.Weeks {
		cells := make([]string, len(week))
		for i, day := range week {
			cells[i] = renderCell(day, today)
		}
		b.WriteString(strings.TrimRight(strings.Join(cells, ""), " "))
		b.WriteString("\n")
	}
	return b.String()
}

func renderCell(day Day, today task.Date) string {
	number := fmt.Sprintf("%*d", cellWidth-1, day.Date.Day)
	marker := " "
	style := lipgloss.NewStyle()
	switch {
	case !day.InMonth:
		style = outsideStyle
	case len(day.Tasks) > 0:
		style = busyStyle
		marker = "•"
	}
	if day.Date == today {
		style = style.Inherit(todayStyle)
	}
	return style.Render(number) + marker
}
