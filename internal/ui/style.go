package ui

import (
	"github.com/amonks/smarttodo/task"
	"github.com/charmbracelet/lipgloss"
)

var (
	priorityStyles = map[task.Priority]lipgloss.Style{
		task.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		task.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		task.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	}
	categoryStyles = map[task.Category]lipgloss.Style{
		task.CategoryWork:     lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
		task.CategoryPersonal: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
		task.CategoryHealth:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		task.CategoryShopping: lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		task.CategoryOther:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
	doneStyle    = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// Priority renders a priority label in its color.
func Priority(p task.Priority) string {
	return render(priorityStyles[p], string(p))
}

// Category renders a category label in its color.
func Category(c task.Category) string {
	return render(categoryStyles[c], string(c))
}

// Title renders a task title, struck through once completed.
func Title(t task.Task) string {
	if t.Completed {
		return render(doneStyle, t.Title)
	}
	return t.Title
}

// Overdue renders text in the overdue color.
func Overdue(s string) string {
	return render(overdueStyle, s)
}

// Checkbox returns the completion marker for a task.
func Checkbox(t task.Task) string {
	if t.Completed {
		return "[x]"
	}
	return "[ ]"
}

func render(style lipgloss.Style, s string) string {
	if !ColorEnabled() {
		return s
	}
	return style.Render(s)
}
