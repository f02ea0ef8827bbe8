package chattui

import "github.com/charmbracelet/lipgloss"

var (
	borderASCII = lipgloss.Border{
		Top:         "-",
		Bottom:      "-",
		Left:        "|",
		Right:       "|",
		TopLeft:     "+",
		TopRight:    "+",
		BottomLeft:  "+",
		BottomRight: "+",
	}

	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("24")).Bold(true).Padding(0, 1)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	userLabelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true)
	assistantLabelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	suggestionLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	timestampStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	suggestionBoxStyle = lipgloss.NewStyle().Border(borderASCII).BorderForeground(lipgloss.Color("208")).Padding(0, 1)
	resolvedBoxStyle   = suggestionBoxStyle.BorderForeground(lipgloss.Color("238"))

	valueMuted         = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	statusErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	statusSuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)
