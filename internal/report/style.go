package report

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	goodStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	badStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	dimStyle  = lipgloss.NewStyle().Faint(true)
)

// Good highlights a name in a success message
func Good(s string) string { return goodStyle.Render(s) }

// Bad highlights a name in an error message
func Bad(s string) string { return badStyle.Render(s) }

// Warn highlights a name in a destructive message
func Warn(s string) string { return warnStyle.Render(s) }

func dim(s string) string { return dimStyle.Render(s) }
