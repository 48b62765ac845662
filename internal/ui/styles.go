package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title     lipgloss.Style
	Dim       lipgloss.Style
	Status    lipgloss.Style
	Help      lipgloss.Style
	Prompt    lipgloss.Style
	Current   lipgloss.Style
	CursorBg  lipgloss.Style
	StatusErr lipgloss.Style
	StatusWrn lipgloss.Style
	Scan      lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1),
		Dim: lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1),
		Help:      lipgloss.NewStyle().Faint(true),
		Prompt:    lipgloss.NewStyle().Bold(true),
		Current:   lipgloss.NewStyle().Foreground(lipgloss.Color("78")), // green
		CursorBg:  lipgloss.NewStyle().Background(lipgloss.Color("238")),
		StatusErr: lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusWrn: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		Scan:      lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
	}
}
