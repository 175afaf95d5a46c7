// Package tui provides the interactive shot configuration wizard.
package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	ColorPrimary = lipgloss.Color("#FF6B6B") // Red - titles, errors
	ColorAccent  = lipgloss.Color("#ffe66d") // Yellow - active step
	ColorMuted   = lipgloss.Color("#666666") // Gray - help text
	ColorSuccess = lipgloss.Color("#a8e6cf") // Green - completed steps
	ColorBg      = lipgloss.Color("#1a1a2e") // Dark background
	ColorBgAlt   = lipgloss.Color("#2d3436") // Alt background
	ColorBorder  = lipgloss.Color("#3d5a80") // Border color
)

// Sidebar (step list) styles
var (
	SidebarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderRight(true).
			BorderForeground(ColorBorder).
			Padding(1, 1)

	SidebarTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPrimary).
				Background(ColorBg).
				Padding(0, 1).
				MarginBottom(1)

	StepStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1)

	StepActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent).
			Background(ColorBgAlt).
			Padding(0, 1)

	StepDoneStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Padding(0, 1)

	SidebarHelpStyle = lipgloss.NewStyle().
				Foreground(ColorMuted).
				MarginTop(1).
				Padding(0, 1)
)

// Content styles
var (
	ContentStyle = lipgloss.NewStyle().
			Padding(1, 2)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)
)
