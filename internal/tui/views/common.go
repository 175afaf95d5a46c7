// Package views contains the wizard's sub-view models: the per-shot
// configuration screen, the review screen, and the submit screen. Views
// never mutate the session themselves; every edit is emitted as an
// ApplyMsg and folded into the shared snapshot by the app model.
package views

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/shotwright/shotwright/internal/session"
)

// ApplyMsg carries a session update from a view to the app. Apply receives
// the current snapshot and returns the next one.
type ApplyMsg struct {
	Apply func(*session.Session) *session.Session
}

func applyCmd(f func(*session.Session) *session.Session) tea.Cmd {
	return func() tea.Msg { return ApplyMsg{Apply: f} }
}

// UploadRequestMsg asks the app to run the first-frame upload flow for a
// shot. Path is a local image file.
type UploadRequestMsg struct {
	Slot int
	Path string
}

// EditShotMsg asks the app to jump back to a shot from the review screen.
type EditShotMsg struct {
	Index int
}

// GenerateMsg asks the app to submit the generation job.
type GenerateMsg struct{}

// Shared view styles
var (
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffe66d")).
			Bold(true).
			Italic(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a8dadc")).
			Bold(true).
			Width(24)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f1faee"))

	setStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ecdc4")).
			Bold(true)

	missingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true)

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffe66d"))

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ecdc4"))

	errorBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FF6B6B")).
			Padding(0, 2).
			Margin(1, 0)

	priceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a8e6cf")).
			Bold(true)

	copiedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a8e6cf")).
			Bold(true)
)

func wordWrap(s string, width int) string {
	if width <= 0 {
		width = 60
	}
	var lines []string
	var currentLine strings.Builder
	currentWidth := 0

	words := strings.Fields(s)
	for _, word := range words {
		wordWidth := runewidth.StringWidth(word)
		if currentWidth+wordWidth+1 > width && currentWidth > 0 {
			lines = append(lines, currentLine.String())
			currentLine.Reset()
			currentWidth = 0
		}
		if currentWidth > 0 {
			currentLine.WriteString(" ")
			currentWidth++
		}
		currentLine.WriteString(word)
		currentWidth += wordWidth
	}
	if currentLine.Len() > 0 {
		lines = append(lines, currentLine.String())
	}

	return strings.Join(lines, "\n")
}

// checkbox renders an on/off marker.
func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}
