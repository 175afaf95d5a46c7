package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SubmitModel shows the generation submission in flight and its outcome.
type SubmitModel struct {
	spinner spinner.Model

	submitting bool
	jobID      string
	err        error

	width  int
	height int
}

// NewSubmitModel creates the submit view.
func NewSubmitModel() SubmitModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffe66d"))
	return SubmitModel{spinner: s, submitting: true}
}

// Start returns the command that animates the spinner.
func (m SubmitModel) Start() tea.Cmd {
	return m.spinner.Tick
}

// SetResult records the submission outcome.
func (m *SubmitModel) SetResult(jobID string, err error) {
	m.submitting = false
	m.jobID = jobID
	m.err = err
}

// SetSize updates the view dimensions.
func (m *SubmitModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages.
func (m SubmitModel) Update(msg tea.Msg) (SubmitModel, tea.Cmd) {
	if m.submitting {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the submit screen.
func (m SubmitModel) View() string {
	var b strings.Builder

	switch {
	case m.submitting:
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(loadingStyle.Render("Submitting generation job..."))
	case m.err != nil:
		b.WriteString(errorStyle.Render("Submission failed"))
		b.WriteString("\n\n")
		b.WriteString(valueStyle.Render(m.err.Error()))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("esc: back to review • q: quit"))
	default:
		b.WriteString(copiedStyle.Render("Generation job submitted"))
		b.WriteString("\n\n")
		b.WriteString(labelStyle.Render("Job ID") + " " + setStyle.Render(m.jobID))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("q: quit"))
	}

	return b.String()
}
