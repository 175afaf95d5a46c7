package views

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shotwright/shotwright/internal/clipboard"
	"github.com/shotwright/shotwright/internal/job"
	"github.com/shotwright/shotwright/internal/pricing"
	"github.com/shotwright/shotwright/internal/scene"
	"github.com/shotwright/shotwright/internal/session"
)

// copiedClearMsg clears the "copied" notice after a moment.
type copiedClearMsg struct{}

const copiedNoticeDuration = 2 * time.Second

// ReviewModel is the pre-submit summary: one line per shot, the quote when
// one is available, and the generate / copy-payload affordances.
type ReviewModel struct {
	sc        *scene.Scene
	projectID string

	sess  *session.Session
	quote *pricing.Quote

	cursor  int
	copied  bool
	copyErr string

	width  int
	height int
}

// NewReviewModel creates the review view.
func NewReviewModel(sc *scene.Scene, projectID string) ReviewModel {
	return ReviewModel{sc: sc, projectID: projectID}
}

// SetState hands the view the latest snapshot and quote.
func (m *ReviewModel) SetState(sess *session.Session, quote *pricing.Quote) {
	m.sess = sess
	m.quote = quote
}

// ResetTransient clears view-only state.
func (m *ReviewModel) ResetTransient() {
	m.cursor = 0
	m.copied = false
	m.copyErr = ""
}

// SetSize updates the view dimensions.
func (m *ReviewModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages.
func (m ReviewModel) Update(msg tea.Msg) (ReviewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case copiedClearMsg:
		m.copied = false
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.sc.Shots)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "enter", "e":
			cursor := m.cursor
			return m, func() tea.Msg { return EditShotMsg{Index: cursor} }
		case "g":
			return m, func() tea.Msg { return GenerateMsg{} }
		case "y":
			return m, m.copyPayload()
		}
	}
	return m, nil
}

func (m *ReviewModel) copyPayload() tea.Cmd {
	if m.sess == nil {
		return nil
	}
	payload, err := job.PayloadJSON(job.Build(m.projectID, m.sess))
	if err != nil {
		m.copyErr = err.Error()
		return nil
	}
	if err := clipboard.Write(payload); err != nil {
		m.copyErr = fmt.Sprintf("copying payload: %v", err)
		return nil
	}
	m.copied = true
	m.copyErr = ""
	return tea.Tick(copiedNoticeDuration, func(time.Time) tea.Msg {
		return copiedClearMsg{}
	})
}

// View renders the review screen.
func (m ReviewModel) View() string {
	if m.sess == nil {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(subtitleStyle.Render("Review"))
	b.WriteString("\n\n")

	for i, shot := range m.sc.Shots {
		marker := "  "
		if i == m.cursor {
			marker = cursorStyle.Render("› ")
		}

		line := fmt.Sprintf("Shot %d · %-12s %s", shot.Slot, shot.Type, excerpt(shot.Text, 48))
		b.WriteString(marker + valueStyle.Render(line))
		b.WriteString("\n")

		for _, detail := range m.shotDetails(shot) {
			b.WriteString("      " + missingStyle.Render(detail))
			b.WriteString("\n")
		}

		if m.quote != nil {
			if p, ok := m.quote.PerShot[shot.Slot]; ok {
				b.WriteString("      " + priceStyle.Render(formatShotPrice(p)))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString("\n")
	if m.quote != nil {
		b.WriteString(priceStyle.Render("Total: " + formatShotPrice(m.quote.Total)))
	} else {
		b.WriteString(loadingStyle.Render("Fetching quote..."))
	}
	b.WriteString("\n\n")

	if m.copied {
		b.WriteString(copiedStyle.Render("Payload copied to clipboard"))
		b.WriteString("\n")
	}
	if m.copyErr != "" {
		b.WriteString(errorStyle.Render(m.copyErr))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("j/k: move • enter: edit shot • y: copy payload • g: generate"))
	return b.String()
}

// shotDetails summarizes the configured state of one shot for the review
// list.
func (m ReviewModel) shotDetails(shot scene.Shot) []string {
	slot := shot.Slot
	var details []string

	if refs := m.characterRefCount(slot); refs > 0 {
		details = append(details, fmt.Sprintf("%d character reference(s)", refs))
	}
	if _, ok := m.sess.LocationRef(slot); ok {
		details = append(details, "location reference set")
	} else if m.sess.LocationOptOut(slot) {
		details = append(details, "location skipped: "+excerpt(m.sess.LocationNote(slot), 40))
	}
	if cfg, ok := m.sess.Dialogue(slot); ok {
		detail := fmt.Sprintf("dialogue: %s / %s", orQuality(cfg.Quality), orWorkflow(cfg.Workflow))
		if m.sess.VideoOptIn(slot) {
			if t, okT := m.sess.VideoType(slot); okT {
				detail += fmt.Sprintf(" · video %s", t)
			}
		}
		details = append(details, detail)
	}
	if m.sess.Override(slot).UploadedFirstFrame != "" {
		details = append(details, "uploaded first frame")
	} else {
		if m.sess.FirstFrameOverrideEnabled(slot) {
			details = append(details, "first frame override")
		}
		if m.sess.VideoPromptOverrideEnabled(slot) {
			details = append(details, "video prompt override")
		}
	}

	settings := fmt.Sprintf("%s · %s · %s",
		m.sess.CameraAngle(slot), m.sess.Duration(slot), m.sess.AspectRatio(slot))
	details = append(details, settings)

	return details
}

func (m ReviewModel) characterRefCount(slot int) int {
	count := 0
	for _, c := range m.sc.Characters {
		if _, ok := m.sess.CharacterRef(slot, c.ID); ok {
			count++
		}
	}
	for _, id := range m.sess.ManualCharacters(slot) {
		if _, ok := m.sess.CharacterRef(slot, id); ok {
			count++
		}
	}
	return count
}

func formatShotPrice(p pricing.ShotPrice) string {
	return fmt.Sprintf("first frame %d · HD %d · 4K %d credits", p.FirstFramePrice, p.HDPrice, p.K4Price)
}

func excerpt(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
