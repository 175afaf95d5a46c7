package tui

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shotwright/shotwright/internal/config"
	"github.com/shotwright/shotwright/internal/job"
	"github.com/shotwright/shotwright/internal/media"
	"github.com/shotwright/shotwright/internal/pricing"
	"github.com/shotwright/shotwright/internal/registry"
	"github.com/shotwright/shotwright/internal/scene"
	"github.com/shotwright/shotwright/internal/session"
	"github.com/shotwright/shotwright/internal/tui/views"
	"github.com/shotwright/shotwright/internal/wizard"
)

// QuoteResultMsg delivers an async pricing quote.
type QuoteResultMsg struct {
	Quote *pricing.Quote
	Err   error
}

// UploadResultMsg delivers an async first-frame upload result.
type UploadResultMsg struct {
	Slot int
	URL  string
	Err  error
}

// SubmitResultMsg delivers the generation submission outcome.
type SubmitResultMsg struct {
	JobID string
	Err   error
}

// Options carries everything the wizard needs to run.
type Options struct {
	Scene       *scene.Scene
	Library     *registry.Library
	Config      *config.Config
	Session     *session.Session
	SessionPath string // autosave target, empty disables persistence
}

// AppModel is the top-level wizard model. It owns the session snapshot and
// the navigation machine; sub-views render the current step and emit
// ApplyMsg updates that are folded here.
type AppModel struct {
	sc  *scene.Scene
	lib *registry.Library
	cfg *config.Config

	sess    *session.Session
	machine *wizard.Machine
	seq     int

	shotView   views.ShotConfigModel
	reviewView views.ReviewModel
	submitView views.SubmitModel

	pricingClient *pricing.Client
	uploader      *media.Uploader
	jobClient     *job.Client

	quote     *pricing.Quote
	uploading bool
	uploadErr string

	sessionPath string
	saveErr     string

	width    int
	height   int
	quitting bool
}

// NewAppModel builds the wizard.
func NewAppModel(opts Options) AppModel {
	slots := make([]int, len(opts.Scene.Shots))
	for i, shot := range opts.Scene.Shots {
		slots[i] = shot.Slot
	}

	validator := wizard.NewValidator(opts.Library)

	m := AppModel{
		sc:            opts.Scene,
		lib:           opts.Library,
		cfg:           opts.Config,
		sess:          opts.Session,
		machine:       wizard.NewMachine(validator, slots),
		shotView:      views.NewShotConfigModel(opts.Scene, opts.Library),
		reviewView:    views.NewReviewModel(opts.Scene, opts.Config.ProjectID),
		submitView:    views.NewSubmitModel(),
		pricingClient: pricing.NewClient(opts.Config.PricingURL, apiToken()),
		uploader:      media.NewUploader(opts.Config.MediaURL, apiToken()),
		jobClient:     job.NewClient(opts.Config.JobURL, apiToken()),
		sessionPath:   opts.SessionPath,
	}
	m.syncViews()
	return m
}

func apiToken() string {
	return os.Getenv("SHOTWRIGHT_TOKEN")
}

// Init starts the first quote fetch.
func (m AppModel) Init() tea.Cmd {
	return m.quoteCmd()
}

// Update handles messages.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		contentW := msg.Width - sidebarWidth - 4
		m.shotView.SetSize(contentW, msg.Height)
		m.reviewView.SetSize(contentW, msg.Height)
		m.submitView.SetSize(contentW, msg.Height)
		return m, nil

	case views.ApplyMsg:
		next := msg.Apply(m.sess)
		if next == m.sess {
			return m, nil
		}
		m.sess = next
		m.autosave()
		m.syncViews()
		return m, m.quoteCmd()

	case QuoteResultMsg:
		// Pricing is advisory: errors just leave the quote hidden, and a
		// quote for a configuration the user already edited past is dropped.
		if msg.Err == nil && msg.Quote != nil &&
			msg.Quote.Key == pricing.BuildRequest(m.cfg.ProjectID, m.sess).Key() {
			m.quote = msg.Quote
			m.syncViews()
		}
		return m, nil

	case views.UploadRequestMsg:
		m.uploading = true
		m.uploadErr = ""
		m.syncViews()
		return m, m.uploadCmd(msg.Slot, msg.Path)

	case UploadResultMsg:
		m.uploading = false
		if msg.Err != nil {
			m.uploadErr = msg.Err.Error()
			m.syncViews()
			return m, nil
		}
		m.uploadErr = ""
		m.sess = m.sess.WithUploadedFirstFrame(msg.Slot, msg.URL)
		m.autosave()
		m.syncViews()
		return m, nil

	case views.EditShotMsg:
		if m.machine.Jump(msg.Index) {
			m.onTransition()
		}
		return m, nil

	case views.GenerateMsg:
		if m.machine.Generate() {
			m.onTransition()
			m.submitView = views.NewSubmitModel()
			return m, tea.Batch(m.submitView.Start(), m.submitCmd())
		}
		return m, nil

	case SubmitResultMsg:
		m.submitView.SetResult(msg.JobID, msg.Err)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateActiveView(msg)
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		m.quitting = true
		m.autosave()
		return m, tea.Quit
	}

	editing := m.machine.Phase() == wizard.PhaseConfiguring && m.shotView.Editing()
	if !editing {
		switch key {
		case "q":
			m.quitting = true
			m.autosave()
			return m, tea.Quit
		case "pgdown", "ctrl+n":
			if m.machine.Phase() == wizard.PhaseConfiguring {
				if _, ok := m.machine.Next(m.sess); ok {
					m.onTransition()
				} else {
					m.syncViews()
				}
				return m, nil
			}
		case "pgup", "ctrl+p":
			if m.machine.Previous() {
				m.onTransition()
			}
			return m, nil
		case "esc":
			if m.machine.Phase() == wizard.PhaseSubmitting && m.machine.Reopen() {
				m.onTransition()
				return m, nil
			}
		}
	}

	return m.updateActiveView(msg)
}

func (m AppModel) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.machine.Phase() {
	case wizard.PhaseConfiguring:
		m.shotView, cmd = m.shotView.Update(msg)
	case wizard.PhaseReviewing:
		m.reviewView, cmd = m.reviewView.Update(msg)
	case wizard.PhaseSubmitting:
		m.submitView, cmd = m.submitView.Update(msg)
	}
	return m, cmd
}

// onTransition runs after every completed machine transition: transient
// view state is reset exactly when Seq changes.
func (m *AppModel) onTransition() {
	if m.machine.Seq() != m.seq {
		m.seq = m.machine.Seq()
		m.shotView.ResetTransient()
		m.reviewView.ResetTransient()
	}
	m.syncViews()
}

// syncViews pushes the current snapshot into the sub-views.
func (m *AppModel) syncViews() {
	if m.machine.Phase() == wizard.PhaseConfiguring {
		m.shotView.SetState(m.sess, m.machine.CurrentSlot(), m.machine.Errors())
		m.shotView.SetUploading(m.uploading, m.uploadErr)
	}
	m.reviewView.SetState(m.sess, m.quote)
}

func (m *AppModel) autosave() {
	if m.sessionPath == "" {
		return
	}
	if err := session.Save(m.sessionPath, m.sess); err != nil {
		m.saveErr = err.Error()
	} else {
		m.saveErr = ""
	}
}

// --- async commands ---

func (m AppModel) quoteCmd() tea.Cmd {
	client := m.pricingClient
	req := pricing.BuildRequest(m.cfg.ProjectID, m.sess)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		quote, err := client.Quote(ctx, req)
		return QuoteResultMsg{Quote: quote, Err: err}
	}
}

func (m AppModel) uploadCmd(slot int, filePath string) tea.Cmd {
	uploader := m.uploader
	projectID := m.cfg.ProjectID
	sceneID := m.sc.ID
	return func() tea.Msg {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return UploadResultMsg{Slot: slot, Err: fmt.Errorf("reading image file: %w", err)}
		}

		mimeType := mime.TypeByExtension(filepath.Ext(filePath))
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		url, err := uploader.UploadFirstFrame(ctx, media.FirstFrame{
			ProjectID: projectID,
			SceneID:   sceneID,
			ShotSlot:  slot,
			FileName:  filepath.Base(filePath),
			MimeType:  mimeType,
			Data:      data,
		})
		return UploadResultMsg{Slot: slot, URL: url, Err: err}
	}
}

func (m AppModel) submitCmd() tea.Cmd {
	client := m.jobClient
	req := job.Build(m.cfg.ProjectID, m.sess)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		jobID, err := client.Submit(ctx, req)
		return SubmitResultMsg{JobID: jobID, Err: err}
	}
}

// --- rendering ---

const sidebarWidth = 22

// View renders the sidebar and the active step.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}

	sidebar := m.renderSidebar()

	var content string
	switch m.machine.Phase() {
	case wizard.PhaseConfiguring:
		content = m.shotView.View()
	case wizard.PhaseReviewing:
		content = m.reviewView.View()
	case wizard.PhaseSubmitting:
		content = m.submitView.View()
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, ContentStyle.Render(content))

	if m.saveErr != "" {
		body += "\n" + ErrorStyle.Render("autosave failed: "+m.saveErr)
	}
	return body
}

func (m AppModel) renderSidebar() string {
	var b strings.Builder

	title := m.sc.Title
	if title == "" {
		title = m.sc.ID
	}
	b.WriteString(SidebarTitleStyle.Render(title))
	b.WriteString("\n")

	for i, shot := range m.sc.Shots {
		label := fmt.Sprintf("%d. Shot %d", i+1, shot.Slot)
		switch {
		case m.machine.Phase() == wizard.PhaseConfiguring && i == m.machine.Index():
			b.WriteString(StepActiveStyle.Render(label))
		case m.machine.Phase() != wizard.PhaseConfiguring || i < m.machine.Index():
			b.WriteString(StepDoneStyle.Render("✓ " + label))
		default:
			b.WriteString(StepStyle.Render(label))
		}
		b.WriteString("\n")
	}

	reviewLabel := "Review"
	switch m.machine.Phase() {
	case wizard.PhaseReviewing:
		b.WriteString(StepActiveStyle.Render(reviewLabel))
	case wizard.PhaseSubmitting:
		b.WriteString(StepDoneStyle.Render("✓ " + reviewLabel))
	default:
		b.WriteString(StepStyle.Render(reviewLabel))
	}
	b.WriteString("\n")

	b.WriteString(SidebarHelpStyle.Render("ctrl+n: next\nctrl+p: back\nq: quit"))

	return SidebarStyle.Width(sidebarWidth).Render(b.String())
}

// Run starts the wizard program.
func Run(opts Options) error {
	p := tea.NewProgram(NewAppModel(opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running wizard: %w", err)
	}
	return nil
}
