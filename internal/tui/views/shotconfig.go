package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shotwright/shotwright/internal/pronoun"
	"github.com/shotwright/shotwright/internal/registry"
	"github.com/shotwright/shotwright/internal/scene"
	"github.com/shotwright/shotwright/internal/session"
	"github.com/shotwright/shotwright/internal/wizard"
)

// Tab indices for the shot configuration view.
const (
	tabCharacters = iota
	tabLocation
	tabProps
	tabDialogue
	tabOverrides
	tabSettings
	tabCount
)

var tabNames = []string{"Characters", "Location", "Props", "Dialogue", "Overrides", "Settings"}

// row is one focusable line in a tab. Enter runs onEnter, x runs onClear,
// e opens the row's text editor when it has one.
type row struct {
	label   string
	value   string
	missing bool
	info    bool // not actionable
	onEnter tea.Cmd
	onClear tea.Cmd
	edit    *editSpec
}

type editSpec struct {
	placeholder string
	initial     string
	commit      func(string) tea.Cmd
}

// ShotConfigModel is the per-shot configuration screen.
type ShotConfigModel struct {
	sc  *scene.Scene
	lib *registry.Library

	sess *session.Session
	slot int

	tab    int
	cursor int

	input   textinput.Model
	editing bool
	commit  func(string) tea.Cmd

	errors    []string
	uploading bool
	uploadErr string

	width  int
	height int
}

// NewShotConfigModel creates the configuration view.
func NewShotConfigModel(sc *scene.Scene, lib *registry.Library) ShotConfigModel {
	ti := textinput.New()
	ti.CharLimit = 500
	return ShotConfigModel{sc: sc, lib: lib, input: ti}
}

// SetState hands the view the latest session snapshot, the shot being
// configured, and any validation errors from a blocked transition.
func (m *ShotConfigModel) SetState(sess *session.Session, slot int, errs []string) {
	m.sess = sess
	m.slot = slot
	m.errors = errs
}

// SetUploading marks an in-flight first-frame upload.
func (m *ShotConfigModel) SetUploading(active bool, errMsg string) {
	m.uploading = active
	m.uploadErr = errMsg
}

// ResetTransient clears view-only state when the wizard moves to another
// step. Configuration tables are untouched; they live in the session.
func (m *ShotConfigModel) ResetTransient() {
	m.tab = 0
	m.cursor = 0
	m.editing = false
	m.uploadErr = ""
}

// SetSize updates the view dimensions.
func (m *ShotConfigModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Editing reports whether a text input has focus, so the app can keep
// global shortcuts out of the way.
func (m ShotConfigModel) Editing() bool { return m.editing }

// Update handles messages.
func (m ShotConfigModel) Update(msg tea.Msg) (ShotConfigModel, tea.Cmd) {
	if m.sess == nil {
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.editing {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.editing {
		switch keyMsg.String() {
		case "esc":
			m.editing = false
			return m, nil
		case "enter":
			m.editing = false
			if m.commit != nil {
				return m, m.commit(m.input.Value())
			}
			return m, nil
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
	}

	rows := m.buildRows()

	switch keyMsg.String() {
	case "tab":
		m.tab = (m.tab + 1) % tabCount
		m.cursor = 0
		return m, nil
	case "shift+tab":
		m.tab = (m.tab + tabCount - 1) % tabCount
		m.cursor = 0
		return m, nil
	case "j", "down":
		if m.cursor < len(rows)-1 {
			m.cursor++
		}
		return m, nil
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "enter", " ":
		if m.cursor < len(rows) {
			return m, rows[m.cursor].onEnter
		}
		return m, nil
	case "x":
		if m.cursor < len(rows) {
			return m, rows[m.cursor].onClear
		}
		return m, nil
	case "e":
		if m.cursor < len(rows) && rows[m.cursor].edit != nil {
			spec := rows[m.cursor].edit
			m.editing = true
			m.commit = spec.commit
			m.input.Placeholder = spec.placeholder
			m.input.SetValue(spec.initial)
			m.input.CursorEnd()
			m.input.Focus()
			return m, textinput.Blink
		}
		return m, nil
	}

	return m, nil
}

func (m ShotConfigModel) shot() scene.Shot {
	return *m.sc.ShotBySlot(m.slot)
}

// --- row construction ---

func (m ShotConfigModel) buildRows() []row {
	switch m.tab {
	case tabCharacters:
		return m.characterRows()
	case tabLocation:
		return m.locationRows()
	case tabProps:
		return m.propRows()
	case tabDialogue:
		return m.dialogueRows()
	case tabOverrides:
		return m.overrideRows()
	case tabSettings:
		return m.settingRows()
	}
	return nil
}

func (m ShotConfigModel) characterRows() []row {
	shot := m.shot()
	slot := m.slot
	var rows []row

	required := wizard.RequiredCharacterIDs(shot, m.sc.Characters, m.sess.PronounMappings(slot), m.sess.ManualCharacters(slot))
	for _, id := range required {
		id := id
		name := id
		var outfits []string
		if c := m.sc.CharacterByID(id); c != nil {
			name = c.Name
			outfits = c.Outfits
		}

		candidates := m.lib.Headshots(id)
		value := ""
		missing := true
		if ref, ok := m.sess.CharacterRef(slot, id); ok {
			value = refLabel(ref.PoseID, ref.ImageURL)
			missing = false
		} else if len(candidates) == 0 {
			value = "no headshots in library"
		} else {
			value = fmt.Sprintf("none selected (%d available)", len(candidates))
		}

		rows = append(rows, row{
			label:   name,
			value:   value,
			missing: missing,
			onEnter: m.cycleHeadshot(slot, id, candidates),
			onClear: applyCmd(func(s *session.Session) *session.Session {
				return s.ClearCharacterRef(slot, id)
			}),
		})

		if len(outfits) > 0 {
			rows = append(rows, row{
				label:   "  outfit",
				value:   orMissing(m.sess.Outfit(slot, id), "default"),
				onEnter: m.cycleOutfit(slot, id, outfits),
				onClear: applyCmd(func(s *session.Session) *session.Session {
					return s.WithOutfit(slot, id, "")
				}),
			})
		}
	}

	// Pronouns detected in the shot text
	if _, pronouns := pronoun.Detect(shot.Text); len(pronouns) > 0 {
		for _, token := range pronouns {
			token := token
			mapping := m.sess.PronounMappings(slot)[token]
			r := row{
				label:   fmt.Sprintf("pronoun %q", token),
				value:   m.pronounValue(token, mapping),
				missing: !mapping.Mapped() && !(mapping.Skipped() && strings.TrimSpace(m.sess.PronounNotes(slot)[token]) != ""),
				onEnter: m.cyclePronoun(slot, token, mapping),
				onClear: applyCmd(func(s *session.Session) *session.Session {
					return s.ClearPronounMapping(slot, token)
				}),
			}
			if mapping.Skipped() {
				r.edit = &editSpec{
					placeholder: "who or what this pronoun refers to",
					initial:     m.sess.PronounNotes(slot)[token],
					commit: func(text string) tea.Cmd {
						return applyCmd(func(s *session.Session) *session.Session {
							return s.WithPronounNote(slot, token, text)
						})
					},
				}
			}
			rows = append(rows, r)
		}
	}

	// Manual additions beyond auto-detection
	if next := m.nextAddableCharacter(required); next != nil {
		id := next.ID
		rows = append(rows, row{
			label:   "Add character",
			value:   next.Name,
			onEnter: applyCmd(func(s *session.Session) *session.Session {
				return s.AddManualCharacter(slot, id)
			}),
		})
	}
	for _, id := range m.sess.ManualCharacters(slot) {
		id := id
		name := id
		if c := m.sc.CharacterByID(id); c != nil {
			name = c.Name
		}
		rows = append(rows, row{
			label:   "  remove",
			value:   name,
			onEnter: applyCmd(func(s *session.Session) *session.Session {
				return s.RemoveManualCharacter(slot, id)
			}),
		})
	}

	if len(rows) == 0 {
		rows = append(rows, row{label: "No characters", value: "nothing to configure for this shot", info: true})
	}
	return rows
}

func (m ShotConfigModel) locationRows() []row {
	shot := m.shot()
	slot := m.slot

	if !wizard.NeedsLocation(shot, m.sc.HasLocation()) {
		return []row{{label: "Location", value: "not required for this shot", info: true}}
	}

	var rows []row
	selected, hasSelected := m.sess.LocationRef(slot)

	for _, angle := range m.lib.LocationAngles(m.sc.LocationID) {
		angle := angle
		marker := "  "
		if hasSelected && selected.AngleID == angle.ID {
			marker = "✓ "
		}
		rows = append(rows, row{
			label: marker + angle.Label,
			value: angle.ID,
			onEnter: applyCmd(func(s *session.Session) *session.Session {
				return s.WithLocationRef(slot, session.LocationRef{
					AngleID:  angle.ID,
					S3Key:    angle.S3Key,
					ImageURL: angle.URL,
				}).WithLocationOptOut(slot, false)
			}),
			onClear: applyCmd(func(s *session.Session) *session.Session {
				return s.ClearLocationRef(slot)
			}),
		})
	}

	optedOut := m.sess.LocationOptOut(slot)
	rows = append(rows, row{
		label: "Skip location reference",
		value: checkbox(optedOut),
		onEnter: applyCmd(func(s *session.Session) *session.Session {
			return s.WithLocationOptOut(slot, !optedOut)
		}),
	})

	if optedOut {
		note := m.sess.LocationNote(slot)
		rows = append(rows, row{
			label:   "  description",
			value:   orMissing(note, "required when skipping"),
			missing: strings.TrimSpace(note) == "",
			edit: &editSpec{
				placeholder: "describe the setting",
				initial:     note,
				commit: func(text string) tea.Cmd {
					return applyCmd(func(s *session.Session) *session.Session {
						return s.WithLocationNote(slot, text)
					})
				},
			},
		})
	}

	return rows
}

func (m ShotConfigModel) propRows() []row {
	slot := m.slot
	var rows []row

	for _, prop := range m.sc.Props {
		prop := prop
		assigned := false
		for _, sl := range m.sess.PropSlots(prop.ID) {
			if sl == slot {
				assigned = true
				break
			}
		}

		rows = append(rows, row{
			label: prop.Name,
			value: checkbox(assigned),
			onEnter: applyCmd(func(s *session.Session) *session.Session {
				if assigned {
					return s.UnassignProp(prop.ID, slot)
				}
				return s.AssignProp(prop.ID, slot)
			}),
		})

		if assigned {
			images := m.lib.PropImages(prop.ID)
			rows = append(rows, row{
				label:   "  image",
				value:   orMissing(m.sess.PropImage(slot, prop.ID), "none"),
				onEnter: m.cyclePropImage(slot, prop.ID, images),
			})
			usage := m.sess.PropUsage(slot, prop.ID)
			rows = append(rows, row{
				label: "  usage",
				value: orMissing(usage, "none"),
				edit: &editSpec{
					placeholder: "how the prop is used",
					initial:     usage,
					commit: func(text string) tea.Cmd {
						return applyCmd(func(s *session.Session) *session.Session {
							return s.WithPropUsage(slot, prop.ID, text)
						})
					},
				},
			})
		}
	}

	if len(rows) == 0 {
		rows = append(rows, row{label: "No props", value: "the scene defines no props", info: true})
	}
	return rows
}

func (m ShotConfigModel) dialogueRows() []row {
	shot := m.shot()
	slot := m.slot

	if !shot.IsDialogue() {
		return []row{{label: "Dialogue", value: "not a dialogue shot", info: true}}
	}

	cfg, _ := m.sess.Dialogue(slot)
	var rows []row

	rows = append(rows, row{
		label:   "Quality",
		value:   string(orQuality(cfg.Quality)),
		onEnter: m.setDialogue(slot, func(c session.DialogueConfig) session.DialogueConfig {
			c.Quality = nextQuality(orQuality(c.Quality))
			return c
		}),
	})

	rows = append(rows, row{
		label:   "Workflow",
		value:   string(orWorkflow(cfg.Workflow)),
		onEnter: m.setDialogue(slot, func(c session.DialogueConfig) session.DialogueConfig {
			c.Workflow = nextWorkflow(orWorkflow(c.Workflow))
			return c
		}),
	})

	rows = append(rows, row{
		label: "Workflow prompt",
		value: orMissing(cfg.Prompt, "none"),
		edit: &editSpec{
			placeholder: "extra guidance for the workflow",
			initial:     cfg.Prompt,
			commit: func(text string) tea.Cmd {
				return m.setDialogue(slot, func(c session.DialogueConfig) session.DialogueConfig {
					c.Prompt = text
					return c
				})
			},
		},
	})

	if orWorkflow(cfg.Workflow) == scene.WorkflowNarrateShot {
		rows = append(rows, row{
			label:   "Narration override",
			value:   orMissing(cfg.NarrationOverride, "required"),
			missing: strings.TrimSpace(cfg.NarrationOverride) == "",
			edit: &editSpec{
				placeholder: "the voiceover line",
				initial:     cfg.NarrationOverride,
				commit: func(text string) tea.Cmd {
					return m.setDialogue(slot, func(c session.DialogueConfig) session.DialogueConfig {
						c.NarrationOverride = text
						return c
					})
				},
			},
		})
		rows = append(rows, row{
			label:   "Narrator",
			value:   orMissing(m.characterName(cfg.NarratorID), "none"),
			onEnter: m.setDialogue(slot, func(c session.DialogueConfig) session.DialogueConfig {
				c.NarratorID = m.nextCharacterID(c.NarratorID)
				return c
			}),
		})
	}

	optIn := m.sess.VideoOptIn(slot)
	rows = append(rows, row{
		label: "Generate video",
		value: checkbox(optIn),
		onEnter: applyCmd(func(s *session.Session) *session.Session {
			return s.WithVideoOptIn(slot, !optIn)
		}),
	})

	if optIn {
		t, ok := m.sess.VideoType(slot)
		value := "select a model"
		if ok {
			value = string(t)
		}
		rows = append(rows, row{
			label:   "  video model",
			value:   value,
			missing: !ok,
			onEnter: applyCmd(func(s *session.Session) *session.Session {
				cur, _ := s.VideoType(slot)
				return s.WithVideoType(slot, nextVideoType(cur))
			}),
		})
	}

	return rows
}

func (m ShotConfigModel) overrideRows() []row {
	slot := m.slot
	override := m.sess.Override(slot)
	var rows []row

	if m.sess.OverrideAllowed(slot) {
		rows = append(rows, row{
			label: "First frame override",
			value: checkbox(m.sess.FirstFrameOverrideEnabled(slot)),
			onEnter: applyCmd(func(s *session.Session) *session.Session {
				cfg := s.Override(slot)
				return s.WithFirstFrameOverride(slot, !s.FirstFrameOverrideEnabled(slot), cfg.FirstFramePrompt)
			}),
		})
		rows = append(rows, row{
			label: "  prompt",
			value: orMissing(override.FirstFramePrompt, "none"),
			edit: &editSpec{
				placeholder: "prompt for the first frame",
				initial:     override.FirstFramePrompt,
				commit: func(text string) tea.Cmd {
					return applyCmd(func(s *session.Session) *session.Session {
						return s.WithFirstFrameOverride(slot, s.Override(slot).FirstFrameEnabled, text)
					})
				},
			},
		})

		rows = append(rows, row{
			label: "Video prompt override",
			value: checkbox(m.sess.VideoPromptOverrideEnabled(slot)),
			onEnter: applyCmd(func(s *session.Session) *session.Session {
				cfg := s.Override(slot)
				return s.WithVideoPromptOverride(slot, !s.VideoPromptOverrideEnabled(slot), cfg.VideoPrompt)
			}),
		})
		rows = append(rows, row{
			label: "  prompt",
			value: orMissing(override.VideoPrompt, "none"),
			edit: &editSpec{
				placeholder: "prompt for the video pass",
				initial:     override.VideoPrompt,
				commit: func(text string) tea.Cmd {
					return applyCmd(func(s *session.Session) *session.Session {
						return s.WithVideoPromptOverride(slot, s.Override(slot).VideoPromptEnabled, text)
					})
				},
			},
		})
	} else {
		rows = append(rows, row{
			label: "Prompt overrides",
			value: "only available for the scene voiceover workflow",
			info:  true,
		})
	}

	uploadValue := orMissing(override.UploadedFirstFrame, "none")
	if m.uploading {
		uploadValue = "uploading..."
	}
	uploadRow := row{
		label: "Uploaded first frame",
		value: uploadValue,
		edit: &editSpec{
			placeholder: "path to an image file",
			commit: func(text string) tea.Cmd {
				slot := slot
				return func() tea.Msg { return UploadRequestMsg{Slot: slot, Path: text} }
			},
		},
		onClear: applyCmd(func(s *session.Session) *session.Session {
			return s.WithUploadedFirstFrame(slot, "")
		}),
	}
	rows = append(rows, uploadRow)

	return rows
}

func (m ShotConfigModel) settingRows() []row {
	slot := m.slot
	return []row{
		{
			label:   "Camera angle",
			value:   string(m.sess.CameraAngle(slot)),
			onEnter: applyCmd(func(s *session.Session) *session.Session {
				return s.WithCameraAngle(slot, nextCamera(s.CameraAngle(slot)))
			}),
		},
		{
			label:   "Duration",
			value:   string(m.sess.Duration(slot)),
			onEnter: applyCmd(func(s *session.Session) *session.Session {
				return s.WithDuration(slot, nextDuration(s.Duration(slot)))
			}),
		},
		{
			label:   "Aspect ratio",
			value:   string(m.sess.AspectRatio(slot)),
			onEnter: applyCmd(func(s *session.Session) *session.Session {
				return s.WithAspectRatio(slot, nextRatio(s.AspectRatio(slot)))
			}),
		},
		{
			label:   "Reference model",
			value:   string(m.sess.RefModel(slot)),
			onEnter: applyCmd(func(s *session.Session) *session.Session {
				return s.WithRefModel(slot, nextRefModel(s.RefModel(slot)))
			}),
		},
		{
			label: "Off-frame",
			value: orMissing(m.sess.OffFramePrompt(slot), "none"),
			edit: &editSpec{
				placeholder: "action or audio just outside the frame",
				initial:     m.sess.OffFramePrompt(slot),
				commit: func(text string) tea.Cmd {
					return applyCmd(func(s *session.Session) *session.Session {
						return s.WithOffFramePrompt(slot, text)
					})
				},
			},
		},
	}
}

// --- cycling helpers ---

func (m ShotConfigModel) cycleHeadshot(slot int, id string, candidates []registry.Headshot) tea.Cmd {
	if len(candidates) == 0 {
		return nil
	}
	current := -1
	if ref, ok := m.sess.CharacterRef(slot, id); ok {
		for i, h := range candidates {
			if h.Pose == ref.PoseID {
				current = i
				break
			}
		}
	}
	next := candidates[(current+1)%len(candidates)]
	return applyCmd(func(s *session.Session) *session.Session {
		return s.WithCharacterRef(slot, id, session.ImageRef{
			PoseID:   next.Pose,
			S3Key:    next.S3Key,
			ImageURL: next.URL,
		})
	})
}

func (m ShotConfigModel) cycleOutfit(slot int, id string, outfits []string) tea.Cmd {
	current := m.sess.Outfit(slot, id)
	idx := -1
	for i, o := range outfits {
		if o == current {
			idx = i
			break
		}
	}
	var next string
	if idx+1 < len(outfits) {
		next = outfits[idx+1]
	}
	return applyCmd(func(s *session.Session) *session.Session {
		return s.WithOutfit(slot, id, next)
	})
}

func (m ShotConfigModel) cyclePropImage(slot int, propID string, images []registry.PropImage) tea.Cmd {
	if len(images) == 0 {
		return nil
	}
	current := m.sess.PropImage(slot, propID)
	idx := -1
	for i, img := range images {
		if img.ID == current {
			idx = i
			break
		}
	}
	next := images[(idx+1)%len(images)]
	return applyCmd(func(s *session.Session) *session.Session {
		return s.WithPropImage(slot, propID, next.ID)
	})
}

// cyclePronoun walks the mapping options for a token: each scene character,
// the full cast for plural tokens, then skip, then back to unmapped.
func (m ShotConfigModel) cyclePronoun(slot int, token string, current pronoun.Mapping) tea.Cmd {
	options := m.pronounOptions(token)
	if len(options) == 0 {
		return nil
	}

	idx := -1
	for i, opt := range options {
		if mappingKey(opt) == mappingKey(current) {
			idx = i
			break
		}
	}

	if idx+1 >= len(options) {
		// Past the last option: back to unmapped.
		return applyCmd(func(s *session.Session) *session.Session {
			return s.ClearPronounMapping(slot, token)
		})
	}

	next := options[idx+1]
	return applyCmd(func(s *session.Session) *session.Session {
		return s.WithPronounMapping(slot, token, next)
	})
}

func (m ShotConfigModel) pronounOptions(token string) []pronoun.Mapping {
	var options []pronoun.Mapping
	if pronoun.IsSingular(token) {
		for _, c := range m.sc.Characters {
			options = append(options, pronoun.MapTo(c.ID))
		}
	} else {
		for _, c := range m.sc.Characters {
			options = append(options, pronoun.MapTo(c.ID))
		}
		if len(m.sc.Characters) > 1 {
			ids := make([]string, len(m.sc.Characters))
			for i, c := range m.sc.Characters {
				ids[i] = c.ID
			}
			options = append(options, pronoun.MapTo(ids...))
		}
	}
	options = append(options, pronoun.Skip())
	return options
}

func (m ShotConfigModel) pronounValue(token string, mapping pronoun.Mapping) string {
	switch {
	case mapping.Skipped():
		note := strings.TrimSpace(m.sess.PronounNotes(m.slot)[token])
		if note == "" {
			return "skipped (description required)"
		}
		return "skipped: " + note
	case mapping.Mapped():
		names := make([]string, 0, len(mapping.CharacterIDs()))
		for _, id := range mapping.CharacterIDs() {
			names = append(names, m.characterName(id))
		}
		return strings.Join(names, ", ")
	default:
		return "unmapped"
	}
}

func (m ShotConfigModel) setDialogue(slot int, f func(session.DialogueConfig) session.DialogueConfig) tea.Cmd {
	return applyCmd(func(s *session.Session) *session.Session {
		cfg, _ := s.Dialogue(slot)
		return s.WithDialogue(slot, f(cfg))
	})
}

func (m ShotConfigModel) characterName(id string) string {
	if id == "" {
		return ""
	}
	if c := m.sc.CharacterByID(id); c != nil {
		return c.Name
	}
	return id
}

func (m ShotConfigModel) nextCharacterID(current string) string {
	chars := m.sc.Characters
	if len(chars) == 0 {
		return ""
	}
	for i, c := range chars {
		if c.ID == current {
			return chars[(i+1)%len(chars)].ID
		}
	}
	return chars[0].ID
}

func (m ShotConfigModel) nextAddableCharacter(required []string) *scene.Character {
	isRequired := make(map[string]bool, len(required))
	for _, id := range required {
		isRequired[id] = true
	}
	for i := range m.sc.Characters {
		if !isRequired[m.sc.Characters[i].ID] {
			return &m.sc.Characters[i]
		}
	}
	return nil
}

// --- rendering ---

// View renders the shot configuration screen.
func (m ShotConfigModel) View() string {
	if m.sess == nil {
		return "Loading..."
	}

	shot := m.shot()
	var b strings.Builder

	// Tab bar
	var tabs []string
	for i, name := range tabNames {
		if i == m.tab {
			tabs = append(tabs, tabActiveStyle.Render(name))
		} else {
			tabs = append(tabs, tabStyle.Render(name))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	// Shot header
	header := fmt.Sprintf("Shot %d · %s", shot.Slot, shot.Type)
	b.WriteString(subtitleStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(valueStyle.Render(wordWrap(shot.Text, contentWidth(m.width))))
	b.WriteString("\n\n")

	// Rows
	rows := m.buildRows()
	for i, r := range rows {
		line := m.renderRow(r, i == m.cursor)
		b.WriteString(line)
		b.WriteString("\n")
	}

	// Active editor
	if m.editing {
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter: save • esc: cancel"))
		b.WriteString("\n")
	}

	if m.uploadErr != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Upload failed: " + m.uploadErr))
		b.WriteString("\n")
	}

	// Validation errors from a blocked Next
	if len(m.errors) > 0 {
		var eb strings.Builder
		eb.WriteString(errorStyle.Render("Cannot continue:"))
		for _, e := range m.errors {
			eb.WriteString("\n• " + e)
		}
		b.WriteString(errorBoxStyle.Render(eb.String()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab: section • j/k: move • enter: select/toggle • e: edit text • x: clear"))

	return b.String()
}

func (m ShotConfigModel) renderRow(r row, focused bool) string {
	label := labelStyle.Render(r.label)

	var value string
	switch {
	case r.info:
		value = missingStyle.Render(r.value)
	case r.missing:
		value = missingStyle.Render(r.value)
	default:
		value = setStyle.Render(r.value)
	}

	marker := "  "
	if focused {
		marker = cursorStyle.Render("› ")
	}

	return marker + label + " " + value
}

func contentWidth(width int) int {
	if width <= 0 {
		return 70
	}
	w := width - 6
	if w < 40 {
		w = 40
	}
	return w
}

// Tab bar styles, local to this view
var (
	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Padding(0, 2)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffe66d")).
			Background(lipgloss.Color("#2d3436")).
			Padding(0, 2)
)

// --- enum cycling ---

func orQuality(q scene.DialogueQuality) scene.DialogueQuality {
	if q == "" {
		return scene.QualityReliable
	}
	return q
}

func nextQuality(q scene.DialogueQuality) scene.DialogueQuality {
	if q == scene.QualityReliable {
		return scene.QualityPremium
	}
	return scene.QualityReliable
}

func orWorkflow(w scene.WorkflowType) scene.WorkflowType {
	if w == "" {
		return scene.WorkflowLipSync
	}
	return w
}

var workflowOrder = []scene.WorkflowType{
	scene.WorkflowLipSync,
	scene.WorkflowNarrateShot,
	scene.WorkflowHiddenMouth,
	scene.WorkflowExtremeCloseup,
	scene.WorkflowExtremeCloseupSync,
}

func nextWorkflow(w scene.WorkflowType) scene.WorkflowType {
	for i, wf := range workflowOrder {
		if wf == w {
			return workflowOrder[(i+1)%len(workflowOrder)]
		}
	}
	return workflowOrder[0]
}

var videoTypeOrder = []scene.VideoType{scene.VideoStandard, scene.VideoCinema, scene.VideoTurbo}

func nextVideoType(t scene.VideoType) scene.VideoType {
	for i, vt := range videoTypeOrder {
		if vt == t {
			return videoTypeOrder[(i+1)%len(videoTypeOrder)]
		}
	}
	return videoTypeOrder[0]
}

var cameraOrder = []scene.CameraAngle{
	scene.CameraAuto,
	scene.CameraWide,
	scene.CameraMedium,
	scene.CameraCloseUp,
	scene.CameraOverShoulder,
	scene.CameraPOV,
	scene.CameraLowAngle,
	scene.CameraHighAngle,
}

func nextCamera(a scene.CameraAngle) scene.CameraAngle {
	for i, c := range cameraOrder {
		if c == a {
			return cameraOrder[(i+1)%len(cameraOrder)]
		}
	}
	return cameraOrder[0]
}

func nextDuration(d scene.ShotDuration) scene.ShotDuration {
	if d == scene.DurationQuickCut {
		return scene.DurationExtendedTake
	}
	return scene.DurationQuickCut
}

func nextRatio(r scene.AspectRatio) scene.AspectRatio {
	for i, ar := range scene.AspectRatios {
		if ar == r {
			return scene.AspectRatios[(i+1)%len(scene.AspectRatios)]
		}
	}
	return scene.AspectRatios[0]
}

var refModelOrder = []scene.RefImageModel{scene.RefModelDefault, scene.RefModelPortrait, scene.RefModelScenic}

func nextRefModel(rm scene.RefImageModel) scene.RefImageModel {
	for i, r := range refModelOrder {
		if r == rm {
			return refModelOrder[(i+1)%len(refModelOrder)]
		}
	}
	return refModelOrder[0]
}

// --- small helpers ---

func orMissing(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func refLabel(poseID, url string) string {
	if poseID != "" {
		return "pose " + poseID
	}
	if url != "" {
		return url
	}
	return "custom"
}

func mappingKey(m pronoun.Mapping) string {
	if m.Skipped() {
		return "skip"
	}
	return "ids:" + strings.Join(m.CharacterIDs(), ",")
}
