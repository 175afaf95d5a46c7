package wizard

import (
	"fmt"
	"strings"

	"github.com/shotwright/shotwright/internal/pronoun"
	"github.com/shotwright/shotwright/internal/scene"
	"github.com/shotwright/shotwright/internal/session"
)

// HeadshotSource reports how many candidate headshots the media library
// holds for a character. The validator needs nothing else from the
// registry, and tests stub this with a map.
type HeadshotSource interface {
	HeadshotCount(characterID string) int
}

// Validator runs the completion rules for a single shot. It reads only the
// session snapshot handed to it and never mutates anything, so running it
// twice on the same snapshot yields the same list.
type Validator struct {
	Headshots HeadshotSource
}

// NewValidator creates a validator backed by the given headshot source.
func NewValidator(headshots HeadshotSource) *Validator {
	return &Validator{Headshots: headshots}
}

// ValidateShot returns every problem blocking the shot from advancing, in
// a fixed order, accumulated rather than short-circuited so the user sees
// all of them at once. An empty result means the shot is complete.
func (v *Validator) ValidateShot(s *session.Session, slot int) []string {
	sc := s.Scene()
	shot := sc.ShotBySlot(slot)
	if shot == nil {
		panic(fmt.Sprintf("wizard: no shot with slot %d", slot))
	}

	var errs []string
	override := s.Override(slot)
	dialogueCfg, hasDialogueCfg := s.Dialogue(slot)
	narration := hasDialogueCfg && dialogueCfg.Workflow == scene.WorkflowNarrateShot

	// 1. First-frame override enabled with nothing to show for it.
	if s.FirstFrameOverrideEnabled(slot) &&
		strings.TrimSpace(override.FirstFramePrompt) == "" &&
		override.UploadedFirstFrame == "" {
		errs = append(errs, "First frame override is enabled but no prompt text or uploaded image was provided.")
	}

	// 2. Video prompt and narration requirements.
	if s.VideoPromptOverrideEnabled(slot) || narration {
		if strings.TrimSpace(override.VideoPrompt) == "" {
			errs = append(errs, "A video prompt is required for this shot.")
		}
	}
	if narration && strings.TrimSpace(dialogueCfg.NarrationOverride) == "" {
		errs = append(errs, "A narration override is required for the scene voiceover workflow.")
	}

	// 3. Reference requirements, bypassed entirely by an uploaded first frame.
	if override.UploadedFirstFrame == "" {
		errs = append(errs, v.locationErrors(sc, *shot, s, slot)...)
		errs = append(errs, v.characterErrors(sc, *shot, s, slot)...)
	}

	// 4. Video model selection for opted-in dialogue shots.
	if shot.IsDialogue() && s.VideoOptIn(slot) {
		if _, ok := s.VideoType(slot); !ok {
			errs = append(errs, "Select a video model for this shot.")
		}
	}

	// 5. Unresolved pronouns, reported as one combined error.
	if _, pronouns := pronoun.Detect(shot.Text); len(pronouns) > 0 {
		unmapped := pronoun.ValidateAllMapped(pronouns, s.PronounMappings(slot), s.PronounNotes(slot))
		if msg := pronounError(unmapped); msg != "" {
			errs = append(errs, msg)
		}
	}

	return errs
}

func (v *Validator) locationErrors(sc *scene.Scene, shot scene.Shot, s *session.Session, slot int) []string {
	if !LocationRequired(shot, sc.HasLocation()) {
		return nil
	}

	ref, _ := s.LocationRef(slot)
	optedOut := s.LocationOptOut(slot)
	note := s.LocationNote(slot)

	var errs []string
	if !LocationSatisfied(ref, optedOut, note) {
		errs = append(errs, "A location reference is required for this shot.")
		if optedOut && strings.TrimSpace(note) == "" {
			errs = append(errs, "The location reference was skipped; add a description of the setting instead.")
		}
	}
	return errs
}

func (v *Validator) characterErrors(sc *scene.Scene, shot scene.Shot, s *session.Session, slot int) []string {
	required := RequiredCharacterIDs(shot, sc.Characters, s.PronounMappings(slot), s.ManualCharacters(slot))

	var errs []string
	for _, id := range required {
		if _, ok := s.CharacterRef(slot, id); ok {
			continue
		}

		name := id
		if c := sc.CharacterByID(id); c != nil {
			name = c.Name
		}

		// Two deliberate message variants for the same invariant: the fix
		// differs depending on whether headshots exist to choose from.
		if v.Headshots == nil || v.Headshots.HeadshotCount(id) == 0 {
			errs = append(errs, fmt.Sprintf("No character images available for %s. Add headshots to the media library first.", name))
		} else {
			errs = append(errs, fmt.Sprintf("Select a character image for %s.", name))
		}
	}
	return errs
}

// pronounError formats the combined unmapped-pronoun error, with singular
// or plural phrasing depending on how many pronouns are outstanding.
func pronounError(unmapped []string) string {
	switch len(unmapped) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("Pronoun %q must be mapped to a character, or if skipped, a description is required.", unmapped[0])
	default:
		quoted := make([]string, len(unmapped))
		for i, p := range unmapped {
			quoted[i] = fmt.Sprintf("%q", p)
		}
		return fmt.Sprintf("Pronouns %s must be mapped to characters, or if skipped, descriptions are required.", strings.Join(quoted, ", "))
	}
}
