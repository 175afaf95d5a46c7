// Package session holds the per-shot configuration state for one wizard
// run. Every configurable dimension lives in its own table keyed by shot
// slot, and every update action returns a new snapshot that shares all
// untouched tables with its predecessor. That discipline keeps
// change-detection a pointer comparison and makes validation read from a
// consistent snapshot, never from half-applied state.
//
// Actions do not cross-validate their input; all completion rules live in
// the wizard package. The only couplings enforced here are the cascading
// clears: turning video opt-in off drops the shot's video type, and moving
// a dialogue shot away from the scene-voiceover workflow drops its prompt
// overrides.
package session

import (
	"fmt"
	"strings"

	"github.com/shotwright/shotwright/internal/pronoun"
	"github.com/shotwright/shotwright/internal/scene"
)

// ImageRef is a chosen character reference image for one shot.
type ImageRef struct {
	PoseID   string `yaml:"pose_id,omitempty"`
	S3Key    string `yaml:"s3_key,omitempty"`
	ImageURL string `yaml:"image_url,omitempty"`
}

// IsZero reports whether no selection has been made.
func (r ImageRef) IsZero() bool { return r == ImageRef{} }

// LocationRef is a chosen location-angle reference image for one shot.
type LocationRef struct {
	AngleID  string `yaml:"angle_id,omitempty"`
	S3Key    string `yaml:"s3_key,omitempty"`
	ImageURL string `yaml:"image_url,omitempty"`
}

// IsZero reports whether no selection has been made.
func (r LocationRef) IsZero() bool { return r == LocationRef{} }

// DialogueConfig is the workflow configuration for a dialogue shot.
type DialogueConfig struct {
	Quality           scene.DialogueQuality `yaml:"quality,omitempty"`
	Workflow          scene.WorkflowType    `yaml:"workflow,omitempty"`
	Prompt            string                `yaml:"prompt,omitempty"`
	NarrationOverride string                `yaml:"narration_override,omitempty"` // narrate-shot only
	NarratorID        string                `yaml:"narrator_id,omitempty"`        // narrate-shot only
}

// OverrideConfig holds the first-frame and video-prompt overrides for a
// shot, plus the mutually exclusive uploaded first frame.
type OverrideConfig struct {
	FirstFrameEnabled  bool   `yaml:"first_frame_enabled,omitempty"`
	FirstFramePrompt   string `yaml:"first_frame_prompt,omitempty"`
	VideoPromptEnabled bool   `yaml:"video_prompt_enabled,omitempty"`
	VideoPrompt        string `yaml:"video_prompt,omitempty"`
	UploadedFirstFrame string `yaml:"uploaded_first_frame,omitempty"` // display URL, set after a completed upload
}

// IsZero reports whether the shot carries no override state at all.
func (o OverrideConfig) IsZero() bool { return o == OverrideConfig{} }

// Session is one immutable snapshot of the wizard's per-shot configuration.
// Obtain new snapshots through the With*/Clear* actions; never mutate the
// returned maps.
type Session struct {
	sc *scene.Scene

	characterRefs    map[int]map[string]ImageRef
	outfits          map[int]map[string]string
	manualCharacters map[int][]string
	pronounMappings  map[int]map[string]pronoun.Mapping
	pronounNotes     map[int]map[string]string

	locationRefs    map[int]LocationRef
	locationOptOuts map[int]bool
	locationNotes   map[int]string

	propSlots  map[string][]int          // prop id -> shots it appears in
	propImages map[int]map[string]string // slot -> prop id -> image id
	propUsage  map[int]map[string]string // slot -> prop id -> usage description

	dialogue     map[int]DialogueConfig
	cameraAngles map[int]scene.CameraAngle
	durations    map[int]scene.ShotDuration
	aspectRatios map[int]scene.AspectRatio
	refModels    map[int]scene.RefImageModel

	videoOptIns map[int]bool
	videoTypes  map[int]scene.VideoType

	overrides       map[int]OverrideConfig
	offFramePrompts map[int]string
}

// New creates an empty session for a scene. All tables start empty; the
// scene itself is never modified.
func New(sc *scene.Scene) *Session {
	return &Session{
		sc:               sc,
		characterRefs:    map[int]map[string]ImageRef{},
		outfits:          map[int]map[string]string{},
		manualCharacters: map[int][]string{},
		pronounMappings:  map[int]map[string]pronoun.Mapping{},
		pronounNotes:     map[int]map[string]string{},
		locationRefs:     map[int]LocationRef{},
		locationOptOuts:  map[int]bool{},
		locationNotes:    map[int]string{},
		propSlots:        map[string][]int{},
		propImages:       map[int]map[string]string{},
		propUsage:        map[int]map[string]string{},
		dialogue:         map[int]DialogueConfig{},
		cameraAngles:     map[int]scene.CameraAngle{},
		durations:        map[int]scene.ShotDuration{},
		aspectRatios:     map[int]scene.AspectRatio{},
		refModels:        map[int]scene.RefImageModel{},
		videoOptIns:      map[int]bool{},
		videoTypes:       map[int]scene.VideoType{},
		overrides:        map[int]OverrideConfig{},
		offFramePrompts:  map[int]string{},
	}
}

// Scene returns the scene this session configures.
func (s *Session) Scene() *scene.Scene { return s.sc }

// mustShot panics when slot has no backing shot. A bad slot is a caller
// bug, not user input, so it fails loudly.
func (s *Session) mustShot(slot int) *scene.Shot {
	shot := s.sc.ShotBySlot(slot)
	if shot == nil {
		panic(fmt.Sprintf("session: no shot with slot %d", slot))
	}
	return shot
}

// table helpers: each produces a new outer map with only the affected entry
// replaced, leaving every other entry shared with the previous snapshot.

func setFlat[V any](m map[int]V, slot int, v V) map[int]V {
	next := make(map[int]V, len(m)+1)
	for k, val := range m {
		next[k] = val
	}
	next[slot] = v
	return next
}

func delFlat[V any](m map[int]V, slot int) map[int]V {
	if _, ok := m[slot]; !ok {
		return m
	}
	next := make(map[int]V, len(m))
	for k, val := range m {
		if k != slot {
			next[k] = val
		}
	}
	return next
}

func setNested[V any](m map[int]map[string]V, slot int, key string, v V) map[int]map[string]V {
	next := make(map[int]map[string]V, len(m)+1)
	for k, inner := range m {
		next[k] = inner
	}
	inner := make(map[string]V, len(m[slot])+1)
	for k, val := range m[slot] {
		inner[k] = val
	}
	inner[key] = v
	next[slot] = inner
	return next
}

func delNested[V any](m map[int]map[string]V, slot int, key string) map[int]map[string]V {
	if _, ok := m[slot][key]; !ok {
		return m
	}
	next := make(map[int]map[string]V, len(m))
	for k, inner := range m {
		next[k] = inner
	}
	inner := make(map[string]V, len(m[slot]))
	for k, val := range m[slot] {
		if k != key {
			inner[k] = val
		}
	}
	if len(inner) == 0 {
		delete(next, slot)
	} else {
		next[slot] = inner
	}
	return next
}

// --- character references ---

// WithCharacterRef records the chosen reference image for a character in a
// shot.
func (s *Session) WithCharacterRef(slot int, characterID string, ref ImageRef) *Session {
	s.mustShot(slot)
	next := *s
	next.characterRefs = setNested(s.characterRefs, slot, characterID, ref)
	return &next
}

// ClearCharacterRef removes a character's reference selection from a shot.
func (s *Session) ClearCharacterRef(slot int, characterID string) *Session {
	s.mustShot(slot)
	next := *s
	next.characterRefs = delNested(s.characterRefs, slot, characterID)
	return &next
}

// CharacterRef returns the reference selected for a character in a shot.
func (s *Session) CharacterRef(slot int, characterID string) (ImageRef, bool) {
	ref, ok := s.characterRefs[slot][characterID]
	return ref, ok
}

// WithOutfit records the outfit selected for a character in a shot.
func (s *Session) WithOutfit(slot int, characterID, outfit string) *Session {
	s.mustShot(slot)
	next := *s
	if outfit == "" {
		next.outfits = delNested(s.outfits, slot, characterID)
	} else {
		next.outfits = setNested(s.outfits, slot, characterID, outfit)
	}
	return &next
}

// Outfit returns the outfit selected for a character in a shot.
func (s *Session) Outfit(slot int, characterID string) string {
	return s.outfits[slot][characterID]
}

// AddManualCharacter adds a character the user wants in the shot beyond
// auto-detection. Adding an already-present id is a no-op.
func (s *Session) AddManualCharacter(slot int, characterID string) *Session {
	s.mustShot(slot)
	for _, id := range s.manualCharacters[slot] {
		if id == characterID {
			return s
		}
	}
	next := *s
	ids := make([]string, 0, len(s.manualCharacters[slot])+1)
	ids = append(ids, s.manualCharacters[slot]...)
	ids = append(ids, characterID)
	next.manualCharacters = setFlat(s.manualCharacters, slot, ids)
	return &next
}

// RemoveManualCharacter removes a manually added character from a shot.
func (s *Session) RemoveManualCharacter(slot int, characterID string) *Session {
	s.mustShot(slot)
	old := s.manualCharacters[slot]
	ids := make([]string, 0, len(old))
	for _, id := range old {
		if id != characterID {
			ids = append(ids, id)
		}
	}
	if len(ids) == len(old) {
		return s
	}
	next := *s
	if len(ids) == 0 {
		next.manualCharacters = delFlat(s.manualCharacters, slot)
	} else {
		next.manualCharacters = setFlat(s.manualCharacters, slot, ids)
	}
	return &next
}

// ManualCharacters returns the manually added character ids for a shot.
func (s *Session) ManualCharacters(slot int) []string {
	return s.manualCharacters[slot]
}

// --- pronouns ---

// WithPronounMapping records the resolution of one pronoun in a shot.
func (s *Session) WithPronounMapping(slot int, token string, m pronoun.Mapping) *Session {
	s.mustShot(slot)
	next := *s
	next.pronounMappings = setNested(s.pronounMappings, slot, strings.ToLower(token), m)
	return &next
}

// ClearPronounMapping removes a pronoun's resolution from a shot.
func (s *Session) ClearPronounMapping(slot int, token string) *Session {
	s.mustShot(slot)
	next := *s
	next.pronounMappings = delNested(s.pronounMappings, slot, strings.ToLower(token))
	return &next
}

// PronounMappings returns the pronoun mapping table for a shot. Treat the
// result as read-only.
func (s *Session) PronounMappings(slot int) map[string]pronoun.Mapping {
	return s.pronounMappings[slot]
}

// WithPronounNote records the free-text description attached to a skipped
// pronoun. An empty note removes the entry.
func (s *Session) WithPronounNote(slot int, token, note string) *Session {
	s.mustShot(slot)
	next := *s
	token = strings.ToLower(token)
	if note == "" {
		next.pronounNotes = delNested(s.pronounNotes, slot, token)
	} else {
		next.pronounNotes = setNested(s.pronounNotes, slot, token, note)
	}
	return &next
}

// PronounNotes returns the skipped-pronoun descriptions for a shot.
func (s *Session) PronounNotes(slot int) map[string]string {
	return s.pronounNotes[slot]
}

// --- location ---

// WithLocationRef records the chosen location-angle reference for a shot.
func (s *Session) WithLocationRef(slot int, ref LocationRef) *Session {
	s.mustShot(slot)
	next := *s
	next.locationRefs = setFlat(s.locationRefs, slot, ref)
	return &next
}

// ClearLocationRef removes the location reference selection from a shot.
func (s *Session) ClearLocationRef(slot int) *Session {
	s.mustShot(slot)
	next := *s
	next.locationRefs = delFlat(s.locationRefs, slot)
	return &next
}

// LocationRef returns the location reference selected for a shot.
func (s *Session) LocationRef(slot int) (LocationRef, bool) {
	ref, ok := s.locationRefs[slot]
	return ref, ok
}

// WithLocationOptOut records whether the user chose to proceed without a
// location reference for a shot.
func (s *Session) WithLocationOptOut(slot int, optOut bool) *Session {
	s.mustShot(slot)
	next := *s
	if optOut {
		next.locationOptOuts = setFlat(s.locationOptOuts, slot, true)
	} else {
		next.locationOptOuts = delFlat(s.locationOptOuts, slot)
	}
	return &next
}

// LocationOptOut reports whether the shot opted out of a location reference.
func (s *Session) LocationOptOut(slot int) bool { return s.locationOptOuts[slot] }

// WithLocationNote records the description that compensates for a location
// opt-out. An empty note removes the entry.
func (s *Session) WithLocationNote(slot int, note string) *Session {
	s.mustShot(slot)
	next := *s
	if note == "" {
		next.locationNotes = delFlat(s.locationNotes, slot)
	} else {
		next.locationNotes = setFlat(s.locationNotes, slot, note)
	}
	return &next
}

// LocationNote returns the opt-out description for a shot.
func (s *Session) LocationNote(slot int) string { return s.locationNotes[slot] }

// --- props ---

// AssignProp adds a shot to the prop's assignment list. Props are optional
// annotations; no completion rule depends on them.
func (s *Session) AssignProp(propID string, slot int) *Session {
	s.mustShot(slot)
	for _, sl := range s.propSlots[propID] {
		if sl == slot {
			return s
		}
	}
	next := *s
	slots := make(map[string][]int, len(s.propSlots)+1)
	for k, v := range s.propSlots {
		slots[k] = v
	}
	assigned := make([]int, 0, len(s.propSlots[propID])+1)
	assigned = append(assigned, s.propSlots[propID]...)
	assigned = append(assigned, slot)
	slots[propID] = assigned
	next.propSlots = slots
	return &next
}

// UnassignProp removes a shot from the prop's assignment list along with
// the shot's image selection and usage description for that prop.
func (s *Session) UnassignProp(propID string, slot int) *Session {
	s.mustShot(slot)
	old := s.propSlots[propID]
	kept := make([]int, 0, len(old))
	for _, sl := range old {
		if sl != slot {
			kept = append(kept, sl)
		}
	}
	if len(kept) == len(old) {
		return s
	}
	next := *s
	slots := make(map[string][]int, len(s.propSlots))
	for k, v := range s.propSlots {
		slots[k] = v
	}
	if len(kept) == 0 {
		delete(slots, propID)
	} else {
		slots[propID] = kept
	}
	next.propSlots = slots
	next.propImages = delNested(next.propImages, slot, propID)
	next.propUsage = delNested(next.propUsage, slot, propID)
	return &next
}

// PropSlots returns the shots a prop is assigned to.
func (s *Session) PropSlots(propID string) []int { return s.propSlots[propID] }

// WithPropImage records the image selected for a prop within a shot.
func (s *Session) WithPropImage(slot int, propID, imageID string) *Session {
	s.mustShot(slot)
	next := *s
	if imageID == "" {
		next.propImages = delNested(s.propImages, slot, propID)
	} else {
		next.propImages = setNested(s.propImages, slot, propID, imageID)
	}
	return &next
}

// PropImage returns the image selected for a prop within a shot.
func (s *Session) PropImage(slot int, propID string) string {
	return s.propImages[slot][propID]
}

// WithPropUsage records how a prop is used within a shot.
func (s *Session) WithPropUsage(slot int, propID, usage string) *Session {
	s.mustShot(slot)
	next := *s
	if usage == "" {
		next.propUsage = delNested(s.propUsage, slot, propID)
	} else {
		next.propUsage = setNested(s.propUsage, slot, propID, usage)
	}
	return &next
}

// PropUsage returns the usage description for a prop within a shot.
func (s *Session) PropUsage(slot int, propID string) string {
	return s.propUsage[slot][propID]
}

// --- dialogue workflow ---

// WithDialogue replaces the dialogue configuration for a shot. When the new
// workflow no longer permits prompt overrides, any override flags and texts
// for the shot are cleared rather than left dangling; an uploaded first
// frame survives, since it is not a prompt override.
func (s *Session) WithDialogue(slot int, cfg DialogueConfig) *Session {
	s.mustShot(slot)
	next := *s
	next.dialogue = setFlat(s.dialogue, slot, cfg)
	if !cfg.Workflow.SupportsOverrides() {
		next.clearPromptOverrides(slot)
	}
	return &next
}

// ClearDialogue removes the dialogue configuration for a shot.
func (s *Session) ClearDialogue(slot int) *Session {
	s.mustShot(slot)
	next := *s
	next.dialogue = delFlat(s.dialogue, slot)
	next.clearPromptOverrides(slot)
	return &next
}

// clearPromptOverrides drops the prompt override flags and texts for a shot,
// preserving an uploaded first frame. Operates on the snapshot under
// construction.
func (next *Session) clearPromptOverrides(slot int) {
	cfg, ok := next.overrides[slot]
	if !ok {
		return
	}
	cleared := OverrideConfig{UploadedFirstFrame: cfg.UploadedFirstFrame}
	if cleared.IsZero() {
		next.overrides = delFlat(next.overrides, slot)
	} else {
		next.overrides = setFlat(next.overrides, slot, cleared)
	}
}

// Dialogue returns the dialogue configuration for a shot.
func (s *Session) Dialogue(slot int) (DialogueConfig, bool) {
	cfg, ok := s.dialogue[slot]
	return cfg, ok
}

// --- camera / duration / ratio / model ---

// WithCameraAngle sets the camera override for a shot. Auto removes the
// entry, since auto is the absence of an override.
func (s *Session) WithCameraAngle(slot int, angle scene.CameraAngle) *Session {
	s.mustShot(slot)
	next := *s
	if angle == scene.CameraAuto || angle == "" {
		next.cameraAngles = delFlat(s.cameraAngles, slot)
	} else {
		next.cameraAngles = setFlat(s.cameraAngles, slot, angle)
	}
	return &next
}

// CameraAngle returns the camera setting for a shot, defaulting to auto.
func (s *Session) CameraAngle(slot int) scene.CameraAngle {
	if angle, ok := s.cameraAngles[slot]; ok {
		return angle
	}
	return scene.CameraAuto
}

// WithDuration sets the clip length tier for a shot.
func (s *Session) WithDuration(slot int, d scene.ShotDuration) *Session {
	s.mustShot(slot)
	next := *s
	if d == "" {
		next.durations = delFlat(s.durations, slot)
	} else {
		next.durations = setFlat(s.durations, slot, d)
	}
	return &next
}

// Duration returns the clip length tier for a shot, defaulting to quick-cut.
func (s *Session) Duration(slot int) scene.ShotDuration {
	if d, ok := s.durations[slot]; ok {
		return d
	}
	return scene.DurationQuickCut
}

// WithAspectRatio sets the frame ratio for a shot.
func (s *Session) WithAspectRatio(slot int, r scene.AspectRatio) *Session {
	s.mustShot(slot)
	next := *s
	if r == "" {
		next.aspectRatios = delFlat(s.aspectRatios, slot)
	} else {
		next.aspectRatios = setFlat(s.aspectRatios, slot, r)
	}
	return &next
}

// AspectRatio returns the frame ratio for a shot, defaulting to 16:9.
func (s *Session) AspectRatio(slot int) scene.AspectRatio {
	if r, ok := s.aspectRatios[slot]; ok {
		return r
	}
	return scene.Ratio16x9
}

// WithRefModel sets the reference-shot image model for a shot.
func (s *Session) WithRefModel(slot int, m scene.RefImageModel) *Session {
	s.mustShot(slot)
	next := *s
	if m == "" || m == scene.RefModelDefault {
		next.refModels = delFlat(s.refModels, slot)
	} else {
		next.refModels = setFlat(s.refModels, slot, m)
	}
	return &next
}

// RefModel returns the reference-shot image model for a shot.
func (s *Session) RefModel(slot int) scene.RefImageModel {
	if m, ok := s.refModels[slot]; ok {
		return m
	}
	return scene.RefModelDefault
}

// --- video opt-in ---

// WithVideoOptIn sets the per-shot video opt-in. Opting out also clears the
// shot's video type so stale pricing cannot survive the toggle.
func (s *Session) WithVideoOptIn(slot int, optIn bool) *Session {
	s.mustShot(slot)
	next := *s
	if optIn {
		next.videoOptIns = setFlat(s.videoOptIns, slot, true)
	} else {
		next.videoOptIns = delFlat(s.videoOptIns, slot)
		next.videoTypes = delFlat(s.videoTypes, slot)
	}
	return &next
}

// VideoOptIn reports whether the shot opted in to video generation.
func (s *Session) VideoOptIn(slot int) bool { return s.videoOptIns[slot] }

// WithVideoType selects the video model for an opted-in shot.
func (s *Session) WithVideoType(slot int, t scene.VideoType) *Session {
	s.mustShot(slot)
	next := *s
	if t == "" {
		next.videoTypes = delFlat(s.videoTypes, slot)
	} else {
		next.videoTypes = setFlat(s.videoTypes, slot, t)
	}
	return &next
}

// VideoType returns the video model selected for a shot.
func (s *Session) VideoType(slot int) (scene.VideoType, bool) {
	t, ok := s.videoTypes[slot]
	return t, ok
}

// --- overrides ---

// OverrideAllowed reports whether prompt overrides are permitted for a
// shot: always for non-dialogue shots, and for dialogue shots only in the
// scene-voiceover workflow.
func (s *Session) OverrideAllowed(slot int) bool {
	shot := s.mustShot(slot)
	if !shot.IsDialogue() {
		return true
	}
	cfg, ok := s.dialogue[slot]
	return ok && cfg.Workflow.SupportsOverrides()
}

// WithFirstFrameOverride sets the first-frame prompt override. The action
// is a no-op when overrides are not permitted for the shot, so the stored
// state can never drift into a forbidden configuration.
func (s *Session) WithFirstFrameOverride(slot int, enabled bool, text string) *Session {
	if !s.OverrideAllowed(slot) {
		return s
	}
	next := *s
	cfg := s.overrides[slot]
	cfg.FirstFrameEnabled = enabled
	cfg.FirstFramePrompt = text
	if cfg.IsZero() {
		next.overrides = delFlat(s.overrides, slot)
	} else {
		next.overrides = setFlat(s.overrides, slot, cfg)
	}
	return &next
}

// WithVideoPromptOverride sets the video prompt override, under the same
// permission rule as WithFirstFrameOverride.
func (s *Session) WithVideoPromptOverride(slot int, enabled bool, text string) *Session {
	if !s.OverrideAllowed(slot) {
		return s
	}
	next := *s
	cfg := s.overrides[slot]
	cfg.VideoPromptEnabled = enabled
	cfg.VideoPrompt = text
	if cfg.IsZero() {
		next.overrides = delFlat(s.overrides, slot)
	} else {
		next.overrides = setFlat(s.overrides, slot, cfg)
	}
	return &next
}

// WithUploadedFirstFrame records the display URL of a completed first-frame
// upload. Set only after the full presign/upload/register/resolve flow
// succeeds.
func (s *Session) WithUploadedFirstFrame(slot int, url string) *Session {
	s.mustShot(slot)
	next := *s
	cfg := s.overrides[slot]
	cfg.UploadedFirstFrame = url
	if cfg.IsZero() {
		next.overrides = delFlat(s.overrides, slot)
	} else {
		next.overrides = setFlat(s.overrides, slot, cfg)
	}
	return &next
}

// Override returns the override state for a shot.
func (s *Session) Override(slot int) OverrideConfig { return s.overrides[slot] }

// FirstFrameOverrideEnabled reports whether the first-frame override is in
// effect. Derived at read time: an explicit flag or already-present text
// both count, so the flag and the text can never drift apart.
func (s *Session) FirstFrameOverrideEnabled(slot int) bool {
	cfg := s.overrides[slot]
	return cfg.FirstFrameEnabled || strings.TrimSpace(cfg.FirstFramePrompt) != ""
}

// VideoPromptOverrideEnabled reports whether the video-prompt override is
// in effect, derived the same way as FirstFrameOverrideEnabled.
func (s *Session) VideoPromptOverrideEnabled(slot int) bool {
	cfg := s.overrides[slot]
	return cfg.VideoPromptEnabled || strings.TrimSpace(cfg.VideoPrompt) != ""
}

// --- off-frame ---

// WithOffFramePrompt records what happens just outside the frame (ambient
// action or audio the generator should account for).
func (s *Session) WithOffFramePrompt(slot int, text string) *Session {
	s.mustShot(slot)
	next := *s
	if text == "" {
		next.offFramePrompts = delFlat(s.offFramePrompts, slot)
	} else {
		next.offFramePrompts = setFlat(s.offFramePrompts, slot, text)
	}
	return &next
}

// OffFramePrompt returns the off-frame description for a shot.
func (s *Session) OffFramePrompt(slot int) string { return s.offFramePrompts[slot] }
