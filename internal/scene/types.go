// Package scene holds the core types for a parsed screenplay scene and its
// shot breakdown. Scenes are produced by the upstream analysis step and are
// immutable inputs to the wizard; the wizard only annotates shots through
// keyed side-tables (see the session package).
package scene

import "strings"

// ShotType classifies a shot within the scene breakdown.
type ShotType string

const (
	ShotAction       ShotType = "action"       // Narration beat, no spoken line
	ShotDialogue     ShotType = "dialogue"     // A character speaking
	ShotEstablishing ShotType = "establishing" // Wide establishing view of the location
)

// CameraAngle is the per-shot camera override. Auto lets the backend choose.
type CameraAngle string

const (
	CameraAuto         CameraAngle = "auto"
	CameraWide         CameraAngle = "wide"
	CameraMedium       CameraAngle = "medium"
	CameraCloseUp      CameraAngle = "close-up"
	CameraOverShoulder CameraAngle = "over-shoulder"
	CameraPOV          CameraAngle = "pov"
	CameraLowAngle     CameraAngle = "low-angle"
	CameraHighAngle    CameraAngle = "high-angle"
)

// ShotDuration selects the clip length tier for a shot.
type ShotDuration string

const (
	DurationQuickCut     ShotDuration = "quick-cut"
	DurationExtendedTake ShotDuration = "extended-take"
)

// AspectRatio is the output frame ratio for a shot.
type AspectRatio string

const (
	Ratio16x9 AspectRatio = "16:9"
	Ratio9x16 AspectRatio = "9:16"
	Ratio1x1  AspectRatio = "1:1"
	Ratio4x3  AspectRatio = "4:3"
	Ratio21x9 AspectRatio = "21:9"
)

// AspectRatios lists every selectable ratio in display order.
var AspectRatios = []AspectRatio{Ratio16x9, Ratio9x16, Ratio1x1, Ratio4x3, Ratio21x9}

// DialogueQuality selects the generation tier for dialogue shots.
type DialogueQuality string

const (
	QualityPremium  DialogueQuality = "premium"
	QualityReliable DialogueQuality = "reliable"
)

// WorkflowType is the named generation strategy for a dialogue shot.
type WorkflowType string

const (
	WorkflowLipSync            WorkflowType = "lip-sync"
	WorkflowNarrateShot        WorkflowType = "narrate-shot" // Scene voiceover over the shot
	WorkflowHiddenMouth        WorkflowType = "hidden-mouth-dialogue"
	WorkflowExtremeCloseup     WorkflowType = "extreme-closeup"
	WorkflowExtremeCloseupSync WorkflowType = "extreme-closeup-lipsync"
)

// SupportsOverrides reports whether a workflow permits first-frame and
// video-prompt overrides. Only the scene-voiceover workflow does; for every
// other dialogue workflow the prompts are derived from the dialogue line.
func (w WorkflowType) SupportsOverrides() bool {
	return w == WorkflowNarrateShot
}

// VideoType selects the video model used when a dialogue shot opts in to
// video generation.
type VideoType string

const (
	VideoStandard VideoType = "standard"
	VideoCinema   VideoType = "cinema"
	VideoTurbo    VideoType = "turbo"
)

// RefImageModel selects the image model used to render reference shots.
type RefImageModel string

const (
	RefModelDefault  RefImageModel = "default"
	RefModelPortrait RefImageModel = "portrait"
	RefModelScenic   RefImageModel = "scenic"
)

// Shot is one unit of the scene breakdown. Slot is stable for the lifetime
// of the wizard and keys every configuration side-table.
type Shot struct {
	Slot        int      `yaml:"slot" json:"slot"`
	Type        ShotType `yaml:"type" json:"type"`
	Text        string   `yaml:"text" json:"text"`                                   // Narration or the spoken line
	CharacterID string   `yaml:"character_id,omitempty" json:"character_id,omitempty"` // Dialogue speaker
	LocationID  string   `yaml:"location_id,omitempty" json:"location_id,omitempty"`
	Credits     int      `yaml:"credits,omitempty" json:"credits,omitempty"` // Base cost unit from upstream analysis
}

// IsDialogue reports whether the shot carries a spoken line.
func (s Shot) IsDialogue() bool { return s.Type == ShotDialogue }

// Character is an entry from the external character registry. Read-only here.
type Character struct {
	ID      string   `yaml:"id" json:"id"`
	Name    string   `yaml:"name" json:"name"`
	Outfits []string `yaml:"outfits,omitempty" json:"outfits,omitempty"`
}

// Location is an entry from the external location registry.
type Location struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// Prop is an entry from the external prop registry.
type Prop struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// Scene is a parsed screenplay scene with its shot breakdown and the
// registry entities referenced by it.
type Scene struct {
	ID         string      `yaml:"id" json:"id"`
	Title      string      `yaml:"title" json:"title"`
	LocationID string      `yaml:"location_id,omitempty" json:"location_id,omitempty"`
	Shots      []Shot      `yaml:"shots" json:"shots"`
	Characters []Character `yaml:"characters,omitempty" json:"characters,omitempty"`
	Locations  []Location  `yaml:"locations,omitempty" json:"locations,omitempty"`
	Props      []Prop      `yaml:"props,omitempty" json:"props,omitempty"`
}

// HasLocation reports whether the scene carries an associated location.
// Action and dialogue shots only require a location reference when it does.
func (sc *Scene) HasLocation() bool { return sc.LocationID != "" }

// ShotBySlot returns the shot with the given slot, or nil if none exists.
func (sc *Scene) ShotBySlot(slot int) *Shot {
	for i := range sc.Shots {
		if sc.Shots[i].Slot == slot {
			return &sc.Shots[i]
		}
	}
	return nil
}

// CharacterByID returns the registry character with the given id, or nil.
func (sc *Scene) CharacterByID(id string) *Character {
	for i := range sc.Characters {
		if sc.Characters[i].ID == id {
			return &sc.Characters[i]
		}
	}
	return nil
}

// CharacterByName returns the character whose name matches case-insensitively.
func (sc *Scene) CharacterByName(name string) *Character {
	for i := range sc.Characters {
		if strings.EqualFold(sc.Characters[i].Name, name) {
			return &sc.Characters[i]
		}
	}
	return nil
}
