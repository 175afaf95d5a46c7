package session

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/shotwright/shotwright/internal/pronoun"
	"github.com/shotwright/shotwright/internal/scene"
)

// fileSession is the on-disk form of a session. Only populated tables are
// written; loading reconstructs the keyed snapshot against a scene.
type fileSession struct {
	SceneID string `yaml:"scene_id"`

	CharacterRefs    map[int]map[string]ImageRef        `yaml:"character_refs,omitempty"`
	Outfits          map[int]map[string]string          `yaml:"outfits,omitempty"`
	ManualCharacters map[int][]string                   `yaml:"manual_characters,omitempty"`
	PronounMappings  map[int]map[string]pronoun.Mapping `yaml:"pronoun_mappings,omitempty"`
	PronounNotes     map[int]map[string]string          `yaml:"pronoun_notes,omitempty"`

	LocationRefs    map[int]LocationRef `yaml:"location_refs,omitempty"`
	LocationOptOuts map[int]bool        `yaml:"location_opt_outs,omitempty"`
	LocationNotes   map[int]string      `yaml:"location_notes,omitempty"`

	PropSlots  map[string][]int          `yaml:"prop_slots,omitempty"`
	PropImages map[int]map[string]string `yaml:"prop_images,omitempty"`
	PropUsage  map[int]map[string]string `yaml:"prop_usage,omitempty"`

	Dialogue     map[int]DialogueConfig     `yaml:"dialogue,omitempty"`
	CameraAngles map[int]scene.CameraAngle  `yaml:"camera_angles,omitempty"`
	Durations    map[int]scene.ShotDuration `yaml:"durations,omitempty"`
	AspectRatios map[int]scene.AspectRatio  `yaml:"aspect_ratios,omitempty"`
	RefModels    map[int]scene.RefImageModel `yaml:"ref_models,omitempty"`

	VideoOptIns map[int]bool            `yaml:"video_opt_ins,omitempty"`
	VideoTypes  map[int]scene.VideoType `yaml:"video_types,omitempty"`

	Overrides       map[int]OverrideConfig `yaml:"overrides,omitempty"`
	OffFramePrompts map[int]string         `yaml:"off_frame_prompts,omitempty"`
}

// Save writes the session to a YAML file.
func Save(path string, s *Session) error {
	fs := fileSession{
		SceneID:          s.sc.ID,
		CharacterRefs:    s.characterRefs,
		Outfits:          s.outfits,
		ManualCharacters: s.manualCharacters,
		PronounMappings:  s.pronounMappings,
		PronounNotes:     s.pronounNotes,
		LocationRefs:     s.locationRefs,
		LocationOptOuts:  s.locationOptOuts,
		LocationNotes:    s.locationNotes,
		PropSlots:        s.propSlots,
		PropImages:       s.propImages,
		PropUsage:        s.propUsage,
		Dialogue:         s.dialogue,
		CameraAngles:     s.cameraAngles,
		Durations:        s.durations,
		AspectRatios:     s.aspectRatios,
		RefModels:        s.refModels,
		VideoOptIns:      s.videoOptIns,
		VideoTypes:       s.videoTypes,
		Overrides:        s.overrides,
		OffFramePrompts:  s.offFramePrompts,
	}

	out, err := yaml.Marshal(&fs)
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}

	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}

	return nil
}

// Load reads a session file and binds it to the given scene. The file must
// have been saved against the same scene.
func Load(path string, sc *scene.Scene) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading session file: %w", err)
	}

	var fs fileSession
	if err := yaml.Unmarshal(data, &fs); err != nil {
		return nil, fmt.Errorf("parsing session file: %w", err)
	}

	if fs.SceneID != "" && fs.SceneID != sc.ID {
		return nil, fmt.Errorf("session file is for scene %q, not %q", fs.SceneID, sc.ID)
	}

	s := New(sc)
	if fs.CharacterRefs != nil {
		s.characterRefs = fs.CharacterRefs
	}
	if fs.Outfits != nil {
		s.outfits = fs.Outfits
	}
	if fs.ManualCharacters != nil {
		s.manualCharacters = fs.ManualCharacters
	}
	if fs.PronounMappings != nil {
		s.pronounMappings = fs.PronounMappings
	}
	if fs.PronounNotes != nil {
		s.pronounNotes = fs.PronounNotes
	}
	if fs.LocationRefs != nil {
		s.locationRefs = fs.LocationRefs
	}
	if fs.LocationOptOuts != nil {
		s.locationOptOuts = fs.LocationOptOuts
	}
	if fs.LocationNotes != nil {
		s.locationNotes = fs.LocationNotes
	}
	if fs.PropSlots != nil {
		s.propSlots = fs.PropSlots
	}
	if fs.PropImages != nil {
		s.propImages = fs.PropImages
	}
	if fs.PropUsage != nil {
		s.propUsage = fs.PropUsage
	}
	if fs.Dialogue != nil {
		s.dialogue = fs.Dialogue
	}
	if fs.CameraAngles != nil {
		s.cameraAngles = fs.CameraAngles
	}
	if fs.Durations != nil {
		s.durations = fs.Durations
	}
	if fs.AspectRatios != nil {
		s.aspectRatios = fs.AspectRatios
	}
	if fs.RefModels != nil {
		s.refModels = fs.RefModels
	}
	if fs.VideoOptIns != nil {
		s.videoOptIns = fs.VideoOptIns
	}
	if fs.VideoTypes != nil {
		s.videoTypes = fs.VideoTypes
	}
	if fs.Overrides != nil {
		s.overrides = fs.Overrides
	}
	if fs.OffFramePrompts != nil {
		s.offFramePrompts = fs.OffFramePrompts
	}

	return s, nil
}
