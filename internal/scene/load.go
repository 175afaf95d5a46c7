package scene

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a scene file produced by the upstream analysis step.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene file: %w", err)
	}

	var sc Scene
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parsing scene file: %w", err)
	}

	if err := sc.Check(); err != nil {
		return nil, err
	}

	return &sc, nil
}

// Check verifies the structural assumptions the wizard relies on: at least
// one shot, unique slots, known shot types, and dialogue speakers that
// resolve against the scene's character list.
func (sc *Scene) Check() error {
	if len(sc.Shots) == 0 {
		return fmt.Errorf("scene %q has no shots", sc.ID)
	}

	seen := make(map[int]bool, len(sc.Shots))
	for _, shot := range sc.Shots {
		if seen[shot.Slot] {
			return fmt.Errorf("scene %q: duplicate shot slot %d", sc.ID, shot.Slot)
		}
		seen[shot.Slot] = true

		switch shot.Type {
		case ShotAction, ShotDialogue, ShotEstablishing:
		default:
			return fmt.Errorf("scene %q: shot %d has unknown type %q", sc.ID, shot.Slot, shot.Type)
		}

		// Upstream parsers emit either the character id or the screenplay
		// name, so both forms must resolve.
		if shot.Type == ShotDialogue && shot.CharacterID != "" {
			if sc.CharacterByID(shot.CharacterID) == nil && sc.CharacterByName(shot.CharacterID) == nil {
				return fmt.Errorf("scene %q: shot %d speaker %q not in character list", sc.ID, shot.Slot, shot.CharacterID)
			}
		}
	}

	return nil
}

// Save writes a scene back to disk. Used by tooling only; the wizard never
// mutates scenes.
func Save(path string, sc *Scene) error {
	out, err := yaml.Marshal(sc)
	if err != nil {
		return fmt.Errorf("marshaling scene: %w", err)
	}

	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing scene file: %w", err)
	}

	return nil
}
