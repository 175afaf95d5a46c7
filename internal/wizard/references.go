package wizard

import (
	"sort"
	"strings"

	"github.com/shotwright/shotwright/internal/pronoun"
	"github.com/shotwright/shotwright/internal/scene"
)

// RequiredCharacterIDs returns every character that must be supplied a
// reference image before the shot can be generated: the dialogue speaker,
// characters named in the shot text, characters reached through pronoun
// mappings, and characters the user added manually. The result is
// deduplicated and deterministically ordered.
func RequiredCharacterIDs(shot scene.Shot, characters []scene.Character, mappings map[string]pronoun.Mapping, manual []string) []string {
	var ordered []string
	seen := make(map[string]bool)

	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			ordered = append(ordered, id)
		}
	}

	if shot.IsDialogue() {
		add(resolveSpeaker(shot, characters))
	}

	cats := pronoun.Categorize(shot, characters, mappings)
	for _, id := range cats.Explicit {
		add(id)
	}

	// Pronoun-mapped characters, in stable token order. Skipped mappings
	// contribute nothing.
	tokens := make([]string, 0, len(mappings))
	for token := range mappings {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	for _, token := range tokens {
		for _, id := range mappings[token].CharacterIDs() {
			add(id)
		}
	}

	for _, id := range manual {
		add(id)
	}

	return ordered
}

// resolveSpeaker maps the shot's dialogue-block character field to a
// registry character. Upstream parsers emit either the character id or the
// screenplay name, so an exact id match is tried first, then a
// case-insensitive name match.
func resolveSpeaker(shot scene.Shot, characters []scene.Character) string {
	if shot.CharacterID == "" {
		return ""
	}
	for _, c := range characters {
		if c.ID == shot.CharacterID {
			return c.ID
		}
	}
	for _, c := range characters {
		if strings.EqualFold(c.Name, shot.CharacterID) {
			return c.ID
		}
	}
	return shot.CharacterID
}
