package pronoun

import (
	"regexp"
	"strings"

	"github.com/shotwright/shotwright/internal/scene"
)

// Categories classifies the characters relevant to a shot by how they were
// referenced: named directly, via a singular pronoun, or via a plural
// pronoun. Ids are deduplicated within each category.
type Categories struct {
	Explicit        []string
	SingularPronoun []string
	PluralPronoun   []string
}

// Categorize classifies the characters referenced by a shot.
//
// For action shots the explicit characters are those whose name appears in
// the narration text; for dialogue shots the explicit character is the
// speaker. Pronoun categories come from the shot's mapping table: singular
// tokens contribute their single mapped id, plural tokens contribute every
// id in their mapped list. Skipped and unresolved mappings contribute
// nothing.
func Categorize(shot scene.Shot, characters []scene.Character, mappings map[string]Mapping) Categories {
	var cats Categories

	switch shot.Type {
	case scene.ShotDialogue:
		if shot.CharacterID != "" {
			cats.Explicit = append(cats.Explicit, shot.CharacterID)
		}
	case scene.ShotAction:
		for _, c := range characters {
			if NameMentioned(shot.Text, c.Name) {
				cats.Explicit = append(cats.Explicit, c.ID)
			}
		}
	}

	seenSingular := make(map[string]bool)
	seenPlural := make(map[string]bool)

	for token, m := range mappings {
		switch {
		case IsSingular(token):
			if id, ok := m.Single(); ok && !seenSingular[id] {
				seenSingular[id] = true
				cats.SingularPronoun = append(cats.SingularPronoun, id)
			}
		case IsPlural(token):
			for _, id := range m.CharacterIDs() {
				if !seenPlural[id] {
					seenPlural[id] = true
					cats.PluralPronoun = append(cats.PluralPronoun, id)
				}
			}
		}
	}

	return cats
}

// NameMentioned reports whether a character name appears in shot text.
// Matching is case-insensitive on word boundaries, which covers both the
// ALL-CAPS screenplay convention and the possessive form ("Sarah's").
func NameMentioned(text, name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(name) + `(?:'s)?\b`)
	if err != nil {
		return false
	}
	return re.MatchString(text)
}
