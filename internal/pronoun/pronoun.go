// Package pronoun handles pronoun detection in shot text and the per-shot
// mapping of pronouns to characters. Every pronoun a shot's text contains
// must either resolve to one or more characters or be explicitly skipped
// with a description before the shot can be generated.
package pronoun

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Singular and plural pronoun token classes. These are fixed: detection and
// categorization only ever consider these tokens.
var (
	singularTokens = []string{"she", "her", "hers", "he", "him", "his"}
	pluralTokens   = []string{"they", "them", "their", "theirs"}

	singularRe = regexp.MustCompile(`(?i)\b(she|her|hers|he|him|his)\b`)
	pluralRe   = regexp.MustCompile(`(?i)\b(they|them|their|theirs)\b`)
)

// IsSingular reports whether token is a singular pronoun. Tokens are
// compared lower-cased.
func IsSingular(token string) bool {
	token = strings.ToLower(token)
	for _, t := range singularTokens {
		if t == token {
			return true
		}
	}
	return false
}

// IsPlural reports whether token is a plural pronoun.
func IsPlural(token string) bool {
	token = strings.ToLower(token)
	for _, t := range pluralTokens {
		if t == token {
			return true
		}
	}
	return false
}

// Detect scans shot text for pronoun tokens. Each distinct token appears
// once, lower-cased, in first-seen order.
func Detect(text string) (bool, []string) {
	var found []string
	seen := make(map[string]bool)

	for _, re := range []*regexp.Regexp{singularRe, pluralRe} {
		for _, match := range re.FindAllString(text, -1) {
			token := strings.ToLower(match)
			if !seen[token] {
				seen[token] = true
				found = append(found, token)
			}
		}
	}

	return len(found) > 0, found
}

// skipSentinel is the serialized form of an explicitly skipped pronoun.
// It exists only at the YAML boundary; in memory a skip is a tagged state.
const skipSentinel = "__ignore__"

// Mapping is the resolution of one pronoun within one shot: either mapped
// to one or more character ids, or explicitly skipped. The zero value is
// unresolved (neither mapped nor skipped).
type Mapping struct {
	ids     []string
	skipped bool
}

// MapTo builds a mapping to the given character ids. Empty ids are dropped.
func MapTo(ids ...string) Mapping {
	kept := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && id != skipSentinel {
			kept = append(kept, id)
		}
	}
	return Mapping{ids: kept}
}

// Skip builds an explicitly skipped mapping.
func Skip() Mapping {
	return Mapping{skipped: true}
}

// Skipped reports whether the pronoun was explicitly skipped.
func (m Mapping) Skipped() bool { return m.skipped }

// Mapped reports whether the pronoun resolves to at least one character.
func (m Mapping) Mapped() bool { return !m.skipped && len(m.ids) > 0 }

// CharacterIDs returns the mapped character ids. Nil when skipped or
// unresolved.
func (m Mapping) CharacterIDs() []string {
	if m.skipped {
		return nil
	}
	return m.ids
}

// Single returns the mapped character id when exactly one is mapped.
func (m Mapping) Single() (string, bool) {
	if !m.skipped && len(m.ids) == 1 {
		return m.ids[0], true
	}
	return "", false
}

// MarshalYAML serializes a mapping as a single id, an id list, or the skip
// sentinel, matching the session file format.
func (m Mapping) MarshalYAML() (interface{}, error) {
	switch {
	case m.skipped:
		return skipSentinel, nil
	case len(m.ids) == 1:
		return m.ids[0], nil
	default:
		return m.ids, nil
	}
}

// UnmarshalYAML accepts the three serialized forms produced by MarshalYAML.
func (m *Mapping) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		if s == skipSentinel {
			*m = Skip()
		} else {
			*m = MapTo(s)
		}
		return nil
	case yaml.SequenceNode:
		var ids []string
		if err := value.Decode(&ids); err != nil {
			return err
		}
		*m = MapTo(ids...)
		return nil
	default:
		return fmt.Errorf("pronoun mapping: unsupported YAML node kind %d", value.Kind)
	}
}

// ValidateAllMapped returns the detected pronouns that are not satisfied. A
// pronoun is satisfied when it is mapped to at least one character, or when
// it is skipped and its note (from the per-shot notes table) is non-empty
// after trimming. Pure: re-running on unchanged inputs yields the same list.
func ValidateAllMapped(pronouns []string, mappings map[string]Mapping, notes map[string]string) []string {
	var unmapped []string

	for _, p := range pronouns {
		p = strings.ToLower(p)
		m := mappings[p]

		if m.Mapped() {
			continue
		}
		if m.Skipped() && strings.TrimSpace(notes[p]) != "" {
			continue
		}

		unmapped = append(unmapped, p)
	}

	return unmapped
}
