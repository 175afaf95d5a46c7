package pronoun

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shotwright/shotwright/internal/scene"
)

var testCharacters = []scene.Character{
	{ID: "sarah", Name: "Sarah"},
	{ID: "james", Name: "James"},
	{ID: "detective-cole", Name: "Detective Cole"},
}

func TestCategorize(t *testing.T) {
	t.Parallel()

	t.Run("dialogue shot speaker is explicit", func(t *testing.T) {
		t.Parallel()
		shot := scene.Shot{Slot: 1, Type: scene.ShotDialogue, CharacterID: "sarah", Text: "We need to leave."}
		cats := Categorize(shot, testCharacters, nil)
		assert.Equal(t, []string{"sarah"}, cats.Explicit)
		assert.Empty(t, cats.SingularPronoun)
		assert.Empty(t, cats.PluralPronoun)
	})

	t.Run("action shot scans names", func(t *testing.T) {
		t.Parallel()
		shot := scene.Shot{Slot: 2, Type: scene.ShotAction, Text: "SARAH grabs James's arm as Detective Cole watches."}
		cats := Categorize(shot, testCharacters, nil)
		assert.Equal(t, []string{"sarah", "james", "detective-cole"}, cats.Explicit)
	})

	t.Run("singular mapping contributes its single id", func(t *testing.T) {
		t.Parallel()
		shot := scene.Shot{Slot: 3, Type: scene.ShotAction, Text: "She turns away."}
		mappings := map[string]Mapping{"she": MapTo("sarah")}
		cats := Categorize(shot, testCharacters, mappings)
		assert.Equal(t, []string{"sarah"}, cats.SingularPronoun)
	})

	t.Run("plural mapping contributes every id", func(t *testing.T) {
		t.Parallel()
		shot := scene.Shot{Slot: 4, Type: scene.ShotAction, Text: "They run."}
		mappings := map[string]Mapping{"they": MapTo("sarah", "james")}
		cats := Categorize(shot, testCharacters, mappings)
		assert.ElementsMatch(t, []string{"sarah", "james"}, cats.PluralPronoun)
	})

	t.Run("skipped and unresolved mappings contribute nothing", func(t *testing.T) {
		t.Parallel()
		shot := scene.Shot{Slot: 5, Type: scene.ShotAction, Text: "He waves as they pass."}
		mappings := map[string]Mapping{
			"he":   Skip(),
			"they": {},
		}
		cats := Categorize(shot, testCharacters, mappings)
		assert.Empty(t, cats.SingularPronoun)
		assert.Empty(t, cats.PluralPronoun)
	})

	t.Run("establishing shot has no explicit characters", func(t *testing.T) {
		t.Parallel()
		shot := scene.Shot{Slot: 6, Type: scene.ShotEstablishing, Text: "The warehouse at dusk. Sarah's car outside."}
		cats := Categorize(shot, testCharacters, nil)
		assert.Empty(t, cats.Explicit)
	})
}

func TestNameMentioned(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		charName string
		want     bool
	}{
		{"all caps screenplay form", "SARAH slams the door.", "Sarah", true},
		{"possessive", "James's coat is torn.", "James", true},
		{"case insensitive", "sarah waits.", "Sarah", true},
		{"substring does not match", "The sarahphone rings.", "Sarah", false},
		{"multi word name", "DETECTIVE COLE enters.", "Detective Cole", true},
		{"absent", "The room is empty.", "Sarah", false},
		{"empty name", "Anything.", "", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, NameMentioned(tt.text, tt.charName))
		})
	}
}
