package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shotwright/shotwright/internal/pronoun"
	"github.com/shotwright/shotwright/internal/scene"
)

func TestRequiredCharacterIDs(t *testing.T) {
	t.Parallel()

	characters := []scene.Character{
		{ID: "sarah", Name: "Sarah"},
		{ID: "james", Name: "James"},
		{ID: "cole", Name: "Detective Cole"},
	}

	t.Run("dialogue speaker comes first", func(t *testing.T) {
		t.Parallel()
		shot := scene.Shot{Slot: 1, Type: scene.ShotDialogue, CharacterID: "james", Text: "Sarah, wait."}
		got := RequiredCharacterIDs(shot, characters, nil, nil)
		assert.Equal(t, []string{"james"}, got)
	})

	t.Run("speaker given by screenplay name resolves to the id", func(t *testing.T) {
		t.Parallel()
		shot := scene.Shot{Slot: 1, Type: scene.ShotDialogue, CharacterID: "JAMES", Text: "Wait."}
		got := RequiredCharacterIDs(shot, characters, nil, nil)
		assert.Equal(t, []string{"james"}, got)
	})

	t.Run("action shot names then pronouns then manual", func(t *testing.T) {
		t.Parallel()
		shot := scene.Shot{Slot: 2, Type: scene.ShotAction, Text: "SARAH runs. He follows her."}
		mappings := map[string]pronoun.Mapping{
			"he":  pronoun.MapTo("james"),
			"her": pronoun.MapTo("sarah"),
		}
		got := RequiredCharacterIDs(shot, characters, mappings, []string{"cole"})
		assert.Equal(t, []string{"sarah", "james", "cole"}, got)
	})

	t.Run("deduplicated across sources", func(t *testing.T) {
		t.Parallel()
		shot := scene.Shot{Slot: 2, Type: scene.ShotAction, Text: "SARAH pauses. She listens."}
		mappings := map[string]pronoun.Mapping{"she": pronoun.MapTo("sarah")}
		got := RequiredCharacterIDs(shot, characters, mappings, []string{"sarah"})
		assert.Equal(t, []string{"sarah"}, got)
	})

	t.Run("skipped pronouns contribute nothing", func(t *testing.T) {
		t.Parallel()
		shot := scene.Shot{Slot: 2, Type: scene.ShotAction, Text: "He knocks."}
		mappings := map[string]pronoun.Mapping{"he": pronoun.Skip()}
		got := RequiredCharacterIDs(shot, characters, mappings, nil)
		assert.Empty(t, got)
	})

	t.Run("plural mapping pulls in the whole group", func(t *testing.T) {
		t.Parallel()
		shot := scene.Shot{Slot: 2, Type: scene.ShotAction, Text: "They scatter."}
		mappings := map[string]pronoun.Mapping{"they": pronoun.MapTo("sarah", "james", "cole")}
		got := RequiredCharacterIDs(shot, characters, mappings, nil)
		assert.Equal(t, []string{"sarah", "james", "cole"}, got)
	})

	t.Run("deterministic across runs", func(t *testing.T) {
		t.Parallel()
		shot := scene.Shot{Slot: 2, Type: scene.ShotAction, Text: "He waves. She waves back."}
		mappings := map[string]pronoun.Mapping{
			"he":  pronoun.MapTo("james"),
			"she": pronoun.MapTo("sarah"),
		}
		first := RequiredCharacterIDs(shot, characters, mappings, nil)
		for i := 0; i < 20; i++ {
			assert.Equal(t, first, RequiredCharacterIDs(shot, characters, mappings, nil))
		}
	})
}
