package pronoun

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "no pronouns",
			text: "SARAH opens the door and steps inside.",
			want: nil,
		},
		{
			name: "single pronoun",
			text: "She opens the door.",
			want: []string{"she"},
		},
		{
			name: "deduplicated and lower cased",
			text: "She looks up. SHE smiles. Then she leaves.",
			want: []string{"she"},
		},
		{
			name: "singular before plural regardless of text order",
			text: "They wave as he approaches.",
			want: []string{"he", "they"},
		},
		{
			name: "substring of a word does not match",
			text: "The shepherd gathers the flock.",
			want: nil,
		},
		{
			name: "possessive forms",
			text: "His coat hangs by their door.",
			want: []string{"his", "their"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			found, tokens := Detect(tt.text)
			assert.Equal(t, len(tt.want) > 0, found)
			assert.Equal(t, tt.want, tokens)
		})
	}
}

func TestMapping(t *testing.T) {
	t.Parallel()

	t.Run("zero value is unresolved", func(t *testing.T) {
		t.Parallel()
		var m Mapping
		assert.False(t, m.Mapped())
		assert.False(t, m.Skipped())
		assert.Nil(t, m.CharacterIDs())
	})

	t.Run("map to drops empty ids and the sentinel", func(t *testing.T) {
		t.Parallel()
		m := MapTo("", "sarah", "__ignore__")
		assert.True(t, m.Mapped())
		assert.Equal(t, []string{"sarah"}, m.CharacterIDs())
	})

	t.Run("single", func(t *testing.T) {
		t.Parallel()
		id, ok := MapTo("sarah").Single()
		assert.True(t, ok)
		assert.Equal(t, "sarah", id)

		_, ok = MapTo("sarah", "james").Single()
		assert.False(t, ok)

		_, ok = Skip().Single()
		assert.False(t, ok)
	})

	t.Run("skip has no character ids", func(t *testing.T) {
		t.Parallel()
		m := Skip()
		assert.True(t, m.Skipped())
		assert.False(t, m.Mapped())
		assert.Nil(t, m.CharacterIDs())
	})
}

func TestMappingYAML(t *testing.T) {
	t.Parallel()

	t.Run("skip serializes as the sentinel", func(t *testing.T) {
		t.Parallel()
		out, err := yaml.Marshal(Skip())
		require.NoError(t, err)
		assert.Equal(t, "__ignore__\n", string(out))

		var m Mapping
		require.NoError(t, yaml.Unmarshal(out, &m))
		assert.True(t, m.Skipped())
	})

	t.Run("single id serializes as a scalar", func(t *testing.T) {
		t.Parallel()
		out, err := yaml.Marshal(MapTo("sarah"))
		require.NoError(t, err)
		assert.Equal(t, "sarah\n", string(out))

		var m Mapping
		require.NoError(t, yaml.Unmarshal(out, &m))
		assert.Equal(t, []string{"sarah"}, m.CharacterIDs())
	})

	t.Run("multiple ids serialize as a list", func(t *testing.T) {
		t.Parallel()
		out, err := yaml.Marshal(MapTo("sarah", "james"))
		require.NoError(t, err)

		var m Mapping
		require.NoError(t, yaml.Unmarshal(out, &m))
		assert.Equal(t, []string{"sarah", "james"}, m.CharacterIDs())
	})
}

func TestValidateAllMapped(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		pronouns []string
		mappings map[string]Mapping
		notes    map[string]string
		want     []string
	}{
		{
			name:     "all mapped",
			pronouns: []string{"she", "they"},
			mappings: map[string]Mapping{
				"she":  MapTo("sarah"),
				"they": MapTo("sarah", "james"),
			},
			want: nil,
		},
		{
			name:     "skipped with note is satisfied",
			pronouns: []string{"he"},
			mappings: map[string]Mapping{"he": Skip()},
			notes:    map[string]string{"he": "the delivery driver"},
			want:     nil,
		},
		{
			name:     "skipped without note is not",
			pronouns: []string{"he"},
			mappings: map[string]Mapping{"he": Skip()},
			want:     []string{"he"},
		},
		{
			name:     "skipped with whitespace note is not",
			pronouns: []string{"he"},
			mappings: map[string]Mapping{"he": Skip()},
			notes:    map[string]string{"he": "   "},
			want:     []string{"he"},
		},
		{
			name:     "unmapped pronouns reported in input order",
			pronouns: []string{"she", "they", "him"},
			mappings: map[string]Mapping{"they": MapTo("sarah", "james")},
			want:     []string{"she", "him"},
		},
		{
			name:     "mixed case pronoun list",
			pronouns: []string{"She"},
			mappings: map[string]Mapping{"she": MapTo("sarah")},
			want:     nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ValidateAllMapped(tt.pronouns, tt.mappings, tt.notes)
			assert.Equal(t, tt.want, got)

			// Re-running on the same inputs yields the same answer.
			assert.Equal(t, got, ValidateAllMapped(tt.pronouns, tt.mappings, tt.notes))
		})
	}
}
