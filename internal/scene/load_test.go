package scene

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSceneYAML = `
id: sc-01
title: The Warehouse
location_id: warehouse
shots:
  - slot: 1
    type: establishing
    text: The warehouse at dusk.
  - slot: 2
    type: action
    text: SARAH slips inside.
  - slot: 3
    type: dialogue
    character_id: sarah
    text: We're too late.
    credits: 2
characters:
  - id: sarah
    name: Sarah
    outfits: [coat, disguise]
  - id: james
    name: James
locations:
  - id: warehouse
    name: Riverside Warehouse
props:
  - id: briefcase
    name: Briefcase
`

func writeScene(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	sc, err := Load(writeScene(t, validSceneYAML))
	require.NoError(t, err)

	assert.Equal(t, "sc-01", sc.ID)
	assert.True(t, sc.HasLocation())
	require.Len(t, sc.Shots, 3)
	assert.Equal(t, 2, sc.Shots[2].Credits)
	assert.True(t, sc.Shots[2].IsDialogue())

	shot := sc.ShotBySlot(2)
	require.NotNil(t, shot)
	assert.Equal(t, ShotAction, shot.Type)
	assert.Nil(t, sc.ShotBySlot(99))

	require.NotNil(t, sc.CharacterByID("sarah"))
	assert.Equal(t, []string{"coat", "disguise"}, sc.CharacterByID("sarah").Outfits)
	require.NotNil(t, sc.CharacterByName("JAMES"))
	assert.Equal(t, "james", sc.CharacterByName("JAMES").ID)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "no shots",
			yaml:    "id: sc-02\nshots: []\n",
			wantErr: "no shots",
		},
		{
			name: "duplicate slot",
			yaml: `
id: sc-02
shots:
  - {slot: 1, type: action, text: one}
  - {slot: 1, type: action, text: two}
`,
			wantErr: "duplicate shot slot 1",
		},
		{
			name: "unknown shot type",
			yaml: `
id: sc-02
shots:
  - {slot: 1, type: montage, text: one}
`,
			wantErr: "unknown type",
		},
		{
			name: "unresolved dialogue speaker",
			yaml: `
id: sc-02
shots:
  - {slot: 1, type: dialogue, character_id: ghost, text: boo}
characters:
  - {id: sarah, name: Sarah}
`,
			wantErr: "not in character list",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Load(writeScene(t, tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadAcceptsSpeakerByName(t *testing.T) {
	t.Parallel()

	// Upstream parsers sometimes emit the screenplay name instead of the id.
	sc, err := Load(writeScene(t, `
id: sc-03
shots:
  - {slot: 1, type: dialogue, character_id: SARAH, text: Hello.}
characters:
  - {id: sarah, name: Sarah}
`))
	require.NoError(t, err)
	assert.Equal(t, "SARAH", sc.Shots[0].CharacterID)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Parallel()

	sc, err := Load(writeScene(t, validSceneYAML))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "copy.yaml")
	require.NoError(t, Save(path, sc))

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, sc, reloaded)
}
