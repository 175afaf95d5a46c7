package registry

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLibrary(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "library.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	stmts := []string{
		`CREATE TABLE headshots (id TEXT, character_id TEXT, pose TEXT, s3_key TEXT, url TEXT)`,
		`CREATE TABLE location_angles (id TEXT, location_id TEXT, label TEXT, s3_key TEXT, url TEXT)`,
		`CREATE TABLE prop_images (id TEXT, prop_id TEXT, url TEXT)`,
		`INSERT INTO headshots VALUES ('h1', 'sarah', 'front', 'refs/sarah-front.png', 'http://img/h1')`,
		`INSERT INTO headshots VALUES ('h2', 'sarah', 'profile', 'refs/sarah-profile.png', 'http://img/h2')`,
		`INSERT INTO headshots VALUES ('h3', 'james', 'front', 'refs/james-front.png', 'http://img/h3')`,
		`INSERT INTO location_angles VALUES ('a1', 'warehouse', 'wide east', 'refs/wh-east.png', 'http://img/a1')`,
		`INSERT INTO prop_images VALUES ('p1', 'briefcase', 'http://img/p1')`,
	}
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	return path
}

func TestOpen(t *testing.T) {
	t.Parallel()

	lib, err := Open(writeLibrary(t))
	require.NoError(t, err)

	heads := lib.Headshots("sarah")
	require.Len(t, heads, 2)
	assert.Equal(t, "front", heads[0].Pose)
	assert.Equal(t, "http://img/h1", heads[0].URL)

	assert.Equal(t, 2, lib.HeadshotCount("sarah"))
	assert.Equal(t, 1, lib.HeadshotCount("james"))
	assert.Equal(t, 0, lib.HeadshotCount("ghost"))

	angles := lib.LocationAngles("warehouse")
	require.Len(t, angles, 1)
	assert.Equal(t, "wide east", angles[0].Label)

	props := lib.PropImages("briefcase")
	require.Len(t, props, 1)
	assert.Equal(t, "p1", props[0].ID)
}

func TestEmptyLibrary(t *testing.T) {
	t.Parallel()

	lib := NewLibrary()
	assert.Empty(t, lib.Headshots("sarah"))
	assert.Zero(t, lib.HeadshotCount("sarah"))
	assert.Empty(t, lib.LocationAngles("warehouse"))
	assert.Empty(t, lib.PropImages("briefcase"))
}
