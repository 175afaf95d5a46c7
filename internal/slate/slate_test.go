package slate

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shotwright/shotwright/internal/scene"
)

func testScene() *scene.Scene {
	return &scene.Scene{
		ID:    "sc-01",
		Title: "The Warehouse",
		Shots: []scene.Shot{
			{Slot: 1, Type: scene.ShotEstablishing, Text: "The warehouse at dusk."},
		},
	}
}

func TestRenderDimensions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ratio scene.AspectRatio
		want  int
	}{
		{scene.Ratio16x9, 720},
		{scene.Ratio9x16, 2275},
		{scene.Ratio1x1, 1280},
		{scene.Ratio4x3, 960},
		{scene.Ratio21x9, 548},
	}

	sc := testScene()
	r := NewRenderer()

	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.ratio), func(t *testing.T) {
			t.Parallel()
			img := r.Render(sc, sc.Shots[0], tt.ratio)
			assert.Equal(t, 1280, img.Bounds().Dx())
			assert.Equal(t, tt.want, img.Bounds().Dy())
		})
	}
}

func TestRenderBackground(t *testing.T) {
	t.Parallel()

	r := NewRenderer()
	img := r.Render(testScene(), testScene().Shots[0], scene.Ratio16x9)

	// Corner pixels carry the slate background.
	c := img.RGBAAt(0, 0)
	assert.Equal(t, slateBg, c)
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	sc := testScene()
	path := filepath.Join(t.TempDir(), "slate.png")

	require.NoError(t, NewRenderer().WriteFile(path, sc, sc.Shots[0], scene.Ratio1x1))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 1280, img.Bounds().Dx())
	assert.Equal(t, 1280, img.Bounds().Dy())
}
