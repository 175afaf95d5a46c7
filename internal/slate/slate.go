// Package slate renders placeholder first-frame images: a dark slate card
// with the scene title, shot number, and a text excerpt, sized to the
// shot's aspect ratio. Slates stand in for the generated first frame in
// previews and give editors something to cut against before generation
// runs.
package slate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"strings"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/shotwright/shotwright/internal/scene"
)

const slateWidth = 1280

var (
	slateBg     = color.RGBA{R: 0x1a, G: 0x1a, B: 0x2e, A: 0xff}
	slateRule   = color.RGBA{R: 0x3d, G: 0x5a, B: 0x80, A: 0xff}
	slateInk    = color.RGBA{R: 0xf1, G: 0xfa, B: 0xee, A: 0xff}
	slateAccent = color.RGBA{R: 0xff, G: 0xe6, B: 0x6d, A: 0xff}
)

// fontPaths lists common system locations for a usable sans font.
var fontPaths = []string{
	// Linux
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	// macOS
	"/Library/Fonts/Arial.ttf",
	"/System/Library/Fonts/Supplemental/Arial.ttf",
	// Windows
	"C:\\Windows\\Fonts\\arial.ttf",
}

// Renderer draws slate cards. A renderer with no loadable font still
// produces slates, just without text.
type Renderer struct {
	fnt *truetype.Font
}

// NewRenderer loads the first usable system font.
func NewRenderer() *Renderer {
	r := &Renderer{}
	for _, path := range fontPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if fnt, err := truetype.Parse(data); err == nil {
			r.fnt = fnt
			break
		}
	}
	return r
}

// heightFor maps an aspect ratio to the slate's pixel height at the fixed
// render width.
func heightFor(ratio scene.AspectRatio) int {
	switch ratio {
	case scene.Ratio9x16:
		return slateWidth * 16 / 9
	case scene.Ratio1x1:
		return slateWidth
	case scene.Ratio4x3:
		return slateWidth * 3 / 4
	case scene.Ratio21x9:
		return slateWidth * 9 / 21
	default: // 16:9
		return slateWidth * 9 / 16
	}
}

// Render draws the slate for one shot.
func (r *Renderer) Render(sc *scene.Scene, shot scene.Shot, ratio scene.AspectRatio) *image.RGBA {
	height := heightFor(ratio)
	img := image.NewRGBA(image.Rect(0, 0, slateWidth, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{slateBg}, image.Point{}, draw.Src)

	// Frame rule just inside the border
	inset := 24
	for x := inset; x < slateWidth-inset; x++ {
		img.Set(x, inset, slateRule)
		img.Set(x, height-inset, slateRule)
	}
	for y := inset; y < height-inset; y++ {
		img.Set(inset, y, slateRule)
		img.Set(slateWidth-inset, y, slateRule)
	}

	if r.fnt == nil {
		return img
	}

	title := strings.ToUpper(sc.Title)
	if title == "" {
		title = strings.ToUpper(sc.ID)
	}
	header := fmt.Sprintf("SHOT %d / %s", shot.Slot, strings.ToUpper(string(shot.Type)))

	y := height / 3
	y = r.drawLine(img, title, 48, y, slateAccent)
	y = r.drawLine(img, header, 36, y+20, slateInk)

	excerpt := shot.Text
	if len(excerpt) > 90 {
		excerpt = excerpt[:90] + "…"
	}
	r.drawLine(img, excerpt, 24, y+40, slateInk)

	return img
}

// drawLine draws one centered line of text and returns the baseline of the
// next line.
func (r *Renderer) drawLine(img *image.RGBA, text string, size float64, y int, ink color.RGBA) int {
	face := truetype.NewFace(r.fnt, &truetype.Options{Size: size, DPI: 72})
	defer face.Close()

	d := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{ink},
		Face: face,
	}

	width := d.MeasureString(text).Ceil()
	x := (img.Bounds().Dx() - width) / 2
	if x < 32 {
		x = 32
	}
	d.Dot = fixed.P(x, y)
	d.DrawString(text)

	return y + int(size)
}

// WriteFile renders the slate for a shot and writes it as a PNG.
func (r *Renderer) WriteFile(path string, sc *scene.Scene, shot scene.Shot, ratio scene.AspectRatio) error {
	img := r.Render(sc, shot, ratio)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating slate file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encoding slate: %w", err)
	}

	return nil
}
