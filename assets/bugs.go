// Package assets draws the bug sprites. Sprites are rendered once per family
// and size and cached; the head points up (-y).
package assets

import (
	"image/color"
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/bugbash/common"
	"golang.org/x/image/colornames"
)

// Look is the recipe for one sprite family.
type Look struct {
	Name  string
	Shell color.RGBA
	Spots color.RGBA
	Legs  int
	Dots  int
	Wings bool
}

var Looks = [common.Families]Look{
	{Name: "ladybug", Shell: colornames.Crimson, Spots: colornames.Black, Legs: 3, Dots: 3},
	{Name: "beetle", Shell: colornames.Darkolivegreen, Spots: colornames.Yellowgreen, Legs: 3},
	{Name: "bee", Shell: colornames.Gold, Spots: colornames.Black, Legs: 3, Dots: 2, Wings: true},
	{Name: "spider", Shell: colornames.Dimgray, Spots: colornames.Red, Legs: 4, Dots: 1},
	{Name: "fly", Shell: colornames.Slategray, Spots: colornames.Darkred, Legs: 3, Wings: true},
	{Name: "moth", Shell: colornames.Tan, Spots: colornames.Sienna, Legs: 3, Dots: 2, Wings: true},
	{Name: "ant", Shell: colornames.Saddlebrown, Spots: colornames.Peru, Legs: 3},
	{Name: "cricket", Shell: colornames.Forestgreen, Spots: colornames.Lime, Legs: 3, Dots: 1},
	{Name: "weevil", Shell: colornames.Indigo, Spots: colornames.Orchid, Legs: 3, Dots: 4},
	{Name: "cockroach", Shell: colornames.Maroon, Spots: colornames.Burlywood, Legs: 3},
}

type spriteKey struct {
	family int
	size   int
}

var (
	mu      sync.Mutex
	sprites = map[spriteKey]*ebiten.Image{}
)

// LookFor returns the recipe used for bug id.
func LookFor(id string) Look {
	return Looks[common.Family(id)]
}

// BugSprite returns the cached sprite for a family at size pixels square.
// Call it from Draw.
func BugSprite(family, size int) *ebiten.Image {
	if size < 8 {
		size = 8
	}
	family = ((family % common.Families) + common.Families) % common.Families
	k := spriteKey{family: family, size: size}

	mu.Lock()
	defer mu.Unlock()
	if img, ok := sprites[k]; ok {
		return img
	}
	img := ebiten.NewImage(size, size)
	drawBug(img, Looks[family], float32(size))
	sprites[k] = img
	return img
}

func drawBug(dst *ebiten.Image, l Look, s float32) {
	cx := s / 2
	legW := s / 20
	legColor := colornames.Black

	// legs fan out from the thorax on both sides
	for i := 0; i < l.Legs; i++ {
		y := s*0.45 + float32(i)*s*0.12
		spread := s * 0.42
		vector.StrokeLine(dst, cx, y, cx-spread, y-s*0.08+float32(i)*s*0.06, legW, legColor, true)
		vector.StrokeLine(dst, cx, y, cx+spread, y-s*0.08+float32(i)*s*0.06, legW, legColor, true)
	}

	// antennae
	vector.StrokeLine(dst, cx, s*0.2, cx-s*0.15, s*0.04, legW, legColor, true)
	vector.StrokeLine(dst, cx, s*0.2, cx+s*0.15, s*0.04, legW, legColor, true)

	if l.Wings {
		wing := color.RGBA{R: 0xee, G: 0xf6, B: 0xff, A: 0x99}
		vector.FillCircle(dst, cx-s*0.16, s*0.5, s*0.17, wing, true)
		vector.FillCircle(dst, cx+s*0.16, s*0.5, s*0.17, wing, true)
	}

	// abdomen, then head on top
	vector.FillCircle(dst, cx, s*0.58, s*0.28, l.Shell, true)
	vector.StrokeCircle(dst, cx, s*0.58, s*0.28, legW, colornames.Black, true)
	vector.FillCircle(dst, cx, s*0.24, s*0.12, colornames.Black, true)

	// a seam down the shell
	vector.StrokeLine(dst, cx, s*0.32, cx, s*0.86, legW, colornames.Black, true)

	for i := 0; i < l.Dots; i++ {
		a := float64(i) / float64(max(l.Dots, 1)) * 2 * math.Pi
		dx := float32(math.Cos(a)) * s * 0.13
		dy := float32(math.Sin(a)) * s * 0.13
		vector.FillCircle(dst, cx+dx, s*0.6+dy, s*0.05, l.Spots, true)
	}
}
