package main

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/bugbash/assets"
	"github.com/milk9111/bugbash/interaction"
	"github.com/milk9111/bugbash/ranking"
	"github.com/milk9111/bugbash/store"
	"golang.org/x/image/colornames"
)

var floorCol = color.RGBA{R: 0xf4, G: 0xef, B: 0xe1, A: 0xff}

const lineHeight = 16

func drawSprites(screen *ebiten.Image, sprites []interaction.Sprite) {
	for _, s := range sprites {
		img := assets.BugSprite(s.Category, int(s.Size))
		w, h := img.Bounds().Dx(), img.Bounds().Dy()

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-float64(w)/2, -float64(h)/2)
		// lean is foreshortening along each axis
		op.GeoM.Scale(s.Size/float64(w)*cosDeg(s.Pose.TiltY), s.Size/float64(h)*cosDeg(s.Pose.TiltX))
		op.GeoM.Rotate(s.Pose.Rotation * math.Pi / 180)
		op.GeoM.Translate(s.Pos.X+s.Size/2, s.Pos.Y+s.Size/2)
		op.Filter = ebiten.FilterLinear
		if !s.Active {
			op.ColorScale.ScaleWithColor(color.Gray{Y: 0x80})
			op.ColorScale.ScaleAlpha(0.5)
		}
		screen.DrawImage(img, op)

		if s.Hovered || s.Inspected {
			clr := colornames.Orange
			if s.Inspected {
				clr = colornames.Red
			}
			vector.StrokeRect(screen, float32(s.Pos.X), float32(s.Pos.Y), float32(s.Size), float32(s.Size), 1, clr, false)
		}
	}
}

// drawCrosshair draws a red ring with a cross through its center.
func drawCrosshair(screen *ebiten.Image, x, y, r float64) {
	fx, fy, fr := float32(x), float32(y), float32(r)
	vector.StrokeCircle(screen, fx, fy, fr, 2, colornames.Red, true)
	vector.StrokeLine(screen, fx, fy-fr, fx, fy+fr, 1, colornames.Red, false)
	vector.StrokeLine(screen, fx-fr, fy, fx+fr, fy, 1, colornames.Red, false)
}

func drawLeaderboard(screen *ebiten.Image, s store.State, order ranking.Order, rules *ranking.Rules, x, y float64) {
	rows := order.Board(s.Hunters, rules.Tier)
	if len(rows) > 5 {
		rows = rows[:5]
	}
	lines := []string{fmt.Sprintf("bugs left: %d", s.Active()), "by " + order.String()}
	for _, r := range rows {
		marker := " "
		if r.HunterID == s.ActiveHunter {
			marker = ">"
		}
		lines = append(lines, fmt.Sprintf("%s%d %-18s %5d %s", marker, r.Rank, r.Name, r.Bounty, r.Tier.Name))
	}

	w := 0
	for _, l := range lines {
		w = max(w, len(l))
	}
	vector.FillRect(screen, float32(x-6), float32(y-4), float32(w*7+12), float32(len(lines)*lineHeight+8), color.RGBA{A: 0x90}, false)
	drawLines(screen, lines, x, y, color.White)
}

// drawHoverCard previews the hovered bug next to the aim.
func drawHoverCard(screen *ebiten.Image, b store.Bug, x, y float64) {
	lines := []string{b.Title, fmt.Sprintf("+%d  %s", b.Bounty, assets.LookFor(b.ID).Name)}
	if b.Priority != "" {
		lines = append(lines, "priority: "+string(b.Priority))
	}
	w := 0
	for _, l := range lines {
		w = max(w, len(l))
	}
	vector.FillRect(screen, float32(x), float32(y), float32(w*7+12), float32(len(lines)*lineHeight+8), color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xe0}, false)
	vector.StrokeRect(screen, float32(x), float32(y), float32(w*7+12), float32(len(lines)*lineHeight+8), 1, colornames.Gray, false)
	drawLines(screen, lines, x+6, y+4, colornames.Black)
}

func drawLines(screen *ebiten.Image, lines []string, x, y float64, clr color.Color) {
	for i, l := range lines {
		op := &text.DrawOptions{}
		op.GeoM.Translate(x, y+float64(i*lineHeight))
		op.ColorScale.ScaleWithColor(clr)
		text.Draw(screen, l, uiFace, op)
	}
}

func cosDeg(d float64) float64 {
	return math.Cos(d * math.Pi / 180)
}
