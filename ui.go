package main

import (
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/bugbash/store"
	"golang.org/x/image/font/basicfont"
)

var (
	white   = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	subtle  = color.NRGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}
	uiFace  ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)
	btnText            = &widget.ButtonTextColor{Idle: white}
)

func centered() widget.WidgetOpt {
	return widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})
}

func newButton(label string, bg color.Color, onClick func()) *widget.Button {
	img := imageui.NewNineSliceColor(bg)
	return widget.NewButton(
		widget.ButtonOpts.Image(&widget.ButtonImage{Idle: img, Pressed: img}),
		widget.ButtonOpts.Text(label, &uiFace, btnText),
		widget.ButtonOpts.WidgetOpts(centered()),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			onClick()
		}),
	)
}

func newLabel(s string, clr color.Color) *widget.Text {
	return widget.NewText(
		widget.TextOpts.Text(s, &uiFace, clr),
		widget.TextOpts.WidgetOpts(centered()),
	)
}

func newPanel(minW, minH int, bg color.Color) *widget.Container {
	return widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(imageui.NewNineSliceColor(bg)),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(minW, minH),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)
}

func wrap(panel *widget.Container) *ebitenui.UI {
	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)
	return &ebitenui.UI{Container: root}
}

// PauseMenu is the centered pause panel: Resume, a hunter switch and Quit.
type PauseMenu struct {
	UI *ebitenui.UI

	hunter *widget.Button
}

func NewPauseMenu(g *Game) *PauseMenu {
	m := &PauseMenu{}
	grey := color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}

	panel := newPanel(baseWidth/3, baseHeight/3, color.NRGBA{A: 200})
	panel.AddChild(newLabel("Paused", white))
	panel.AddChild(newLabel("esc to resume  tab/r sort board", subtle))
	panel.AddChild(newButton("Resume", grey, func() {
		g.paused = false
	}))
	m.hunter = newButton("Hunter", grey, g.nextHunter)
	panel.AddChild(m.hunter)
	panel.AddChild(newButton("Quit", grey, func() {
		g.quit = true
	}))
	m.UI = wrap(panel)
	return m
}

func (m *PauseMenu) SetHunter(name string) {
	if text := m.hunter.Text(); text != nil {
		text.Label = "Hunter: " + name
	}
}

// InspectModal shows the inspected bug with Squash, Copy and Close.
type InspectModal struct {
	UI *ebitenui.UI

	shown  string
	title  *widget.Text
	bounty *widget.Text
	desc   *widget.Text
	meta   *widget.Text
	status *widget.Text
}

func NewInspectModal(g *Game) *InspectModal {
	m := &InspectModal{
		title:  newLabel("", white),
		bounty: newLabel("", color.NRGBA{R: 0x34, G: 0xd3, B: 0x99, A: 0xff}),
		desc:   newLabel("", subtle),
		meta:   newLabel("", subtle),
		status: newLabel("", subtle),
	}

	panel := newPanel(baseWidth/3, baseHeight/3, color.NRGBA{R: 0x10, G: 0x10, B: 0x18, A: 230})
	panel.AddChild(m.title)
	panel.AddChild(m.bounty)
	panel.AddChild(m.desc)
	panel.AddChild(m.meta)

	buttons := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(8),
		)),
		widget.ContainerOpts.WidgetOpts(centered()),
	)
	buttons.AddChild(newButton("Squash", color.NRGBA{R: 0xb9, G: 0x1c, B: 0x1c, A: 0xff}, g.confirm))
	buttons.AddChild(newButton("Copy", color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}, g.copyInspected))
	buttons.AddChild(newButton("Close", color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}, g.dismiss))
	panel.AddChild(buttons)
	panel.AddChild(m.status)

	m.UI = wrap(panel)
	return m
}

// Show fills the modal for b. Refilling the same bug keeps the status line.
func (m *InspectModal) Show(b store.Bug) {
	if m.shown != b.ID {
		m.status.Label = ""
	}
	m.shown = b.ID
	m.title.Label = b.Title
	m.bounty.Label = fmt.Sprintf("+%d", b.Bounty)
	m.desc.Label = b.Description
	meta := b.ID
	if b.Priority != "" {
		meta += "  priority: " + string(b.Priority)
	}
	if b.Assignee != "" {
		meta += "  assignee: " + b.Assignee
	}
	m.meta.Label = meta
}

func (m *InspectModal) Hide() {
	m.shown = ""
}

func (m *InspectModal) Visible() bool {
	return m.shown != ""
}

func (m *InspectModal) SetStatus(s string) {
	m.status.Label = s
}
