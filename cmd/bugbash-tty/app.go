package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/milk9111/bugbash/common"
	"github.com/milk9111/bugbash/input"
	"github.com/milk9111/bugbash/interaction"
	"github.com/milk9111/bugbash/prefabs"
	"github.com/milk9111/bugbash/ranking"
	"github.com/milk9111/bugbash/store"
)

// One terminal cell stands for cellW x cellH pixels of the play field.
const (
	cellW = 10
	cellH = 20

	// Terminals send no key-up, so a direction stays held this long after
	// its last press or repeat.
	holdFor = 150 * time.Millisecond
)

var (
	glyphs = []rune("*@&%#$ox8w")
	colors = []tcell.Color{
		tcell.ColorRed, tcell.ColorGreen, tcell.ColorYellow, tcell.ColorGray, tcell.ColorBlue,
		tcell.ColorOlive, tcell.ColorMaroon, tcell.ColorTeal, tcell.ColorPurple, tcell.ColorNavy,
	}
	aimStyle   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	deadStyle  = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	hudStyle   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	modalStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
)

type App struct {
	screen tcell.Screen
	ctrl   *interaction.Controller
	store  *store.Memory
	rules  *ranking.Rules
	log    *log.Logger

	hold    [4]time.Duration
	buttons tcell.ButtonMask
	order   ranking.Order

	cols, rows int
}

func NewApp(screen tcell.Screen, s *store.Memory, tuning prefabs.Tuning, rules *ranking.Rules, logger *log.Logger, opts ...interaction.Option) *App {
	if logger == nil {
		logger = log.Default()
	}
	a := &App{
		screen: screen,
		store:  s,
		rules:  rules,
		log:    logger,
		order:  ranking.NewOrder(ranking.SortRank),
		ctrl:   interaction.New(s, tuning, append([]interaction.Option{interaction.WithLogger(logger)}, opts...)...),
	}
	a.resize()
	return a
}

func (a *App) Controller() *interaction.Controller {
	return a.ctrl
}

func (a *App) Order() ranking.Order {
	return a.order
}

func (a *App) SetOrder(o ranking.Order) {
	a.order = o
}

// resize maps the terminal to the play field. The last row is the status
// line.
func (a *App) resize() {
	a.cols, a.rows = a.screen.Size()
	field := max(a.rows-1, 0)
	a.ctrl.Resize(0, 0, float64(a.cols*cellW), float64(field*cellH))
}

// HandleEvent applies one terminal event. It returns false to quit.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
		a.resize()
	case *tcell.EventKey:
		return a.handleKey(ev)
	case *tcell.EventMouse:
		x, y := ev.Position()
		in := a.ctrl.Input()
		in.PointerMove(float64(x*cellW+cellW/2), float64(y*cellH+cellH/2))
		btn := ev.Buttons()
		if btn&tcell.Button1 != 0 && a.buttons&tcell.Button1 == 0 {
			in.PointerClick()
		}
		a.buttons = btn
	}
	return true
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		if ev.Key() == tcell.KeyEscape && a.ctrl.Inspected() != "" {
			a.dismiss()
			return true
		}
		return false
	case tcell.KeyUp:
		a.press(input.Up)
	case tcell.KeyDown:
		a.press(input.Down)
	case tcell.KeyLeft:
		a.press(input.Left)
	case tcell.KeyRight:
		a.press(input.Right)
	case tcell.KeyEnter:
		if err := a.ctrl.Confirm(); err != nil {
			a.log.Printf("tty: confirm: %v", err)
		}
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case 'w':
			a.press(input.Up)
		case 's':
			a.press(input.Down)
		case 'a':
			a.press(input.Left)
		case 'd':
			a.press(input.Right)
		case ' ':
			a.ctrl.Input().FireKey()
		case 'x':
			a.dismiss()
		case 'o':
			a.order = a.order.Next()
		case 'r':
			a.order = a.order.By(a.order.Key)
		case 'h':
			if err := a.store.SetActiveHunter(a.store.Snapshot().NextHunter()); err != nil {
				a.log.Printf("tty: switch hunter: %v", err)
			}
		}
	}
	return true
}

func (a *App) press(d input.Direction) {
	if a.hold[d] <= 0 {
		a.ctrl.Input().KeyDown(d)
	}
	a.hold[d] = holdFor
}

func (a *App) dismiss() {
	if err := a.ctrl.Dismiss(); err != nil {
		a.log.Printf("tty: dismiss: %v", err)
	}
}

// Step releases expired holds, ticks the controller and redraws.
func (a *App) Step(dt time.Duration) {
	for d := range a.hold {
		if a.hold[d] <= 0 {
			continue
		}
		a.hold[d] -= dt
		if a.hold[d] <= 0 {
			a.ctrl.Input().KeyUp(input.Direction(d))
		}
	}
	if _, err := a.ctrl.Tick(dt); err != nil {
		a.log.Printf("tty: tick: %v", err)
	}
	a.Draw()
}

// cellOf maps a play field point to its terminal cell.
func cellOf(x, y float64) (int, int) {
	return int(x / cellW), int(y / cellH)
}

func (a *App) Draw() {
	a.screen.Clear()
	snap := a.store.Snapshot()

	for _, s := range a.ctrl.Sprites() {
		col, row := cellOf(s.Pos.X+s.Size/2, s.Pos.Y+s.Size/2)
		fam := common.Family(s.ID)
		style := tcell.StyleDefault.Foreground(colors[fam])
		glyph := glyphs[fam]
		if !s.Active {
			style, glyph = deadStyle, 'x'
		}
		if s.Hovered || s.Inspected {
			style = style.Reverse(true)
		}
		a.screen.SetContent(col, row, glyph, nil, style)
	}

	// Aim on the far edge maps one cell past the field.
	aim := a.ctrl.Aim()
	col, row := cellOf(aim.X, aim.Y)
	col = min(col, max(a.cols-1, 0))
	row = min(row, max(a.rows-2, 0))
	a.screen.SetContent(col, row, '+', nil, aimStyle)

	a.drawBoard(snap)
	a.drawStatus(snap)
	if id := a.ctrl.Inspected(); id != "" {
		if b, ok := snap.Bug(id); ok {
			a.drawModal(b)
		}
	}
	a.screen.Show()
}

func (a *App) drawBoard(snap store.State) {
	rows := a.order.Board(snap.Hunters, a.rules.Tier)
	if len(rows) > 3 {
		rows = rows[:3]
	}
	lines := []string{fmt.Sprintf("by %-31s", a.order)}
	for _, r := range rows {
		marker := ' '
		if r.HunterID == snap.ActiveHunter {
			marker = '>'
		}
		lines = append(lines, fmt.Sprintf("%c%d %-16.16s %5d %-8s", marker, r.Rank, r.Name, r.Bounty, r.Tier.Name))
	}
	for i, line := range lines {
		a.text(max(a.cols-len(line), 0), i, line, hudStyle)
	}
}

func (a *App) drawStatus(snap store.State) {
	line := fmt.Sprintf(" bugs left: %d  wasd aim  space fire  x close  o/r sort  h hunter  q quit", snap.Active())
	if id, ok := a.ctrl.Hovered(); ok {
		if b, ok := snap.Bug(id); ok {
			line = fmt.Sprintf(" %s  +%d  %s", b.ID, b.Bounty, b.Title)
		}
	}
	a.text(0, a.rows-1, line, hudStyle)
}

func (a *App) drawModal(b store.Bug) {
	lines := []string{
		b.Title,
		fmt.Sprintf("%s  +%d", b.ID, b.Bounty),
		b.Description,
		"",
		"[space/enter] squash   [x/esc] close",
	}
	w := 0
	for _, l := range lines {
		w = max(w, len(l))
	}
	w += 4
	x0 := max((a.cols-w)/2, 0)
	y0 := max((a.rows-len(lines))/2-1, 0)
	for y := 0; y < len(lines)+2; y++ {
		for x := 0; x < w; x++ {
			a.screen.SetContent(x0+x, y0+y, ' ', nil, modalStyle)
		}
	}
	for i, l := range lines {
		a.text(x0+2, y0+1+i, l, modalStyle)
	}
}

func (a *App) text(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		a.screen.SetContent(x+i, y, r, nil, style)
	}
}

// Run pumps events and ticks at ~60 FPS until quit.
func (a *App) Run() {
	ticker := time.NewTicker(16 * time.Millisecond)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	last := time.Now()
	for {
		select {
		case ev, ok := <-events:
			if !ok || !a.HandleEvent(ev) {
				return
			}
		case now := <-ticker.C:
			a.Step(now.Sub(last))
			last = now
		}
	}
}

func (a *App) Close() {
	a.ctrl.Close()
}
