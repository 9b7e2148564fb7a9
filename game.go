package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/bugbash/interaction"
	"github.com/milk9111/bugbash/prefabs"
	"github.com/milk9111/bugbash/ranking"
	"github.com/milk9111/bugbash/store"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

type Game struct {
	frames int
	debug  bool
	paused bool
	quit   bool

	ctrl    *interaction.Controller
	store   *store.Memory
	rules   *ranking.Rules
	devices *Devices
	watcher *prefabs.Watcher

	pauseUI *PauseMenu
	modal   *InspectModal
	order   ranking.Order

	width, height int
}

func NewGame(s *store.Memory, tuning prefabs.Tuning, rules *ranking.Rules, watcher *prefabs.Watcher, debug bool, opts ...interaction.Option) *Game {
	g := &Game{
		debug:   debug,
		store:   s,
		rules:   rules,
		watcher: watcher,
		order:   ranking.NewOrder(ranking.SortRank),
	}
	g.devices = NewDevices(tuning)
	g.ctrl = interaction.New(s, tuning, append(opts, interaction.WithPoller(g.devices))...)
	g.devices.Attach(g.ctrl.Input())

	g.pauseUI = NewPauseMenu(g)
	g.modal = NewInspectModal(g)
	g.syncHunter()
	return g
}

// SetOrder picks the leaderboard column and direction.
func (g *Game) SetOrder(o ranking.Order) {
	g.order = o
}

// nextHunter credits the next hunter on the board for future squashes.
func (g *Game) nextHunter() {
	if err := g.store.SetActiveHunter(g.store.Snapshot().NextHunter()); err != nil {
		log.Printf("game: switch hunter: %v", err)
	}
	g.syncHunter()
}

func (g *Game) syncHunter() {
	snap := g.store.Snapshot()
	if h, ok := snap.Hunter(snap.ActiveHunter); ok {
		g.pauseUI.SetHunter(h.Name)
	}
}

func (g *Game) tick() time.Duration {
	return time.Second / time.Duration(ebiten.TPS())
}

func (g *Game) Update() error {
	g.frames++
	if g.quit {
		return ebiten.Termination
	}
	g.reload()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		if g.ctrl.Inspected() != "" {
			g.dismiss()
		} else {
			g.paused = !g.paused
		}
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		g.order = g.order.Next()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.order = g.order.By(g.order.Key)
	}
	if g.paused {
		g.pauseUI.UI.Update()
		return nil
	}

	g.devices.Update(g.modal.Visible())
	res, err := g.ctrl.Tick(g.tick())
	if err != nil {
		log.Printf("game: tick: %v", err)
	}
	if g.debug && res.Fired {
		log.Printf("game: fire %s -> %s %s at (%.0f, %.0f)", res.Source, res.Action, res.ID, res.Aim.X, res.Aim.Y)
	}

	g.syncModal()
	if g.modal.Visible() {
		g.modal.UI.Update()
	}
	return nil
}

func (g *Game) syncModal() {
	id := g.ctrl.Inspected()
	if id == "" {
		g.modal.Hide()
		return
	}
	b, ok := g.store.Snapshot().Bug(id)
	if !ok || !b.Active {
		g.modal.Hide()
		return
	}
	g.modal.Show(b)
}

func (g *Game) confirm() {
	if err := g.ctrl.Confirm(); err != nil {
		log.Printf("game: squash: %v", err)
	}
	g.syncModal()
}

func (g *Game) dismiss() {
	if err := g.ctrl.Dismiss(); err != nil {
		log.Printf("game: dismiss: %v", err)
	}
	g.syncModal()
}

func (g *Game) copyInspected() {
	b, ok := g.store.Snapshot().Bug(g.ctrl.Inspected())
	if !ok {
		return
	}
	if err := copyText(bugSummary(b)); err != nil {
		log.Printf("game: copy: %v", err)
		g.modal.SetStatus("clipboard unavailable")
		return
	}
	g.modal.SetStatus("copied " + b.ID)
}

// reload applies watched file changes between frames.
func (g *Game) reload() {
	if g.watcher == nil {
		return
	}
	for _, name := range g.watcher.Drain() {
		switch name {
		case prefabs.TuningFile:
			t, err := prefabs.LoadTuning()
			if err == nil {
				t, err = prefabs.ApplyEnv(t, os.LookupEnv)
			}
			if err != nil {
				log.Printf("game: reload %s: %v", name, err)
				continue
			}
			g.ctrl.SetTuning(t)
			g.devices.SetTuning(t)
			log.Printf("game: reloaded %s", name)
		case prefabs.RankScript:
			rules, err := prefabs.LoadRules(log.Default())
			if err != nil {
				log.Printf("game: reload %s: %v; keeping previous rules", name, err)
				continue
			}
			g.rules = rules
			log.Printf("game: reloaded %s", name)
		default:
			if seedFile(name) {
				log.Printf("game: %s changed; seed data is read at start, restart to apply", name)
			}
		}
	}
}

// seedFile reports whether name is seed data, which the running store owns.
func seedFile(name string) bool {
	return name == prefabs.BugsFile || name == prefabs.HuntersFile
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(floorCol)

	drawSprites(screen, g.ctrl.Sprites())

	snap := g.store.Snapshot()
	aim := g.ctrl.Aim()
	if id, ok := g.ctrl.Hovered(); ok && !g.modal.Visible() {
		if b, ok := snap.Bug(id); ok && b.Active {
			drawHoverCard(screen, b, aim.X+24, aim.Y)
		}
	}
	drawLeaderboard(screen, snap, g.order, g.rules, 16, 12)

	if g.modal.Visible() {
		g.modal.UI.Draw(screen)
	}
	drawCrosshair(screen, aim.X, aim.Y, g.ctrl.Tuning().Aim.CrosshairRadius)

	if g.paused {
		g.pauseUI.UI.Draw(screen)
	}
	if g.debug {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %.2f  bugs: %d  frame: %d", ebiten.ActualFPS(), len(g.ctrl.Index().Targets()), g.frames), 16, g.height-20)
	}
}

// Layout feeds the window size to the controller. A minimized window
// reports zero and suspends motion.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.ctrl.Resize(0, 0, float64(outsideWidth), float64(outsideHeight))
	}
	return max(outsideWidth, 1), max(outsideHeight, 1)
}

func (g *Game) Close() {
	g.ctrl.Close()
	if g.watcher != nil {
		if err := g.watcher.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			log.Printf("game: close watcher: %v", err)
		}
	}
}
