package main

import (
	"io"
	"log"
	"math/rand"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/milk9111/bugbash/interaction"
	"github.com/milk9111/bugbash/prefabs"
	"github.com/milk9111/bugbash/ranking"
	"github.com/milk9111/bugbash/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = 16 * time.Millisecond

func newTestApp(t *testing.T, cols, rows int) (*App, tcell.SimulationScreen, *store.Memory) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(cols, rows)
	t.Cleanup(screen.Fini)

	seed, err := prefabs.LoadSeed("u1")
	require.NoError(t, err)
	quiet := log.New(io.Discard, "", 0)
	mem := store.NewMemory(seed, store.WithLogger(quiet))
	app := NewApp(screen, mem, prefabs.DefaultTuning(), nil, quiet, interaction.WithRand(rand.New(rand.NewSource(3))))
	t.Cleanup(app.Close)
	return app, screen, mem
}

func runeAt(s tcell.SimulationScreen, x, y int) rune {
	r, _, _, _ := s.GetContent(x, y)
	return r
}

func firstActive(t *testing.T, app *App) interaction.Sprite {
	t.Helper()
	for _, s := range app.Controller().Sprites() {
		if s.Active {
			return s
		}
	}
	t.Fatal("no active sprite")
	return interaction.Sprite{}
}

func click(app *App, s interaction.Sprite) {
	col, row := cellOf(s.Pos.X+s.Size/2, s.Pos.Y+s.Size/2)
	app.HandleEvent(tcell.NewEventMouse(col, row, tcell.Button1, tcell.ModNone))
	app.HandleEvent(tcell.NewEventMouse(col, row, tcell.ButtonNone, tcell.ModNone))
}

func TestDrawsBugsAndCrosshair(t *testing.T) {
	app, screen, mem := newTestApp(t, 80, 25)
	app.Step(frame)

	// 80x24 field cells = 800x480 px, aim starts centered.
	assert.Equal(t, '+', runeAt(screen, 40, 12))

	want := append([]rune{'x'}, glyphs...)
	glyphCount := 0
	for y := 0; y < 24; y++ {
		for x := 0; x < 80; x++ {
			r := runeAt(screen, x, y)
			for _, g := range want {
				if r == g {
					glyphCount++
				}
			}
		}
	}
	assert.Greater(t, glyphCount, 0)
	assert.Len(t, app.Controller().Sprites(), len(mem.Snapshot().Bugs))
}

func TestClickInspectsAndSpaceSquashes(t *testing.T) {
	app, _, mem := newTestApp(t, 80, 25)
	app.Step(frame)

	click(app, firstActive(t, app))
	app.Step(frame)
	id := app.Controller().Inspected()
	require.NotEmpty(t, id)

	hit, ok := app.Controller().Index().Hit(app.Controller().Aim())
	require.True(t, ok)
	assert.Equal(t, hit.ID, id)

	before, _ := mem.Snapshot().Hunter("u1")
	app.HandleEvent(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone))
	app.Step(frame)

	snap := mem.Snapshot()
	b, ok := snap.Bug(id)
	require.True(t, ok)
	assert.False(t, b.Active)
	after, _ := snap.Hunter("u1")
	assert.Equal(t, before.TotalBounty()+b.Bounty, after.TotalBounty())
	assert.Empty(t, app.Controller().Inspected())
}

func TestDismissKey(t *testing.T) {
	app, _, mem := newTestApp(t, 80, 25)
	app.Step(frame)

	click(app, firstActive(t, app))
	app.Step(frame)
	require.NotEmpty(t, app.Controller().Inspected())

	assert.True(t, app.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)))
	assert.Empty(t, app.Controller().Inspected())
	assert.Equal(t, 10, mem.Snapshot().Active())
}

func TestHeldKeyReleases(t *testing.T) {
	app, _, _ := newTestApp(t, 80, 25)
	app.Step(frame)
	start := app.Controller().Aim()

	app.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'd', tcell.ModNone))
	app.Step(frame)
	assert.Greater(t, app.Controller().Aim().X, start.X)

	app.Step(100 * time.Millisecond)
	app.Step(100 * time.Millisecond)
	held := app.Controller().Aim()
	app.Step(frame)
	assert.Equal(t, held, app.Controller().Aim())
}

func TestQuitKeys(t *testing.T) {
	app, _, _ := newTestApp(t, 80, 25)
	assert.False(t, app.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	assert.False(t, app.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
	assert.True(t, app.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone)))
}

func TestLayoutWaitsForRoom(t *testing.T) {
	app, screen, _ := newTestApp(t, 40, 1)
	app.Step(frame)
	assert.False(t, app.Controller().LaidOut())

	screen.SetSize(80, 25)
	app.HandleEvent(tcell.NewEventResize(80, 25))
	assert.True(t, app.Controller().LaidOut())
}

func TestCrosshairStaysOnScreenAtFarEdge(t *testing.T) {
	app, screen, _ := newTestApp(t, 80, 25)
	app.Step(frame)

	app.Controller().Input().PointerMove(10000, 10000)
	app.Step(frame)
	require.Equal(t, 800.0, app.Controller().Aim().X)
	assert.Equal(t, '+', runeAt(screen, 79, 23))
}

func TestSortKeys(t *testing.T) {
	app, _, _ := newTestApp(t, 80, 25)
	require.Equal(t, ranking.NewOrder(ranking.SortRank), app.Order())

	app.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'o', tcell.ModNone))
	assert.Equal(t, ranking.NewOrder(ranking.SortKeys[1]), app.Order())

	app.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone))
	assert.Equal(t, ranking.SortKeys[1], app.Order().Key)
	assert.Equal(t, !ranking.DefaultAscending(ranking.SortKeys[1]), app.Order().Ascending)

	app.SetOrder(ranking.NewOrder(ranking.SortBounty))
	app.Step(frame)
	assert.Equal(t, ranking.SortBounty, app.Order().Key)
}

func TestHunterKeyCyclesCredit(t *testing.T) {
	app, _, mem := newTestApp(t, 80, 25)
	want := mem.Snapshot().NextHunter()
	require.NotEqual(t, "u1", want)

	app.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'h', tcell.ModNone))
	assert.Equal(t, want, mem.Snapshot().ActiveHunter)
}
