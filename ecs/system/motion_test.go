package system

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/bugbash/ecs"
	"github.com/milk9111/bugbash/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spawnBug(t *testing.T, w *ecs.World, id string, pos, heading cp.Vector, dwell time.Duration) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, e, component.BugComponent.Kind(), &component.Bug{ID: id, Active: true}))
	require.NoError(t, ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Pos: pos}))
	require.NoError(t, ecs.Add(w, e, component.MotionComponent.Kind(), &component.Motion{Heading: heading, Dwell: dwell}))
	require.NoError(t, ecs.Add(w, e, component.HitboxComponent.Kind(), &component.Hitbox{Width: 60, Height: 60}))
	require.NoError(t, ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{}))
	return e
}

func newTestMotion(seed int64) *MotionSystem {
	s := NewMotionSystem(DefaultMotionConfig(), rand.New(rand.NewSource(seed)))
	s.SetBounds(800, 600)
	return s
}

func TestMotionReflection(t *testing.T) {
	cases := []struct {
		name    string
		pos     cp.Vector
		heading cp.Vector
		wantPos cp.Vector
		wantHdg cp.Vector
		axis    string
	}{
		{"right_edge", cp.Vector{X: 739.8, Y: 300}, cp.Vector{X: 1, Y: 0}, cp.Vector{X: 740, Y: 300}, cp.Vector{X: -1, Y: 0}, AxisX},
		{"left_edge", cp.Vector{X: 0.2, Y: 300}, cp.Vector{X: -1, Y: 0}, cp.Vector{X: 0, Y: 300}, cp.Vector{X: 1, Y: 0}, AxisX},
		{"top_edge", cp.Vector{X: 300, Y: 0.1}, cp.Vector{X: 0, Y: -1}, cp.Vector{X: 300, Y: 0}, cp.Vector{X: 0, Y: 1}, AxisY},
		{"bottom_edge", cp.Vector{X: 300, Y: 539.9}, cp.Vector{X: 0, Y: 1}, cp.Vector{X: 300, Y: 540}, cp.Vector{X: 0, Y: -1}, AxisY},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			s := newTestMotion(1)
			e := spawnBug(t, w, "bug-1", c.pos, c.heading, time.Hour)

			s.Update(w, ReferenceTick)

			tf, _ := ecs.Get(w, e, component.TransformComponent.Kind())
			m, _ := ecs.Get(w, e, component.MotionComponent.Kind())
			assert.InDelta(t, c.wantPos.X, tf.Pos.X, 1e-9)
			assert.InDelta(t, c.wantPos.Y, tf.Pos.Y, 1e-9)
			assert.Equal(t, c.wantHdg, m.Heading)

			events := w.Events().Drain()
			require.Len(t, events, 1)
			assert.Equal(t, ecs.EventReflected, events[0].Type)
			assert.Equal(t, c.axis, events[0].Data)

			// The next tick moves back inside without flipping again.
			s.Update(w, ReferenceTick)
			assert.Equal(t, c.wantHdg, m.Heading)
			assert.Empty(t, w.Events().Drain())
		})
	}
}

func TestMotionAdvance(t *testing.T) {
	w := ecs.NewWorld()
	s := newTestMotion(1)
	e := spawnBug(t, w, "bug-1", cp.Vector{X: 100, Y: 100}, cp.Vector{X: 0.6, Y: 0.8}, time.Hour)

	for i := 0; i < 10; i++ {
		s.Update(w, ReferenceTick)
	}

	tf, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	assert.InDelta(t, 100+10*0.6*0.6, tf.Pos.X, 1e-9)
	assert.InDelta(t, 100+10*0.6*0.8, tf.Pos.Y, 1e-9)
	assert.Equal(t, 10*ReferenceTick, s.Now())
}

func TestMotionHalt(t *testing.T) {
	w := ecs.NewWorld()
	s := newTestMotion(1)
	e := spawnBug(t, w, "bug-7", cp.Vector{X: 100, Y: 100}, cp.Vector{X: 1, Y: 0}, time.Hour)

	bug, _ := ecs.Get(w, e, component.BugComponent.Kind())
	bug.Active = false

	for i := 0; i < 5; i++ {
		s.Update(w, ReferenceTick)
	}

	tf, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	m, _ := ecs.Get(w, e, component.MotionComponent.Kind())
	assert.Equal(t, cp.Vector{X: 100, Y: 100}, tf.Pos)
	assert.Equal(t, component.MotionHalted, m.State)

	events := w.Events().Drain()
	require.Len(t, events, 1)
	assert.Equal(t, ecs.EventHalted, events[0].Type)
	assert.Equal(t, "bug-7", events[0].Data)

	// Halting is one-way even if the flag is flipped back by mistake.
	bug.Active = true
	s.Update(w, ReferenceTick)
	assert.Equal(t, cp.Vector{X: 100, Y: 100}, tf.Pos)
}

func TestMotionSkipsInvalidState(t *testing.T) {
	t.Run("zero_viewport", func(t *testing.T) {
		w := ecs.NewWorld()
		s := NewMotionSystem(DefaultMotionConfig(), rand.New(rand.NewSource(1)))
		e := spawnBug(t, w, "bug-1", cp.Vector{X: 10, Y: 10}, cp.Vector{X: 1, Y: 0}, time.Hour)

		s.Update(w, ReferenceTick)

		tf, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		assert.Equal(t, cp.Vector{X: 10, Y: 10}, tf.Pos)
	})

	t.Run("nan_heading", func(t *testing.T) {
		w := ecs.NewWorld()
		s := newTestMotion(1)
		e := spawnBug(t, w, "bug-1", cp.Vector{X: 10, Y: 10}, cp.Vector{X: math.NaN(), Y: 0}, time.Hour)

		s.Update(w, ReferenceTick)

		tf, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		assert.Equal(t, cp.Vector{X: 10, Y: 10}, tf.Pos)
		assert.Empty(t, w.Events().Drain())
	})

	t.Run("nan_position", func(t *testing.T) {
		w := ecs.NewWorld()
		s := newTestMotion(1)
		e := spawnBug(t, w, "bug-1", cp.Vector{X: math.NaN(), Y: 10}, cp.Vector{X: 1, Y: 0}, time.Hour)

		s.Update(w, ReferenceTick)

		tf, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		assert.True(t, math.IsNaN(tf.Pos.X))
		assert.Equal(t, 10.0, tf.Pos.Y)
	})
}

func TestMotionReheading(t *testing.T) {
	w := ecs.NewWorld()
	s := newTestMotion(42)
	e := spawnBug(t, w, "bug-1", cp.Vector{X: 300, Y: 300}, cp.Vector{X: 1, Y: 0}, 0)

	s.Update(w, ReferenceTick)

	m, _ := ecs.Get(w, e, component.MotionComponent.Kind())
	assert.InDelta(t, 1.0, m.Heading.Length(), 1e-9)
	assert.Equal(t, s.Now(), m.LastTurn)
	assert.GreaterOrEqual(t, m.Dwell, 2*time.Second)
	assert.LessOrEqual(t, m.Dwell, 4*time.Second)

	events := w.Events().Drain()
	require.NotEmpty(t, events)
	assert.Equal(t, ecs.EventReheaded, events[0].Type)
}

func TestMotionStaysInBounds(t *testing.T) {
	w := ecs.NewWorld()
	s := newTestMotion(7)
	rng := rand.New(rand.NewSource(99))

	var ents []ecs.Entity
	for i := 0; i < 20; i++ {
		m := s.NewMotion()
		pos := cp.Vector{X: rng.Float64() * 740, Y: rng.Float64() * 540}
		ents = append(ents, spawnBug(t, w, "bug", pos, m.Heading, m.Dwell))
	}

	for i := 0; i < 5000; i++ {
		s.Update(w, ReferenceTick)
		for _, e := range ents {
			tf, _ := ecs.Get(w, e, component.TransformComponent.Kind())
			require.True(t, tf.Pos.X >= 0 && tf.Pos.X <= 740, "x out of bounds: %v", tf.Pos.X)
			require.True(t, tf.Pos.Y >= 0 && tf.Pos.Y <= 540, "y out of bounds: %v", tf.Pos.Y)
		}
		w.Events().Drain()
	}
}

func TestMotionSpriteLargerThanViewport(t *testing.T) {
	w := ecs.NewWorld()
	s := NewMotionSystem(DefaultMotionConfig(), rand.New(rand.NewSource(1)))
	s.SetBounds(40, 40)
	e := spawnBug(t, w, "bug-1", cp.Vector{X: 0, Y: 0}, cp.Vector{X: 1, Y: 0}, time.Hour)

	s.Update(w, ReferenceTick)

	tf, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	assert.Equal(t, cp.Vector{X: 0, Y: 0}, tf.Pos)
}
