package system

import (
	"testing"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/bugbash/ecs"
	"github.com/milk9111/bugbash/ecs/component"
	"github.com/milk9111/bugbash/targeting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHitboxSyncOrdersByLayer(t *testing.T) {
	w := ecs.NewWorld()
	low := spawnBug(t, w, "low", cp.Vector{X: 100, Y: 100}, cp.Vector{X: 1}, time.Hour)
	high := spawnBug(t, w, "high", cp.Vector{X: 120, Y: 120}, cp.Vector{X: 1}, time.Hour)
	dead := spawnBug(t, w, "dead", cp.Vector{X: 110, Y: 110}, cp.Vector{X: 1}, time.Hour)

	rl, _ := ecs.Get(w, low, component.RenderLayerComponent.Kind())
	rl.Index = 0
	rl, _ = ecs.Get(w, high, component.RenderLayerComponent.Kind())
	rl.Index = 5
	rl, _ = ecs.Get(w, dead, component.RenderLayerComponent.Kind())
	rl.Index = 9
	bug, _ := ecs.Get(w, dead, component.BugComponent.Kind())
	bug.Active = false

	sync := NewHitboxSyncSystem(&targeting.Index{})
	sync.Update(w, ReferenceTick)

	ix := sync.Index()
	require.Equal(t, 2, ix.Len())
	targets := ix.Targets()
	assert.Equal(t, "low", targets[0].ID)
	assert.Equal(t, "high", targets[1].ID)
	assert.Equal(t, cp.BB{L: 120, B: 120, R: 180, T: 180}, targets[1].Box)

	hit, ok := ix.Hit(cp.Vector{X: 130, Y: 130})
	require.True(t, ok)
	assert.Equal(t, "high", hit.ID)

	// Rebuilding reflects movement instead of appending.
	tf, _ := ecs.Get(w, high, component.TransformComponent.Kind())
	tf.Pos = cp.Vector{X: 500, Y: 500}
	sync.Update(w, ReferenceTick)
	require.Equal(t, 2, ix.Len())
	hit, ok = ix.Hit(cp.Vector{X: 130, Y: 130})
	require.True(t, ok)
	assert.Equal(t, "low", hit.ID)
}
