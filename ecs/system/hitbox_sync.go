package system

import (
	"sort"
	"time"

	"github.com/milk9111/bugbash/ecs"
	"github.com/milk9111/bugbash/ecs/component"
	"github.com/milk9111/bugbash/targeting"
)

// HitboxSyncSystem rebuilds the target index from live bugs each frame, in
// render layer order so later layers win hit tests.
type HitboxSyncSystem struct {
	index *targeting.Index
	buf   []layered
}

type layered struct {
	layer int
	entry targeting.Target
}

func NewHitboxSyncSystem(index *targeting.Index) *HitboxSyncSystem {
	return &HitboxSyncSystem{index: index}
}

func (s *HitboxSyncSystem) Index() *targeting.Index {
	return s.index
}

func (s *HitboxSyncSystem) Update(w *ecs.World, _ time.Duration) {
	if w == nil || s.index == nil {
		return
	}
	s.buf = s.buf[:0]
	ecs.ForEach4(w,
		component.BugComponent.Kind(),
		component.TransformComponent.Kind(),
		component.HitboxComponent.Kind(),
		component.RenderLayerComponent.Kind(),
		func(_ ecs.Entity, bug *component.Bug, tf *component.Transform, hb *component.Hitbox, rl *component.RenderLayer) {
			if !bug.Active {
				return
			}
			s.buf = append(s.buf, layered{
				layer: rl.Index,
				entry: targeting.Target{ID: bug.ID, Box: hb.Box(tf.Pos)},
			})
		})

	sort.SliceStable(s.buf, func(i, j int) bool {
		if s.buf[i].layer != s.buf[j].layer {
			return s.buf[i].layer < s.buf[j].layer
		}
		return s.buf[i].entry.ID < s.buf[j].entry.ID
	})

	s.index.Reset()
	for _, l := range s.buf {
		s.index.Add(l.entry.ID, l.entry.Box)
	}
}
