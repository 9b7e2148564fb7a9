package system

import (
	"math"
	"math/rand"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/bugbash/common"
	"github.com/milk9111/bugbash/ecs"
	"github.com/milk9111/bugbash/ecs/component"
)

// ReferenceTick is the frame length the per-tick speed is tuned for.
const ReferenceTick = time.Second / 60

type MotionConfig struct {
	Speed    float64
	DwellMin time.Duration
	DwellMax time.Duration
}

func DefaultMotionConfig() MotionConfig {
	return MotionConfig{Speed: 0.6, DwellMin: 2 * time.Second, DwellMax: 4 * time.Second}
}

// AxisX and AxisY are carried as Data on EventReflected.
const (
	AxisX = "x"
	AxisY = "y"
)

// MotionSystem wanders active bugs inside the viewport and halts squashed
// ones. It keeps its own clock so ticks can be fed synthetic elapsed times.
type MotionSystem struct {
	cfg    MotionConfig
	rng    *rand.Rand
	width  float64
	height float64
	now    time.Duration
}

func NewMotionSystem(cfg MotionConfig, rng *rand.Rand) *MotionSystem {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.DwellMax < cfg.DwellMin {
		cfg.DwellMax = cfg.DwellMin
	}
	return &MotionSystem{cfg: cfg, rng: rng}
}

func (s *MotionSystem) SetConfig(cfg MotionConfig) {
	if cfg.DwellMax < cfg.DwellMin {
		cfg.DwellMax = cfg.DwellMin
	}
	s.cfg = cfg
}

// SetBounds updates the viewport the bugs are confined to.
func (s *MotionSystem) SetBounds(width, height float64) {
	s.width = width
	s.height = height
}

func (s *MotionSystem) Now() time.Duration {
	return s.now
}

// NewMotion returns a wandering state with a fresh heading and dwell.
func (s *MotionSystem) NewMotion() component.Motion {
	return component.Motion{
		State:    component.MotionWandering,
		Heading:  s.randomHeading(),
		LastTurn: s.now,
		Dwell:    s.rollDwell(),
	}
}

func (s *MotionSystem) Update(w *ecs.World, dt time.Duration) {
	if w == nil || dt <= 0 {
		return
	}
	s.now += dt

	if !validExtent(s.width) || !validExtent(s.height) {
		return
	}
	step := s.cfg.Speed * float64(dt) / float64(ReferenceTick)

	ecs.ForEach4(w,
		component.BugComponent.Kind(),
		component.TransformComponent.Kind(),
		component.MotionComponent.Kind(),
		component.HitboxComponent.Kind(),
		func(e ecs.Entity, bug *component.Bug, tf *component.Transform, m *component.Motion, hb *component.Hitbox) {
			if !bug.Active {
				if m.State != component.MotionHalted {
					m.State = component.MotionHalted
					w.Events().Push(ecs.Event{Type: ecs.EventHalted, Entity: e, Data: bug.ID})
				}
				return
			}
			if m.State == component.MotionHalted {
				return
			}
			if !finiteVect(tf.Pos) || !finiteVect(m.Heading) {
				return
			}

			if s.now-m.LastTurn >= m.Dwell {
				m.Heading = s.randomHeading()
				m.LastTurn = s.now
				m.Dwell = s.rollDwell()
				w.Events().Push(ecs.Event{Type: ecs.EventReheaded, Entity: e, Data: bug.ID})
			}

			next := tf.Pos.Add(m.Heading.Mult(step))
			maxX := math.Max(0, s.width-hb.Width)
			maxY := math.Max(0, s.height-hb.Height)

			if next.X < 0 || next.X > maxX {
				m.Heading.X = -m.Heading.X
				next.X = common.Clamp(next.X, 0, maxX)
				w.Events().Push(ecs.Event{Type: ecs.EventReflected, Entity: e, Data: AxisX})
			}
			if next.Y < 0 || next.Y > maxY {
				m.Heading.Y = -m.Heading.Y
				next.Y = common.Clamp(next.Y, 0, maxY)
				w.Events().Push(ecs.Event{Type: ecs.EventReflected, Entity: e, Data: AxisY})
			}
			tf.Pos = next
		})
}

func (s *MotionSystem) randomHeading() cp.Vector {
	a := s.rng.Float64() * 2 * math.Pi
	return cp.Vector{X: math.Cos(a), Y: math.Sin(a)}
}

func (s *MotionSystem) rollDwell() time.Duration {
	span := s.cfg.DwellMax - s.cfg.DwellMin
	if span <= 0 {
		return s.cfg.DwellMin
	}
	return s.cfg.DwellMin + time.Duration(s.rng.Int63n(int64(span)+1))
}

func validExtent(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

func finiteVect(v cp.Vector) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}
