// Package interaction runs the per-frame loop that ties layout, motion,
// input and targeting to the store.
package interaction

import (
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"sort"
	"sync/atomic"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/bugbash/ecs"
	"github.com/milk9111/bugbash/ecs/component"
	"github.com/milk9111/bugbash/ecs/system"
	"github.com/milk9111/bugbash/input"
	"github.com/milk9111/bugbash/layout"
	"github.com/milk9111/bugbash/prefabs"
	"github.com/milk9111/bugbash/store"
	"github.com/milk9111/bugbash/targeting"
)

var ErrClosed = errors.New("interaction: controller closed")

type Option func(*Controller)

func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

func WithRand(r *rand.Rand) Option {
	return func(c *Controller) {
		if r != nil {
			c.rng = r
		}
	}
}

// WithPoller sets the gamepad source sampled each tick.
func WithPoller(p input.GamepadPoller) Option {
	return func(c *Controller) {
		c.poller = p
	}
}

// TickResult describes what one tick did with its fire edge, if any.
type TickResult struct {
	Fired  bool
	Action targeting.Action
	ID     string
	Source input.Source
	Aim    cp.Vector
}

// Sprite is a render-ready view of one bug.
type Sprite struct {
	ID        string
	Title     string
	Category  int
	Active    bool
	Pos       cp.Vector
	Size      float64
	Pose      component.Pose
	Layer     int
	Hovered   bool
	Inspected bool
}

type Controller struct {
	store  store.Store
	tuning prefabs.Tuning

	world  *ecs.World
	sched  *ecs.Scheduler
	motion *system.MotionSystem
	index  *targeting.Index
	input  *input.Aggregator
	poller input.GamepadPoller

	entities  map[string]ecs.Entity
	titles    map[string]string
	nextLayer int
	laidOut   bool
	width     float64
	height    float64

	inspected string
	hovered   string

	dirty  atomic.Bool
	cancel func()
	closed bool

	rng *rand.Rand
	log *log.Logger
}

func New(s store.Store, tuning prefabs.Tuning, opts ...Option) *Controller {
	c := &Controller{
		store:    s,
		tuning:   tuning,
		world:    ecs.NewWorld(),
		index:    &targeting.Index{},
		input:    input.NewAggregator(tuning.Input()),
		entities: make(map[string]ecs.Entity),
		titles:   make(map[string]string),
		log:      log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	c.motion = system.NewMotionSystem(tuning.Motion(), c.rng)
	c.sched = ecs.NewScheduler(c.motion, system.NewHitboxSyncSystem(c.index))

	c.dirty.Store(true)
	c.cancel = s.Subscribe(func(store.State) { c.dirty.Store(true) })
	return c
}

// Input exposes the aggregator so frontends can forward device events.
func (c *Controller) Input() *input.Aggregator {
	return c.input
}

func (c *Controller) Store() store.Store {
	return c.store
}

func (c *Controller) Tuning() prefabs.Tuning {
	return c.tuning
}

// SetTuning applies reloaded tuning to running systems and live hit boxes.
func (c *Controller) SetTuning(t prefabs.Tuning) {
	c.tuning = t
	c.motion.SetConfig(t.Motion())
	c.input.SetConfig(t.Input())
	ecs.ForEach(c.world, component.HitboxComponent.Kind(), func(_ ecs.Entity, hb *component.Hitbox) {
		hb.Width = t.Bug.Size
		hb.Height = t.Bug.Size
	})
}

// Resize records the viewport origin (screen space) and size. The first
// valid size lays bugs out; a zero size suspends motion.
func (c *Controller) Resize(x, y, width, height float64) {
	if c.closed {
		return
	}
	c.input.SetViewport(x, y, width, height)
	if !(width > 0) || !(height > 0) {
		c.width, c.height = 0, 0
		c.motion.SetBounds(0, 0)
		return
	}
	c.width, c.height = width, height
	c.motion.SetBounds(width, height)
	if !c.laidOut {
		c.layoutAll()
	}
}

func (c *Controller) layoutAll() {
	c.dirty.Store(false)
	snap := c.store.Snapshot()
	n := len(snap.Bugs)
	order := layout.Shuffle(n, c.rng)
	positions := layout.Place(n, c.width, c.height, c.tuning.Bug.Size, order)

	// Cell k is drawn k-th, so the shuffle also decides stacking.
	layer := make([]int, n)
	for k, entity := range order {
		layer[entity] = k
	}
	for i, b := range snap.Bugs {
		c.spawn(b, positions[i], layer[i])
	}
	c.nextLayer = n
	c.laidOut = true
	c.applySnapshot(snap)
	c.log.Printf("interaction: laid out %d bugs in %.0fx%.0f", n, c.width, c.height)
}

func (c *Controller) spawn(b store.Bug, pos cp.Vector, layer int) {
	e := ecs.CreateEntity(c.world)
	m := c.motion.NewMotion()
	if !b.Active {
		m.State = component.MotionHalted
	}
	size := c.tuning.Bug.Size
	_ = ecs.Add(c.world, e, component.BugComponent.Kind(), &component.Bug{ID: b.ID, Category: b.Category, Active: b.Active})
	_ = ecs.Add(c.world, e, component.TransformComponent.Kind(), &component.Transform{Pos: pos})
	_ = ecs.Add(c.world, e, component.MotionComponent.Kind(), &m)
	_ = ecs.Add(c.world, e, component.HitboxComponent.Kind(), &component.Hitbox{Width: size, Height: size})
	_ = ecs.Add(c.world, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: layer})
	c.entities[b.ID] = e
	c.titles[b.ID] = b.Title
}

// applySnapshot spawns filed bugs and halts squashed ones.
func (c *Controller) applySnapshot(s store.State) {
	c.inspected = s.Inspected
	if !c.laidOut {
		return
	}
	size := c.tuning.Bug.Size
	for _, b := range s.Bugs {
		e, ok := c.entities[b.ID]
		if !ok {
			pos := cp.Vector{
				X: c.rng.Float64() * math.Max(0, c.width-size),
				Y: c.rng.Float64() * math.Max(0, c.height-size),
			}
			c.spawn(b, pos, c.nextLayer)
			c.nextLayer++
			c.log.Printf("interaction: spawned filed bug %s", b.ID)
			continue
		}
		if bug, ok := ecs.Get(c.world, e, component.BugComponent.Kind()); ok && bug.Active && !b.Active {
			bug.Active = false
		}
	}
}

func (c *Controller) syncIfDirty() {
	if c.dirty.Swap(false) {
		c.applySnapshot(c.store.Snapshot())
	}
}

// Tick advances one frame of dt and applies at most one store command.
func (c *Controller) Tick(dt time.Duration) (TickResult, error) {
	if c.closed {
		return TickResult{}, ErrClosed
	}
	c.syncIfDirty()
	c.sched.Update(c.world, dt)
	for _, ev := range c.world.Events().Drain() {
		if ev.Type == ecs.EventHalted {
			c.log.Printf("interaction: halted %v", ev.Data)
		}
	}

	frame := c.input.Sample(dt, c.poller)
	c.hovered = ""
	if t, ok := c.index.Hit(frame.Aim); ok {
		c.hovered = t.ID
	}

	res := TickResult{Aim: frame.Aim}
	if !frame.Fire {
		return res, nil
	}
	res.Fired = true
	res.Source = frame.FireSource

	r := targeting.Resolve(frame.Aim, c.inspected, c.index)
	res.Action, res.ID = r.Action, r.ID
	if err := c.apply(r); err != nil {
		return res, err
	}
	return res, nil
}

func (c *Controller) apply(r targeting.Result) error {
	var err error
	switch r.Action {
	case targeting.Inspect:
		err = c.store.Inspect(r.ID)
	case targeting.Squash:
		err = c.squash(r.ID)
	default:
		return nil
	}
	c.syncIfDirty()
	if err != nil {
		return fmt.Errorf("interaction: %s %s: %w", r.Action, r.ID, err)
	}
	return nil
}

func (c *Controller) squash(id string) error {
	err := c.store.Squash(id)
	switch {
	case errors.Is(err, store.ErrAlreadySquashed):
		c.log.Printf("interaction: %s already squashed", id)
		return c.store.Inspect("")
	case errors.Is(err, store.ErrUnknownHunter):
		// Nothing to credit; drop the inspection.
		if cerr := c.store.Inspect(""); cerr != nil {
			c.log.Printf("interaction: dismiss %s: %v", id, cerr)
		}
	}
	return err
}

// Confirm squashes the inspected bug, as the modal's confirm button does.
func (c *Controller) Confirm() error {
	if c.closed {
		return ErrClosed
	}
	c.syncIfDirty()
	if c.inspected == "" {
		return nil
	}
	return c.apply(targeting.Result{Action: targeting.Squash, ID: c.inspected})
}

// Dismiss closes the inspection without squashing.
func (c *Controller) Dismiss() error {
	if c.closed {
		return ErrClosed
	}
	err := c.store.Inspect("")
	c.syncIfDirty()
	return err
}

func (c *Controller) Aim() cp.Vector {
	return c.input.Aim()
}

func (c *Controller) Inspected() string {
	return c.inspected
}

// Hovered returns the live bug under the aim as of the last tick.
func (c *Controller) Hovered() (string, bool) {
	return c.hovered, c.hovered != ""
}

func (c *Controller) Index() *targeting.Index {
	return c.index
}

func (c *Controller) LaidOut() bool {
	return c.laidOut
}

// Sprites returns every spawned bug in draw order.
func (c *Controller) Sprites() []Sprite {
	var out []Sprite
	ecs.ForEach4(c.world,
		component.BugComponent.Kind(),
		component.TransformComponent.Kind(),
		component.MotionComponent.Kind(),
		component.RenderLayerComponent.Kind(),
		func(_ ecs.Entity, bug *component.Bug, tf *component.Transform, m *component.Motion, rl *component.RenderLayer) {
			out = append(out, Sprite{
				ID:        bug.ID,
				Title:     c.titles[bug.ID],
				Category:  bug.Category,
				Active:    bug.Active,
				Pos:       tf.Pos,
				Size:      c.tuning.Bug.Size,
				Pose:      component.PoseFor(m.Heading, c.tuning.Bug.MaxTilt),
				Layer:     rl.Index,
				Hovered:   bug.ID == c.hovered,
				Inspected: bug.ID == c.inspected,
			})
		})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Layer < out[j].Layer })
	return out
}

// Close detaches from the store. Later calls report ErrClosed.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	if c.cancel != nil {
		c.cancel()
	}
}
