// Package input merges pointer, keyboard and gamepad signals into one aim
// position and one fire edge per frame.
package input

import (
	"math"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/bugbash/common"
)

type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
	numDirections
)

type GamepadID int

// GamepadState is one poll of the tracked pad. Axes are raw values in [-1, 1].
type GamepadState struct {
	AxisX   float64
	AxisY   float64
	Primary bool
	Trigger bool
}

// GamepadPoller reads the current state of a pad. ok is false when the pad
// is gone.
type GamepadPoller interface {
	PollGamepad(id GamepadID) (state GamepadState, ok bool)
}

// Source records which device produced a fire edge.
type Source int

const (
	SourceNone Source = iota
	SourcePointer
	SourceKeyboard
	SourceGamepad
)

func (s Source) String() string {
	switch s {
	case SourcePointer:
		return "pointer"
	case SourceKeyboard:
		return "keyboard"
	case SourceGamepad:
		return "gamepad"
	default:
		return "none"
	}
}

type Config struct {
	// Speed is the aim speed in pixels per second for keys and stick.
	Speed    float64
	DeadZone float64
}

func DefaultConfig() Config {
	return Config{Speed: 320, DeadZone: 0.15}
}

// Frame is the result of one Sample.
type Frame struct {
	Aim        cp.Vector
	Fire       bool
	FireSource Source
	Moved      bool
	Direction  cp.Vector
}

// ApplyDeadZone zeroes axis values whose magnitude is below zone.
func ApplyDeadZone(v, zone float64) float64 {
	if math.Abs(v) < zone {
		return 0
	}
	return v
}

// Aggregator owns the aim state. Event methods and Sample must be called
// from one goroutine.
type Aggregator struct {
	cfg Config

	originX, originY float64
	width, height    float64
	sized            bool

	aim          cp.Vector
	pointerMoved bool

	held [numDirections]bool

	fire       bool
	fireSource Source

	pad        GamepadID
	hasPad     bool
	padWasDown bool
}

func NewAggregator(cfg Config) *Aggregator {
	return &Aggregator{cfg: cfg}
}

func (a *Aggregator) SetConfig(cfg Config) {
	a.cfg = cfg
}

func (a *Aggregator) Config() Config {
	return a.cfg
}

// SetViewport records the viewport origin in screen space and its size.
// The first valid size centers the aim.
func (a *Aggregator) SetViewport(x, y, width, height float64) {
	a.originX, a.originY = x, y
	if !(width > 0) || !(height > 0) {
		a.width, a.height = 0, 0
		return
	}
	a.width, a.height = width, height
	if !a.sized {
		a.sized = true
		a.aim = cp.Vector{X: width / 2, Y: height / 2}
		return
	}
	a.aim = a.clamp(a.aim)
}

func (a *Aggregator) Aim() cp.Vector {
	return a.aim
}

// PointerMove sets the aim from a screen-space pointer position.
func (a *Aggregator) PointerMove(x, y float64) {
	if !a.sized || a.width == 0 {
		return
	}
	a.aim = a.clamp(cp.Vector{X: x - a.originX, Y: y - a.originY})
	a.pointerMoved = true
}

// PointerClick raises a fire edge.
func (a *Aggregator) PointerClick() {
	a.raise(SourcePointer)
}

func (a *Aggregator) KeyDown(d Direction) {
	if d >= 0 && d < numDirections {
		a.held[d] = true
	}
}

func (a *Aggregator) KeyUp(d Direction) {
	if d >= 0 && d < numDirections {
		a.held[d] = false
	}
}

// FireKey raises a fire edge for one key press. Callers must not forward
// key repeats.
func (a *Aggregator) FireKey() {
	a.raise(SourceKeyboard)
}

// Connect starts tracking a pad if none is tracked and it uses the standard
// layout. It reports whether id is now the tracked pad.
func (a *Aggregator) Connect(id GamepadID, standard bool) bool {
	if a.hasPad {
		return a.pad == id
	}
	if !standard {
		return false
	}
	a.pad = id
	a.hasPad = true
	a.padWasDown = false
	return true
}

// Disconnect clears the tracked pad if it is id.
func (a *Aggregator) Disconnect(id GamepadID) {
	if a.hasPad && a.pad == id {
		a.clearPad()
	}
}

// Gamepad returns the tracked pad, if any.
func (a *Aggregator) Gamepad() (GamepadID, bool) {
	return a.pad, a.hasPad
}

// Sample polls the tracked pad, applies held directions for dt and consumes
// any pending fire edge.
func (a *Aggregator) Sample(dt time.Duration, poller GamepadPoller) Frame {
	var dir cp.Vector
	if a.held[Right] {
		dir.X++
	}
	if a.held[Left] {
		dir.X--
	}
	if a.held[Down] {
		dir.Y++
	}
	if a.held[Up] {
		dir.Y--
	}

	if a.hasPad && poller != nil {
		state, ok := poller.PollGamepad(a.pad)
		if !ok {
			a.clearPad()
		} else {
			dir.X += ApplyDeadZone(state.AxisX, a.cfg.DeadZone)
			dir.Y += ApplyDeadZone(state.AxisY, a.cfg.DeadZone)

			down := state.Primary || state.Trigger
			if down && !a.padWasDown {
				a.raise(SourceGamepad)
			}
			a.padWasDown = down
		}
	}

	moved := a.pointerMoved
	a.pointerMoved = false

	if mag := dir.Length(); mag > 0 {
		dir = dir.Mult(1 / mag)
		if a.sized && a.width > 0 && dt > 0 {
			before := a.aim
			a.aim = a.clamp(a.aim.Add(dir.Mult(a.cfg.Speed * dt.Seconds())))
			moved = moved || a.aim != before
		}
	}

	f := Frame{Aim: a.aim, Fire: a.fire, FireSource: a.fireSource, Moved: moved, Direction: dir}
	a.fire = false
	a.fireSource = SourceNone
	return f
}

func (a *Aggregator) raise(src Source) {
	if a.fire {
		return
	}
	a.fire = true
	a.fireSource = src
}

func (a *Aggregator) clearPad() {
	a.hasPad = false
	a.pad = 0
	a.padWasDown = false
}

func (a *Aggregator) clamp(p cp.Vector) cp.Vector {
	return cp.Vector{
		X: common.Clamp(p.X, 0, a.width),
		Y: common.Clamp(p.Y, 0, a.height),
	}
}
