package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/bugbash/input"
	"github.com/milk9111/bugbash/prefabs"
)

var keyNames = map[string]ebiten.Key{
	"a": ebiten.KeyA, "b": ebiten.KeyB, "c": ebiten.KeyC, "d": ebiten.KeyD,
	"e": ebiten.KeyE, "f": ebiten.KeyF, "g": ebiten.KeyG, "h": ebiten.KeyH,
	"i": ebiten.KeyI, "j": ebiten.KeyJ, "k": ebiten.KeyK, "l": ebiten.KeyL,
	"m": ebiten.KeyM, "n": ebiten.KeyN, "o": ebiten.KeyO, "p": ebiten.KeyP,
	"q": ebiten.KeyQ, "r": ebiten.KeyR, "s": ebiten.KeyS, "t": ebiten.KeyT,
	"u": ebiten.KeyU, "v": ebiten.KeyV, "w": ebiten.KeyW, "x": ebiten.KeyX,
	"y": ebiten.KeyY, "z": ebiten.KeyZ,

	"arrow_up":    ebiten.KeyArrowUp,
	"arrow_down":  ebiten.KeyArrowDown,
	"arrow_left":  ebiten.KeyArrowLeft,
	"arrow_right": ebiten.KeyArrowRight,
	"space":       ebiten.KeySpace,
	"enter":       ebiten.KeyEnter,
	"tab":         ebiten.KeyTab,
	"shift":       ebiten.KeyShift,
	"control":     ebiten.KeyControl,
}

var padButtonNames = map[string]ebiten.StandardGamepadButton{
	"right_bottom":       ebiten.StandardGamepadButtonRightBottom,
	"right_right":        ebiten.StandardGamepadButtonRightRight,
	"right_left":         ebiten.StandardGamepadButtonRightLeft,
	"right_top":          ebiten.StandardGamepadButtonRightTop,
	"front_top_left":     ebiten.StandardGamepadButtonFrontTopLeft,
	"front_top_right":    ebiten.StandardGamepadButtonFrontTopRight,
	"front_bottom_left":  ebiten.StandardGamepadButtonFrontBottomLeft,
	"front_bottom_right": ebiten.StandardGamepadButtonFrontBottomRight,
}

func parseKey(name string) (ebiten.Key, error) {
	k, ok := keyNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("devices: unknown key %q", name)
	}
	return k, nil
}

func parsePadButton(name string) (ebiten.StandardGamepadButton, error) {
	b, ok := padButtonNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("devices: unknown gamepad button %q", name)
	}
	return b, nil
}

// bindings maps ebiten devices to aggregator actions.
type bindings struct {
	dirs    [4][]ebiten.Key
	fire    []ebiten.Key
	primary ebiten.StandardGamepadButton
	trigger ebiten.StandardGamepadButton
}

// newBindings resolves tuning key names. Unknown names are logged and
// skipped; a direction left without keys falls back to the defaults.
func newBindings(t prefabs.KeyTuning, pad prefabs.GamepadTuning) bindings {
	def := prefabs.DefaultTuning()
	var b bindings
	lists := [4][2][]string{
		input.Up:    {t.Up, def.Keys.Up},
		input.Down:  {t.Down, def.Keys.Down},
		input.Left:  {t.Left, def.Keys.Left},
		input.Right: {t.Right, def.Keys.Right},
	}
	for d, pair := range lists {
		b.dirs[d] = resolveKeys(pair[0])
		if len(b.dirs[d]) == 0 {
			b.dirs[d] = resolveKeys(pair[1])
		}
	}
	b.fire = resolveKeys(t.Fire)
	if len(b.fire) == 0 {
		b.fire = resolveKeys(def.Keys.Fire)
	}

	var err error
	if b.primary, err = parsePadButton(pad.Primary); err != nil {
		log.Printf("%v; using right_bottom", err)
		b.primary = ebiten.StandardGamepadButtonRightBottom
	}
	if b.trigger, err = parsePadButton(pad.Trigger); err != nil {
		log.Printf("%v; using front_bottom_right", err)
		b.trigger = ebiten.StandardGamepadButtonFrontBottomRight
	}
	return b
}

func resolveKeys(names []string) []ebiten.Key {
	var out []ebiten.Key
	for _, n := range names {
		k, err := parseKey(n)
		if err != nil {
			log.Print(err)
			continue
		}
		out = append(out, k)
	}
	return out
}

// Devices forwards ebiten input to an aggregator once per frame and polls
// the tracked gamepad for it.
type Devices struct {
	agg  *input.Aggregator
	keys bindings
	held [4]bool
	pads []ebiten.GamepadID

	lastX, lastY int
}

func NewDevices(t prefabs.Tuning) *Devices {
	return &Devices{keys: newBindings(t.Keys, t.Gamepad)}
}

// Attach binds the aggregator events are forwarded to.
func (d *Devices) Attach(agg *input.Aggregator) {
	d.agg = agg
	// Pads plugged in before start never report a connect edge.
	for _, id := range ebiten.AppendGamepadIDs(nil) {
		d.connect(id)
	}
}

func (d *Devices) SetTuning(t prefabs.Tuning) {
	d.keys = newBindings(t.Keys, t.Gamepad)
}

func (d *Devices) connect(id ebiten.GamepadID) {
	if d.agg.Connect(input.GamepadID(id), ebiten.IsStandardGamepadLayoutAvailable(id)) {
		log.Printf("gamepad connected: %s", ebiten.GamepadName(id))
	}
}

// Update forwards this frame's device edges. Pointer clicks are dropped
// while blockPointer is set so modal buttons do not also fire.
func (d *Devices) Update(blockPointer bool) {
	if d.agg == nil {
		return
	}
	d.pads = inpututil.AppendJustConnectedGamepadIDs(d.pads[:0])
	for _, id := range d.pads {
		d.connect(id)
	}
	if id, ok := d.agg.Gamepad(); ok && inpututil.IsGamepadJustDisconnected(ebiten.GamepadID(id)) {
		d.agg.Disconnect(id)
		log.Print("gamepad disconnected")
	}

	cx, cy := ebiten.CursorPosition()
	if cx != d.lastX || cy != d.lastY {
		d.lastX, d.lastY = cx, cy
		d.agg.PointerMove(float64(cx), float64(cy))
	}
	if !blockPointer && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		d.agg.PointerMove(float64(cx), float64(cy))
		d.agg.PointerClick()
	}

	for dir, keys := range d.keys.dirs {
		down := anyPressed(keys)
		if down == d.held[dir] {
			continue
		}
		d.held[dir] = down
		if down {
			d.agg.KeyDown(input.Direction(dir))
		} else {
			d.agg.KeyUp(input.Direction(dir))
		}
	}
	for _, k := range d.keys.fire {
		if inpututil.IsKeyJustPressed(k) {
			d.agg.FireKey()
			break
		}
	}
}

// PollGamepad implements input.GamepadPoller.
func (d *Devices) PollGamepad(id input.GamepadID) (input.GamepadState, bool) {
	gid := ebiten.GamepadID(id)
	if !isConnected(gid) {
		return input.GamepadState{}, false
	}
	return input.GamepadState{
		AxisX:   ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickHorizontal),
		AxisY:   ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickVertical),
		Primary: ebiten.IsStandardGamepadButtonPressed(gid, d.keys.primary),
		Trigger: ebiten.IsStandardGamepadButtonPressed(gid, d.keys.trigger),
	}, true
}

func isConnected(id ebiten.GamepadID) bool {
	for _, g := range ebiten.AppendGamepadIDs(nil) {
		if g == id {
			return true
		}
	}
	return false
}

func anyPressed(keys []ebiten.Key) bool {
	for _, k := range keys {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}
