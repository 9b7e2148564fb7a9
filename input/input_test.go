package input

import (
	"math"
	"testing"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePad struct {
	state GamepadState
	gone  bool
	polls int
}

func (p *fakePad) PollGamepad(GamepadID) (GamepadState, bool) {
	p.polls++
	if p.gone {
		return GamepadState{}, false
	}
	return p.state, true
}

func newSized() *Aggregator {
	a := NewAggregator(DefaultConfig())
	a.SetViewport(0, 0, 800, 600)
	return a
}

func TestViewportCentersOnce(t *testing.T) {
	a := NewAggregator(DefaultConfig())
	a.SetViewport(0, 0, 0, 0)
	assert.Equal(t, cp.Vector{}, a.Aim())

	a.SetViewport(0, 0, 800, 600)
	assert.Equal(t, cp.Vector{X: 400, Y: 300}, a.Aim())

	a.PointerMove(700, 500)
	a.SetViewport(0, 0, 1000, 1000)
	assert.Equal(t, cp.Vector{X: 700, Y: 500}, a.Aim(), "later resizes keep the aim")

	a.SetViewport(0, 0, 100, 100)
	assert.Equal(t, cp.Vector{X: 100, Y: 100}, a.Aim(), "shrinking clamps the aim")
}

func TestPointerMove(t *testing.T) {
	cases := []struct {
		name   string
		x, y   float64
		expect cp.Vector
	}{
		{"inside", 110, 70, cp.Vector{X: 100, Y: 50}},
		{"left_of_view", 0, 70, cp.Vector{X: 0, Y: 50}},
		{"past_bottom_right", 2000, 2000, cp.Vector{X: 800, Y: 600}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a := NewAggregator(DefaultConfig())
			a.SetViewport(10, 20, 800, 600)
			a.PointerMove(c.x, c.y)
			f := a.Sample(time.Second/60, nil)
			assert.Equal(t, c.expect, f.Aim)
			assert.True(t, f.Moved)
		})
	}
}

func TestFireEdges(t *testing.T) {
	a := newSized()

	f := a.Sample(time.Second/60, nil)
	assert.False(t, f.Fire)

	a.PointerClick()
	f = a.Sample(time.Second/60, nil)
	assert.True(t, f.Fire)
	assert.Equal(t, SourcePointer, f.FireSource)

	f = a.Sample(time.Second/60, nil)
	assert.False(t, f.Fire, "fire edge is consumed by one sample")

	// Several edges between frames collapse to one fire, first source wins.
	a.FireKey()
	a.PointerClick()
	f = a.Sample(time.Second/60, nil)
	assert.True(t, f.Fire)
	assert.Equal(t, SourceKeyboard, f.FireSource)
	assert.False(t, a.Sample(time.Second/60, nil).Fire)
}

func TestDeadZone(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{0.149, 0},
		{-0.149, 0},
		{0.15, 0.15},
		{0.2, 0.2},
		{-0.2, -0.2},
		{1, 1},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ApplyDeadZone(c.in, 0.15), "value %v", c.in)
	}
}

func TestStickInsideDeadZoneDoesNotMove(t *testing.T) {
	a := newSized()
	pad := &fakePad{state: GamepadState{AxisX: 0.1, AxisY: -0.14}}
	require.True(t, a.Connect(0, true))

	f := a.Sample(time.Second, pad)
	assert.Equal(t, cp.Vector{}, f.Direction)
	assert.Equal(t, cp.Vector{X: 400, Y: 300}, f.Aim)
	assert.False(t, f.Moved)
}

func TestKeyboardAndStickNormalize(t *testing.T) {
	a := newSized()
	pad := &fakePad{state: GamepadState{AxisX: 1}}
	require.True(t, a.Connect(0, true))
	a.KeyDown(Right)

	f := a.Sample(100*time.Millisecond, pad)
	assert.InDelta(t, 1.0, f.Direction.Length(), 1e-9)
	assert.InDelta(t, 400+320*0.1, f.Aim.X, 1e-9)
	assert.InDelta(t, 300, f.Aim.Y, 1e-9)
}

func TestDiagonalKeysNormalize(t *testing.T) {
	a := newSized()
	a.KeyDown(Down)
	a.KeyDown(Left)

	f := a.Sample(time.Second/4, nil)
	step := 320 * 0.25 / math.Sqrt2
	assert.InDelta(t, 400-step, f.Aim.X, 1e-9)
	assert.InDelta(t, 300+step, f.Aim.Y, 1e-9)
	assert.True(t, f.Moved)

	a.KeyUp(Down)
	a.KeyUp(Left)
	f = a.Sample(time.Second/4, nil)
	assert.False(t, f.Moved)
}

func TestVelocityClampsToViewport(t *testing.T) {
	a := newSized()
	a.KeyDown(Up)
	f := a.Sample(10*time.Second, nil)
	assert.Equal(t, 0.0, f.Aim.Y)
}

func TestOpposingKeysCancel(t *testing.T) {
	a := newSized()
	a.KeyDown(Left)
	a.KeyDown(Right)
	f := a.Sample(time.Second, nil)
	assert.Equal(t, cp.Vector{X: 400, Y: 300}, f.Aim)
}

func TestGamepadRisingEdge(t *testing.T) {
	a := newSized()
	pad := &fakePad{}
	require.True(t, a.Connect(3, true))

	pad.state.Primary = true
	assert.True(t, a.Sample(time.Second/60, pad).Fire)
	assert.False(t, a.Sample(time.Second/60, pad).Fire, "held button must not refire")

	pad.state.Primary = false
	pad.state.Trigger = true
	assert.False(t, a.Sample(time.Second/60, pad).Fire, "switching buttons while held is not an edge")

	pad.state.Trigger = false
	assert.False(t, a.Sample(time.Second/60, pad).Fire)

	pad.state.Trigger = true
	f := a.Sample(time.Second/60, pad)
	assert.True(t, f.Fire)
	assert.Equal(t, SourceGamepad, f.FireSource)
}

func TestGamepadTracking(t *testing.T) {
	a := newSized()

	assert.False(t, a.Connect(1, false), "non-standard pads are ignored")
	_, ok := a.Gamepad()
	assert.False(t, ok)

	assert.True(t, a.Connect(2, true))
	assert.False(t, a.Connect(5, true), "only the first standard pad is tracked")
	id, ok := a.Gamepad()
	require.True(t, ok)
	assert.Equal(t, GamepadID(2), id)

	a.Disconnect(5)
	_, ok = a.Gamepad()
	assert.True(t, ok, "detaching another pad keeps the tracked one")

	a.Disconnect(2)
	_, ok = a.Gamepad()
	assert.False(t, ok)

	pad := &fakePad{state: GamepadState{Primary: true}}
	assert.False(t, a.Sample(time.Second/60, pad).Fire)
	assert.Equal(t, 0, pad.polls, "no pad is polled after detach")
}

func TestGamepadGoneMidPoll(t *testing.T) {
	a := newSized()
	pad := &fakePad{gone: true}
	require.True(t, a.Connect(0, true))

	f := a.Sample(time.Second/60, pad)
	assert.False(t, f.Fire)
	_, ok := a.Gamepad()
	assert.False(t, ok)

	a.Sample(time.Second/60, pad)
	assert.Equal(t, 1, pad.polls)

	// A later standard pad can take over.
	assert.True(t, a.Connect(4, true))
}

func TestUnsizedAggregatorIgnoresMovement(t *testing.T) {
	a := NewAggregator(DefaultConfig())
	a.PointerMove(50, 50)
	a.KeyDown(Right)
	a.PointerClick()

	f := a.Sample(time.Second, nil)
	assert.Equal(t, cp.Vector{}, f.Aim)
	assert.True(t, f.Fire)
}

func TestSourceString(t *testing.T) {
	assert.Equal(t, "pointer", SourcePointer.String())
	assert.Equal(t, "keyboard", SourceKeyboard.String())
	assert.Equal(t, "gamepad", SourceGamepad.String())
	assert.Equal(t, "none", SourceNone.String())
}
