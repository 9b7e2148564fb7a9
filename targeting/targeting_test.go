package targeting

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func box(x, y, size float64) cp.BB {
	return cp.BB{L: x, B: y, R: x + size, T: y + size}
}

func TestResolve(t *testing.T) {
	ix := &Index{}
	ix.Add("bottom", box(100, 100, 60))
	ix.Add("top", box(130, 130, 60))
	ix.Add("alone", box(400, 400, 60))

	cases := []struct {
		name      string
		aim       cp.Vector
		inspected string
		want      Result
	}{
		{"miss_empty_space", cp.Vector{X: 10, Y: 10}, "", Result{Action: Miss}},
		{"single_hit", cp.Vector{X: 420, Y: 420}, "", Result{Action: Inspect, ID: "alone"}},
		{"overlap_prefers_topmost", cp.Vector{X: 150, Y: 150}, "", Result{Action: Inspect, ID: "top"}},
		{"bottom_only_region", cp.Vector{X: 105, Y: 105}, "", Result{Action: Inspect, ID: "bottom"}},
		{"inspection_overrides_aim", cp.Vector{X: 420, Y: 420}, "bottom", Result{Action: Squash, ID: "bottom"}},
		{"inspection_overrides_miss", cp.Vector{X: 0, Y: 0}, "alone", Result{Action: Squash, ID: "alone"}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Resolve(c.aim, c.inspected, ix))
		})
	}
}

func TestIndexReset(t *testing.T) {
	ix := &Index{}
	ix.Add("a", box(0, 0, 10))
	require.Equal(t, 1, ix.Len())

	got, ok := ix.Box("a")
	require.True(t, ok)
	assert.Equal(t, box(0, 0, 10), got)

	ix.Reset()
	assert.Equal(t, 0, ix.Len())
	_, ok = ix.Hit(cp.Vector{X: 5, Y: 5})
	assert.False(t, ok)
	assert.Equal(t, Result{Action: Miss}, Resolve(cp.Vector{X: 5, Y: 5}, "", ix))
}

func TestNilIndex(t *testing.T) {
	var ix *Index
	assert.Equal(t, Result{Action: Miss}, Resolve(cp.Vector{}, "", ix))
	assert.Equal(t, 0, ix.Len())
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "miss", Miss.String())
	assert.Equal(t, "inspect", Inspect.String())
	assert.Equal(t, "squash", Squash.String())
	assert.Equal(t, "unknown", Action(42).String())
}
