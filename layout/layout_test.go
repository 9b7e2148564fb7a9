package layout

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridCountAndBounds(t *testing.T) {
	cases := []struct {
		name          string
		n             int
		width, height float64
		size          float64
	}{
		{"one", 1, 800, 600, 40},
		{"ten", 10, 800, 600, 40},
		{"tall", 7, 200, 900, 40},
		{"wide", 13, 1600, 200, 40},
		{"dense", 200, 300, 300, 40},
		{"sprite_bigger_than_view", 3, 30, 30, 40},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Grid(c.n, c.width, c.height, c.size)
			require.Len(t, got, c.n)
			maxX := math.Max(0, c.width-c.size)
			maxY := math.Max(0, c.height-c.size)
			for i, p := range got {
				assert.True(t, p.X >= 0 && p.X <= maxX, "cell %d x=%v", i, p.X)
				assert.True(t, p.Y >= 0 && p.Y <= maxY, "cell %d y=%v", i, p.Y)
			}
		})
	}
}

func TestGridEmpty(t *testing.T) {
	assert.Empty(t, Grid(0, 800, 600, 40))
	assert.Empty(t, Grid(5, 0, 0, 40))
	assert.Empty(t, Grid(5, 800, 0, 40))
	assert.Empty(t, Grid(-1, 800, 600, 40))
	assert.Empty(t, Place(5, 0, 600, 40, nil))
}

func TestGridStaysInCell(t *testing.T) {
	// 10 bugs in 800x600: cols = ceil(sqrt(10*800/600)) = 4, rows = 3.
	const cols, cellW, cellH, size = 4, 200.0, 200.0, 40.0
	got := Grid(10, 800, 600, size)
	for k, p := range got {
		col, row := k%cols, k/cols
		assert.GreaterOrEqual(t, p.X, float64(col)*cellW)
		assert.LessOrEqual(t, p.X+size, float64(col+1)*cellW)
		assert.GreaterOrEqual(t, p.Y, float64(row)*cellH)
		assert.LessOrEqual(t, p.Y+size, float64(row+1)*cellH)
	}
}

func TestGridDeterministic(t *testing.T) {
	a := Grid(10, 800, 600, 40)
	b := Grid(10, 800, 600, 40)
	assert.Equal(t, a, b)

	// Cell 0 uses Jitter(0) and Jitter(0) for both axes.
	j := Jitter(0)
	maxD := 200.0/2 - 20
	want := cp.Vector{X: 100 + (j-0.5)*2*maxD - 20, Y: 100 + (j-0.5)*2*maxD - 20}
	assert.InDelta(t, want.X, a[0].X, 1e-9)
	assert.InDelta(t, want.Y, a[0].Y, 1e-9)
}

func TestJitterRange(t *testing.T) {
	for s := 0; s < 1000; s++ {
		v := Jitter(s)
		require.True(t, v >= 0 && v < 1, "seed %d gave %v", s, v)
	}
}

func TestShufflePermutation(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	order := Shuffle(25, rng)
	require.Len(t, order, 25)

	sorted := append([]int(nil), order...)
	sort.Ints(sorted)
	for i, v := range sorted {
		assert.Equal(t, i, v)
	}
	assert.Nil(t, Shuffle(0, rng))
}

func TestPlaceFollowsOrder(t *testing.T) {
	cells := Grid(4, 800, 600, 40)
	order := []int{2, 0, 3, 1}
	got := Place(4, 800, 600, 40, order)
	require.Len(t, got, 4)
	for k, entity := range order {
		assert.Equal(t, cells[k], got[entity])
	}

	// A bad order degrades to identity instead of dropping bugs.
	assert.Equal(t, cells, Place(4, 800, 600, 40, []int{0, 0, 1, 2}))
	assert.Equal(t, cells, Place(4, 800, 600, 40, nil))
}
