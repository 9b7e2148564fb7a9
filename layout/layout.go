// Package layout spreads bugs over a viewport on a jittered grid.
package layout

import (
	"math"
	"math/rand"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/bugbash/common"
)

// Jitter is a deterministic pseudo-random value in [0, 1) for seed s.
func Jitter(s int) float64 {
	return common.Frac(math.Sin(float64(s)+1) * 10000)
}

// Grid returns the top-left position of each of n cells covering a
// width x height viewport, for sprites of the given size. Cell k is offset
// from its center by Jitter(k) on x and Jitter(7k) on y, bounded so the
// sprite stays inside the cell where it fits.
func Grid(n int, width, height, size float64) []cp.Vector {
	if n <= 0 || !(width > 0) || !(height > 0) {
		return nil
	}

	cols := int(math.Ceil(math.Sqrt(float64(n) * width / height)))
	if cols < 1 {
		cols = 1
	}
	rows := int(math.Ceil(float64(n) / float64(cols)))
	cellW := width / float64(cols)
	cellH := height / float64(rows)

	maxDx := math.Max(0, cellW/2-size/2)
	maxDy := math.Max(0, cellH/2-size/2)
	maxX := math.Max(0, width-size)
	maxY := math.Max(0, height-size)

	out := make([]cp.Vector, n)
	for k := 0; k < n; k++ {
		row, col := k/cols, k%cols
		cx := float64(col)*cellW + cellW/2
		cy := float64(row)*cellH + cellH/2

		dx := (Jitter(k) - 0.5) * 2 * maxDx
		dy := (Jitter(k*7) - 0.5) * 2 * maxDy

		out[k] = cp.Vector{
			X: common.Clamp(cx+dx-size/2, 0, maxX),
			Y: common.Clamp(cy+dy-size/2, 0, maxY),
		}
	}
	return out
}

// Shuffle returns a Fisher-Yates permutation of 0..n-1.
func Shuffle(n int, rng *rand.Rand) []int {
	if n <= 0 {
		return nil
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		order[i], order[j] = order[j], order[i]
	}
	return order
}

// Place assigns cell k to entity order[k] and returns positions indexed by
// entity. A nil or mismatched order falls back to identity.
func Place(n int, width, height, size float64, order []int) []cp.Vector {
	cells := Grid(n, width, height, size)
	if cells == nil {
		return nil
	}
	if !isPermutation(order, n) {
		return cells
	}
	out := make([]cp.Vector, n)
	for k, entity := range order {
		out[entity] = cells[k]
	}
	return out
}

func isPermutation(order []int, n int) bool {
	if len(order) != n {
		return false
	}
	seen := make([]bool, n)
	for _, v := range order {
		if v < 0 || v >= n || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}
