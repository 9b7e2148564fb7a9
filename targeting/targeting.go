// Package targeting maps an aim position to the bug a fire action affects.
package targeting

import "github.com/jakecoffman/cp"

type Action int

const (
	Miss Action = iota
	Inspect
	Squash
)

func (a Action) String() string {
	switch a {
	case Miss:
		return "miss"
	case Inspect:
		return "inspect"
	case Squash:
		return "squash"
	default:
		return "unknown"
	}
}

// Result is the outcome of one fire. ID is empty on a miss.
type Result struct {
	Action Action
	ID     string
}

// Target is one live bug's hit box in viewport space. Box.B is the top edge.
type Target struct {
	ID  string
	Box cp.BB
}

// Index holds live bug boxes in draw order, bottom first.
type Index struct {
	targets []Target
}

func (ix *Index) Reset() {
	ix.targets = ix.targets[:0]
}

// Add appends a target above every target already added.
func (ix *Index) Add(id string, box cp.BB) {
	ix.targets = append(ix.targets, Target{ID: id, Box: box})
}

func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.targets)
}

// Targets returns the targets in draw order.
func (ix *Index) Targets() []Target {
	if ix == nil {
		return nil
	}
	out := make([]Target, len(ix.targets))
	copy(out, ix.targets)
	return out
}

// Hit returns the topmost target containing p.
func (ix *Index) Hit(p cp.Vector) (Target, bool) {
	if ix == nil {
		return Target{}, false
	}
	for i := len(ix.targets) - 1; i >= 0; i-- {
		if ix.targets[i].Box.ContainsVect(p) {
			return ix.targets[i], true
		}
	}
	return Target{}, false
}

// Box returns the box last added for id.
func (ix *Index) Box(id string) (cp.BB, bool) {
	if ix == nil {
		return cp.BB{}, false
	}
	for i := len(ix.targets) - 1; i >= 0; i-- {
		if ix.targets[i].ID == id {
			return ix.targets[i].Box, true
		}
	}
	return cp.BB{}, false
}

// Resolve decides what a fire at aim does. An open inspection always
// resolves to squashing the inspected bug, wherever the aim is.
func Resolve(aim cp.Vector, inspected string, ix *Index) Result {
	if inspected != "" {
		return Result{Action: Squash, ID: inspected}
	}
	if t, ok := ix.Hit(aim); ok {
		return Result{Action: Inspect, ID: t.ID}
	}
	return Result{Action: Miss}
}
