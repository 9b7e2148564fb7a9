package component

import "github.com/jakecoffman/cp"

// Hitbox is the clickable AABB relative to the entity transform.
type Hitbox struct {
	Width  float64
	Height float64
}

// Box returns the hitbox in viewport space for a top-left position.
func (h Hitbox) Box(pos cp.Vector) cp.BB {
	return cp.BB{L: pos.X, B: pos.Y, R: pos.X + h.Width, T: pos.Y + h.Height}
}

var HitboxComponent = NewComponent[Hitbox]()
