package component

import "github.com/jakecoffman/cp"

// Transform holds the top-left sprite position in viewport pixels.
type Transform struct {
	Pos cp.Vector
}

var TransformComponent = NewComponent[Transform]()
