package component

// RenderLayer is used to sort draw order deterministically. Higher indices
// draw later and win hit tests.
type RenderLayer struct {
	Index int
}

var RenderLayerComponent = NewComponent[RenderLayer]()
