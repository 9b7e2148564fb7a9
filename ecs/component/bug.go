package component

// Bug links a simulated entity to its store record.
type Bug struct {
	ID       string
	Category int
	Active   bool
}

var BugComponent = NewComponent[Bug]()
