package component

// Label is the display name of an entity.
type Label struct {
	Name string
}
