package component

// TTL is a simple frame-based time-to-live component. The TTL system destroys
// the entity after the given number of update ticks.
type TTL struct {
	// Frames remaining for the TTL (in update ticks)
	Frames int
}
