package component

// Velocity is applied to Transform once per frame by the movement system.
// Angular is in radians per frame.
type Velocity struct {
	X       float64
	Y       float64
	Angular float64
}
