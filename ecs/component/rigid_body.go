package component

import "github.com/jakecoffman/cp"

// RigidBody stores Chipmunk2D runtime data and collider configuration. Body
// and Shape are owned by the physics system and are nil until it first sees
// the entity.
type RigidBody struct {
	Body       *cp.Body
	Shape      *cp.Shape
	Width      float64
	Height     float64
	Radius     float64
	Mass       float64
	Friction   float64
	Elasticity float64
	Static     bool
}
