package component

import "math"

// Transform places an entity in world space. Z orders entities on the same
// render layer; higher draws later.
type Transform struct {
	X        float64
	Y        float64
	Z        float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64
}

// NewTransform returns a transform at (x, y) with unit scale.
func NewTransform(x, y float64) Transform {
	return Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1}
}

// Forward returns the unit vector the entity faces.
func (t Transform) Forward() (float64, float64) {
	return math.Cos(t.Rotation), math.Sin(t.Rotation)
}

// Right returns the unit vector perpendicular to Forward.
func (t Transform) Right() (float64, float64) {
	return -math.Sin(t.Rotation), math.Cos(t.Rotation)
}
