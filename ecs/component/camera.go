package component

// Camera turns an entity's Transform into a viewpoint. The perspective
// fields describe the projection; the viewer's 2D renderer only uses Zoom and
// Aspect.
type Camera struct {
	Aspect float64
	FovY   float64
	ZNear  float64
	ZFar   float64

	// TargetName is the Label of the entity to follow. Empty means fixed.
	TargetName string
	Zoom       float64
	// Smoothness is the fraction of the remaining distance covered per frame.
	Smoothness float64
	Active     bool
}

// DefaultCamera returns an active camera with a 45 degree field of view.
func DefaultCamera() Camera {
	return Camera{
		Aspect:     16.0 / 9.0,
		FovY:       45,
		ZNear:      0.1,
		ZFar:       100,
		Zoom:       1,
		Smoothness: 0.15,
		Active:     true,
	}
}
