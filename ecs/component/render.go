package component

import "image/color"

// Render describes how an entity is drawn. Model names an image registered
// with the renderer; an empty or unknown model draws a filled rectangle of
// Width by Height in Color.
type Render struct {
	Model  string
	Color  color.NRGBA
	Width  float64
	Height float64
	// Layer sorts draw order; lower layers draw first.
	Layer int
	// Static entities never move, so the renderer may cache them.
	Static bool
	Hidden bool
}
