package system

import (
	"image/color"
	"sort"

	"github.com/milk9111/waterdrop/common"
	"github.com/milk9111/waterdrop/ecs"
	"github.com/milk9111/waterdrop/ecs/component"
)

// View maps world coordinates to the screen. (X, Y) is the world point at
// the center of the screen.
type View struct {
	X, Y          float64
	Zoom          float64
	Width, Height float64
}

// Bounds is the screen rectangle in screen coordinates.
func (v View) Bounds() common.Rect {
	return common.Rect{Width: v.Width, Height: v.Height}
}

// WorldToScreen converts a world point to screen pixels.
func (v View) WorldToScreen(x, y float64) (float64, float64) {
	return (x-v.X)*v.Zoom + v.Width/2, (y-v.Y)*v.Zoom + v.Height/2
}

// DrawItem is one entity ready to draw, in screen space. (X, Y) is the
// center of the item.
type DrawItem struct {
	Entity   ecs.Entity
	Model    string
	Color    color.NRGBA
	X, Y     float64
	Width    float64
	Height   float64
	Rotation float64
	Layer    int
	Label    string
}

// DrawListSystem collects every visible Transform+Render entity each frame,
// projects it through the active camera and sorts it by layer, then depth.
// The renderer only reads the result.
type DrawListSystem struct {
	set   *component.Set
	items []DrawItem
	view  View
	depth []float64

	viewW, viewH float64
}

func NewDrawListSystem(set *component.Set, viewW, viewH float64) *DrawListSystem {
	return &DrawListSystem{set: set, viewW: viewW, viewH: viewH}
}

// SetViewport updates the screen size.
func (d *DrawListSystem) SetViewport(width, height float64) {
	d.viewW, d.viewH = width, height
}

// Items returns the draw list built by the last Update. The slice is reused.
func (d *DrawListSystem) Items() []DrawItem {
	return d.items
}

// View returns the camera view used by the last Update.
func (d *DrawListSystem) View() View {
	return d.view
}

func (d *DrawListSystem) Update(w *ecs.World) error {
	if w == nil {
		return ecs.ErrNilWorld
	}

	d.view = d.activeView(w)
	d.items = d.items[:0]
	d.depth = d.depth[:0]

	for e := range w.Query(ecs.Require(d.set.Transform, d.set.Render)) {
		r, _ := d.set.Render.Value(e)
		if r.Hidden {
			continue
		}
		tr, _ := d.set.Transform.Value(e)

		sx, sy := tr.ScaleX, tr.ScaleY
		if sx == 0 {
			sx = 1
		}
		if sy == 0 {
			sy = 1
		}
		width := r.Width * sx * d.view.Zoom
		height := r.Height * sy * d.view.Zoom
		x, y := d.view.WorldToScreen(tr.X, tr.Y)

		if !common.CenteredRect(x, y, width, height).Intersects(d.view.Bounds()) {
			continue
		}

		label, _ := d.set.Label.Value(e)
		d.items = append(d.items, DrawItem{
			Entity:   e,
			Model:    r.Model,
			Color:    r.Color,
			X:        x,
			Y:        y,
			Width:    width,
			Height:   height,
			Rotation: tr.Rotation,
			Layer:    r.Layer,
			Label:    label.Name,
		})
		d.depth = append(d.depth, tr.Z)
	}

	sort.Sort(byLayer{d})
	return nil
}

func (d *DrawListSystem) activeView(w *ecs.World) View {
	v := View{Zoom: 1, Width: d.viewW, Height: d.viewH}
	var (
		best  ecs.Entity
		found bool
	)
	for e := range w.Query(ecs.Require(d.set.Camera, d.set.Transform)) {
		cam, _ := d.set.Camera.Value(e)
		if !cam.Active {
			continue
		}
		// lowest index wins so the choice is stable across frames
		if !found || e.Index() < best.Index() {
			best, found = e, true
		}
	}
	if !found {
		return v
	}
	cam, _ := d.set.Camera.Value(best)
	tr, _ := d.set.Transform.Value(best)
	v.X, v.Y = tr.X, tr.Y
	if cam.Zoom > 0 {
		v.Zoom = cam.Zoom
	}
	return v
}

type byLayer struct{ d *DrawListSystem }

func (b byLayer) Len() int { return len(b.d.items) }

func (b byLayer) Less(i, j int) bool {
	a, c := b.d.items[i], b.d.items[j]
	if a.Layer != c.Layer {
		return a.Layer < c.Layer
	}
	if b.d.depth[i] != b.d.depth[j] {
		return b.d.depth[i] < b.d.depth[j]
	}
	return a.Entity.Index() < c.Entity.Index()
}

func (b byLayer) Swap(i, j int) {
	b.d.items[i], b.d.items[j] = b.d.items[j], b.d.items[i]
	b.d.depth[i], b.d.depth[j] = b.d.depth[j], b.d.depth[i]
}
