package render

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/waterdrop/ecs"
	"github.com/milk9111/waterdrop/ecs/system"
	"golang.org/x/image/font/basicfont"
)

var labelColor = color.NRGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}

// Renderer draws a draw list built by system.DrawListSystem. Items whose
// model is not in the library are drawn as solid rectangles.
type Renderer struct {
	lib   *Library
	face  text.Face
	pixel *ebiten.Image

	ShowLabels bool
	// Outlines draws each item's bounds; used by the viewer's debug mode.
	Outlines bool
}

func NewRenderer(lib *Library) *Renderer {
	if lib == nil {
		lib = NewLibrary()
	}
	return &Renderer{
		lib:        lib,
		face:       text.NewGoXFace(basicfont.Face7x13),
		ShowLabels: true,
	}
}

// Library returns the model library.
func (r *Renderer) Library() *Library {
	return r.lib
}

func (r *Renderer) Draw(screen *ebiten.Image, items []system.DrawItem) {
	if r == nil || screen == nil {
		return
	}
	if r.pixel == nil {
		r.pixel = ebiten.NewImage(1, 1)
		r.pixel.Fill(color.White)
	}

	for _, item := range items {
		// textured models keep their own colors
		img := r.lib.Get(item.Model)
		tint := img == nil
		if tint {
			img = r.pixel
		}

		bounds := img.Bounds()
		iw, ih := float64(bounds.Dx()), float64(bounds.Dy())
		if iw == 0 || ih == 0 || item.Width <= 0 || item.Height <= 0 {
			continue
		}

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-iw/2, -ih/2)
		op.GeoM.Scale(item.Width/iw, item.Height/ih)
		op.GeoM.Rotate(item.Rotation)
		op.GeoM.Translate(item.X, item.Y)
		if tint && item.Color != (color.NRGBA{}) {
			op.ColorScale.ScaleWithColor(item.Color)
		}
		screen.DrawImage(img, op)

		if r.Outlines {
			vector.StrokeRect(screen,
				float32(item.X-item.Width/2), float32(item.Y-item.Height/2),
				float32(item.Width), float32(item.Height),
				1, color.NRGBA{R: 0xff, A: 0xff}, false)
		}
		if r.ShowLabels && item.Label != "" {
			top := &text.DrawOptions{}
			top.GeoM.Translate(item.X-item.Width/2, item.Y-item.Height/2-14)
			top.ColorScale.ScaleWithColor(labelColor)
			text.Draw(screen, item.Label, r.face, top)
		}
	}
}

// DrawStats prints entity and component counts in the top-left corner.
func (r *Renderer) DrawStats(screen *ebiten.Image, w *ecs.World, fps float64) {
	msg := fmt.Sprintf("fps %.0f  entities %d/%d", fps, w.Len(), w.Cap())
	for _, c := range w.Components() {
		msg += fmt.Sprintf("\n%-10s %d", c.Name, c.Count)
	}
	ebitenutil.DebugPrint(screen, msg)
}
