package app

import (
	"image"
	"image/color"

	"seischart/chart"
	"seischart/pkg/geom"
	"seischart/settings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// screenDrawer paints chart frames onto an ebiten image. It keeps the GPU
// copy of the last bitmap it was handed.
type screenDrawer struct {
	screen *ebiten.Image
	font   text.Face

	src    image.Image
	bitmap *ebiten.Image
}

func newScreenDrawer() *screenDrawer {
	return &screenDrawer{font: settings.FontSM}
}

func (d *screenDrawer) Line(x0, y0, x1, y1, width float64, c color.Color) {
	vector.StrokeLine(d.screen, float32(x0), float32(y0), float32(x1), float32(y1), float32(width), c, true)
}

func (d *screenDrawer) FillRect(r geom.Rect, c color.Color) {
	vector.DrawFilledRect(d.screen, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), c, false)
}

func (d *screenDrawer) StrokeRect(r geom.Rect, width float64, c color.Color) {
	vector.StrokeRect(d.screen, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), float32(width), c, false)
}

func (d *screenDrawer) Text(s string, x, y float64, align chart.Align, c color.Color) {
	ops := text.DrawOptions{}
	ops.GeoM.Translate(x, y)
	ops.ColorScale.ScaleWithColor(c)
	ops.LayoutOptions.SecondaryAlign = text.AlignCenter
	switch align {
	case chart.AlignCenter:
		ops.LayoutOptions.PrimaryAlign = text.AlignCenter
	case chart.AlignRight:
		ops.LayoutOptions.PrimaryAlign = text.AlignEnd
	default:
		ops.LayoutOptions.PrimaryAlign = text.AlignStart
	}
	text.Draw(d.screen, s, d.font, &ops)
}

func (d *screenDrawer) Image(img image.Image, r geom.Rect) {
	if img == nil || r.Empty() {
		return
	}
	if img != d.src {
		d.release()
		d.src = img
		d.bitmap = ebiten.NewImageFromImage(img)
	}
	b := img.Bounds()
	ops := &ebiten.DrawImageOptions{}
	ops.GeoM.Scale(r.Width/float64(b.Dx()), r.Height/float64(b.Dy()))
	ops.GeoM.Translate(r.X, r.Y)
	ops.Filter = ebiten.FilterLinear
	d.screen.DrawImage(d.bitmap, ops)
}

func (d *screenDrawer) release() {
	if d.bitmap != nil {
		d.bitmap.Deallocate()
	}
	d.src = nil
	d.bitmap = nil
}
