package app

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

func DrawText(screen *ebiten.Image, str string, font text.Face, x, y float64, color color.Color) {
	ops := text.DrawOptions{}
	ops.GeoM.Translate(x, y)
	ops.ColorScale.ScaleWithColor(color)
	text.Draw(screen, str, font, &ops)
}

type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// SplitRect cuts rect in two along o. ratio is the share of the first
// pane and spacing the gap left between both.
func SplitRect(rect image.Rectangle, o Orientation, ratio float64, spacing int) (image.Rectangle, image.Rectangle) {
	first, second := rect, rect
	switch o {
	case Horizontal:
		cut := rect.Min.X + int(ratio*float64(rect.Dx()))
		first.Max.X = cut
		second.Min.X = min(cut+spacing, rect.Max.X)
	case Vertical:
		cut := rect.Min.Y + int(ratio*float64(rect.Dy()))
		first.Max.Y = cut
		second.Min.Y = min(cut+spacing, rect.Max.Y)
	}
	return first, second
}
