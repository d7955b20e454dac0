package chart

import (
	"image"
	"image/color"

	"seischart/pkg/geom"
)

type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Drawer is the drawing surface a chart paints its frame on. Coordinates
// are screen pixels with Y growing downward.
type Drawer interface {
	Line(x0, y0, x1, y1, width float64, c color.Color)
	FillRect(r geom.Rect, c color.Color)
	StrokeRect(r geom.Rect, width float64, c color.Color)
	// Text draws s with its vertical center at y.
	Text(s string, x, y float64, align Align, c color.Color)
	// Image draws img scaled into r. Hosts may cache conversions of img by
	// pointer; charts never mutate an image after handing it over.
	Image(img image.Image, r geom.Rect)
}
