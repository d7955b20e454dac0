// Package axis places a scale along one edge of a rectangle and converts
// between data values and screen pixels.
package axis

import (
	"fmt"

	"seischart/pkg/geom"
	"seischart/pkg/scale"

	"github.com/ebitenui/ebitenui/event"
)

type Position int

const (
	Top Position = iota
	Right
	Bottom
	Left
)

func (p Position) String() string {
	switch p {
	case Top:
		return "top"
	case Right:
		return "right"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	default:
		return fmt.Sprintf("position(%d)", int(p))
	}
}

type Options struct {
	Position     Position
	Reverse      bool
	ScaleType    scale.Type
	ScaleOptions scale.Options
	MaxTicks     int
	SplitNumber  int
}

// ExtentChangedEventArgs is passed to ExtentChanged handlers.
type ExtentChangedEventArgs struct {
	Axis     *Axis
	Min, Max float64
}

type Axis struct {
	opts  Options
	scale scale.Scale
	rect  geom.Rect

	ExtentChanged *event.Event
}

// New creates an axis. An unknown position or scale type is a
// programming error and panics.
func New(opts Options) *Axis {
	if opts.Position < Top || opts.Position > Left {
		panic(fmt.Sprintf("axis: invalid position %s", opts.Position))
	}
	if opts.ScaleType == "" {
		opts.ScaleType = scale.TypeLinear
	}
	return &Axis{
		opts:          opts,
		scale:         scale.MustNew(opts.ScaleType, opts.ScaleOptions),
		ExtentChanged: &event.Event{},
	}
}

func (a *Axis) Position() Position { return a.opts.Position }
func (a *Axis) Scale() scale.Scale { return a.scale }
func (a *Axis) Rect() geom.Rect    { return a.rect }
func (a *Axis) Reversed() bool     { return a.opts.Reverse }

func (a *Axis) SetRect(r geom.Rect) {
	a.rect = r
}

func (a *Axis) SetReverse(reverse bool) {
	a.opts.Reverse = reverse
}

func (a *Axis) SetScaleOptions(o scale.Options) {
	a.opts.ScaleOptions = o
	a.scale.SetOptions(o)
}

func (a *Axis) IsHorizontal() bool {
	return a.opts.Position == Top || a.opts.Position == Bottom
}

func (a *Axis) Extent() (float64, float64) {
	return a.scale.Extent()
}

// SetExtent updates the scale extent and fires ExtentChanged when it
// actually changed.
func (a *Axis) SetExtent(min, max float64) {
	oldMin, oldMax := a.scale.Extent()
	a.scale.SetExtent(min, max)
	newMin, newMax := a.scale.Extent()
	if newMin != oldMin || newMax != oldMax {
		a.ExtentChanged.Fire(&ExtentChangedEventArgs{Axis: a, Min: newMin, Max: newMax})
	}
}

// PixelForValue maps v to a screen coordinate. Screen Y grows downward,
// so vertical axes place larger values higher up unless reversed.
func (a *Axis) PixelForValue(v float64) float64 {
	p := a.scale.ValueToPercentage(v)
	if a.IsHorizontal() {
		if a.opts.Reverse {
			p = 1 - p
		}
		return a.rect.X + a.rect.Width*p
	}
	if !a.opts.Reverse {
		p = 1 - p
	}
	return a.rect.Y + a.rect.Height*p
}

// ValueForPixel is the inverse of PixelForValue.
func (a *Axis) ValueForPixel(px float64) float64 {
	var p float64
	if a.IsHorizontal() {
		p = (px - a.rect.X) / a.rect.Width
		if a.opts.Reverse {
			p = 1 - p
		}
	} else {
		p = (px - a.rect.Y) / a.rect.Height
		if !a.opts.Reverse {
			p = 1 - p
		}
	}
	return a.scale.PercentageToValue(p)
}

// TickPixel pairs a tick with its screen coordinate along the axis.
type TickPixel struct {
	scale.Tick
	Pixel float64
}

func (a *Axis) tickOptions() scale.TickOptions {
	width := a.rect.Width
	if !a.IsHorizontal() {
		width = a.rect.Height
	}
	return scale.TickOptions{
		MaxTicks:    a.opts.MaxTicks,
		Reverse:     a.opts.Reverse,
		Width:       width,
		SplitNumber: a.opts.SplitNumber,
	}
}

func (a *Axis) Ticks() []TickPixel {
	return a.withPixels(a.scale.Ticks(a.tickOptions()))
}

func (a *Axis) MinorTicks() []TickPixel {
	return a.withPixels(a.scale.MinorTicks(a.tickOptions()))
}

func (a *Axis) withPixels(ticks []scale.Tick) []TickPixel {
	min, max := a.scale.Extent()
	out := make([]TickPixel, 0, len(ticks))
	for _, t := range ticks {
		if t.Value < min || t.Value > max {
			continue
		}
		out = append(out, TickPixel{Tick: t, Pixel: a.PixelForValue(t.Value)})
	}
	return out
}

// ScrollLeft moves the visible extent towards smaller values by the
// fraction by of its width.
func (a *Axis) ScrollLeft(by float64) {
	min, max := a.scale.Extent()
	d := (max - min) * by
	a.SetExtent(min-d, max-d)
}

func (a *Axis) ScrollRight(by float64) {
	min, max := a.scale.Extent()
	d := (max - min) * by
	a.SetExtent(min+d, max+d)
}

// ScrollTo moves the extent so it starts at min, keeping its width.
func (a *Axis) ScrollTo(min float64) {
	oldMin, oldMax := a.scale.Extent()
	a.SetExtent(min, min+(oldMax-oldMin))
}

// ZoomIn narrows the extent around center. factor is the fraction of the
// distance to each bound that is removed.
func (a *Axis) ZoomIn(center, factor float64) {
	min, max := a.scale.Extent()
	a.SetExtent(center-(center-min)*(1-factor), center+(max-center)*(1-factor))
}

func (a *Axis) ZoomOut(center, factor float64) {
	min, max := a.scale.Extent()
	a.SetExtent(center-(center-min)*(1+factor), center+(max-center)*(1+factor))
}
