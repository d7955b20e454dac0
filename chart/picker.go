package chart

import (
	"math"
	"time"

	"seischart/pkg/axis"
	"seischart/pkg/geom"

	"github.com/ebitenui/ebitenui/event"
)

// Range is a time window in epoch milliseconds. The zero Range means
// "nothing selected".
type Range struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

func (r Range) IsZero() bool { return r.Start == 0 && r.End == 0 }
func (r Range) Valid() bool  { return r.Start != r.End }

// Normalized returns r with Start <= End.
func (r Range) Normalized() Range {
	if r.End < r.Start {
		return Range{Start: r.End, End: r.Start}
	}
	return r
}

func (r Range) Duration() int64 {
	n := r.Normalized()
	return n.End - n.Start
}

func (r Range) Shift(d int64) Range {
	return Range{Start: r.Start + d, End: r.End + d}
}

const (
	// PickThreshold is the shortest pick that is reported. Shorter drags
	// count as clicks.
	PickThreshold     = int64(time.Second / time.Millisecond)
	pickerHandleWidth = 6.0
)

type PickerMode int

const (
	PickIdle PickerMode = iota
	PickSelect
	PickMove
	PickResizeLeft
	PickResizeRight
)

type PickChangedEventArgs struct {
	Range Range
}

// Picker turns horizontal drags over the grid into a time range.
type Picker struct {
	axis   *axis.Axis
	bounds geom.Rect
	rng    Range
	before Range
	origin int64
	mode   PickerMode

	Changed *event.Event
}

func NewPicker(x *axis.Axis) *Picker {
	return &Picker{axis: x, Changed: &event.Event{}}
}

func (p *Picker) Range() Range     { return p.rng }
func (p *Picker) Mode() PickerMode { return p.mode }
func (p *Picker) Active() bool     { return p.mode != PickIdle }

func (p *Picker) SetBounds(r geom.Rect) {
	p.bounds = r
}

// Set replaces the range without a gesture and reports it.
func (p *Picker) Set(r Range) {
	r = r.Normalized()
	if r == p.rng {
		return
	}
	p.rng = r
	p.Changed.Fire(&PickChangedEventArgs{Range: r})
}

func (p *Picker) Clear() {
	p.mode = PickIdle
	p.Set(Range{})
}

func (p *Picker) timeAt(x float64) int64 {
	x = math.Max(p.bounds.X, math.Min(p.bounds.Right(), x))
	return int64(math.Round(p.axis.ValueForPixel(x)))
}

// edges returns the screen x of the left and right end of the range.
func (p *Picker) edges() (float64, float64) {
	r := p.rng.Normalized()
	a, b := p.axis.PixelForValue(float64(r.Start)), p.axis.PixelForValue(float64(r.End))
	return math.Min(a, b), math.Max(a, b)
}

// PointerDown starts a gesture. Points outside the bounds are ignored.
func (p *Picker) PointerDown(x, y float64) bool {
	if !p.bounds.Contains(x, y) {
		return false
	}
	t := p.timeAt(x)
	p.before = p.rng
	if !p.rng.Valid() {
		p.mode = PickSelect
		p.rng = Range{Start: t, End: t}
		return true
	}
	left, right := p.edges()
	switch {
	case math.Abs(x-left) <= pickerHandleWidth/2:
		p.mode = PickResizeLeft
	case math.Abs(x-right) <= pickerHandleWidth/2:
		p.mode = PickResizeRight
	case x > left && x < right:
		p.mode = PickMove
		p.origin = t
	default:
		p.mode = PickSelect
		p.rng = Range{Start: t, End: t}
	}
	return true
}

func (p *Picker) PointerMove(x, y float64) {
	if p.mode == PickIdle {
		return
	}
	t := p.timeAt(x)
	before := p.before.Normalized()
	switch p.mode {
	case PickSelect:
		p.rng.End = t
	case PickMove:
		p.rng = before.Shift(t - p.origin)
	case PickResizeLeft:
		p.rng = Range{Start: t, End: before.End}.Normalized()
	case PickResizeRight:
		p.rng = Range{Start: before.Start, End: t}.Normalized()
	}
}

// PointerUp ends the gesture. The change is reported only when the
// resulting range is longer than PickThreshold; shorter ranges restore
// the previous one.
func (p *Picker) PointerUp(x, y float64) bool {
	if p.mode == PickIdle {
		return false
	}
	p.PointerMove(x, y)
	p.mode = PickIdle
	r := p.rng.Normalized()
	if r.Duration() <= PickThreshold {
		p.rng = p.before
		return false
	}
	p.rng = r
	if r == p.before.Normalized() {
		return false
	}
	p.Changed.Fire(&PickChangedEventArgs{Range: r})
	return true
}

// Draw paints the picked band and its handles over the grid.
func (p *Picker) Draw(d Drawer, th Theme) {
	if !p.rng.Valid() || p.bounds.Empty() {
		return
	}
	left, right := p.edges()
	left = math.Max(left, p.bounds.X)
	right = math.Min(right, p.bounds.Right())
	if right <= left {
		return
	}
	d.FillRect(geom.NewRect(left, p.bounds.Y, right-left, p.bounds.Height), th.Picker)
	for _, x := range []float64{left, right} {
		d.Line(x, p.bounds.Y, x, p.bounds.Bottom(), 2, th.PickerHandle)
	}
}
