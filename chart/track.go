package chart

import (
	"seischart/pkg/axis"
	"seischart/pkg/geom"
	"seischart/pkg/scale"
	"seischart/pkg/series"
)

// Signal is what the last render reported about a track.
type Signal struct {
	Min, Max   float64
	Center     float64
	NormFactor float64
	Rendered   bool
}

// Track is one row of a chart, bound to a segment on helicorders or a
// channel on seismograms.
type Track struct {
	Index   int
	Segment series.Segment
	Channel string
	Label   string
	// DateLabel is set when the label carries the full date.
	DateLabel bool
	Selected  bool

	rect     geom.Rect
	left     *axis.Axis
	right    *axis.Axis
	signal   Signal
	disposed bool
}

func newTrack(index int) *Track {
	t := &Track{
		Index: index,
		left:  axis.New(axis.Options{Position: axis.Left, ScaleOptions: scale.DefaultOptions(), MaxTicks: 3}),
		right: axis.New(axis.Options{Position: axis.Right, ScaleOptions: scale.DefaultOptions(), MaxTicks: 3}),
	}
	t.left.SetExtent(-0.5, 0.5)
	return t
}

// Key is the DataStore key of the track's series.
func (t *Track) Key() string {
	if t.Channel != "" {
		return t.Channel
	}
	return t.Segment.Key()
}

func (t *Track) Rect() geom.Rect       { return t.rect }
func (t *Track) LeftAxis() *axis.Axis  { return t.left }
func (t *Track) RightAxis() *axis.Axis { return t.right }
func (t *Track) Signal() Signal        { return t.signal }
func (t *Track) Disposed() bool        { return t.disposed }

func (t *Track) setRect(r geom.Rect) {
	t.rect = r
	t.left.SetRect(r)
	t.right.SetRect(r)
}

// setAmplitude sets the normalized value extent shown by the track.
func (t *Track) setAmplitude(amp float64) {
	t.left.SetExtent(-0.5/amp, 0.5/amp)
	t.updateRightAxis()
}

func (t *Track) setSignal(s Signal) {
	t.signal = s
	t.updateRightAxis()
}

// updateRightAxis maps the normalized extent back to raw amplitude.
func (t *Track) updateRightAxis() {
	if !t.signal.Rendered {
		return
	}
	min, max := t.left.Extent()
	f := t.signal.NormFactor
	t.right.SetExtent(t.signal.Center+min*f, t.signal.Center+max*f)
}

// ValueAt converts a screen Y inside the track to a raw amplitude.
func (t *Track) ValueAt(y float64) (float64, bool) {
	if !t.signal.Rendered {
		return 0, false
	}
	n := t.left.ValueForPixel(y)
	return t.signal.Center + n*t.signal.NormFactor, true
}

func (t *Track) dispose() {
	t.disposed = true
	t.signal = Signal{}
	t.Selected = false
}
