package chart

import (
	"fmt"
	"time"

	"seischart/pkg/geom"
	"seischart/pkg/scale"
	"seischart/pkg/series"
	"seischart/render"

	"github.com/ebitenui/ebitenui/event"
	log "github.com/sirupsen/logrus"
)

type OffsetChangedEventArgs struct {
	Offset int64
}

type IntervalChangedEventArgs struct {
	Interval int
}

type DurationChangedEventArgs struct {
	Duration int
}

type TrackSelectedEventArgs struct {
	Index   int
	Segment series.Segment
}

type HelicorderOptions struct {
	Interval   int // minutes
	Duration   int // hours
	OffsetDate int64
	UseUTC     bool
	// Selection is the selection window size in minutes.
	Selection int
	Render    RenderOptions
	Theme     Theme
	Margins   Margins
	Renderer  Renderer
	// Now defaults to time.Now.
	Now func() time.Time
}

func DefaultHelicorderOptions() HelicorderOptions {
	return HelicorderOptions{
		Interval:  30,
		Duration:  12,
		Selection: 5,
		Render: RenderOptions{
			Scaling: render.ScalingGlobal,
			Quiet:   render.QuietRange{Enabled: true, MinScale: 0.6, ClipScale: 2},
		},
		Theme:   DarkTheme(),
		Margins: DefaultMargins(),
	}
}

// Helicorder shows a long continuous record of one channel as stacked
// rows of Interval minutes, most recent at the bottom.
type Helicorder struct {
	base
	manager   *TrackManager
	selection *SelectionWindow
	now       func() time.Time

	OffsetChanged    *event.Event
	IntervalChanged  *event.Event
	DurationChanged  *event.Event
	TrackSelected    *event.Event
	TrackDeselected  *event.Event
	SelectionChanged *event.Event
}

func NewHelicorder(opts HelicorderOptions) *Helicorder {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.OffsetDate == 0 {
		opts.OffsetDate = opts.Now().UnixMilli()
	}
	if opts.Margins == (Margins{}) {
		opts.Margins = DefaultMargins()
	}
	// The quietest track sets the global scale.
	opts.Render.Policy = render.PolicyMinRange

	h := &Helicorder{
		now:             opts.Now,
		OffsetChanged:   &event.Event{},
		IntervalChanged: &event.Event{},
		DurationChanged: &event.Event{},
		TrackSelected:   &event.Event{},
		TrackDeselected: &event.Event{},
	}
	h.base = newBase(h, opts.Theme, opts.Margins, opts.Render, opts.Renderer, log.WithField("chart", "helicorder"))
	h.scaleOpts = scale.DefaultOptions()
	h.scaleOpts.UseUTC = opts.UseUTC
	h.manager = NewTrackManager(TrackManagerOptions{
		Interval:   opts.Interval,
		Duration:   opts.Duration,
		OffsetDate: opts.OffsetDate,
		Direction:  BottomUp,
		ScaleOpts:  h.scaleOpts,
	})
	h.selection = NewSelectionWindow(h.manager, opts.Selection)
	h.SelectionChanged = h.selection.Changed
	return h
}

func (h *Helicorder) layoutTracks(grid geom.Rect) { h.manager.SetGrid(grid) }
func (h *Helicorder) tracks() []*Track            { return h.manager.Tracks() }
func (h *Helicorder) trackExtent(t *Track) (float64, float64) {
	return float64(t.Segment.Start), float64(t.Segment.End)
}

func (h *Helicorder) Manager() *TrackManager       { return h.manager }
func (h *Helicorder) Selection() *SelectionWindow  { return h.selection }
func (h *Helicorder) Interval() int                { return h.manager.opts.Interval }
func (h *Helicorder) Duration() int                { return h.manager.opts.Duration }
func (h *Helicorder) OffsetDate() int64            { return h.manager.opts.OffsetDate }
func (h *Helicorder) Tracks() []*Track             { return h.manager.Tracks() }
func (h *Helicorder) Segments() []series.Segment   { return h.manager.Segments() }
func (h *Helicorder) UseUTC() bool                 { return h.scaleOpts.UseUTC }
func (h *Helicorder) Extent() series.Segment       { return h.manager.Extent() }
func (h *Helicorder) SetSelectionSize(minutes int) { h.selection.SetSize(minutes) }

// SetInterval changes the minutes per track. Cached series are keyed by
// segment, so they are dropped.
func (h *Helicorder) SetInterval(minutes int) {
	if minutes <= 0 || minutes == h.Interval() {
		return
	}
	h.manager.SetInterval(minutes)
	h.store.Clear()
	h.IntervalChanged.Fire(&IntervalChangedEventArgs{Interval: minutes})
	h.Invalidate()
}

func (h *Helicorder) SetDuration(hours int) {
	if hours <= 0 || hours == h.Duration() {
		return
	}
	h.manager.SetDuration(hours)
	h.DurationChanged.Fire(&DurationChangedEventArgs{Duration: hours})
	h.Invalidate()
}

func (h *Helicorder) SetOffsetDate(t int64) {
	if t == h.OffsetDate() {
		return
	}
	h.manager.SetOffsetDate(t)
	h.OffsetChanged.Fire(&OffsetChangedEventArgs{Offset: t})
	h.Invalidate()
}

// ShiftViewUp moves the view one track into the past.
func (h *Helicorder) ShiftViewUp() {
	h.SetOffsetDate(h.OffsetDate() - h.manager.SegmentDuration())
}

// ShiftViewDown moves the view one track towards now, never past it.
func (h *Helicorder) ShiftViewDown() {
	h.SetOffsetDate(min(h.OffsetDate()+h.manager.SegmentDuration(), h.now().UnixMilli()))
}

func (h *Helicorder) ShiftViewToNow() {
	h.SetOffsetDate(h.now().UnixMilli())
}

func (h *Helicorder) SetUseUTC(utc bool) {
	if utc == h.scaleOpts.UseUTC {
		return
	}
	h.scaleOpts = h.scaleOpts.Apply(scale.OptionsPatch{UseUTC: &utc})
	h.manager.SetScaleOptions(h.scaleOpts)
}

// SetTrackData stores the series of seg. Data for segments that are not
// visible is kept for when the view returns to them.
func (h *Helicorder) SetTrackData(seg series.Segment, d *series.Data) {
	if !seg.Valid() || d == nil {
		return
	}
	h.store.SetKeyed(seg, d)
	if h.manager.TrackBySegment(seg) != nil {
		h.Invalidate()
	}
}

// TrackData returns the stored series of seg.
func (h *Helicorder) TrackData(seg series.Segment) (*series.Data, bool) {
	return h.store.GetKeyed(seg)
}

// PointerDown routes a press to the track labels, the markers or the
// selection window, in that order.
func (h *Helicorder) PointerDown(x, y float64) bool {
	if h.disposed {
		return false
	}
	if x >= h.rect.X && x < h.grid.X {
		return h.toggleTrack(h.manager.TrackIndexByPosition(y))
	}
	t, ok := h.manager.TimeAt(x, y)
	if !ok {
		return false
	}
	if m, hit := h.markers.Hit(t); hit {
		h.markers.Toggle(m.ID)
		return true
	}
	return h.selection.PointerDown(x, y)
}

func (h *Helicorder) PointerMove(x, y float64) {
	h.Hover(x, y)
	h.selection.PointerMove(x, y)
}

func (h *Helicorder) PointerUp(x, y float64) bool {
	return h.selection.PointerUp(x, y)
}

func (h *Helicorder) toggleTrack(i int) bool {
	t := h.manager.Track(i)
	if t == nil {
		return false
	}
	t.Selected = !t.Selected
	args := &TrackSelectedEventArgs{Index: i, Segment: t.Segment}
	if t.Selected {
		h.TrackSelected.Fire(args)
	} else {
		h.TrackDeselected.Fire(args)
	}
	return true
}

// Hover updates the axis pointer and returns the marker under (x, y).
func (h *Helicorder) Hover(x, y float64) (Marker, bool) {
	t, ok := h.manager.TimeAt(x, y)
	if !ok {
		h.pointer = AxisPointer{}
		return Marker{}, false
	}
	i := h.manager.TrackIndexByPosition(y)
	h.pointer = AxisPointer{Visible: true, X: x, Y: y, Time: t, Track: i}
	if tr := h.manager.Track(i); tr != nil {
		h.pointer.Value, h.pointer.HasValue = tr.ValueAt(y)
	}
	return h.markers.Hit(t)
}

// Leave hides the axis pointer.
func (h *Helicorder) Leave() {
	h.pointer = AxisPointer{}
}

func (h *Helicorder) Draw(d Drawer) {
	if h.disposed || h.rect.Empty() {
		return
	}
	th := h.theme
	d.FillRect(h.rect, th.Background)
	for _, t := range h.manager.Tracks() {
		r := t.Rect()
		if t.Selected {
			d.FillRect(geom.NewRect(h.rect.X, r.Y, h.grid.Right()-h.rect.X, r.Height), th.TrackHighlight)
		}
		mid := r.Y + r.Height/2
		d.Line(r.X, mid, r.Right(), mid, 1, th.Grid)
		if t.Label != "" {
			c := th.Text
			if t.DateLabel {
				c = th.DateLabel
			}
			d.Text(t.Label, h.grid.X-6, mid, AlignRight, c)
		}
	}
	d.StrokeRect(h.grid, 1, th.Grid)
	h.drawBitmap(d)
	h.drawMarkers(d)
	h.selection.Draw(d, th)
	x := h.manager.XAxis()
	for _, tk := range x.Ticks() {
		d.Line(tk.Pixel, h.grid.Bottom(), tk.Pixel, h.grid.Bottom()+4, 1, th.Grid)
		d.Text(tk.Label, tk.Pixel, h.grid.Bottom()+h.margins.Bottom/2+2, AlignCenter, th.Text)
	}
	if p := h.pointer; p.Visible {
		h.drawPointer(d, h.manager.TrackRect(p.Track), h.pointerLabel())
	}
}

func (h *Helicorder) pointerLabel() string {
	s := h.formatTime(h.pointer.Time)
	if h.pointer.HasValue {
		s += fmt.Sprintf("  %.1f", h.pointer.Value)
	}
	return s
}

func (h *Helicorder) drawMarkers(d Drawer) {
	ext := h.manager.Extent()
	selected, _ := h.markers.Selected()
	for _, m := range h.markers.Overlapping(ext.Start, ext.End) {
		c := h.theme.Marker
		if m.Color.A != 0 {
			c = m.Color
		}
		if m.ID == selected.ID {
			c = h.theme.MarkerSelected
		}
		rects := rangeRects(h.manager, Range{Start: m.Start, End: m.End})
		for _, r := range rects {
			d.FillRect(r, c)
		}
		if m.Pill && len(rects) > 0 && m.Label != "" {
			drawPill(d, rects[len(rects)-1], m.Label, h.theme)
		}
	}
}
