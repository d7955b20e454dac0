package chart

import (
	"fmt"
	"math"
	"time"

	"seischart/pkg/axis"
	"seischart/pkg/geom"
	"seischart/pkg/scale"
	"seischart/pkg/series"
	"seischart/render"

	"github.com/ebitenui/ebitenui/event"
	log "github.com/sirupsen/logrus"
)

const (
	defaultWindow = 5 * time.Minute
	scrollStep    = 0.1
	zoomStep      = 0.2
)

type SeismogramOptions struct {
	Channels []string
	// Window is the initial width of the time extent, ending at End.
	Window time.Duration
	// End defaults to now.
	End     int64
	UseUTC  bool
	Gap     float64
	Render  RenderOptions
	Theme   Theme
	Margins Margins
	// Renderer defaults to a synchronous one.
	Renderer Renderer
	Now      func() time.Time
}

func DefaultSeismogramOptions() SeismogramOptions {
	return SeismogramOptions{
		Window:  defaultWindow,
		Gap:     4,
		Render:  RenderOptions{Scaling: render.ScalingGlobal},
		Theme:   DarkTheme(),
		Margins: DefaultMargins(),
	}
}

// Seismogram shows several channels over a shared, scrollable time axis.
type Seismogram struct {
	base
	channels *ChannelManager
	xAxis    *axis.Axis
	picker   *Picker
	now      func() time.Time

	ExtentChanged *event.Event
	PickChanged   *event.Event
}

func NewSeismogram(opts SeismogramOptions) *Seismogram {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Window <= 0 {
		opts.Window = defaultWindow
	}
	if opts.End == 0 {
		opts.End = opts.Now().UnixMilli()
	}
	if opts.Margins == (Margins{}) {
		opts.Margins = DefaultMargins()
	}
	// The loudest channel sets the global scale.
	opts.Render.Policy = render.PolicyMaxRange

	s := &Seismogram{now: opts.Now}
	s.base = newBase(s, opts.Theme, opts.Margins, opts.Render, opts.Renderer, log.WithField("chart", "seismogram"))
	s.scaleOpts = scale.DefaultOptions()
	s.scaleOpts.UseUTC = opts.UseUTC
	s.channels = NewChannelManager(opts.Channels, opts.Gap)
	s.xAxis = axis.New(axis.Options{
		Position:     axis.Bottom,
		ScaleType:    scale.TypeTime,
		ScaleOptions: s.scaleOpts,
		MaxTicks:     8,
	})
	s.xAxis.SetExtent(float64(opts.End-opts.Window.Milliseconds()), float64(opts.End))
	s.picker = NewPicker(s.xAxis)
	s.ExtentChanged = s.xAxis.ExtentChanged
	s.PickChanged = s.picker.Changed
	return s
}

func (s *Seismogram) layoutTracks(grid geom.Rect) {
	s.channels.SetGrid(grid)
	s.xAxis.SetRect(grid)
	s.picker.SetBounds(grid)
}

func (s *Seismogram) tracks() []*Track { return s.channels.Tracks() }
func (s *Seismogram) trackExtent(*Track) (float64, float64) {
	return s.xAxis.Extent()
}

func (s *Seismogram) XAxis() *axis.Axis  { return s.xAxis }
func (s *Seismogram) Picker() *Picker    { return s.picker }
func (s *Seismogram) Channels() []string { return s.channels.Channels() }
func (s *Seismogram) Tracks() []*Track   { return s.channels.Tracks() }
func (s *Seismogram) UseUTC() bool       { return s.scaleOpts.UseUTC }

// Extent returns the visible time range.
func (s *Seismogram) Extent() Range {
	min, max := s.xAxis.Extent()
	return Range{Start: int64(min), End: int64(max)}
}

// SetChannels replaces the channel list. Cached series belong to the old
// channels and are dropped.
func (s *Seismogram) SetChannels(channels []string) {
	if !s.channels.SetChannels(channels) {
		return
	}
	s.store.Clear()
	s.channels.SetGrid(s.grid)
	s.Invalidate()
}

func (s *Seismogram) SetChannelData(channel string, d *series.Data) {
	if d == nil {
		return
	}
	s.store.Set(channel, d)
	if s.channels.TrackByChannel(channel) != nil {
		s.Invalidate()
	}
}

func (s *Seismogram) ChannelData(channel string) (*series.Data, bool) {
	return s.store.Get(channel)
}

func (s *Seismogram) SetExtent(start, end int64) {
	if start >= end {
		return
	}
	s.xAxis.SetExtent(float64(start), float64(end))
	s.Invalidate()
}

func (s *Seismogram) ScrollLeft() {
	s.xAxis.ScrollLeft(scrollStep)
	s.Invalidate()
}

func (s *Seismogram) ScrollRight() {
	s.xAxis.ScrollRight(scrollStep)
	s.Invalidate()
}

// ScrollTo moves the extent so it starts at t.
func (s *Seismogram) ScrollTo(t int64) {
	s.xAxis.ScrollTo(float64(t))
	s.Invalidate()
}

// ZoomIn narrows the extent around its center.
func (s *Seismogram) ZoomIn() {
	s.ZoomAt(s.grid.X+s.grid.Width/2, zoomStep)
}

func (s *Seismogram) ZoomOut() {
	s.ZoomAt(s.grid.X+s.grid.Width/2, -zoomStep)
}

// ZoomAt zooms around the time under screen x. Positive factors zoom in.
func (s *Seismogram) ZoomAt(x, factor float64) {
	if factor == 0 {
		return
	}
	min, max := s.xAxis.Extent()
	center := (min + max) / 2
	if !s.grid.Empty() {
		center = s.xAxis.ValueForPixel(math.Max(s.grid.X, math.Min(s.grid.Right(), x)))
	}
	if factor > 0 {
		s.xAxis.ZoomIn(center, factor)
	} else {
		s.xAxis.ZoomOut(center, -factor)
	}
	s.Invalidate()
}

func (s *Seismogram) SetUseUTC(utc bool) {
	if utc == s.scaleOpts.UseUTC {
		return
	}
	s.scaleOpts = s.scaleOpts.Apply(scale.OptionsPatch{UseUTC: &utc})
	s.xAxis.SetScaleOptions(s.scaleOpts)
}

func (s *Seismogram) timeAt(x, y float64) (int64, bool) {
	if !s.grid.Contains(x, y) {
		return 0, false
	}
	return int64(math.Round(s.xAxis.ValueForPixel(x))), true
}

func (s *Seismogram) PointerDown(x, y float64) bool {
	if s.disposed {
		return false
	}
	return s.picker.PointerDown(x, y)
}

func (s *Seismogram) PointerMove(x, y float64) {
	s.Hover(x, y)
	s.picker.PointerMove(x, y)
}

// PointerUp ends a pick. A press that did not become a pick selects the
// marker under the pointer, if any.
func (s *Seismogram) PointerUp(x, y float64) bool {
	if !s.picker.Active() {
		return false
	}
	if s.picker.PointerUp(x, y) {
		return true
	}
	if t, ok := s.timeAt(x, y); ok {
		if m, hit := s.markers.Hit(t); hit {
			s.markers.Toggle(m.ID)
			return true
		}
	}
	return false
}

// Hover updates the axis pointer and returns the marker under (x, y).
func (s *Seismogram) Hover(x, y float64) (Marker, bool) {
	t, ok := s.timeAt(x, y)
	if !ok {
		s.pointer = AxisPointer{}
		return Marker{}, false
	}
	i := s.channels.TrackIndexByPosition(y)
	s.pointer = AxisPointer{Visible: true, X: x, Y: y, Time: t, Track: i}
	if tr := s.channels.Track(i); tr != nil {
		s.pointer.Value, s.pointer.HasValue = tr.ValueAt(y)
	}
	return s.markers.Hit(t)
}

func (s *Seismogram) Leave() {
	s.pointer = AxisPointer{}
}

func (s *Seismogram) Draw(d Drawer) {
	if s.disposed || s.rect.Empty() {
		return
	}
	th := s.theme
	d.FillRect(s.rect, th.Background)
	for _, tk := range s.xAxis.Ticks() {
		d.Line(tk.Pixel, s.grid.Y, tk.Pixel, s.grid.Bottom(), 1, th.Grid)
		d.Text(tk.Label, tk.Pixel, s.grid.Bottom()+s.margins.Bottom/2+2, AlignCenter, th.Text)
	}
	for _, t := range s.channels.Tracks() {
		r := t.Rect()
		d.StrokeRect(r, 1, th.Grid)
		d.Text(t.Label, s.grid.X-6, r.Y+r.Height/2, AlignRight, th.Text)
		if sig := t.Signal(); sig.Rendered {
			for _, tk := range t.RightAxis().Ticks() {
				d.Text(tk.Label, r.Right()+4, tk.Pixel, AlignLeft, th.Text)
			}
		}
	}
	s.drawBitmap(d)
	s.drawMarkers(d)
	s.picker.Draw(d, th)
	if s.pointer.Visible {
		s.drawPointer(d, s.grid, s.pointerLabel())
	}
}

func (s *Seismogram) pointerLabel() string {
	str := s.formatTime(s.pointer.Time)
	if s.pointer.HasValue {
		ch := s.channels.Track(s.pointer.Track).Channel
		str += fmt.Sprintf("  %s %.1f", ch, s.pointer.Value)
	}
	return str
}

func (s *Seismogram) drawMarkers(d Drawer) {
	ext := s.Extent()
	selected, _ := s.markers.Selected()
	for _, m := range s.markers.Overlapping(ext.Start, ext.End) {
		c := s.theme.Marker
		if m.Color.A != 0 {
			c = m.Color
		}
		if m.ID == selected.ID {
			c = s.theme.MarkerSelected
		}
		x0 := math.Max(s.grid.X, s.xAxis.PixelForValue(float64(m.Start)))
		x1 := math.Min(s.grid.Right(), s.xAxis.PixelForValue(float64(m.End)))
		if x1 <= x0 {
			continue
		}
		band := geom.NewRect(x0, s.grid.Y, x1-x0, s.grid.Height)
		d.FillRect(band, c)
		if m.Pill && m.Label != "" {
			drawPill(d, band, m.Label, s.theme)
		}
	}
}
