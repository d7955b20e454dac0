// Package chart holds the helicorder and seismogram models: track layout,
// pointer gestures and the bookkeeping around background rendering. It
// draws through the Drawer interface and has no UI toolkit dependency.
package chart

import (
	"image"
	"math"
	"time"

	"seischart/pkg/geom"
	"seischart/pkg/scale"
	"seischart/pkg/series"
	"seischart/render"

	"github.com/ebitenui/ebitenui/event"
	log "github.com/sirupsen/logrus"
)

type Margins struct {
	Top, Right, Bottom, Left float64
}

func DefaultMargins() Margins {
	return Margins{Top: 8, Right: 64, Bottom: 28, Left: 96}
}

// RenderOptions control waveform normalization and stroking.
type RenderOptions struct {
	Scaling    render.Scaling
	Policy     render.GlobalPolicy
	Quiet      render.QuietRange
	PixelRatio float64
	LineWidth  float64
}

const (
	amplitudeStep = 1.25
	minAmplitude  = 0.05
	maxAmplitude  = 200
)

type AmplitudeChangedEventArgs struct {
	Amplitude float64
}

type LoadingEventArgs struct {
	Loading bool
}

// AxisPointer is the crosshair readout under the mouse.
type AxisPointer struct {
	Visible  bool
	X, Y     float64
	Time     int64
	Track    int
	Value    float64
	HasValue bool
}

// layout is implemented by the concrete charts.
type layout interface {
	layoutTracks(grid geom.Rect)
	tracks() []*Track
	// trackExtent is the time extent drawn on t.
	trackExtent(t *Track) (start, end float64)
}

// base is the state shared by Helicorder and Seismogram.
type base struct {
	host       layout
	theme      Theme
	margins    Margins
	rect       geom.Rect
	grid       geom.Rect
	renderOpts RenderOptions
	scaleOpts  scale.Options
	store      *series.DataStore[*series.Data]
	markers    *MarkerStore
	renderer   Renderer
	amplitude  float64

	requestID  uint64
	applied    uint64
	dirty      bool
	loading    bool
	bitmap     *image.NRGBA
	pointer    AxisPointer
	disposed   bool
	log        *log.Entry

	AmplitudeChanged *event.Event
	Loading          *event.Event
}

func newBase(host layout, th Theme, m Margins, ro RenderOptions, r Renderer, lg *log.Entry) base {
	if ro.PixelRatio <= 0 {
		ro.PixelRatio = 1
	}
	if ro.LineWidth <= 0 {
		ro.LineWidth = 1
	}
	if ro.Scaling == "" {
		ro.Scaling = render.ScalingGlobal
	}
	if r == nil {
		r = newSyncRenderer()
	}
	return base{
		host:             host,
		theme:            th,
		margins:          m,
		renderOpts:       ro,
		store:            series.NewDataStore[*series.Data](),
		markers:          NewMarkerStore(),
		renderer:         r,
		amplitude:        1,
		log:              lg,
		AmplitudeChanged: &event.Event{},
		Loading:          &event.Event{},
	}
}

func (b *base) Theme() Theme         { return b.theme }
func (b *base) Rect() geom.Rect      { return b.rect }
func (b *base) Grid() geom.Rect      { return b.grid }
func (b *base) Amplitude() float64   { return b.amplitude }
func (b *base) IsLoading() bool      { return b.loading }
func (b *base) Bitmap() *image.NRGBA { return b.bitmap }
func (b *base) Pointer() AxisPointer { return b.pointer }
func (b *base) Markers() *MarkerStore {
	return b.markers
}

func (b *base) SetTheme(th Theme) {
	b.theme = th
	b.Invalidate()
}

// SetRect assigns the chart's screen area and lays out the tracks inside
// the margins.
func (b *base) SetRect(r geom.Rect) {
	if r == b.rect {
		return
	}
	b.rect = r
	b.grid = geom.NewRect(
		r.X+b.margins.Left,
		r.Y+b.margins.Top,
		math.Max(0, r.Width-b.margins.Left-b.margins.Right),
		math.Max(0, r.Height-b.margins.Top-b.margins.Bottom),
	)
	b.host.layoutTracks(b.grid)
	b.Invalidate()
}

// Invalidate schedules a render on the next Update.
func (b *base) Invalidate() {
	b.dirty = true
}

func (b *base) SetAmplitude(a float64) {
	a = math.Max(minAmplitude, math.Min(maxAmplitude, a))
	if a == b.amplitude {
		return
	}
	b.amplitude = a
	for _, t := range b.host.tracks() {
		t.setAmplitude(a)
	}
	b.AmplitudeChanged.Fire(&AmplitudeChangedEventArgs{Amplitude: a})
	b.Invalidate()
}

func (b *base) IncreaseAmplitude() { b.SetAmplitude(b.amplitude * amplitudeStep) }
func (b *base) DecreaseAmplitude() { b.SetAmplitude(b.amplitude / amplitudeStep) }
func (b *base) ResetAmplitude()    { b.SetAmplitude(1) }

// SetRenderOptions replaces the render options. The global policy is
// fixed by the chart type and is kept.
func (b *base) SetRenderOptions(o RenderOptions) {
	if o.PixelRatio <= 0 {
		o.PixelRatio = b.renderOpts.PixelRatio
	}
	if o.LineWidth <= 0 {
		o.LineWidth = b.renderOpts.LineWidth
	}
	if o.Scaling == "" {
		o.Scaling = b.renderOpts.Scaling
	}
	o.Policy = b.renderOpts.Policy
	b.renderOpts = o
	b.Invalidate()
}

func (b *base) AddEventMarker(m Marker) error {
	if err := b.markers.Add(m); err != nil {
		return err
	}
	return nil
}

func (b *base) RemoveEventMarker(id string) bool {
	return b.markers.Remove(id)
}

// ClearData drops every cached series.
func (b *base) ClearData() {
	b.store.Clear()
	b.Invalidate()
}

func (b *base) Disposed() bool { return b.disposed }

// Dispose stops the render worker. Results still in flight are ignored.
func (b *base) Dispose() {
	if b.disposed {
		return
	}
	b.disposed = true
	b.renderer.Close()
	for _, t := range b.host.tracks() {
		t.dispose()
	}
	b.markers.Clear()
	b.store.Clear()
	b.bitmap = nil
}

// Update submits a render when the chart changed and applies finished
// results. Call it once per frame from the UI goroutine.
func (b *base) Update() {
	if b.disposed {
		return
	}
	if b.dirty && !b.grid.Empty() {
		b.dirty = false
		b.submit()
	}
	for {
		select {
		case res := <-b.renderer.Results():
			b.apply(res)
		default:
			return
		}
	}
}

func (b *base) submit() {
	b.requestID++
	ctx := b.context()
	b.setLoading(true)
	b.renderer.Submit(ctx)
}

func (b *base) context() render.Context {
	ctx := render.Context{
		Version:    render.Version,
		RequestID:  b.requestID,
		Grid:       b.grid,
		PixelRatio: b.renderOpts.PixelRatio,
		Scaling:    b.renderOpts.Scaling,
		Policy:     b.renderOpts.Policy,
		Quiet:      b.renderOpts.Quiet,
		Amplitude:  b.amplitude,
		Color:      nrgba(b.theme.Signal),
		LineWidth:  b.renderOpts.LineWidth,
	}
	for _, t := range b.host.tracks() {
		data, _ := b.store.Get(t.Key())
		if data == nil {
			data = series.Empty()
		}
		t.setAmplitude(b.amplitude)
		start, end := b.host.trackExtent(t)
		ymin, ymax := t.left.Extent()
		ctx.Tracks = append(ctx.Tracks, render.Track{
			Key:    t.Key(),
			Rect:   t.Rect().Sub(b.grid),
			X:      scale.Spec{Type: scale.TypeTime, Min: start, Max: end},
			Y:      scale.Spec{Type: scale.TypeLinear, Min: ymin, Max: ymax},
			Series: data,
		})
	}
	return ctx
}

// apply installs res unless a newer result is already shown. Results of
// superseded requests still land so the bitmap keeps up during continuous
// input; loading ends only with the latest request. A failed render keeps
// the previous bitmap.
func (b *base) apply(res render.Result) {
	if res.RequestID <= b.applied {
		b.log.WithFields(log.Fields{
			"request": res.RequestID,
			"applied": b.applied,
		}).Debug("discarding stale render result")
		return
	}
	b.applied = res.RequestID
	if res.RequestID == b.requestID {
		b.setLoading(false)
	}
	if res.Failed() {
		b.log.WithField("request", res.RequestID).Warnf("render failed: %s", res.Err)
		return
	}
	b.bitmap = res.Bitmap
	info := make(map[string]render.TrackInfo, len(res.Tracks))
	for _, ti := range res.Tracks {
		info[ti.Key] = ti
	}
	for _, t := range b.host.tracks() {
		ti, ok := info[t.Key()]
		if !ok {
			continue
		}
		t.setSignal(Signal{
			Min:        ti.Min,
			Max:        ti.Max,
			Center:     ti.Center,
			NormFactor: ti.NormFactor,
			Rendered:   true,
		})
	}
}

func (b *base) setLoading(v bool) {
	if v == b.loading {
		return
	}
	b.loading = v
	b.Loading.Fire(&LoadingEventArgs{Loading: v})
}

func (b *base) location() *time.Location {
	if b.scaleOpts.UseUTC {
		return time.UTC
	}
	if b.scaleOpts.Location != nil {
		return b.scaleOpts.Location
	}
	return time.Local
}

func (b *base) formatTime(t int64) string {
	return scale.FormatMillis(float64(t), "{yyyy}-{MM}-{dd} {HH}:{mm}:{ss}", b.scaleOpts.Locale, b.location())
}

// drawBitmap paints the last rendered waveform image over the grid.
func (b *base) drawBitmap(d Drawer) {
	if b.bitmap == nil {
		return
	}
	d.Image(b.bitmap, b.grid)
}

// drawPointer paints the crosshair inside area and its readout.
func (b *base) drawPointer(d Drawer, area geom.Rect, label string) {
	p := b.pointer
	if !p.Visible {
		return
	}
	d.Line(p.X, area.Y, p.X, area.Bottom(), 1, b.theme.Crosshair)
	d.Line(b.grid.X, p.Y, b.grid.Right(), p.Y, 1, b.theme.Crosshair)
	d.Text(label, b.grid.Right(), b.grid.Y-b.margins.Top/2, AlignRight, b.theme.Text)
}
