package chart

import (
	"image"
	"image/color"
	"math"
	"testing"
	"time"

	"seischart/pkg/geom"
	"seischart/pkg/series"
	"seischart/render"

	"github.com/anthdm/hollywood/actor"
	"github.com/ebitenui/ebitenui/event"
)

// anchor is aligned to the 30 minute grid.
var anchor = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC).UnixMilli()

const minute = int64(60_000)

type recorder struct {
	lines   int
	strokes int
	fills   []geom.Rect
	texts   []string
	images  int
}

func (r *recorder) Line(x0, y0, x1, y1, width float64, c color.Color)     { r.lines++ }
func (r *recorder) FillRect(rc geom.Rect, c color.Color)                  { r.fills = append(r.fills, rc) }
func (r *recorder) StrokeRect(rc geom.Rect, width float64, c color.Color) { r.strokes++ }
func (r *recorder) Image(img image.Image, rc geom.Rect)                   { r.images++ }
func (r *recorder) Text(s string, x, y float64, align Align, c color.Color) {
	r.texts = append(r.texts, s)
}

func (r *recorder) hasText(s string) bool {
	for _, t := range r.texts {
		if t == s {
			return true
		}
	}
	return false
}

// manualRenderer renders when told to, so tests control result order.
type manualRenderer struct {
	pending []render.Context
	q       resultQueue
	closed  bool
}

func newManualRenderer() *manualRenderer {
	return &manualRenderer{q: newResultQueue()}
}

func (m *manualRenderer) Submit(c render.Context)       { m.pending = append(m.pending, c) }
func (m *manualRenderer) Results() <-chan render.Result { return m.q.ch }
func (m *manualRenderer) Close()                        { m.closed = true }

func (m *manualRenderer) finish(i int) {
	res, _ := render.Render(m.pending[i])
	m.q.push(res)
}

func sine(start, end int64, n int, amp float64) *series.Data {
	index := make([]float64, n)
	values := make([]float64, n)
	step := float64(end-start) / float64(n)
	for i := range index {
		index[i] = float64(start) + float64(i)*step
		values[i] = amp * math.Sin(float64(i)/5)
	}
	return series.New(index, values)
}

func newTestHelicorder(r Renderer) *Helicorder {
	opts := DefaultHelicorderOptions()
	opts.Duration = 1
	opts.OffsetDate = anchor
	opts.UseUTC = true
	opts.Renderer = r
	opts.Now = func() time.Time { return time.UnixMilli(anchor) }
	h := NewHelicorder(opts)
	h.SetRect(geom.NewRect(0, 0, 400, 336))
	event.ExecuteDeferred()
	return h
}

func TestHelicorderLayout(t *testing.T) {
	h := newTestHelicorder(nil)
	m := h.margins
	if g := h.Grid(); g.X != m.Left || g.Y != m.Top || g.Width != 400-m.Left-m.Right || g.Height != 300 {
		t.Fatalf("unexpected grid %+v", g)
	}
	tracks := h.Tracks()
	if len(tracks) != 3 {
		t.Fatalf("expected 3 tracks, got %d", len(tracks))
	}
	// Track 0 is the most recent and sits at the bottom.
	if tracks[0].Rect().Y <= tracks[2].Rect().Y {
		t.Errorf("track 0 at y=%f should be below track 2 at y=%f", tracks[0].Rect().Y, tracks[2].Rect().Y)
	}
}

func TestHelicorderRenderAndStaleResults(t *testing.T) {
	mr := newManualRenderer()
	h := newTestHelicorder(mr)
	var loading []bool
	h.Loading.AddHandler(func(args any) {
		loading = append(loading, args.(*LoadingEventArgs).Loading)
	})

	seg := h.Segments()[0]
	h.SetTrackData(seg, sine(seg.Start, seg.End, 600, 3))
	h.Update()
	h.SetAmplitude(2)
	h.Update()
	event.ExecuteDeferred()
	if len(mr.pending) != 2 {
		t.Fatalf("expected 2 submitted renders, got %d", len(mr.pending))
	}
	if !h.IsLoading() {
		t.Fatal("chart should be loading while renders are in flight")
	}

	// The first request finishes after the second was issued. Its bitmap
	// is shown but the chart keeps loading.
	mr.finish(0)
	h.Update()
	first := h.Bitmap()
	if first == nil {
		t.Fatal("superseded result was not shown")
	}
	if !h.IsLoading() {
		t.Fatal("loading ended before the latest result arrived")
	}

	mr.finish(1)
	h.Update()
	event.ExecuteDeferred()
	if h.Bitmap() == nil || h.Bitmap() == first {
		t.Fatal("latest result was not applied")
	}
	if h.IsLoading() {
		t.Error("loading should end with the latest result")
	}
	if len(loading) != 2 || !loading[0] || loading[1] {
		t.Errorf("unexpected loading events %v", loading)
	}

	// Results arriving out of order never replace a newer bitmap.
	h.Invalidate()
	h.Update()
	h.Invalidate()
	h.Update()
	mr.finish(3)
	h.Update()
	latest := h.Bitmap()
	mr.finish(2)
	h.Update()
	if h.Bitmap() != latest {
		t.Error("an older result replaced a newer one")
	}
	if h.IsLoading() {
		t.Error("chart still loading after the latest result")
	}
	event.ExecuteDeferred()
	sig := h.Tracks()[0].Signal()
	if !sig.Rendered || sig.NormFactor <= 0 {
		t.Errorf("track 0 signal not set: %+v", sig)
	}
	if mr.pending[1].Amplitude != 2 || mr.pending[1].Policy != render.PolicyMinRange {
		t.Errorf("unexpected context %+v", mr.pending[1])
	}
}

func TestWorkerRenderKeepsUpWithScrolling(t *testing.T) {
	engine, err := actor.NewEngine(actor.NewEngineConfig())
	if err != nil {
		t.Fatal(err)
	}
	opts := DefaultSeismogramOptions()
	opts.Channels = []string{"HHZ"}
	opts.Window = time.Minute
	opts.End = anchor
	opts.Renderer = NewRenderer(engine, 20*time.Millisecond)
	s := NewSeismogram(opts)
	defer s.Dispose()
	s.SetRect(geom.NewRect(0, 0, 400, 200))
	s.SetChannelData("HHZ", sine(anchor-10*minute, anchor+10*minute, 2000, 1))

	// One scroll per frame keeps a newer request in flight at all times.
	const frames = 200
	scrolled := 0
	for ; scrolled < frames && s.Bitmap() == nil; scrolled++ {
		s.ScrollRight()
		s.Update()
		time.Sleep(5 * time.Millisecond)
	}
	if s.Bitmap() == nil {
		t.Fatalf("no bitmap after %d frames of scrolling", frames)
	}
	if !s.IsLoading() {
		t.Error("the latest request is still pending, the chart should be loading")
	}
	event.ExecuteDeferred()
}

func TestFailedRenderKeepsBitmap(t *testing.T) {
	mr := newManualRenderer()
	h := newTestHelicorder(mr)
	h.Update()
	mr.finish(0)
	h.Update()
	bmp := h.Bitmap()
	if bmp == nil {
		t.Fatal("expected a bitmap")
	}

	h.Invalidate()
	h.Update()
	mr.pending[1].Version = 99
	mr.finish(1)
	h.Update()
	event.ExecuteDeferred()
	if h.Bitmap() != bmp {
		t.Error("a failed render replaced the bitmap")
	}
	if h.IsLoading() {
		t.Error("a failed render should end loading")
	}
}

func TestDisposeStopsRendering(t *testing.T) {
	mr := newManualRenderer()
	h := newTestHelicorder(mr)
	h.Update()
	h.Dispose()
	if !mr.closed {
		t.Error("renderer was not closed")
	}
	mr.finish(0)
	h.Update()
	if h.Bitmap() != nil {
		t.Error("disposed chart applied a result")
	}
	for _, tr := range h.Tracks() {
		if !tr.Disposed() {
			t.Errorf("track %d not disposed", tr.Index)
		}
	}
	h.Dispose()
	event.ExecuteDeferred()
}

func TestAmplitude(t *testing.T) {
	h := newTestHelicorder(nil)
	var got []float64
	h.AmplitudeChanged.AddHandler(func(args any) {
		got = append(got, args.(*AmplitudeChangedEventArgs).Amplitude)
	})
	h.IncreaseAmplitude()
	h.DecreaseAmplitude()
	h.DecreaseAmplitude()
	h.ResetAmplitude()
	h.ResetAmplitude()
	event.ExecuteDeferred()
	want := []float64{1.25, 1, 0.8, 1}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("event %d: got %f, want %f", i, got[i], want[i])
		}
	}
	h.SetAmplitude(1e9)
	if h.Amplitude() != maxAmplitude {
		t.Errorf("amplitude not clamped: %f", h.Amplitude())
	}
	event.ExecuteDeferred()
}

func TestHelicorderViewShift(t *testing.T) {
	h := newTestHelicorder(nil)
	var offsets []int64
	h.OffsetChanged.AddHandler(func(args any) {
		offsets = append(offsets, args.(*OffsetChangedEventArgs).Offset)
	})
	h.ShiftViewUp()
	h.ShiftViewUp()
	h.ShiftViewDown()
	h.ShiftViewToNow()
	h.ShiftViewDown()
	event.ExecuteDeferred()
	want := []int64{anchor - 30*minute, anchor - 60*minute, anchor - 30*minute, anchor}
	if len(offsets) != len(want) {
		t.Fatalf("got %v, want %v", offsets, want)
	}
	for i := range want {
		if offsets[i] != want[i] {
			t.Errorf("event %d: got %d, want %d", i, offsets[i], want[i])
		}
	}
}

func TestHelicorderIntervalAndDuration(t *testing.T) {
	h := newTestHelicorder(nil)
	var interval, duration int
	h.IntervalChanged.AddHandler(func(args any) { interval = args.(*IntervalChangedEventArgs).Interval })
	h.DurationChanged.AddHandler(func(args any) { duration = args.(*DurationChangedEventArgs).Duration })

	seg := h.Segments()[0]
	h.SetTrackData(seg, sine(seg.Start, seg.End, 10, 1))
	h.SetInterval(15)
	h.SetDuration(12)
	event.ExecuteDeferred()
	if interval != 15 || duration != 12 {
		t.Errorf("got interval %d duration %d", interval, duration)
	}
	if n := len(h.Tracks()); n != 49 {
		t.Errorf("expected 49 tracks, got %d", n)
	}
	if _, ok := h.TrackData(seg); ok {
		t.Error("data keyed by the old interval should be dropped")
	}
}

func TestHelicorderTrackToggle(t *testing.T) {
	h := newTestHelicorder(nil)
	var selected, deselected []int
	h.TrackSelected.AddHandler(func(args any) { selected = append(selected, args.(*TrackSelectedEventArgs).Index) })
	h.TrackDeselected.AddHandler(func(args any) { deselected = append(deselected, args.(*TrackSelectedEventArgs).Index) })

	r := h.Tracks()[0].Rect()
	y := r.Y + r.Height/2
	if !h.PointerDown(10, y) {
		t.Fatal("label click not handled")
	}
	if !h.Tracks()[0].Selected {
		t.Error("track 0 not selected")
	}
	h.PointerDown(10, y)
	event.ExecuteDeferred()
	if len(selected) != 1 || selected[0] != 0 || len(deselected) != 1 || deselected[0] != 0 {
		t.Errorf("selected %v deselected %v", selected, deselected)
	}
}

func TestHelicorderPointerOutsideIgnored(t *testing.T) {
	h := newTestHelicorder(nil)
	if h.PointerDown(h.Grid().Right()+10, h.Grid().Y+10) {
		t.Error("press right of the grid was handled")
	}
	if h.PointerUp(0, 0) {
		t.Error("release without press was handled")
	}
	if h.Selection().IsSet() {
		t.Error("selection set by an ignored press")
	}
}

func TestHelicorderMarkers(t *testing.T) {
	h := newTestHelicorder(nil)
	if err := h.AddEventMarker(Marker{ID: "quake", Start: anchor - 40*minute, End: anchor - 20*minute, Label: "M4.2", Pill: true}); err != nil {
		t.Fatal(err)
	}
	if err := h.AddEventMarker(Marker{ID: "bad", Start: anchor, End: anchor}); err != ErrInvalidMarker {
		t.Errorf("expected ErrInvalidMarker, got %v", err)
	}

	x, i := h.Manager().PositionOf(anchor - 25*minute)
	r := h.Tracks()[i].Rect()
	if m, ok := h.Hover(x, r.Y+r.Height/2); !ok || m.ID != "quake" {
		t.Errorf("hover: got %+v %v", m, ok)
	}
	h.PointerDown(x, r.Y+r.Height/2)
	if m, ok := h.Markers().Selected(); !ok || m.ID != "quake" {
		t.Error("click did not select the marker")
	}
	if h.Selection().IsSet() {
		t.Error("marker click moved the selection window")
	}

	var rec recorder
	h.Draw(&rec)
	if !rec.hasText("M4.2") {
		t.Error("pill label not drawn")
	}
	if !h.RemoveEventMarker("quake") || h.Markers().Len() != 0 {
		t.Error("marker not removed")
	}
}

func TestHelicorderDraw(t *testing.T) {
	h := newTestHelicorder(nil)
	h.Update()
	var rec recorder
	h.Draw(&rec)
	if rec.images != 1 {
		t.Errorf("expected the waveform bitmap, got %d images", rec.images)
	}
	for _, label := range []string{"11:30", "11:00", "10:30"} {
		if !rec.hasText(label) {
			t.Errorf("missing track label %q in %v", label, rec.texts)
		}
	}
}

func TestHelicorderUTCLabels(t *testing.T) {
	h := newTestHelicorder(nil)
	loc := time.FixedZone("X", 2*3600)
	h.scaleOpts.Location = loc
	h.SetUseUTC(false)
	if h.Tracks()[0].Label != "13:30" {
		t.Errorf("local label: got %q", h.Tracks()[0].Label)
	}
	h.SetUseUTC(true)
	if h.Tracks()[0].Label != "11:30" {
		t.Errorf("utc label: got %q", h.Tracks()[0].Label)
	}
}
