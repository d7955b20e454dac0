package chart

import (
	"math"
	"testing"
	"time"

	"seischart/pkg/axis"
	"seischart/pkg/geom"
	"seischart/render"

	"github.com/ebitenui/ebitenui/event"
)

// newTestSeismogram shows the minute before anchor on a 240px wide grid,
// 4px a second.
func newTestSeismogram() *Seismogram {
	opts := DefaultSeismogramOptions()
	opts.Channels = []string{"HHZ", "HHN", "HHE"}
	opts.Window = time.Minute
	opts.End = anchor
	opts.UseUTC = true
	s := NewSeismogram(opts)
	s.SetRect(geom.NewRect(0, 0, 400, 336))
	event.ExecuteDeferred()
	return s
}

func TestSeismogramLayout(t *testing.T) {
	s := newTestSeismogram()
	tracks := s.Tracks()
	if len(tracks) != 3 {
		t.Fatalf("got %d tracks", len(tracks))
	}
	for i := 1; i < len(tracks); i++ {
		prev, cur := tracks[i-1].Rect(), tracks[i].Rect()
		if math.Abs(cur.Y-prev.Bottom()-4) > 1e-9 {
			t.Errorf("track %d: expected a 4px gap, got %f", i, cur.Y-prev.Bottom())
		}
	}
	if tracks[0].Rect().Y != s.Grid().Y {
		t.Error("channels are laid out top down")
	}
}

func TestSeismogramGlobalMaxRange(t *testing.T) {
	s := newTestSeismogram()
	ext := s.Extent()
	s.SetChannelData("HHZ", sine(ext.Start, ext.End, 600, 4))
	s.SetChannelData("HHN", sine(ext.Start, ext.End, 600, 1))
	s.SetChannelData("other", sine(ext.Start, ext.End, 600, 50))
	s.Update()
	if s.Bitmap() == nil {
		t.Fatal("no bitmap")
	}
	z, n, e := s.Tracks()[0].Signal(), s.Tracks()[1].Signal(), s.Tracks()[2].Signal()
	if !z.Rendered || !n.Rendered || !e.Rendered {
		t.Fatal("every track should report a signal")
	}
	if math.Abs(z.NormFactor-(z.Max-z.Min)) > 1e-9 {
		t.Errorf("the loudest channel should set the factor: %+v", z)
	}
	if n.NormFactor != z.NormFactor || e.NormFactor != z.NormFactor {
		t.Errorf("global scaling should share one factor: %f %f %f", z.NormFactor, n.NormFactor, e.NormFactor)
	}

	s.SetRenderOptions(RenderOptions{Scaling: render.ScalingLocal})
	s.Update()
	z, n = s.Tracks()[0].Signal(), s.Tracks()[1].Signal()
	if math.Abs(z.NormFactor/n.NormFactor-4) > 0.01 {
		t.Errorf("local factors should follow each channel: %f %f", z.NormFactor, n.NormFactor)
	}
}

func TestSeismogramSetChannels(t *testing.T) {
	s := newTestSeismogram()
	old := s.Tracks()
	s.SetChannelData("HHZ", sine(0, 1000, 10, 1))
	s.SetChannels([]string{"BHZ"})
	if len(s.Tracks()) != 1 || s.Tracks()[0].Channel != "BHZ" {
		t.Fatalf("unexpected tracks %+v", s.Tracks())
	}
	for _, tr := range old {
		if !tr.Disposed() {
			t.Errorf("track %s not disposed", tr.Channel)
		}
	}
	if _, ok := s.ChannelData("HHZ"); ok {
		t.Error("data of removed channels should be dropped")
	}
	if r := s.Tracks()[0].Rect(); r != s.Grid() {
		t.Errorf("single track should fill the grid, got %+v", r)
	}
}

func TestSeismogramNavigation(t *testing.T) {
	s := newTestSeismogram()
	var extents [][2]float64
	s.ExtentChanged.AddHandler(func(args any) {
		a := args.(*axis.ExtentChangedEventArgs)
		extents = append(extents, [2]float64{a.Min, a.Max})
	})

	s.ScrollRight()
	if e := s.Extent(); e.Start != anchor-54_000 || e.End != anchor+6_000 {
		t.Errorf("ScrollRight: %+v", e)
	}
	s.ScrollLeft()
	s.ScrollTo(anchor)
	if e := s.Extent(); e.Start != anchor || e.End != anchor+60_000 {
		t.Errorf("ScrollTo: %+v", e)
	}
	s.ZoomIn()
	if e := s.Extent(); math.Abs(float64(e.Duration())-48_000) > 1 {
		t.Errorf("ZoomIn: %+v", e)
	}
	s.ZoomOut()
	s.SetExtent(anchor, anchor)
	event.ExecuteDeferred()
	if len(extents) != 5 {
		t.Errorf("expected 5 extent changes, got %d", len(extents))
	}
}

func TestSeismogramPick(t *testing.T) {
	s := newTestSeismogram()
	var picks []Range
	s.PickChanged.AddHandler(func(args any) {
		picks = append(picks, args.(*PickChangedEventArgs).Range)
	})
	y := s.Grid().Y + 20

	s.PointerDown(120, y)
	s.PointerMove(121, y)
	if s.PointerUp(122, y) {
		t.Error("a half second pick was reported")
	}
	s.PointerDown(120, y)
	s.PointerMove(130, y)
	if !s.PointerUp(140, y) {
		t.Error("a five second pick was not reported")
	}
	event.ExecuteDeferred()
	want := Range{Start: anchor - 54_000, End: anchor - 49_000}
	if len(picks) != 1 || picks[0] != want {
		t.Errorf("got %v, want %+v", picks, want)
	}
	if s.PointerDown(s.Grid().Right()+20, y) {
		t.Error("press outside the grid was handled")
	}
}

func TestSeismogramMarkerClick(t *testing.T) {
	s := newTestSeismogram()
	s.AddEventMarker(Marker{ID: "p", Start: anchor - 30_000, End: anchor - 20_000, Label: "P", Pill: true})
	y := s.Grid().Y + 20
	if m, ok := s.Hover(230, y); !ok || m.ID != "p" {
		t.Errorf("hover: %+v %v", m, ok)
	}
	s.PointerDown(230, y)
	if !s.PointerUp(230, y) {
		t.Fatal("marker click not handled")
	}
	if m, ok := s.Markers().Selected(); !ok || m.ID != "p" {
		t.Error("marker not selected")
	}
	s.PointerDown(230, y)
	s.PointerUp(230, y)
	if _, ok := s.Markers().Selected(); ok {
		t.Error("second click should clear the marker selection")
	}

	var rec recorder
	s.Draw(&rec)
	if !rec.hasText("P") || !rec.hasText("HHZ") {
		t.Errorf("missing labels in %v", rec.texts)
	}
	event.ExecuteDeferred()
}

func TestSeismogramPointer(t *testing.T) {
	s := newTestSeismogram()
	ext := s.Extent()
	s.SetChannelData("HHZ", sine(ext.Start, ext.End, 600, 4))
	s.Update()

	r := s.Tracks()[0].Rect()
	s.Hover(216, r.Y+r.Height/2)
	p := s.Pointer()
	if !p.Visible || p.Track != 0 || !p.HasValue {
		t.Fatalf("unexpected pointer %+v", p)
	}
	if p.Time != anchor-30_000 {
		t.Errorf("pointer time %d, want %d", p.Time, anchor-30_000)
	}
	if sig := s.Tracks()[0].Signal(); math.Abs(p.Value-sig.Center) > 1e-6 {
		t.Errorf("value at the track middle should be the center %f, got %f", sig.Center, p.Value)
	}
	s.Leave()
	if s.Pointer().Visible {
		t.Error("Leave should hide the pointer")
	}
}

func TestSeismogramUTC(t *testing.T) {
	s := newTestSeismogram()
	s.SetUseUTC(false)
	if s.UseUTC() || s.XAxis().Scale().Options().UseUTC {
		t.Error("UTC not switched off")
	}
	s.SetUseUTC(true)
	if !s.XAxis().Scale().Options().UseUTC {
		t.Error("UTC not switched on")
	}
}
