package chart

import (
	"math"
	"testing"
	"time"

	"seischart/pkg/geom"
	"seischart/pkg/scale"
	"seischart/pkg/series"
)

func newManager(interval, duration int, offset int64) *TrackManager {
	so := scale.DefaultOptions()
	so.UseUTC = true
	m := NewTrackManager(TrackManagerOptions{
		Interval:   interval,
		Duration:   duration,
		OffsetDate: offset,
		ScaleOpts:  so,
	})
	m.SetGrid(geom.NewRect(0, 0, 300, 300))
	return m
}

func TestTrackCount(t *testing.T) {
	for _, r := range []struct {
		interval, duration, want int
	}{
		{30, 12, 25},
		{15, 12, 49},
		{30, 1, 3},
		{60, 24, 25},
		{7, 1, 10},
	} {
		m := newManager(r.interval, r.duration, anchor)
		if got := m.TrackCount(); got != r.want {
			t.Errorf("interval %d duration %d: got %d tracks, want %d", r.interval, r.duration, got, r.want)
		}
		if got := len(m.Tracks()); got != r.want {
			t.Errorf("interval %d duration %d: manager holds %d tracks, want %d", r.interval, r.duration, got, r.want)
		}
	}
}

func TestSegmentsAreGridAligned(t *testing.T) {
	m := newManager(30, 1, anchor)
	want := []series.Segment{
		{Start: anchor - 30*minute, End: anchor},
		{Start: anchor - 60*minute, End: anchor - 30*minute},
		{Start: anchor - 90*minute, End: anchor - 60*minute},
	}
	got := m.Segments()
	if len(got) != len(want) {
		t.Fatalf("got %d segments, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("segment %d: got %s, want %s", i, got[i], want[i])
		}
	}

	// An offset off the grid still yields grid aligned segments.
	m.SetOffsetDate(anchor + 7*minute)
	if seg := m.Segment(0); seg.Start != anchor || seg.End != anchor+30*minute {
		t.Errorf("unaligned offset: got %s", seg)
	}
}

func TestSegmentIdempotenceAndDuration(t *testing.T) {
	for _, offset := range []int64{anchor, anchor + 1, anchor + 17*minute + 123, anchor - 29*minute - 1} {
		m := newManager(30, 12, offset)
		for i := 0; i < m.TrackCount(); i++ {
			a, b := m.Segment(i), m.Segment(i)
			if a != b {
				t.Errorf("offset %d segment %d: %s != %s", offset, i, a, b)
			}
			if a.Duration() != 30*minute {
				t.Errorf("offset %d segment %d: duration %d", offset, i, a.Duration())
			}
		}
	}
}

func TestTrackIndexByTime(t *testing.T) {
	m := newManager(30, 1, anchor)
	for _, r := range []struct {
		t    int64
		want int
	}{
		{anchor - 1, 0},
		{anchor - 30*minute, 0},
		{anchor - 30*minute - 1, 1},
		{anchor - 90*minute, 2},
		{anchor - 90*minute - 1, -1},
		{anchor, -1},
		{anchor + minute, -1},
	} {
		if got := m.TrackIndexByTime(r.t); got != r.want {
			t.Errorf("TrackIndexByTime(anchor%+d) = %d, want %d", r.t-anchor, got, r.want)
		}
	}
}

func TestTrackIndexByPosition(t *testing.T) {
	m := newManager(30, 1, anchor)
	for _, r := range []struct {
		y    float64
		want int
	}{
		{50, 2},
		{150, 1},
		{250, 0},
		{300, 0},
		{-1, -1},
		{301, -1},
	} {
		if got := m.TrackIndexByPosition(r.y); got != r.want {
			t.Errorf("TrackIndexByPosition(%f) = %d, want %d", r.y, got, r.want)
		}
	}
}

func TestTimePositionRoundTrip(t *testing.T) {
	m := newManager(30, 1, anchor)
	for _, ts := range []int64{anchor - 1000, anchor - 45*minute, anchor - 89*minute} {
		x, i := m.PositionOf(ts)
		if i < 0 {
			t.Fatalf("%d not visible", ts)
		}
		r := m.TrackRect(i)
		got, ok := m.TimeAt(x, r.Y+r.Height/2)
		if !ok || math.Abs(float64(got-ts)) > 1 {
			t.Errorf("round trip of %d: got %d %v", ts, got, ok)
		}
	}
	if _, ok := m.TimeAt(-5, 10); ok {
		t.Error("TimeAt outside the grid should fail")
	}
}

func TestTrackRectsBottomUp(t *testing.T) {
	m := newManager(30, 1, anchor)
	for i, wantY := range []float64{200, 100, 0} {
		if r := m.Track(i).Rect(); r.Y != wantY || r.Height != 100 {
			t.Errorf("track %d: got %+v", i, r)
		}
	}
}

func TestUpdateDisposesSurplusTracks(t *testing.T) {
	m := newManager(15, 2, anchor)
	old := m.Tracks()
	if len(old) != 9 {
		t.Fatalf("got %d tracks", len(old))
	}
	m.Track(0).Selected = true
	m.SetDuration(1)
	if len(m.Tracks()) != 5 {
		t.Fatalf("got %d tracks after shrinking", len(m.Tracks()))
	}
	for _, tr := range old[5:] {
		if !tr.Disposed() {
			t.Errorf("track %d not disposed", tr.Index)
		}
	}
	if !m.Track(0).Selected {
		t.Error("a track keeping its segment lost its selection")
	}
	m.SetOffsetDate(m.Options().OffsetDate - m.SegmentDuration())
	if m.Track(0).Selected {
		t.Error("a track with a new segment kept its selection")
	}
}

func TestTrackLabels(t *testing.T) {
	m := newManager(30, 12, anchor)
	tracks := m.Tracks()
	if tracks[0].Label != "11:30" || tracks[0].DateLabel {
		t.Errorf("track 0: got %q", tracks[0].Label)
	}
	// Track 23 covers [00:00, 00:30) on March 1st.
	if tracks[23].Label != "2024-03-01" || !tracks[23].DateLabel {
		t.Errorf("track 23: got %q", tracks[23].Label)
	}
	if tracks[24].DateLabel {
		t.Errorf("track 24 ends at midnight and should not carry the date: %q", tracks[24].Label)
	}

	m.SetInterval(15)
	tracks = m.Tracks()
	if tracks[1].Label != "" || tracks[2].Label != "11:15" {
		t.Errorf("with 49 tracks every second track is labeled: got %q, %q", tracks[1].Label, tracks[2].Label)
	}
	var dated int
	for _, tr := range tracks {
		if tr.DateLabel {
			dated++
			if tr.Segment.Start != time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).UnixMilli() {
				t.Errorf("date label on %s", tr.Segment)
			}
		}
	}
	if dated != 1 {
		t.Errorf("expected one date label, got %d", dated)
	}
}
