package chart

import (
	"math"
	"time"

	"seischart/pkg/axis"
	"seischart/pkg/geom"
	"seischart/pkg/scale"
	"seischart/pkg/series"
)

type Direction int

const (
	// BottomUp puts track 0, the most recent segment, at the bottom.
	BottomUp Direction = iota
	TopDown
)

const (
	labelBudget   = 25
	labelTemplate = "{HH}:{mm}"
	dateTemplate  = "{yyyy}-{MM}-{dd}"
)

type TrackManagerOptions struct {
	Interval   int   // minutes per track
	Duration   int   // hours shown
	OffsetDate int64 // epoch ms of the most recent segment
	Direction  Direction
	Gap        float64
	ScaleOpts  scale.Options
}

// TrackManager splits the timeline ending at OffsetDate into fixed
// segments of Interval minutes and lays them out as rows of the grid.
type TrackManager struct {
	opts   TrackManagerOptions
	grid   geom.Rect
	xAxis  *axis.Axis
	tracks []*Track
}

func NewTrackManager(opts TrackManagerOptions) *TrackManager {
	if opts.Interval <= 0 {
		opts.Interval = 30
	}
	if opts.Duration <= 0 {
		opts.Duration = 12
	}
	m := &TrackManager{
		opts:  opts,
		xAxis: axis.New(axis.Options{Position: axis.Bottom, ScaleOptions: scale.DefaultOptions(), MaxTicks: 7}),
	}
	m.xAxis.SetExtent(0, float64(opts.Interval))
	m.Update()
	return m
}

func (m *TrackManager) Options() TrackManagerOptions { return m.opts }
func (m *TrackManager) XAxis() *axis.Axis            { return m.xAxis }
func (m *TrackManager) Tracks() []*Track             { return m.tracks }
func (m *TrackManager) Grid() geom.Rect              { return m.grid }

// TrackCount is the number of rows needed to show Duration hours plus
// the partial segment at either end.
func (m *TrackManager) TrackCount() int {
	return int(math.Ceil(float64(m.opts.Duration)*60/float64(m.opts.Interval))) + 1
}

// SegmentDuration is the length of one track in milliseconds.
func (m *TrackManager) SegmentDuration() int64 {
	return int64(m.opts.Interval) * 60_000
}

func ceilDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && a > 0 {
		q++
	}
	return q
}

// EndOf snaps t up to the segment grid. StartOf is one segment earlier,
// so every segment keeps the same duration.
func (m *TrackManager) EndOf(t int64) int64 {
	d := m.SegmentDuration()
	return ceilDiv(t, d) * d
}

func (m *TrackManager) StartOf(t int64) int64 {
	return m.EndOf(t) - m.SegmentDuration()
}

// Segment returns segment i counted back from OffsetDate.
func (m *TrackManager) Segment(i int) series.Segment {
	t := m.opts.OffsetDate - int64(i)*m.SegmentDuration()
	return series.Segment{Start: m.StartOf(t), End: m.EndOf(t)}
}

func (m *TrackManager) Segments() []series.Segment {
	segs := make([]series.Segment, m.TrackCount())
	for i := range segs {
		segs[i] = m.Segment(i)
	}
	return segs
}

// Extent is the time span covered by all tracks.
func (m *TrackManager) Extent() series.Segment {
	return series.Segment{Start: m.Segment(m.TrackCount() - 1).Start, End: m.Segment(0).End}
}

// TrackIndexByTime returns the index of the segment containing t, or -1
// when t is outside the visible tracks.
func (m *TrackManager) TrackIndexByTime(t int64) int {
	d := m.SegmentDuration()
	i := int(ceilDiv(m.EndOf(m.opts.OffsetDate)-t, d)) - 1
	if i < 0 || i >= m.TrackCount() {
		return -1
	}
	return i
}

// TrackIndexByPosition returns the track under screen row y, or -1.
func (m *TrackManager) TrackIndexByPosition(y float64) int {
	if m.grid.Empty() || y < m.grid.Y || y > m.grid.Bottom() {
		return -1
	}
	n := m.TrackCount()
	row := int(math.Floor((y - m.grid.Y) / (m.grid.Height / float64(n))))
	row = min(row, n-1)
	if m.opts.Direction == BottomUp {
		return n - 1 - row
	}
	return row
}

// TimeToOffset converts t to minutes from the start of seg, the unit of
// the shared X axis.
func (m *TrackManager) TimeToOffset(seg series.Segment, t int64) float64 {
	return float64(t-seg.Start) / float64(seg.Duration()) * float64(m.opts.Interval)
}

func (m *TrackManager) OffsetToTime(seg series.Segment, offset float64) int64 {
	return seg.Start + int64(math.Round(offset/float64(m.opts.Interval)*float64(seg.Duration())))
}

// TimeAt returns the time under the screen point (x, y).
func (m *TrackManager) TimeAt(x, y float64) (int64, bool) {
	if !m.grid.Contains(x, y) {
		return 0, false
	}
	i := m.TrackIndexByPosition(y)
	if i < 0 {
		return 0, false
	}
	return m.OffsetToTime(m.Segment(i), m.xAxis.ValueForPixel(x)), true
}

// PositionOf returns the screen x of t and the index of its track.
func (m *TrackManager) PositionOf(t int64) (float64, int) {
	i := m.TrackIndexByTime(t)
	if i < 0 {
		return 0, -1
	}
	return m.xAxis.PixelForValue(m.TimeToOffset(m.Segment(i), t)), i
}

// TrackRect returns the screen rectangle of track i.
func (m *TrackManager) TrackRect(i int) geom.Rect {
	n := m.TrackCount()
	rows := m.grid.SplitRows(n, m.opts.Gap)
	if i < 0 || i >= len(rows) {
		return geom.Rect{}
	}
	if m.opts.Direction == BottomUp {
		return rows[n-1-i]
	}
	return rows[i]
}

// SetGrid assigns the area tracks are laid out in.
func (m *TrackManager) SetGrid(r geom.Rect) {
	m.grid = r
	m.xAxis.SetRect(r)
	m.Update()
}

func (m *TrackManager) SetInterval(minutes int) {
	if minutes <= 0 || minutes == m.opts.Interval {
		return
	}
	m.opts.Interval = minutes
	m.xAxis.SetExtent(0, float64(minutes))
	m.Update()
}

func (m *TrackManager) SetDuration(hours int) {
	if hours <= 0 || hours == m.opts.Duration {
		return
	}
	m.opts.Duration = hours
	m.Update()
}

func (m *TrackManager) SetOffsetDate(t int64) {
	if t == m.opts.OffsetDate {
		return
	}
	m.opts.OffsetDate = t
	m.Update()
}

func (m *TrackManager) SetScaleOptions(o scale.Options) {
	m.opts.ScaleOpts = o
	m.Update()
}

// Update disposes surplus tracks, creates missing ones and reassigns
// segments, rectangles and labels.
func (m *TrackManager) Update() {
	n := m.TrackCount()
	for i := n; i < len(m.tracks); i++ {
		m.tracks[i].dispose()
	}
	if len(m.tracks) > n {
		m.tracks = m.tracks[:n]
	}
	for len(m.tracks) < n {
		m.tracks = append(m.tracks, newTrack(len(m.tracks)))
	}
	rows := m.grid.SplitRows(n, m.opts.Gap)
	for i, t := range m.tracks {
		seg := m.Segment(i)
		if seg != t.Segment {
			t.Segment = seg
			t.Selected = false
			t.signal = Signal{}
		}
		if m.opts.Direction == BottomUp {
			t.setRect(rows[n-1-i])
		} else {
			t.setRect(rows[i])
		}
	}
	m.updateLabels()
}

func (m *TrackManager) location() *time.Location {
	if m.opts.ScaleOpts.UseUTC {
		return time.UTC
	}
	if m.opts.ScaleOpts.Location != nil {
		return m.opts.ScaleOpts.Location
	}
	return time.Local
}

// dayBoundary returns the midnight inside seg, if any.
func dayBoundary(seg series.Segment, loc *time.Location) (int64, bool) {
	last := time.UnixMilli(seg.End - 1).In(loc)
	midnight := time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, loc).UnixMilli()
	return midnight, midnight >= seg.Start && midnight < seg.End
}

func (m *TrackManager) updateLabels() {
	step := int(math.Ceil(float64(len(m.tracks)) / labelBudget))
	step = max(step, 1)
	loc := m.location()
	locale := m.opts.ScaleOpts.Locale
	for i, t := range m.tracks {
		t.Label, t.DateLabel = "", false
		if midnight, ok := dayBoundary(t.Segment, loc); ok {
			t.Label = scale.FormatMillis(float64(midnight), dateTemplate, locale, loc)
			t.DateLabel = true
			continue
		}
		if i%step == 0 {
			t.Label = scale.FormatMillis(float64(t.Segment.Start), labelTemplate, locale, loc)
		}
	}
}

// Track returns track i or nil.
func (m *TrackManager) Track(i int) *Track {
	if i < 0 || i >= len(m.tracks) {
		return nil
	}
	return m.tracks[i]
}

// TrackBySegment finds the track showing seg.
func (m *TrackManager) TrackBySegment(seg series.Segment) *Track {
	i := m.TrackIndexByTime(seg.Start)
	if t := m.Track(i); t != nil && t.Segment == seg {
		return t
	}
	return nil
}
