package chart

import (
	"seischart/pkg/geom"
	"seischart/pkg/series"

	"github.com/ebitenui/ebitenui/event"
)

const minuteMs = int64(60_000)

type SelectionChangedEventArgs struct {
	Range Range
}

// SelectionWindow is a fixed size window over a helicorder. A click
// centers it on the clicked time and a drag that starts inside it moves
// it along the timeline, across track boundaries.
type SelectionWindow struct {
	manager *TrackManager
	size    int // minutes
	center  int64
	set     bool

	dragging bool
	origin   int64
	before   int64
	start    Range

	Changed *event.Event
}

func NewSelectionWindow(m *TrackManager, minutes int) *SelectionWindow {
	if minutes <= 0 {
		minutes = 1
	}
	return &SelectionWindow{manager: m, size: minutes, Changed: &event.Event{}}
}

func (s *SelectionWindow) Size() int      { return s.size }
func (s *SelectionWindow) IsSet() bool    { return s.set }
func (s *SelectionWindow) Dragging() bool { return s.dragging }
func (s *SelectionWindow) Center() int64  { return s.center }

// Range is the whole-minute aligned window around the center.
func (s *SelectionWindow) Range() Range {
	if !s.set {
		return Range{}
	}
	half := int64(s.size) * minuteMs / 2
	start := floorDiv(s.center-half, minuteMs) * minuteMs
	return Range{Start: start, End: start + int64(s.size)*minuteMs}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}

func (s *SelectionWindow) SetSize(minutes int) {
	if minutes <= 0 || minutes == s.size {
		return
	}
	old := s.Range()
	s.size = minutes
	s.fireIfChanged(old)
}

// SetCenter moves the window without a gesture.
func (s *SelectionWindow) SetCenter(t int64) {
	old := s.Range()
	s.center, s.set = t, true
	s.fireIfChanged(old)
}

func (s *SelectionWindow) Clear() {
	old := s.Range()
	s.set, s.dragging = false, false
	s.fireIfChanged(old)
}

func (s *SelectionWindow) fireIfChanged(old Range) {
	if r := s.Range(); r != old {
		s.Changed.Fire(&SelectionChangedEventArgs{Range: r})
	}
}

// Rects splits the window into one rectangle per track it covers.
func (s *SelectionWindow) Rects() []geom.Rect {
	return rangeRects(s.manager, s.Range())
}

// rangeRects returns the screen rectangles of r on each helicorder track.
func rangeRects(m *TrackManager, r Range) []geom.Rect {
	if !r.Valid() {
		return nil
	}
	r = r.Normalized()
	var rects []geom.Rect
	for i, t := range m.Tracks() {
		seg := m.Segment(i)
		if !seg.Overlaps(series.Segment{Start: r.Start, End: r.End}) {
			continue
		}
		a := max(r.Start, seg.Start)
		b := min(r.End, seg.End)
		x0 := m.XAxis().PixelForValue(m.TimeToOffset(seg, a))
		x1 := m.XAxis().PixelForValue(m.TimeToOffset(seg, b))
		tr := t.Rect()
		rects = append(rects, geom.NewRect(x0, tr.Y, x1-x0, tr.Height))
	}
	return rects
}

func (s *SelectionWindow) hit(x, y float64) bool {
	for _, r := range s.Rects() {
		if r.Contains(x, y) {
			return true
		}
	}
	return false
}

// PointerDown starts a drag inside the window or recenters it on the
// clicked time. It ignores points outside the grid.
func (s *SelectionWindow) PointerDown(x, y float64) bool {
	t, ok := s.manager.TimeAt(x, y)
	if !ok {
		return false
	}
	if s.set && s.hit(x, y) {
		s.dragging = true
		s.origin = t
		s.before = s.center
		s.start = s.Range()
		return true
	}
	s.SetCenter(t)
	return true
}

func (s *SelectionWindow) PointerMove(x, y float64) {
	if !s.dragging {
		return
	}
	if t, ok := s.manager.TimeAt(x, y); ok {
		s.center = s.before + (t - s.origin)
	}
}

// PointerUp ends a drag. SelectionChanged fires only when the aligned
// window moved by at least a minute.
func (s *SelectionWindow) PointerUp(x, y float64) bool {
	if !s.dragging {
		return false
	}
	s.PointerMove(x, y)
	s.dragging = false
	if r := s.Range(); r != s.start {
		s.Changed.Fire(&SelectionChangedEventArgs{Range: r})
		return true
	}
	s.center = s.before
	return false
}

func (s *SelectionWindow) Draw(d Drawer, th Theme) {
	for _, r := range s.Rects() {
		if r.Width <= 0 {
			continue
		}
		d.FillRect(r, th.Selection)
		d.StrokeRect(r, 1, th.SelectionEdge)
	}
}
