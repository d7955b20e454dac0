package chart

import (
	"errors"
	"image/color"

	"seischart/pkg/geom"

	"github.com/tidwall/btree"
)

var ErrInvalidMarker = errors.New("chart: marker needs an id and start < end")

// Marker is an externally supplied event window drawn as a band over the
// tracks. Markers are never moved by pointer gestures.
type Marker struct {
	ID    string
	Start int64
	End   int64
	Label string
	// Color overrides the theme marker color when non-zero.
	Color color.RGBA
	// Pill draws rounded caps at the ends of the band.
	Pill bool
}

func markerLess(a, b Marker) bool {
	if a.Start != b.Start {
		return a.Start < b.Start
	}
	return a.ID < b.ID
}

// MarkerStore keeps markers ordered by start time.
type MarkerStore struct {
	tree     *btree.BTreeG[Marker]
	byID     map[string]Marker
	selected string
}

func NewMarkerStore() *MarkerStore {
	return &MarkerStore{
		tree: btree.NewBTreeG[Marker](markerLess),
		byID: make(map[string]Marker),
	}
}

// Add inserts m, replacing a marker with the same id.
func (s *MarkerStore) Add(m Marker) error {
	if m.ID == "" || m.Start >= m.End {
		return ErrInvalidMarker
	}
	if old, ok := s.byID[m.ID]; ok {
		s.tree.Delete(old)
	}
	s.tree.Set(m)
	s.byID[m.ID] = m
	return nil
}

func (s *MarkerStore) Remove(id string) bool {
	m, ok := s.byID[id]
	if !ok {
		return false
	}
	s.tree.Delete(m)
	delete(s.byID, id)
	if s.selected == id {
		s.selected = ""
	}
	return true
}

func (s *MarkerStore) Get(id string) (Marker, bool) {
	m, ok := s.byID[id]
	return m, ok
}

func (s *MarkerStore) Len() int {
	return s.tree.Len()
}

// All returns the markers ordered by start.
func (s *MarkerStore) All() []Marker {
	out := make([]Marker, 0, s.tree.Len())
	s.tree.Scan(func(m Marker) bool {
		out = append(out, m)
		return true
	})
	return out
}

// Overlapping returns the markers intersecting [start, end).
func (s *MarkerStore) Overlapping(start, end int64) []Marker {
	var out []Marker
	s.tree.Scan(func(m Marker) bool {
		if m.Start >= end {
			return false
		}
		if m.End > start {
			out = append(out, m)
		}
		return true
	})
	return out
}

// Hit returns the latest starting marker containing t.
func (s *MarkerStore) Hit(t int64) (Marker, bool) {
	var hit Marker
	var found bool
	s.tree.Scan(func(m Marker) bool {
		if m.Start > t {
			return false
		}
		if t < m.End {
			hit, found = m, true
		}
		return true
	})
	return hit, found
}

func (s *MarkerStore) Selected() (Marker, bool) {
	if s.selected == "" {
		return Marker{}, false
	}
	return s.Get(s.selected)
}

// Toggle selects id, or clears the selection when id is already selected.
// It returns the new selection state of id.
func (s *MarkerStore) Toggle(id string) bool {
	if s.selected == id {
		s.selected = ""
		return false
	}
	if _, ok := s.byID[id]; !ok {
		return false
	}
	s.selected = id
	return true
}

func (s *MarkerStore) ClearSelection() {
	s.selected = ""
}

func (s *MarkerStore) Clear() {
	s.tree = btree.NewBTreeG[Marker](markerLess)
	clear(s.byID)
	s.selected = ""
}

// drawPill tags a marker band with its label at the band's start.
func drawPill(d Drawer, band geom.Rect, label string, th Theme) {
	r := geom.NewRect(band.X, band.Y, float64(len(label))*7+8, 14)
	d.FillRect(r, th.MarkerSelected)
	d.Text(label, r.X+4, r.Y+r.Height/2, AlignLeft, th.Text)
}
