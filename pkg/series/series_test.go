package series

import (
	"math"
	"testing"
)

func TestNewStatsIgnoreNaN(t *testing.T) {
	nan := math.NaN()
	d := New([]float64{0, 1, 2, 3, 4}, []float64{3, nan, -2, 7, nan})
	if d.Min != -2 || d.Max != 7 || d.Count != 3 {
		t.Errorf("unexpected stats min=%f max=%f count=%d", d.Min, d.Max, d.Count)
	}
	if d.Range() != 9 {
		t.Errorf("expected range 9, got %f", d.Range())
	}
	mask := d.Mask()
	want := []bool{false, true, false, false, true}
	for i := range want {
		if mask[i] != want[i] {
			t.Errorf("mask[%d] = %v, want %v", i, mask[i], want[i])
		}
	}
}

func TestNewTruncatesMismatchedLengths(t *testing.T) {
	d := New([]float64{0, 1, 2}, []float64{5, 6})
	if d.Len() != 2 || len(d.Index) != 2 {
		t.Errorf("expected 2 samples, got %d/%d", d.Len(), len(d.Index))
	}
}

func TestEmptySeries(t *testing.T) {
	var d *Data
	if !d.IsEmpty() || d.Len() != 0 || d.Range() != 0 {
		t.Errorf("nil series should be empty")
	}
	e := New(nil, nil)
	if !e.IsEmpty() || !math.IsNaN(e.Start()) {
		t.Errorf("empty series should report no samples")
	}
	if b := e.Between(0, 10); b.Len() != 0 {
		t.Errorf("expected empty slice, got %d samples", b.Len())
	}
}

func TestBetween(t *testing.T) {
	d := New([]float64{0, 10, 20, 30, 40}, []float64{1, 2, 3, 4, 5})
	for _, r := range []struct {
		name       string
		start, end float64
		want       []float64
	}{
		{"inner", 10, 30, []float64{2, 3}},
		{"half open end", 0, 40, []float64{1, 2, 3, 4}},
		{"swapped", 30, 10, []float64{2, 3}},
		{"between samples", 11, 19, nil},
		{"past end", 35, 100, []float64{5}},
		{"before start", -50, 5, []float64{1}},
	} {
		t.Run(r.name, func(t *testing.T) {
			got := d.Between(r.start, r.end)
			if got.Len() != len(r.want) {
				t.Fatalf("expected %d samples, got %d", len(r.want), got.Len())
			}
			for i, v := range r.want {
				if got.Values[i] != v {
					t.Errorf("value %d = %f, want %f", i, got.Values[i], v)
				}
			}
		})
	}
}

func TestAppendSkipsOldSamples(t *testing.T) {
	d := New([]float64{0, 1}, []float64{5, 6})
	n := d.Append([]float64{1, 2, 2, 3}, []float64{100, -1, 50, math.NaN()})
	if n != 2 {
		t.Errorf("expected 2 appended, got %d", n)
	}
	if d.Len() != 4 || d.Min != -1 || d.Max != 6 || d.Count != 3 {
		t.Errorf("unexpected state len=%d min=%f max=%f count=%d", d.Len(), d.Min, d.Max, d.Count)
	}
}

func TestCloneIsDeep(t *testing.T) {
	d := New([]float64{0, 1}, []float64{5, 6})
	c := d.Clone()
	c.Values[0] = 99
	if d.Values[0] != 5 {
		t.Errorf("clone shares values with the original")
	}
}

func TestSnapshotIsStable(t *testing.T) {
	d := Empty()
	d.Append([]float64{0, 1}, []float64{5, 6})
	snap := d.Snapshot()
	d.Append([]float64{2, 3}, []float64{-1, 9})
	if snap.Len() != 2 || snap.Min != 5 || snap.Max != 6 || snap.Count != 2 {
		t.Errorf("snapshot changed: len=%d min=%f max=%f", snap.Len(), snap.Min, snap.Max)
	}
	// Appending to the snapshot must not write into d.
	snap.Append([]float64{10}, []float64{100})
	if d.Len() != 4 || d.Values[2] != -1 {
		t.Errorf("snapshot append leaked into the original: %v", d.Values)
	}
	if Empty().Snapshot().Len() != 0 {
		t.Error("snapshot of an empty series should be empty")
	}
}

func TestSegment(t *testing.T) {
	s := NewSegment(-1800000, 0)
	if s.Duration() != 1800000 || !s.Valid() {
		t.Errorf("unexpected duration %d", s.Duration())
	}
	if !s.Contains(-1) || s.Contains(0) {
		t.Errorf("segments are half open")
	}
	if s.Overlaps(NewSegment(0, 10)) || !s.Overlaps(NewSegment(-5, 5)) {
		t.Errorf("unexpected overlap result")
	}
	p, err := ParseSegment(s.Key())
	if err != nil {
		t.Fatal(err)
	}
	if p != s {
		t.Errorf("parsed %v, want %v", p, s)
	}
	if _, err := ParseSegment("nope"); err == nil {
		t.Errorf("expected error for an invalid key")
	}
}

func TestDataStore(t *testing.T) {
	s := NewDataStore[*Data]()
	seg := NewSegment(0, 1000)
	s.SetKeyed(seg, New([]float64{0}, []float64{1}))
	s.Set("BHZ", Empty())
	if s.Size() != 2 {
		t.Fatalf("expected 2 entries, got %d", s.Size())
	}
	if !s.Has(seg.Key()) {
		t.Errorf("expected segment key to be present")
	}
	if d, ok := s.GetKeyed(seg); !ok || d.Count != 1 {
		t.Errorf("unexpected lookup result %v %v", d, ok)
	}
	if keys := s.Keys(); keys[0] != "0-1000" || keys[1] != "BHZ" {
		t.Errorf("unexpected keys %v", keys)
	}
	s.Remove("BHZ")
	if s.Has("BHZ") {
		t.Errorf("remove did not delete the key")
	}
	s.Clear()
	if s.Size() != 0 {
		t.Errorf("expected empty store after Clear")
	}
	if _, ok := s.Get("missing"); ok {
		t.Errorf("missing key reported present")
	}
}

func TestSegmentAt(t *testing.T) {
	tests := []struct {
		t, d       int64
		start, end int64
	}{
		{0, 1000, 0, 1000},
		{999, 1000, 0, 1000},
		{1000, 1000, 1000, 2000},
		{-1, 1000, -1000, 0},
		{-1000, 1000, -1000, 0},
	}
	for _, tt := range tests {
		s := SegmentAt(tt.t, tt.d)
		if s.Start != tt.start || s.End != tt.end || !s.Contains(tt.t) {
			t.Errorf("SegmentAt(%d, %d) = %v", tt.t, tt.d, s)
		}
	}
}
