// Package series holds waveform samples and the segment keyed cache the
// charts read them from.
package series

import (
	"math"
	"slices"
)

// Data is one waveform series. Index holds epoch-millisecond timestamps in
// ascending order and Values the samples at those times. NaN samples mark
// gaps in the record.
type Data struct {
	Index  []float64
	Values []float64
	Min    float64
	Max    float64
	// Count is the number of non-NaN samples.
	Count int
}

// New builds a series from parallel index and value slices. Extra
// elements of the longer slice are dropped.
func New(index, values []float64) *Data {
	n := min(len(index), len(values))
	d := &Data{Index: index[:n:n], Values: values[:n:n]}
	d.updateStats()
	return d
}

func Empty() *Data {
	return &Data{}
}

func (d *Data) updateStats() {
	d.Min, d.Max, d.Count = 0, 0, 0
	for _, v := range d.Values {
		if math.IsNaN(v) {
			continue
		}
		if d.Count == 0 {
			d.Min, d.Max = v, v
		} else {
			d.Min = min(d.Min, v)
			d.Max = max(d.Max, v)
		}
		d.Count++
	}
}

func (d *Data) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Values)
}

// IsEmpty reports whether d has no usable samples.
func (d *Data) IsEmpty() bool {
	return d == nil || d.Count == 0
}

// Range returns Max - Min, or zero for an empty series.
func (d *Data) Range() float64 {
	if d.IsEmpty() {
		return 0
	}
	return d.Max - d.Min
}

// Between returns the samples in the half-open interval [start, end). The
// result shares its backing arrays with d.
func (d *Data) Between(start, end float64) *Data {
	if d.Len() == 0 {
		return Empty()
	}
	if end < start {
		start, end = end, start
	}
	a, _ := slices.BinarySearch(d.Index, start)
	b, _ := slices.BinarySearch(d.Index, end)
	return New(d.Index[a:b], d.Values[a:b])
}

// Mask reports for every sample whether it is missing.
func (d *Data) Mask() []bool {
	mask := make([]bool, d.Len())
	for i, v := range d.Values {
		mask[i] = math.IsNaN(v)
	}
	return mask
}

// Append adds samples that are newer than the last one already held.
// Older or duplicate timestamps are skipped. It returns the number of
// samples added.
func (d *Data) Append(index, values []float64) int {
	n := min(len(index), len(values))
	last := math.Inf(-1)
	if len(d.Index) > 0 {
		last = d.Index[len(d.Index)-1]
	}
	added := 0
	for i := 0; i < n; i++ {
		if index[i] <= last {
			continue
		}
		d.Index = append(d.Index, index[i])
		d.Values = append(d.Values, values[i])
		last = index[i]
		added++
		v := values[i]
		if math.IsNaN(v) {
			continue
		}
		if d.Count == 0 {
			d.Min, d.Max = v, v
		} else {
			d.Min = min(d.Min, v)
			d.Max = max(d.Max, v)
		}
		d.Count++
	}
	return added
}

// Clone returns a deep copy of d.
func (d *Data) Clone() *Data {
	if d == nil {
		return nil
	}
	return &Data{
		Index:  slices.Clone(d.Index),
		Values: slices.Clone(d.Values),
		Min:    d.Min,
		Max:    d.Max,
		Count:  d.Count,
	}
}

// Snapshot returns a view of the samples held now. It shares the backing
// arrays with d, which stays safe because samples are only ever appended:
// later appends to d land beyond the view, and appends to the view
// reallocate.
func (d *Data) Snapshot() *Data {
	if d == nil {
		return nil
	}
	n := len(d.Values)
	return &Data{
		Index:  d.Index[:n:n],
		Values: d.Values[:n:n],
		Min:    d.Min,
		Max:    d.Max,
		Count:  d.Count,
	}
}

// Start and End return the first and last timestamps, or NaN when empty.
func (d *Data) Start() float64 {
	if d.Len() == 0 {
		return math.NaN()
	}
	return d.Index[0]
}

func (d *Data) End() float64 {
	if d.Len() == 0 {
		return math.NaN()
	}
	return d.Index[len(d.Index)-1]
}
