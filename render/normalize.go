package render

import (
	"math"
	"slices"

	"seischart/pkg/series"

	"github.com/aclements/go-moremath/stats"
)

// trackStats describes how one track's values are centered and scaled.
type trackStats struct {
	min, max float64
	center   float64
	rng      float64
}

// quietBand returns the 5th and 95th percentiles of the finite values.
func quietBand(values []float64) (lo, hi float64, ok bool) {
	xs := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			xs = append(xs, v)
		}
	}
	if len(xs) == 0 {
		return 0, 0, false
	}
	slices.Sort(xs)
	s := stats.Sample{Xs: xs, Sorted: true}
	return s.Quantile(0.05), s.Quantile(0.95), true
}

func measure(d *series.Data, q QuietRange) trackStats {
	if d.IsEmpty() {
		return trackStats{}
	}
	ts := trackStats{
		min:    d.Min,
		max:    d.Max,
		center: (d.Min + d.Max) / 2,
		rng:    d.Max - d.Min,
	}
	if q.Enabled && q.MinScale > 0 {
		if lo, hi, ok := quietBand(d.Values); ok && hi > lo {
			ts.center = (lo + hi) / 2
			ts.rng = (hi - lo) / q.MinScale
		}
	}
	return ts
}

// normFactors returns the divisor for every track. Tracks without a usable
// range get a factor of 1 so their (flat) values still land on the center
// line.
func normFactors(all []trackStats, scaling Scaling, policy GlobalPolicy) []float64 {
	factors := make([]float64, len(all))
	if scaling == ScalingLocal {
		for i, ts := range all {
			factors[i] = ts.rng
			if !(ts.rng > 0) {
				factors[i] = 1
			}
		}
		return factors
	}

	shared := math.NaN()
	for _, ts := range all {
		if !(ts.rng > 0) {
			continue
		}
		switch {
		case math.IsNaN(shared):
			shared = ts.rng
		case policy == PolicyMinRange:
			shared = math.Min(shared, ts.rng)
		default:
			shared = math.Max(shared, ts.rng)
		}
	}
	if math.IsNaN(shared) {
		shared = 1
	}
	for i := range factors {
		factors[i] = shared
	}
	return factors
}

// normalize maps v into the unit band around zero, clipping when clip > 0.
func normalize(v float64, ts trackStats, factor, clip float64) float64 {
	n := (v - ts.center) / factor
	if clip > 0 {
		n = math.Max(-clip, math.Min(clip, n))
	}
	return n
}
