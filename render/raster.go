package render

import (
	"math"

	"seischart/pkg/geom"
	"seischart/pkg/scale"

	"golang.org/x/image/vector"
)

// projector converts a track's time and normalized values to bitmap pixels.
type projector struct {
	rect  geom.Rect
	x, y  scale.Spec
	ratio float64
}

func newProjector(t Track, amplitude, ratio float64) (projector, bool) {
	p := projector{rect: t.Rect, x: t.X, y: t.Y, ratio: ratio}
	if !(p.y.Max > p.y.Min) {
		if amplitude <= 0 {
			amplitude = 1
		}
		p.y.Min, p.y.Max = -0.5/amplitude, 0.5/amplitude
	}
	return p, p.x.Max > p.x.Min && !t.Rect.Empty()
}

// invertX maps a timestamp to a pixel offset from the grid origin.
func (p projector) invertX(v float64) float64 {
	pct := (v - p.x.Min) / (p.x.Max - p.x.Min)
	return (p.rect.X + p.rect.Width*pct) * p.ratio
}

// invertY maps a normalized value to a pixel offset, flipping so larger
// values sit higher in the track.
func (p projector) invertY(n float64) float64 {
	pct := (n - p.y.Min) / (p.y.Max - p.y.Min)
	return (p.rect.Y + p.rect.Height*(1-pct)) * p.ratio
}

type point struct{ x, y float64 }

// envelope reduces a run of points to the min and max of every pixel
// column, keeping the order in which the extremes were reached.
func envelope(run []point) []point {
	if len(run) < 3 {
		return run
	}
	out := make([]point, 0, 64)
	col := math.Floor(run[0].x)
	lo, hi := 0, 0
	flush := func() {
		a, b := run[lo], run[hi]
		if lo > hi {
			a, b = b, a
		}
		out = append(out, a)
		if lo != hi {
			out = append(out, b)
		}
	}
	start := 0
	for i := 1; i <= len(run); i++ {
		if i == len(run) || math.Floor(run[i].x) != col {
			lo, hi = start, start
			for j := start + 1; j < i; j++ {
				// Screen Y grows downward, so the minimum value is the
				// largest y.
				if run[j].y > run[lo].y {
					lo = j
				}
				if run[j].y < run[hi].y {
					hi = j
				}
			}
			flush()
			if i < len(run) {
				start = i
				col = math.Floor(run[i].x)
			}
		}
	}
	return out
}

// stroker adds thick line segments to a rasterizer. Every quad is wound the
// same way so overlapping segments add up instead of cancelling.
type stroker struct {
	z    *vector.Rasterizer
	w, h float64
	half float64
}

func newStroker(w, h int, lineWidth float64) *stroker {
	if lineWidth <= 0 {
		lineWidth = 1
	}
	return &stroker{
		z:    vector.NewRasterizer(w, h),
		w:    float64(w),
		h:    float64(h),
		half: lineWidth / 2,
	}
}

// clip trims the segment to the bitmap using Liang-Barsky.
func (s *stroker) clip(a, b point) (point, point, bool) {
	t0, t1 := 0.0, 1.0
	dx, dy := b.x-a.x, b.y-a.y
	for _, e := range [4][2]float64{
		{-dx, a.x},
		{dx, s.w - a.x},
		{-dy, a.y},
		{dy, s.h - a.y},
	} {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return a, b, false
			}
			t0 = math.Max(t0, r)
		} else {
			if r < t0 {
				return a, b, false
			}
			t1 = math.Min(t1, r)
		}
	}
	return point{a.x + t0*dx, a.y + t0*dy}, point{a.x + t1*dx, a.y + t1*dy}, true
}

func (s *stroker) vertex(x, y float64) (float32, float32) {
	return float32(math.Max(0, math.Min(s.w, x))), float32(math.Max(0, math.Min(s.h, y)))
}

func (s *stroker) segment(a, b point) {
	a, b, ok := s.clip(a, b)
	if !ok {
		return
	}
	dx, dy := b.x-a.x, b.y-a.y
	l := math.Hypot(dx, dy)
	if l < 1e-9 {
		a.x -= s.half
		b.x += s.half
		dx, l = b.x-a.x, b.x-a.x
		dy = 0
	}
	nx, ny := -dy/l*s.half, dx/l*s.half
	s.z.MoveTo(s.vertex(a.x+nx, a.y+ny))
	s.z.LineTo(s.vertex(b.x+nx, b.y+ny))
	s.z.LineTo(s.vertex(b.x-nx, b.y-ny))
	s.z.LineTo(s.vertex(a.x-nx, a.y-ny))
	s.z.ClosePath()
}

// polyline strokes pts. A single point is drawn as a dot.
func (s *stroker) polyline(pts []point) {
	if len(pts) == 1 {
		s.segment(pts[0], pts[0])
		return
	}
	for i := 1; i < len(pts); i++ {
		s.segment(pts[i-1], pts[i])
	}
}
