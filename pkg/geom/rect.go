package geom

import "image"

// Rect is a float rectangle in screen pixels. Y grows downward.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}
}

func FromImage(r image.Rectangle) Rect {
	return Rect{
		X:      float64(r.Min.X),
		Y:      float64(r.Min.Y),
		Width:  float64(r.Dx()),
		Height: float64(r.Dy()),
	}
}

func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether (x, y) lies inside r. The right and bottom
// edges are inclusive so pointer events on the last pixel still hit.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.Right() && y >= r.Y && y <= r.Bottom()
}

// Sub returns r translated so that origin becomes (0, 0).
func (r Rect) Sub(origin Rect) Rect {
	return Rect{X: r.X - origin.X, Y: r.Y - origin.Y, Width: r.Width, Height: r.Height}
}

func (r Rect) Scale(f float64) Rect {
	return Rect{X: r.X * f, Y: r.Y * f, Width: r.Width * f, Height: r.Height * f}
}

func (r Rect) Image() image.Rectangle {
	return image.Rect(int(r.X), int(r.Y), int(r.Right()), int(r.Bottom()))
}

// SplitRows splits r into n equal rows separated by gap pixels, top to bottom.
func (r Rect) SplitRows(n int, gap float64) []Rect {
	if n <= 0 {
		return nil
	}
	h := (r.Height - gap*float64(n-1)) / float64(n)
	if h < 0 {
		h = 0
	}
	rows := make([]Rect, n)
	for i := range rows {
		rows[i] = Rect{
			X:      r.X,
			Y:      r.Y + float64(i)*(h+gap),
			Width:  r.Width,
			Height: h,
		}
	}
	return rows
}
