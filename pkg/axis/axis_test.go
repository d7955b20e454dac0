package axis

import (
	"math"
	"testing"

	"seischart/pkg/geom"
	"seischart/pkg/scale"

	"github.com/ebitenui/ebitenui/event"
)

func newLinear(pos Position, reverse bool) *Axis {
	a := New(Options{Position: pos, Reverse: reverse, ScaleOptions: scale.DefaultOptions()})
	a.SetRect(geom.NewRect(10, 20, 200, 100))
	a.SetExtent(0, 100)
	event.ExecuteDeferred()
	return a
}

func TestPixelForValue(t *testing.T) {
	for _, r := range []struct {
		pos     Position
		reverse bool
		v       float64
		want    float64
	}{
		{Bottom, false, 0, 10},
		{Bottom, false, 25, 60},
		{Bottom, true, 25, 160},
		{Top, false, 100, 210},
		{Left, false, 0, 120},
		{Left, false, 100, 20},
		{Right, false, 75, 45},
		{Right, true, 75, 95},
	} {
		a := newLinear(r.pos, r.reverse)
		if got := a.PixelForValue(r.v); math.Abs(got-r.want) > 1e-9 {
			t.Errorf("%s reverse=%v: PixelForValue(%f) = %f, want %f", r.pos, r.reverse, r.v, got, r.want)
		}
		if back := a.ValueForPixel(r.want); math.Abs(back-r.v) > 1e-9 {
			t.Errorf("%s reverse=%v: ValueForPixel(%f) = %f, want %f", r.pos, r.reverse, r.want, back, r.v)
		}
	}
}

func TestNewPanicsOnInvalidPosition(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic for an invalid position")
		}
	}()
	New(Options{Position: Position(9)})
}

func TestNewPanicsOnUnknownScale(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic for an unknown scale type")
		}
	}()
	New(Options{Position: Bottom, ScaleType: "log"})
}

func TestScroll(t *testing.T) {
	a := newLinear(Bottom, false)
	a.ScrollRight(0.1)
	if min, max := a.Extent(); min != 10 || max != 110 {
		t.Errorf("ScrollRight: got [%f,%f]", min, max)
	}
	a.ScrollLeft(0.5)
	if min, max := a.Extent(); min != -40 || max != 60 {
		t.Errorf("ScrollLeft: got [%f,%f]", min, max)
	}
	a.ScrollTo(5)
	if min, max := a.Extent(); min != 5 || max != 105 {
		t.Errorf("ScrollTo: got [%f,%f]", min, max)
	}
	event.ExecuteDeferred()
}

func TestZoom(t *testing.T) {
	a := newLinear(Bottom, false)
	a.ZoomIn(50, 0.5)
	if min, max := a.Extent(); min != 25 || max != 75 {
		t.Errorf("ZoomIn: got [%f,%f]", min, max)
	}
	a.ZoomOut(50, 1)
	if min, max := a.Extent(); min != 0 || max != 100 {
		t.Errorf("ZoomOut: got [%f,%f]", min, max)
	}
	event.ExecuteDeferred()
}

func TestExtentChangedFiresOnChange(t *testing.T) {
	a := newLinear(Bottom, false)
	var got []*ExtentChangedEventArgs
	a.ExtentChanged.AddHandler(func(args any) {
		got = append(got, args.(*ExtentChangedEventArgs))
	})
	a.SetExtent(0, 100)
	a.ScrollRight(1)
	event.ExecuteDeferred()
	if len(got) != 1 {
		t.Fatalf("expected one event, got %d", len(got))
	}
	if got[0].Min != 100 || got[0].Max != 200 {
		t.Errorf("unexpected event extent [%f,%f]", got[0].Min, got[0].Max)
	}
}

func TestTicksCarryPixels(t *testing.T) {
	a := newLinear(Left, false)
	ticks := a.Ticks()
	if len(ticks) == 0 {
		t.Fatal("expected ticks")
	}
	for _, tk := range ticks {
		if tk.Pixel < 20 || tk.Pixel > 120 {
			t.Errorf("tick %f at pixel %f outside the rect", tk.Value, tk.Pixel)
		}
		if want := a.PixelForValue(tk.Value); tk.Pixel != want {
			t.Errorf("tick %f pixel %f, want %f", tk.Value, tk.Pixel, want)
		}
	}
	if ticks[0].Pixel <= ticks[len(ticks)-1].Pixel {
		t.Errorf("vertical ticks should move up the screen as values grow")
	}
}
