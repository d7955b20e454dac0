package render

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"

	"seischart/pkg/series"
)

var (
	ErrVersion   = errors.New("render: unsupported context version")
	ErrEmptyGrid = errors.New("render: empty grid")
)

// Render normalizes every track of c and draws them into one bitmap. A
// panic while drawing is returned as an error; the Result then carries
// the message and no image.
func Render(c Context) (res Result, err error) {
	res = Result{Version: Version, RequestID: c.RequestID}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render: %v", r)
		}
		if err != nil {
			res.Err = err.Error()
			res.Bitmap = nil
			res.Image = ""
		}
	}()

	if c.Version != Version {
		return res, fmt.Errorf("%w: %d", ErrVersion, c.Version)
	}
	ratio := c.PixelRatio
	if ratio <= 0 {
		ratio = 1
	}
	w := int(math.Ceil(c.Grid.Width * ratio))
	h := int(math.Ceil(c.Grid.Height * ratio))
	if w <= 0 || h <= 0 {
		return res, ErrEmptyGrid
	}

	all := make([]trackStats, len(c.Tracks))
	for i, t := range c.Tracks {
		all[i] = measure(t.Series, c.Quiet)
	}
	factors := normFactors(all, c.Scaling, c.Policy)

	st := newStroker(w, h, c.LineWidth*ratio)
	res.Tracks = make([]TrackInfo, len(c.Tracks))
	for i, t := range c.Tracks {
		res.Tracks[i] = TrackInfo{
			Key:        t.Key,
			Min:        all[i].min,
			Max:        all[i].max,
			Center:     all[i].center,
			NormFactor: factors[i],
		}
		if t.Series.IsEmpty() {
			continue
		}
		p, ok := newProjector(t, c.Amplitude, ratio)
		if !ok {
			continue
		}
		drawTrack(st, p, t.Series.Between(p.x.Min, p.x.Max), all[i], factors[i], c.Quiet.ClipScale)
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	st.z.Draw(img, img.Bounds(), image.NewUniform(c.Color), image.Point{})
	res.Bitmap = img

	if c.EncodePNG {
		res.Image, err = dataURL(img)
		if err != nil {
			return res, err
		}
	}
	return res, nil
}

// drawTrack strokes d, starting a new path at every masked sample.
func drawTrack(st *stroker, p projector, d *series.Data, ts trackStats, factor, clip float64) {
	run := make([]point, 0, d.Len())
	flush := func() {
		if len(run) == 0 {
			return
		}
		cols := math.Abs(run[len(run)-1].x-run[0].x) + 1
		if float64(len(run)) > 2*cols {
			st.polyline(envelope(run))
		} else {
			st.polyline(run)
		}
		run = run[:0]
	}
	missing := d.Mask()
	for i, v := range d.Values {
		if missing[i] {
			flush()
			continue
		}
		n := normalize(v, ts, factor, clip)
		run = append(run, point{x: p.invertX(d.Index[i]), y: p.invertY(n)})
	}
	flush()
}

func dataURL(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("render: encode png: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
