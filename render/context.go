// Package render normalizes waveform tracks and rasterizes them into a
// single bitmap. Render is a pure function of its Context so it can run on
// any goroutine.
package render

import (
	"image"
	"image/color"

	"seischart/pkg/geom"
	"seischart/pkg/scale"
	"seischart/pkg/series"
)

// Version identifies the Context and Result layout. Results carry the
// version of the context that produced them.
const Version = 1

type Scaling string

const (
	ScalingGlobal Scaling = "global"
	ScalingLocal  Scaling = "local"
)

// GlobalPolicy selects the shared factor used by global scaling.
type GlobalPolicy string

const (
	// PolicyMaxRange divides every track by the largest track range so the
	// loudest channel fits. Used by seismograms.
	PolicyMaxRange GlobalPolicy = "max-range"
	// PolicyMinRange divides every track by the smallest non-zero range,
	// favouring detail on long stacks of quiet tracks. Used by helicorders.
	PolicyMinRange GlobalPolicy = "min-range"
)

// QuietRange scales tracks by their 5th to 95th percentile band instead of
// their full range.
type QuietRange struct {
	Enabled bool `json:"enabled"`
	// MinScale is the fraction of a track's height the quiet band occupies.
	MinScale float64 `json:"minScale"`
	// ClipScale clamps normalized values to ±ClipScale when positive.
	ClipScale float64 `json:"clipScale"`
}

// Track is one row to draw. Rect is relative to the grid origin. X holds
// the time extent of the row and Y the normalized value extent.
type Track struct {
	Key    string       `json:"key"`
	Rect   geom.Rect    `json:"rect"`
	X      scale.Spec   `json:"x"`
	Y      scale.Spec   `json:"y"`
	Series *series.Data `json:"series"`
}

type Context struct {
	Version    int          `json:"version"`
	RequestID  uint64       `json:"requestId"`
	Tracks     []Track      `json:"tracks"`
	Grid       geom.Rect    `json:"grid"`
	PixelRatio float64      `json:"pixelRatio"`
	Scaling    Scaling      `json:"scaling"`
	Policy     GlobalPolicy `json:"policy"`
	Quiet      QuietRange   `json:"quiet"`
	// Amplitude is used to derive a track's Y extent when it has none.
	Amplitude float64     `json:"amplitude"`
	Color     color.NRGBA `json:"color"`
	LineWidth float64     `json:"lineWidth"`
	EncodePNG bool        `json:"encodePng"`
}

// Clone returns a deep copy of c that shares no memory with it.
func (c Context) Clone() Context {
	n := c
	n.Tracks = make([]Track, len(c.Tracks))
	for i, t := range c.Tracks {
		t.Series = t.Series.Clone()
		n.Tracks[i] = t
	}
	return n
}

type TrackInfo struct {
	Key        string  `json:"key"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	Center     float64 `json:"center"`
	NormFactor float64 `json:"normFactor"`
}

type Result struct {
	Version   int    `json:"version"`
	RequestID uint64 `json:"requestId"`
	// Image is a PNG data URL, set when the context asked for it.
	Image  string       `json:"image,omitempty"`
	Bitmap *image.NRGBA `json:"-"`
	Tracks []TrackInfo  `json:"tracks"`
	Err    string       `json:"error,omitempty"`
}

func (r Result) Failed() bool {
	return r.Err != ""
}
