package ingest

import (
	"seischart/actor/consumer/wsfeed"
	"seischart/actor/station"
	"seischart/chart"
	"seischart/config"
	"seischart/event"
	"seischart/render"
)

// HelicorderOptions maps the helicorder section of c onto chart options.
func HelicorderOptions(c config.Config) chart.HelicorderOptions {
	o := chart.DefaultHelicorderOptions()
	h := c.Helicorder
	o.Interval = h.Interval
	o.Duration = h.Duration
	o.UseUTC = h.UseUTC
	o.Selection = h.Selection
	o.Render.Scaling = render.Scaling(h.Scaling)
	o.Render.Quiet = render.QuietRange{
		Enabled:   h.MinScale > 0,
		MinScale:  h.MinScale,
		ClipScale: h.ClipScale,
	}
	o.Render.PixelRatio = c.Render.PixelRatio
	o.Render.LineWidth = c.Render.LineWidth
	return o
}

func SeismogramOptions(c config.Config, st config.Station) chart.SeismogramOptions {
	o := chart.DefaultSeismogramOptions()
	o.Channels = append([]string(nil), st.Channels...)
	o.Window = c.Seismogram.Window
	o.Gap = c.Seismogram.Gap
	o.UseUTC = c.Helicorder.UseUTC
	o.Render.Scaling = render.Scaling(c.Seismogram.Scaling)
	o.Render.PixelRatio = c.Render.PixelRatio
	o.Render.LineWidth = c.Render.LineWidth
	return o
}

// Channels lists every configured channel.
func Channels(c config.Config) []event.Channel {
	var out []event.Channel
	for _, st := range c.Stations {
		out = append(out, StationChannels(st)...)
	}
	return out
}

func StationChannels(st config.Station) []event.Channel {
	out := make([]event.Channel, 0, len(st.Channels))
	for _, code := range st.Channels {
		out = append(out, event.NewChannel(st.Network, st.Code, code))
	}
	return out
}

func FeedOptions(c config.Config) wsfeed.Options {
	intervals := make([]int64, len(c.Feed.Intervals))
	for i, v := range c.Feed.Intervals {
		intervals[i] = int64(v)
	}
	return wsfeed.Options{
		URL:      c.Feed.URL,
		Channels: Channels(c),
		Station: station.Options{
			Backlog:        c.Feed.Backlog,
			Intervals:      intervals,
			StatusInterval: c.Feed.StatusInterval,
		},
	}
}
