package app

import (
	"fmt"
	"strconv"
	"time"

	"seischart/chart"
	"seischart/config"
	"seischart/event"
	"seischart/ingest"
	"seischart/settings"
)

func NewSeismogramWidget(st config.Station) (*ChartWidget, *view) {
	opts := ingest.SeismogramOptions(app.config, st)
	opts.Renderer = app.newRenderer()
	seis := chart.NewSeismogram(opts)

	w := NewChartWidget(seis)
	channels := ingest.StationChannels(st)
	sink := ingest.NewSink(nil, seis, ingest.Options{Follow: true})
	pump := ingest.NewPump(app.engine, st.Network+"."+st.Code)
	pump.Subscribe(ingest.Streams(event.Channel{}, 0, channels))

	// Finished picks become markers so the picker is free for the next one.
	picks := 0
	seis.PickChanged.AddHandler(func(args any) {
		r := args.(*chart.PickChangedEventArgs).Range
		if !r.Valid() {
			return
		}
		picks++
		seis.AddEventMarker(chart.Marker{
			ID:    "pick-" + strconv.Itoa(picks),
			Start: r.Start,
			End:   r.End,
			Label: fmt.Sprintf("%.1fs", time.Duration(r.Duration()*int64(time.Millisecond)).Seconds()),
			Pill:  true,
		})
		seis.Picker().Clear()
	})

	w.onUpdate = func() { pump.Drain(sink.Handle, drainPerFrame) }
	w.onClose = pump.Stop

	zoomOut := newToolbarButton("-")
	zoomOut.ClickedEvent.AddHandler(func(_ any) { seis.ZoomOut() })
	zoomIn := newToolbarButton("+")
	zoomIn.ClickedEvent.AddHandler(func(_ any) { seis.ZoomIn() })
	live := newToolbarButton("Live")
	live.TextColor.Idle = settings.MenuButtonTextColorActive
	live.ClickedEvent.AddHandler(func(_ any) {
		sink.SetFollow(!sink.Follow())
		if sink.Follow() {
			live.TextColor.Idle = settings.MenuButtonTextColorActive
		} else {
			live.TextColor.Idle = settings.MenuButtonTextColorIdle
		}
	})
	w.toolbar.AddChild(zoomOut, zoomIn, live, utcButton(seis))

	return w, &view{
		station: st.Network + "." + st.Code,
		widget:  w,
		sink:    sink,
		seis:    seis,
	}
}
