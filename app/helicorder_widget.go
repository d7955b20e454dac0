package app

import (
	"seischart/chart"
	"seischart/config"
	"seischart/event"
	"seischart/ingest"
	"seischart/settings"

	"github.com/ebitenui/ebitenui/widget"
	log "github.com/sirupsen/logrus"
)

const drainPerFrame = 256

func NewHelicorderWidget(ch event.Channel) (*ChartWidget, *view) {
	opts := ingest.HelicorderOptions(app.config)
	opts.Renderer = app.newRenderer()
	heli := chart.NewHelicorder(opts)

	w := NewChartWidget(heli)
	sink := ingest.NewSink(heli, nil, ingest.Options{Channel: ch, Follow: true})
	pump := ingest.NewPump(app.engine, ch.StationID())
	subscribe := func() {
		pump.Subscribe(ingest.Streams(ch, heli.Interval(), nil))
	}
	subscribe()

	heli.IntervalChanged.AddHandler(func(args any) {
		interval := args.(*chart.IntervalChangedEventArgs).Interval
		subscribe()
		app.patch(config.Patch{Interval: &interval})
	})
	heli.DurationChanged.AddHandler(func(args any) {
		duration := args.(*chart.DurationChangedEventArgs).Duration
		app.patch(config.Patch{Duration: &duration})
	})
	heli.TrackSelected.AddHandler(func(args any) {
		a := args.(*chart.TrackSelectedEventArgs)
		log.WithFields(log.Fields{"channel": ch, "segment": a.Segment}).Info("track selected")
	})
	// The selection window drives the seismogram of the same station.
	heli.SelectionChanged.AddHandler(func(args any) {
		r := args.(*chart.SelectionChangedEventArgs).Range
		v, ok := app.seismogramFor(ch.StationID())
		if !ok || !r.Valid() {
			return
		}
		v.sink.SetFollow(false)
		v.seis.SetExtent(r.Start, r.End)
	})

	w.onUpdate = func() { pump.Drain(sink.Handle, drainPerFrame) }
	w.onClose = pump.Stop

	nowButton := newToolbarButton("Now")
	nowButton.ClickedEvent.AddHandler(func(_ any) {
		heli.ShiftViewToNow()
	})
	w.toolbar.AddChild(
		intervalDropdown(int64(heli.Interval()), func(v int64) { heli.SetInterval(int(v)) }),
		durationDropdown(heli.Duration(), heli.SetDuration),
		nowButton,
		utcButton(heli),
	)

	return w, &view{
		station: ch.StationID(),
		widget:  w,
		sink:    sink,
	}
}

// utcButton toggles UTC labels on v and highlights while they are on.
func utcButton(v chartView) *widget.Button {
	button := newToolbarButton("UTC")
	paint := func() {
		if v.UseUTC() {
			button.TextColor.Idle = settings.MenuButtonTextColorActive
		} else {
			button.TextColor.Idle = settings.MenuButtonTextColorIdle
		}
	}
	paint()
	button.ClickedEvent.AddHandler(func(_ any) {
		utc := !v.UseUTC()
		v.SetUseUTC(utc)
		app.patch(config.Patch{UseUTC: &utc})
		paint()
	})
	return button
}
