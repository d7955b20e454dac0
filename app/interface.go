package app

import (
	"seischart/chart"
	"seischart/pkg/geom"

	"github.com/ebitenui/ebitenui/widget"
)

type widgetCloser interface {
	widget.PreferredSizeLocateableWidget
	Close(*widget.WindowClosedEventArgs)
}

type Toolbar interface {
	Toolbar() *widget.Container
}

// chartView is what ChartWidget needs from a helicorder or seismogram.
type chartView interface {
	SetRect(geom.Rect)
	Update()
	Draw(chart.Drawer)
	PointerDown(x, y float64) bool
	PointerMove(x, y float64)
	PointerUp(x, y float64) bool
	Hover(x, y float64) (chart.Marker, bool)
	Leave()
	IsLoading() bool
	IncreaseAmplitude()
	DecreaseAmplitude()
	ResetAmplitude()
	UseUTC() bool
	SetUseUTC(bool)
	Dispose()
}
