package app

import (
	img "image"
	"math"
	"slices"

	"seischart/chart"
	"seischart/config"
	"seischart/event"
	"seischart/ingest"
	"seischart/settings"

	"github.com/anthdm/hollywood/actor"
	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	log "github.com/sirupsen/logrus"
)

var app *App

// view is an open chart window and the feed that fills it.
type view struct {
	station string
	widget  *ChartWidget
	sink    *ingest.Sink
	seis    *chart.Seismogram
}

type App struct {
	ui *ebitenui.UI

	contentContainer *widget.Container
	statusBar        *StatusBarWidget
	engine           *actor.Engine
	config           config.Config
	views            []*view
	layoutLoaded     bool
}

func New(e *actor.Engine, cfg config.Config) *App {
	root := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(
			image.NewNineSliceColor(settings.BackgroundColor),
		),
		widget.ContainerOpts.Layout(widget.NewGridLayout(
			widget.GridLayoutOpts.Spacing(0, 0),
			widget.GridLayoutOpts.Columns(1),
			widget.GridLayoutOpts.Stretch(
				[]bool{true, true, true},
				[]bool{false, true, false}),
		)),
	)
	content := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(
			image.NewNineSliceColor(settings.BackgroundColor),
		),
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)

	app = &App{
		ui: &ebitenui.UI{
			Container: root,
		},
		contentContainer: content,
		statusBar:        NewStatusBarWidget(),
		engine:           e,
		config:           cfg,
	}

	root.AddChild(NewMenuBarWidget(cfg.Stations), content, app.statusBar)

	return app
}

func (app *App) Draw(screen *ebiten.Image) {
	app.ui.Draw(screen)
}

func (app *App) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	app.ui.Update()

	// The content rect is only known after the first layout pass.
	if !app.layoutLoaded && !app.contentContainer.GetWidget().Rect.Empty() {
		app.loadInitialLayout()
		app.layoutLoaded = true
	}
	app.statusBar.SetStatus(app.statusLine())

	return nil
}

// loadInitialLayout opens a helicorder of the first channel of the first
// station next to a seismogram of the whole station.
func (app *App) loadInitialLayout() {
	if len(app.config.Stations) == 0 {
		log.Warn("no stations configured")
		return
	}
	st := app.config.Stations[0]
	channels := ingest.StationChannels(st)
	if len(channels) == 0 {
		return
	}
	rect := app.contentContainer.GetWidget().Rect
	left, right := SplitRect(rect, Horizontal, 0.5, 0)
	app.openHelicorder(channels[0], left)
	app.openSeismogram(st, right)
}

func (app *App) openHelicorder(ch event.Channel, rect img.Rectangle) {
	w, v := NewHelicorderWidget(ch)
	app.open(w, v, "Helicorder "+ch.String(), rect)
}

func (app *App) openSeismogram(st config.Station, rect img.Rectangle) {
	w, v := NewSeismogramWidget(st)
	app.open(w, v, "Seismogram "+st.Network+"."+st.Code, rect)
}

func (app *App) open(w *ChartWidget, v *view, title string, rect img.Rectangle) {
	app.views = append(app.views, v)
	onClose := w.onClose
	w.onClose = func() {
		if onClose != nil {
			onClose()
		}
		app.views = slices.DeleteFunc(app.views, func(o *view) bool { return o == v })
	}
	app.ui.AddWindow(NewWindow(w, title, rect))
}

// seismogramFor returns an open seismogram of station.
func (app *App) seismogramFor(station string) (*view, bool) {
	for _, v := range app.views {
		if v.seis != nil && v.station == station {
			return v, true
		}
	}
	return nil, false
}

func (app *App) newRenderer() chart.Renderer {
	if app.config.Render.Sync {
		return chart.NewRenderer(nil, 0)
	}
	return chart.NewRenderer(app.engine, app.config.Render.Debounce)
}

// patch records a setting changed from the UI so windows opened later
// start from it.
func (app *App) patch(p config.Patch) {
	c, err := app.config.Apply(p)
	if err != nil {
		log.WithError(err).Warn("ignoring invalid setting")
		return
	}
	app.config = c
}

func (app *App) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	panic("seischart viewer running with an unsupported Ebiten Engine version")
}

func (app *App) LayoutF(logicWidth, logicHeight float64) (float64, float64) {
	scale := ebiten.Monitor().DeviceScaleFactor()
	canvasWidth := math.Ceil(logicWidth * scale)
	canvasHeight := math.Ceil(logicHeight * scale)
	return canvasWidth, canvasHeight
}

// getWidgetRect is where windows opened from the menu go: half the
// content area, stepped down and right for every open view.
func (app *App) getWidgetRect() img.Rectangle {
	rect := app.contentContainer.GetWidget().Rect
	half, _ := SplitRect(rect, Horizontal, 0.5, 0)
	half, _ = SplitRect(half, Vertical, 0.6, 0)
	step := scaled(24) * (len(app.views) % 8)
	return half.Add(img.Pt(step, step))
}
