package app

import (
	img "image"
	"image/color"

	"seischart/chart"
	"seischart/pkg/geom"
	"seischart/settings"

	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const wheelZoomStep = 0.1

type shifter interface {
	ShiftViewUp()
	ShiftViewDown()
	ShiftViewToNow()
}

type scroller interface {
	ScrollLeft()
	ScrollRight()
	ZoomAt(x, factor float64)
}

// ChartWidget hosts a helicorder or seismogram inside an ebitenui
// container and feeds it pointer and keyboard input.
type ChartWidget struct {
	*widget.Container

	screen  *widget.Container
	toolbar *widget.Container
	view    chartView
	drawer  *screenDrawer
	rect    img.Rectangle

	isPressed       bool
	isMouseInBounds bool
	hover           *chart.Marker

	// onUpdate runs once per frame before the view updates.
	onUpdate func()
	onClose  func()
}

func NewChartWidget(view chartView) *ChartWidget {
	cw := ChartWidget{
		view:   view,
		drawer: newScreenDrawer(),
	}
	screenContainer := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(
			image.NewNineSliceColor(settings.PanelBackgroundColor),
		),
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.CursorMoveHandler(cw.onMouseMove),
			widget.WidgetOpts.MouseButtonPressedHandler(cw.onMousePressed),
			widget.WidgetOpts.MouseButtonReleasedHandler(cw.onMouseReleased),
			widget.WidgetOpts.ScrolledHandler(cw.onScroll),
			widget.WidgetOpts.CursorEnterHandler(cw.onContainerEnter),
			widget.WidgetOpts.CursorExitHandler(cw.onContainerLeave),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				StretchHorizontal: true,
				StretchVertical:   true,
			}),
		),
	)
	cw.screen = screenContainer
	cw.Container = widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(
			image.NewNineSliceColor(settings.BackgroundColor),
		),
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionStart,
				VerticalPosition:   widget.AnchorLayoutPositionStart,
				StretchHorizontal:  true,
				StretchVertical:    true,
			}),
		),
	)
	cw.Container.AddChild(screenContainer)
	cw.toolbar = widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(
			image.NewNineSliceColor(settings.PanelBackgroundColor),
		),
		widget.ContainerOpts.Layout(widget.NewRowLayout()),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.RowLayoutData{
				Position: widget.RowLayoutPositionCenter,
			}),
		),
	)
	return &cw
}

func (cw *ChartWidget) GetWidget() *widget.Widget {
	return cw.screen.GetWidget()
}

func (cw *ChartWidget) Toolbar() *widget.Container {
	return cw.toolbar
}

func (cw *ChartWidget) IsLoading() bool {
	return cw.view.IsLoading()
}

func (cw *ChartWidget) Update() {
	cw.Container.Update()

	rect := cw.GetWidget().Rect
	if rect != cw.rect {
		cw.rect = rect
		cw.view.SetRect(geom.FromImage(rect))
	}
	if cw.isMouseInBounds {
		cw.handleKeys()
	}
	if cw.onUpdate != nil {
		cw.onUpdate()
	}
	cw.view.Update()
}

func (cw *ChartWidget) handleKeys() {
	v := cw.view
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual), inpututil.IsKeyJustPressed(ebiten.KeyNumpadAdd):
		v.IncreaseAmplitude()
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus), inpututil.IsKeyJustPressed(ebiten.KeyNumpadSubtract):
		v.DecreaseAmplitude()
	case inpututil.IsKeyJustPressed(ebiten.KeyDigit0):
		v.ResetAmplitude()
	case inpututil.IsKeyJustPressed(ebiten.KeyU):
		v.SetUseUTC(!v.UseUTC())
	}
	if s, ok := v.(shifter); ok {
		switch {
		case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
			s.ShiftViewUp()
		case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
			s.ShiftViewDown()
		case inpututil.IsKeyJustPressed(ebiten.KeyHome):
			s.ShiftViewToNow()
		}
	}
	if s, ok := v.(scroller); ok {
		switch {
		case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
			s.ScrollLeft()
		case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
			s.ScrollRight()
		}
	}
}

func (cw *ChartWidget) onMouseMove(_ *widget.WidgetCursorMoveEventArgs) {
	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)
	if cw.isPressed {
		cw.view.PointerMove(x, y)
		return
	}
	if m, ok := cw.view.Hover(x, y); ok {
		cw.hover = &m
	} else {
		cw.hover = nil
	}
}

func (cw *ChartWidget) onMousePressed(args *widget.WidgetMouseButtonPressedEventArgs) {
	if args.Button != settings.PickButton {
		return
	}
	mx, my := ebiten.CursorPosition()
	cw.isPressed = true
	cw.view.PointerDown(float64(mx), float64(my))
}

func (cw *ChartWidget) onMouseReleased(args *widget.WidgetMouseButtonReleasedEventArgs) {
	if args.Button != settings.PickButton || !cw.isPressed {
		return
	}
	mx, my := ebiten.CursorPosition()
	cw.isPressed = false
	cw.view.PointerUp(float64(mx), float64(my))
}

func (cw *ChartWidget) onContainerEnter(_ *widget.WidgetCursorEnterEventArgs) {
	cw.isMouseInBounds = true
}

func (cw *ChartWidget) onContainerLeave(_ *widget.WidgetCursorExitEventArgs) {
	cw.isMouseInBounds = false
	cw.hover = nil
	cw.view.Leave()
}

// onScroll changes the amplitude. With A held a seismogram zooms its time
// axis around the cursor instead.
func (cw *ChartWidget) onScroll(args *widget.WidgetScrolledEventArgs) {
	if s, ok := cw.view.(scroller); ok && ebiten.IsKeyPressed(ebiten.KeyA) {
		mx, _ := ebiten.CursorPosition()
		if args.Y > 0 {
			s.ZoomAt(float64(mx), wheelZoomStep)
		} else if args.Y < 0 {
			s.ZoomAt(float64(mx), -wheelZoomStep)
		}
		return
	}
	if args.Y > 0 {
		cw.view.IncreaseAmplitude()
	} else if args.Y < 0 {
		cw.view.DecreaseAmplitude()
	}
}

func (cw *ChartWidget) Render(screen *ebiten.Image) {
	cw.Container.Render(screen)

	cw.drawer.screen = screen
	cw.view.Draw(cw.drawer)
	cw.renderTooltip(screen)
}

// renderTooltip shows the label of the marker under the cursor.
func (cw *ChartWidget) renderTooltip(screen *ebiten.Image) {
	if cw.hover == nil || cw.hover.Label == "" || cw.isPressed {
		return
	}
	mx, my := ebiten.CursorPosition()
	font := settings.FontSM
	w, h := text.Measure(cw.hover.Label, font, font.Metrics().VLineGap)
	pad := float64(settings.PanelPadding) / 2
	x, y := float64(mx)+pad, float64(my)-h-2*pad
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w+2*pad), float32(h+pad), settings.BackgroundColor2, false)
	DrawText(screen, cw.hover.Label, font, x+pad, y+pad/2, color.White)
}

func (cw *ChartWidget) Close(_ *widget.WindowClosedEventArgs) {
	if cw.onClose != nil {
		cw.onClose()
	}
	cw.view.Dispose()
	cw.drawer.release()
}
