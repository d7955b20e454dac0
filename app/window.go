package app

import (
	img "image"
	"image/color"

	"seischart/settings"

	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/shiny/materialdesign/colornames"
)

var titleColor = color.NRGBA{254, 255, 255, 255}

// NewWindow places widg in a draggable, resizable window at rect. Widgets
// implementing Toolbar get their toolbar next to the title.
func NewWindow(widg widgetCloser, title string, rect img.Rectangle) *widget.Window {
	content := newPane(rect.Dx(), rect.Dy())
	content.AddChild(widg)

	titleBar := newTitleBar(title, widg)
	window := widget.NewWindow(
		widget.WindowOpts.Contents(content),
		widget.WindowOpts.TitleBar(titleBar, int(settings.PanelHeaderHeight)),
		widget.WindowOpts.ClosedHandler(widg.Close),
		widget.WindowOpts.Draggable(),
		widget.WindowOpts.Resizeable(),
		widget.WindowOpts.MinSize(content.GetWidget().MinWidth, content.GetWidget().MinHeight),
		widget.WindowOpts.ResizeHandler(func(args *widget.WindowChangedEventArgs) {
			log.WithFields(log.Fields{"title": title, "rect": args.Rect}).Debug("window resized")
		}),
	)
	titleBar.AddChild(windowCloseButton(window.Close))
	window.SetLocation(rect)

	return window
}

func newTitleBar(title string, widg widgetCloser) *widget.Container {
	bar := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(image.NewNineSliceColor(settings.BackgroundColor)),
		widget.ContainerOpts.Layout(widget.NewAnchorLayout(
			widget.AnchorLayoutOpts.Padding(widget.NewInsetsSimple(scaled(2))),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(0, int(settings.AppHeaderHeight)),
		),
	)

	row := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(image.NewNineSliceColor(settings.PanelBackgroundColor)),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(scaled(12)),
			widget.RowLayoutOpts.Padding(widget.Insets{Left: int(settings.PanelPadding)}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				StretchHorizontal: true,
				StretchVertical:   true,
			}),
		),
	)
	row.AddChild(widget.NewText(
		widget.TextOpts.Text(title, settings.FontSM, titleColor),
		widget.TextOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.RowLayoutData{
				Position: widget.RowLayoutPositionCenter,
			}),
		),
	))
	if tb, ok := widg.(Toolbar); ok {
		row.AddChild(tb.Toolbar())
	}
	bar.AddChild(row)

	return bar
}

func windowCloseButton(onClose func()) *widget.Button {
	white := colornames.White
	return widget.NewButton(
		widget.ButtonOpts.Image(&widget.ButtonImage{
			Idle:    image.NewNineSliceColor(settings.ButtonIdleColor),
			Hover:   image.NewNineSliceColor(settings.ButtonHoverColor),
			Pressed: image.NewNineSliceColor(settings.ButtonPressedColor),
		}),
		widget.ButtonOpts.Text("x", settings.FontSM, &widget.ButtonTextColor{
			Idle:    white,
			Hover:   white,
			Pressed: white,
		}),
		widget.ButtonOpts.TextPadding(widget.Insets{Left: scaled(4), Right: scaled(4)}),
		widget.ButtonOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionEnd,
				VerticalPosition:   widget.AnchorLayoutPositionCenter,
				Padding:            widget.Insets{Right: scaled(8)},
			}),
		),
		widget.ButtonOpts.ClickedHandler(func(*widget.ButtonClickedEventArgs) {
			onClose()
		}),
	)
}

// newPane is the window body: a w by h container with a thin border on
// every side but the top.
func newPane(w, h int) *widget.Container {
	border := scaled(2)
	return widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(image.NewNineSliceColor(settings.BackgroundColor)),
		widget.ContainerOpts.Layout(widget.NewAnchorLayout(
			widget.AnchorLayoutOpts.Padding(widget.Insets{
				Left:   border,
				Right:  border,
				Bottom: border,
			}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(w, h),
		),
	)
}
