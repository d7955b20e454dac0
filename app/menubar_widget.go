package app

import (
	img "image"

	"seischart/config"
	"seischart/ingest"
	"seischart/settings"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"golang.org/x/image/colornames"
)

type MenuBarWidget struct {
	*widget.Container
}

func NewMenuBarWidget(stations []config.Station) *MenuBarWidget {
	container := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(
			image.NewNineSliceColor(settings.PanelBackgroundColor),
		),
		widget.ContainerOpts.Layout(widget.NewAnchorLayout(
			widget.AnchorLayoutOpts.Padding(widget.Insets{Left: int(settings.PanelPadding)}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(0, int(settings.AppHeaderHeight)),
		),
	)

	innerContainer := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(
			image.NewNineSliceColor(settings.PanelBackgroundColor),
		),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
		)),

		widget.ContainerOpts.WidgetOpts(
			// Make the toolbar fill the whole horizontal space of the screen.
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				StretchHorizontal:  true,
				VerticalPosition:   widget.AnchorLayoutPositionCenter,
				HorizontalPosition: widget.AnchorLayoutPositionCenter,
			}),
		),
	)

	innerContainer.AddChild(
		makeHelicorderMenu(stations),
		makeSeismogramMenu(stations),
	)

	container.AddChild(innerContainer)

	return &MenuBarWidget{
		Container: container,
	}
}

func (w *MenuBarWidget) PreferredSize() (int, int) {
	return 0, int(settings.AppHeaderHeight)
}

// makeHelicorderMenu lists stations and, one level down, their channels.
func makeHelicorderMenu(stations []config.Station) *widget.Button {
	menuButton := newToolbarButton("Helicorder")
	stationButtons := make([]*widget.Button, len(stations))
	for i, st := range stations {
		button := newToolbarMenuEntry(st.Network + "." + st.Code)
		stationButtons[i] = button
		channels := ingest.StationChannels(st)
		chButtons := make([]*widget.Button, len(channels))
		for j, ch := range channels {
			chButton := newToolbarMenuEntry(ch.Code)
			chButton.ClickedEvent.AddHandler(func(args any) {
				app.openHelicorder(ch, app.getWidgetRect())
			})
			chButtons[j] = chButton
		}
		button.ClickedEvent.AddHandler(func(args any) {
			openToolbarMenu(menuButton.GetWidget(), app.ui, chButtons...)
		})
	}
	menuButton.ClickedEvent.AddHandler(func(args any) {
		openToolbarMenu(menuButton.GetWidget(), app.ui, stationButtons...)
	})
	return menuButton
}

func makeSeismogramMenu(stations []config.Station) *widget.Button {
	menuButton := newToolbarButton("Seismogram")
	stationButtons := make([]*widget.Button, len(stations))
	for i, st := range stations {
		button := newToolbarMenuEntry(st.Network + "." + st.Code)
		button.ClickedEvent.AddHandler(func(args any) {
			app.openSeismogram(st, app.getWidgetRect())
		})
		stationButtons[i] = button
	}
	menuButton.ClickedEvent.AddHandler(func(args any) {
		openToolbarMenu(menuButton.GetWidget(), app.ui, stationButtons...)
	})
	return menuButton
}

func newToolbarButton(label string) *widget.Button {
	return widget.NewButton(
		widget.ButtonOpts.Image(flatButtonImage(settings.MenuButtonHoverBg, settings.MenuButtonClickBg)),
		widget.ButtonOpts.Text(label, settings.FontSM, buttonTextColor()),
		widget.ButtonOpts.TextPadding(buttonPadding),
		widget.ButtonOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.RowLayoutData{
				Position: widget.RowLayoutPositionCenter,
			}),
		),
	)
}

func newToolbarMenuEntry(label string) *widget.Button {
	return widget.NewButton(
		widget.ButtonOpts.Image(flatButtonImage(settings.MenuButtonHoverBg, colornames.White)),
		widget.ButtonOpts.Text(label, settings.FontSM, buttonTextColor()),
		widget.ButtonOpts.TextPosition(widget.TextPositionStart, widget.TextPositionCenter),
		widget.ButtonOpts.TextPadding(buttonPadding),
		widget.ButtonOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.RowLayoutData{
				Stretch: true,
			}),
		),
	)
}

// openToolbarMenu pops entries up below opener. The menu is modal and any
// click closes it.
func openToolbarMenu(opener *widget.Widget, ui *ebitenui.UI, entries ...*widget.Button) {
	menu := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(image.NewNineSliceColor(settings.BackgroundColor)),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(4),
			widget.RowLayoutOpts.Padding(widget.Insets{Top: 1, Bottom: 1}),
		)),
		widget.ContainerOpts.WidgetOpts(widget.WidgetOpts.MinSize(scaled(64), 0)),
	)
	for _, entry := range entries {
		menu.AddChild(entry)
	}

	w, h := menu.PreferredSize()
	at := img.Pt(opener.Rect.Min.X, opener.Rect.Max.Y)
	ui.AddWindow(widget.NewWindow(
		widget.WindowOpts.Modal(),
		widget.WindowOpts.Contents(menu),
		widget.WindowOpts.CloseMode(widget.CLICK),
		widget.WindowOpts.Location(img.Rectangle{Min: at, Max: at.Add(img.Pt(w, h))}),
	))
}
