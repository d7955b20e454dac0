package app

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"seischart/ingest"
	"seischart/settings"

	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
)

type StatusBarWidget struct {
	*widget.Container

	fpsLabel    *widget.Text
	statusLabel *widget.Text
}

func NewStatusBarWidget() *StatusBarWidget {
	container := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(
			image.NewNineSliceColor(settings.PanelBackgroundColor),
		),
		widget.ContainerOpts.Layout(widget.NewAnchorLayout(
			widget.AnchorLayoutOpts.Padding(widget.Insets{
				Left:  int(settings.PanelPadding),
				Right: int(settings.PanelPadding),
			}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(0, int(settings.AppFooterHeight)),
		),
	)
	fpsLabel := widget.NewText(
		widget.TextOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				VerticalPosition:   widget.AnchorLayoutPositionCenter,
				HorizontalPosition: widget.AnchorLayoutPositionStart,
			}),
		),
		widget.TextOpts.Text("60", settings.FontSM, color.White),
	)
	statusLabel := widget.NewText(
		widget.TextOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				VerticalPosition:   widget.AnchorLayoutPositionCenter,
				HorizontalPosition: widget.AnchorLayoutPositionEnd,
			}),
		),
		widget.TextOpts.Text("", settings.FontSM, color.White),
	)
	container.AddChild(fpsLabel, statusLabel)

	return &StatusBarWidget{
		Container:   container,
		fpsLabel:    fpsLabel,
		statusLabel: statusLabel,
	}
}

// SetStatus shows s on the right of the bar.
func (w *StatusBarWidget) SetStatus(s string, c color.Color) {
	w.statusLabel.Label = s
	w.statusLabel.Color = c
}

func (w *StatusBarWidget) Render(screen *ebiten.Image) {
	w.Container.Render(screen)

	fps := ebiten.ActualFPS()
	w.fpsLabel.Label = fmt.Sprintf("FPS %d", int(fps))
}

func (w *StatusBarWidget) PreferredSize() (int, int) {
	return 0, int(settings.AppFooterHeight)
}

// statusLine summarizes the open views: how many are still rendering and
// the worst feed latency reported for their channels.
func (app *App) statusLine() (string, color.Color) {
	loading := 0
	var worst time.Duration
	worstChannel := ""
	for _, v := range app.views {
		if v.widget.IsLoading() {
			loading++
		}
		for _, ch := range ingest.Channels(app.config) {
			st, ok := v.sink.Status(ch)
			if ok && st.Latency > worst {
				worst = st.Latency
				worstChannel = ch.String()
			}
		}
	}

	c := color.Color(color.White)
	parts := []string{fmt.Sprintf("%d views", len(app.views))}
	if loading > 0 {
		c = settings.StatusLoadingColor
		parts = append(parts, fmt.Sprintf("%d loading", loading))
	}
	if worstChannel != "" {
		latency := worst.Truncate(100 * time.Millisecond)
		if worst > time.Duration(settings.LateThresholdSeconds*float64(time.Second)) {
			parts = append(parts, fmt.Sprintf("%s late %s", worstChannel, latency))
			c = settings.StatusLateColor
		} else {
			parts = append(parts, fmt.Sprintf("latency %s", latency))
		}
	}
	return strings.Join(parts, "  |  "), c
}
