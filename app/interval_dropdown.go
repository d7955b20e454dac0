package app

import (
	"fmt"

	"seischart/settings"

	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
)

func intervalDropdown(selected int64, selectFn func(int64)) *widget.ListComboButton {
	entries := []any{}
	for _, entry := range settings.HelicorderIntervals {
		if !entry.Disabled {
			entries = append(entries, entry.Interval)
		}
	}
	return toolbarDropdown(entries, selected,
		func(e any) string { return RowInterval(e.(int64)).String() },
		func(e any) { selectFn(e.(int64)) },
	)
}

func durationDropdown(selected int, selectFn func(int)) *widget.ListComboButton {
	entries := []any{}
	for _, hours := range settings.HelicorderDurations {
		entries = append(entries, hours)
	}
	return toolbarDropdown(entries, selected,
		func(e any) string { return fmt.Sprintf("%dH", e.(int)) },
		func(e any) { selectFn(e.(int)) },
	)
}

// toolbarDropdown is a compact combo button listing entries. label turns
// an entry into its display text.
func toolbarDropdown(entries []any, selected any, label func(any) string, selectFn func(any)) *widget.ListComboButton {
	button := widget.ComboButtonOpts.ButtonOpts(
		widget.ButtonOpts.Image(flatButtonImage(settings.ColorPrimary, settings.ColorPrimaryDarker)),
		widget.ButtonOpts.Text("", settings.FontSM, buttonTextColor()),
		widget.ButtonOpts.TextPadding(buttonPadding),
		widget.ButtonOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.RowLayoutData{
				Position: widget.RowLayoutPositionCenter,
			}),
		),
	)
	slider := widget.ListOpts.SliderOpts(
		widget.SliderOpts.Images(&widget.SliderTrackImage{
			Idle:  image.NewNineSliceColor(settings.Green),
			Hover: image.NewNineSliceColor(disabledColor),
		}, flatButtonImage(disabledColor, disabledColor)),
		widget.SliderOpts.MinHandleSize(0),
		widget.SliderOpts.TrackPadding(widget.NewInsetsSimple(0)),
	)

	comboBox := widget.NewListComboButton(
		widget.ListComboButtonOpts.SelectComboButtonOpts(
			widget.SelectComboButtonOpts.ComboButtonOpts(
				widget.ComboButtonOpts.MaxContentHeight(300),
				button,
			),
		),
		widget.ListComboButtonOpts.ListOpts(
			widget.ListOpts.Entries(entries),
			widget.ListOpts.ScrollContainerOpts(
				widget.ScrollContainerOpts.Image(&widget.ScrollContainerImage{
					Idle: image.NewNineSliceColor(settings.BackgroundColor),
					Mask: image.NewNineSliceColor(settings.Black),
				}),
				widget.ScrollContainerOpts.Padding(widget.NewInsetsSimple(scaled(6))),
			),
			slider,
			widget.ListOpts.EntryFontFace(settings.FontSM),
			widget.ListOpts.EntryColor(listEntryColor()),
			widget.ListOpts.EntryTextPadding(widget.NewInsetsSimple(5)),
		),
		widget.ListComboButtonOpts.EntryLabelFunc(label, label),
		widget.ListComboButtonOpts.EntrySelectedHandler(func(args *widget.ListComboButtonEntrySelectedEventArgs) {
			selectFn(args.Entry)
		}),
	)
	comboBox.SetSelectedEntry(selected)

	return comboBox
}
