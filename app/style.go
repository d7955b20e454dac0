package app

import (
	"image/color"

	"seischart/settings"

	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"golang.org/x/image/colornames"
)

var disabledColor = color.NRGBA{100, 100, 100, 255}

// buttonPadding is the text padding shared by toolbar buttons, menu
// entries and dropdowns.
var buttonPadding = widget.Insets{Top: 4, Left: 12, Right: 12, Bottom: 4}

// scaled converts logical pixels to device pixels.
func scaled(px float32) int {
	return int(px * settings.Scale)
}

func flatButtonImage(hover, pressed color.Color) *widget.ButtonImage {
	return &widget.ButtonImage{
		Idle:     image.NewNineSliceColor(color.Transparent),
		Hover:    image.NewNineSliceColor(hover),
		Pressed:  image.NewNineSliceColor(pressed),
		Disabled: image.NewNineSliceColor(disabledColor),
	}
}

// buttonTextColor returns a fresh value so callers can recolor the idle
// text of one button without touching the others.
func buttonTextColor() *widget.ButtonTextColor {
	return &widget.ButtonTextColor{
		Idle:     color.White,
		Disabled: colornames.Gray,
		Hover:    color.Black,
		Pressed:  color.Black,
	}
}

func listEntryColor() *widget.ListEntryColor {
	return &widget.ListEntryColor{
		Selected:                   settings.Black,
		Unselected:                 color.White,
		SelectingBackground:        settings.ColorPrimaryDarker,
		SelectingFocusedBackground: settings.Black,
		SelectedBackground:         settings.ColorPrimaryLighter,
		SelectedFocusedBackground:  settings.ColorPrimary,
		FocusedBackground:          settings.ColorPrimary,
		DisabledUnselected:         disabledColor,
		DisabledSelected:           disabledColor,
		DisabledSelectedBackground: disabledColor,
	}
}
