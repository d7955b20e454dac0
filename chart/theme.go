package chart

import (
	"image/color"

	"golang.org/x/exp/shiny/materialdesign/colornames"
)

// Theme holds every color a chart draws with. Charts receive it at
// construction and pass it down to the pieces they draw.
type Theme struct {
	Background     color.RGBA
	Grid           color.RGBA
	Text           color.RGBA
	Signal         color.RGBA
	TrackHighlight color.RGBA
	Selection      color.RGBA
	SelectionEdge  color.RGBA
	Marker         color.RGBA
	MarkerSelected color.RGBA
	Picker         color.RGBA
	PickerHandle   color.RGBA
	Crosshair      color.RGBA
	// Day boundary labels are drawn in this color.
	DateLabel color.RGBA
}

func DarkTheme() Theme {
	return Theme{
		Background:     color.RGBA{23, 26, 32, 255},
		Grid:           color.RGBA{52, 59, 71, 255},
		Text:           colornames.Grey300,
		Signal:         colornames.LightBlue300,
		TrackHighlight: withAlpha(colornames.Amber500, 40),
		Selection:      withAlpha(colornames.Orange300, 60),
		SelectionEdge:  colornames.Orange300,
		Marker:         withAlpha(colornames.Pink300, 50),
		MarkerSelected: withAlpha(colornames.PinkA200, 110),
		Picker:         withAlpha(colornames.Teal300, 60),
		PickerHandle:   colornames.Teal300,
		Crosshair:      colornames.BlueGrey400,
		DateLabel:      colornames.Amber300,
	}
}

func LightTheme() Theme {
	return Theme{
		Background:     colornames.White,
		Grid:           colornames.Grey300,
		Text:           colornames.Grey800,
		Signal:         colornames.Indigo700,
		TrackHighlight: withAlpha(colornames.Amber300, 60),
		Selection:      withAlpha(colornames.Orange500, 50),
		SelectionEdge:  colornames.Orange700,
		Marker:         withAlpha(colornames.Pink500, 40),
		MarkerSelected: withAlpha(colornames.Pink700, 90),
		Picker:         withAlpha(colornames.Teal500, 50),
		PickerHandle:   colornames.Teal700,
		Crosshair:      colornames.BlueGrey600,
		DateLabel:      colornames.DeepOrange700,
	}
}

// withAlpha returns c with alpha a, premultiplying the color channels.
func withAlpha(c color.RGBA, a uint8) color.RGBA {
	return color.RGBA{
		R: uint8(uint16(c.R) * uint16(a) / 255),
		G: uint8(uint16(c.G) * uint16(a) / 255),
		B: uint8(uint16(c.B) * uint16(a) / 255),
		A: a,
	}
}

// nrgba converts a theme color to the non-premultiplied form used by the
// rasterizer.
func nrgba(c color.RGBA) color.NRGBA {
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}
