package settings

import (
	"image/color"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/shiny/materialdesign/colornames"
	"golang.org/x/image/font/basicfont"
)

var (
	Scale = float32(ebiten.Monitor().DeviceScaleFactor())

	// Colors
	Black = color.RGBA{12, 14, 17, 255}
	Green = color.RGBA{45, 189, 133, 255}
	Red   = color.RGBA{246, 71, 93, 255}

	// APP
	BackgroundColor  = Black
	BackgroundColor2 = color.RGBA{23, 26, 32, 255}

	// App header
	AppHeaderHeight = 40 * Scale

	// App footer
	AppFooterHeight = 24 * Scale

	PanelBackgroundColor = BackgroundColor2
	PanelHeaderHeight    = 40 * Scale
	PanelPadding         = 12 * Scale

	ButtonIdleColor    = color.RGBA{42, 49, 57, 1}
	ButtonHoverColor   = color.RGBA{42, 49, 57, 100}
	ButtonPressedColor = color.RGBA{42, 49, 57, 200}

	FontSM   text.Face
	FontBase text.Face

	// Buttons
	PickButton = ebiten.MouseButtonLeft

	MenuButtonHoverBg         = colornames.Orange300
	MenuButtonClickBg         = colornames.Orange600
	MenuButtonTextColorIdle   = colornames.White
	MenuButtonTextColorActive = colornames.Orange600

	StatusLoadingColor = colornames.Amber300
	StatusLateColor    = Red

	// Theming for now. Will add the other colors in here later.
	ColorPrimary        = colornames.Orange300
	ColorPrimaryLighter = colornames.Orange100
	ColorPrimaryDarker  = colornames.Orange600

	// HelicorderIntervals are the row lengths in minutes offered by the
	// interval dropdown. They must be sampled by the feed to fill rows.
	HelicorderIntervals = []IntervalConfig{
		{Interval: 5, Disabled: true},
		{Interval: 15},
		{Interval: 30},
		{Interval: 60},
	}
	HelicorderDurations = []int{1, 6, 12, 24}

	// Channels with a latency above this are flagged in the status bar.
	LateThresholdSeconds = 30.0

	FontPath = "assets/jetbrains.ttf"
)

type IntervalConfig struct {
	Interval int64
	Disabled bool
}

func init() {
	FontSM = loadFontOrDefault(12)
	FontBase = loadFontOrDefault(13)
}

func loadFontOrDefault(size float64) text.Face {
	face, err := LoadFont(size)
	if err != nil {
		log.WithError(err).WithField("path", FontPath).Debug("falling back to the built in font")
		return text.NewGoXFace(basicfont.Face7x13)
	}
	return face
}

func LoadFont(size float64) (text.Face, error) {
	b, err := os.Open(FontPath)
	if err != nil {
		return nil, err
	}
	defer b.Close()
	s, err := text.NewGoTextFaceSource(b)
	if err != nil {
		return nil, err
	}

	return &text.GoTextFace{
		Source: s,
		Size:   size * ebiten.Monitor().DeviceScaleFactor(),
	}, nil
}
