package gui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"github.com/mscrnt/vdash/pkg/classify"
)

// DashDarkTheme implements the dark theme for the VDash control panel
type DashDarkTheme struct{}

func (m DashDarkTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameBackground:
		return color.RGBA{0x11, 0x11, 0x11, 0xff} // Very dark grey
	case theme.ColorNameButton:
		return color.RGBA{0x21, 0x21, 0x21, 0xff}
	case theme.ColorNameDisabledButton:
		return color.RGBA{0x15, 0x15, 0x15, 0xff}
	case theme.ColorNameForeground:
		return color.RGBA{0xff, 0xff, 0xff, 0xff} // White text
	case theme.ColorNameHover:
		return color.RGBA{0x31, 0x31, 0x31, 0xff}
	case theme.ColorNameInputBackground:
		return color.RGBA{0x21, 0x21, 0x21, 0xff}
	case theme.ColorNamePlaceHolder:
		return color.RGBA{0x88, 0x88, 0x88, 0xff}
	case theme.ColorNamePressed:
		return color.RGBA{0x41, 0x41, 0x41, 0xff}
	case theme.ColorNameScrollBar:
		return color.RGBA{0x31, 0x31, 0x31, 0xff}
	case theme.ColorNameShadow:
		return color.RGBA{0x00, 0x00, 0x00, 0x66}
	case theme.ColorNameDisabled:
		return color.RGBA{0x55, 0x55, 0x55, 0xff}
	case theme.ColorNameError:
		return color.RGBA{0xf4, 0x43, 0x36, 0xff}
	case theme.ColorNameFocus:
		return color.RGBA{0x00, 0x7a, 0xcc, 0xff} // Instrument blue
	case theme.ColorNameInputBorder:
		return color.RGBA{0x31, 0x31, 0x31, 0xff}
	case theme.ColorNameMenuBackground:
		return color.RGBA{0x21, 0x21, 0x21, 0xff}
	case theme.ColorNameOverlayBackground:
		return color.RGBA{0x11, 0x11, 0x11, 0xcc}
	case theme.ColorNamePrimary:
		return color.RGBA{0x00, 0x7a, 0xcc, 0xff} // Instrument blue
	case theme.ColorNameSeparator:
		return color.RGBA{0x31, 0x31, 0x31, 0xff}
	case theme.ColorNameSuccess:
		return color.RGBA{0x4c, 0xaf, 0x50, 0xff}
	case theme.ColorNameWarning:
		return color.RGBA{0xff, 0x98, 0x00, 0xff}
	}
	return theme.DefaultTheme().Color(name, variant)
}

func (m DashDarkTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (m DashDarkTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (m DashDarkTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 14
	case theme.SizeNameHeadingText:
		return 24
	case theme.SizeNameSubHeadingText:
		return 16
	case theme.SizeNamePadding:
		return 4 // Compact display
	case theme.SizeNameInnerPadding:
		return 2
	case theme.SizeNameScrollBar:
		return 14
	case theme.SizeNameScrollBarSmall:
		return 3
	case theme.SizeNameSeparatorThickness:
		return 1
	case theme.SizeNameLineSpacing:
		return 3
	case theme.SizeNameInputBorder:
		return 1
	}
	return theme.DefaultTheme().Size(name)
}

// Severity band colors
var (
	ColorNormal  = color.RGBA{0x00, 0xcc, 0x44, 0xff} // Green
	ColorWarning = color.RGBA{0xff, 0xcc, 0x00, 0xff} // Yellow
	ColorDanger  = color.RGBA{0xff, 0x00, 0x00, 0xff} // Red
)

// Accent colors for charts and gauges
var (
	ColorSpeedLine    = color.RGBA{0x00, 0x7a, 0xcc, 0xff} // Blue
	ColorRPMLine      = color.RGBA{0xff, 0x66, 0x00, 0xff} // Orange
	ColorSteeringLine = color.RGBA{0x00, 0xcc, 0xcc, 0xff} // Cyan
	ColorPedalLine    = color.RGBA{0x00, 0xcc, 0x88, 0xff} // Teal
)

// UI colors
var ColorCardBackground = color.RGBA{0x22, 0x22, 0x22, 0xff} // #222222

// BandColor maps a severity band to its display color.
func BandColor(band classify.Band) color.Color {
	switch band {
	case classify.BandWarning:
		return ColorWarning
	case classify.BandDanger:
		return ColorDanger
	default:
		return ColorNormal
	}
}
