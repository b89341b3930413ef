package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"layout-editor/pkg/colorutil"
)

// EditorTheme keeps the chrome dark so the camera frame stands out.
type EditorTheme struct{}

var _ fyne.Theme = (*EditorTheme)(nil)

func (t *EditorTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameBackground:
		return colorutil.HeaderBackground
	case theme.ColorNamePrimary:
		return colorutil.HomeBorder // matches the home cell outline
	case theme.ColorNameSeparator:
		return colorutil.HeaderRule
	default:
		return theme.DefaultTheme().Color(name, theme.VariantDark)
	}
}

func (t *EditorTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *EditorTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *EditorTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 2 // the frame should use as much of the window as possible
	default:
		return theme.DefaultTheme().Size(name)
	}
}
