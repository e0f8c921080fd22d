package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

const darkModePref = "dark_mode"

// fixedVariantTheme pins the base theme to one variant so the toggle wins
// over the OS preference.
type fixedVariantTheme struct {
	fyne.Theme
	variant fyne.ThemeVariant
}

func (t *fixedVariantTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return t.Theme.Color(name, t.variant)
}

func applyStoredTheme(a fyne.App) {
	variant := theme.VariantLight
	if a.Preferences().BoolWithFallback(darkModePref, true) {
		variant = theme.VariantDark
	}
	a.Settings().SetTheme(&fixedVariantTheme{Theme: theme.DefaultTheme(), variant: variant})
}

func toggleDarkMode(a fyne.App) {
	dark := a.Preferences().BoolWithFallback(darkModePref, true)
	a.Preferences().SetBool(darkModePref, !dark)
	applyStoredTheme(a)
}
