package theme

import (
	"image/color"

	"fyne.io/fyne/v2"
	fynetheme "fyne.io/fyne/v2/theme"
)

var _ fyne.Theme = (*Theme)(nil)

// Theme overrides the default Fyne colors with a Palette.
type Theme struct {
	palette Palette
	base    fyne.Theme
}

// New creates a Fyne theme from host parameters.
func New(params Params) *Theme {
	return &Theme{palette: Resolve(params), base: fynetheme.DefaultTheme()}
}

// Palette returns the resolved colors.
func (current *Theme) Palette() Palette {
	return current.palette
}

// Color implements fyne.Theme. The host palette wins over the requested variant.
func (current *Theme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case fynetheme.ColorNameBackground, fynetheme.ColorNameOverlayBackground, fynetheme.ColorNameMenuBackground:
		return current.palette.Background
	case fynetheme.ColorNameForeground:
		return current.palette.Text
	case fynetheme.ColorNamePlaceHolder, fynetheme.ColorNameDisabled:
		return current.palette.Muted
	case fynetheme.ColorNamePrimary, fynetheme.ColorNameHyperlink, fynetheme.ColorNameFocus:
		return current.palette.Accent
	case fynetheme.ColorNameButton:
		return current.palette.Button
	case fynetheme.ColorNameForegroundOnPrimary:
		return current.palette.ButtonText
	}

	if current.palette.IsDark() {
		variant = fynetheme.VariantDark
	} else {
		variant = fynetheme.VariantLight
	}
	return current.base.Color(name, variant)
}

// Font implements fyne.Theme.
func (current *Theme) Font(style fyne.TextStyle) fyne.Resource {
	return current.base.Font(style)
}

// Icon implements fyne.Theme.
func (current *Theme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return current.base.Icon(name)
}

// Size implements fyne.Theme.
func (current *Theme) Size(name fyne.ThemeSizeName) float32 {
	return current.base.Size(name)
}
