// Package theme maps host theme parameters onto a Fyne theme.
package theme

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Fallback colors used when a parameter is missing or malformed.
const (
	DefaultBackground = "#ffffff"
	DefaultText       = "#0f172a"
	DefaultHint       = "#64748b"
	DefaultLink       = "#2563eb"
	DefaultButtonText = "#ffffff"
)

// Params are the theme parameters supplied by the host, keyed the way the
// messenger mini-app bridge names them.
type Params struct {
	BackgroundColor string `yaml:"bg_color"`
	TextColor       string `yaml:"text_color"`
	HintColor       string `yaml:"hint_color"`
	LinkColor       string `yaml:"link_color"`
	ButtonColor     string `yaml:"button_color"`
	ButtonTextColor string `yaml:"button_text_color"`
}

// Palette is the resolved set of colors.
type Palette struct {
	Background color.NRGBA
	Text       color.NRGBA
	Muted      color.NRGBA
	Accent     color.NRGBA
	Button     color.NRGBA
	ButtonText color.NRGBA
}

// Resolve applies fallbacks and parses every parameter. The button color
// falls back to the link color before the default accent.
func Resolve(params Params) Palette {
	link := parseOr(params.LinkColor, DefaultLink)
	button := link
	if parsed, err := ParseHex(params.ButtonColor); err == nil {
		button = parsed
	}

	return Palette{
		Background: parseOr(params.BackgroundColor, DefaultBackground),
		Text:       parseOr(params.TextColor, DefaultText),
		Muted:      parseOr(params.HintColor, DefaultHint),
		Accent:     link,
		Button:     button,
		ButtonText: parseOr(params.ButtonTextColor, DefaultButtonText),
	}
}

// ParseHex parses #rgb, #rrggbb and #rrggbbaa colors.
func ParseHex(value string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("parse color %q: unexpected length", value)
	}

	raw, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("parse color %q: %w", value, err)
	}
	return color.NRGBA{
		R: uint8(raw >> 24),
		G: uint8(raw >> 16),
		B: uint8(raw >> 8),
		A: uint8(raw),
	}, nil
}

// IsDark reports whether the background is closer to black than white.
func (palette Palette) IsDark() bool {
	background := palette.Background
	luma := 0.2126*float64(background.R) + 0.7152*float64(background.G) + 0.0722*float64(background.B)
	return luma < 128
}

func parseOr(value, fallback string) color.NRGBA {
	if parsed, err := ParseHex(value); err == nil {
		return parsed
	}
	parsed, _ := ParseHex(fallback)
	return parsed
}

// Hex formats an opaque color as #rrggbb.
func Hex(value color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", value.R, value.G, value.B)
}
