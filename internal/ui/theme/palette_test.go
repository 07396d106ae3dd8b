package theme

import (
	"image/color"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	fynetheme "fyne.io/fyne/v2/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		input   string
		want    color.NRGBA
		wantErr bool
	}{
		{input: "#2563eb", want: color.NRGBA{R: 0x25, G: 0x63, B: 0xeb, A: 0xff}},
		{input: "fff", want: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}},
		{input: "#11223380", want: color.NRGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x80}},
		{input: "", wantErr: true},
		{input: "#12345", wantErr: true},
		{input: "#zzzzzz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseHex(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHex(t *testing.T) {
	assert.Equal(t, "#2563eb", Hex(color.NRGBA{R: 0x25, G: 0x63, B: 0xeb, A: 0x80}))
	parsed, err := ParseHex(Hex(color.NRGBA{R: 1, G: 2, B: 3, A: 0xff}))
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 1, G: 2, B: 3, A: 0xff}, parsed)
}

func TestResolveFallbacks(t *testing.T) {
	palette := Resolve(Params{})

	assert.Equal(t, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, palette.Background)
	assert.Equal(t, color.NRGBA{R: 0x0f, G: 0x17, B: 0x2a, A: 0xff}, palette.Text)
	assert.Equal(t, color.NRGBA{R: 0x64, G: 0x74, B: 0x8b, A: 0xff}, palette.Muted)
	assert.Equal(t, palette.Accent, palette.Button)
	assert.False(t, palette.IsDark())
}

func TestResolveButtonFallsBackToLink(t *testing.T) {
	palette := Resolve(Params{LinkColor: "#ff0000", ButtonColor: "not a color"})
	assert.Equal(t, color.NRGBA{R: 0xff, A: 0xff}, palette.Button)

	palette = Resolve(Params{LinkColor: "#ff0000", ButtonColor: "#00ff00"})
	assert.Equal(t, color.NRGBA{G: 0xff, A: 0xff}, palette.Button)
}

func TestThemeColors(t *testing.T) {
	test.NewTempApp(t)
	current := New(Params{BackgroundColor: "#17212b", TextColor: "#f5f5f5", ButtonTextColor: "#000000"})
	require.True(t, current.Palette().IsDark())

	assert.Equal(t, current.Palette().Background, current.Color(fynetheme.ColorNameBackground, fynetheme.VariantLight))
	assert.Equal(t, current.Palette().Text, current.Color(fynetheme.ColorNameForeground, fynetheme.VariantLight))
	assert.Equal(t, current.Palette().ButtonText, current.Color(fynetheme.ColorNameForegroundOnPrimary, fynetheme.VariantLight))
	assert.Equal(t,
		fynetheme.DefaultTheme().Color(fynetheme.ColorNameSeparator, fynetheme.VariantDark),
		current.Color(fynetheme.ColorNameSeparator, fynetheme.VariantLight))
	assert.Equal(t, fynetheme.DefaultTheme().Size(fynetheme.SizeNamePadding), current.Size(fynetheme.SizeNamePadding))
	assert.NotNil(t, current.Font(fyne.TextStyle{Bold: true}))
}
