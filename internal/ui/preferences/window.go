package preferences

import (
	"breathe/internal/core/model"
	"breathe/internal/core/phasetimer"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

var styleTitles = map[phasetimer.ProgressStyle]string{
	phasetimer.ProgressPerPhase:   "По фазам",
	phasetimer.ProgressCumulative: "За весь цикл",
}

// Window handles the preferences UI.
type Window struct {
	window    fyne.Window
	settings  Settings
	patterns  []model.Pattern
	onSave    func(Settings)
	pattern   *widget.Select
	style     *widget.RadioGroup
	haptics   *widget.Check
	analytics *widget.Check
	autostart *widget.Check
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, patterns []model.Pattern, onSave func(Settings)) *Window {
	window := app.NewWindow("Настройки")

	titles := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		titles = append(titles, pattern.Title)
	}

	prefs := &Window{
		window:    window,
		patterns:  patterns,
		onSave:    onSave,
		pattern:   widget.NewSelect(titles, nil),
		style:     widget.NewRadioGroup([]string{styleTitles[phasetimer.ProgressPerPhase], styleTitles[phasetimer.ProgressCumulative]}, nil),
		haptics:   widget.NewCheck("Тактильный отклик при смене фазы", nil),
		analytics: widget.NewCheck("Сохранять статистику сессий", nil),
		autostart: widget.NewCheck("Запускать при входе в систему", nil),
	}
	prefs.style.Required = true
	prefs.UpdateSettings(settings)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Дыхание", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel("Техника"),
		prefs.pattern,
		widget.NewLabel("Прогресс"),
		prefs.style,
		widget.NewLabelWithStyle("Общие", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.haptics,
		prefs.analytics,
		prefs.autostart,
	)

	saveButton := widget.NewButton("Сохранить", prefs.handleSave)
	saveButton.Importance = widget.HighImportance
	cancelButton := widget.NewButton("Отмена", window.Hide)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(380, 360))

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.pattern.SetSelected(settings.Pattern(prefs.patterns).Title)
	prefs.style.SetSelected(styleTitles[settings.ProgressStyle])
	prefs.haptics.SetChecked(settings.HapticsEnabled)
	prefs.analytics.SetChecked(settings.AnalyticsEnabled)
	prefs.autostart.SetChecked(settings.Autostart)
}

func (prefs *Window) collect() Settings {
	settings := prefs.settings

	for _, pattern := range prefs.patterns {
		if pattern.Title == prefs.pattern.Selected {
			settings.PatternName = pattern.Name
			break
		}
	}
	for style, title := range styleTitles {
		if title == prefs.style.Selected {
			settings.ProgressStyle = style
		}
	}

	settings.HapticsEnabled = prefs.haptics.Checked
	settings.AnalyticsEnabled = prefs.analytics.Checked
	settings.Autostart = prefs.autostart.Checked
	return settings
}

func (prefs *Window) handleSave() {
	settings := prefs.collect()
	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}
