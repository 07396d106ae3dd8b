package breathing

import (
	"context"
	"image/color"
	"sync"

	"breathe/internal/core/model"
	"breathe/internal/core/phasetimer"
	"breathe/internal/ui/animation"
	"breathe/internal/ui/theme"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Config defines window visuals.
type Config struct {
	Style   phasetimer.ProgressStyle
	Palette theme.Palette
}

// Callbacks defines the user actions forwarded to the engine.
type Callbacks struct {
	OnTogglePause   func()
	OnRestart       func()
	OnSelectPattern func(name string)
}

// Window renders engine state: the countdown digit or the breathing square.
type Window struct {
	app       fyne.App
	window    fyne.Window
	config    Config
	callbacks Callbacks
	patterns  []model.Pattern

	countdownLabel *canvas.Text
	phaseLabel     *canvas.Text
	secondsLabel   *canvas.Text
	outline        *canvas.Rectangle
	glow           *canvas.Rectangle
	bars           [Sides]*canvas.Rectangle
	countdownView  *fyne.Container
	squareView     *fyne.Container
	pauseButton    *widget.Button
	restartButton  *widget.Button
	patternSelect  *widget.Select

	pulse *animation.Engine
	reset *animation.Engine

	mu        sync.Mutex
	fills     [Sides]float64
	resetting bool
	mode      phasetimer.Mode
}

const (
	windowWidth  = float32(360)
	windowHeight = float32(480)
	barThickness = float32(6)
	squareScale  = float32(0.8)
)

// New creates the breathing window. It is not shown until Show is called.
func New(app fyne.App, config Config, patterns []model.Pattern, callbacks Callbacks) *Window {
	window := app.NewWindow("Breathe")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	countdownLabel := canvas.NewText("3", config.Palette.Text)
	countdownLabel.Alignment = fyne.TextAlignCenter
	countdownLabel.TextStyle = fyne.TextStyle{Bold: true}
	countdownLabel.TextSize = 96

	phaseLabel := canvas.NewText("", config.Palette.Text)
	phaseLabel.Alignment = fyne.TextAlignCenter
	phaseLabel.TextStyle = fyne.TextStyle{Bold: true}
	phaseLabel.TextSize = 24

	secondsLabel := canvas.NewText("", config.Palette.Muted)
	secondsLabel.Alignment = fyne.TextAlignCenter
	secondsLabel.TextSize = 40

	outline := canvas.NewRectangle(color.Transparent)
	outline.StrokeColor = config.Palette.Muted
	outline.StrokeWidth = 2
	outline.CornerRadius = 4

	glow := canvas.NewRectangle(color.Transparent)
	glow.CornerRadius = 4

	screen := &Window{
		app:            app,
		window:         window,
		config:         config,
		callbacks:      callbacks,
		patterns:       patterns,
		countdownLabel: countdownLabel,
		phaseLabel:     phaseLabel,
		secondsLabel:   secondsLabel,
		outline:        outline,
		glow:           glow,
		pulse:          animation.New(animation.DefaultConfig()),
		reset:          animation.New(animation.DefaultConfig()),
		mode:           phasetimer.ModeCountdown,
	}

	objects := []fyne.CanvasObject{glow, outline}
	for side := range screen.bars {
		bar := canvas.NewRectangle(config.Palette.Accent)
		screen.bars[side] = bar
		objects = append(objects, bar)
	}
	objects = append(objects, container.NewVBox(phaseLabel, secondsLabel))

	screen.squareView = container.New(&squareLayout{fills: screen.currentFills}, objects...)
	screen.countdownView = container.NewCenter(countdownLabel)

	screen.pauseButton = widget.NewButton(PauseLabel(false), func() {
		if screen.callbacks.OnTogglePause != nil {
			screen.callbacks.OnTogglePause()
		}
	})
	screen.pauseButton.Importance = widget.HighImportance
	screen.restartButton = widget.NewButton("Заново", func() {
		if screen.callbacks.OnRestart != nil {
			screen.callbacks.OnRestart()
		}
	})

	screen.patternSelect = widget.NewSelect(patternTitles(patterns), func(title string) {
		name, ok := patternNameForTitle(screen.patterns, title)
		if ok && screen.callbacks.OnSelectPattern != nil {
			screen.callbacks.OnSelectPattern(name)
		}
	})

	buttons := container.NewHBox(layout.NewSpacer(), screen.restartButton, screen.pauseButton, layout.NewSpacer())
	stage := container.NewStack(screen.countdownView, screen.squareView)
	content := container.NewBorder(screen.patternSelect, buttons, nil, nil, stage)

	window.SetContent(content)
	window.Resize(fyne.NewSize(windowWidth, windowHeight))
	screen.applyModeUnsafe(phasetimer.ModeCountdown)

	return screen
}

// Window exposes the underlying Fyne window.
func (screen *Window) Window() fyne.Window {
	return screen.window
}

// Show displays and focuses the window.
func (screen *Window) Show() {
	screen.window.Show()
	screen.window.RequestFocus()
}

// Hide hides the window and stops animations.
func (screen *Window) Hide() {
	screen.pulse.Stop()
	screen.reset.Stop()
	screen.window.Hide()
}

// SetPattern marks name as selected without notifying the callback twice.
func (screen *Window) SetPattern(name string) {
	for _, pattern := range screen.patterns {
		if pattern.Name == name {
			title := pattern.Title
			fyne.Do(func() {
				if screen.patternSelect.Selected != title {
					screen.patternSelect.SetSelected(title)
				}
			})
			return
		}
	}
}

// SetPatterns replaces the selectable patterns.
func (screen *Window) SetPatterns(patterns []model.Pattern) {
	fyne.Do(func() {
		screen.patterns = patterns
		screen.patternSelect.Options = patternTitles(patterns)
		screen.patternSelect.Refresh()
	})
}

// Render applies a snapshot to the text elements.
func (screen *Window) Render(snapshot phasetimer.Snapshot) {
	fyne.Do(func() {
		screen.applyModeUnsafe(snapshot.Mode)
		if snapshot.Mode == phasetimer.ModeCountdown {
			screen.countdownLabel.Text = CountdownText(snapshot)
			screen.countdownLabel.Refresh()
			screen.pauseButton.SetText(PauseLabel(false))
			screen.pauseButton.Disable()
			return
		}

		screen.phaseLabel.Text = snapshot.PhaseLabel
		screen.phaseLabel.Refresh()
		screen.secondsLabel.Text = SecondsText(snapshot)
		screen.secondsLabel.Refresh()
		screen.pauseButton.SetText(PauseLabel(snapshot.Paused))
		screen.pauseButton.Enable()
	})
}

// SetProgress redraws the square sides for progress.
func (screen *Window) SetProgress(progress phasetimer.Progress) {
	screen.mu.Lock()
	if screen.resetting {
		screen.mu.Unlock()
		return
	}
	screen.fills = SideFills(screen.config.Style, progress)
	screen.mu.Unlock()

	fyne.Do(screen.squareView.Refresh)
}

// Pulse flashes the square as visual feedback for a phase change.
func (screen *Window) Pulse(kind animation.PulseKind) {
	screen.mu.Lock()
	accent := screen.config.Palette.Accent
	screen.mu.Unlock()
	screen.pulse.Pulse(context.Background(), kind, func(intensity float64) {
		fill := accent
		fill.A = uint8(intensity * 64)
		fyne.Do(func() {
			screen.glow.FillColor = fill
			screen.glow.Refresh()
		})
	})
}

// CycleCompleted winds the cumulative square back to empty instead of
// snapping it.
func (screen *Window) CycleCompleted() {
	screen.mu.Lock()
	if screen.config.Style != phasetimer.ProgressCumulative {
		screen.mu.Unlock()
		return
	}
	screen.resetting = true
	screen.mu.Unlock()

	screen.reset.Ease(context.Background(), 1, 0, func(value float64) {
		screen.mu.Lock()
		screen.fills = SideFills(phasetimer.ProgressCumulative, phasetimer.Progress{Cumulative: value})
		screen.mu.Unlock()
		fyne.Do(screen.squareView.Refresh)
	}, func() {
		screen.mu.Lock()
		screen.resetting = false
		screen.mu.Unlock()
	})
}

// UpdateConfig updates visuals.
func (screen *Window) UpdateConfig(config Config) {
	screen.reset.Stop()
	screen.mu.Lock()
	screen.config = config
	screen.resetting = false
	screen.fills = [Sides]float64{}
	screen.mu.Unlock()

	fyne.Do(func() {
		screen.countdownLabel.Color = config.Palette.Text
		screen.phaseLabel.Color = config.Palette.Text
		screen.secondsLabel.Color = config.Palette.Muted
		screen.outline.StrokeColor = config.Palette.Muted
		for _, bar := range screen.bars {
			bar.FillColor = config.Palette.Accent
		}
		screen.countdownLabel.Refresh()
		screen.phaseLabel.Refresh()
		screen.secondsLabel.Refresh()
		screen.squareView.Refresh()
	})
}

func (screen *Window) currentFills() [Sides]float64 {
	screen.mu.Lock()
	defer screen.mu.Unlock()
	return screen.fills
}

func (screen *Window) applyModeUnsafe(mode phasetimer.Mode) {
	screen.mu.Lock()
	changed := screen.mode != mode
	screen.mode = mode
	if changed {
		screen.fills = [Sides]float64{}
		screen.resetting = false
	}
	screen.mu.Unlock()

	if mode == phasetimer.ModeCountdown {
		if changed {
			screen.reset.Stop()
		}
		screen.squareView.Hide()
		screen.countdownView.Show()
		return
	}
	screen.countdownView.Hide()
	screen.squareView.Show()
}

func patternTitles(patterns []model.Pattern) []string {
	titles := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		titles = append(titles, pattern.Title)
	}
	return titles
}

func patternNameForTitle(patterns []model.Pattern, title string) (string, bool) {
	for _, pattern := range patterns {
		if pattern.Title == title {
			return pattern.Name, true
		}
	}
	return "", false
}

// squareLayout places the outline, four progress bars and the centered
// labels. Bars grow left bottom-to-top, top left-to-right, right
// top-to-bottom and bottom right-to-left.
type squareLayout struct {
	fills func() [Sides]float64
}

func (square *squareLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) < Sides+3 {
		return
	}
	glow := objects[0]
	outline := objects[1]
	bars := objects[2 : 2+Sides]
	center := objects[2+Sides]

	side := size.Width
	if size.Height < side {
		side = size.Height
	}
	side *= squareScale
	x0 := (size.Width - side) / 2
	y0 := (size.Height - side) / 2

	glow.Move(fyne.NewPos(x0, y0))
	glow.Resize(fyne.NewSize(side, side))
	outline.Move(fyne.NewPos(x0, y0))
	outline.Resize(fyne.NewSize(side, side))

	fills := square.fills()
	half := barThickness / 2
	for index, bar := range bars {
		length := side * float32(fills[index])
		switch Side(index) {
		case SideLeft:
			bar.Move(fyne.NewPos(x0-half, y0+side-length))
			bar.Resize(fyne.NewSize(barThickness, length))
		case SideTop:
			bar.Move(fyne.NewPos(x0, y0-half))
			bar.Resize(fyne.NewSize(length, barThickness))
		case SideRight:
			bar.Move(fyne.NewPos(x0+side-half, y0))
			bar.Resize(fyne.NewSize(barThickness, length))
		case SideBottom:
			bar.Move(fyne.NewPos(x0+side-length, y0+side-half))
			bar.Resize(fyne.NewSize(length, barThickness))
		}
	}

	centerSize := center.MinSize()
	center.Move(fyne.NewPos((size.Width-centerSize.Width)/2, (size.Height-centerSize.Height)/2))
	center.Resize(centerSize)
}

func (square *squareLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	if len(objects) < Sides+3 {
		return fyne.NewSize(0, 0)
	}
	centerSize := objects[2+Sides].MinSize()
	side := centerSize.Width
	if centerSize.Height > side {
		side = centerSize.Height
	}
	side = side/squareScale + barThickness*2
	return fyne.NewSize(side, side)
}
