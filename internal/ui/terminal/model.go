// Package terminal hosts the breathing timer in a terminal using Bubble Tea.
package terminal

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"breathe/internal/core/model"
	"breathe/internal/core/phasetimer"
	"breathe/internal/ui/breathing"
	"breathe/internal/ui/theme"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	// DefaultFrameInterval is the redraw cadence of the progress square.
	DefaultFrameInterval = 50 * time.Millisecond

	squareRows  = 9
	squareCols  = 19
	maxBarWidth = 48
)

// Controller is the subset of the engine driven by the terminal host.
type Controller interface {
	Snapshot() phasetimer.Snapshot
	Progress() phasetimer.Progress
	TogglePause()
	Restart()
	SwitchPattern(pattern model.Pattern) error
}

// Config configures the terminal model.
type Config struct {
	Patterns      []model.Pattern
	Style         phasetimer.ProgressStyle
	Palette       theme.Palette
	FrameInterval time.Duration
}

// Model is the Bubble Tea model of the terminal host.
type Model struct {
	controller Controller
	events     <-chan phasetimer.Event

	patterns      []model.Pattern
	style         phasetimer.ProgressStyle
	frameInterval time.Duration

	snapshot phasetimer.Snapshot
	progress phasetimer.Progress
	cycles   int
	err      error

	keys   KeyMap
	styles Styles
	help   help.Model
	bar    progress.Model
}

// New creates a terminal model. events may be nil when the caller does not
// forward engine events.
func New(controller Controller, events <-chan phasetimer.Event, config Config) *Model {
	if config.FrameInterval <= 0 {
		config.FrameInterval = DefaultFrameInterval
	}
	patterns := config.Patterns
	if len(patterns) == 0 {
		patterns = model.Patterns()
	}

	styles := NewStyles(config.Palette)
	bar := progress.New(
		progress.WithSolidFill(theme.Hex(config.Palette.Accent)),
		progress.WithoutPercentage(),
		progress.WithWidth(maxBarWidth),
	)

	return &Model{
		controller:    controller,
		events:        events,
		patterns:      patterns,
		style:         phasetimer.ParseProgressStyle(string(config.Style)),
		frameInterval: config.FrameInterval,
		snapshot:      controller.Snapshot(),
		progress:      controller.Progress(),
		keys:          DefaultKeyMap(),
		styles:        styles,
		help:          help.New(),
		bar:           bar,
	}
}

// NewProgram wraps the model in a full-screen program bound to ctx.
func NewProgram(ctx context.Context, m *Model) *tea.Program {
	return tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
}

// Init starts the event listener and the frame loop.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.events), m.frameTick())
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.bar.Width = min(maxBarWidth, max(msg.Width-8, 10))
		return m, nil

	case MsgFrame:
		m.progress = m.controller.Progress()
		return m, m.frameTick()

	case MsgEvent:
		m.applyEvent(msg.Event)
		return m, waitForEvent(m.events)

	case MsgEventsClosed:
		return m, nil

	case MsgPatternsReloaded:
		m.patterns = model.MergePatterns(msg.Patterns)
		m.reapplyPattern()
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.TogglePause):
		m.controller.TogglePause()

	case key.Matches(msg, m.keys.Restart):
		m.controller.Restart()
		m.cycles = 0

	case key.Matches(msg, m.keys.NextPattern):
		next := m.nextPattern()
		if err := m.controller.SwitchPattern(next); err != nil {
			m.err = err
			return m, nil
		}
		if next.Name != m.snapshot.PatternName {
			m.cycles = 0
		}

	case key.Matches(msg, m.keys.Style):
		if m.style == phasetimer.ProgressCumulative {
			m.style = phasetimer.ProgressPerPhase
		} else {
			m.style = phasetimer.ProgressCumulative
		}
		return m, nil

	default:
		return m, nil
	}

	m.err = nil
	m.snapshot = m.controller.Snapshot()
	m.progress = m.controller.Progress()
	return m, nil
}

func (m *Model) applyEvent(event phasetimer.Event) {
	m.snapshot = event.Snapshot
	switch event.Type {
	case phasetimer.EventCycleComplete:
		m.cycles++
	case phasetimer.EventRestarted:
		m.cycles = 0
	}
}

// reapplyPattern switches the engine to the reloaded definition of the
// active pattern. The engine ignores definitions that did not change.
func (m *Model) reapplyPattern() {
	active := m.patterns[0]
	for _, pattern := range m.patterns {
		if pattern.Name == m.snapshot.PatternName {
			active = pattern
			break
		}
	}
	if err := m.controller.SwitchPattern(active); err != nil {
		m.err = err
		return
	}
	m.snapshot = m.controller.Snapshot()
	m.progress = m.controller.Progress()
}

func (m *Model) nextPattern() model.Pattern {
	for index, pattern := range m.patterns {
		if pattern.Name == m.snapshot.PatternName {
			return m.patterns[(index+1)%len(m.patterns)]
		}
	}
	return m.patterns[0]
}

func (m *Model) frameTick() tea.Cmd {
	return tea.Tick(m.frameInterval, func(at time.Time) tea.Msg {
		return MsgFrame{At: at}
	})
}

func waitForEvent(events <-chan phasetimer.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return MsgEventsClosed{}
		}
		return MsgEvent{Event: event}
	}
}

// View renders the model.
func (m *Model) View() string {
	var sections []string
	sections = append(sections, m.styles.Title.Render(m.title()))

	if m.snapshot.Mode == phasetimer.ModeCountdown {
		sections = append(sections, m.styles.Countdown.Render(breathing.CountdownText(m.snapshot)))
	} else {
		sections = append(sections, m.renderSquare())
		sections = append(sections, m.bar.ViewAs(m.progress.For(m.style)))
	}

	sections = append(sections, m.status())
	if m.err != nil {
		sections = append(sections, m.styles.Error.Render(m.err.Error()))
	}
	sections = append(sections, m.help.View(m.keys))

	return m.styles.App.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) title() string {
	name := m.snapshot.PatternName
	for _, pattern := range m.patterns {
		if pattern.Name == name {
			name = pattern.Title
			break
		}
	}
	return fmt.Sprintf("%s · %s", name, styleTitle(m.style))
}

func (m *Model) status() string {
	if m.snapshot.Mode == phasetimer.ModeCountdown {
		return m.styles.Seconds.Render("Приготовьтесь")
	}
	status := fmt.Sprintf("Циклов: %d", m.cycles)
	if m.snapshot.Paused {
		return m.styles.Paused.Render(status + " · пауза")
	}
	return m.styles.Seconds.Render(status)
}

func (m *Model) renderSquare() string {
	grid := SquareCells(breathing.SideFills(m.style, m.progress), squareRows, squareCols)
	labelRow := squareRows/2 - 1
	secondsRow := labelRow + 2

	lines := make([]string, squareRows)
	for row := range grid {
		var line strings.Builder
		line.WriteString(m.cell(grid[row][0]))
		switch row {
		case 0, squareRows - 1:
			for col := 1; col < squareCols-1; col++ {
				line.WriteString(m.cell(grid[row][col]))
			}
		case labelRow:
			line.WriteString(m.styles.Phase.Render(lipgloss.PlaceHorizontal(squareCols-2, lipgloss.Center, m.snapshot.PhaseLabel)))
		case secondsRow:
			line.WriteString(m.styles.Seconds.Render(lipgloss.PlaceHorizontal(squareCols-2, lipgloss.Center, breathing.SecondsText(m.snapshot))))
		default:
			line.WriteString(strings.Repeat(" ", squareCols-2))
		}
		line.WriteString(m.cell(grid[row][squareCols-1]))
		lines[row] = line.String()
	}
	return strings.Join(lines, "\n")
}

func (m *Model) cell(filled bool) string {
	if filled {
		return m.styles.Filled.Render("█")
	}
	return m.styles.Empty.Render("░")
}

// SquareCells marks the perimeter cells of a rows x cols square lit by fills.
// Sides fill left bottom-to-top, top left-to-right, right top-to-bottom and
// bottom right-to-left.
func SquareCells(fills [breathing.Sides]float64, rows, cols int) [][]bool {
	grid := make([][]bool, rows)
	for row := range grid {
		grid[row] = make([]bool, cols)
	}

	lit := func(fill float64, length int) int {
		return int(math.Round(fill * float64(length)))
	}

	for step := 0; step < lit(fills[breathing.SideLeft], rows); step++ {
		grid[rows-1-step][0] = true
	}
	for step := 0; step < lit(fills[breathing.SideTop], cols); step++ {
		grid[0][step] = true
	}
	for step := 0; step < lit(fills[breathing.SideRight], rows); step++ {
		grid[step][cols-1] = true
	}
	for step := 0; step < lit(fills[breathing.SideBottom], cols); step++ {
		grid[rows-1][cols-1-step] = true
	}
	return grid
}

func styleTitle(style phasetimer.ProgressStyle) string {
	if style == phasetimer.ProgressCumulative {
		return "за весь цикл"
	}
	return "по фазам"
}
