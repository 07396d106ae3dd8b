package tray

import (
	"testing"

	"breathe/internal/core/model"
	"breathe/internal/core/phasetimer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusText(t *testing.T) {
	tests := []struct {
		name     string
		snapshot phasetimer.Snapshot
		want     string
	}{
		{
			name:     "countdown",
			snapshot: phasetimer.Snapshot{Mode: phasetimer.ModeCountdown, CountdownRemaining: 2},
			want:     "Старт через 2",
		},
		{
			name:     "breathing",
			snapshot: phasetimer.Snapshot{Mode: phasetimer.ModeBreathing, PhaseLabel: "Вдох", SecondsRemaining: 3},
			want:     "Вдох: 3",
		},
		{
			name:     "paused",
			snapshot: phasetimer.Snapshot{Mode: phasetimer.ModeBreathing, PhaseLabel: "Выдох", SecondsRemaining: 1, Paused: true},
			want:     "Выдох: 1 (пауза)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusText(tt.snapshot))
		})
	}
}

func TestRenderTogglesPauseItem(t *testing.T) {
	manager := New(nil, model.Patterns(), model.DefaultPatternName, Callbacks{})
	assert.True(t, manager.pauseItem.Disabled)

	manager.Render(phasetimer.Snapshot{Mode: phasetimer.ModeBreathing, PhaseLabel: "Вдох", SecondsRemaining: 4})
	assert.False(t, manager.pauseItem.Disabled)
	assert.Equal(t, "Пауза", manager.pauseItem.Label)
	assert.Equal(t, "Вдох: 4", manager.statusItem.Label)

	manager.Render(phasetimer.Snapshot{Mode: phasetimer.ModeBreathing, PhaseLabel: "Вдох", SecondsRemaining: 4, Paused: true})
	assert.Equal(t, "Продолжить", manager.pauseItem.Label)
}

func TestPatternMenuMarksSelection(t *testing.T) {
	var picked string
	manager := New(nil, model.Patterns(), model.DefaultPatternName, Callbacks{
		OnSelectPattern: func(name string) { picked = name },
	})

	items := manager.patternItem.ChildMenu.Items
	require.Len(t, items, len(model.Patterns()))
	assert.True(t, items[0].Checked)

	manager.SetPattern("4-7-8")
	items = manager.patternItem.ChildMenu.Items
	for index, pattern := range model.Patterns() {
		assert.Equal(t, pattern.Name == "4-7-8", items[index].Checked, pattern.Name)
	}

	items[1].Action()
	assert.Equal(t, model.Patterns()[1].Name, picked)
}

func TestSetPatternsRebuildsMenu(t *testing.T) {
	manager := New(nil, model.Patterns()[:1], model.DefaultPatternName, Callbacks{})
	require.Len(t, manager.patternItem.ChildMenu.Items, 1)

	custom := model.Pattern{Name: "calm", Title: "Calm", Phases: []model.Phase{{Key: "inhale", Seconds: 3}}}
	manager.SetPatterns(append(model.Patterns(), custom))
	items := manager.patternItem.ChildMenu.Items
	require.Len(t, items, len(model.Patterns())+1)
	assert.Equal(t, "Calm", items[len(items)-1].Label)
	assert.True(t, items[0].Checked)
}
