package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestTabs_Switching(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.KeyMsg
		want int
	}{
		{"tab", []tea.KeyMsg{{Type: tea.KeyTab}}, TabSession},
		{"tab wraps", []tea.KeyMsg{{Type: tea.KeyTab}, {Type: tea.KeyTab}, {Type: tea.KeyTab}}, TabChat},
		{"shift+tab wraps", []tea.KeyMsg{{Type: tea.KeyShiftTab}}, TabLogs},
		{"digit", []tea.KeyMsg{{Type: tea.KeyRunes, Runes: []rune("3")}}, TabLogs},
		{"unknown digit", []tea.KeyMsg{{Type: tea.KeyRunes, Runes: []rune("9")}}, TabChat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tabs := NewTabs(DefaultTabs())
			for _, k := range tt.keys {
				tabs.Update(k)
			}
			if tabs.Active() != tt.want {
				t.Errorf("Active() = %d, want %d", tabs.Active(), tt.want)
			}
		})
	}
}

func TestTabs_Notify(t *testing.T) {
	tabs := NewTabs(DefaultTabs())

	tabs.Notify(TabChat)
	if tabs.Unseen(TabChat) {
		t.Error("the active tab should never be marked")
	}

	tabs.Notify(TabLogs)
	if !tabs.Unseen(TabLogs) {
		t.Fatal("Unseen(TabLogs) = false after Notify")
	}
	if !strings.Contains(tabs.View(), "●") {
		t.Error("View() should show the unseen marker")
	}

	tabs.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("3")})
	if tabs.Unseen(TabLogs) {
		t.Error("showing a tab should clear its marker")
	}
}
