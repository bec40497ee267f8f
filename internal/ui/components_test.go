package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func TestStatusBar(t *testing.T) {
	t.Run("creates new status bar", func(t *testing.T) {
		sb := NewStatusBar("Test App")

		if sb.Title != "Test App" {
			t.Errorf("Expected title 'Test App', got %q", sb.Title)
		}
		if sb.Busy {
			t.Error("Expected Busy to be false by default")
		}
	})

	t.Run("renders status bar", func(t *testing.T) {
		sb := NewStatusBar("Test App")
		sb.Width = 80
		sb.Status = "Running"
		sb.Active = true

		view := sb.View()

		if !strings.Contains(view, "Test App") {
			t.Error("Status bar should contain title")
		}
		if !strings.Contains(view, "Running") {
			t.Error("Status bar should contain status")
		}
		if !strings.Contains(view, "●") {
			t.Error("Active status bar should contain filled circle")
		}
	})

	t.Run("ignores ticks when idle", func(t *testing.T) {
		sb := NewStatusBar("Test App")
		if _, cmd := sb.Update(spinner.TickMsg{}); cmd != nil {
			t.Error("Idle status bar should not keep ticking")
		}
	})

	t.Run("tracks width", func(t *testing.T) {
		sb := NewStatusBar("Test App")
		sb.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
		if sb.Width != 120 {
			t.Errorf("Expected width 120, got %d", sb.Width)
		}
	})
}

func TestInfoPanel(t *testing.T) {
	tests := []struct {
		name     string
		panel    InfoPanel
		mustHave []string
	}{
		{
			name: "with title",
			panel: InfoPanel{
				Title:   "Scenario",
				Content: []string{"Line 1", "Line 2"},
				Width:   50,
			},
			mustHave: []string{"Scenario", "Line 1", "Line 2"},
		},
		{
			name: "without title",
			panel: InfoPanel{
				Content: []string{"Just content"},
				Width:   50,
			},
			mustHave: []string{"Just content"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := tt.panel.View()

			for _, must := range tt.mustHave {
				if !strings.Contains(view, must) {
					t.Errorf("InfoPanel should contain %q", must)
				}
			}
		})
	}
}

func TestControlsHelp(t *testing.T) {
	ch := ControlsHelp{
		Controls: []Control{
			{Key: "q", Desc: "quit"},
			{Key: "a", Desc: "autoplay"},
			{Key: "n", Desc: "next"},
		},
		Width: 80,
	}

	view := ch.View()

	for _, ctrl := range ch.Controls {
		if !strings.Contains(view, ctrl.Key) {
			t.Errorf("Should contain key %q", ctrl.Key)
		}
		if !strings.Contains(view, ctrl.Desc) {
			t.Errorf("Should contain description %q", ctrl.Desc)
		}
	}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name        string
		msg         Message
		mustContain string
		prefix      string
	}{
		{
			name:        "info message",
			msg:         Message{Type: MessageInfo, Content: "Information"},
			mustContain: "Information",
			prefix:      "ℹ",
		},
		{
			name:        "success message",
			msg:         Message{Type: MessageSuccess, Content: "Success!"},
			mustContain: "Success!",
			prefix:      "✓",
		},
		{
			name:        "warning message",
			msg:         Message{Type: MessageWarning, Content: "Warning!"},
			mustContain: "Warning!",
			prefix:      "⚠",
		},
		{
			name:        "error message",
			msg:         *Errorf("event %d failed", 3),
			mustContain: "event 3 failed",
			prefix:      "✗",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := tt.msg.View()

			if !strings.Contains(view, tt.mustContain) {
				t.Errorf("Message should contain %q", tt.mustContain)
			}
			if !strings.Contains(view, tt.prefix) {
				t.Errorf("Message should have prefix %q", tt.prefix)
			}
		})
	}
}
