package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/bnema/wayseat/internal/replay"
	tea "github.com/charmbracelet/bubbletea"
)

// fakeSteps hands out the given steps, then replay.ErrFinished.
func fakeSteps(steps []replay.Step) (StepFunc, *int) {
	calls := 0
	return func() (replay.Step, error) {
		calls++
		if len(steps) == 0 {
			return replay.Step{}, replay.ErrFinished
		}
		s := steps[0]
		steps = steps[1:]
		return s, nil
	}, &calls
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and runs the resulting command synchronously.
func press(m *StepperModel, key string) {
	_, cmd := m.Update(keyMsg(key))
	if cmd == nil {
		return
	}
	if msg, ok := cmd().(stepMsg); ok {
		m.Update(msg)
	}
}

func TestStepperForwardAndBack(t *testing.T) {
	next, calls := fakeSteps(sampleSteps())
	m := NewStepperModel("two windows", 2, next)

	if !strings.Contains(m.View(), "No events run yet") {
		t.Error("Fresh stepper should show the empty state")
	}

	press(m, "n")
	if len(m.Steps()) != 1 || !strings.Contains(m.View(), "Event 0: motion") {
		t.Fatalf("Expected first step, view:\n%s", m.View())
	}

	press(m, "right")
	if !strings.Contains(m.View(), "Event 1: destroy") {
		t.Fatalf("Expected second step, view:\n%s", m.View())
	}
	if !strings.Contains(m.View(), "Scenario complete") {
		t.Error("Stepper should report completion after the last event")
	}

	// Revisiting does not rerun events
	press(m, "p")
	if !strings.Contains(m.View(), "Event 0: motion") {
		t.Errorf("Expected first step again, view:\n%s", m.View())
	}
	press(m, "n")
	press(m, "n")
	if *calls != 2 {
		t.Errorf("Expected 2 events run, got %d", *calls)
	}
}

func TestStepperError(t *testing.T) {
	m := NewStepperModel("broken", 3, func() (replay.Step, error) {
		return replay.Step{}, errors.New("unknown window 9")
	})

	press(m, "n")
	if !strings.Contains(m.View(), "unknown window 9") {
		t.Errorf("Expected error in view:\n%s", m.View())
	}

	// No further events after an error
	_, cmd := m.Update(keyMsg("n"))
	if cmd != nil {
		t.Error("Stepper should stop after an error")
	}
}

func TestStepperAutoplay(t *testing.T) {
	next, _ := fakeSteps(sampleSteps())
	m := NewStepperModel("two windows", 2, next)

	_, cmd := m.Update(keyMsg("a"))
	if cmd == nil || !m.playing {
		t.Fatal("Autoplay should start running events")
	}

	m.Update(stepMsg{step: sampleSteps()[0]})
	if !m.playing {
		t.Error("Autoplay should continue while events remain")
	}
	m.Update(stepMsg{step: sampleSteps()[1]})
	if m.playing {
		t.Error("Autoplay should stop at the end")
	}
}

func TestStepperQuit(t *testing.T) {
	m := NewStepperModel("x", 0, nil)
	for _, key := range []string{"q", "esc"} {
		var msg tea.KeyMsg
		if key == "esc" {
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		} else {
			msg = keyMsg(key)
		}
		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Fatalf("%s should quit", key)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s should return tea.Quit", key)
		}
	}
}
