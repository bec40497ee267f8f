package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/wayseat/internal/replay"
	tea "github.com/charmbracelet/bubbletea"
)

// StepFunc runs the next scenario event. It returns replay.ErrFinished once
// the scenario is exhausted.
type StepFunc func() (replay.Step, error)

type stepMsg struct {
	step replay.Step
	err  error
}

type playTickMsg time.Time

// StepperModel walks through a replay one event at a time. Steps already
// run can be revisited; new ones are only run on demand.
type StepperModel struct {
	name     string
	total    int
	next     StepFunc
	steps    []replay.Step
	cursor   int
	running  bool
	finished bool
	playing  bool
	delay    time.Duration
	err      error

	bar  *StatusBar
	help ControlsHelp
}

// NewStepperModel creates a stepper for a scenario of total events.
func NewStepperModel(name string, total int, next StepFunc) *StepperModel {
	return &StepperModel{
		name:   name,
		total:  total,
		next:   next,
		cursor: -1,
		delay:  500 * time.Millisecond,
		bar:    NewStatusBar("WAYSEAT REPLAY"),
		help: ControlsHelp{Controls: []Control{
			{Key: "n/→", Desc: "next"},
			{Key: "p/←", Desc: "previous"},
			{Key: "a", Desc: "autoplay"},
			{Key: "q", Desc: "quit"},
		}},
	}
}

// SetDelay changes the autoplay interval
func (m *StepperModel) SetDelay(d time.Duration) {
	m.delay = d
}

// Steps returns the steps run so far
func (m *StepperModel) Steps() []replay.Step {
	return m.steps
}

func (m *StepperModel) Init() tea.Cmd {
	return nil
}

func (m *StepperModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "n", " ", "right", "l":
			return m, m.forward()
		case "p", "left", "h":
			if m.cursor > 0 {
				m.cursor--
			}
		case "a":
			m.playing = !m.playing
			m.bar.Busy = m.playing
			if m.playing {
				return m, tea.Batch(m.bar.Tick(), m.forward())
			}
		}

	case stepMsg:
		m.running = false
		if errors.Is(msg.err, replay.ErrFinished) {
			m.finished = true
			m.stopPlaying()
			return m, nil
		}
		if msg.err != nil {
			m.err = msg.err
			m.stopPlaying()
			return m, nil
		}
		m.steps = append(m.steps, msg.step)
		m.cursor = len(m.steps) - 1
		if len(m.steps) >= m.total {
			m.finished = true
		}
		if m.playing {
			if m.finished {
				m.stopPlaying()
				return m, nil
			}
			return m, tea.Tick(m.delay, func(t time.Time) tea.Msg { return playTickMsg(t) })
		}

	case playTickMsg:
		if m.playing {
			return m, m.forward()
		}

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	}

	var cmd tea.Cmd
	m.bar, cmd = m.bar.Update(msg)
	return m, cmd
}

// forward shows the next step, running a new event when the cursor is on the
// latest one.
func (m *StepperModel) forward() tea.Cmd {
	if m.cursor < len(m.steps)-1 {
		m.cursor++
		return nil
	}
	if m.running || m.finished || m.err != nil {
		return nil
	}
	m.running = true
	next := m.next
	return func() tea.Msg {
		step, err := next()
		return stepMsg{step: step, err: err}
	}
}

func (m *StepperModel) stopPlaying() {
	m.playing = false
	m.bar.Busy = false
}

func (m *StepperModel) View() string {
	var b strings.Builder

	m.bar.Status = fmt.Sprintf("%s  %d/%d", m.name, m.cursor+1, m.total)
	m.bar.Active = !m.finished
	b.WriteString(m.bar.View())
	b.WriteString("\n\n")

	if m.cursor < 0 {
		b.WriteString(MutedStyle.Render("No events run yet"))
		b.WriteString("\n")
	} else {
		step := m.steps[m.cursor]
		b.WriteString(StepView(step))
		b.WriteString("\n")
		b.WriteString(StatusTable(step.Status))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(Errorf("%v", m.err).View())
		b.WriteString("\n")
	} else if m.finished && m.cursor == len(m.steps)-1 {
		b.WriteString("\n")
		b.WriteString((&Message{Type: MessageSuccess, Content: "Scenario complete"}).View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View())
	return b.String()
}

// RunStepper runs the stepper full screen until the user quits or ctx is
// cancelled.
func RunStepper(ctx context.Context, m *StepperModel) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("stepper failed: %w", err)
	}
	return nil
}
