package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Spinner presets
var (
	SpinnerDot  = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	SpinnerLine = []string{"|", "/", "-", "\\"}
)

// StatusBar is a title line with a status on the right. The spinner runs
// while Busy is set.
type StatusBar struct {
	Width   int
	Title   string
	Status  string
	Active  bool
	Busy    bool
	spinner spinner.Model
}

// NewStatusBar creates a new status bar
func NewStatusBar(title string) *StatusBar {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: SpinnerDot,
		FPS:    time.Second / 10,
	}
	s.Style = SpinnerStyle

	return &StatusBar{
		Title:   title,
		spinner: s,
	}
}

// Tick starts the spinner animation
func (s *StatusBar) Tick() tea.Cmd {
	return s.spinner.Tick
}

// Update advances the spinner and tracks the terminal width
func (s *StatusBar) Update(msg tea.Msg) (*StatusBar, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !s.Busy {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	case tea.WindowSizeMsg:
		s.Width = msg.Width
	}
	return s, nil
}

// View renders the status bar
func (s *StatusBar) View() string {
	title := TitleStyle.Render(s.Title)

	status := s.Status
	if s.Busy {
		status = s.spinner.View() + " " + status
	}
	statusFormatted := FormatStatus(s.Active, status)

	gap := s.Width - lipgloss.Width(title) - lipgloss.Width(statusFormatted) - 2
	if gap < 0 {
		gap = 0
	}

	return title + strings.Repeat(" ", gap) + statusFormatted
}

// InfoPanel represents a panel with information
type InfoPanel struct {
	Title   string
	Content []string
	Width   int
}

// View renders the info panel
func (p *InfoPanel) View() string {
	var b strings.Builder

	if p.Title != "" {
		b.WriteString(SubheaderStyle.Render(p.Title))
		b.WriteString("\n")
	}

	for _, line := range p.Content {
		b.WriteString(TextStyle.Render(line))
		b.WriteString("\n")
	}

	return BoxStyle.Width(p.Width).Render(b.String())
}

// ControlsHelp displays keyboard controls
type ControlsHelp struct {
	Controls []Control
	Width    int
}

// Control represents a keyboard control
type Control struct {
	Key  string
	Desc string
}

// View renders the controls on one line
func (c *ControlsHelp) View() string {
	parts := make([]string, 0, len(c.Controls))
	for _, ctrl := range c.Controls {
		parts = append(parts, FormatControl(ctrl.Key, ctrl.Desc))
	}
	return lipgloss.NewStyle().Width(c.Width).Render(strings.Join(parts, SubtleStyle.Render("  •  ")))
}

// Message displays a styled message
type Message struct {
	Type    MessageType
	Content string
}

// MessageType represents the type of message
type MessageType int

const (
	MessageInfo MessageType = iota
	MessageSuccess
	MessageWarning
	MessageError
)

// View renders the message
func (m *Message) View() string {
	var style lipgloss.Style
	var prefix string

	switch m.Type {
	case MessageSuccess:
		style = SuccessStyle
		prefix = "✓ "
	case MessageWarning:
		style = WarningStyle
		prefix = "⚠ "
	case MessageError:
		style = ErrorStyle
		prefix = "✗ "
	default:
		style = InfoStyle
		prefix = "ℹ "
	}

	return style.Render(prefix + m.Content)
}

// Errorf builds an error message
func Errorf(format string, args ...interface{}) *Message {
	return &Message{Type: MessageError, Content: fmt.Sprintf(format, args...)}
}
