package ui

import (
	"fmt"
	"strings"

	"github.com/bnema/wayseat/internal/protocol"
	"github.com/bnema/wayseat/internal/replay"
	"github.com/bnema/wayseat/internal/seat"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

func newTable() *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorSubtle))
}

func headerCell() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		Padding(0, 1)
}

func cell(c lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(c).
		Padding(0, 1)
}

// TraceTable renders every delivery of a replay, one row each. Steps that
// delivered nothing still get a row so their notes are visible.
func TraceTable(steps []replay.Step) string {
	var rows [][]string
	var kinds []protocol.Kind
	for _, s := range steps {
		event := fmt.Sprintf("%d %s", s.Index, s.Event)
		notes := strings.Join(s.Notes, ", ")
		if len(s.Deliveries) == 0 {
			rows = append(rows, []string{event, "-", "", "", notes})
			kinds = append(kinds, 0)
			continue
		}
		for i, d := range s.Deliveries {
			if i > 0 {
				event, notes = "", ""
			}
			rows = append(rows, []string{event, fmt.Sprintf("%d", d.Client), d.Kind.String(), d.String(), notes})
			kinds = append(kinds, d.Kind)
		}
	}

	t := newTable().
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerCell()
			case col == 2:
				return KindStyle(kinds[row]).Padding(0, 1)
			case col == 4:
				return cell(ColorInfo)
			default:
				return cell(ColorText)
			}
		}).
		Headers("EVENT", "CLIENT", "KIND", "DELIVERY", "NOTES").
		Rows(rows...)
	return t.String()
}

// StepView renders one step: the event, what each client received and the
// side effects.
func StepView(s replay.Step) string {
	var b strings.Builder
	b.WriteString(SubheaderStyle.Render(fmt.Sprintf("Event %d: %s", s.Index, s.Event)))
	b.WriteString("\n")

	if len(s.Deliveries) == 0 {
		b.WriteString(MutedStyle.Render("  no deliveries"))
		b.WriteString("\n")
	}
	for _, d := range s.Deliveries {
		b.WriteString(fmt.Sprintf("  client %d  %s\n", d.Client, KindStyle(d.Kind).Render(d.String())))
	}
	for _, n := range s.Notes {
		b.WriteString("  " + InfoStyle.Render("· "+n) + "\n")
	}
	return b.String()
}

// StatusTable renders a device snapshot as a two column table.
func StatusTable(st seat.Status) string {
	keys := "none"
	if len(st.Keys) > 0 {
		parts := make([]string, len(st.Keys))
		for i, k := range st.Keys {
			parts[i] = fmt.Sprintf("0x%x", k)
		}
		keys = strings.Join(parts, " ")
	}

	rows := [][]string{
		{"Pointer", fmt.Sprintf("(%.1f, %.1f)", st.X, st.Y)},
		{"Current", fmt.Sprintf("%s at (%.1f, %.1f)", st.Current, st.CurrentX, st.CurrentY)},
		{"Pointer focus", st.PointerFocus},
		{"Keyboard focus", st.KeyboardFocus},
		{"Grab", st.Grab},
		{"Buttons held", fmt.Sprintf("%d", st.ButtonCount)},
		{"Grab origin", fmt.Sprintf("button 0x%x at t=%d", st.GrabButton, st.GrabTime)},
		{"Keys held", keys},
		{"Clients", fmt.Sprintf("%d", st.Clients)},
	}

	t := newTable().
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerCell()
			case col == 0:
				return cell(ColorInfo).Bold(true)
			case row == 4 && st.Grab != "pointer":
				return cell(ColorWarning).Bold(true)
			default:
				return cell(ColorText)
			}
		}).
		Headers("FIELD", "VALUE").
		Rows(rows...)
	return t.String()
}
