package ui

import (
	"strings"
	"testing"

	"github.com/bnema/wayseat/internal/protocol"
	"github.com/bnema/wayseat/internal/replay"
	"github.com/bnema/wayseat/internal/seat"
)

func sampleSteps() []replay.Step {
	return []replay.Step{
		{
			Index: 0,
			Event: replay.Event{Type: replay.EventMotion, Time: 1, X: 10, Y: 10},
			Deliveries: []protocol.Delivery{
				{Kind: protocol.KindEnter, Client: 1, Time: 1, Surface: 7, SX: 10, SY: 10},
				{Kind: protocol.KindMotion, Client: 1, Time: 1, X: 10, Y: 10, SX: 10, SY: 10},
			},
		},
		{
			Index: 1,
			Event: replay.Event{Type: replay.EventDestroy, Time: 2, Window: 3},
			Notes: []string{"window 3 destroyed"},
		},
	}
}

func TestTraceTable(t *testing.T) {
	got := TraceTable(sampleSteps())

	for _, want := range []string{
		"EVENT", "DELIVERY",
		"0 motion t=1 (10.0,10.0)",
		"enter surface=7 local=(10.0,10.0)",
		"motion (10.0,10.0)",
		"1 destroy t=2 window=3",
		"window 3 destroyed",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("TraceTable() missing %q in:\n%s", want, got)
		}
	}
	if strings.Count(got, "0 motion") != 1 {
		t.Error("Event text should only appear on its first row")
	}
}

func TestTraceTableEmpty(t *testing.T) {
	if got := TraceTable(nil); !strings.Contains(got, "EVENT") {
		t.Errorf("TraceTable(nil) should still render headers, got %q", got)
	}
}

func TestStepView(t *testing.T) {
	steps := sampleSteps()

	view := StepView(steps[0])
	if !strings.Contains(view, "Event 0: motion") || !strings.Contains(view, "client 1") {
		t.Errorf("StepView() = %q", view)
	}

	view = StepView(steps[1])
	if !strings.Contains(view, "no deliveries") || !strings.Contains(view, "window 3 destroyed") {
		t.Errorf("StepView() = %q", view)
	}
}

func TestStatusTable(t *testing.T) {
	st := seat.Status{
		X:             12,
		Y:             5.5,
		Current:       "surface 7 (window 3, client 1)",
		PointerFocus:  "surface 7 (window 3, client 1)",
		KeyboardFocus: "none",
		Grab:          "move",
		ButtonCount:   1,
		GrabButton:    0x110,
		GrabTime:      4,
		Keys:          []uint32{30, 42},
		Clients:       2,
	}

	got := StatusTable(st)
	for _, want := range []string{"(12.0, 5.5)", "surface 7 (window 3, client 1)", "move", "0x1e 0x2a", "button 0x110 at t=4"} {
		if !strings.Contains(got, want) {
			t.Errorf("StatusTable() missing %q in:\n%s", want, got)
		}
	}

	if got := StatusTable(seat.Status{Grab: "pointer"}); !strings.Contains(got, "Keys held") {
		t.Errorf("StatusTable() = %q", got)
	}
}
