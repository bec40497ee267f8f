package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestSetLevel(t *testing.T) {
	defer SetLevel("")

	tests := []struct {
		name string
		in   string
		want log.Level
	}{
		{"debug", "debug", log.DebugLevel},
		{"warning alias", "WARNING", log.WarnLevel},
		{"error", "error", log.ErrorLevel},
		{"empty falls back to info", "", log.InfoLevel},
		{"garbage falls back to info", "loud", log.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetLevel(tt.in)
			if got := Logger.GetLevel(); got != tt.want {
				t.Errorf("SetLevel(%q) level = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSetOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	SetLevel("warn")
	defer SetLevel("")

	Debug("hidden")
	Warnf("unexpected key release event for key 0x%x", 30)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message leaked at warn level: %q", out)
	}
	if !strings.Contains(out, "0x1e") {
		t.Errorf("expected warning in output, got %q", out)
	}
}
