package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bnema/wayseat/internal/protocol"
	"github.com/spf13/cobra"
)

const testScenario = `
name = "click through"

[screen]
width = 200
height = 100

[[window]]
id = 1
title = "term"
client = 1
width = 100
height = 100

[[window]]
id = 2
title = "editor"
client = 2
x = 50
width = 100
height = 100

[[event]]
type = "motion"
time = 1
x = 60.0
y = 10.0

[[event]]
type = "button"
time = 2
pressed = true

[[event]]
type = "button"
time = 3
`

func setupTest(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	path := filepath.Join(tmpDir, "scenario.toml")
	if err := os.WriteFile(path, []byte(testScenario), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReplayCommand(t *testing.T) {
	path := setupTest(t)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	defer rootCmd.SetOut(nil)

	if err := executeCommand(rootCmd, "replay", path); err != nil {
		t.Fatalf("replay failed: %v", err)
	}

	output := out.String()
	for _, want := range []string{"WAYSEAT REPLAY", "click through", "enter", "button", "Final state"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestReplayStream(t *testing.T) {
	path := setupTest(t)
	streamPath := filepath.Join(filepath.Dir(path), "deliveries.bin")

	rootCmd.SetOut(&bytes.Buffer{})
	defer rootCmd.SetOut(nil)

	if err := executeCommand(rootCmd, "replay", "--stream", streamPath, path); err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	replayStream = ""

	f, err := os.Open(streamPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	deliveries, err := protocol.ReadDeliveries(f)
	if err != nil {
		t.Fatalf("failed to read stream: %v", err)
	}
	// enter, motion, press, release
	if len(deliveries) != 4 {
		t.Fatalf("expected 4 deliveries, got %d", len(deliveries))
	}
	if deliveries[0].Kind != protocol.KindEnter || deliveries[0].Client != 2 {
		t.Errorf("expected enter for client 2 first, got %s", deliveries[0])
	}
}

func TestReplayMissingFile(t *testing.T) {
	setupTest(t)

	if err := executeCommand(rootCmd, "replay", "/nonexistent/scenario.toml"); err == nil {
		t.Error("expected error for missing scenario")
	}
}

func TestStatusNotRunning(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	defer rootCmd.SetOut(nil)

	socketPath := filepath.Join(tmpDir, "missing.sock")
	if err := executeCommand(rootCmd, "status", "--socket", socketPath); err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if !strings.Contains(out.String(), "wayseat is not running") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func executeCommand(root *cobra.Command, args ...string) error {
	root.SetArgs(args)
	return root.Execute()
}
