package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bnema/wayseat/internal/config"
	"github.com/bnema/wayseat/internal/ipc"
	"github.com/bnema/wayseat/internal/logger"
	"github.com/bnema/wayseat/internal/replay"
	"github.com/bnema/wayseat/internal/seat"
	"github.com/bnema/wayseat/internal/ui"
	"github.com/spf13/cobra"
)

var (
	replayInteractive bool
	replayServe       bool
	replayStream      string
	replayDelay       time.Duration
)

var replayCmd = &cobra.Command{
	Use:   "replay <scenario.toml>",
	Short: "Replay a scenario through the input device",
	Long: `Replay a scenario file through the input device and show the protocol
traffic every client receives, event by event.

With --interactive the scenario is stepped through in a full screen viewer.
With --serve the seat stays up after the last event so 'wayseat status' and
'wayseat end-grab' can inspect it.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().BoolVarP(&replayInteractive, "interactive", "i", false, "Step through the scenario interactively")
	replayCmd.Flags().BoolVar(&replayServe, "serve", false, "Keep the seat running on the IPC socket after the replay")
	replayCmd.Flags().StringVar(&replayStream, "stream", "", "Write every delivery to this file as length-prefixed records")
	replayCmd.Flags().DurationVar(&replayDelay, "delay", 500*time.Millisecond, "Autoplay interval in interactive mode")
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	sc, err := replay.Load(args[0])
	if err != nil {
		return err
	}

	opts := replay.OptionsFromConfig(cfg)
	if replayStream != "" {
		f, err := os.Create(replayStream)
		if err != nil {
			return fmt.Errorf("failed to create stream file: %w", err)
		}
		defer f.Close()
		opts.Stream = f
	}

	world, err := replay.NewWorld(sc, opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loop := seat.NewLoop(world.Device(), cfg.Seat.QueueSize)
	wait := startLoop(ctx, loop)
	defer wait()

	next := func() (replay.Step, error) {
		var step replay.Step
		var stepErr error
		if err := loop.Do(ctx, func(*seat.Device) { step, stepErr = world.Next() }); err != nil {
			return replay.Step{}, err
		}
		return step, stepErr
	}

	if replayInteractive {
		// Log output would tear the alt screen
		logger.SetOutput(io.Discard)
		defer logger.SetOutput(os.Stderr)

		m := ui.NewStepperModel(sc.Name, world.Len(), next)
		m.SetDelay(replayDelay)
		if err := ui.RunStepper(ctx, m); err != nil {
			return err
		}
	} else {
		steps, err := runAll(next)
		if err != nil {
			return err
		}
		printReplay(cmd.OutOrStdout(), sc, steps)
	}

	if err := world.StreamErr(); err != nil {
		logger.Warnf("Delivery stream incomplete: %v", err)
	}

	if replayServe {
		return serve(ctx, cfg, loop)
	}
	return nil
}

func runAll(next ui.StepFunc) ([]replay.Step, error) {
	var steps []replay.Step
	for {
		step, err := next()
		if errors.Is(err, replay.ErrFinished) {
			return steps, nil
		}
		if err != nil {
			return steps, err
		}
		steps = append(steps, step)
	}
}

func printReplay(w io.Writer, sc *replay.Scenario, steps []replay.Step) {
	var output strings.Builder

	name := sc.Name
	if name == "" {
		name = "unnamed scenario"
	}
	output.WriteString(ui.FormatAppHeader("REPLAY", name))
	output.WriteString("\n\n")

	panel := &ui.InfoPanel{
		Title: "Scenario",
		Content: []string{
			fmt.Sprintf("Screen:  %dx%d", sc.Screen.Width, sc.Screen.Height),
			fmt.Sprintf("Windows: %d", len(sc.Windows)),
			fmt.Sprintf("Events:  %d", len(sc.Events)),
		},
	}
	output.WriteString(panel.View())
	output.WriteString("\n\n")

	if len(steps) == 0 {
		output.WriteString(ui.MutedStyle.Render("No events"))
		output.WriteString("\n")
		fmt.Fprint(w, output.String())
		return
	}

	output.WriteString(ui.TraceTable(steps))
	output.WriteString("\n\n")
	output.WriteString(ui.SubheaderStyle.Render("Final state"))
	output.WriteString("\n")
	output.WriteString(ui.StatusTable(steps[len(steps)-1].Status))
	output.WriteString("\n")

	fmt.Fprint(w, output.String())
}

// startLoop runs loop until ctx is cancelled. The returned func waits for it
// to exit.
func startLoop(ctx context.Context, loop *seat.Loop) func() {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Errorf("Seat loop failed: %v", err)
		}
	}()
	return func() {
		cancel()
		<-done
	}
}

// serve answers IPC requests for loop until ctx is cancelled.
func serve(ctx context.Context, cfg *config.Config, loop *seat.Loop) error {
	server, err := ipc.NewSocketServer(cfg.IPC.SocketPath, &ipc.SeatHandler{Loop: loop})
	if err != nil {
		return err
	}
	if err := server.Start(); err != nil {
		return fmt.Errorf("failed to start IPC server: %w", err)
	}
	defer server.Stop()

	logger.Infof("Seat %s listening on %s", cfg.Seat.Name, server.Path())
	<-ctx.Done()
	logger.Info("Shutting down")
	return nil
}
