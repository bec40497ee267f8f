package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bnema/wayseat/internal/config"
	"github.com/bnema/wayseat/internal/logger"
	"github.com/bnema/wayseat/internal/native"
	"github.com/bnema/wayseat/internal/protocol"
	"github.com/bnema/wayseat/internal/replay"
	"github.com/bnema/wayseat/internal/seat"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	runScene        string
	runPointerPath  string
	runKeyboardPath string
	runGrab         bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Drive a live seat from evdev devices",
	Long: `Run a live seat fed by kernel input devices. The window layout comes from
a scenario file; its events are ignored. Deliveries are logged as they happen
and the seat answers 'wayseat status' and 'wayseat end-grab' over IPC.

Reading /dev/input usually needs root or membership in the input group.`,
	RunE: runSeat,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runScene, "scene", "s", "", "Scenario file providing the window layout")
	runCmd.Flags().StringVar(&runPointerPath, "pointer", "", "Pointer device (default: first mouse found)")
	runCmd.Flags().StringVar(&runKeyboardPath, "keyboard", "", "Keyboard device (default: first keyboard found)")
	runCmd.Flags().BoolVar(&runGrab, "grab", false, "Take exclusive access to the devices")
	runCmd.Flags().Bool("raise-on-click", true, "Raise Wayland windows on the first button press")

	runCmd.MarkFlagRequired("scene")
	viper.BindPFlag("seat.raise_on_click", runCmd.Flags().Lookup("raise-on-click"))
}

func runSeat(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	sc, err := replay.Load(runScene)
	if err != nil {
		return err
	}

	opts := replay.OptionsFromConfig(cfg)
	opts.Observer = func(d protocol.Delivery) {
		logger.Debugf("client %d <- %s", d.Client, d)
	}
	world, err := replay.NewWorld(sc, opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loop := seat.NewLoop(world.Device(), cfg.Seat.QueueSize)
	loop.HandleEvents(func(_ *seat.Device, ev *native.Event) { world.Handle(ev) })
	wait := startLoop(ctx, loop)
	defer wait()

	offset := cfg.Seat.KeycodeOffset
	if offset == 0 {
		offset = native.DefaultKeycodeOffset
	}
	width, height := world.Stage().Size()
	source := native.NewEvdevSource(native.SourceConfig{
		PointerPath:  runPointerPath,
		KeyboardPath: runKeyboardPath,
		Width:        width,
		Height:       height,
		Keymap:       native.NewXKBKeymap(offset),
		Grab:         runGrab,
	})
	source.OnEvent(func(ev *native.Event) {
		if err := loop.Dispatch(ctx, ev); err != nil {
			logger.Debugf("Dropped %s event: %v", ev.Type, err)
		}
	})
	if err := source.Start(ctx); err != nil {
		return fmt.Errorf("failed to start input source: %w", err)
	}
	defer func() {
		if err := source.Stop(); err != nil {
			logger.Warnf("Failed to stop input source: %v", err)
		}
	}()

	logger.Infof("Live seat on %q with %d windows", sc.Name, len(sc.Windows))
	return serve(ctx, cfg, loop)
}
