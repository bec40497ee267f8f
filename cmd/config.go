package cmd

import (
	"strings"

	"github.com/bnema/wayseat/internal/config"
	"github.com/bnema/wayseat/internal/ipc"
	"github.com/bnema/wayseat/internal/logger"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect wayseat configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()

		logger.Info("Current Configuration:")
		logger.Infof("Config file: %s\n", config.GetConfigPath())

		logger.Info("[Seat]")
		logger.Infof("  Name: %s", cfg.Seat.Name)
		logger.Infof("  Raise On Click: %v", cfg.Seat.RaiseOnClick)
		logger.Infof("  Keycode Offset: %d", cfg.Seat.KeycodeOffset)
		logger.Infof("  Queue Size: %d", cfg.Seat.QueueSize)
		logger.Infof("  Stage: %dx%d", cfg.Seat.StageWidth, cfg.Seat.StageHeight)

		logger.Info("\n[IPC]")
		socketPath := cfg.IPC.SocketPath
		if socketPath == "" {
			if p, err := ipc.GetSocketPath(); err == nil {
				socketPath = p + " (default)"
			}
		}
		logger.Infof("  Socket: %s", socketPath)

		logger.Info("\n[Effects]")
		logger.Infof("  Enabled: %v", cfg.Effects.Enabled)
		logger.Infof("  Debug: %v", cfg.Effects.Debug)
		if len(cfg.Effects.Disabled) > 0 {
			logger.Infof("  Disabled: %s", strings.Join(cfg.Effects.Disabled, ", "))
		}

		logger.Info("\n[Logging]")
		level := cfg.Logging.LogLevel
		if level == "" {
			level = "from LOG_LEVEL"
		}
		logger.Infof("  Level: %s", level)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
}
