package cmd

import (
	"fmt"

	"github.com/bnema/wayseat/internal/config"
	"github.com/bnema/wayseat/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:   "wayseat",
		Short: "wayseat - compositor input device routing",
		Long: `wayseat routes pointer and keyboard input to client surfaces the way a
Wayland compositor's input device does: it picks the surface under the
pointer, keeps implicit grabs while buttons are held, raises windows on click
and runs move and resize grabs.

Scenario files can be replayed to inspect the protocol traffic each client
would receive, and a live seat can be driven from evdev devices.`,
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
	}
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default is ~/.config/wayseat/wayseat.toml)")
	rootCmd.PersistentFlags().String("socket", "", "IPC socket path (default is /tmp/wayseat-<user>.sock)")

	viper.BindPFlag("ipc.socket_path", rootCmd.PersistentFlags().Lookup("socket"))
}

// initConfig loads the configuration before any command runs
func initConfig(cmd *cobra.Command, args []string) error {
	if configPath != "" {
		config.SetConfigPath(configPath)
	}
	if err := config.Init(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// The config file only overrides LOG_LEVEL when it sets a level
	if level := config.Get().Logging.LogLevel; level != "" {
		logger.SetLevel(level)
	}
	return nil
}
