// Package config handles configuration management using Viper
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	// Seat configuration
	Seat SeatConfig `mapstructure:"seat"`

	// IPC configuration
	IPC IPCConfig `mapstructure:"ipc"`

	// Effects configuration
	Effects EffectsConfig `mapstructure:"effects"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging"`
}

// SeatConfig contains input device settings
type SeatConfig struct {
	Name          string `mapstructure:"name"`
	RaiseOnClick  bool   `mapstructure:"raise_on_click"` // Raise Wayland windows on the first button press
	KeycodeOffset uint32 `mapstructure:"keycode_offset"` // Hardware keycode minus offset gives the evdev code
	QueueSize     int    `mapstructure:"queue_size"`     // Pending events on the seat loop
	StageWidth    int    `mapstructure:"stage_width"`
	StageHeight   int    `mapstructure:"stage_height"`
}

// IPCConfig contains the status socket settings
type IPCConfig struct {
	SocketPath string `mapstructure:"socket_path"` // Empty means /tmp/wayseat-<user>.sock
}

// EffectsConfig controls the built-in effects plugin
type EffectsConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	Debug    bool     `mapstructure:"debug"`
	Disabled []string `mapstructure:"disabled"` // minimize, maximize, unmaximize, map, destroy, switch-workspace
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	LogLevel string `mapstructure:"log_level"` // Override LOG_LEVEL env var
}

var (
	// DefaultConfig provides sensible defaults
	DefaultConfig = Config{
		Seat: SeatConfig{
			Name:          "seat0",
			RaiseOnClick:  true,
			KeycodeOffset: 8,
			QueueSize:     256,
			StageWidth:    1920,
			StageHeight:   1080,
		},
		IPC: IPCConfig{
			SocketPath: "",
		},
		Effects: EffectsConfig{
			Enabled:  true,
			Debug:    false,
			Disabled: []string{},
		},
		Logging: LoggingConfig{
			LogLevel: "", // Empty means use LOG_LEVEL env var
		},
	}

	// Global config instance
	cfg *Config

	// Override config path if set
	configPathOverride string
)

// SetConfigPath allows overriding the config path
func SetConfigPath(path string) {
	configPathOverride = path
}

// Init initializes the configuration system
func Init() error {
	viper.SetConfigName("wayseat")
	viper.SetConfigType("toml")

	if configPathOverride != "" {
		viper.SetConfigFile(configPathOverride)
	} else {
		viper.AddConfigPath("/etc/wayseat")
		if home := os.Getenv("HOME"); home != "" {
			viper.AddConfigPath(filepath.Join(home, ".config", "wayseat"))
		}
		viper.AddConfigPath(".") // Current directory (lowest priority)
	}

	viper.SetEnvPrefix("WAYSEAT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set defaults - need to set individual fields for proper merging
	viper.SetDefault("seat.name", DefaultConfig.Seat.Name)
	viper.SetDefault("seat.raise_on_click", DefaultConfig.Seat.RaiseOnClick)
	viper.SetDefault("seat.keycode_offset", DefaultConfig.Seat.KeycodeOffset)
	viper.SetDefault("seat.queue_size", DefaultConfig.Seat.QueueSize)
	viper.SetDefault("seat.stage_width", DefaultConfig.Seat.StageWidth)
	viper.SetDefault("seat.stage_height", DefaultConfig.Seat.StageHeight)

	viper.SetDefault("ipc.socket_path", DefaultConfig.IPC.SocketPath)

	viper.SetDefault("effects.enabled", DefaultConfig.Effects.Enabled)
	viper.SetDefault("effects.debug", DefaultConfig.Effects.Debug)
	viper.SetDefault("effects.disabled", DefaultConfig.Effects.Disabled)

	viper.SetDefault("logging.log_level", DefaultConfig.Logging.LogLevel)

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, use defaults
	}

	c := &Config{}
	if err := viper.Unmarshal(c); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	cfg = c

	return nil
}

// Validate checks values that would leave the seat unusable
func (c *Config) Validate() error {
	if c.Seat.QueueSize <= 0 {
		return fmt.Errorf("seat.queue_size must be positive, got %d", c.Seat.QueueSize)
	}
	if c.Seat.StageWidth <= 0 || c.Seat.StageHeight <= 0 {
		return fmt.Errorf("seat stage size must be positive, got %dx%d", c.Seat.StageWidth, c.Seat.StageHeight)
	}
	for _, name := range c.Effects.Disabled {
		if !knownEffect(name) {
			return fmt.Errorf("unknown effect %q in effects.disabled", name)
		}
	}
	return nil
}

// EffectParams renders the effects section in the plugin parameter syntax,
// e.g. "debug disable: map, destroy;"
func (c *Config) EffectParams() string {
	var parts []string
	if c.Effects.Debug {
		parts = append(parts, "debug")
	}
	if len(c.Effects.Disabled) > 0 {
		parts = append(parts, "disable: "+strings.Join(c.Effects.Disabled, ", ")+";")
	}
	return strings.Join(parts, " ")
}

func knownEffect(name string) bool {
	switch strings.TrimSpace(name) {
	case "minimize", "maximize", "unmaximize", "map", "destroy", "switch-workspace":
		return true
	}
	return false
}

// Get returns the current configuration
func Get() *Config {
	if cfg == nil {
		// Return defaults if not initialized
		d := DefaultConfig
		return &d
	}
	return cfg
}

// Set sets the current configuration (for testing)
func Set(c *Config) {
	cfg = c
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	if configPathOverride != "" {
		return configPathOverride
	}

	if viper.ConfigFileUsed() != "" {
		return viper.ConfigFileUsed()
	}

	if os.Getuid() == 0 {
		return "/etc/wayseat/wayseat.toml"
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "/etc/wayseat/wayseat.toml"
	}

	return filepath.Join(home, ".config", "wayseat", "wayseat.toml")
}
