// Package commands implements the mysensors-msg CLI commands.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mysensors/mysensors-go/pkg/transport"
	"github.com/mysensors/mysensors-go/pkg/wire"
	"gopkg.in/yaml.v3"
)

// Config holds defaults shared by all commands. It is read from the file
// given with -config; flags override it.
type Config struct {
	// Sender is the node id stamped on messages built by encode and console.
	Sender uint8 `yaml:"sender"`

	// Destination is the default destination node.
	Destination uint8 `yaml:"destination"`

	// ProtocolLog is the capture file (.mlog) written by serve and console.
	ProtocolLog string `yaml:"protocol_log"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// Listen is the serve address.
	Listen string `yaml:"listen"`

	// Gateway is the address console connects to.
	Gateway string `yaml:"gateway"`
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() Config {
	return Config{
		Sender:      wire.GatewayAddress,
		Destination: wire.BroadcastAddress,
		LogLevel:    "info",
		Listen:      fmt.Sprintf(":%d", transport.DefaultPort),
	}
}

// LoadConfig reads a YAML config file over the defaults. An empty path
// returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if _, err := ParseLogLevel(cfg.LogLevel); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ParseLogLevel maps a level name to slog.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", s)
	}
}
