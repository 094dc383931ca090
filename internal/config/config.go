package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds client configuration for the edupi CLI.
//
// Values are resolved in order: defaults, ~/.edupi/config.yaml, EDUPI_*
// environment variables, command-line flags.
type Config struct {
	// APIURL is the base URL of the Edupi backend REST API.
	APIURL string `yaml:"api_url"`
	// SocketURL is the base URL of the push-transport server.
	// Defaults to APIURL when empty.
	SocketURL string `yaml:"socket_url"`
	// DataDir holds the credential keystore, notification history database,
	// and desktop-notification permission state.
	DataDir string `yaml:"data_dir"`

	LogLevel  string `yaml:"log_level"`  // debug, info, warn, error
	LogFormat string `yaml:"log_format"` // text, json

	// DesktopNotifications enables OS-level notifications for announcements.
	DesktopNotifications bool `yaml:"desktop_notifications"`
	// NotificationSound enables the announcement sound.
	NotificationSound bool `yaml:"notification_sound"`
}

// Default returns sensible defaults.
func Default() Config {
	return Config{
		APIURL:               "https://edupischoolbackend.onrender.com",
		LogLevel:             "info",
		LogFormat:            "text",
		DesktopNotifications: true,
		NotificationSound:    true,
	}
}

// Load resolves the configuration from file and environment.
// The config file lives in the data dir, so EDUPI_DATA_DIR relocates it
// along with the rest of the installation. A missing config file is not
// an error; a malformed one is.
func Load() (Config, error) {
	cfg := Default()

	dir := os.Getenv("EDUPI_DATA_DIR")
	if dir == "" {
		var err error
		dir, err = defaultDataDir()
		if err != nil {
			return cfg, err
		}
	}
	cfg.DataDir = dir

	path := filepath.Join(dir, "config.yaml")
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}

	applyEnv(&cfg)

	if cfg.SocketURL == "" {
		cfg.SocketURL = cfg.APIURL
	}
	if cfg.DataDir == "" {
		cfg.DataDir = dir
	}

	return cfg, nil
}

// applyEnv overrides config fields from EDUPI_* environment variables.
func applyEnv(cfg *Config) {
	if v := os.Getenv("EDUPI_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("EDUPI_SOCKET_URL"); v != "" {
		cfg.SocketURL = v
	}
	if v := os.Getenv("EDUPI_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("EDUPI_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("EDUPI_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
}

// defaultDataDir returns ~/.edupi, creating nothing.
func defaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, ".edupi"), nil
}
