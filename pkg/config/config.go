package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	envPlayerHost      = "PEARPANEL_PLAYER_HOST"
	envIntegrationHost = "PEARPANEL_INTEGRATION_HOST"
)

// Config is the root runtime configuration loaded from config.json.
type Config struct {
	Player      PlayerConfig      `json:"player"`
	Integration IntegrationConfig `json:"integration"`
	Panel       PanelConfig       `json:"panel"`
	Stream      StreamConfig      `json:"stream,omitempty"`
	Search      SearchConfig      `json:"search,omitempty"`
	Logging     LoggingConfig     `json:"logging,omitempty"`
}

// LoggingConfig controls structured log output format and verbosity.
type LoggingConfig struct {
	Format    string `json:"format,omitempty"`
	Level     string `json:"level,omitempty"`
	AddSource bool   `json:"add_source,omitempty"`
}

// PlayerConfig points at the Pear Desktop player instance.
type PlayerConfig struct {
	Host string `json:"host"`
}

// IntegrationConfig points at the Twitch integration backend.
type IntegrationConfig struct {
	Host string `json:"host"`
}

// PanelConfig configures the local status HTTP server.
type PanelConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// StreamConfig tunes websocket stream reconnect behavior.
//
// Reconnecting never gives up; only the delay between attempts is tunable.
type StreamConfig struct {
	RetryDelaySeconds int `json:"retry_delay_seconds,omitempty"`
}

// SearchConfig bounds accepted song durations for search requests.
type SearchConfig struct {
	MinSeconds int `json:"min_seconds,omitempty"`
	MaxSeconds int `json:"max_seconds,omitempty"`
}

// LoadConfig resolves config.json, unmarshals it, and applies environment overrides.
func LoadConfig() (*Config, error) {
	configPath, err := findConfigPath()
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides injects selected env-driven settings on top of file config.
func applyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}

	if host := strings.TrimSpace(os.Getenv(envPlayerHost)); host != "" {
		cfg.Player.Host = host
	}

	if host := strings.TrimSpace(os.Getenv(envIntegrationHost)); host != "" {
		cfg.Integration.Host = host
	}
}

// findConfigPath resolves the active config file location.
//
// Precedence is PEARPANEL_CONFIG first, then cwd-local fallback paths.
func findConfigPath() (string, error) {
	if value := strings.TrimSpace(os.Getenv("PEARPANEL_CONFIG")); value != "" {
		if info, err := os.Stat(value); err == nil && !info.IsDir() {
			return value, nil
		}
		return "", fmt.Errorf("PEARPANEL_CONFIG does not point to a file: %s", value)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get current working directory: %w", err)
	}

	candidates := []string{
		filepath.Join(cwd, "config.json"),
		filepath.Join(cwd, "config", "config.json"),
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("config.json not found (checked %s and %s)", candidates[0], candidates[1])
}
