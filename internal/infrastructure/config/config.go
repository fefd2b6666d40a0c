// Package config loads application configuration from environment
// variables with sane defaults for local development.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	History   HistoryConfig
	Storage   StorageConfig
	Workspace WorkspaceConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// HistoryConfig bounds the editor undo/redo stacks.
type HistoryConfig struct {
	Limit int `envconfig:"HISTORY_LIMIT" default:"200"`
}

// StorageConfig holds the snapshot collaborator's settings.
type StorageConfig struct {
	Dir     string `envconfig:"STORAGE_DIR" default:"./data"`
	Enabled bool   `envconfig:"STORAGE_ENABLED" default:"true"`
}

// WorkspaceConfig controls how the initial tree is seeded.
type WorkspaceConfig struct {
	Root      string `envconfig:"WORKSPACE_ROOT" default:"workspace"`
	Manifest  string `envconfig:"WORKSPACE_MANIFEST" default:""`
	ImportDir string `envconfig:"WORKSPACE_IMPORT_DIR" default:""`
	Restore   bool   `envconfig:"WORKSPACE_RESTORE" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		History: HistoryConfig{
			Limit: 200,
		},
		Storage: StorageConfig{
			Dir:     "./data",
			Enabled: true,
		},
		Workspace: WorkspaceConfig{
			Root:    "workspace",
			Restore: true,
		},
	}
}

// Addr returns the host:port bind address.
func (c ServerConfig) Addr() string {
	return c.Host + ":" + c.Port
}
