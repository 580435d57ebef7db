package config

import (
	"os"
	"time"

	"github.com/amg-tools/invent-cli/internal/logger"
)

// Config is the process configuration, read from the environment (a .env
// file is loaded by main before this runs). Every key has a usable default:
// without a host URL the finished documents land in the local outbox.
type Config struct {
	// Counterparty feed file (.json, .yaml or .yml).
	FeedPath string

	// Messaging host bridge. Empty HostURL selects the outbox fallback.
	HostURL   string
	HostToken string
	OutboxDir string

	// Branding shown in the TUI status bar.
	Brand string

	// Logging.
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		FeedPath:      getEnv("INVENT_FEED", "counterparty.json"),
		HostURL:       getEnv("INVENT_HOST_URL", ""),
		HostToken:     getEnv("INVENT_HOST_TOKEN", ""),
		OutboxDir:     getEnv("INVENT_OUTBOX", "outbox"),
		Brand:         getEnv("INVENT_BRAND", "AMG"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "json"),
		LogTimeFormat: getEnv("LOG_TIME_FORMAT", time.RFC3339),
		LogOutput:     getEnv("LOG_OUTPUT", "invent-cli.log"),
	}
	return cfg, nil
}

// LoggerConfig maps the logging keys onto the logger package's config.
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
