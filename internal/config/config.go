package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string

	// Input schema or catalog served by `cpdgen serve`
	Input string

	// Output
	Format   string
	Title    string
	Subtitle string

	// Auth for POST /api/reload; empty disables the route
	APIKey string

	// Logging
	LogLevel string
	LogJSON  bool

	// Orchestrator
	MaxQueueSize int
	RunTTL       time.Duration

	// Graceful shutdown
	ShutdownTimeout time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("CPDGEN_PORT", "8090"),

		Input: os.Getenv("CPDGEN_INPUT"),

		Format:   strings.ToLower(envOr("CPDGEN_FORMAT", "html")),
		Title:    envOr("CPDGEN_TITLE", "Codeplug Documentation"),
		Subtitle: os.Getenv("CPDGEN_SUBTITLE"),

		APIKey: os.Getenv("CPDGEN_API_KEY"),

		LogLevel: strings.ToLower(envOr("CPDGEN_LOG_LEVEL", "info")),
		LogJSON:  envBool("CPDGEN_LOG_JSON", false),

		MaxQueueSize: envInt("CPDGEN_QUEUE_SIZE", 4),
		RunTTL:       envDuration("CPDGEN_RUN_TTL", 1*time.Hour),

		ShutdownTimeout: envDuration("CPDGEN_SHUTDOWN_TIMEOUT", 30*time.Second),
	}

	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 4
	}
	if cfg.RunTTL <= 0 {
		cfg.RunTTL = 1 * time.Hour
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}

	return cfg
}

func (c Config) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("CPDGEN_PORT must be a number, got %q", c.Port)
	}
	switch c.Format {
	case "html", "docx", "typst", "typ":
	default:
		return fmt.Errorf("CPDGEN_FORMAT must be html, docx or typst, got %q", c.Format)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("CPDGEN_LOG_LEVEL: %w", err)
	}
	return nil
}

// Level returns the configured slog level, defaulting to info.
func (c Config) Level() slog.Level {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// ParseLevel accepts debug, info, warn or error.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}

// NewLogger builds the process logger: JSON for services, text otherwise.
func (c Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.Level()}
	if c.LogJSON {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
