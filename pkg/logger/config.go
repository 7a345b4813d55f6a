package logger

import (
	"log/slog"
	"strings"
)

// Config selects the log output.
type Config struct {
	// debug, info, warn or error
	Level string `env:"DUENDE_LOG_LEVEL" envDefault:"info"`
	// json or text
	Format string `env:"DUENDE_LOG_FORMAT" envDefault:"json"`

	SentryDSN         string `env:"SENTRY_DSN"`
	SentryEnvironment string `env:"SENTRY_ENVIRONMENT" envDefault:"production"`
}

// ParseLevel converts a level name to slog.Level. Unknown names give Info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
