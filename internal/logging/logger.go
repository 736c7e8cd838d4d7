package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"wgpeer/internal/config"
)

// NewLogger creates a zerolog.Logger on stderr, keeping stdout free for peer output.
func NewLogger(cfg *config.Config) zerolog.Logger {
	return New(os.Stderr, cfg)
}

// New creates a zerolog.Logger writing to w, formatted and filtered per cfg.
func New(w io.Writer, cfg *config.Config) zerolog.Logger {
	if cfg.LogFormat == "console" {
		w = zerolog.ConsoleWriter{Out: w}
	}

	logger := zerolog.New(w).With().Timestamp().Str("service", "wgpeer").Logger()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}

	return logger.Level(level)
}
