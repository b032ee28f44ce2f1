package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New builds a logger writing to w. format is "console" or "json"; level is
// one of debug, info, warn, error and falls back to info.
func New(w io.Writer, format, level string) zerolog.Logger {
	if format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	return zerolog.New(w).With().Timestamp().Logger().Level(ParseLevel(level))
}

// Init configures the global logger on stderr.
func Init(format, level string, verbose bool) zerolog.Logger {
	if verbose {
		level = "debug"
	}
	log.Logger = New(os.Stderr, format, level)
	return log.Logger
}

// ParseLevel maps a config value to a zerolog level.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
