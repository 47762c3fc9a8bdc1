// Package logging configures the zerolog logger shared by every usher component.
//
// Log lines carry a category field so the log view can separate network chatter
// from authentication and UI events:
//
//	logging.For(logging.Auth).Info().Str("email", email).Msg("attempting login")
//
// The TUI owns the terminal, so the default sink is a JSON file; the console
// writer is reserved for headless commands.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Category groups log events by the subsystem that produced them.
type Category string

const (
	App     Category = "app"
	Network Category = "network"
	Auth    Category = "auth"
	UI      Category = "ui"
)

// Field names used in every event.
const (
	CategoryField = "category"
	OutcomeField  = "outcome"
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum level: trace, debug, info, warn, error. Default: info.
	Level string

	// Console switches from JSON lines to zerolog's human-readable writer.
	Console bool

	// Output is the destination. Default: os.Stderr.
	Output io.Writer
}

var (
	mu   sync.RWMutex
	base = zerolog.New(os.Stderr).With().Timestamp().Logger()
)

// Init replaces the global logger. It is safe to call more than once.
func Init(cfg Config) {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Console {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	zerolog.TimeFieldFormat = time.RFC3339

	logger := zerolog.New(out).Level(ParseLevel(cfg.Level)).With().Timestamp().Logger()

	mu.Lock()
	base = logger
	mu.Unlock()
}

// For returns a logger tagged with the given category. The pointer lets
// callers chain level methods directly on the result.
func For(c Category) *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := base.With().Str(CategoryField, string(c)).Logger()
	return &l
}

// Success starts an info event marked as a successful outcome.
func Success(l *zerolog.Logger) *zerolog.Event {
	return l.Info().Str(OutcomeField, "success")
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
