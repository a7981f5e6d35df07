// Package logger provides structured diagnostics using zerolog
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var globalLogger zerolog.Logger

type Config struct {
	Level  string `yaml:"level"`
	Debug  bool   `yaml:"debug"`
	Output string `yaml:"output"` // stderr (default) or stdout
	Format string `yaml:"format"` // console (default) or json
}

func init() {
	globalLogger = zerolog.New(os.Stderr).Level(zerolog.WarnLevel).With().Timestamp().Logger()
	zerolog.TimeFieldFormat = time.RFC3339
}

// Init replaces the global logger according to config
func Init(config Config) error {
	globalLogger = New(config, nil)

	if !config.Debug && config.Level != "" {
		level, err := zerolog.ParseLevel(config.Level)
		if err != nil {
			return err
		}
		globalLogger = globalLogger.Level(level)
	}

	log.Logger = globalLogger
	return nil
}

// New builds a logger without touching the global one. When w is nil the
// writer is chosen by config.Output. An unparsable level falls back to warn.
func New(config Config, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
		if config.Output == "stdout" {
			w = os.Stdout
		}
	}

	if config.Format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	level := zerolog.WarnLevel
	if config.Debug {
		level = zerolog.DebugLevel
	} else if config.Level != "" {
		if l, err := zerolog.ParseLevel(config.Level); err == nil {
			level = l
		}
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func SetLevel(level zerolog.Level) {
	globalLogger = globalLogger.Level(level)
	log.Logger = globalLogger
}

// SetDebug overrides the configured level, e.g. for --debug
func SetDebug(debug bool) {
	if debug {
		SetLevel(zerolog.DebugLevel)
	} else {
		SetLevel(zerolog.WarnLevel)
	}
}

// WithComponent returns the global logger tagged with a component field
func WithComponent(component string) zerolog.Logger {
	return globalLogger.With().Str("component", component).Logger()
}

// NewTestLogger returns a logger that discards everything
func NewTestLogger() zerolog.Logger {
	return zerolog.New(io.Discard).Level(zerolog.Disabled)
}
