// Package logging configures the process-wide zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cognicore/funstats/pkg/funstats/internalerr"
)

const (
	FormatJSON   = "json"
	FormatPretty = "pretty"
)

// Config holds logging configuration
type Config struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, pretty
}

// DefaultConfig logs info and above as pretty console lines.
func DefaultConfig() Config {
	return Config{Level: "info", Format: FormatPretty}
}

// Setup configures the global logger to write to stderr.
func Setup(cfg Config) error {
	return SetupWriter(cfg, os.Stderr)
}

// SetupWriter configures the global logger to write to out.
func SetupWriter(cfg Config, out io.Writer) error {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("%w: log level %q", internalerr.ErrInvalidConfig, cfg.Level)
	}
	zerolog.SetGlobalLevel(level)

	switch cfg.Format {
	case "", FormatPretty:
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	case FormatJSON:
	default:
		return fmt.Errorf("%w: log format %q", internalerr.ErrInvalidConfig, cfg.Format)
	}

	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	log.Debug().
		Str("level", cfg.Level).
		Str("format", cfg.Format).
		Msg("Logger initialized")
	return nil
}

// Component returns a logger tagged with the component name.
func Component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
