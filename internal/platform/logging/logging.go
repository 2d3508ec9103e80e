// Package logging builds the zerolog loggers shared by service commands.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config controls logger construction.
type Config struct {
	// Level is a zerolog level name; empty means info.
	Level string
	// JSON disables the console writer and emits one JSON object per line.
	JSON bool
	// NoColor disables ANSI colors in console output.
	NoColor bool
	// Output defaults to stderr.
	Output io.Writer
}

// New returns a logger tagged with service and installs it as the zerolog
// global logger.
func New(service string, cfg Config) (zerolog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), err
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if !cfg.JSON {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    cfg.NoColor,
		}
	}
	logger := zerolog.New(out).Level(level).With().Timestamp().Str("service", service).Logger()
	log.Logger = logger
	return logger, nil
}

// ParseLevel maps a level name to a zerolog level. It accepts "warning" as
// an alias of "warn" and "off" as an alias of "disabled".
func ParseLevel(value string) (zerolog.Level, error) {
	switch v := strings.ToLower(strings.TrimSpace(value)); v {
	case "":
		return zerolog.InfoLevel, nil
	case "warning":
		return zerolog.WarnLevel, nil
	case "off":
		return zerolog.Disabled, nil
	default:
		level, err := zerolog.ParseLevel(v)
		if err != nil {
			return zerolog.NoLevel, fmt.Errorf("parse log level %q: %w", value, err)
		}
		return level, nil
	}
}
