package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Config selects output format and minimum level.
type Config struct {
	Env    string // development -> console writer, anything else -> JSON
	Level  string
	Output io.Writer
}

// New builds a zerolog logger tagged with the service name.
func New(service string, cfg Config) zerolog.Logger {
	var w io.Writer = cfg.Output
	if w == nil {
		w = os.Stdout
	}
	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}

	return zerolog.New(w).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("service", service).
		Logger()
}

func ParseLevel(value string) zerolog.Level {
	s := strings.ToLower(strings.TrimSpace(value))
	if s == "" {
		return zerolog.InfoLevel
	}
	if lvl, err := zerolog.ParseLevel(s); err == nil {
		return lvl
	}
	return zerolog.InfoLevel
}
