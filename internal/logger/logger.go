package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns the process logger. Production environments get JSON lines,
// everything else a human-readable console writer.
func New(env, service string) zerolog.Logger {
	var w io.Writer = os.Stdout
	level := zerolog.DebugLevel
	if env == "production" || env == "prod" {
		level = zerolog.InfoLevel
	} else {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("service", service).
		Str("env", env).
		Logger()
}
