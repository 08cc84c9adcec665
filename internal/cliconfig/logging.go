package cliconfig

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var logger = NewLogger(os.Stderr, zerolog.InfoLevel)

// Logger returns the default CLI logger. Output goes to stderr so stdout
// carries only service responses.
func Logger() zerolog.Logger {
	return logger
}

// NewLogger builds a console logger at the given level.
func NewLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()
}
