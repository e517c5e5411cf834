// Package shared holds process setup used by the qjack commands.
package shared

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// SetupLogger returns a console logger on stderr, or a JSON logger when
// structured is set.
func SetupLogger(debug, structured bool) zerolog.Logger {
	return NewLogger(os.Stderr, debug, structured)
}

// NewLogger builds the command logger on w.
func NewLogger(w io.Writer, debug, structured bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	if structured {
		zerolog.TimeFieldFormat = time.RFC3339Nano
	} else {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()
}
