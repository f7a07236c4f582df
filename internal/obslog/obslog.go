// Package obslog wires the process-wide structured logger, using
// zerolog's structured fields so a unit's id, match count, and
// execution time are queryable rather than embedded in a formatted
// string.
package obslog

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds a console-formatted zerolog.Logger at the given level
// ("debug", "info", "warn", "error"; an unrecognized level falls back to
// info). w defaults to os.Stderr when nil.
func New(level string, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	console := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	return zerolog.New(console).Level(lvl).With().Timestamp().Logger()
}
