// Package ddlog constructs the shared zerolog.Logger used across netallow.
package ddlog

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New returns a logger writing to w (os.Stderr in production). When
// console is true, output is human-readable and colorized; otherwise
// each line is a JSON object, suitable for ingestion by a log pipeline.
func New(w io.Writer, console bool, verbose bool) *zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	var out io.Writer = w
	if console {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}

	l := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return &l
}

// Default builds a logger writing to stderr, auto-detecting whether
// stderr is a terminal.
func Default(verbose bool) *zerolog.Logger {
	fi, err := os.Stderr.Stat()
	isTTY := err == nil && (fi.Mode()&os.ModeCharDevice) != 0
	return New(os.Stderr, isTTY, verbose)
}
