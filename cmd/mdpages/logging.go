package main

import (
	"io"
	"log/slog"
)

// newLogger builds the CLI logger: debug with --verbose, warnings only with
// --quiet, info otherwise.
func newLogger(w io.Writer, f commonFlags) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case f.verbose:
		level = slog.LevelDebug
	case f.quiet:
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
