package cli

import (
	"io"
	"log/slog"
)

// NewLogger returns the text logger of the CLI. Each verbose level lowers
// the threshold by one step: warn, info, debug.
func NewLogger(w io.Writer, verbose int, quiet bool) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case quiet:
		level = slog.LevelError
	case verbose == 1:
		level = slog.LevelInfo
	case verbose > 1:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
