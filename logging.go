package main

import (
	"io"
	"log/slog"
)

// LevelCritical marks failures that stop the run before any output.
const LevelCritical = slog.LevelError + 4

// setupLogger installs a JSON logger writing to w as the slog default.
func setupLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceLevel,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// replaceLevel renders LevelCritical by name instead of "ERROR+4".
func replaceLevel(groups []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey || len(groups) > 0 {
		return a
	}
	if lvl, ok := a.Value.Any().(slog.Level); ok && lvl >= LevelCritical {
		a.Value = slog.StringValue("CRITICAL")
	}
	return a
}
