// Package logging builds the slog loggers used by the binaries.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// Level разбирает уровень логирования; неизвестные значения дают info.
func Level(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewJSON пишет структурированные логи сервиса.
func NewJSON(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: Level(level)}))
}

// NewText для CLI: stdout занят копирайтом, логи уходят в stderr текстом.
func NewText(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: Level(level)}))
}
