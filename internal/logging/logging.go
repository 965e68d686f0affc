// Package logging adapts log/slog to the domain.Logger port, with a
// human-readable console handler for terminals and a JSON handler for
// scripted use.
package logging

import (
	"io"
	"log/slog"

	console "github.com/phsym/console-slog"

	"github.com/opkgtool/pkgctl/internal/domain"
)

// SlogLogger implements domain.Logger using log/slog.
type SlogLogger struct {
	logger *slog.Logger
}

// New wraps an existing *slog.Logger.
func New(logger *slog.Logger) *SlogLogger {
	return &SlogLogger{logger: logger}
}

// NewConsole builds a logger with console-slog's human-readable handler.
func NewConsole(w io.Writer, level slog.Level, noColor bool) *SlogLogger {
	handler := console.NewHandler(w, &console.HandlerOptions{
		Level:   level,
		NoColor: noColor,
	})
	return &SlogLogger{logger: slog.New(handler)}
}

// NewJSON builds a logger with slog's standard JSON handler, for
// --log-json / non-interactive use.
func NewJSON(w io.Writer, level slog.Level) *SlogLogger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return &SlogLogger{logger: slog.New(handler)}
}

// LevelForVerbosity maps a repeated -v count to a slog level:
// 0 -> Warn, 1 -> Info, 2+ -> Debug.
func LevelForVerbosity(count int) slog.Level {
	switch {
	case count <= 0:
		return slog.LevelWarn
	case count == 1:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

func (l *SlogLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *SlogLogger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *SlogLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l *SlogLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

func (l *SlogLogger) With(args ...any) domain.Logger {
	return &SlogLogger{logger: l.logger.With(args...)}
}
