package observability

import (
	"io"
	"log/slog"
	"os"
)

type Logger struct {
	l *slog.Logger
}

func NewLogger() *Logger {
	return NewLoggerTo(os.Stdout)
}

func NewLoggerTo(w io.Writer) *Logger {
	return &Logger{l: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))}
}

func (lg *Logger) Info(msg string, kv ...any) {
	lg.l.Info(msg, kv...)
}

func (lg *Logger) Error(msg string, kv ...any) {
	lg.l.Error(msg, kv...)
}

// With returns a logger that adds kv to every line.
func (lg *Logger) With(kv ...any) *Logger {
	return &Logger{l: lg.l.With(kv...)}
}
