package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

type Logger interface {
	Info(msg string, keyvals ...interface{})

	Warn(msg string, keyvals ...interface{})

	Error(msg string, keyvals ...interface{})

	Debug(msg string, keyvals ...interface{})
}

const keyLogLevel = "LOG_LEVEL"

func New() Logger {
	return NewWithWriter(os.Stderr, levelFromEnv())
}

// NewWithWriter builds a JSON logger writing to w at the given minimum level.
func NewWithWriter(w io.Writer, level slog.Level) Logger {
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: true, // include file + line number
	}
	handler := slog.NewJSONHandler(w, opts)
	return slog.New(handler)
}

func levelFromEnv() slog.Level {
	level := slog.LevelInfo
	if value := strings.TrimSpace(os.Getenv(keyLogLevel)); value != "" {
		if err := level.UnmarshalText([]byte(value)); err != nil {
			return slog.LevelInfo
		}
	}
	return level
}
