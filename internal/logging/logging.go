package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	once sync.Once
	base *slog.Logger
)

// Init configures the global logger exactly once. Output goes to stdout and
// a size-rotated file. Call this in main(): logging.Init("orders-service", "./logs/app.log", "info")
func Init(service, filePath, level string) *slog.Logger {
	once.Do(func() {
		_ = os.MkdirAll(filepath.Dir(filePath), 0o755)

		rot := &lumberjack.Logger{
			Filename:   filePath,
			MaxSize:    50, // MB
			MaxBackups: 3,
			MaxAge:     7, // days
		}
		mw := io.MultiWriter(os.Stdout, rot)

		h := slog.NewJSONHandler(mw, &slog.HandlerOptions{Level: parseLevel(level)})
		base = slog.New(h).With("service", service)
	})
	return base
}

// Base returns the global logger, initializing a safe default if Init was
// never called (tests, cmd/migrate).
func Base() *slog.Logger {
	if base == nil {
		return Init("orders-service", "./logs/app.log", "info")
	}
	return base
}

// New returns a child logger for a component. It reuses the global handler,
// so no new writer is opened.
func New(component string) *slog.Logger {
	return Base().With("component", component)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
