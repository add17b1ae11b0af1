package logging

import (
	"context"
	"log/slog"
	"os"
)

var defaultLogger *slog.Logger

func init() {
	defaultLogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// Default returns the process-wide logger.
func Default() *slog.Logger {
	return defaultLogger
}

// SetDefault replaces the process-wide logger. It is intended to be called
// once during startup from the CLI configuration.
func SetDefault(logger *slog.Logger) {
	defaultLogger = logger
}

type ctxLoggerKey struct{}

// With returns a new context carrying the given logger.
func With(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxLoggerKey{}, logger)
}

// From extracts the logger from the context, falling back to Default.
func From(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxLoggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return defaultLogger
}
