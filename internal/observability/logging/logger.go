// Package logging provides structured logging utilities using the standard library's
// log/slog package. It offers helper functions for creating loggers with consistent
// configuration and run-scoped context propagation.
package logging

import (
	"context"
	"log/slog"
	"os"
)

// NewLogger creates a new structured logger with JSON output.
// The log level can be controlled via the LOG_LEVEL environment variable.
// Supported levels: debug, info, warn, error
// Default level: info
func NewLogger() *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, handlerOptions())
	return slog.New(handler)
}

// NewTextLogger creates a new structured logger with human-readable text output.
// This is useful for local development and debugging.
func NewTextLogger() *slog.Logger {
	handler := slog.NewTextHandler(os.Stdout, handlerOptions())
	return slog.New(handler)
}

func handlerOptions() *slog.HandlerOptions {
	logLevel := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}
	return &slog.HandlerOptions{
		Level: logLevel,
		// Add source code location for error and warn levels
		AddSource: logLevel <= slog.LevelWarn,
	}
}

// WithRunID returns a new logger that includes the pipeline run ID from the
// context. This ties together all log entries produced by one pipeline run.
func WithRunID(ctx context.Context, logger *slog.Logger) *slog.Logger {
	runID := RunIDFromContext(ctx)
	if runID == "" {
		return logger
	}
	return logger.With("run_id", runID)
}

// FromContext retrieves the logger from the context, or returns the default
// logger if not found.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerContextKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, logger)
}

// WithRunIDContext stores a pipeline run ID in the context.
func WithRunIDContext(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDContextKey, runID)
}

// RunIDFromContext retrieves the pipeline run ID from the context,
// or empty string if none is set.
func RunIDFromContext(ctx context.Context) string {
	if runID, ok := ctx.Value(runIDContextKey).(string); ok {
		return runID
	}
	return ""
}

type contextKey string

const (
	loggerContextKey contextKey = "logger"
	runIDContextKey  contextKey = "run_id"
)
