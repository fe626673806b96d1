package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestNewLogger(t *testing.T) {
	logger := NewLogger()
	if logger == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestNewLogger_DebugLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	logger := NewLogger()
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("expected debug level to be enabled")
	}
}

func TestNewTextLogger(t *testing.T) {
	logger := NewTextLogger()
	if logger == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestRunIDContext_RoundTrip(t *testing.T) {
	ctx := WithRunIDContext(context.Background(), "run-123")
	if got := RunIDFromContext(ctx); got != "run-123" {
		t.Errorf("expected run-123, got %q", got)
	}
}

func TestRunIDFromContext_Missing(t *testing.T) {
	if got := RunIDFromContext(context.Background()); got != "" {
		t.Errorf("expected empty run ID, got %q", got)
	}
}

func TestWithRunID_NoID(t *testing.T) {
	logger := slog.Default()
	got := WithRunID(context.Background(), logger)
	if got != logger {
		t.Error("expected same logger when context has no run ID")
	}
}

func TestLoggerContext_RoundTrip(t *testing.T) {
	logger := NewTextLogger()
	ctx := WithLogger(context.Background(), logger)
	if got := FromContext(ctx); got != logger {
		t.Error("expected logger from context")
	}
}

func TestFromContext_Default(t *testing.T) {
	if got := FromContext(context.Background()); got == nil {
		t.Error("expected default logger, got nil")
	}
}
