package config

import (
	"testing"
	"time"
)

func TestGetEnvString(t *testing.T) {
	t.Setenv("TEST_STRING", "value")
	if got := GetEnvString("TEST_STRING", "default"); got != "value" {
		t.Errorf("expected value, got %s", got)
	}
	if got := GetEnvString("TEST_STRING_UNSET", "default"); got != "default" {
		t.Errorf("expected default, got %s", got)
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	if got := GetEnvInt("TEST_INT", 7); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}

	t.Setenv("TEST_INT_BAD", "not-a-number")
	if got := GetEnvInt("TEST_INT_BAD", 7); got != 7 {
		t.Errorf("expected fallback 7, got %d", got)
	}

	if got := GetEnvInt("TEST_INT_UNSET", 7); got != 7 {
		t.Errorf("expected default 7, got %d", got)
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"True", true},
		{"0", false},
		{"false", false},
		{"invalid", true}, // falls back to default
	}

	for _, tt := range tests {
		t.Setenv("TEST_BOOL", tt.value)
		if got := GetEnvBool("TEST_BOOL", true); got != tt.want {
			t.Errorf("GetEnvBool(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "90s")
	if got := GetEnvDuration("TEST_DURATION", time.Minute); got != 90*time.Second {
		t.Errorf("expected 90s, got %v", got)
	}

	t.Setenv("TEST_DURATION_BAD", "ninety")
	if got := GetEnvDuration("TEST_DURATION_BAD", time.Minute); got != time.Minute {
		t.Errorf("expected fallback 1m, got %v", got)
	}
}

func TestValidatePositiveDuration(t *testing.T) {
	if err := ValidatePositiveDuration(time.Second); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if err := ValidatePositiveDuration(0); err == nil {
		t.Error("expected error for zero duration")
	}
	if err := ValidatePositiveDuration(-time.Second); err == nil {
		t.Error("expected error for negative duration")
	}
}
