// Package worker runs the daily pipeline on a cron schedule and exposes
// health endpoints for the daemon mode.
package worker

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/vegetablefj/bluearxiv/pkg/config"
)

// Config holds the daemon-mode settings: when to run, in which timezone,
// how long a run may take, and which ports the auxiliary servers listen on.
type Config struct {
	// CronSchedule is a standard five-field cron expression.
	// Default: "30 6 * * *" (every day at 06:30).
	CronSchedule string

	// Timezone is the IANA timezone the schedule is evaluated in. It also
	// determines which calendar date "today" resolves to when a run fires.
	// Default: "Asia/Shanghai".
	Timezone string

	// RunTimeout bounds a single pipeline run. Default: 45 minutes.
	RunTimeout time.Duration

	// HealthPort is the port for the liveness/readiness server.
	// Default: 9091.
	HealthPort int

	// MetricsPort is the port for the Prometheus metrics server.
	// Default: 9090.
	MetricsPort int
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		CronSchedule: "30 6 * * *",
		Timezone:     "Asia/Shanghai",
		RunTimeout:   45 * time.Minute,
		HealthPort:   9091,
		MetricsPort:  9090,
	}
}

// LoadConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset or invalid values. It never fails: a bad value is
// logged and replaced by its default, so the daemon always starts.
//
// Environment variables:
//   - CRON_SCHEDULE: five-field cron expression
//   - WORKER_TIMEZONE: IANA timezone name
//   - RUN_TIMEOUT: duration string, e.g. "45m"
//   - WORKER_HEALTH_PORT: 1024-65535
//   - METRICS_PORT: 1024-65535
func LoadConfigFromEnv(logger *slog.Logger) Config {
	defaults := DefaultConfig()
	cfg := Config{
		CronSchedule: config.GetEnvString("CRON_SCHEDULE", defaults.CronSchedule),
		Timezone:     config.GetEnvString("WORKER_TIMEZONE", defaults.Timezone),
		RunTimeout:   config.GetEnvDuration("RUN_TIMEOUT", defaults.RunTimeout),
		HealthPort:   config.GetEnvInt("WORKER_HEALTH_PORT", defaults.HealthPort),
		MetricsPort:  config.GetEnvInt("METRICS_PORT", defaults.MetricsPort),
	}

	if err := validateCronSchedule(cfg.CronSchedule); err != nil {
		logger.Warn("invalid cron schedule, using default",
			slog.String("value", cfg.CronSchedule),
			slog.String("default", defaults.CronSchedule),
			slog.Any("error", err))
		cfg.CronSchedule = defaults.CronSchedule
	}
	if err := validateTimezone(cfg.Timezone); err != nil {
		logger.Warn("invalid timezone, using default",
			slog.String("value", cfg.Timezone),
			slog.String("default", defaults.Timezone),
			slog.Any("error", err))
		cfg.Timezone = defaults.Timezone
	}
	if err := config.ValidatePositiveDuration(cfg.RunTimeout); err != nil {
		logger.Warn("invalid run timeout, using default",
			slog.Duration("value", cfg.RunTimeout),
			slog.Duration("default", defaults.RunTimeout))
		cfg.RunTimeout = defaults.RunTimeout
	}
	if err := validatePort(cfg.HealthPort); err != nil {
		logger.Warn("invalid health port, using default",
			slog.Int("value", cfg.HealthPort),
			slog.Int("default", defaults.HealthPort))
		cfg.HealthPort = defaults.HealthPort
	}
	if err := validatePort(cfg.MetricsPort); err != nil {
		logger.Warn("invalid metrics port, using default",
			slog.Int("value", cfg.MetricsPort),
			slog.Int("default", defaults.MetricsPort))
		cfg.MetricsPort = defaults.MetricsPort
	}

	return cfg
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error

	if err := validateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := validateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidatePositiveDuration(c.RunTimeout); err != nil {
		errs = append(errs, fmt.Errorf("run timeout: %w", err))
	}
	if err := validatePort(c.HealthPort); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	if err := validatePort(c.MetricsPort); err != nil {
		errs = append(errs, fmt.Errorf("metrics port: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

func validateCronSchedule(schedule string) error {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", schedule, err)
	}
	return nil
}

func validateTimezone(name string) error {
	if _, err := time.LoadLocation(name); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return nil
}

func validatePort(port int) error {
	if port < 1024 || port > 65535 {
		return fmt.Errorf("port %d out of range 1024-65535", port)
	}
	return nil
}
