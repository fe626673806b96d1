package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/vegetablefj/bluearxiv/internal/domain/entity"
)

// RunFunc executes one pipeline run for the given date (YYYY-MM-DD).
type RunFunc func(ctx context.Context, date string) error

// Runner triggers a pipeline run on the configured cron schedule. Each
// firing runs the pipeline for "today" in the configured timezone, bounded
// by the run timeout. A tick that fires while the previous run is still in
// flight is skipped.
type Runner struct {
	logger  *slog.Logger
	cfg     Config
	run     RunFunc
	loc     *time.Location
	cron    *cron.Cron
	now     func() time.Time
	running atomic.Bool
}

// NewRunner creates a Runner. The timezone must be valid; validate the
// config before calling.
func NewRunner(logger *slog.Logger, cfg Config, run RunFunc) (*Runner, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}
	return &Runner{
		logger: logger,
		cfg:    cfg,
		run:    run,
		loc:    loc,
		now:    time.Now,
	}, nil
}

// Start registers the cron job and starts the scheduler. It returns
// immediately; runs fire in background goroutines managed by cron.
func (r *Runner) Start() error {
	c := cron.New(cron.WithLocation(r.loc))
	if _, err := c.AddFunc(r.cfg.CronSchedule, r.runOnce); err != nil {
		return fmt.Errorf("add cron job: %w", err)
	}
	c.Start()
	r.cron = c

	r.logger.Info("scheduler started",
		slog.String("schedule", r.cfg.CronSchedule),
		slog.String("timezone", r.cfg.Timezone))
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (r *Runner) Stop() {
	if r.cron == nil {
		return
	}
	<-r.cron.Stop().Done()
	r.logger.Info("scheduler stopped")
}

// runOnce executes a single scheduled run for today's date.
func (r *Runner) runOnce() {
	if !r.running.CompareAndSwap(false, true) {
		r.logger.Warn("previous run still in flight, skipping tick")
		return
	}
	defer r.running.Store(false)

	date := r.now().In(r.loc).Format(entity.DateLayout)
	started := time.Now()
	r.logger.Info("scheduled run started", slog.String("date", date))

	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.RunTimeout)
	defer cancel()

	if err := r.run(ctx, date); err != nil {
		r.logger.Error("scheduled run failed",
			slog.String("date", date),
			slog.Duration("duration", time.Since(started)),
			slog.Any("error", err))
		return
	}

	r.logger.Info("scheduled run completed",
		slog.String("date", date),
		slog.Duration("duration", time.Since(started)))
}
