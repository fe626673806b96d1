// Package pipeline orchestrates the daily digest run: fetch the new arXiv
// listings, filter by keywords, annotate each paper with an AI verdict and
// commentary, render the LaTeX and HTML documents and archive the results.
// Stages run sequentially; one paper failing annotation is skipped, one
// stage failing aborts the run with a classified error.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/vegetablefj/bluearxiv/internal/domain/entity"
	"github.com/vegetablefj/bluearxiv/internal/observability/logging"
	"github.com/vegetablefj/bluearxiv/internal/observability/metrics"
)

// Fetcher retrieves the day's new papers across all configured categories.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]entity.Paper, error)
}

// Annotator judges one paper and produces commentary plus a featured flag.
type Annotator interface {
	Annotate(ctx context.Context, paper entity.Paper) (entity.AnnotatedPaper, error)
}

// Renderer produces the digest documents for a daily dataset.
type Renderer interface {
	RenderLaTeX(ds entity.DailyDataset) ([]byte, error)
	RenderHTML(ds entity.DailyDataset) ([]byte, error)
}

// Archiver persists a completed run and maintains the archive index.
type Archiver interface {
	SaveDaily(ctx context.Context, ds entity.DailyDataset, fetched, filtered []entity.Paper, tex, html []byte) error
	RebuildIndex(ctx context.Context) error
}

// Service runs the daily pipeline.
type Service struct {
	fetcher   Fetcher
	annotator Annotator
	renderer  Renderer
	archiver  Archiver

	keywords           []string
	annotationInterval time.Duration
}

// NewService wires the pipeline stages together.
func NewService(f Fetcher, a Annotator, r Renderer, ar Archiver, keywords []string, annotationInterval time.Duration) *Service {
	return &Service{
		fetcher:            f,
		annotator:          a,
		renderer:           r,
		archiver:           ar,
		keywords:           keywords,
		annotationInterval: annotationInterval,
	}
}

// RunStats summarizes one pipeline run.
type RunStats struct {
	Date      string
	RunID     string
	Fetched   int
	Filtered  int
	Annotated int
	Skipped   int
	Featured  int
	Duration  time.Duration
}

// Run executes the full pipeline for the given date (YYYY-MM-DD). Re-running
// the same date overwrites that date's outputs and leaves other dates alone.
func (s *Service) Run(ctx context.Context, date string) (RunStats, error) {
	if err := entity.ValidateDate(date); err != nil {
		return RunStats{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	runID := uuid.New().String()
	ctx = logging.WithRunIDContext(ctx, runID)
	logger := logging.WithRunID(ctx, logging.FromContext(ctx))

	start := time.Now()
	stats := RunStats{Date: date, RunID: runID}

	logger.Info("pipeline run started", "date", date)

	fetched, err := s.fetcher.FetchAll(ctx)
	if err != nil {
		s.finish(&stats, start, false, logger)
		return stats, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	stats.Fetched = len(fetched)

	filtered := FilterByKeywords(fetched, s.keywords)
	stats.Filtered = len(filtered)
	metrics.RecordPapersFiltered(len(filtered))
	logger.Info("papers filtered",
		"fetched", stats.Fetched,
		"kept", stats.Filtered,
		"keywords", len(s.keywords))

	annotated, skipped, err := s.annotateAll(ctx, filtered, logger)
	if err != nil {
		s.finish(&stats, start, false, logger)
		return stats, err
	}
	stats.Annotated = len(annotated)
	stats.Skipped = skipped
	for _, p := range annotated {
		if p.Featured {
			stats.Featured++
		}
	}

	ds := entity.DailyDataset{Date: date, Papers: annotated}

	tex, err := s.renderer.RenderLaTeX(ds)
	if err != nil {
		s.finish(&stats, start, false, logger)
		return stats, fmt.Errorf("%w: latex: %v", ErrRenderFailed, err)
	}
	html, err := s.renderer.RenderHTML(ds)
	if err != nil {
		s.finish(&stats, start, false, logger)
		return stats, fmt.Errorf("%w: html: %v", ErrRenderFailed, err)
	}

	if err := s.archiver.SaveDaily(ctx, ds, fetched, filtered, tex, html); err != nil {
		s.finish(&stats, start, false, logger)
		return stats, fmt.Errorf("%w: %v", ErrArchiveFailed, err)
	}
	if err := s.archiver.RebuildIndex(ctx); err != nil {
		s.finish(&stats, start, false, logger)
		return stats, fmt.Errorf("%w: index: %v", ErrArchiveFailed, err)
	}

	s.finish(&stats, start, true, logger)
	return stats, nil
}

// annotateAll annotates each filtered paper sequentially, pacing requests
// with the configured interval. A paper whose annotation fails is skipped;
// the stage fails only when the context is cancelled or every paper failed.
func (s *Service) annotateAll(ctx context.Context, papers []entity.Paper, logger *slog.Logger) ([]entity.AnnotatedPaper, int, error) {
	if len(papers) == 0 {
		return nil, 0, nil
	}

	limiter := newAnnotationLimiter(s.annotationInterval)

	annotated := make([]entity.AnnotatedPaper, 0, len(papers))
	skipped := 0

	for _, paper := range papers {
		if err := limiter.Wait(ctx); err != nil {
			return nil, skipped, fmt.Errorf("%w: %v", ErrAnnotationFailed, err)
		}

		ap, err := s.annotator.Annotate(ctx, paper)
		if err != nil {
			if ctx.Err() != nil {
				return nil, skipped, fmt.Errorf("%w: %v", ErrAnnotationFailed, ctx.Err())
			}
			skipped++
			metrics.RecordPaperAnnotated(false)
			logger.Warn("annotation skipped",
				"paper_id", paper.ID,
				"error", err.Error())
			continue
		}

		metrics.RecordPaperAnnotated(true)
		if ap.Featured {
			metrics.RecordPaperFeatured()
		}
		annotated = append(annotated, ap)
	}

	if len(annotated) == 0 {
		return nil, skipped, fmt.Errorf("%w: all %d papers failed", ErrAnnotationFailed, skipped)
	}

	logger.Info("annotation completed",
		"annotated", len(annotated),
		"skipped", skipped)
	return annotated, skipped, nil
}

func (s *Service) finish(stats *RunStats, start time.Time, success bool, logger *slog.Logger) {
	stats.Duration = time.Since(start)
	metrics.RecordRun(success, stats.Duration)
	if success {
		logger.Info("pipeline run completed",
			"date", stats.Date,
			"fetched", stats.Fetched,
			"filtered", stats.Filtered,
			"annotated", stats.Annotated,
			"skipped", stats.Skipped,
			"featured", stats.Featured,
			"duration", stats.Duration.String())
	} else {
		logger.Error("pipeline run failed",
			"date", stats.Date,
			"duration", stats.Duration.String())
	}
}

func newAnnotationLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}
