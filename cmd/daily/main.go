// Command daily runs the arXiv daily report pipeline: fetch new papers,
// filter by keywords, annotate with an AI provider, render LaTeX and HTML
// and archive the results.
//
// By default it executes a single run for today and exits. With -cron it
// stays resident and runs on a schedule, exposing health and metrics
// endpoints.
package main

import (
	"context"
	"crypto/tls"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/vegetablefj/bluearxiv/internal/config"
	"github.com/vegetablefj/bluearxiv/internal/domain/entity"
	"github.com/vegetablefj/bluearxiv/internal/infra/annotator"
	"github.com/vegetablefj/bluearxiv/internal/infra/archive"
	"github.com/vegetablefj/bluearxiv/internal/infra/arxiv"
	"github.com/vegetablefj/bluearxiv/internal/infra/worker"
	"github.com/vegetablefj/bluearxiv/internal/observability/logging"
	"github.com/vegetablefj/bluearxiv/internal/render"
	"github.com/vegetablefj/bluearxiv/internal/usecase/pipeline"
)

func main() {
	dateFlag := flag.String("date", "", "run date in YYYY-MM-DD form (default: today)")
	rootFlag := flag.String("root", ".", "project root directory")
	cronFlag := flag.String("cron", "", `run as a daemon on the given cron schedule, e.g. "30 6 * * *"`)
	flag.Parse()

	logger := logging.NewLogger()
	slog.SetDefault(logger)

	cfg, err := config.Load(*rootFlag)
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded",
		slog.Int("categories", len(cfg.Categories)),
		slog.Int("keywords", len(cfg.Keywords)),
		slog.String("fetcher", cfg.Fetcher.Type),
		slog.String("annotator", cfg.Annotator.Type))

	svc, cleanup, err := buildPipeline(logger, cfg)
	if err != nil {
		logger.Error("failed to build pipeline", slog.Any("error", err))
		os.Exit(1)
	}
	defer cleanup()

	if *cronFlag != "" {
		runDaemon(logger, cfg, svc, *cronFlag)
		return
	}

	date := *dateFlag
	if date == "" {
		date = time.Now().Format(entity.DateLayout)
	}
	if err := runOnce(logger, cfg, svc, date); err != nil {
		os.Exit(1)
	}
}

// buildPipeline wires the fetcher, annotator, renderer and archive store
// into a pipeline service. The returned cleanup closes the manifest.
func buildPipeline(logger *slog.Logger, cfg *config.Config) (*pipeline.Service, func(), error) {
	fetcher := createFetcher(cfg)
	ann := createAnnotator(logger, cfg)
	renderer := render.New(cfg.Categories, cfg.Keywords)

	manifest, err := archive.OpenManifest(filepath.Join(cfg.Dirs.DataRaw, "manifest.db"))
	if err != nil {
		return nil, nil, err
	}
	store := archive.NewStore(cfg.Dirs, cfg.Categories, renderer, manifest)

	svc := pipeline.NewService(fetcher, ann, renderer, store, cfg.Keywords, cfg.Annotator.RequestInterval)
	cleanup := func() {
		if err := manifest.Close(); err != nil {
			logger.Error("failed to close manifest", slog.Any("error", err))
		}
	}
	return svc, cleanup, nil
}

// createFetcher builds the configured arXiv fetcher wrapped with the
// category pacing adapter.
func createFetcher(cfg *config.Config) pipeline.Fetcher {
	client := createHTTPClient()

	var f arxiv.Fetcher
	switch cfg.Fetcher.Type {
	case config.FetcherAtom:
		f = arxiv.NewAtomFetcher(client, arxiv.AtomConfig{
			APIBaseURL: cfg.Fetcher.APIBaseURL,
		})
	default:
		f = arxiv.NewListingFetcher(client, arxiv.ListingConfig{
			BaseURL:             cfg.Fetcher.BaseURL,
			IncludeReplacements: cfg.Fetcher.IncludeReplacements,
		})
	}
	return arxiv.NewCategoryFetcher(f, cfg.Categories, cfg.Fetcher.RequestInterval)
}

// createAnnotator builds the configured AI annotator. Credentials were
// already validated by config.Load.
func createAnnotator(logger *slog.Logger, cfg *config.Config) pipeline.Annotator {
	annCfg := annotator.Config{
		Model:     cfg.Annotator.Model,
		MaxTokens: cfg.Annotator.MaxTokens,
		Timeout:   cfg.Annotator.Timeout,
		Keywords:  cfg.Keywords,
		BaseURL:   cfg.Annotator.OpenAIBaseURL,
	}

	switch cfg.Annotator.Type {
	case config.AnnotatorOpenAI:
		logger.Info("using OpenAI-compatible annotator",
			slog.String("model", annCfg.Model),
			slog.String("base_url", annCfg.BaseURL))
		return annotator.NewOpenAI(cfg.Annotator.OpenAIAPIKey, annCfg)
	case config.AnnotatorNoOp:
		logger.Info("using noop annotator, no papers will be featured")
		return annotator.NewNoOp()
	default:
		logger.Info("using Claude annotator", slog.String("model", annCfg.Model))
		return annotator.NewClaude(cfg.Annotator.AnthropicAPIKey, annCfg)
	}
}

// createHTTPClient returns the shared HTTP client for arXiv requests.
func createHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
}

// runOnce executes a single pipeline run and the optional PDF post-step.
func runOnce(logger *slog.Logger, cfg *config.Config, svc *pipeline.Service, date string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, err := svc.Run(ctx, date)
	if err != nil {
		logger.Error("run failed", slog.String("date", date), slog.Any("error", err))
		return err
	}
	logger.Info("run completed",
		slog.String("date", stats.Date),
		slog.Int("fetched", stats.Fetched),
		slog.Int("filtered", stats.Filtered),
		slog.Int("annotated", stats.Annotated),
		slog.Int("skipped", stats.Skipped),
		slog.Int("featured", stats.Featured),
		slog.Duration("duration", stats.Duration))

	compilePDF(ctx, logger, cfg, date)
	return nil
}

// compilePDF compiles the dated LaTeX file when PDF output is enabled.
// Failure is logged but never fails the run.
func compilePDF(ctx context.Context, logger *slog.Logger, cfg *config.Config, date string) {
	if !cfg.PDF.Enabled {
		return
	}
	compiler := render.NewPDFCompiler(cfg.PDF.Engine)
	if !compiler.Available() {
		logger.Warn("latexmk not found, skipping pdf compilation")
		return
	}

	texPath := filepath.Join(cfg.Dirs.Tex, fmt.Sprintf("daily_feedback_%s.tex", date))
	pdfPath, err := compiler.Compile(ctx, texPath)
	if err != nil {
		logger.Warn("pdf compilation failed", slog.String("tex", texPath), slog.Any("error", err))
		return
	}
	logger.Info("pdf compiled", slog.String("pdf", pdfPath))
}

// runDaemon runs the pipeline on the given cron schedule until the process
// receives SIGINT or SIGTERM.
func runDaemon(logger *slog.Logger, cfg *config.Config, svc *pipeline.Service, schedule string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workerCfg := worker.LoadConfigFromEnv(logger)
	workerCfg.CronSchedule = schedule
	if err := workerCfg.Validate(); err != nil {
		logger.Error("invalid daemon configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("daemon configuration loaded",
		slog.String("cron_schedule", workerCfg.CronSchedule),
		slog.String("timezone", workerCfg.Timezone),
		slog.Duration("run_timeout", workerCfg.RunTimeout),
		slog.Int("health_port", workerCfg.HealthPort),
		slog.Int("metrics_port", workerCfg.MetricsPort))

	startMetricsServer(ctx, logger, workerCfg.MetricsPort)

	healthServer := worker.NewHealthServer(fmt.Sprintf(":%d", workerCfg.HealthPort), logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	runner, err := worker.NewRunner(logger, workerCfg, func(runCtx context.Context, date string) error {
		_, err := svc.Run(runCtx, date)
		if err != nil {
			return err
		}
		compilePDF(runCtx, logger, cfg, date)
		return nil
	})
	if err != nil {
		logger.Error("failed to create runner", slog.Any("error", err))
		os.Exit(1)
	}
	if err := runner.Start(); err != nil {
		logger.Error("failed to start scheduler", slog.Any("error", err))
		os.Exit(1)
	}

	healthServer.SetReady(true)
	logger.Info("daemon ready")

	<-ctx.Done()
	healthServer.SetReady(false)
	runner.Stop()
	logger.Info("daemon stopped")
}
