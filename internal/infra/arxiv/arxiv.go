// Package arxiv provides implementations for fetching daily paper listings
// from arXiv. Two fetchers are available: a goquery-based scraper of the
// /list/<category>/new pages and a gofeed-based client for the public Atom
// API. Both include circuit breaker and retry logic for reliability.
package arxiv

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/time/rate"

	"github.com/vegetablefj/bluearxiv/internal/domain/entity"
	"github.com/vegetablefj/bluearxiv/internal/observability/metrics"
)

// Fetcher retrieves the newly published papers for one arXiv category.
type Fetcher interface {
	FetchNew(ctx context.Context, category string) ([]entity.Paper, error)
}

// FetchCategories fetches all configured categories through the given
// fetcher, pacing requests with the interval, deduplicating papers that
// appear under multiple categories (first occurrence wins) and sorting the
// result by paper ID for deterministic downstream output.
//
// A category that fails to fetch is logged and counted; the fetch as a
// whole fails only when every category fails, so one unreachable listing
// does not lose the day's run.
func FetchCategories(ctx context.Context, f Fetcher, categories []string, interval time.Duration) ([]entity.Paper, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("no categories to fetch")
	}

	limiter := newLimiter(interval)

	seen := make(map[string]bool)
	var papers []entity.Paper
	var failed int
	var lastErr error

	for _, category := range categories {
		if err := limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("fetch pacing aborted: %w", err)
		}

		fetched, err := f.FetchNew(ctx, category)
		if err != nil {
			failed++
			lastErr = err
			metrics.RecordFetchError(category, "fetch")
			slog.Warn("category fetch failed",
				slog.String("category", category),
				slog.Any("error", err))
			continue
		}
		metrics.RecordPapersFetched(category, len(fetched))

		for _, p := range fetched {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			papers = append(papers, p)
		}
	}

	if failed == len(categories) {
		return nil, fmt.Errorf("all %d categories failed to fetch: %w", failed, lastErr)
	}

	sort.Slice(papers, func(i, j int) bool { return papers[i].ID < papers[j].ID })
	return papers, nil
}

// newLimiter builds a rate limiter enforcing the configured minimum
// interval between requests. A non-positive interval disables pacing.
func newLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// CategoryFetcher binds a Fetcher to a fixed category list and pacing
// interval, exposing a single FetchAll for the daily pipeline.
type CategoryFetcher struct {
	fetcher    Fetcher
	categories []string
	interval   time.Duration
}

// NewCategoryFetcher creates a CategoryFetcher over the given categories.
func NewCategoryFetcher(f Fetcher, categories []string, interval time.Duration) *CategoryFetcher {
	return &CategoryFetcher{fetcher: f, categories: categories, interval: interval}
}

// FetchAll fetches every configured category, deduplicated and sorted.
func (c *CategoryFetcher) FetchAll(ctx context.Context) ([]entity.Paper, error) {
	return FetchCategories(ctx, c.fetcher, c.categories, c.interval)
}
