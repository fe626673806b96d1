package arxiv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/sony/gobreaker"

	"github.com/vegetablefj/bluearxiv/internal/domain/entity"
	"github.com/vegetablefj/bluearxiv/internal/resilience/circuitbreaker"
	"github.com/vegetablefj/bluearxiv/internal/resilience/retry"
)

// AtomConfig holds configuration for the Atom API fetcher.
type AtomConfig struct {
	// APIBaseURL is the query endpoint
	// (default https://export.arxiv.org/api/query).
	APIBaseURL string

	// MaxResults bounds the number of entries requested per category.
	MaxResults int

	// UserAgent identifies the fetcher to arXiv.
	UserAgent string
}

// AtomFetcher implements Fetcher using the public arXiv Atom API parsed
// with the gofeed library. It includes circuit breaker and retry logic.
type AtomFetcher struct {
	client         *http.Client
	config         AtomConfig
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	now            func() time.Time
}

// NewAtomFetcher creates an AtomFetcher with the given HTTP client and
// configuration. It automatically configures circuit breaker and retry logic.
func NewAtomFetcher(client *http.Client, cfg AtomConfig) *AtomFetcher {
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "https://export.arxiv.org/api/query"
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 200
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "bluearxiv-daily"
	}
	return &AtomFetcher{
		client:         client,
		config:         cfg,
		circuitBreaker: circuitbreaker.New(circuitbreaker.ArxivFetchConfig()),
		retryConfig:    retry.ArxivFetchConfig(),
		now:            time.Now,
	}
}

// FetchNew retrieves the most recently submitted papers for a category
// from the Atom API, newest first.
func (f *AtomFetcher) FetchNew(ctx context.Context, category string) ([]entity.Paper, error) {
	var papers []entity.Paper

	retryErr := retry.WithBackoff(ctx, f.retryConfig, func() error {
		cbResult, err := f.circuitBreaker.Execute(func() (interface{}, error) {
			return f.doFetch(ctx, category)
		})

		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("arxiv atom circuit breaker open, request rejected",
					slog.String("service", "arxiv-atom"),
					slog.String("category", category),
					slog.String("state", f.circuitBreaker.State().String()))
			}
			return err
		}

		papers = cbResult.([]entity.Paper)
		return nil
	})

	if retryErr != nil {
		return nil, fmt.Errorf("fetch atom %s: %w", category, retryErr)
	}

	return papers, nil
}

// doFetch performs the actual API query without retry or circuit breaker.
func (f *AtomFetcher) doFetch(ctx context.Context, category string) ([]entity.Paper, error) {
	query := url.Values{}
	query.Set("search_query", "cat:"+category)
	query.Set("sortBy", "submittedDate")
	query.Set("sortOrder", "descending")
	query.Set("max_results", fmt.Sprintf("%d", f.config.MaxResults))

	fp := gofeed.NewParser()
	fp.UserAgent = f.config.UserAgent
	fp.Client = f.client

	feed, err := fp.ParseURLWithContext(f.config.APIBaseURL+"?"+query.Encode(), ctx)
	if err != nil {
		return nil, err
	}

	fetchedAt := f.now()
	papers := make([]entity.Paper, 0, len(feed.Items))
	for _, it := range feed.Items {
		id := paperIDFromEntry(it)
		if id == "" {
			continue
		}

		var authors []string
		for _, a := range it.Authors {
			if a != nil && a.Name != "" {
				authors = append(authors, a.Name)
			}
		}

		categories := it.Categories
		if len(categories) == 0 {
			categories = []string{category}
		}

		paper := entity.Paper{
			ID:         id,
			Title:      normalizeWhitespace(it.Title),
			Authors:    authors,
			Categories: categories,
			Abstract:   normalizeWhitespace(it.Description),
			FetchedAt:  fetchedAt,
		}
		if err := entity.ValidatePaper(&paper); err != nil {
			slog.Warn("skipping malformed atom entry",
				slog.String("category", category),
				slog.String("id", id),
				slog.Any("error", err))
			continue
		}
		papers = append(papers, paper)
	}

	return papers, nil
}

// paperIDFromEntry derives the arXiv identifier from an Atom entry.
// Entry IDs look like "http://arxiv.org/abs/2408.01234v1"; the version
// suffix is stripped so re-announced versions map to the same paper.
func paperIDFromEntry(it *gofeed.Item) string {
	raw := it.GUID
	if raw == "" {
		raw = it.Link
	}
	i := strings.Index(raw, "/abs/")
	if i < 0 {
		return ""
	}
	id := raw[i+len("/abs/"):]
	// strip trailing version marker
	if j := strings.LastIndex(id, "v"); j > 0 {
		allDigits := j+1 < len(id)
		for _, r := range id[j+1:] {
			if r < '0' || r > '9' {
				allDigits = false
				break
			}
		}
		if allDigits {
			id = id[:j]
		}
	}
	return id
}

// normalizeWhitespace collapses the newlines and runs of spaces that the
// Atom API embeds in titles and abstracts.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
