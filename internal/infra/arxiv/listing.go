package arxiv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sony/gobreaker"

	"github.com/vegetablefj/bluearxiv/internal/domain/entity"
	"github.com/vegetablefj/bluearxiv/internal/resilience/circuitbreaker"
	"github.com/vegetablefj/bluearxiv/internal/resilience/retry"
)

// replacementsMarker splits the new-listing page; everything after it is
// replacement submissions, which are skipped unless configured otherwise.
const replacementsMarker = "Replacement submissions"

// maxListingBody bounds the listing response size (16 MiB).
const maxListingBody = 16 << 20

// ListingConfig holds configuration for the listing fetcher.
type ListingConfig struct {
	// BaseURL is the arXiv site root (default https://arxiv.org).
	BaseURL string

	// IncludeReplacements keeps replacement submissions in the result.
	IncludeReplacements bool

	// UserAgent identifies the fetcher to arXiv.
	UserAgent string
}

// ListingFetcher implements Fetcher by scraping the /list/<category>/new
// pages with goquery. It includes circuit breaker and retry logic.
type ListingFetcher struct {
	client         *http.Client
	config         ListingConfig
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	now            func() time.Time
}

// NewListingFetcher creates a ListingFetcher with the given HTTP client and
// configuration. It automatically configures circuit breaker and retry logic.
func NewListingFetcher(client *http.Client, cfg ListingConfig) *ListingFetcher {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://arxiv.org"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "bluearxiv-daily"
	}
	return &ListingFetcher{
		client:         client,
		config:         cfg,
		circuitBreaker: circuitbreaker.New(circuitbreaker.ArxivFetchConfig()),
		retryConfig:    retry.ArxivFetchConfig(),
		now:            time.Now,
	}
}

// FetchNew retrieves the new-submission listing for a category.
// It uses circuit breaker and retry logic for improved reliability.
func (f *ListingFetcher) FetchNew(ctx context.Context, category string) ([]entity.Paper, error) {
	var papers []entity.Paper

	retryErr := retry.WithBackoff(ctx, f.retryConfig, func() error {
		cbResult, err := f.circuitBreaker.Execute(func() (interface{}, error) {
			return f.doFetch(ctx, category)
		})

		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("arxiv listing circuit breaker open, request rejected",
					slog.String("service", "arxiv-listing"),
					slog.String("category", category),
					slog.String("state", f.circuitBreaker.State().String()))
			}
			return err
		}

		papers = cbResult.([]entity.Paper)
		return nil
	})

	if retryErr != nil {
		return nil, fmt.Errorf("fetch listing %s: %w", category, retryErr)
	}

	return papers, nil
}

// doFetch performs the actual listing fetch without retry or circuit breaker.
func (f *ListingFetcher) doFetch(ctx context.Context, category string) ([]entity.Paper, error) {
	url := fmt.Sprintf("%s/list/%s/new", f.config.BaseURL, category)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &retry.HTTPError{StatusCode: resp.StatusCode, Message: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxListingBody))
	if err != nil {
		return nil, fmt.Errorf("read listing body: %w", err)
	}

	html := string(body)
	// Cut the document before the replacement section. The truncated
	// fragment is still parseable; net/html repairs unbalanced markup.
	if !f.config.IncludeReplacements {
		if i := strings.Index(html, replacementsMarker); i >= 0 {
			html = html[:i]
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse listing html: %w", err)
	}

	return f.extractPapers(doc, category), nil
}

// absLinkPattern matches abstract links in dt entries.
var absLinkPattern = regexp.MustCompile(`^/abs/(.+)$`)

// subjectCodePattern extracts parenthesised subject codes, e.g.
// "Algebraic Geometry (math.AG)" -> "math.AG".
var subjectCodePattern = regexp.MustCompile(`\(([^()\s]{2,20})\)`)

// extractPapers walks the dt/dd pairs of a listing document.
// Entries without an /abs/ link or a following dd are skipped.
func (f *ListingFetcher) extractPapers(doc *goquery.Document, category string) []entity.Paper {
	fetchedAt := f.now()
	var papers []entity.Paper

	doc.Find("dt").Each(func(_ int, dt *goquery.Selection) {
		href, ok := dt.Find(`a[href^="/abs/"]`).First().Attr("href")
		if !ok {
			return
		}
		m := absLinkPattern.FindStringSubmatch(href)
		if m == nil {
			return
		}
		id := m[1]

		dd := dt.NextFiltered("dd")
		if dd.Length() == 0 {
			return
		}

		title := strings.TrimSpace(strings.TrimPrefix(
			strings.TrimSpace(dd.Find("div.list-title").First().Text()), "Title:"))

		var authors []string
		dd.Find("div.list-authors a").Each(func(_ int, a *goquery.Selection) {
			if name := strings.TrimSpace(a.Text()); name != "" {
				authors = append(authors, name)
			}
		})

		categories := parseSubjects(dd.Find("div.list-subjects").First().Text())
		if len(categories) == 0 {
			categories = []string{category}
		}

		abstract := strings.TrimSpace(dd.Find("p.mathjax").First().Text())

		paper := entity.Paper{
			ID:         id,
			Title:      title,
			Authors:    authors,
			Categories: categories,
			Abstract:   abstract,
			FetchedAt:  fetchedAt,
		}
		if err := entity.ValidatePaper(&paper); err != nil {
			slog.Warn("skipping malformed listing entry",
				slog.String("category", category),
				slog.String("id", id),
				slog.Any("error", err))
			return
		}
		papers = append(papers, paper)
	})

	return papers
}

// parseSubjects extracts subject class codes from a list-subjects line.
func parseSubjects(text string) []string {
	var codes []string
	for _, m := range subjectCodePattern.FindAllStringSubmatch(text, -1) {
		codes = append(codes, m[1])
	}
	return codes
}
