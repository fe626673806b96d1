package annotator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"github.com/vegetablefj/bluearxiv/internal/domain/entity"
	"github.com/vegetablefj/bluearxiv/internal/observability/metrics"
	"github.com/vegetablefj/bluearxiv/internal/resilience/circuitbreaker"
	"github.com/vegetablefj/bluearxiv/internal/resilience/retry"
)

// Claude implements the Annotator interface using Anthropic's Claude API.
// It includes circuit breaker and retry logic for improved reliability.
type Claude struct {
	client         anthropic.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	config         Config
}

// NewClaude creates a new Claude annotator with the given API key.
// It automatically configures circuit breaker and retry logic.
func NewClaude(apiKey string, config Config) *Claude {
	config.withDefaults()
	if config.Model == "" {
		config.Model = "claude-sonnet-4-5-20250929"
	}

	slog.Info("Initialized Claude annotator with configuration",
		slog.String("model", config.Model),
		slog.Int("max_tokens", config.MaxTokens),
		slog.Int("keywords", len(config.Keywords)))

	return &Claude{
		client:         anthropic.NewClient(option.WithAPIKey(apiKey)),
		circuitBreaker: circuitbreaker.New(circuitbreaker.ClaudeAPIConfig()),
		retryConfig:    retry.AIAPIConfig(),
		config:         config,
	}
}

// Annotate generates a commentary and featured verdict for the paper using
// Claude. It uses circuit breaker and retry logic for improved reliability.
func (c *Claude) Annotate(ctx context.Context, paper entity.Paper) (entity.AnnotatedPaper, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	var result entity.AnnotatedPaper

	retryErr := retry.WithBackoff(ctx, c.retryConfig, func() error {
		cbResult, err := c.circuitBreaker.Execute(func() (interface{}, error) {
			return c.doAnnotate(ctx, paper)
		})

		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("claude api circuit breaker open, request rejected",
					slog.String("service", "claude-api"),
					slog.String("state", c.circuitBreaker.State().String()))
				return fmt.Errorf("claude api unavailable: circuit breaker open")
			}
			return err
		}

		result = cbResult.(entity.AnnotatedPaper)
		return nil
	})

	if retryErr != nil {
		return entity.AnnotatedPaper{}, fmt.Errorf("claude annotate %s: %w", paper.ID, retryErr)
	}

	return result, nil
}

// doAnnotate performs the actual API call without retry or circuit breaker.
func (c *Claude) doAnnotate(ctx context.Context, paper entity.Paper) (entity.AnnotatedPaper, error) {
	requestID := uuid.New().String()

	slog.InfoContext(ctx, "Starting annotation",
		slog.String("request_id", requestID),
		slog.String("paper_id", paper.ID),
		slog.String("model", c.config.Model))

	start := time.Now()

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.config.Model),
		MaxTokens: int64(c.config.MaxTokens),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(buildUserPrompt(paper, c.config.Keywords)),
			),
		},
	})

	duration := time.Since(start)
	metrics.RecordAnnotationDuration(duration)

	if err != nil {
		slog.ErrorContext(ctx, "Annotation failed",
			slog.String("request_id", requestID),
			slog.String("paper_id", paper.ID),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return entity.AnnotatedPaper{}, fmt.Errorf("claude api error: %w", err)
	}

	if len(message.Content) == 0 {
		slog.ErrorContext(ctx, "Claude API returned empty response",
			slog.String("request_id", requestID),
			slog.String("paper_id", paper.ID),
			slog.Duration("duration", duration))
		return entity.AnnotatedPaper{}, fmt.Errorf("claude api returned empty response")
	}

	textBlock, ok := message.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		slog.ErrorContext(ctx, "Claude API returned unexpected response type",
			slog.String("request_id", requestID),
			slog.String("paper_id", paper.ID),
			slog.Duration("duration", duration))
		return entity.AnnotatedPaper{}, fmt.Errorf("claude api returned unexpected response type")
	}

	featured, commentary, err := parseVerdict(textBlock.Text)
	if err != nil {
		slog.ErrorContext(ctx, "Claude API response violated verdict protocol",
			slog.String("request_id", requestID),
			slog.String("paper_id", paper.ID),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return entity.AnnotatedPaper{}, err
	}

	slog.InfoContext(ctx, "Annotation completed",
		slog.String("request_id", requestID),
		slog.String("paper_id", paper.ID),
		slog.Bool("featured", featured),
		slog.Duration("duration", duration))

	return entity.AnnotatedPaper{
		Paper:      paper,
		Commentary: commentary,
		Featured:   featured,
	}, nil
}
