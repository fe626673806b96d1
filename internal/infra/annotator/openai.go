package annotator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"github.com/vegetablefj/bluearxiv/internal/domain/entity"
	"github.com/vegetablefj/bluearxiv/internal/observability/metrics"
	"github.com/vegetablefj/bluearxiv/internal/resilience/circuitbreaker"
	"github.com/vegetablefj/bluearxiv/internal/resilience/retry"
)

// OpenAI implements the Annotator interface using an OpenAI-compatible chat
// completion API. A custom BaseURL makes it work against any compatible
// inference gateway. It includes circuit breaker and retry logic for
// improved reliability.
type OpenAI struct {
	client         *openai.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	config         Config
}

// NewOpenAI creates a new OpenAI-compatible annotator with the given API key.
// It automatically configures circuit breaker and retry logic.
func NewOpenAI(apiKey string, config Config) *OpenAI {
	config.withDefaults()
	if config.Model == "" {
		config.Model = openai.GPT4oMini
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	slog.Info("Initialized OpenAI annotator with configuration",
		slog.String("model", config.Model),
		slog.String("base_url", clientConfig.BaseURL),
		slog.Int("keywords", len(config.Keywords)))

	return &OpenAI{
		client:         openai.NewClientWithConfig(clientConfig),
		circuitBreaker: circuitbreaker.New(circuitbreaker.OpenAIAPIConfig()),
		retryConfig:    retry.AIAPIConfig(),
		config:         config,
	}
}

// Annotate generates a commentary and featured verdict for the paper.
// It uses circuit breaker and retry logic for improved reliability.
func (o *OpenAI) Annotate(ctx context.Context, paper entity.Paper) (entity.AnnotatedPaper, error) {
	ctx, cancel := context.WithTimeout(ctx, o.config.Timeout)
	defer cancel()

	var result entity.AnnotatedPaper

	retryErr := retry.WithBackoff(ctx, o.retryConfig, func() error {
		cbResult, err := o.circuitBreaker.Execute(func() (interface{}, error) {
			return o.doAnnotate(ctx, paper)
		})

		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("openai api circuit breaker open, request rejected",
					slog.String("service", "openai-api"),
					slog.String("state", o.circuitBreaker.State().String()))
				return fmt.Errorf("openai api unavailable: circuit breaker open")
			}
			return err
		}

		result = cbResult.(entity.AnnotatedPaper)
		return nil
	})

	if retryErr != nil {
		return entity.AnnotatedPaper{}, fmt.Errorf("openai annotate %s: %w", paper.ID, retryErr)
	}

	return result, nil
}

// doAnnotate performs the actual API call without retry or circuit breaker.
func (o *OpenAI) doAnnotate(ctx context.Context, paper entity.Paper) (entity.AnnotatedPaper, error) {
	slog.InfoContext(ctx, "Starting annotation",
		slog.String("paper_id", paper.ID),
		slog.String("model", o.config.Model))

	start := time.Now()

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.config.Model,
		MaxTokens:   o.config.MaxTokens,
		Temperature: 0.1,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildUserPrompt(paper, o.config.Keywords)},
		},
	})

	duration := time.Since(start)
	metrics.RecordAnnotationDuration(duration)

	if err != nil {
		slog.ErrorContext(ctx, "Annotation failed",
			slog.String("paper_id", paper.ID),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return entity.AnnotatedPaper{}, fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		slog.ErrorContext(ctx, "OpenAI API returned empty response",
			slog.String("paper_id", paper.ID),
			slog.Duration("duration", duration))
		return entity.AnnotatedPaper{}, fmt.Errorf("openai api returned empty response")
	}

	featured, commentary, err := parseVerdict(resp.Choices[0].Message.Content)
	if err != nil {
		slog.ErrorContext(ctx, "OpenAI API response violated verdict protocol",
			slog.String("paper_id", paper.ID),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return entity.AnnotatedPaper{}, err
	}

	slog.InfoContext(ctx, "Annotation completed",
		slog.String("paper_id", paper.ID),
		slog.Bool("featured", featured),
		slog.Duration("duration", duration))

	return entity.AnnotatedPaper{
		Paper:      paper,
		Commentary: commentary,
		Featured:   featured,
	}, nil
}
