// Package config loads and validates the pipeline configuration.
// Categories and keywords come from plain-text files, tunables from an
// optional settings.yaml, and credentials from environment variables.
// The resolved Config is passed explicitly into the pipeline so components
// stay independently testable.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	pkgconfig "github.com/vegetablefj/bluearxiv/pkg/config"
)

// Annotator provider types selectable via ANNOTATOR_TYPE.
const (
	AnnotatorClaude = "claude"
	AnnotatorOpenAI = "openai"
	AnnotatorNoOp   = "noop"
)

// Fetcher implementations selectable via ARXIV_FETCHER.
const (
	FetcherListing = "listing"
	FetcherAtom    = "atom"
)

// Config is the complete pipeline configuration for one run.
type Config struct {
	// Categories lists the arXiv subject classes to fetch, in report order.
	Categories []string

	// Keywords is the case-insensitive filter list. Empty means match all.
	Keywords []string

	Dirs      Dirs
	Fetcher   FetcherConfig
	Annotator AnnotatorConfig
	PDF       PDFConfig
}

// Dirs holds the output directory layout rooted at the project directory.
type Dirs struct {
	// Root is the project root; latest.tex is written here.
	Root string

	// DataRaw holds intermediate JSON snapshots (data/raw).
	DataRaw string

	// Tex holds dated LaTeX copies (data/raw/daily_feedback_tex).
	Tex string

	// Docs holds the published HTML site (docs).
	Docs string
}

// FetcherConfig controls how papers are fetched from arXiv.
type FetcherConfig struct {
	// Type selects the fetcher implementation: "listing" (default) scrapes
	// the /list/<cat>/new pages, "atom" queries the public Atom API.
	Type string

	// BaseURL is the arXiv site root used by the listing fetcher.
	BaseURL string

	// APIBaseURL is the Atom API endpoint used by the atom fetcher.
	APIBaseURL string

	// RequestInterval paces successive category requests.
	RequestInterval time.Duration

	// IncludeReplacements keeps replacement submissions in the listing.
	IncludeReplacements bool
}

// AnnotatorConfig controls the AI annotation providers.
type AnnotatorConfig struct {
	// Type selects the provider: "claude", "openai" or "noop".
	Type string

	// Model overrides the provider's default model identifier.
	Model string

	// MaxTokens bounds the response size per annotation.
	MaxTokens int

	// Timeout bounds a single annotation API call.
	Timeout time.Duration

	// RequestInterval paces successive annotation calls.
	RequestInterval time.Duration

	// AnthropicAPIKey authenticates the primary (Claude) provider.
	AnthropicAPIKey string

	// OpenAIAPIKey authenticates the backup OpenAI-compatible provider.
	OpenAIAPIKey string

	// OpenAIBaseURL points the backup provider at an OpenAI-compatible
	// endpoint (e.g., ModelScope or DeepSeek). Empty means api.openai.com.
	OpenAIBaseURL string
}

// PDFConfig controls the optional LaTeX compilation post-step.
type PDFConfig struct {
	// Enabled turns PDF compilation on. Compilation failure never fails a run.
	Enabled bool

	// Engine is the LaTeX engine passed to latexmk (default xelatex).
	Engine string
}

// settings mirrors the optional config/settings.yaml file. Durations are
// strings ("30s", "1m") and parsed explicitly; pointer fields distinguish
// "absent" from zero values.
type settings struct {
	Fetcher struct {
		Type                string `yaml:"type"`
		BaseURL             string `yaml:"base_url"`
		APIBaseURL          string `yaml:"api_base_url"`
		RequestInterval     string `yaml:"request_interval"`
		IncludeReplacements *bool  `yaml:"include_replacements"`
	} `yaml:"fetcher"`
	Annotator struct {
		Type            string `yaml:"type"`
		Model           string `yaml:"model"`
		MaxTokens       int    `yaml:"max_tokens"`
		Timeout         string `yaml:"timeout"`
		RequestInterval string `yaml:"request_interval"`
		BaseURL         string `yaml:"base_url"`
	} `yaml:"annotator"`
	PDF struct {
		Enabled *bool  `yaml:"enabled"`
		Engine  string `yaml:"engine"`
	} `yaml:"pdf"`
}

// Load builds the pipeline configuration rooted at the given project
// directory. It reads config/categories.txt and config/keywords.txt,
// merges the optional config/settings.yaml, then applies environment
// overrides for provider selection and credentials.
//
// A missing categories file is an error: without categories there is
// nothing to fetch. A missing keywords file means "match all".
func Load(root string) (*Config, error) {
	cfg := defaults(root)

	categories, err := ReadListFile(filepath.Join(root, "config", "categories.txt"))
	if err != nil {
		return nil, fmt.Errorf("read categories: %w", err)
	}
	if len(categories) == 0 {
		return nil, fmt.Errorf("no categories configured in config/categories.txt")
	}
	cfg.Categories = categories

	keywords, err := ReadListFile(filepath.Join(root, "config", "keywords.txt"))
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read keywords: %w", err)
	}
	cfg.Keywords = keywords

	if err := cfg.mergeSettingsFile(filepath.Join(root, "config", "settings.yaml")); err != nil {
		return nil, err
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// defaults returns the configuration baseline before file and env overrides.
func defaults(root string) *Config {
	return &Config{
		Dirs: Dirs{
			Root:    root,
			DataRaw: filepath.Join(root, "data", "raw"),
			Tex:     filepath.Join(root, "data", "raw", "daily_feedback_tex"),
			Docs:    filepath.Join(root, "docs"),
		},
		Fetcher: FetcherConfig{
			Type:            FetcherListing,
			BaseURL:         "https://arxiv.org",
			APIBaseURL:      "https://export.arxiv.org/api/query",
			RequestInterval: 1 * time.Second,
		},
		Annotator: AnnotatorConfig{
			Type:            AnnotatorClaude,
			MaxTokens:       1024,
			Timeout:         60 * time.Second,
			RequestInterval: 1 * time.Second,
		},
		PDF: PDFConfig{
			Enabled: false,
			Engine:  "xelatex",
		},
	}
}

// mergeSettingsFile overlays the optional YAML settings file onto the
// defaults. A missing file is not an error.
func (c *Config) mergeSettingsFile(path string) error {
	data, err := os.ReadFile(path) // #nosec G304 -- path derives from the project root
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}

	var s settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("parse settings.yaml: %w", err)
	}

	setString(&c.Fetcher.Type, s.Fetcher.Type)
	setString(&c.Fetcher.BaseURL, s.Fetcher.BaseURL)
	setString(&c.Fetcher.APIBaseURL, s.Fetcher.APIBaseURL)
	if err := setDuration(&c.Fetcher.RequestInterval, s.Fetcher.RequestInterval); err != nil {
		return fmt.Errorf("settings.yaml fetcher.request_interval: %w", err)
	}
	if s.Fetcher.IncludeReplacements != nil {
		c.Fetcher.IncludeReplacements = *s.Fetcher.IncludeReplacements
	}

	setString(&c.Annotator.Type, s.Annotator.Type)
	setString(&c.Annotator.Model, s.Annotator.Model)
	if s.Annotator.MaxTokens > 0 {
		c.Annotator.MaxTokens = s.Annotator.MaxTokens
	}
	if err := setDuration(&c.Annotator.Timeout, s.Annotator.Timeout); err != nil {
		return fmt.Errorf("settings.yaml annotator.timeout: %w", err)
	}
	if err := setDuration(&c.Annotator.RequestInterval, s.Annotator.RequestInterval); err != nil {
		return fmt.Errorf("settings.yaml annotator.request_interval: %w", err)
	}
	setString(&c.Annotator.OpenAIBaseURL, s.Annotator.BaseURL)

	if s.PDF.Enabled != nil {
		c.PDF.Enabled = *s.PDF.Enabled
	}
	setString(&c.PDF.Engine, s.PDF.Engine)
	return nil
}

// setString assigns value when it is non-empty.
func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// setDuration parses and assigns value when it is non-empty.
func setDuration(dst *time.Duration, value string) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}

// applyEnv applies environment variable overrides on top of file settings.
func (c *Config) applyEnv() {
	c.Fetcher.Type = pkgconfig.GetEnvString("ARXIV_FETCHER", c.Fetcher.Type)
	c.Fetcher.BaseURL = pkgconfig.GetEnvString("ARXIV_BASE_URL", c.Fetcher.BaseURL)
	c.Fetcher.IncludeReplacements = pkgconfig.GetEnvBool("ARXIV_INCLUDE_REPLACEMENTS", c.Fetcher.IncludeReplacements)
	c.Fetcher.RequestInterval = pkgconfig.GetEnvDuration("ARXIV_REQUEST_INTERVAL", c.Fetcher.RequestInterval)

	c.Annotator.Type = pkgconfig.GetEnvString("ANNOTATOR_TYPE", c.Annotator.Type)
	c.Annotator.Model = pkgconfig.GetEnvString("ANNOTATOR_MODEL", c.Annotator.Model)
	c.Annotator.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	c.Annotator.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	c.Annotator.OpenAIBaseURL = pkgconfig.GetEnvString("OPENAI_BASE_URL", c.Annotator.OpenAIBaseURL)

	c.PDF.Enabled = pkgconfig.GetEnvBool("PDF_ENABLED", c.PDF.Enabled)
}

// Validate checks the configuration for inconsistencies that would make a
// run fail late. Credential checks are provider-specific: only the selected
// provider's key is required.
func (c *Config) Validate() error {
	switch c.Fetcher.Type {
	case FetcherListing, FetcherAtom:
	default:
		return fmt.Errorf("unknown fetcher type %q", c.Fetcher.Type)
	}

	switch c.Annotator.Type {
	case AnnotatorClaude:
		if c.Annotator.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for the claude annotator")
		}
	case AnnotatorOpenAI:
		if c.Annotator.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai annotator")
		}
	case AnnotatorNoOp:
	default:
		return fmt.Errorf("unknown annotator type %q", c.Annotator.Type)
	}

	if err := pkgconfig.ValidatePositiveDuration(c.Annotator.Timeout); err != nil {
		return fmt.Errorf("invalid annotator timeout: %w", err)
	}
	if c.Annotator.MaxTokens <= 0 {
		return fmt.Errorf("annotator max_tokens must be positive, got %d", c.Annotator.MaxTokens)
	}
	if c.Fetcher.RequestInterval < 0 {
		return fmt.Errorf("fetcher request_interval cannot be negative")
	}
	return nil
}
