package analyze

import (
	"context"
	"encoding/json"

	"github.com/leenscore/leenscore/internal/model"
)

// Provider defines the interface to the vision/analysis LLM backend
type Provider interface {
	// Name returns the provider name
	Name() string

	// Analyze runs a credibility analysis and returns the raw JSON payload
	// in the upstream result shape; the normalizer owns making sense of it
	Analyze(ctx context.Context, req Request) (json.RawMessage, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Request is the provider-level analysis input
type Request struct {
	// Content is the text to analyze (already extracted for URL submissions)
	Content string

	// ImageURL is set for screenshot submissions; the provider sends it as
	// vision input instead of Content
	ImageURL string

	// Language the response texts should be written in ("en", "fr", ...)
	Language string

	// Kind of submission, recorded in the prompt for context
	Kind model.AnalysisType
}

// Config holds provider configuration
type Config struct {
	// Model name (provider-specific)
	Model string

	// APIKey for the backend
	APIKey string

	// BaseURL for custom endpoints (tests point this at a mock server)
	BaseURL string

	// Timeout for API requests, in seconds
	Timeout int

	// MaxTokens for response generation
	MaxTokens int
}

// ConfigFromModel converts model.LLMConfig to analyze.Config
func ConfigFromModel(cfg model.LLMConfig) Config {
	return Config{
		Model:     cfg.Model,
		APIKey:    cfg.APIKey,
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		MaxTokens: cfg.MaxTokens,
	}
}
