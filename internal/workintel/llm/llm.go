// Package llm turns briefs and weekly aggregates into short prose.
package llm

import (
	"context"
	"errors"
)

// ErrEmptyCompletion is returned when the model answered with no text.
var ErrEmptyCompletion = errors.New("llm: empty completion")

// Prompt is one summarisation request. Fallback is the deterministic text
// used when no model is configured or the call fails.
type Prompt struct {
	System    string
	User      string
	MaxTokens int
	Fallback  string
}

// Summarizer produces a summary for a prompt.
type Summarizer interface {
	Summarize(ctx context.Context, p Prompt) (string, error)
}

// Fallback answers every prompt with its precomputed fallback text.
type Fallback struct{}

func (Fallback) Summarize(_ context.Context, p Prompt) (string, error) {
	return p.Fallback, nil
}

// Config selects the model backend.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// New returns an OpenAI-backed summariser, or Fallback when no API key is
// set.
func New(cfg Config) Summarizer {
	if cfg.APIKey == "" {
		return Fallback{}
	}
	return NewOpenAIClient(cfg)
}

// SummarizeOrFallback runs s and falls back to p.Fallback on error. The
// returned error, if any, is informational.
func SummarizeOrFallback(ctx context.Context, s Summarizer, p Prompt) (string, error) {
	if s == nil {
		return p.Fallback, nil
	}
	text, err := s.Summarize(ctx, p)
	if err != nil {
		return p.Fallback, err
	}
	return text, nil
}
