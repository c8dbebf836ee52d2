// Package llm wraps the generative text backend behind a small Provider
// interface so agents and tests can swap the real service for a double.
package llm

import (
	"context"

	"github.com/agrimandi/advisor/config"
	"github.com/agrimandi/advisor/internal/jsonx"
)

// Provider is the contract for generative text backends.
type Provider interface {
	// Generate sends a prompt and returns the raw model text.
	Generate(ctx context.Context, prompt string) (string, error)
}

// NewProvider creates a provider based on configuration.
func NewProvider(cfg config.LLMConfig) (Provider, error) {
	return NewOpenAIProvider(cfg), nil
}

// GenerateJSON sends a prompt expected to produce a JSON value and decodes
// the model output into v through the tolerant extractor. A transport error
// and a malformed model reply both surface as a single error so callers
// can fall through to their next tier without distinguishing the two.
func GenerateJSON(ctx context.Context, p Provider, prompt string, v any) error {
	raw, err := p.Generate(ctx, prompt)
	if err != nil {
		return err
	}
	return jsonx.Decode(raw, v)
}
