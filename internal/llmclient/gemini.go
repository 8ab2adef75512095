package llmclient

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"
)

// geminiContentGenerator is the subset of genai.Client this provider calls,
// narrowed so tests can substitute a fake.
type geminiContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiProvider adapts Google's genai SDK to Provider, following
// llm_manager.py's default of model "gemini-pro" when none is configured.
type GeminiProvider struct {
	models      geminiContentGenerator
	model       string
	temperature float32
}

// GeminiConfig carries the constructor parameters.
type GeminiConfig struct {
	APIKey      string
	Model       string
	Temperature float32
}

// NewGeminiProvider builds a Gemini-backed Provider.
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("llmclient: gemini api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-pro"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	return &GeminiProvider{models: client.Models, model: cfg.Model, temperature: cfg.Temperature}, nil
}

// Generate sends prompt as a single-turn request and returns the response's
// aggregated text.
func (p *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{Temperature: &p.temperature}
	resp, err := p.models.GenerateContent(ctx, p.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("llmclient: gemini returned empty response")
	}
	return text, nil
}
